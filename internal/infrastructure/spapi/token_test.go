package spapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredential() *domain.Credential {
	return &domain.Credential{
		ID:              "cred-1",
		AccountID:       "acct-1",
		LWAClientID:     "amzn1.application-oa2-client.test",
		LWAClientSecret: "secret",
		RefreshToken:    "Atzr|refresh",
		Region:          "NA",
		SellerID:        "A1SELLER",
		IsActive:        true,
	}
}

// fakeLWA is a stub token endpoint counting exchanges.
func fakeLWA(t *testing.T, exchanges *atomic.Int64, expiresIn int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		n := exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"bearer","expires_in":%d}`, n, expiresIn)
	}))
}

func TestAccessTokenCachesUntilExpiry(t *testing.T) {
	var exchanges atomic.Int64
	lwa := fakeLWA(t, &exchanges, 3600)
	defer lwa.Close()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	client := NewClient(testCredential(), AppIdentity{}, zerolog.Nop(),
		WithTokenURL(lwa.URL),
		WithClock(func() time.Time { return now }),
	)

	first, err := client.tokens.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)

	second, err := client.tokens.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), exchanges.Load(), "cached token must not hit the network")
}

func TestAccessTokenRenewsAtSafetyMarginBoundary(t *testing.T) {
	var exchanges atomic.Int64
	lwa := fakeLWA(t, &exchanges, 3600)
	defer lwa.Close()

	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	client := NewClient(testCredential(), AppIdentity{}, zerolog.Nop(),
		WithTokenURL(lwa.URL),
		WithClock(func() time.Time { return now }),
	)

	_, err := client.tokens.AccessToken(context.Background())
	require.NoError(t, err)

	// The cached token is valid until expires_in minus the 300s margin.
	boundary := start.Add(3600*time.Second - expirySafetyMargin)

	now = boundary.Add(-time.Second)
	_, err = client.tokens.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), exchanges.Load(), "inside the margin boundary: no renewal")

	now = boundary.Add(time.Second)
	_, err = client.tokens.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), exchanges.Load(), "past the margin boundary: renewal")
}

func TestAccessTokenExchangeRejected(t *testing.T) {
	lwa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer lwa.Close()

	client := NewClient(testCredential(), AppIdentity{}, zerolog.Nop(), WithTokenURL(lwa.URL))

	_, err := client.tokens.AccessToken(context.Background())
	var exchangeErr *TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, GrantRefreshToken, exchangeErr.Grant)
	assert.Equal(t, http.StatusBadRequest, exchangeErr.StatusCode)
	assert.Contains(t, exchangeErr.Body, "invalid_grant")
	assert.Contains(t, exchangeErr.Remediation(), "Re-authorize")
}

func TestAccessTokenSingleFlight(t *testing.T) {
	var exchanges atomic.Int64
	lwa := fakeLWA(t, &exchanges, 3600)
	defer lwa.Close()

	client := NewClient(testCredential(), AppIdentity{}, zerolog.Nop(), WithTokenURL(lwa.URL))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.tokens.AccessToken(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), exchanges.Load(), "concurrent demand must not fan out into redundant exchanges")
}

func TestEnvironmentIdentityOverridesStoredClientID(t *testing.T) {
	var gotClientID string
	lwa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotClientID = r.Form.Get("client_id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	}))
	defer lwa.Close()

	identity := AppIdentity{ClientID: "amzn1.application-oa2-client.published", ClientSecret: "published-secret"}
	client := NewClient(testCredential(), identity, zerolog.Nop(), WithTokenURL(lwa.URL))

	_, err := client.tokens.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, identity.ClientID, gotClientID)
}

func TestExchangeCode(t *testing.T) {
	lwa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "code-123", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600,"refresh_token":"Atzr|new"}`))
	}))
	defer lwa.Close()

	exchanger := NewExchangerWithEndpoint("client-id", "client-secret", lwa.URL)
	refreshToken, err := exchanger.ExchangeCode(context.Background(), "code-123")
	require.NoError(t, err)
	assert.Equal(t, "Atzr|new", refreshToken)
}

func TestExchangeCodeRejected(t *testing.T) {
	lwa := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer lwa.Close()

	exchanger := NewExchangerWithEndpoint("client-id", "client-secret", lwa.URL)
	_, err := exchanger.ExchangeCode(context.Background(), "stale")

	var exchangeErr *TokenExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, GrantAuthorizationCode, exchangeErr.Grant)
	assert.Contains(t, exchangeErr.Remediation(), "Restart the connection flow")
}
