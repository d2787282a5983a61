package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTokenURL is the fixed LWA token endpoint serving both grant flows.
const DefaultTokenURL = "https://api.amazon.com/auth/o2/token"

const (
	// expirySafetyMargin is subtracted from expires_in so a token is renewed
	// before clock skew or an in-flight request can push it past expiry.
	expirySafetyMargin = 300 * time.Second

	exchangeTimeout = 30 * time.Second
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// exchangeGrant POSTs one form-encoded grant to the LWA token endpoint.
// Non-2xx responses become *TokenExchangeError with the provider's status and
// body; retry policy is the caller's.
func exchangeGrant(ctx context.Context, client *http.Client, tokenURL string, grant Grant, form url.Values) (*tokenResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		observeExchange(grant, err)
		return nil, fmt.Errorf("failed to reach token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		exchangeErr := &TokenExchangeError{Grant: grant, StatusCode: resp.StatusCode, Body: string(body)}
		observeExchange(grant, exchangeErr)
		return nil, exchangeErr
	}
	observeExchange(grant, nil)

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &token, nil
}

// tokenSource produces a valid bearer token for one credential, caching the
// short-lived access token in memory and renewing it through the refresh-token
// grant when the cached one is past its safety margin. The cache is scoped to
// the owning client and never persisted.
type tokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string

	tokenURL   string
	httpClient *http.Client
	now        func() time.Time
	logger     zerolog.Logger

	// mu single-flights concurrent renewals so racing requests perform one
	// exchange instead of one each.
	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func (ts *tokenSource) AccessToken(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.accessToken != "" && ts.now().Before(ts.expiresAt) {
		return ts.accessToken, nil
	}

	ts.logger.Debug().Msg("requesting new access token from LWA")
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", ts.refreshToken)
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)

	token, err := exchangeGrant(ctx, ts.httpClient, ts.tokenURL, GrantRefreshToken, form)
	if err != nil {
		return "", err
	}

	ts.accessToken = token.AccessToken
	ts.expiresAt = ts.now().Add(time.Duration(token.ExpiresIn)*time.Second - expirySafetyMargin)
	ts.logger.Debug().Int("expires_in", token.ExpiresIn).Msg("obtained access token")
	return ts.accessToken, nil
}

// Exchanger performs the authorization-code grant used when a seller first
// connects. It implements ports.CodeExchanger.
type Exchanger struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
}

// NewExchanger creates a code exchanger for the application's LWA identity.
func NewExchanger(clientID, clientSecret string) *Exchanger {
	return &Exchanger{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     DefaultTokenURL,
		httpClient:   &http.Client{Timeout: exchangeTimeout},
	}
}

// NewExchangerWithEndpoint creates a code exchanger against a non-default
// token endpoint. Used in tests.
func NewExchangerWithEndpoint(clientID, clientSecret, tokenURL string) *Exchanger {
	e := NewExchanger(clientID, clientSecret)
	e.tokenURL = tokenURL
	return e
}

// ExchangeCode trades an authorization code for the long-lived refresh token.
func (e *Exchanger) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", e.clientID)
	form.Set("client_secret", e.clientSecret)

	token, err := exchangeGrant(ctx, e.httpClient, e.tokenURL, GrantAuthorizationCode, form)
	if err != nil {
		return "", err
	}
	return token.RefreshToken, nil
}
