package spapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/ports"
	"github.com/rs/zerolog"
)

const (
	defaultUserAgent = "AmazonCheck/1.0 (Language=Go)"
	requestTimeout   = 30 * time.Second
)

// AppIdentity is the LWA client identity the application was published with,
// taken from the environment. When set, it takes precedence over whatever
// client id/secret a stored credential carries: the refresh token was issued
// against the published application, so exchanging it with a stale stored
// identity would fail or, worse, succeed against the wrong app variant.
type AppIdentity struct {
	ClientID     string
	ClientSecret string
}

// Client issues authenticated calls against the regional SP-API host for one
// credential. Authentication is LWA bearer tokens only; SP-API dropped AWS
// SigV4 request signing for this API family in October 2023.
//
// The client never retries: non-2xx responses surface as *APIRequestError and
// the calling business layer decides whether to degrade to persisted data,
// surface the failure, or abort.
type Client struct {
	region    string
	sellerID  string
	tokens    *tokenSource
	baseURL   string // overrides scheme+host when set (tests)
	userAgent string

	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client for both API requests
// and token exchanges.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.tokens.httpClient = hc
	}
}

// WithBaseURL routes all API requests to a fixed base URL instead of the
// regional host. Used in tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithTokenURL points token exchanges at a non-default endpoint. Used in tests.
func WithTokenURL(tokenURL string) Option {
	return func(c *Client) { c.tokens.tokenURL = tokenURL }
}

// WithClock replaces the token cache's clock. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.tokens.now = now }
}

// NewClient builds a client for one credential. If the environment identity
// disagrees with the credential's stored client id, the environment wins and
// a warning is logged so operators can spot stale records; secret material is
// never logged, truncated or otherwise.
func NewClient(cred *domain.Credential, identity AppIdentity, logger zerolog.Logger, opts ...Option) *Client {
	clientID := cred.LWAClientID
	clientSecret := cred.LWAClientSecret
	if identity.ClientID != "" {
		if identity.ClientID != cred.LWAClientID {
			logger.Warn().
				Str("account_id", cred.AccountID).
				Msg("stored credential client id does not match the configured application identity; " +
					"using the configured identity (the refresh token was issued for the published app)")
		}
		clientID = identity.ClientID
		clientSecret = identity.ClientSecret
	}

	hc := &http.Client{Timeout: requestTimeout}
	c := &Client{
		region:   cred.Region,
		sellerID: cred.SellerID,
		tokens: &tokenSource{
			clientID:     clientID,
			clientSecret: clientSecret,
			refreshToken: cred.RefreshToken,
			tokenURL:     DefaultTokenURL,
			httpClient:   hc,
			now:          time.Now,
			logger:       logger,
		},
		userAgent:  defaultUserAgent,
		httpClient: hc,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one authenticated request. The path may already carry a query
// string; caller and marketplace parameters are merged, with marketplaceIds
// comma-joined when scoping is requested.
func (c *Client) do(ctx context.Context, method, path string, marketplaceIDs []string, body any) (map[string]any, error) {
	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	basePath, rawQuery, _ := strings.Cut(path, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if len(marketplaceIDs) > 0 {
		query.Set("marketplaceIds", strings.Join(marketplaceIDs, ","))
	}

	reqURL := url.URL{Scheme: "https", Host: HostForRegion(c.region), Path: basePath, RawQuery: query.Encode()}
	target := reqURL.String()
	if c.baseURL != "" {
		target = c.baseURL + basePath
		if encoded := query.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-amz-access-token", accessToken)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sp-api request failed: %w", err)
	}
	defer resp.Body.Close()
	apiRequestDuration.Observe(time.Since(start).Seconds())
	observeRequest(method, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sp-api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", target).
			Msg("sp-api request rejected")
		return nil, &APIRequestError{StatusCode: resp.StatusCode, URL: target, Body: string(respBody)}
	}

	data := map[string]any{}
	if len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, &data); err != nil {
			return nil, fmt.Errorf("failed to decode sp-api response: %w", err)
		}
	}
	return data, nil
}

// objectSlice extracts a []map field, tolerating its absence.
func objectSlice(data map[string]any, key string) []map[string]any {
	raw, ok := data[key].([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// GetCatalogItems fetches catalog items for one marketplace.
func (c *Client) GetCatalogItems(ctx context.Context, marketplaceID string) ([]map[string]any, error) {
	data, err := c.do(ctx, http.MethodGet, "/catalog/2022-04-01/items", []string{marketplaceID}, nil)
	if err != nil {
		return nil, err
	}
	return objectSlice(data, "items"), nil
}

// SearchCatalog runs a public keyword search against the catalog. Used as a
// connectivity diagnostic since it needs no restricted permissions.
func (c *Client) SearchCatalog(ctx context.Context, marketplaceID, keywords string) (map[string]any, error) {
	path := "/catalog/2022-04-01/items?keywords=" + url.QueryEscape(keywords)
	return c.do(ctx, http.MethodGet, path, []string{marketplaceID}, nil)
}

// GetSellerSKUs fetches the seller's own catalog items by seller identifier.
func (c *Client) GetSellerSKUs(ctx context.Context, marketplaceID, sellerID string) ([]map[string]any, error) {
	path := "/catalog/2022-04-01/items?sellerId=" + url.QueryEscape(sellerID) + "&pageSize=20"
	data, err := c.do(ctx, http.MethodGet, path, []string{marketplaceID}, nil)
	if err != nil {
		return nil, err
	}
	return objectSlice(data, "items"), nil
}

// CreateReport submits a report job and returns its id.
func (c *Client) CreateReport(ctx context.Context, reportType string, marketplaceIDs []string) (string, error) {
	body := map[string]any{
		"reportType":     reportType,
		"marketplaceIds": marketplaceIDs,
	}
	data, err := c.do(ctx, http.MethodPost, "/reports/2021-06-30/reports", nil, body)
	if err != nil {
		return "", err
	}
	reportID, _ := data["reportId"].(string)
	return reportID, nil
}

// GetReport fetches a report job by id.
func (c *Client) GetReport(ctx context.Context, reportID string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/reports/2021-06-30/reports/"+reportID, nil, nil)
}

// GetInventorySummaries fetches FBA inventory summaries for one marketplace.
func (c *Client) GetInventorySummaries(ctx context.Context, marketplaceID string) ([]map[string]any, error) {
	data, err := c.do(ctx, http.MethodGet, "/fba/inventory/v1/summaries", []string{marketplaceID}, nil)
	if err != nil {
		return nil, err
	}
	return objectSlice(data, "inventorySummaries"), nil
}

// GetOrders fetches orders created after the given instant.
func (c *Client) GetOrders(ctx context.Context, marketplaceID string, createdAfter time.Time) ([]map[string]any, error) {
	path := "/orders/v0/orders?CreatedAfter=" + url.QueryEscape(createdAfter.UTC().Format(time.RFC3339))
	data, err := c.do(ctx, http.MethodGet, path, []string{marketplaceID}, nil)
	if err != nil {
		return nil, err
	}
	return objectSlice(data, "Orders"), nil
}

// GetOrderMetrics fetches the seller's aggregated order metrics.
func (c *Client) GetOrderMetrics(ctx context.Context, marketplaceID string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/sales/v1/orderMetrics", []string{marketplaceID}, nil)
}

// GetAdvertisingCampaigns fetches sponsored-product campaigns. The profile id
// is not bound until the Advertising API integration lands; the parameter
// stays in the signature so callers pass it from day one.
func (c *Client) GetAdvertisingCampaigns(ctx context.Context, _ string) ([]map[string]any, error) {
	data, err := c.do(ctx, http.MethodGet, "/sp/campaigns?stateFilter=enabled,paused,archived", nil, nil)
	if err != nil {
		return nil, err
	}
	return objectSlice(data, "campaigns"), nil
}

// MarketplaceParticipations is the lightest authenticated call SP-API offers,
// used to verify that a credential works end to end.
func (c *Client) MarketplaceParticipations(ctx context.Context) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, "/sellers/v1/marketplaceParticipations", nil, nil)
}

// Factory builds clients bound to the application's environment identity. It
// implements ports.ClientFactory.
type Factory struct {
	identity AppIdentity
	logger   zerolog.Logger
	opts     []Option
}

// NewFactory creates a client factory.
func NewFactory(identity AppIdentity, logger zerolog.Logger, opts ...Option) *Factory {
	return &Factory{identity: identity, logger: logger, opts: opts}
}

// ClientFor builds a client owning its own token cache for one credential.
func (f *Factory) ClientFor(cred *domain.Credential) ports.SellingPartnerClient {
	return NewClient(cred, f.identity, f.logger, f.opts...)
}
