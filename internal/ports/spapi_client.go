package ports

import (
	"context"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
)

// SellingPartnerClient defines the interface for SP-API operations. Each
// method fixes a path/method/marketplace-scope combination on top of one
// authenticated request primitive. Responses are parsed JSON with no schema
// validation; callers own their shape expectations.
type SellingPartnerClient interface {
	// Catalog
	GetCatalogItems(ctx context.Context, marketplaceID string) ([]map[string]any, error)
	SearchCatalog(ctx context.Context, marketplaceID, keywords string) (map[string]any, error)
	GetSellerSKUs(ctx context.Context, marketplaceID, sellerID string) ([]map[string]any, error)

	// Reports
	CreateReport(ctx context.Context, reportType string, marketplaceIDs []string) (string, error)
	GetReport(ctx context.Context, reportID string) (map[string]any, error)

	// Inventory and orders
	GetInventorySummaries(ctx context.Context, marketplaceID string) ([]map[string]any, error)
	GetOrders(ctx context.Context, marketplaceID string, createdAfter time.Time) ([]map[string]any, error)
	GetOrderMetrics(ctx context.Context, marketplaceID string) (map[string]any, error)

	// Advertising
	GetAdvertisingCampaigns(ctx context.Context, profileID string) ([]map[string]any, error)

	// Diagnostics
	MarketplaceParticipations(ctx context.Context) (map[string]any, error)
}

// ClientFactory builds a SellingPartnerClient bound to one credential. Each
// client owns its token cache, so repeated calls within one handler invocation
// reuse the cached access token.
type ClientFactory interface {
	ClientFor(cred *domain.Credential) SellingPartnerClient
}

// CodeExchanger performs the authorization-code grant leg of the OAuth
// handshake and returns the long-lived refresh token.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (refreshToken string, err error)
}
