package ports

import (
	"context"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
)

// AccountRepository defines the interface for seller account persistence.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	// GetByID returns (nil, nil) when the account does not exist.
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// MarketplaceConnectionRepository defines the interface for marketplace
// connection persistence.
type MarketplaceConnectionRepository interface {
	Create(ctx context.Context, conn *domain.MarketplaceConnection) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.MarketplaceConnection, error)
}

// CredentialRepository defines the interface for SP-API credential
// persistence. There is at most one credential per account.
type CredentialRepository interface {
	Create(ctx context.Context, cred *domain.Credential) error
	// GetByAccount returns (nil, nil) when no credential exists for the account.
	GetByAccount(ctx context.Context, accountID string) (*domain.Credential, error)
	Update(ctx context.Context, cred *domain.Credential) error
	DeleteByID(ctx context.Context, id string) error
	UpdateLastSyncedAt(ctx context.Context, accountID string, at time.Time) error
}

// CatalogRepository defines the interface for synced listing, inventory and
// metric data. Writes are upserts keyed by the natural key of each resource.
type CatalogRepository interface {
	SaveListing(ctx context.Context, listing *domain.Listing) error
	ListListings(ctx context.Context, accountID, marketplace string) ([]*domain.Listing, error)
	SaveInventoryItem(ctx context.Context, item *domain.InventoryItem) error
	ListInventory(ctx context.Context, accountID, marketplace string) ([]*domain.InventoryItem, error)
	ListMetrics(ctx context.Context, accountID, marketplace string) ([]*domain.DashboardMetric, error)
}
