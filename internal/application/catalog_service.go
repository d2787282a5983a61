package application

import (
	"context"
	"fmt"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"github.com/rs/zerolog"
)

// CatalogService serves the listing and inventory read paths. Reads go to
// SP-API live when the account holds an active credential and degrade to the
// rows most recently persisted by sync when the live read fails or no
// credential exists.
type CatalogService struct {
	credentials ports.CredentialRepository
	catalog     ports.CatalogRepository
	clients     ports.ClientFactory
	logger      zerolog.Logger
}

// NewCatalogService creates a catalog read service.
func NewCatalogService(
	credentials ports.CredentialRepository,
	catalog ports.CatalogRepository,
	clients ports.ClientFactory,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		credentials: credentials,
		catalog:     catalog,
		clients:     clients,
		logger:      logger,
	}
}

// Listings returns live catalog items mapped to listing rows, falling back to
// the persisted listings when no live read is possible.
func (s *CatalogService) Listings(ctx context.Context, accountID, marketplace string) ([]*domain.Listing, error) {
	cred, err := s.credentials.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || !cred.IsActive {
		return s.storedListings(ctx, accountID, marketplace)
	}

	client := s.clients.ClientFor(cred)
	items, err := client.GetCatalogItems(ctx, spapi.MarketplaceID(marketplace))
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("live catalog read failed, serving persisted listings")
		return s.storedListings(ctx, accountID, marketplace)
	}
	if len(items) == 0 && cred.SellerID != "" {
		// A bare catalog response is common right after connection; the
		// seller's own SKU listing often has data before the catalog does.
		if skus, err := client.GetSellerSKUs(ctx, spapi.MarketplaceID(marketplace), cred.SellerID); err == nil {
			items = skus
		}
	}

	listings := make([]*domain.Listing, 0, len(items))
	for _, item := range items {
		listings = append(listings, listingFromCatalogItem(accountID, marketplace, item))
	}
	return listings, nil
}

func (s *CatalogService) storedListings(ctx context.Context, accountID, marketplace string) ([]*domain.Listing, error) {
	listings, err := s.catalog.ListListings(ctx, accountID, marketplace)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, nil
}

// Inventory returns live FBA inventory mapped to inventory rows, falling back
// to the persisted rows when no live read is possible.
func (s *CatalogService) Inventory(ctx context.Context, accountID, marketplace string) ([]*domain.InventoryItem, error) {
	cred, err := s.credentials.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || !cred.IsActive {
		return s.storedInventory(ctx, accountID, marketplace)
	}

	client := s.clients.ClientFor(cred)
	summaries, err := client.GetInventorySummaries(ctx, spapi.MarketplaceID(marketplace))
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("live inventory read failed, serving persisted rows")
		return s.storedInventory(ctx, accountID, marketplace)
	}

	items := make([]*domain.InventoryItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, inventoryFromSummary(accountID, marketplace, summary))
	}
	return items, nil
}

func (s *CatalogService) storedInventory(ctx context.Context, accountID, marketplace string) ([]*domain.InventoryItem, error) {
	items, err := s.catalog.ListInventory(ctx, accountID, marketplace)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if items == nil {
		items = []*domain.InventoryItem{}
	}
	return items, nil
}

// InventorySummary aggregates the persisted inventory into the header tiles
// the inventory page shows.
type InventorySummary struct {
	TotalSKUs    int `json:"total_skus"`
	TotalUnits   int `json:"total_units"`
	OutOfStock   int `json:"out_of_stock"`
	NeedsRestock int `json:"needs_restock"`
}

func (s *CatalogService) Summary(ctx context.Context, accountID, marketplace string) (*InventorySummary, error) {
	items, err := s.Inventory(ctx, accountID, marketplace)
	if err != nil {
		return nil, err
	}

	summary := &InventorySummary{TotalSKUs: len(items)}
	for _, item := range items {
		summary.TotalUnits += item.SOH
		if item.SOH == 0 {
			summary.OutOfStock++
		}
		if item.RestockQty > 0 {
			summary.NeedsRestock++
		}
	}
	return summary, nil
}

// Notifications derives stock alerts from the current inventory view.
func (s *CatalogService) Notifications(ctx context.Context, accountID, marketplace string) ([]domain.Alert, error) {
	items, err := s.Inventory(ctx, accountID, marketplace)
	if err != nil {
		return nil, err
	}

	alerts := []domain.Alert{}
	for _, item := range items {
		switch {
		case item.SOH == 0:
			alerts = append(alerts, domain.Alert{
				ID:      item.SKU,
				Type:    "warning",
				Title:   "Out of Stock",
				Message: item.SKU + " has no units on hand",
			})
		case item.RestockQty > 0:
			alerts = append(alerts, domain.Alert{
				ID:      item.SKU,
				Type:    "info",
				Title:   "Restock Recommended",
				Message: fmt.Sprintf("%s is down to %d units", item.SKU, item.SOH),
			})
		}
	}
	return alerts, nil
}

// ConnectionStatus reports whether an account holds an active credential.
type ConnectionStatus struct {
	Connected    bool    `json:"connected"`
	IsActive     bool    `json:"is_active"`
	Region       string  `json:"region,omitempty"`
	SellerID     string  `json:"seller_id,omitempty"`
	LastSyncedAt *string `json:"last_synced_at,omitempty"`
}

// Status returns the connection state for one account. Never errors on a
// missing credential; that is the "not connected" state.
func (s *CatalogService) Status(ctx context.Context, accountID string) (*ConnectionStatus, error) {
	cred, err := s.credentials.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return &ConnectionStatus{}, nil
	}

	status := &ConnectionStatus{
		Connected: true,
		IsActive:  cred.IsActive,
		Region:    cred.Region,
		SellerID:  cred.SellerID,
	}
	if cred.LastSyncedAt != nil {
		v := cred.LastSyncedAt.UTC().Format(time.RFC3339)
		status.LastSyncedAt = &v
	}
	return status, nil
}
