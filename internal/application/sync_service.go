package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotConnected means the account has no active Amazon credential.
var ErrNotConnected = errors.New("amazon account not connected or inactive")

// syncItemLimit caps how many items each resource persists per sync pass.
const syncItemLimit = 50

// orderLookback is how far back the order sync reaches.
const orderLookback = 30 * 24 * time.Hour

// SyncService pulls catalog, inventory and order data from SP-API and
// persists it. Resources are fetched sequentially; a failure in one resource
// is recorded and does not roll back writes already committed for earlier
// resources. Partial success is the expected degraded mode.
type SyncService struct {
	credentials ports.CredentialRepository
	catalog     ports.CatalogRepository
	clients     ports.ClientFactory
	logger      zerolog.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(
	credentials ports.CredentialRepository,
	catalog ports.CatalogRepository,
	clients ports.ClientFactory,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		credentials: credentials,
		catalog:     catalog,
		clients:     clients,
		logger:      logger,
	}
}

// Sync fetches and persists all resource types for one account/marketplace
// and reports per-resource counts.
func (s *SyncService) Sync(ctx context.Context, accountID, marketplace string) (*domain.SyncStats, error) {
	cred, err := s.credentials.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || !cred.IsActive {
		return nil, ErrNotConnected
	}

	client := s.clients.ClientFor(cred)
	marketplaceID := spapi.MarketplaceID(marketplace)
	stats := &domain.SyncStats{}

	s.syncListings(ctx, client, accountID, marketplace, marketplaceID, stats)
	s.syncInventory(ctx, client, accountID, marketplace, marketplaceID, stats)
	s.syncOrders(ctx, client, marketplaceID, stats)

	if err := s.credentials.UpdateLastSyncedAt(ctx, accountID, time.Now()); err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to update last synced timestamp")
		stats.Errors = append(stats.Errors, "last-synced timestamp not updated")
	}
	return stats, nil
}

func (s *SyncService) syncListings(ctx context.Context, client ports.SellingPartnerClient, accountID, marketplace, marketplaceID string, stats *domain.SyncStats) {
	items, err := client.GetCatalogItems(ctx, marketplaceID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("catalog fetch failed")
		stats.Errors = append(stats.Errors, "catalog: "+err.Error())
		return
	}
	stats.CatalogItemsFetched = len(items)
	if len(items) == 0 {
		s.requestListingsReport(ctx, client, marketplaceID)
		return
	}

	for _, item := range limit(items) {
		listing := listingFromCatalogItem(accountID, marketplace, item)
		if err := s.catalog.SaveListing(ctx, listing); err != nil {
			s.logger.Error().Err(err).Str("asin", listing.ASIN).Msg("failed to save listing")
			continue
		}
		stats.ListingsSaved++
	}
}

// requestListingsReport submits a merchant listings report when the catalog
// API has nothing for the account yet, so report-based backfill has a report
// ready by the next sync. Only the submission outcome is recorded here.
func (s *SyncService) requestListingsReport(ctx context.Context, client ports.SellingPartnerClient, marketplaceID string) {
	reportID, err := client.CreateReport(ctx, "GET_MERCHANT_LISTINGS_ALL_DATA", []string{marketplaceID})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to request merchant listings report")
		return
	}
	report, err := client.GetReport(ctx, reportID)
	if err != nil {
		s.logger.Warn().Err(err).Str("report_id", reportID).Msg("failed to read report status")
		return
	}
	status, _ := report["processingStatus"].(string)
	s.logger.Info().Str("report_id", reportID).Str("status", status).Msg("requested merchant listings report")
}

func (s *SyncService) syncInventory(ctx context.Context, client ports.SellingPartnerClient, accountID, marketplace, marketplaceID string, stats *domain.SyncStats) {
	summaries, err := client.GetInventorySummaries(ctx, marketplaceID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("inventory fetch failed")
		stats.Errors = append(stats.Errors, "inventory: "+err.Error())
		return
	}
	stats.InventoryItemsFetched = len(summaries)

	for _, summary := range limit(summaries) {
		item := inventoryFromSummary(accountID, marketplace, summary)
		if err := s.catalog.SaveInventoryItem(ctx, item); err != nil {
			s.logger.Error().Err(err).Str("sku", item.SKU).Msg("failed to save inventory item")
			continue
		}
		stats.InventorySaved++
	}
}

func (s *SyncService) syncOrders(ctx context.Context, client ports.SellingPartnerClient, marketplaceID string, stats *domain.SyncStats) {
	orders, err := client.GetOrders(ctx, marketplaceID, time.Now().Add(-orderLookback))
	if err != nil {
		s.logger.Error().Err(err).Msg("orders fetch failed")
		stats.Errors = append(stats.Errors, "orders: "+err.Error())
		return
	}
	stats.OrdersFetched = len(orders)
}

func limit(items []map[string]any) []map[string]any {
	if len(items) > syncItemLimit {
		return items[:syncItemLimit]
	}
	return items
}

func listingFromCatalogItem(accountID, marketplace string, item map[string]any) *domain.Listing {
	now := time.Now()
	listing := &domain.Listing{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Marketplace: marketplace,
		ASIN:        str(item, "asin"),
		SKU:         str(item, "sku"),
		Title:       "Untitled Product",
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if listing.ASIN == "" {
		listing.ASIN = "ASIN-" + strconv.FormatInt(now.UnixNano(), 10)
	}

	// Catalog responses carry the display fields inside summaries[0].
	if summaries, ok := item["summaries"].([]any); ok && len(summaries) > 0 {
		if summary, ok := summaries[0].(map[string]any); ok {
			if name := str(summary, "itemName"); name != "" {
				listing.Title = name
			}
			if img, ok := summary["mainImage"].(map[string]any); ok {
				listing.ImageURL = str(img, "link")
			}
			if types, ok := summary["productTypes"].([]any); ok && len(types) > 0 {
				if pt, ok := types[0].(map[string]any); ok {
					listing.Category = str(pt, "productType")
				}
			}
		}
	}
	if listing.Title == "Untitled Product" {
		if name := str(item, "itemName"); name != "" {
			listing.Title = name
		} else if name := str(item, "title"); name != "" {
			listing.Title = name
		}
	}
	return listing
}

func inventoryFromSummary(accountID, marketplace string, summary map[string]any) *domain.InventoryItem {
	item := &domain.InventoryItem{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Marketplace: marketplace,
		SKU:         str(summary, "sellerSku"),
		ProductName: str(summary, "productName"),
		SOH:         num(summary, "totalQuantity"),
		Category:    "FBA",
		UpdatedAt:   time.Now(),
	}
	if item.SKU == "" {
		item.SKU = str(summary, "fnSku")
	}
	if item.ProductName == "" {
		item.ProductName = "Unknown Product"
	}
	return item
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func num(m map[string]any, key string) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}
