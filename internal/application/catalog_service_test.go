package application

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
)

func TestListingsServedLiveWhenConnected(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{
		listings: []*domain.Listing{{ASIN: "B0STALE01", Title: "Stale Row"}},
	}
	client := &fakeSPClient{
		catalogItems: []map[string]any{{
			"asin": "B0LIVE001",
			"summaries": []any{map[string]any{"itemName": "Fresh Bottle"}},
		}},
	}
	svc := NewCatalogService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	listings, err := svc.Listings(context.Background(), "acc-1", "US")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "B0LIVE001", listings[0].ASIN, "connected accounts read live, not persisted rows")
	assert.Equal(t, "Fresh Bottle", listings[0].Title)
}

func TestListingsDegradeToPersistedOnLiveFailure(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{
		listings: []*domain.Listing{{ASIN: "B0STALE01", Title: "Last Synced"}},
	}
	client := &fakeSPClient{catalogErr: assert.AnError}
	svc := NewCatalogService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	listings, err := svc.Listings(context.Background(), "acc-1", "US")
	require.NoError(t, err, "a live failure degrades instead of erroring")
	require.Len(t, listings, 1)
	assert.Equal(t, "B0STALE01", listings[0].ASIN)
}

func TestListingsFallBackToSellerSKUsWhenCatalogEmpty(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	client := &fakeSPClient{
		sellerSKUs: []map[string]any{{
			"asin": "B0SKU0001",
			"summaries": []any{map[string]any{"itemName": "Seller Item"}},
		}},
	}
	svc := NewCatalogService(credentials, &fakeCatalogRepo{}, &fakeClientFactory{client: client}, zerolog.Nop())

	listings, err := svc.Listings(context.Background(), "acc-1", "US")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "B0SKU0001", listings[0].ASIN)
}

func TestListingsWithoutCredentialServePersisted(t *testing.T) {
	catalog := &fakeCatalogRepo{
		listings: []*domain.Listing{{ASIN: "B0STALE01"}},
	}
	svc := NewCatalogService(newFakeCredentialRepo(), catalog, &fakeClientFactory{client: &fakeSPClient{}}, zerolog.Nop())

	listings, err := svc.Listings(context.Background(), "acc-1", "US")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "B0STALE01", listings[0].ASIN)
}

func TestInventoryServedLiveAndDegrades(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{
		inventory: []*domain.InventoryItem{{SKU: "SKU-STALE", SOH: 1}},
	}
	client := &fakeSPClient{
		inventory: []map[string]any{{"sellerSku": "SKU-LIVE", "totalQuantity": float64(9)}},
	}
	svc := NewCatalogService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	items, err := svc.Inventory(context.Background(), "acc-1", "US")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-LIVE", items[0].SKU)
	assert.Equal(t, 9, items[0].SOH)

	client.inventoryErr = assert.AnError
	items, err = svc.Inventory(context.Background(), "acc-1", "US")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SKU-STALE", items[0].SKU)
}

func TestNotificationsFlagStockIssues(t *testing.T) {
	catalog := &fakeCatalogRepo{
		inventory: []*domain.InventoryItem{
			{SKU: "SKU-OUT", SOH: 0},
			{SKU: "SKU-LOW", SOH: 2, RestockQty: 10},
			{SKU: "SKU-OK", SOH: 50},
		},
	}
	svc := NewCatalogService(newFakeCredentialRepo(), catalog, &fakeClientFactory{client: &fakeSPClient{}}, zerolog.Nop())

	alerts, err := svc.Notifications(context.Background(), "acc-1", "US")
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Out of Stock", alerts[0].Title)
	assert.Equal(t, "SKU-OUT", alerts[0].ID)
	assert.Equal(t, "Restock Recommended", alerts[1].Title)
}

func TestStatusReportsLastSyncedAt(t *testing.T) {
	credentials := newFakeCredentialRepo()
	syncedAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	credentials.byAccount["acc-1"] = &domain.Credential{
		ID: "cred-1", AccountID: "acc-1", Region: "EU", SellerID: "A1SELLER",
		IsActive: true, LastSyncedAt: &syncedAt,
	}
	svc := NewCatalogService(credentials, &fakeCatalogRepo{}, &fakeClientFactory{client: &fakeSPClient{}}, zerolog.Nop())

	status, err := svc.Status(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, status.Connected)
	require.NotNil(t, status.LastSyncedAt)
	assert.Equal(t, "2025-05-01T08:00:00Z", *status.LastSyncedAt)

	empty, err := svc.Status(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, empty.Connected)
}
