package application

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
)

func connectedCredentialRepo(accountID string) *fakeCredentialRepo {
	credentials := newFakeCredentialRepo()
	credentials.byAccount[accountID] = &domain.Credential{
		ID:           "cred-1",
		AccountID:    accountID,
		LWAClientID:  "lwa-client-id",
		RefreshToken: "Atzr|refresh",
		Region:       "NA",
		SellerID:     "A1SELLER",
		IsActive:     true,
	}
	return credentials
}

func TestSyncPersistsCatalogAndInventory(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{}
	client := &fakeSPClient{
		catalogItems: []map[string]any{
			{
				"asin": "B0TEST0001",
				"summaries": []any{map[string]any{
					"itemName":  "Stainless Water Bottle",
					"mainImage": map[string]any{"link": "https://img.example.com/bottle.jpg"},
				}},
			},
			{"asin": "B0TEST0002"},
		},
		inventory: []map[string]any{
			{"sellerSku": "SKU-1", "productName": "Bottle", "totalQuantity": float64(42)},
		},
		orders: []map[string]any{
			{"AmazonOrderId": "111-0000001-0000001"},
		},
	}
	svc := NewSyncService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	stats, err := svc.Sync(context.Background(), "acc-1", "US")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.CatalogItemsFetched)
	assert.Equal(t, 2, stats.ListingsSaved)
	assert.Equal(t, 1, stats.InventoryItemsFetched)
	assert.Equal(t, 1, stats.InventorySaved)
	assert.Equal(t, 1, stats.OrdersFetched)
	assert.Empty(t, stats.Errors)

	require.Len(t, catalog.listings, 2)
	assert.Equal(t, "Stainless Water Bottle", catalog.listings[0].Title)
	assert.Equal(t, "https://img.example.com/bottle.jpg", catalog.listings[0].ImageURL)
	assert.Equal(t, "Untitled Product", catalog.listings[1].Title)
	require.Len(t, catalog.inventory, 1)
	assert.Equal(t, 42, catalog.inventory[0].SOH)

	assert.False(t, credentials.lastSynced["acc-1"].IsZero(), "sync must stamp last_synced_at")
}

func TestSyncPartialFailureKeepsEarlierWrites(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{}
	client := &fakeSPClient{
		catalogItems: []map[string]any{{"asin": "B0TEST0001"}},
		inventoryErr: assert.AnError,
		ordersErr:    assert.AnError,
	}
	svc := NewSyncService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	stats, err := svc.Sync(context.Background(), "acc-1", "US")
	require.NoError(t, err, "per-resource failures are reported, not returned")

	assert.Equal(t, 1, stats.ListingsSaved, "catalog writes survive downstream failures")
	assert.Equal(t, 0, stats.InventorySaved)
	assert.Equal(t, 0, stats.OrdersFetched)
	require.Len(t, stats.Errors, 2)
	assert.Contains(t, stats.Errors[0], "inventory:")
	assert.Contains(t, stats.Errors[1], "orders:")
	assert.Len(t, catalog.listings, 1)
}

func TestSyncRequiresActiveCredential(t *testing.T) {
	credentials := newFakeCredentialRepo()
	svc := NewSyncService(credentials, &fakeCatalogRepo{}, &fakeClientFactory{client: &fakeSPClient{}}, zerolog.Nop())

	_, err := svc.Sync(context.Background(), "acc-1", "US")
	require.ErrorIs(t, err, ErrNotConnected)

	credentials.byAccount["acc-1"] = &domain.Credential{ID: "cred-1", AccountID: "acc-1", IsActive: false}
	_, err = svc.Sync(context.Background(), "acc-1", "US")
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestSyncEmptyCatalogRequestsListingsReport(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{}
	client := &fakeSPClient{}
	svc := NewSyncService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	stats, err := svc.Sync(context.Background(), "acc-1", "US")
	require.NoError(t, err)

	assert.Equal(t, 0, stats.CatalogItemsFetched)
	assert.Equal(t, 0, stats.ListingsSaved)
	assert.Equal(t, 1, client.reportRequests, "an empty catalog submits a merchant listings report")
}

func TestSyncCapsPersistedItems(t *testing.T) {
	credentials := connectedCredentialRepo("acc-1")
	catalog := &fakeCatalogRepo{}
	items := make([]map[string]any, syncItemLimit+25)
	for i := range items {
		items[i] = map[string]any{"asin": "B0TEST"}
	}
	client := &fakeSPClient{catalogItems: items}
	svc := NewSyncService(credentials, catalog, &fakeClientFactory{client: client}, zerolog.Nop())

	stats, err := svc.Sync(context.Background(), "acc-1", "US")
	require.NoError(t, err)

	assert.Equal(t, syncItemLimit+25, stats.CatalogItemsFetched)
	assert.Equal(t, syncItemLimit, stats.ListingsSaved)
}
