package application

import (
	"context"
	"errors"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/ports"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*domain.Account{}}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

type fakeConnectionRepo struct {
	connections []*domain.MarketplaceConnection
}

func (r *fakeConnectionRepo) Create(_ context.Context, conn *domain.MarketplaceConnection) error {
	r.connections = append(r.connections, conn)
	return nil
}

func (r *fakeConnectionRepo) ListByAccount(_ context.Context, accountID string) ([]*domain.MarketplaceConnection, error) {
	var out []*domain.MarketplaceConnection
	for _, c := range r.connections {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeCredentialRepo struct {
	byAccount  map[string]*domain.Credential
	lastSynced map[string]time.Time
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{
		byAccount:  map[string]*domain.Credential{},
		lastSynced: map[string]time.Time{},
	}
}

func (r *fakeCredentialRepo) Create(_ context.Context, cred *domain.Credential) error {
	if _, exists := r.byAccount[cred.AccountID]; exists {
		return errors.New("credential already exists for account")
	}
	r.byAccount[cred.AccountID] = cred
	return nil
}

func (r *fakeCredentialRepo) GetByAccount(_ context.Context, accountID string) (*domain.Credential, error) {
	return r.byAccount[accountID], nil
}

func (r *fakeCredentialRepo) Update(_ context.Context, cred *domain.Credential) error {
	r.byAccount[cred.AccountID] = cred
	return nil
}

func (r *fakeCredentialRepo) DeleteByID(_ context.Context, id string) error {
	for accountID, cred := range r.byAccount {
		if cred.ID == id {
			delete(r.byAccount, accountID)
			return nil
		}
	}
	return nil
}

func (r *fakeCredentialRepo) UpdateLastSyncedAt(_ context.Context, accountID string, at time.Time) error {
	r.lastSynced[accountID] = at
	return nil
}

type fakeCatalogRepo struct {
	listings  []*domain.Listing
	inventory []*domain.InventoryItem
	metrics   []*domain.DashboardMetric
}

func (r *fakeCatalogRepo) SaveListing(_ context.Context, listing *domain.Listing) error {
	r.listings = append(r.listings, listing)
	return nil
}

func (r *fakeCatalogRepo) ListListings(_ context.Context, accountID, marketplace string) ([]*domain.Listing, error) {
	return r.listings, nil
}

func (r *fakeCatalogRepo) SaveInventoryItem(_ context.Context, item *domain.InventoryItem) error {
	r.inventory = append(r.inventory, item)
	return nil
}

func (r *fakeCatalogRepo) ListInventory(_ context.Context, accountID, marketplace string) ([]*domain.InventoryItem, error) {
	return r.inventory, nil
}

func (r *fakeCatalogRepo) ListMetrics(_ context.Context, accountID, marketplace string) ([]*domain.DashboardMetric, error) {
	return r.metrics, nil
}

// fakeExchanger returns a scripted refresh token per code.
type fakeExchanger struct {
	tokens map[string]string
	err    error
	calls  int
}

func (e *fakeExchanger) ExchangeCode(_ context.Context, code string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	if token, ok := e.tokens[code]; ok {
		return token, nil
	}
	return "", errors.New("unknown code")
}

// fakeSPClient scripts per-resource results for sync and dashboard tests.
type fakeSPClient struct {
	catalogItems   []map[string]any
	catalogErr     error
	sellerSKUs     []map[string]any
	inventory      []map[string]any
	inventoryErr   error
	orders         []map[string]any
	ordersErr      error
	reportRequests int
	searchCalls    int
}

func (c *fakeSPClient) GetCatalogItems(context.Context, string) ([]map[string]any, error) {
	return c.catalogItems, c.catalogErr
}

func (c *fakeSPClient) SearchCatalog(context.Context, string, string) (map[string]any, error) {
	c.searchCalls++
	return map[string]any{}, nil
}

func (c *fakeSPClient) GetSellerSKUs(context.Context, string, string) ([]map[string]any, error) {
	return c.sellerSKUs, nil
}

func (c *fakeSPClient) CreateReport(context.Context, string, []string) (string, error) {
	c.reportRequests++
	return "RPT-1", nil
}

func (c *fakeSPClient) GetReport(context.Context, string) (map[string]any, error) {
	return map[string]any{"processingStatus": "IN_PROGRESS"}, nil
}

func (c *fakeSPClient) GetInventorySummaries(context.Context, string) ([]map[string]any, error) {
	return c.inventory, c.inventoryErr
}

func (c *fakeSPClient) GetOrders(context.Context, string, time.Time) ([]map[string]any, error) {
	return c.orders, c.ordersErr
}

func (c *fakeSPClient) GetOrderMetrics(context.Context, string) (map[string]any, error) {
	return map[string]any{}, nil
}

func (c *fakeSPClient) GetAdvertisingCampaigns(context.Context, string) ([]map[string]any, error) {
	return nil, nil
}

func (c *fakeSPClient) MarketplaceParticipations(context.Context) (map[string]any, error) {
	return map[string]any{}, nil
}

type fakeClientFactory struct {
	client *fakeSPClient
}

func (f *fakeClientFactory) ClientFor(*domain.Credential) ports.SellingPartnerClient {
	return f.client
}
