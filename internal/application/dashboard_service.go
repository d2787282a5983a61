package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/infrastructure/spapi"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"github.com/rs/zerolog"
)

const chartDays = 30

// DashboardService builds the overview payload. It reads live from SP-API
// when a credential is available and degrades to the last persisted metrics
// when the live read fails, so a revoked token or provider outage shows stale
// numbers instead of an empty dashboard.
type DashboardService struct {
	credentials ports.CredentialRepository
	catalog     ports.CatalogRepository
	clients     ports.ClientFactory
	cache       ports.ResponseCache
	logger      zerolog.Logger
}

// NewDashboardService creates a dashboard service. cache may be nil.
func NewDashboardService(
	credentials ports.CredentialRepository,
	catalog ports.CatalogRepository,
	clients ports.ClientFactory,
	cache ports.ResponseCache,
	logger zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		credentials: credentials,
		catalog:     catalog,
		clients:     clients,
		cache:       cache,
		logger:      logger,
	}
}

// Overview returns KPIs and chart series for one account/marketplace.
func (s *DashboardService) Overview(ctx context.Context, accountID, marketplace string) (*domain.DashboardOverview, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%s", accountID, marketplace)
	if s.cache != nil {
		var cached domain.DashboardOverview
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	fallback, err := s.fromStoredMetrics(ctx, accountID, marketplace)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load stored dashboard metrics")
	}

	cred, err := s.credentials.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil || !cred.IsActive {
		if fallback != nil {
			return fallback, nil
		}
		return nil, ErrNotConnected
	}

	overview, err := s.fromLiveOrders(ctx, cred, marketplace)
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("live dashboard read failed, degrading to persisted metrics")
		if fallback != nil {
			return fallback, nil
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, overview)
	}
	return overview, nil
}

func (s *DashboardService) fromLiveOrders(ctx context.Context, cred *domain.Credential, marketplace string) (*domain.DashboardOverview, error) {
	client := s.clients.ClientFor(cred)
	marketplaceID := spapi.MarketplaceID(marketplace)

	orders, err := client.GetOrders(ctx, marketplaceID, time.Now().Add(-chartDays*24*time.Hour))
	if err != nil {
		return nil, err
	}

	var totalSales float64
	salesByDate := map[string]float64{}
	for _, order := range orders {
		amount := orderTotal(order)
		totalSales += amount
		salesByDate[orderDate(order)] += amount
	}

	salesChart := make([]domain.SalesPoint, 0, chartDays)
	ppcChart := make([]domain.PPCPoint, 0, chartDays)
	for i := chartDays - 1; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		sales := salesByDate[date]
		salesChart = append(salesChart, domain.SalesPoint{Date: date, Sales: sales})
		// PPC spend needs the Advertising API, which is not wired up; the
		// series is shaped for the chart but stays at zero.
		ppcChart = append(ppcChart, domain.PPCPoint{Date: date, Spend: 0, Sales: sales})
	}

	overview := &domain.DashboardOverview{
		KPIs: domain.DashboardKPIs{
			TotalSales:  math.Round(totalSales*100) / 100,
			TotalOrders: len(orders),
		},
		SalesChartData: salesChart,
		PPCChartData:   ppcChart,
		TopASINs:       []domain.Listing{},
		Alerts:         []domain.Alert{},
	}
	if len(orders) == 0 {
		overview.Alerts = append(overview.Alerts, domain.Alert{
			ID:      "1",
			Type:    "warning",
			Title:   "No Orders Found",
			Message: "No orders found in the last 30 days",
		})
	}
	return overview, nil
}

// fromStoredMetrics builds the overview from persisted daily aggregates.
// Returns (nil, nil) when no metrics exist.
func (s *DashboardService) fromStoredMetrics(ctx context.Context, accountID, marketplace string) (*domain.DashboardOverview, error) {
	metrics, err := s.catalog.ListMetrics(ctx, accountID, marketplace)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		return nil, nil
	}

	sorted := make([]*domain.DashboardMetric, len(metrics))
	copy(sorted, metrics)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	latest := sorted[len(sorted)-1]
	previous := latest
	if len(sorted) > 1 {
		previous = sorted[len(sorted)-2]
	}

	salesChart := make([]domain.SalesPoint, 0, len(sorted))
	ppcChart := make([]domain.PPCPoint, 0, len(sorted))
	for _, m := range sorted {
		date := m.Date.Format("2006-01-02")
		salesChart = append(salesChart, domain.SalesPoint{Date: date, Sales: m.TotalSales})
		ppcChart = append(ppcChart, domain.PPCPoint{Date: date, Spend: m.PPCSpend, Sales: m.TotalSales})
	}

	return &domain.DashboardOverview{
		KPIs: domain.DashboardKPIs{
			TotalSales:   latest.TotalSales,
			TotalOrders:  latest.TotalOrders,
			PPCSpend:     latest.PPCSpend,
			ROAS:         latest.ROAS,
			SalesChange:  percentChange(latest.TotalSales, previous.TotalSales),
			OrdersChange: percentChange(float64(latest.TotalOrders), float64(previous.TotalOrders)),
			SpendChange:  percentChange(latest.PPCSpend, previous.PPCSpend),
			ROASChange:   percentChange(latest.ROAS, previous.ROAS),
		},
		SalesChartData: salesChart,
		PPCChartData:   ppcChart,
		TopASINs:       []domain.Listing{},
		Alerts:         []domain.Alert{},
	}, nil
}

func percentChange(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}

func orderTotal(order map[string]any) float64 {
	total, ok := order["OrderTotal"].(map[string]any)
	if !ok {
		return 0
	}
	switch amount := total["Amount"].(type) {
	case string:
		var f float64
		fmt.Sscanf(amount, "%f", &f)
		return f
	case float64:
		return amount
	}
	return 0
}

func orderDate(order map[string]any) string {
	purchase, _ := order["PurchaseDate"].(string)
	if len(purchase) >= 10 {
		return purchase[:10]
	}
	return time.Now().Format("2006-01-02")
}
