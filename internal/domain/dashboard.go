package domain

// DashboardKPIs are the headline numbers for the overview cards, with
// percent changes against the previous period.
type DashboardKPIs struct {
	TotalSales   float64 `json:"totalSales"`
	TotalOrders  int     `json:"totalOrders"`
	PPCSpend     float64 `json:"ppcSpend"`
	ROAS         float64 `json:"roas"`
	SalesChange  int     `json:"salesChange"`
	OrdersChange int     `json:"ordersChange"`
	SpendChange  int     `json:"spendChange"`
	ROASChange   int     `json:"roasChange"`
}

// SalesPoint is one day on the sales chart.
type SalesPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// PPCPoint is one day on the advertising chart.
type PPCPoint struct {
	Date  string  `json:"date"`
	Spend float64 `json:"spend"`
	Sales float64 `json:"sales"`
}

// Alert is a dashboard notice surfaced alongside the KPIs.
type Alert struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// DashboardOverview is the full payload behind the overview page.
type DashboardOverview struct {
	KPIs           DashboardKPIs `json:"kpis"`
	SalesChartData []SalesPoint  `json:"salesChartData"`
	PPCChartData   []PPCPoint    `json:"ppcChartData"`
	TopASINs       []Listing     `json:"topAsins"`
	Alerts         []Alert       `json:"alerts"`
}

// SyncStats reports how far a sync got, per resource type. A sync that fails
// partway keeps the writes already committed and reports both sides.
type SyncStats struct {
	CatalogItemsFetched   int      `json:"catalogItemsFetched"`
	ListingsSaved         int      `json:"listingsSaved"`
	InventoryItemsFetched int      `json:"inventoryItemsFetched"`
	InventorySaved        int      `json:"inventorySaved"`
	OrdersFetched         int      `json:"ordersFetched"`
	Errors                []string `json:"errors,omitempty"`
}
