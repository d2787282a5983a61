package domain

import "time"

// Listing is a persisted snapshot of one catalog item, keyed by ASIN within a
// marketplace. Listings are written during sync and served back when the live
// API is unavailable.
type Listing struct {
	ID          string    `json:"id" bson:"_id"`
	AccountID   string    `json:"account_id" bson:"account_id"`
	Marketplace string    `json:"marketplace" bson:"marketplace"`
	ASIN        string    `json:"asin" bson:"asin"`
	SKU         string    `json:"sku,omitempty" bson:"sku,omitempty"`
	Title       string    `json:"title" bson:"title"`
	ImageURL    string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Price       string    `json:"price,omitempty" bson:"price,omitempty"`
	Stock       int       `json:"stock" bson:"stock"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// InventoryItem is a persisted FBA inventory snapshot for one SKU.
// SOH is stock on hand, DOH the estimated days of cover.
type InventoryItem struct {
	ID          string    `json:"id" bson:"_id"`
	AccountID   string    `json:"account_id" bson:"account_id"`
	Marketplace string    `json:"marketplace" bson:"marketplace"`
	SKU         string    `json:"sku" bson:"sku"`
	ProductName string    `json:"product_name" bson:"product_name"`
	SOH         int       `json:"soh" bson:"soh"`
	DOH         int       `json:"doh" bson:"doh"`
	RestockQty  int       `json:"restock_qty" bson:"restock_qty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// DashboardMetric is one day of aggregated performance numbers for an
// account/marketplace pair, used as the fallback when live SP-API reads fail.
type DashboardMetric struct {
	ID          string    `json:"id" bson:"_id"`
	AccountID   string    `json:"account_id" bson:"account_id"`
	Marketplace string    `json:"marketplace" bson:"marketplace"`
	Date        time.Time `json:"date" bson:"date"`
	TotalSales  float64   `json:"total_sales" bson:"total_sales"`
	TotalOrders int       `json:"total_orders" bson:"total_orders"`
	PPCSpend    float64   `json:"ppc_spend" bson:"ppc_spend"`
	ROAS        float64   `json:"roas" bson:"roas"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
