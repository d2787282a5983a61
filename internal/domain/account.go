package domain

import "time"

// Account represents one connected Amazon seller account (a "brand" in the
// dashboard). The seller ID is unknown until the OAuth handshake completes.
type Account struct {
	ID             string    `json:"id" bson:"_id"`
	OrganizationID string    `json:"organization_id" bson:"organization_id"`
	BrandName      string    `json:"brand_name" bson:"brand_name"`
	SellerID       string    `json:"seller_id,omitempty" bson:"seller_id,omitempty"`
	Status         string    `json:"status" bson:"status"`
	IsFavorite     bool      `json:"is_favorite" bson:"is_favorite"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// Account statuses.
const (
	AccountStatusActive    = "active"
	AccountStatusInactive  = "inactive"
	AccountStatusSuspended = "suspended"
)

// MarketplaceConnection links an account to one country storefront, identified
// by its short code (US, CA, DE, ...).
type MarketplaceConnection struct {
	ID          string    `json:"id" bson:"_id"`
	AccountID   string    `json:"account_id" bson:"account_id"`
	Marketplace string    `json:"marketplace" bson:"marketplace"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
