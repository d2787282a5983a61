package domain

import "time"

// Credential is one seller's durable authorization of the application: the
// LWA client identity the refresh token was issued against, the refresh token
// itself, and the region the seller's API traffic is routed to.
//
// At most one credential exists per account. A second successful handshake for
// the same account updates the existing row instead of creating a duplicate.
// Amazon refresh tokens do not expire on a schedule but can be revoked, so a
// credential is never auto-expired; it is deactivated or deleted explicitly.
type Credential struct {
	ID              string     `json:"id" bson:"_id"`
	AccountID       string     `json:"account_id" bson:"account_id"`
	LWAClientID     string     `json:"-" bson:"lwa_client_id"`
	LWAClientSecret string     `json:"-" bson:"lwa_client_secret"`
	RefreshToken    string     `json:"-" bson:"refresh_token"`
	Region          string     `json:"region" bson:"region"`
	SellerID        string     `json:"seller_id,omitempty" bson:"seller_id,omitempty"`
	MarketplaceIDs  []string   `json:"marketplace_ids,omitempty" bson:"marketplace_ids,omitempty"`
	IsActive        bool       `json:"is_active" bson:"is_active"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty" bson:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}
