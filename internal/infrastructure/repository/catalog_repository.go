package repository

import (
	"context"
	"fmt"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepository implements CatalogRepository over the listings,
// inventory and dashboard_metrics collections. Writes are upserts keyed by
// the resource's natural key (ASIN or SKU within an account/marketplace), so
// re-running a sync refreshes rows instead of duplicating them.
type MongoCatalogRepository struct {
	listings  *mongo.Collection
	inventory *mongo.Collection
	metrics   *mongo.Collection
}

// NewMongoCatalogRepository creates a new MongoDB catalog repository.
func NewMongoCatalogRepository(db *mongo.Database) ports.CatalogRepository {
	return &MongoCatalogRepository{
		listings:  db.Collection("listings"),
		inventory: db.Collection("inventory"),
		metrics:   db.Collection("dashboard_metrics"),
	}
}

func (r *MongoCatalogRepository) SaveListing(ctx context.Context, listing *domain.Listing) error {
	filter := bson.M{
		"account_id":  listing.AccountID,
		"marketplace": listing.Marketplace,
		"asin":        listing.ASIN,
	}
	update := bson.M{
		"$set": bson.M{
			"sku":        listing.SKU,
			"title":      listing.Title,
			"image_url":  listing.ImageURL,
			"category":   listing.Category,
			"price":      listing.Price,
			"stock":      listing.Stock,
			"status":     listing.Status,
			"updated_at": listing.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":         listing.ID,
			"account_id":  listing.AccountID,
			"marketplace": listing.Marketplace,
			"asin":        listing.ASIN,
			"created_at":  listing.CreatedAt,
		},
	}
	_, err := r.listings.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert listing: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepository) ListListings(ctx context.Context, accountID, marketplace string) ([]*domain.Listing, error) {
	cursor, err := r.listings.Find(ctx,
		bson.M{"account_id": accountID, "marketplace": marketplace},
		options.Find().SetSort(bson.M{"title": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*domain.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

func (r *MongoCatalogRepository) SaveInventoryItem(ctx context.Context, item *domain.InventoryItem) error {
	filter := bson.M{
		"account_id":  item.AccountID,
		"marketplace": item.Marketplace,
		"sku":         item.SKU,
	}
	update := bson.M{
		"$set": bson.M{
			"product_name": item.ProductName,
			"soh":          item.SOH,
			"doh":          item.DOH,
			"restock_qty":  item.RestockQty,
			"category":     item.Category,
			"updated_at":   item.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":         item.ID,
			"account_id":  item.AccountID,
			"marketplace": item.Marketplace,
			"sku":         item.SKU,
		},
	}
	_, err := r.inventory.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert inventory item: %w", err)
	}
	return nil
}

func (r *MongoCatalogRepository) ListInventory(ctx context.Context, accountID, marketplace string) ([]*domain.InventoryItem, error) {
	cursor, err := r.inventory.Find(ctx,
		bson.M{"account_id": accountID, "marketplace": marketplace},
		options.Find().SetSort(bson.M{"sku": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	return items, nil
}

func (r *MongoCatalogRepository) ListMetrics(ctx context.Context, accountID, marketplace string) ([]*domain.DashboardMetric, error) {
	cursor, err := r.metrics.Find(ctx,
		bson.M{"account_id": accountID, "marketplace": marketplace},
		options.Find().SetSort(bson.M{"date": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboard metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var metrics []*domain.DashboardMetric
	if err := cursor.All(ctx, &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard metrics: %w", err)
	}
	return metrics, nil
}
