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

// MongoAccountRepository implements AccountRepository on the accounts
// collection. Documents are keyed by the account's UUID string.
type MongoAccountRepository struct {
	collection *mongo.Collection
}

// NewMongoAccountRepository creates a new MongoDB account repository.
func NewMongoAccountRepository(db *mongo.Database) ports.AccountRepository {
	return &MongoAccountRepository{
		collection: db.Collection("accounts"),
	}
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if _, err := r.collection.InsertOne(ctx, account); err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the account does not exist.
func (r *MongoAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *MongoAccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*domain.Account
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return accounts, nil
}

// MongoConnectionRepository implements MarketplaceConnectionRepository on the
// marketplace_connections collection.
type MongoConnectionRepository struct {
	collection *mongo.Collection
}

// NewMongoConnectionRepository creates a new MongoDB connection repository.
func NewMongoConnectionRepository(db *mongo.Database) ports.MarketplaceConnectionRepository {
	return &MongoConnectionRepository{
		collection: db.Collection("marketplace_connections"),
	}
}

func (r *MongoConnectionRepository) Create(ctx context.Context, conn *domain.MarketplaceConnection) error {
	if _, err := r.collection.InsertOne(ctx, conn); err != nil {
		return fmt.Errorf("failed to insert marketplace connection: %w", err)
	}
	return nil
}

func (r *MongoConnectionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.MarketplaceConnection, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to list marketplace connections: %w", err)
	}
	defer cursor.Close(ctx)

	var conns []*domain.MarketplaceConnection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, fmt.Errorf("failed to decode marketplace connections: %w", err)
	}
	return conns, nil
}
