package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/DJBertubin/AmazonCheck/internal/domain"
	"github.com/DJBertubin/AmazonCheck/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCredentialRepository implements CredentialRepository on the
// amazon_credentials collection. account_id carries a unique index so a
// duplicate insert for the same account fails instead of silently creating a
// second credential.
type MongoCredentialRepository struct {
	collection *mongo.Collection
}

// NewMongoCredentialRepository creates a new MongoDB credential repository.
func NewMongoCredentialRepository(db *mongo.Database) ports.CredentialRepository {
	return &MongoCredentialRepository{
		collection: db.Collection("amazon_credentials"),
	}
}

func (r *MongoCredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	if _, err := r.collection.InsertOne(ctx, cred); err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}
	return nil
}

// GetByAccount returns (nil, nil) when no credential exists for the account.
func (r *MongoCredentialRepository) GetByAccount(ctx context.Context, accountID string) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.collection.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&cred)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return &cred, nil
}

func (r *MongoCredentialRepository) Update(ctx context.Context, cred *domain.Credential) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": cred.ID}, cred)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("credential %s not found", cred.ID)
	}
	return nil
}

func (r *MongoCredentialRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func (r *MongoCredentialRepository) UpdateLastSyncedAt(ctx context.Context, accountID string, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"account_id": accountID},
		bson.M{"$set": bson.M{"last_synced_at": at, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to update last synced timestamp: %w", err)
	}
	return nil
}
