package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	apperrors "github.com/allisson/linkvault/internal/errors"
)

// RedemptionsCollection is the MongoDB collection holding the ledger.
const RedemptionsCollection = "redemptions"

// mongoRedemption is the stored document. The token ID is the document _id, so
// the built-in unique index on _id provides insert-if-absent.
type mongoRedemption struct {
	TokenID    string    `bson:"_id"`
	Subject    string    `bson:"subject"`
	ExpiresAt  time.Time `bson:"expires_at"`
	RedeemedAt time.Time `bson:"redeemed_at"`
}

// MongoDBRedemptionRepository implements the redemption ledger for MongoDB.
type MongoDBRedemptionRepository struct {
	collection *mongo.Collection
}

// EnsureIndexes creates the expires_at index. It doubles as a TTL index so MongoDB
// drops entries on its own once their token has expired.
func (m *MongoDBRedemptionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetName("idx_redemptions_expires_at").SetExpireAfterSeconds(0),
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to create redemption indexes")
	}
	return nil
}

// TryRedeem inserts the redemption document. A duplicate key error means the
// token was already redeemed.
func (m *MongoDBRedemptionRepository) TryRedeem(ctx context.Context, redemption *authDomain.Redemption) (bool, error) {
	_, err := m.collection.InsertOne(ctx, mongoRedemption{
		TokenID:    redemption.TokenID.String(),
		Subject:    redemption.Subject,
		ExpiresAt:  redemption.ExpiresAt.UTC(),
		RedeemedAt: redemption.RedeemedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to record redemption")
	}
	return true, nil
}

// DeleteExpired removes entries that expired before the given time.
func (m *MongoDBRedemptionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := m.collection.DeleteMany(ctx, expiredFilter(before))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired redemptions")
	}
	return result.DeletedCount, nil
}

// CountExpired counts entries that expired before the given time.
func (m *MongoDBRedemptionRepository) CountExpired(ctx context.Context, before time.Time) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, expiredFilter(before))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired redemptions")
	}
	return count, nil
}

func expiredFilter(before time.Time) bson.D {
	return bson.D{{Key: "expires_at", Value: bson.D{{Key: "$lt", Value: before.UTC()}}}}
}

// NewMongoDBRedemptionRepository creates a ledger backed by the redemptions
// collection of db.
func NewMongoDBRedemptionRepository(db *mongo.Database) *MongoDBRedemptionRepository {
	return &MongoDBRedemptionRepository{collection: db.Collection(RedemptionsCollection)}
}
