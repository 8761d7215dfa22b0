package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/allisson/linkvault/internal/database"
)

const defaultMongoTestURI = "mongodb://localhost:27018/?serverSelectionTimeoutMS=1000"

// GetMongoTestURI returns the MongoDB test URI, checking TEST_MONGO_URI first.
func GetMongoTestURI() string {
	if uri := os.Getenv("TEST_MONGO_URI"); uri != "" {
		return uri
	}
	return defaultMongoTestURI
}

// SetupMongoDB returns a freshly named database on the MongoDB test server. The
// database is dropped when the test ends. The test is skipped when the server is
// unreachable.
func SetupMongoDB(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	client, err := database.ConnectMongo(ctx, GetMongoTestURI(), 0)
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}

	db := client.Database("linkvault_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
