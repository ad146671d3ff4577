// Package mongotest connects tests to a real MongoDB when one is configured.
package mongotest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/mongo"
)

// EnvURI names the variable that enables mongo-backed tests.
const EnvURI = "PETPARADISE_TEST_MONGO_URI"

// Connect returns a client bound to a throwaway database, or skips the test
// when no URI is configured.
func Connect(t *testing.T) *mongo.Client {
	t.Helper()
	uri := strings.TrimSpace(os.Getenv(EnvURI))
	if uri == "" {
		t.Skipf("%s not set; skipping mongo integration test", EnvURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("petparadise_test_%s", strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
	client, err := mongo.New(ctx, config.StoreConfig{
		MongoURI:      uri,
		MongoDatabase: dbName,
		MongoTimeout:  10 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dropCancel()
		_ = client.Database().Drop(dropCtx)
		_ = client.Close()
	})
	return client
}
