package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
// CreateMany is idempotent for identical index specs.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_key")},
			{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("idx_users_role")},
		},
		CartsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("carts_user_id_key")},
		},
		PetsCollection: {
			{Keys: bson.D{{Key: "animal", Value: 1}}, Options: options.Index().SetName("idx_pets_animal")},
			{Keys: bson.D{{Key: "is_available", Value: 1}}, Options: options.Index().SetName("idx_pets_is_available")},
			{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("idx_pets_created_at")},
		},
	}

	for collection, models := range specs {
		if _, err := c.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", collection, err)
		}
	}
	return nil
}
