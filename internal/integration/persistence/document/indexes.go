package document

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quickmate/backend/internal/application/adapter"
)

// EnsureIndexes creates the unique indexes the repositories rely on for
// name-per-scope, rule-per-scope and email uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		categoriesCollection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}, {Key: "parentScope", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_name_scope"),
			},
			{
				Keys: bson.D{{Key: "parentId", Value: 1}},
			},
		},
		commissionRulesCollection: {
			{
				Keys:    bson.D{{Key: "scope", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_scope"),
			},
		},
		usersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// translateError maps duplicate key write errors to adapter.ErrDuplicateKey.
func translateError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return adapter.ErrDuplicateKey
	}
	return err
}
