package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the app relies on. Uniqueness is
// enforced here, at the store layer, so concurrent check-then-insert races
// cannot create duplicates.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return err
	}

	journals := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "mood", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_favorite", Value: 1}}},
	}
	if _, err := db.Collection("journals").Indexes().CreateMany(ctx, journals); err != nil {
		return err
	}

	// Per-owner name uniqueness for categories
	categories := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("categories").Indexes().CreateMany(ctx, categories); err != nil {
		return err
	}

	prompts := []mongo.IndexModel{
		{Keys: bson.D{{Key: "prompt", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}
	if _, err := db.Collection("prompts").Indexes().CreateMany(ctx, prompts); err != nil {
		return err
	}

	return nil
}
