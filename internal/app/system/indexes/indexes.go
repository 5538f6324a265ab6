// Package indexes creates the MongoDB indexes the stores rely on.
// Called once from the EnsureSchema hook at startup; index creation is
// idempotent so repeated startups are safe.
package indexes

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll creates every index the application depends on.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	type spec struct {
		collection string
		models     []mongo.IndexModel
	}

	specs := []spec{
		{
			collection: "users",
			models: []mongo.IndexModel{
				// Case-insensitive uniqueness on the folded email column.
				{
					Keys:    bson.D{{Key: "email_ci", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			collection: "teams",
			models: []mongo.IndexModel{
				// Sparse: teams created before codes were backfilled may
				// lack one, and absent values must not collide.
				{
					Keys:    bson.D{{Key: "join_code", Value: 1}},
					Options: options.Index().SetUnique(true).SetSparse(true),
				},
				{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
				{Keys: bson.D{{Key: "name_ci", Value: 1}}},
			},
		},
		{
			collection: "messages",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "activities",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "user_id", Value: 1}}},
			},
		},
		{
			collection: "projects",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "tasks",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
			},
		},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", s.collection, err)
		}
	}
	return nil
}
