// internal/app/store/activities/activitystore.go
package activitystore

import (
	"context"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

func (s *Store) Insert(ctx context.Context, a *models.Activity) error {
	a.ID = primitive.NewObjectID()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, a)
	return err
}

// ListByTeam returns one page of a team's activity feed, newest first,
// plus the total count.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID, skip, limit int64) ([]models.Activity, int64, error) {
	filter := bson.M{"team_id": teamID}
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetSkip(skip).
			SetLimit(limit),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var page []models.Activity
	if err := cur.All(ctx, &page); err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

// CountSince counts a team's activities created at or after the cutoff.
func (s *Store) CountSince(ctx context.Context, teamID primitive.ObjectID, since time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"team_id":    teamID,
		"created_at": bson.M{"$gte": since},
	})
}

// Collection exposes the underlying collection for aggregation pipelines
// built in store/queries.
func (s *Store) Collection() *mongo.Collection { return s.c }

// DeleteByTeam removes a team's activity history. Used when a team is deleted.
func (s *Store) DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
