// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"strings"
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

var ErrTaskNotFound = errors.New("task not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) ListByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"project_id": projectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update carries the editable task fields. Nil pointers leave the field
// unchanged. The returned bool reports whether this update transitioned
// the task into completed, so the caller can record the activity.
type Update struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *primitive.ObjectID
	DueDate     *time.Time
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Task, bool, error) {
	prev, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Task{}, false, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) != "" {
		set["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		if !models.IsValidTaskStatus(*upd.Status) {
			return models.Task{}, false, errors.New("invalid task status")
		}
		set["status"] = *upd.Status
	}
	if upd.Priority != nil {
		if !models.IsValidTaskPriority(*upd.Priority) {
			return models.Task{}, false, errors.New("invalid task priority")
		}
		set["priority"] = *upd.Priority
	}
	if upd.AssignedTo != nil {
		set["assigned_to"] = *upd.AssignedTo
	}
	if upd.DueDate != nil {
		set["due_date"] = *upd.DueDate
	}

	var t models.Task
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, false, ErrTaskNotFound
		}
		return models.Task{}, false, err
	}

	completed := prev.Status != models.TaskCompleted && t.Status == models.TaskCompleted
	return t, completed, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByProjects returns total and completed task counts across the
// given projects. Both are zero when ids is empty.
func (s *Store) CountByProjects(ctx context.Context, ids []primitive.ObjectID) (total, completed int64, err error) {
	if len(ids) == 0 {
		return 0, 0, nil
	}
	filter := bson.M{"project_id": bson.M{"$in": ids}}
	total, err = s.c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, 0, err
	}
	filter["status"] = models.TaskCompleted
	completed, err = s.c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
