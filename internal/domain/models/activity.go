// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is an immutable audit entry describing a past state-changing
// team action. Activities are append-only: they are never mutated or
// deleted once written.
type Activity struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	TeamID      primitive.ObjectID  `bson:"team_id" json:"team_id"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Action      string              `bson:"action" json:"action"`
	Description string              `bson:"description" json:"description"`
	TargetType  string              `bson:"target_type,omitempty" json:"target_type,omitempty"`
	TargetID    *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`
	Metadata    bson.M              `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`

	// User is populated on reads for API responses; not stored.
	User *UserRef `bson:"-" json:"user,omitempty"`
}
