// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values.
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectOnHold    = "on-hold"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// IsValidProjectStatus reports whether s is a known project status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project belongs to exactly one team and groups tasks.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	TeamID      primitive.ObjectID   `bson:"team_id" json:"team_id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description" json:"description"`
	Status      string               `bson:"status" json:"status"`
	StartDate   time.Time            `bson:"start_date" json:"start_date"`
	EndDate     time.Time            `bson:"end_date" json:"end_date"`
	CreatedBy   primitive.ObjectID   `bson:"created_by" json:"created_by"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids,omitempty" json:"member_ids,omitempty"`
	Progress    int                  `bson:"progress" json:"progress"` // 0..100

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
