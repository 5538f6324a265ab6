// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message types.
const (
	MessageText   = "text"
	MessageFile   = "file"
	MessageSystem = "system"
)

// Attachment describes a file attached to a message. Upload handling is
// external; only the reference is stored here.
type Attachment struct {
	Filename string `bson:"filename" json:"filename"`
	URL      string `bson:"url" json:"url"`
	FileType string `bson:"file_type" json:"file_type"`
	Size     int64  `bson:"size" json:"size"`
}

// Message is one chat entry in a team's discussion. Messages are never
// hard-deleted by the discussion flow.
type Message struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	TeamID      primitive.ObjectID   `bson:"team_id" json:"team_id"`
	UserID      primitive.ObjectID   `bson:"user_id" json:"user_id"`
	Content     string               `bson:"content" json:"content"`
	Type        string               `bson:"type" json:"type"`
	Attachments []Attachment         `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Mentions    []primitive.ObjectID `bson:"mentions,omitempty" json:"mentions,omitempty"`
	ParentID    *primitive.ObjectID  `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	IsEdited    bool                 `bson:"is_edited" json:"is_edited"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// User is populated on reads for API responses; not stored.
	User *UserRef `bson:"-" json:"user,omitempty"`
}
