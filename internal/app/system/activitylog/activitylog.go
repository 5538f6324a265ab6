// Package activitylog records team activity events.
//
// Activity writes are best-effort: a failed write is logged and surfaced to
// the caller as a warning, but it never fails the request that produced it.
// The feed is an audit trail, not a source of truth.
package activitylog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Actions recognized by the activity feed. Records with any other action
// are rejected at the door so the feed vocabulary stays closed.
const (
	ActionTeamCreated   = "team_created"
	ActionMemberJoined  = "member_joined"
	ActionMemberLeft    = "member_left"
	ActionRoleChanged   = "role_changed"
	ActionProjectCreate = "project_created"
	ActionProjectUpdate = "project_updated"
	ActionTaskCreated   = "task_created"
	ActionTaskCompleted = "task_completed"
	ActionMessageSent   = "message_sent"
	ActionFileUploaded  = "file_uploaded"
)

// ErrInvalidAction is returned when Record is handed an action outside the
// recognized vocabulary.
var ErrInvalidAction = errors.New("activitylog: invalid action")

var validActions = map[string]struct{}{
	ActionTeamCreated:   {},
	ActionMemberJoined:  {},
	ActionMemberLeft:    {},
	ActionRoleChanged:   {},
	ActionProjectCreate: {},
	ActionProjectUpdate: {},
	ActionTaskCreated:   {},
	ActionTaskCompleted: {},
	ActionMessageSent:   {},
	ActionFileUploaded:  {},
}

// IsValidAction reports whether action belongs to the feed vocabulary.
func IsValidAction(action string) bool {
	_, ok := validActions[action]
	return ok
}

// Entry describes one activity event to record.
type Entry struct {
	TeamID      primitive.ObjectID
	UserID      primitive.ObjectID
	Action      string
	Description string
	TargetType  string
	TargetID    *primitive.ObjectID
	Metadata    bson.M
}

// Inserter is the slice of the activity store the logger needs.
type Inserter interface {
	Insert(ctx context.Context, a *models.Activity) error
}

// Logger writes activity entries through the activity store.
type Logger struct {
	store Inserter
	log   *zap.Logger
}

// New creates an activity logger backed by the given store.
func New(store Inserter, log *zap.Logger) *Logger {
	return &Logger{store: store, log: log}
}

// Record writes one activity entry and returns the persisted record so
// callers can attach it to broadcast payloads. An invalid action returns
// ErrInvalidAction; a store failure is logged and returned so the handler
// can attach a warning, but handlers must not fail the request on it.
// The write uses its own timeout so a cancelled request context does not
// lose the entry.
func (l *Logger) Record(ctx context.Context, e Entry) (models.Activity, error) {
	if !IsValidAction(e.Action) {
		return models.Activity{}, fmt.Errorf("%w: %q", ErrInvalidAction, e.Action)
	}

	activity := models.Activity{
		TeamID:      e.TeamID,
		UserID:      e.UserID,
		Action:      e.Action,
		Description: e.Description,
		TargetType:  e.TargetType,
		TargetID:    e.TargetID,
		Metadata:    e.Metadata,
		CreatedAt:   time.Now(),
	}

	wctx, cancel := timeouts.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
	defer cancel()

	if err := l.store.Insert(wctx, &activity); err != nil {
		l.log.Warn("activity write failed",
			zap.String("action", e.Action),
			zap.String("team_id", e.TeamID.Hex()),
			zap.Error(err))
		return models.Activity{}, fmt.Errorf("record activity %s: %w", e.Action, err)
	}
	return activity, nil
}

// Typed metadata constructors. Each action carries a fixed metadata shape;
// building them here keeps the shapes in one place instead of scattered
// bson.M literals in handlers.

func TeamCreatedMeta(teamName string) bson.M {
	return bson.M{"team_name": teamName}
}

func MemberJoinedMeta(method string, user primitive.ObjectID, role string) bson.M {
	// method is "invite", "code", or "direct".
	return bson.M{"method": method, "invited_user": user, "role": role}
}

func MemberLeftMeta(removedBy primitive.ObjectID, self bool) bson.M {
	return bson.M{"removed_by": removedBy, "self": self}
}

func RoleChangedMeta(oldRole, newRole string, targetUser primitive.ObjectID) bson.M {
	return bson.M{"old_role": oldRole, "new_role": newRole, "target_user": targetUser}
}

func MessageSentMeta(messageID primitive.ObjectID) bson.M {
	return bson.M{"message_id": messageID}
}

func ProjectMeta(projectName string) bson.M {
	return bson.M{"project_name": projectName}
}

func TaskMeta(taskTitle string, projectID primitive.ObjectID) bson.M {
	return bson.M{"task_title": taskTitle, "project_id": projectID}
}
