// internal/app/features/messages/send.go
package messages

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type sendMessageRequest struct {
	Content  string              `json:"content" validate:"required"`
	Mentions []string            `json:"mentions"`
	ParentID *string             `json:"parent_id"`
	Type     string              `json:"type" validate:"omitempty,oneof=text file system"`
	Files    []models.Attachment `json:"attachments"`
}

// HandleSendMessage handles POST /teams/{id}/messages, member only.
// The message is persisted first; the room broadcast follows commit
// order, so everyone in the room sees messages in the order they were
// stored.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid team id")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	content := inputval.CleanText(req.Content)
	if content == "" {
		respond.BadRequest(w, "message content cannot be empty")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return
		}
		h.Log.Error("load team", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !teampolicy.IsMember(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}

	mentions := make([]primitive.ObjectID, 0, len(req.Mentions))
	for _, raw := range req.Mentions {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			respond.BadRequest(w, "invalid mention user id")
			return
		}
		mentions = append(mentions, oid)
	}
	var parentID *primitive.ObjectID
	if req.ParentID != nil {
		oid, err := primitive.ObjectIDFromHex(*req.ParentID)
		if err != nil {
			respond.BadRequest(w, "invalid parent message id")
			return
		}
		parentID = &oid
	}

	msg, err := h.Messages.Insert(ctx, models.Message{
		TeamID:      teamID,
		UserID:      userID,
		Content:     content,
		Type:        req.Type,
		Attachments: req.Files,
		Mentions:    mentions,
		ParentID:    parentID,
	})
	if err != nil {
		h.Log.Error("insert message", zap.Error(err))
		respond.ServerError(w)
		return
	}

	var warning string
	if _, err := h.Activity.Record(r.Context(), activitylog.Entry{
		TeamID:      teamID,
		UserID:      userID,
		Action:      activitylog.ActionMessageSent,
		Description: "sent a message",
		TargetType:  "message",
		TargetID:    &msg.ID,
		Metadata:    activitylog.MessageSentMeta(msg.ID),
	}); err != nil {
		warning = "activity could not be recorded"
	}

	// Populate the author before broadcasting so room members can render
	// the message without another lookup.
	if refs, err := h.Users.GetRefs(ctx, []primitive.ObjectID{userID}); err == nil {
		if ref, ok := refs[userID]; ok {
			msg.User = &ref
		}
	}
	h.Hub.Broadcast(teamID.Hex(), realtime.EvNewMessage, msg)

	if warning != "" {
		respond.WithWarning(w, http.StatusCreated, msg, warning)
		return
	}
	respond.JSON(w, http.StatusCreated, msg)
}
