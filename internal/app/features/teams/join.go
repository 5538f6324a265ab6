// internal/app/features/teams/join.go
package teams

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/realtime"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/joincode"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleJoinTeam handles POST /teams/{id}/join: self-join at the team's
// default role. Joining twice is a conflict, not a role change.
func (h *Handler) HandleJoinTeam(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	h.join(w, r, t, userID, name, "direct")
}

// HandleJoinByCode handles POST /teams/join with a bare join code.
func (h *Handler) HandleJoinByCode(w http.ResponseWriter, r *http.Request) {
	userID, name, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req joinByCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}
	if !joincode.IsValid(req.Code) {
		respond.BadRequest(w, "invalid join code")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Teams.GetByJoinCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "no team with this join code")
			return
		}
		h.Log.Error("join code lookup", zap.Error(err))
		respond.ServerError(w)
		return
	}
	h.join(w, r, t, userID, name, "code")
}

// join adds the caller at the team's default role and notifies the room.
func (h *Handler) join(w http.ResponseWriter, r *http.Request, t models.Team, userID primitive.ObjectID, name, method string) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	role := t.Settings.DefaultRole
	if err := h.Teams.AddMember(ctx, t.ID, userID, role); err != nil {
		switch {
		case errors.Is(err, teamstore.ErrAlreadyMember):
			respond.Conflict(w, err.Error())
		case errors.Is(err, teamstore.ErrTeamNotFound):
			respond.NotFound(w, "team not found")
		default:
			h.Log.Error("join team", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	act, warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      t.ID,
		UserID:      userID,
		Action:      activitylog.ActionMemberJoined,
		Description: "joined the team",
		TargetType:  "team",
		TargetID:    &t.ID,
		Metadata:    activitylog.MemberJoinedMeta(method, userID, role),
	})

	payload := memberEventPayload{
		TeamID: t.ID.Hex(),
		User:   &models.UserRef{ID: userID, Name: name},
		Role:   role,
	}
	if warning == "" {
		payload.Activity = &act
	}
	h.Hub.Broadcast(t.ID.Hex(), realtime.EvMemberJoined, payload)
	h.broadcastTeamUpdated(ctx, t.ID)

	data := map[string]interface{}{"team_id": t.ID, "role": role}
	if warning != "" {
		respond.WithWarning(w, http.StatusOK, data, warning)
		return
	}
	respond.Message(w, http.StatusOK, data, "joined team")
}
