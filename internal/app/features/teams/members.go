// internal/app/features/teams/members.go
package teams

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
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleChangeRole handles PUT /teams/{id}/members/{userID}/role.
// Admin only. Demoting the only admin is refused by the store.
func (h *Handler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if !teampolicy.IsAdmin(t, callerID) {
		respond.Forbidden(w, "only team admins can change roles")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.BadRequest(w, "invalid user id")
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	oldRole, err := h.Teams.ChangeRole(ctx, t.ID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, teamstore.ErrMemberNotFound):
			respond.NotFound(w, err.Error())
		case errors.Is(err, teamstore.ErrLastAdmin):
			respond.Conflict(w, err.Error())
		case errors.Is(err, teamstore.ErrTeamNotFound):
			respond.NotFound(w, "team not found")
		default:
			h.Log.Error("change role", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	var warning string
	if oldRole != req.Role {
		act, warn := h.recordActivity(r, activitylog.Entry{
			TeamID:      t.ID,
			UserID:      callerID,
			Action:      activitylog.ActionRoleChanged,
			Description: "changed a member's role",
			TargetType:  "user",
			TargetID:    &targetID,
			Metadata:    activitylog.RoleChangedMeta(oldRole, req.Role, targetID),
		})
		warning = warn
		payload := memberEventPayload{
			TeamID: t.ID.Hex(),
			UserID: targetID.Hex(),
			Role:   req.Role,
		}
		if warning == "" {
			payload.Activity = &act
		}
		h.Hub.Broadcast(t.ID.Hex(), realtime.EvMemberRoleUpdated, payload)
		h.broadcastTeamUpdated(ctx, t.ID)
	}

	data := map[string]string{"old_role": oldRole, "new_role": req.Role}
	if warning != "" {
		respond.WithWarning(w, http.StatusOK, data, warning)
		return
	}
	respond.Message(w, http.StatusOK, data, "role updated")
}

// HandleRemoveMember handles DELETE /teams/{id}/members/{userID}.
// Members may remove themselves (leave); removing anyone else requires
// admin. The store refuses to remove the only admin.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.BadRequest(w, "invalid user id")
		return
	}

	self := targetID == callerID
	if !self && !teampolicy.IsAdmin(t, callerID) {
		respond.Forbidden(w, "only team admins can remove other members")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Teams.RemoveMember(ctx, t.ID, targetID); err != nil {
		switch {
		case errors.Is(err, teamstore.ErrMemberNotFound):
			respond.NotFound(w, err.Error())
		case errors.Is(err, teamstore.ErrLastAdmin):
			respond.Conflict(w, err.Error())
		case errors.Is(err, teamstore.ErrTeamNotFound):
			respond.NotFound(w, "team not found")
		default:
			h.Log.Error("remove member", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	desc := "was removed from the team"
	if self {
		desc = "left the team"
	}
	act, warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      t.ID,
		UserID:      targetID,
		Action:      activitylog.ActionMemberLeft,
		Description: desc,
		TargetType:  "team",
		TargetID:    &t.ID,
		Metadata:    activitylog.MemberLeftMeta(callerID, self),
	})

	payload := memberEventPayload{
		TeamID: t.ID.Hex(),
		UserID: targetID.Hex(),
	}
	if warning == "" {
		payload.Activity = &act
	}
	h.Hub.Broadcast(t.ID.Hex(), realtime.EvMemberLeft, payload)
	h.broadcastTeamUpdated(ctx, t.ID)

	if warning != "" {
		respond.WithWarning(w, http.StatusOK, nil, warning)
		return
	}
	respond.Message(w, http.StatusOK, nil, "member removed")
}
