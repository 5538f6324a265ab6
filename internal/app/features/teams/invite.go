// internal/app/features/teams/invite.go
package teams

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleInvite handles POST /teams/{id}/invite: adds an existing account
// to the team by email. Admins can always invite; plain members only
// when the team allows member invites.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if !teampolicy.CanInvite(t, userID) {
		respond.Forbidden(w, "you cannot invite members to this team")
		return
	}

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}
	role := req.Role
	if role == "" {
		role = t.Settings.DefaultRole
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	invitee, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.NotFound(w, "no account with this email")
			return
		}
		h.Log.Error("invite lookup", zap.Error(err))
		respond.ServerError(w)
		return
	}

	if err := h.Teams.AddMember(ctx, t.ID, invitee.ID, role); err != nil {
		switch {
		case errors.Is(err, teamstore.ErrAlreadyMember):
			respond.Conflict(w, err.Error())
		case errors.Is(err, teamstore.ErrTeamNotFound):
			respond.NotFound(w, "team not found")
		case errors.Is(err, teamstore.ErrInvalidRole):
			respond.BadRequest(w, err.Error())
		default:
			h.Log.Error("add member", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	act, warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      t.ID,
		UserID:      invitee.ID,
		Action:      activitylog.ActionMemberJoined,
		Description: "joined the team",
		TargetType:  "team",
		TargetID:    &t.ID,
		Metadata:    activitylog.MemberJoinedMeta("invite", invitee.ID, role),
	})

	ref := invitee.Ref()
	payload := memberEventPayload{
		TeamID: t.ID.Hex(),
		User:   &ref,
		Role:   role,
	}
	if warning == "" {
		payload.Activity = &act
	}
	h.Hub.Broadcast(t.ID.Hex(), realtime.EvMemberJoined, payload)
	h.broadcastTeamUpdated(ctx, t.ID)

	data := map[string]interface{}{"user": ref, "role": role}
	if warning != "" {
		respond.WithWarning(w, http.StatusOK, data, warning)
		return
	}
	respond.Message(w, http.StatusOK, data, "member added")
}
