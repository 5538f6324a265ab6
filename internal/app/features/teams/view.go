// internal/app/features/teams/view.go
package teams

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeTeam handles GET /teams/{id}. Private teams are visible to
// members only; the join code is included for members only.
func (h *Handler) ServeTeam(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if !teampolicy.CanView(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}
	if !teampolicy.IsMember(t, userID) {
		t.JoinCode = ""
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	view, err := h.teamView(ctx, t)
	if err != nil {
		h.Log.Error("populate team view", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

// HandleUpdateTeam handles PUT /teams/{id}: name/description edits,
// admin only. Broadcasts team_updated to the room.
func (h *Handler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if !teampolicy.IsAdmin(t, userID) {
		respond.Forbidden(w, "only team admins can update the team")
		return
	}

	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}
	if req.Description != nil {
		clean := inputval.CleanText(*req.Description)
		req.Description = &clean
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Teams.UpdateInfo(ctx, t.ID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return
		}
		h.Log.Error("update team", zap.Error(err))
		respond.ServerError(w)
		return
	}

	h.Hub.Broadcast(updated.ID.Hex(), realtime.EvTeamUpdated, updated)

	view, err := h.teamView(ctx, updated)
	if err != nil {
		h.Log.Error("populate team view", zap.Error(err))
		respond.JSON(w, http.StatusOK, updated)
		return
	}
	respond.Message(w, http.StatusOK, view, "team updated")
}
