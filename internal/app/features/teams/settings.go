// internal/app/features/teams/settings.go
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

// HandleUpdateSettings handles PUT /teams/{id}/settings, admin only.
// Absent fields keep their current values. Settings changes broadcast
// team_updated but do not appear in the activity feed.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
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
		respond.Forbidden(w, "only team admins can update settings")
		return
	}

	var req teamSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	settings := t.Settings
	if req.AllowMemberInvites != nil {
		settings.AllowMemberInvites = *req.AllowMemberInvites
	}
	if req.DefaultRole != nil {
		settings.DefaultRole = *req.DefaultRole
	}
	if req.Visibility != nil {
		settings.Visibility = *req.Visibility
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Teams.UpdateSettings(ctx, t.ID, settings)
	if err != nil {
		switch {
		case errors.Is(err, teamstore.ErrTeamNotFound):
			respond.NotFound(w, "team not found")
		case errors.Is(err, teamstore.ErrInvalidRole):
			respond.BadRequest(w, err.Error())
		default:
			h.Log.Error("update settings", zap.Error(err))
			respond.ServerError(w)
		}
		return
	}

	h.Hub.Broadcast(updated.ID.Hex(), realtime.EvTeamUpdated, updated)

	respond.Message(w, http.StatusOK, updated.Settings, "settings updated")
}
