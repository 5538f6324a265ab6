// internal/app/features/teams/create.go
package teams

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreateTeam handles POST /teams. The creator becomes the sole
// admin and a join code is generated.
func (h *Handler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	settings := models.DefaultTeamSettings()
	if req.Settings != nil {
		if req.Settings.AllowMemberInvites != nil {
			settings.AllowMemberInvites = *req.Settings.AllowMemberInvites
		}
		if req.Settings.DefaultRole != nil {
			settings.DefaultRole = *req.Settings.DefaultRole
		}
		if req.Settings.Visibility != nil {
			settings.Visibility = *req.Settings.Visibility
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Teams.Create(ctx, models.Team{
		Name:        strings.TrimSpace(req.Name),
		Description: inputval.CleanText(req.Description),
		CreatedBy:   userID,
		Settings:    settings,
	})
	if err != nil {
		h.Log.Error("create team", zap.Error(err))
		respond.ServerError(w)
		return
	}

	_, warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      t.ID,
		UserID:      userID,
		Action:      activitylog.ActionTeamCreated,
		Description: "created the team",
		TargetType:  "team",
		TargetID:    &t.ID,
		Metadata:    activitylog.TeamCreatedMeta(t.Name),
	})

	view, err := h.teamView(ctx, t)
	if err != nil {
		h.Log.Error("populate team view", zap.Error(err))
		respond.JSON(w, http.StatusCreated, t)
		return
	}
	if warning != "" {
		respond.WithWarning(w, http.StatusCreated, view, warning)
		return
	}
	respond.JSON(w, http.StatusCreated, view)
}
