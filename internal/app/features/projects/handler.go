// internal/app/features/projects/handler.go
package projects

import (
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/realtime"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/collabhub/internal/app/store/tasks"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the projects feature.
type Handler struct {
	Teams    *teamstore.Store
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Activity *activitylog.Logger
	Hub      realtime.Broadcaster
	Log      *zap.Logger
}

func NewHandler(
	teams *teamstore.Store,
	projects *projectstore.Store,
	tasks *taskstore.Store,
	activity *activitylog.Logger,
	hub realtime.Broadcaster,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Teams:    teams,
		Projects: projects,
		Tasks:    tasks,
		Activity: activity,
		Hub:      hub,
		Log:      logger,
	}
}

// loadTeamFor fetches the team a project belongs to, writing the error
// response on failure.
func (h *Handler) loadTeamFor(w http.ResponseWriter, r *http.Request, p models.Project) (models.Team, bool) {
	t, err := h.Teams.GetByID(r.Context(), p.TeamID)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return models.Team{}, false
		}
		h.Log.Error("load team", zap.Error(err))
		respond.ServerError(w)
		return models.Team{}, false
	}
	return t, true
}

// recordActivity writes a best-effort entry and pushes the persisted
// record to the room, returning a warning string when the write failed.
func (h *Handler) recordActivity(r *http.Request, e activitylog.Entry) string {
	act, err := h.Activity.Record(r.Context(), e)
	if err != nil {
		return "activity could not be recorded"
	}
	h.Hub.Broadcast(e.TeamID.Hex(), realtime.EvNewActivity, act)
	return ""
}
