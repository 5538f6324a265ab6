// internal/app/features/teams/projects.go
package teams

import (
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeProjects handles GET /teams/{id}/projects, member only.
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	t, ok := h.loadTeam(w, r)
	if !ok {
		return
	}
	if !teampolicy.IsMember(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListByTeam(ctx, t.ID)
	if err != nil {
		h.Log.Error("list team projects", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respond.JSON(w, http.StatusOK, projects)
}
