// internal/app/features/teams/list.go
package teams

import (
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeDirectory handles GET /teams: the paginated public team
// directory. Join codes are stripped for non-members; the directory is
// for discovery, not joining.
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	p := paging.Parse(r, 20)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teamsPage, total, err := h.Teams.ListPublic(ctx, p.Skip(), int64(p.Limit))
	if err != nil {
		h.Log.Error("list public teams", zap.Error(err))
		respond.ServerError(w)
		return
	}

	for i := range teamsPage {
		if !teampolicy.IsMember(teamsPage[i], userID) {
			teamsPage[i].JoinCode = ""
		}
	}

	respond.Page(w, http.StatusOK, teamsPage, respond.Pagination{
		Current: p.Page,
		Pages:   paging.Pages(total, p.Limit),
		Total:   total,
	})
}

// ServeMyTeams handles GET /teams/my: every team the caller belongs to.
func (h *Handler) ServeMyTeams(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	mine, err := h.Teams.ListByMember(ctx, userID)
	if err != nil {
		h.Log.Error("list my teams", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if mine == nil {
		mine = []models.Team{}
	}
	respond.JSON(w, http.StatusOK, mine)
}
