// internal/app/features/teams/analytics.go
package teams

import (
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/store/queries/teamanalytics"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeAnalytics handles GET /teams/{id}/analytics, member only. The
// rollup is recomputed on every request; it touches four collections, so
// it gets the long timeout.
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	result, err := teamanalytics.Compute(ctx, h.DB, t)
	if err != nil {
		h.Log.Error("compute analytics", zap.String("team_id", t.ID.Hex()), zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}
