// internal/app/features/teams/activities.go
package teams

import (
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// recordActivity writes a best-effort activity entry and pushes the
// persisted record to the team's room. Returns the record plus a warning
// string for the response envelope when the write failed; the request
// itself never fails for it.
func (h *Handler) recordActivity(r *http.Request, e activitylog.Entry) (models.Activity, string) {
	act, err := h.Activity.Record(r.Context(), e)
	if err != nil {
		return models.Activity{}, "activity could not be recorded"
	}
	h.Hub.Broadcast(e.TeamID.Hex(), realtime.EvNewActivity, act)
	return act, ""
}

// ServeActivities handles GET /teams/{id}/activities: the team's
// paginated activity feed, newest first, with actor identities populated.
func (h *Handler) ServeActivities(w http.ResponseWriter, r *http.Request) {
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

	p := paging.Parse(r, 20)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	feed, total, err := h.Activities.ListByTeam(ctx, t.ID, p.Skip(), int64(p.Limit))
	if err != nil {
		h.Log.Error("list activities", zap.Error(err))
		respond.ServerError(w)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(feed))
	for _, a := range feed {
		ids = append(ids, a.UserID)
	}
	refs, err := h.Users.GetRefs(ctx, ids)
	if err != nil {
		h.Log.Error("populate activity actors", zap.Error(err))
		respond.ServerError(w)
		return
	}
	for i := range feed {
		if ref, ok := refs[feed[i].UserID]; ok {
			feed[i].User = &ref
		} else {
			feed[i].User = &models.UserRef{ID: feed[i].UserID, Name: "Unknown User"}
		}
	}
	if feed == nil {
		feed = []models.Activity{}
	}

	respond.Page(w, http.StatusOK, feed, respond.Pagination{
		Current: p.Page,
		Pages:   paging.Pages(total, p.Limit),
		Total:   total,
	})
}
