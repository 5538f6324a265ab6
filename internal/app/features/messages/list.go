// internal/app/features/messages/list.go
package messages

import (
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeMessages handles GET /teams/{id}/messages, member only.
//
// The store pages newest-first so page 1 always holds the latest
// messages, then reverses the page, so the payload reads top to bottom
// in chronological order the way a chat pane renders it.
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid team id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return
		}
		h.Log.Error("load team", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !teampolicy.IsMember(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}

	p := paging.Parse(r, 50)

	page, total, err := h.Messages.ListByTeam(ctx, teamID, p.Skip(), int64(p.Limit))
	if err != nil {
		h.Log.Error("list messages", zap.Error(err))
		respond.ServerError(w)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(page))
	for _, m := range page {
		ids = append(ids, m.UserID)
	}
	refs, err := h.Users.GetRefs(ctx, ids)
	if err != nil {
		h.Log.Error("populate message authors", zap.Error(err))
		respond.ServerError(w)
		return
	}
	for i := range page {
		if ref, ok := refs[page[i].UserID]; ok {
			page[i].User = &ref
		} else {
			page[i].User = &models.UserRef{ID: page[i].UserID, Name: "Unknown User"}
		}
	}
	if page == nil {
		page = []models.Message{}
	}

	respond.Page(w, http.StatusOK, page, respond.Pagination{
		Current: p.Page,
		Pages:   paging.Pages(total, p.Limit),
		Total:   total,
	})
}
