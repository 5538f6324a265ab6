// Package users serves user lookups for member pickers and profile views.
package users

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/", h.ServeDirectory)
	r.Get("/{id}", h.ServeUser)
	return r
}

// ServeDirectory handles GET /users: a paginated account listing with an
// optional ?search= filter on name or email. Backs the member pickers in
// invite flows.
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, 20)
	search := query.Get(r, "search")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, total, err := h.Users.Search(ctx, search, p.Skip(), int64(p.Limit))
	if err != nil {
		h.Log.Error("search users", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respond.Page(w, http.StatusOK, users, respond.Pagination{
		Current: p.Page,
		Pages:   paging.Pages(total, p.Limit),
		Total:   total,
	})
}

// ServeUser handles GET /users/{id}: a public profile view. The password
// hash never serializes; everything else on the account is visible to
// signed-in users.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.NotFound(w, "user not found")
			return
		}
		h.Log.Error("load user", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
