// internal/app/features/auth/profile.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeMe handles GET /auth/me: the caller's own account.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.NotFound(w, "user not found")
			return
		}
		h.Log.Error("load current user", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// HandleUpdateProfile handles PUT /auth/profile. Email changes are not
// supported here; the address is the login identity.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, userID, userstore.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Bio:      req.Bio,
		Location: req.Location,
		Company:  req.Company,
		Position: req.Position,
		Avatar:   req.Avatar,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.NotFound(w, "user not found")
			return
		}
		h.Log.Error("update profile", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, http.StatusOK, u, "profile updated")
}
