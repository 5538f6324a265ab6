// internal/app/features/auth/password.go
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
	"golang.org/x/crypto/bcrypt"
)

// HandleChangePassword handles PUT /auth/password. The current password
// must be presented; a bearer token alone is not enough to rotate the
// credential it was issued from.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req changePasswordRequest
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

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.NotFound(w, "user not found")
			return
		}
		h.Log.Error("load user for password change", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
		respond.Unauthorized(w, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if err := h.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.NotFound(w, "user not found")
			return
		}
		h.Log.Error("update password", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, http.StatusOK, nil, "password updated")
}
