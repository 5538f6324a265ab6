// internal/app/features/auth/login.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HandleLogin handles POST /auth/login. A wrong email and a wrong
// password produce the same response, so the endpoint does not leak
// which accounts exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrUserNotFound) {
			respond.Unauthorized(w, "invalid email or password")
			return
		}
		h.Log.Error("login lookup", zap.Error(err))
		respond.ServerError(w)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		respond.Unauthorized(w, "invalid email or password")
		return
	}

	token, err := h.Tokens.IssueToken(u.ID.Hex(), u.Name, u.Email)
	if err != nil {
		h.Log.Error("issue token", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.JSON(w, http.StatusOK, sessionResponse{Token: token, User: u})
}
