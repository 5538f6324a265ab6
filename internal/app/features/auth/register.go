// internal/app/features/auth/register.go
package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// HandleRegister handles POST /auth/register: creates the account and
// signs the caller in with a fresh token.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		respond.ServerError(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Conflict(w, err.Error())
			return
		}
		h.Log.Error("create user", zap.Error(err))
		respond.ServerError(w)
		return
	}

	token, err := h.Tokens.IssueToken(u.ID.Hex(), u.Name, u.Email)
	if err != nil {
		h.Log.Error("issue token", zap.Error(err))
		respond.ServerError(w)
		return
	}

	respond.JSON(w, http.StatusCreated, sessionResponse{Token: token, User: u})
}
