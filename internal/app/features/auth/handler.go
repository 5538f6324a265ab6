// internal/app/features/auth/handler.go
package auth

import (
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the auth feature:
// registration, login, and the signed-in user's own profile.
type Handler struct {
	Users  *userstore.Store
	Tokens *sysauth.Manager
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *sysauth.Manager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}
