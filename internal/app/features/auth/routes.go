// internal/app/features/auth/routes.go
package auth

import (
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Put("/profile", h.HandleUpdateProfile)
		pr.Put("/password", h.HandleChangePassword)
	})

	return r
}
