// internal/app/features/messages/routes.go
package messages

import (
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /teams/{id}/messages.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)
	r.Get("/", h.ServeMessages)
	r.Post("/", h.HandleSendMessage)
	return r
}
