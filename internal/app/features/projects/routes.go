// internal/app/features/projects/routes.go
package projects

import (
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Post("/", h.HandleCreateProject)
	r.Get("/{id}", h.ServeProject)
	r.Put("/{id}", h.HandleUpdateProject)
	r.Delete("/{id}", h.HandleDeleteProject)
	r.Get("/{id}/tasks", h.ServeProjectTasks)

	return r
}
