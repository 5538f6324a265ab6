// internal/app/features/teams/routes.go
package teams

import (
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /teams requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		// DIRECTORY + OWN TEAMS
		pr.Get("/", h.ServeDirectory)
		pr.Get("/my", h.ServeMyTeams)

		// CREATE + JOIN BY CODE
		pr.Post("/", h.HandleCreateTeam)
		pr.Post("/join", h.HandleJoinByCode)

		// SINGLE TEAM
		pr.Get("/{id}", h.ServeTeam)
		pr.Put("/{id}", h.HandleUpdateTeam)

		// MEMBERSHIP
		pr.Post("/{id}/invite", h.HandleInvite)
		pr.Post("/{id}/join", h.HandleJoinTeam)
		pr.Put("/{id}/members/{userID}/role", h.HandleChangeRole)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)

		// SETTINGS
		pr.Put("/{id}/settings", h.HandleUpdateSettings)

		// FEED + PROJECTS + ANALYTICS
		pr.Get("/{id}/activities", h.ServeActivities)
		pr.Get("/{id}/projects", h.ServeProjects)
		pr.Get("/{id}/analytics", h.ServeAnalytics)
	})

	return r
}
