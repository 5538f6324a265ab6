// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/collabhub/internal/app/features/auth"
	healthfeature "github.com/dalemusser/collabhub/internal/app/features/health"
	messagesfeature "github.com/dalemusser/collabhub/internal/app/features/messages"
	projectsfeature "github.com/dalemusser/collabhub/internal/app/features/projects"
	tasksfeature "github.com/dalemusser/collabhub/internal/app/features/tasks"
	teamsfeature "github.com/dalemusser/collabhub/internal/app/features/teams"
	usersfeature "github.com/dalemusser/collabhub/internal/app/features/users"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	activitystore "github.com/dalemusser/collabhub/internal/app/store/activities"
	messagestore "github.com/dalemusser/collabhub/internal/app/store/messages"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/collabhub/internal/app/store/tasks"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app. WAFFLE calls this after configuration, DB connections, schema
// setup, and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	users := userstore.New(db)
	teams := teamstore.New(db)
	messages := messagestore.New(db)
	activities := activitystore.New(db)
	projects := projectstore.New(db)
	tasks := taskstore.New(db)

	tokenMgr, err := sysauth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	// Fresh identity per request: profile updates and deletions take
	// effect immediately instead of at token expiry.
	tokenMgr.SetUserFetcher(users)

	activity := activitylog.New(activities, logger)

	authH := authfeature.NewHandler(users, tokenMgr, logger)
	usersH := usersfeature.NewHandler(users, logger)
	teamsH := teamsfeature.NewHandler(db, teams, users, activities, projects, activity, hub, logger)
	messagesH := messagesfeature.NewHandler(teams, messages, users, activity, hub, logger)
	projectsH := projectsfeature.NewHandler(teams, projects, tasks, activity, hub, logger)
	tasksH := tasksfeature.NewHandler(teams, projects, tasks, activity, hub, logger)
	healthH := healthfeature.NewHandler(deps.MongoClient, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the bearer identity into context when
	// a valid token is present. Route groups decide whether to require it.
	r.Use(tokenMgr.LoadBearerUser)

	r.Get("/health", healthH.Serve)
	r.Get("/ws", realtime.ServeWS(hub, tokenMgr, logger))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", authfeature.Routes(authH))
		api.Mount("/users", usersfeature.Routes(usersH))
		api.Mount("/teams", teamsfeature.Routes(teamsH))
		api.Mount("/teams/{id}/messages", messagesfeature.Routes(messagesH))
		api.Mount("/projects", projectsfeature.Routes(projectsH))
		api.Mount("/tasks", tasksfeature.Routes(tasksH))
	})

	return r, nil
}
