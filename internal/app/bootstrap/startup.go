// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/collabhub/internal/app/realtime"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// hub is the process-wide realtime gateway. Created in Startup, wired
// into routes in BuildHandler, stopped in Shutdown.
var (
	hub       *realtime.Hub
	hubCancel context.CancelFunc
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	hub = realtime.NewHub(logger)
	var hubCtx context.Context
	hubCtx, hubCancel = context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	logger.Info("realtime hub started")
	return nil
}
