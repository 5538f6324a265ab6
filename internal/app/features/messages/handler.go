// internal/app/features/messages/handler.go
package messages

import (
	"github.com/dalemusser/collabhub/internal/app/realtime"
	messagestore "github.com/dalemusser/collabhub/internal/app/store/messages"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for team chat: paginated
// history and sends, each send fanning out to the team's room.
type Handler struct {
	Teams    *teamstore.Store
	Messages *messagestore.Store
	Users    *userstore.Store
	Activity *activitylog.Logger
	Hub      realtime.Broadcaster
	Log      *zap.Logger
}

func NewHandler(
	teams *teamstore.Store,
	messages *messagestore.Store,
	users *userstore.Store,
	activity *activitylog.Logger,
	hub realtime.Broadcaster,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Teams:    teams,
		Messages: messages,
		Users:    users,
		Activity: activity,
		Hub:      hub,
		Log:      logger,
	}
}
