// internal/app/features/teams/handler.go
package teams

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/realtime"
	activitystore "github.com/dalemusser/collabhub/internal/app/store/activities"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the teams feature:
// membership, invites, settings, the activity feed, and analytics.
type Handler struct {
	DB         *mongo.Database
	Teams      *teamstore.Store
	Users      *userstore.Store
	Activities *activitystore.Store
	Projects   *projectstore.Store
	Activity   *activitylog.Logger
	Hub        realtime.Broadcaster
	Log        *zap.Logger
}

func NewHandler(
	db *mongo.Database,
	teams *teamstore.Store,
	users *userstore.Store,
	activities *activitystore.Store,
	projects *projectstore.Store,
	activity *activitylog.Logger,
	hub realtime.Broadcaster,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:         db,
		Teams:      teams,
		Users:      users,
		Activities: activities,
		Projects:   projects,
		Activity:   activity,
		Hub:        hub,
		Log:        logger,
	}
}

// loadTeam resolves the {id} URL param and fetches the team, writing the
// error response itself. ok=false means the response is already written.
func (h *Handler) loadTeam(w http.ResponseWriter, r *http.Request) (models.Team, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid team id")
		return models.Team{}, false
	}
	t, err := h.Teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return models.Team{}, false
		}
		h.Log.Error("load team", zap.Error(err))
		respond.ServerError(w)
		return models.Team{}, false
	}
	return t, true
}

// broadcastTeamUpdated pushes the team's current snapshot to its room.
// Every membership mutation calls this after the write succeeds, so
// connected clients never have to re-fetch the roster themselves.
func (h *Handler) broadcastTeamUpdated(ctx context.Context, teamID primitive.ObjectID) {
	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		h.Log.Warn("load team for room update",
			zap.String("team_id", teamID.Hex()), zap.Error(err))
		return
	}
	h.Hub.Broadcast(teamID.Hex(), realtime.EvTeamUpdated, t)
}

// teamView populates member identities for API responses.
func (h *Handler) teamView(ctx context.Context, t models.Team) (teamResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(t.Members)+1)
	for _, m := range t.Members {
		ids = append(ids, m.UserID)
	}
	ids = append(ids, t.CreatedBy)

	refs, err := h.Users.GetRefs(ctx, ids)
	if err != nil {
		return teamResponse{}, err
	}

	view := teamResponse{Team: t, Members: make([]memberView, 0, len(t.Members))}
	for _, m := range t.Members {
		mv := memberView{Role: m.Role, JoinedAt: m.JoinedAt}
		if ref, ok := refs[m.UserID]; ok {
			mv.User = &ref
		} else {
			// Deleted account still on the roster.
			mv.User = &models.UserRef{ID: m.UserID, Name: "Unknown User"}
		}
		view.Members = append(view.Members, mv)
	}
	if ref, ok := refs[t.CreatedBy]; ok {
		view.Creator = &ref
	}
	return view, nil
}
