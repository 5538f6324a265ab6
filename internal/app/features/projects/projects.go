// internal/app/features/projects/projects.go
package projects

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createProjectRequest struct {
	TeamID      string     `json:"team_id" validate:"required"`
	Name        string     `json:"name" validate:"required,min=2,max=100"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
	Status      string     `json:"status" validate:"omitempty,oneof=planning active on-hold completed cancelled"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=planning active on-hold completed cancelled"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Progress    *int       `json:"progress" validate:"omitempty,min=0,max=100"`
}

// HandleCreateProject handles POST /projects. Viewers cannot create.
func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}
	teamID, err := primitive.ObjectIDFromHex(req.TeamID)
	if err != nil {
		respond.BadRequest(w, "invalid team id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, err := h.Teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return
		}
		h.Log.Error("load team", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if !teampolicy.CanEdit(t, userID) {
		respond.Forbidden(w, "you cannot create projects in this team")
		return
	}

	p := models.Project{
		TeamID:      teamID,
		Name:        strings.TrimSpace(req.Name),
		Description: inputval.CleanText(req.Description),
		Status:      req.Status,
		CreatedBy:   userID,
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = *req.EndDate
	}

	created, err := h.Projects.Create(ctx, p)
	if err != nil {
		h.Log.Error("create project", zap.Error(err))
		respond.ServerError(w)
		return
	}

	warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      teamID,
		UserID:      userID,
		Action:      activitylog.ActionProjectCreate,
		Description: "created a project",
		TargetType:  "project",
		TargetID:    &created.ID,
		Metadata:    activitylog.ProjectMeta(created.Name),
	})

	if warning != "" {
		respond.WithWarning(w, http.StatusCreated, created, warning)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// ServeProject handles GET /projects/{id}, team member only.
func (h *Handler) ServeProject(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	t, ok := h.loadTeamFor(w, r, p)
	if !ok {
		return
	}
	if !teampolicy.IsMember(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// HandleUpdateProject handles PUT /projects/{id}. Viewers cannot edit.
func (h *Handler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	t, ok := h.loadTeamFor(w, r, p)
	if !ok {
		return
	}
	if !teampolicy.CanEdit(t, userID) {
		respond.Forbidden(w, "you cannot edit projects in this team")
		return
	}

	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}
	if req.Description != nil {
		clean := inputval.CleanText(*req.Description)
		req.Description = &clean
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Projects.Update(ctx, p.ID, projectstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Progress:    req.Progress,
	})
	if err != nil {
		if errors.Is(err, projectstore.ErrProjectNotFound) {
			respond.NotFound(w, "project not found")
			return
		}
		h.Log.Error("update project", zap.Error(err))
		respond.ServerError(w)
		return
	}

	warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      p.TeamID,
		UserID:      userID,
		Action:      activitylog.ActionProjectUpdate,
		Description: "updated a project",
		TargetType:  "project",
		TargetID:    &updated.ID,
		Metadata:    activitylog.ProjectMeta(updated.Name),
	})

	if warning != "" {
		respond.WithWarning(w, http.StatusOK, updated, warning)
		return
	}
	respond.Message(w, http.StatusOK, updated, "project updated")
}

// HandleDeleteProject handles DELETE /projects/{id}: creator or team
// admin only.
func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	t, ok := h.loadTeamFor(w, r, p)
	if !ok {
		return
	}
	if p.CreatedBy != userID && !teampolicy.IsAdmin(t, userID) {
		respond.Forbidden(w, "only the project creator or a team admin can delete it")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Projects.Delete(ctx, p.ID); err != nil {
		h.Log.Error("delete project", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, http.StatusOK, nil, "project deleted")
}

// ServeProjectTasks handles GET /projects/{id}/tasks, team member only.
func (h *Handler) ServeProjectTasks(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	p, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	t, ok := h.loadTeamFor(w, r, p)
	if !ok {
		return
	}
	if !teampolicy.IsMember(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	tasks, err := h.Tasks.ListByProject(ctx, p.ID)
	if err != nil {
		h.Log.Error("list project tasks", zap.Error(err))
		respond.ServerError(w)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respond.JSON(w, http.StatusOK, tasks)
}

func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (models.Project, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid project id")
		return models.Project{}, false
	}
	p, err := h.Projects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, projectstore.ErrProjectNotFound) {
			respond.NotFound(w, "project not found")
			return models.Project{}, false
		}
		h.Log.Error("load project", zap.Error(err))
		respond.ServerError(w)
		return models.Project{}, false
	}
	return p, true
}
