// Package tasks is the task CRUD surface. Task writes require edit
// access on the owning project's team; completing a task records a
// task_completed activity on that team's feed.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/collabhub/internal/app/policy/teampolicy"
	"github.com/dalemusser/collabhub/internal/app/realtime"
	projectstore "github.com/dalemusser/collabhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/collabhub/internal/app/store/tasks"
	teamstore "github.com/dalemusser/collabhub/internal/app/store/teams"
	"github.com/dalemusser/collabhub/internal/app/system/activitylog"
	sysauth "github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/inputval"
	"github.com/dalemusser/collabhub/internal/app/system/respond"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Teams    *teamstore.Store
	Projects *projectstore.Store
	Tasks    *taskstore.Store
	Activity *activitylog.Logger
	Hub      realtime.Broadcaster
	Log      *zap.Logger
}

func NewHandler(
	teams *teamstore.Store,
	projects *projectstore.Store,
	tasks *taskstore.Store,
	activity *activitylog.Logger,
	hub realtime.Broadcaster,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Teams:    teams,
		Projects: projects,
		Tasks:    tasks,
		Activity: activity,
		Hub:      hub,
		Log:      logger,
	}
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(sysauth.RequireSignedIn)

	r.Post("/", h.HandleCreateTask)
	r.Get("/{id}", h.ServeTask)
	r.Put("/{id}", h.HandleUpdateTask)
	r.Delete("/{id}", h.HandleDeleteTask)

	return r
}

type createTaskRequest struct {
	ProjectID   string     `json:"project_id" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

// HandleCreateTask handles POST /tasks.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		respond.BadRequest(w, "invalid project id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, t, ok := h.loadProjectTeam(ctx, w, projectID)
	if !ok {
		return
	}
	if !teampolicy.CanEdit(t, userID) {
		respond.Forbidden(w, "you cannot create tasks in this team")
		return
	}

	task := models.Task{
		ProjectID:   p.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: inputval.CleanText(req.Description),
		Priority:    req.Priority,
		CreatedBy:   userID,
		DueDate:     req.DueDate,
	}
	if req.AssignedTo != nil {
		oid, err := primitive.ObjectIDFromHex(*req.AssignedTo)
		if err != nil {
			respond.BadRequest(w, "invalid assignee id")
			return
		}
		task.AssignedTo = &oid
	}

	created, err := h.Tasks.Create(ctx, task)
	if err != nil {
		h.Log.Error("create task", zap.Error(err))
		respond.ServerError(w)
		return
	}

	warning := h.recordActivity(r, activitylog.Entry{
		TeamID:      t.ID,
		UserID:      userID,
		Action:      activitylog.ActionTaskCreated,
		Description: "created a task",
		TargetType:  "task",
		TargetID:    &created.ID,
		Metadata:    activitylog.TaskMeta(created.Title, p.ID),
	})

	if warning != "" {
		respond.WithWarning(w, http.StatusCreated, created, warning)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// ServeTask handles GET /tasks/{id}, team member only.
func (h *Handler) ServeTask(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, t, ok := h.loadProjectTeam(ctx, w, task.ProjectID)
	if !ok {
		return
	}
	if !teampolicy.IsMember(t, userID) {
		respond.Forbidden(w, "you are not a member of this team")
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

// HandleUpdateTask handles PUT /tasks/{id}. A transition into completed
// records task_completed on the team's feed.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid JSON body")
		return
	}
	if err := inputval.ValidateStruct(req); err != nil {
		respond.BadRequest(w, inputval.FirstError(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, t, ok := h.loadProjectTeam(ctx, w, task.ProjectID)
	if !ok {
		return
	}
	if !teampolicy.CanEdit(t, userID) {
		respond.Forbidden(w, "you cannot edit tasks in this team")
		return
	}

	upd := taskstore.Update{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.Description != nil {
		clean := inputval.CleanText(*req.Description)
		upd.Description = &clean
	}
	if req.AssignedTo != nil {
		oid, err := primitive.ObjectIDFromHex(*req.AssignedTo)
		if err != nil {
			respond.BadRequest(w, "invalid assignee id")
			return
		}
		upd.AssignedTo = &oid
	}

	updated, completed, err := h.Tasks.Update(ctx, task.ID, upd)
	if err != nil {
		if errors.Is(err, taskstore.ErrTaskNotFound) {
			respond.NotFound(w, "task not found")
			return
		}
		h.Log.Error("update task", zap.Error(err))
		respond.ServerError(w)
		return
	}

	var warning string
	if completed {
		warning = h.recordActivity(r, activitylog.Entry{
			TeamID:      t.ID,
			UserID:      userID,
			Action:      activitylog.ActionTaskCompleted,
			Description: "completed a task",
			TargetType:  "task",
			TargetID:    &updated.ID,
			Metadata:    activitylog.TaskMeta(updated.Title, p.ID),
		})
	}

	if warning != "" {
		respond.WithWarning(w, http.StatusOK, updated, warning)
		return
	}
	respond.Message(w, http.StatusOK, updated, "task updated")
}

// HandleDeleteTask handles DELETE /tasks/{id}: creator or team admin.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w, "authentication required")
		return
	}
	task, ok := h.loadTask(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, t, ok := h.loadProjectTeam(ctx, w, task.ProjectID)
	if !ok {
		return
	}
	if task.CreatedBy != userID && !teampolicy.IsAdmin(t, userID) {
		respond.Forbidden(w, "only the task creator or a team admin can delete it")
		return
	}

	if _, err := h.Tasks.Delete(ctx, task.ID); err != nil {
		h.Log.Error("delete task", zap.Error(err))
		respond.ServerError(w)
		return
	}
	respond.Message(w, http.StatusOK, nil, "task deleted")
}

func (h *Handler) loadTask(w http.ResponseWriter, r *http.Request) (models.Task, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, "invalid task id")
		return models.Task{}, false
	}
	task, err := h.Tasks.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, taskstore.ErrTaskNotFound) {
			respond.NotFound(w, "task not found")
			return models.Task{}, false
		}
		h.Log.Error("load task", zap.Error(err))
		respond.ServerError(w)
		return models.Task{}, false
	}
	return task, true
}

func (h *Handler) loadProjectTeam(ctx context.Context, w http.ResponseWriter, projectID primitive.ObjectID) (models.Project, models.Team, bool) {
	p, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, projectstore.ErrProjectNotFound) {
			respond.NotFound(w, "project not found")
			return models.Project{}, models.Team{}, false
		}
		h.Log.Error("load project", zap.Error(err))
		respond.ServerError(w)
		return models.Project{}, models.Team{}, false
	}
	t, err := h.Teams.GetByID(ctx, p.TeamID)
	if err != nil {
		if errors.Is(err, teamstore.ErrTeamNotFound) {
			respond.NotFound(w, "team not found")
			return models.Project{}, models.Team{}, false
		}
		h.Log.Error("load team", zap.Error(err))
		respond.ServerError(w)
		return models.Project{}, models.Team{}, false
	}
	return p, t, true
}

func (h *Handler) recordActivity(r *http.Request, e activitylog.Entry) string {
	act, err := h.Activity.Record(r.Context(), e)
	if err != nil {
		return "activity could not be recorded"
	}
	h.Hub.Broadcast(e.TeamID.Hex(), realtime.EvNewActivity, act)
	return ""
}
