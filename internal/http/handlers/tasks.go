package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type TaskStore interface {
	Create(ctx context.Context, userID string, t task.Task) (task.Task, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]task.Task, error)
	ListByOwner(ctx context.Context, userID string) ([]task.Task, error)
	Get(ctx context.Context, userID, id string) (task.Task, error)
	Update(ctx context.Context, userID, id string, req task.UpdateTaskRequest) (task.Task, error)
	Delete(ctx context.Context, userID, id string) error
}

type TasksHandler struct {
	tasks   TaskStore
	summary SummaryInvalidator
}

func NewTasksHandler(tasks TaskStore, summary SummaryInvalidator) *TasksHandler {
	return &TasksHandler{tasks: tasks, summary: invalidatorOrNoop(summary)}
}

// CreateTask serves both POST /tasks (projectId in the body) and
// POST /projects/:id/tasks (project from the path).
func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req task.CreateTaskRequest
	if !BindJSON(ctx, &req) {
		return
	}

	if ctx.Param("id") != "" {
		projectID, ok := uuidParam(ctx, "id")
		if !ok {
			return
		}
		req.ProjectID = projectID
	}
	if req.ProjectID == "" {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{{Field: "projectId", Rule: "required", Message: validationMessage("required", "")}},
		})
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	t, err := h.tasks.Create(cctx, userID, task.NewFromCreateRequest(req))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.JSON(http.StatusCreated, t)
}

// ListTasks serves GET /tasks?projectId= and GET /projects/:id/tasks.
func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	projectID := ctx.Query("projectId")
	if ctx.Param("id") != "" {
		id, ok := uuidParam(ctx, "id")
		if !ok {
			return
		}
		projectID = id
	} else if projectID != "" && !utils.IsUUID(projectID) {
		RespondBadRequest(ctx, "Invalid projectId", gin.H{"field": "projectId", "reason": "must be a valid UUID"})
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	var (
		items []task.Task
		err   error
	)
	if projectID != "" {
		items, err = h.tasks.ListByProject(cctx, userID, projectID)
	} else {
		items, err = h.tasks.ListByOwner(cctx, userID)
	}
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	t, err := h.tasks.Get(cctx, userID, id)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	t, err := h.tasks.Update(cctx, userID, id, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.JSON(http.StatusOK, t)
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	if err := h.tasks.Delete(cctx, userID, id); err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.Status(http.StatusNoContent)
}
