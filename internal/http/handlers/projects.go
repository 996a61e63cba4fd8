package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/gin-gonic/gin"
)

type ProjectStore interface {
	Create(ctx context.Context, p project.Project) (project.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error)
	Get(ctx context.Context, userID, id string) (project.Project, error)
	Update(ctx context.Context, userID, id string, req project.UpdateProjectRequest) (project.Project, error)
	Delete(ctx context.Context, userID, id string) error
}

type ProjectsHandler struct {
	projects ProjectStore
	summary  SummaryInvalidator
}

func NewProjectsHandler(projects ProjectStore, summary SummaryInvalidator) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, summary: invalidatorOrNoop(summary)}
}

func (h *ProjectsHandler) CreateProject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req project.CreateProjectRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	p, err := h.projects.Create(cctx, project.NewFromCreateRequest(userID, req))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.JSON(http.StatusCreated, p)
}

func (h *ProjectsHandler) ListProjects(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	items, err := h.projects.ListByOwner(cctx, userID)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *ProjectsHandler) GetProject(ctx *gin.Context) {
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

	p, err := h.projects.Get(cctx, userID, id)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) UpdateProject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	p, err := h.projects.Update(cctx, userID, id, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) DeleteProject(ctx *gin.Context) {
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

	if err := h.projects.Delete(cctx, userID, id); err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.Status(http.StatusNoContent)
}
