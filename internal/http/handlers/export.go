package handlers

import (
	"context"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/export"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/gin-gonic/gin"
)

// ProjectSnapshotReader returns a project with its tasks and entries as
// of a single point in time, so the workbook sheets agree.
type ProjectSnapshotReader interface {
	Snapshot(ctx context.Context, userID, projectID string) (project.Project, []task.Task, []timeentry.TimeEntry, error)
}

type ExportHandler struct {
	projects ProjectSnapshotReader
	prom     *observability.Prom
}

func NewExportHandler(projects ProjectSnapshotReader, prom *observability.Prom) *ExportHandler {
	return &ExportHandler{projects: projects, prom: prom}
}

// GET /projects/:id/export
func (h *ExportHandler) ExportProject(ctx *gin.Context) {
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

	p, tasks, entries, err := h.projects.Snapshot(cctx, userID, id)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	b, err := export.ProjectWorkbook(p, tasks, entries)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.prom.ExportGenerated("project")

	sendWorkbook(ctx, export.ProjectFilename(p), b)
}
