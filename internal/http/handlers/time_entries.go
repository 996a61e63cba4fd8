package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/geocoder89/timetrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type TimeEntryStore interface {
	Create(ctx context.Context, userID string, e timeentry.TimeEntry) (timeentry.TimeEntry, error)
	ListByTask(ctx context.Context, userID, taskID string) ([]timeentry.TimeEntry, error)
	List(ctx context.Context, userID string, f timeentry.ListFilter) ([]timeentry.TimeEntry, bool, error)
	Get(ctx context.Context, userID, id string) (timeentry.TimeEntry, error)
	Update(ctx context.Context, userID, id string, req timeentry.UpdateTimeEntryRequest) (timeentry.TimeEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

type TimeEntriesHandler struct {
	entries TimeEntryStore
	summary SummaryInvalidator
	prom    *observability.Prom
}

func NewTimeEntriesHandler(entries TimeEntryStore, summary SummaryInvalidator, prom *observability.Prom) *TimeEntriesHandler {
	return &TimeEntriesHandler{entries: entries, summary: invalidatorOrNoop(summary), prom: prom}
}

// CreateTimeEntry serves POST /time-entries (taskId in the body) and
// POST /tasks/:id/time-entries.
func (h *TimeEntriesHandler) CreateTimeEntry(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req timeentry.CreateTimeEntryRequest
	if !BindJSON(ctx, &req) {
		return
	}

	if ctx.Param("id") != "" {
		taskID, ok := uuidParam(ctx, "id")
		if !ok {
			return
		}
		req.TaskID = taskID
	}
	if req.TaskID == "" {
		RespondBadRequest(ctx, "Invalid request body", gin.H{
			"fields": []FieldError{{Field: "taskId", Rule: "required", Message: validationMessage("required", "")}},
		})
		return
	}

	e, err := timeentry.NewFromCreateRequest(userID, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	created, err := h.entries.Create(cctx, userID, e)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)
	h.prom.AddHours(created.Hours)

	ctx.JSON(http.StatusCreated, created)
}

// GET /tasks/:id/time-entries
func (h *TimeEntriesHandler) ListTaskEntries(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	items, err := h.entries.ListByTask(cctx, userID, taskID)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":      items,
		"count":      len(items),
		"totalHours": timeentry.TotalHours(items),
	})
}

// GET /time-entries?taskId=&from=&to=&limit=&cursor=
func (h *TimeEntriesHandler) ListTimeEntries(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	f, ok := parseListFilter(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	items, hasMore, err := h.entries.List(cctx, userID, f)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	var next *string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		c, err := utils.EncodeEntryCursor(last.Date.String(), last.CreatedAt, last.ID)
		if err != nil {
			RespondInternal(ctx, "Could not build cursor")
			return
		}
		next = &c
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"limit":      f.Limit,
		"count":      len(items),
		"items":      items,
		"hasMore":    hasMore,
		"nextCursor": next,
	})
}

func (h *TimeEntriesHandler) GetTimeEntry(ctx *gin.Context) {
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

	e, err := h.entries.Get(cctx, userID, id)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, e)
}

func (h *TimeEntriesHandler) UpdateTimeEntry(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	var req timeentry.UpdateTimeEntryRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestCtx(ctx, writeTimeout)
	defer cancel()

	e, err := h.entries.Update(cctx, userID, id, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.JSON(http.StatusOK, e)
}

func (h *TimeEntriesHandler) DeleteTimeEntry(ctx *gin.Context) {
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

	if err := h.entries.Delete(cctx, userID, id); err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.summary.Invalidate(cctx, userID)

	ctx.Status(http.StatusNoContent)
}

func parseListFilter(ctx *gin.Context) (timeentry.ListFilter, bool) {
	f := timeentry.ListFilter{Limit: timeentry.DefaultListLimit}

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondBadRequest(ctx, "Invalid limit", gin.H{"field": "limit", "reason": "must be a positive number"})
			return f, false
		}
		f.Limit = min(n, timeentry.MaxListLimit)
	}

	if taskID := ctx.Query("taskId"); taskID != "" {
		if !utils.IsUUID(taskID) {
			RespondBadRequest(ctx, "Invalid taskId", gin.H{"field": "taskId", "reason": "must be a valid UUID"})
			return f, false
		}
		f.TaskID = &taskID
	}

	var ok bool
	if f.From, ok = dateQuery(ctx, "from"); !ok {
		return f, false
	}
	if f.To, ok = dateQuery(ctx, "to"); !ok {
		return f, false
	}
	if f.From != nil && f.To != nil && f.From.After(f.To.Time) {
		RespondBadRequest(ctx, "Invalid date range", gin.H{"field": "from", "reason": "must not be after to"})
		return f, false
	}

	if raw := ctx.Query("cursor"); raw != "" {
		cur, err := utils.DecodeEntryCursor(raw)
		if err != nil {
			RespondBadRequest(ctx, "Invalid cursor", gin.H{"field": "cursor", "reason": "cursor is invalid"})
			return f, false
		}
		d, _ := timeentry.ParseDate(cur.Date)
		f.AfterDate = &d
		f.AfterCreatedAt = cur.CreatedAt
		f.AfterID = cur.ID
	}

	return f, true
}

// dateQuery reads an optional YYYY-MM-DD query value.
func dateQuery(ctx *gin.Context, name string) (*timeentry.Date, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := timeentry.ParseDate(raw)
	if err != nil {
		RespondBadRequest(ctx, "Invalid "+name, gin.H{"field": name, "reason": "must be a date in YYYY-MM-DD format"})
		return nil, false
	}
	return &d, true
}
