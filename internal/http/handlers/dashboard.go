package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/export"
	"github.com/geocoder89/timetrack/internal/observability"
	"github.com/geocoder89/timetrack/internal/report"
	"github.com/gin-gonic/gin"
)

type Summarizer interface {
	Summarize(ctx context.Context, userID string, r report.Range) (report.Summary, error)
	Now() time.Time
}

type DashboardHandler struct {
	reports Summarizer
	prom    *observability.Prom
}

func NewDashboardHandler(reports Summarizer, prom *observability.Prom) *DashboardHandler {
	return &DashboardHandler{reports: reports, prom: prom}
}

// GET /dashboard?filter=last_week or /dashboard?from=2024-03-01&to=2024-03-10
func (h *DashboardHandler) Summary(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	r, ok := h.rangeFromQuery(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	sum, err := h.reports.Summarize(cctx, userID, r)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, sum)
}

// GET /dashboard/export takes the same query as Summary.
func (h *DashboardHandler) Export(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	r, ok := h.rangeFromQuery(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestCtx(ctx, readTimeout)
	defer cancel()

	sum, err := h.reports.Summarize(cctx, userID, r)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	b, err := export.SummaryWorkbook(sum)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}
	h.prom.ExportGenerated("summary")

	sendWorkbook(ctx, export.SummaryFilename, b)
}

func (h *DashboardHandler) rangeFromQuery(ctx *gin.Context) (report.Range, bool) {
	from, to := ctx.Query("from"), ctx.Query("to")

	if from != "" || to != "" {
		if from == "" || to == "" {
			RespondBadRequest(ctx, "Invalid date range", gin.H{"reason": "from and to must be given together"})
			return report.Range{}, false
		}
		start, err := timeentry.ParseDate(from)
		if err != nil {
			RespondAppError(ctx, err)
			return report.Range{}, false
		}
		end, err := timeentry.ParseDate(to)
		if err != nil {
			RespondAppError(ctx, err)
			return report.Range{}, false
		}
		r, err := report.CustomRange(start, end)
		if err != nil {
			RespondAppError(ctx, err)
			return report.Range{}, false
		}
		return r, true
	}

	f, err := report.ParseFilter(ctx.Query("filter"))
	if err != nil {
		RespondAppError(ctx, err)
		return report.Range{}, false
	}
	r, err := report.Resolve(h.reports.Now(), f)
	if err != nil {
		RespondAppError(ctx, err)
		return report.Range{}, false
	}
	return r, true
}

func sendWorkbook(ctx *gin.Context, filename string, b []byte) {
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, export.ContentType, b)
}
