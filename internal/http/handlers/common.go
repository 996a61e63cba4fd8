package handlers

import (
	"context"
	"time"

	"github.com/geocoder89/timetrack/internal/http/middlewares"
	"github.com/geocoder89/timetrack/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	readTimeout  = 2 * time.Second
	writeTimeout = 3 * time.Second
)

// SummaryInvalidator drops cached dashboard data after a write.
type SummaryInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) {}

func invalidatorOrNoop(inv SummaryInvalidator) SummaryInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}

func requestCtx(ctx *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request.Context(), d)
}

// currentUserID writes a 401 and returns false when the request carries no identity.
func currentUserID(ctx *gin.Context) (string, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok || id == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return "", false
	}
	return id, true
}

// uuidParam writes a 400 and returns false when the path param is not a UUID.
func uuidParam(ctx *gin.Context, name string) (string, bool) {
	id := ctx.Param(name)
	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "Invalid "+name, gin.H{"field": name, "reason": "must be a valid UUID"})
		return "", false
	}
	return id, true
}
