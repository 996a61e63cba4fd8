package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the pgx pool and the redis client.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz pings every dependency and reports each one.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 1*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}

	for name, ping := range h.checks {
		if err := ping(cctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = "down"
			continue
		}
		deps[name] = "up"
	}

	if status != http.StatusOK {
		ctx.JSON(status, gin.H{"status": "not_ready", "checks": deps})
		return
	}
	ctx.JSON(status, gin.H{"status": "ready", "checks": deps})
}
