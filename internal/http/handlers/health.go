package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks         map[string]Check
	isShuttingDown func() bool
}

// create a new instance of the health handler; isShuttingDown may be nil
func NewHealthHandler(checks map[string]Check, isShuttingDown func() bool) *HealthHandler {
	if isShuttingDown == nil {
		isShuttingDown = func() bool { return false }
	}
	return &HealthHandler{checks: checks, isShuttingDown: isShuttingDown}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.isShuttingDown() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.checks))
	ready := true

	for name, check := range h.checks {
		if err := check(cctx); err != nil {
			deps[name] = "down"
			ready = false
			continue
		}
		deps[name] = "up"
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps})
}

func Hello(ctx *gin.Context) {
	ctx.String(http.StatusOK, "Hello")
}
