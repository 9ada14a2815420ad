package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/todolist/todo-service/pkg/logger"
)

// Probe checks one dependency; nil means available.
type Probe func(ctx context.Context) error

// RegisterHealth registers /health (liveness) and /ready (readiness). /ready
// runs every probe with a short timeout and answers 503 if any fails.
func RegisterHealth(r gin.IRouter, started time.Time, probes map[string]Probe) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}
		for name, probe := range probes {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err := probe(ctx)
			cancel()
			deps[name] = err == nil
			if err != nil {
				ready = false
				logger.Warnf("readiness: %s unavailable: %v", name, err)
			}
		}

		uptime := time.Since(started).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	})
}
