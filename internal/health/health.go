// Package health serves the liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"time"

	apphttp "volunteer_map_backend/internal/http"
	"volunteer_map_backend/platform/apperr"
	"volunteer_map_backend/platform/httpkit"
	"volunteer_map_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Status is the probe response body.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Module registers /health and /ready on the root engine.
type Module struct {
	checker apphttp.HealthChecker
	log     *logger.Logger
}

// NewModule creates the health module. checker is pinged by /ready.
func NewModule(checker apphttp.HealthChecker, log *logger.Logger) *Module {
	return &Module{checker: checker, log: log}
}

func (m *Module) Name() string {
	return "health"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/health", m.Health)
	ctx.Engine.GET("/ready", m.Ready)
}

// Health reports that the process is up. It does not touch the database.
// GET /health
func (m *Module) Health(c *gin.Context) {
	httpkit.OK(c, Status{Status: "OK", Message: "server is running"})
}

// Ready reports whether the database answers a ping.
// GET /ready
func (m *Module) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := m.checker.Ping(ctx); err != nil {
		m.log.WithContext(ctx).Warn("readiness check failed", "error", err)
		httpkit.HandleError(c, apperr.Unavailable("database unavailable", err))
		return
	}
	httpkit.JSON(c, http.StatusOK, Status{Status: "ready"})
}

var _ apphttp.Module = (*Module)(nil)
