package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timetable/scheduler/internal/app/models/dto"
)

// Pinger is a dependency that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness and dependency status.
type HealthController struct {
	deps map[string]Pinger
}

// NewHealthController creates a new HealthController. deps maps names to checks.
func NewHealthController(deps map[string]Pinger) *HealthController {
	return &HealthController{deps: deps}
}

// Ping answers liveness probes.
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health checks every dependency and answers 503 when one is down.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "All dependencies up"
// @Failure 503 {object} dto.HealthResponse "A dependency is down"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Time: time.Now().UTC(), Services: map[string]string{}}
	status := http.StatusOK
	for name, dep := range c.deps {
		if err := dep.Ping(checkCtx); err != nil {
			resp.Services[name] = "down: " + err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Services[name] = "up"
	}
	ctx.JSON(status, resp)
}
