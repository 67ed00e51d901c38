package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/usersvc/pkg/logger"
)

const healthCheckTimeout = 3 * time.Second

// HealthChecker is a dependency that can report its health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	checkers map[string]HealthChecker
	log      logger.Logger
}

// NewHealthHandler creates a HealthHandler over the named dependencies.
func NewHealthHandler(checkers map[string]HealthChecker, log logger.Logger) *HealthHandler {
	return &HealthHandler{checkers: checkers, log: log.WithComponent("HealthHandler")}
}

// LivenessCheck reports that the process is serving.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// HealthCheck reports the status of every dependency, 503 if any fails.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "healthy"
	httpStatus := http.StatusOK
	checks := h.performChecks(ctx)
	for name, checkStatus := range checks {
		if checkStatus != "ok" {
			h.log.Warn(ctx, "Health check failed", logger.String("dependency", name), logger.String("status", checkStatus))
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	var wg sync.WaitGroup
	var mu sync.Mutex
	checks := make(map[string]string, len(h.checkers))

	for name, checker := range h.checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			status := "ok"
			if err := checker.HealthCheck(ctx); err != nil {
				status = "error: " + err.Error()
			}
			mu.Lock()
			checks[name] = status
			mu.Unlock()
		}(name, checker)
	}
	wg.Wait()
	return checks
}
