package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniadmin/ums-api/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	env     string
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, env string) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, env: env}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with liveness information for load balancers.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "ok",
		"env":       h.env,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
