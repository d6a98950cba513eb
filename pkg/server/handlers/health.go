package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Build information, settable at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// HealthHandler handles liveness checks.
type HealthHandler struct{}

// NewHealthHandler creates a health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "sitesage",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}
