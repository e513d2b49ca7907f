package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/edu-offline-go/internal/domain"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	repo domain.DownloadRepository
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(repo domain.DownloadRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": "1.0.0",
	})
}

// Ready handles GET /ready: the service is ready once the store answers
func (h *HealthHandler) Ready(c *gin.Context) {
	if _, err := h.repo.GetStats(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "store unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
