package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/edu-offline-go/api/middleware"
	"github.com/yourusername/edu-offline-go/internal/app"
	"go.uber.org/zap"
)

// DownloadHandler handles offline-download HTTP requests
type DownloadHandler struct {
	lifecycle *app.LifecycleManager
	logger    *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(lifecycle *app.LifecycleManager, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// RequestDownload handles POST /api/v1/videos/:id/download
func (h *DownloadHandler) RequestDownload(c *gin.Context) {
	userID := middleware.UserID(c)
	videoID := c.Param("id")

	record, err := h.lifecycle.RequestDownload(userID, videoID)
	if err != nil {
		h.logger.Error("Failed to request download",
			zap.String("user_id", userID),
			zap.String("video_id", videoID),
			zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "download started", "download": record})
}

// GetStatus handles GET /api/v1/videos/:id/download
func (h *DownloadHandler) GetStatus(c *gin.Context) {
	record, err := h.lifecycle.GetStatus(middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// RemoveOffline handles DELETE /api/v1/videos/:id/offline
func (h *DownloadHandler) RemoveOffline(c *gin.Context) {
	userID := middleware.UserID(c)
	videoID := c.Param("id")

	if err := h.lifecycle.CancelOrRemove(userID, videoID); err != nil {
		h.logger.Error("Failed to remove offline video",
			zap.String("user_id", userID),
			zap.String("video_id", videoID),
			zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "video removed from offline storage"})
}

// RetryDownload handles POST /api/v1/videos/:id/retry
func (h *DownloadHandler) RetryDownload(c *gin.Context) {
	record, err := h.lifecycle.Retry(middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "download retried", "download": record})
}

// ListDownloads handles GET /api/v1/downloads
func (h *DownloadHandler) ListDownloads(c *gin.Context) {
	records, err := h.lifecycle.ListByUser(middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to list downloads", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// ListOffline handles GET /api/v1/videos/offline
func (h *DownloadHandler) ListOffline(c *gin.Context) {
	records, err := h.lifecycle.ListOffline(middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to list offline videos", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetStats handles GET /api/v1/downloads/stats
func (h *DownloadHandler) GetStats(c *gin.Context) {
	stats, err := h.lifecycle.GetStats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
