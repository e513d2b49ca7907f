package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/edu-offline-go/api/middleware"
	"github.com/yourusername/edu-offline-go/internal/domain"
	"go.uber.org/zap"
)

// ProgressHandler records how far users have watched videos
type ProgressHandler struct {
	progress domain.ProgressRepository
	videos   domain.VideoRepository
	logger   *zap.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress domain.ProgressRepository, videos domain.VideoRepository, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		progress: progress,
		videos:   videos,
		logger:   logger,
	}
}

// UpdateProgressRequest is the player's watch-progress report
type UpdateProgressRequest struct {
	WatchTimeSeconds int  `json:"watch_time_seconds" binding:"min=0"`
	Completed        bool `json:"completed"`
}

// UpdateProgress handles POST /api/v1/videos/:id/progress
func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	userID := middleware.UserID(c)
	videoID := c.Param("id")

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.videos.FindVideoByID(videoID); err != nil {
		writeError(c, err)
		return
	}

	row, err := h.progress.UpsertProgress(domain.NewWatchProgress(userID, videoID, req.WatchTimeSeconds, req.Completed))
	if err != nil {
		h.logger.Error("Failed to update watch progress",
			zap.String("user_id", userID),
			zap.String("video_id", videoID),
			zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

// ListProgress handles GET /api/v1/progress
func (h *ProgressHandler) ListProgress(c *gin.Context) {
	rows, err := h.progress.FindProgressByUser(middleware.UserID(c))
	if err != nil {
		h.logger.Error("Failed to list watch progress", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
