package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/edu-offline-go/internal/domain"
	"go.uber.org/zap"
)

// VideoHandler serves catalog reads
type VideoHandler struct {
	videos domain.VideoRepository
	logger *zap.Logger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videos domain.VideoRepository, logger *zap.Logger) *VideoHandler {
	return &VideoHandler{
		videos: videos,
		logger: logger,
	}
}

// ListVideos handles GET /api/v1/videos, optionally filtered by course
func (h *VideoHandler) ListVideos(c *gin.Context) {
	var (
		videos []*domain.Video
		err    error
	)
	if courseID := c.Query("course_id"); courseID != "" {
		videos, err = h.videos.FindVideosByCourse(courseID)
	} else {
		videos, err = h.videos.FindAllVideos()
	}
	if err != nil {
		h.logger.Error("Failed to list videos", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, videos)
}

// GetVideo handles GET /api/v1/videos/:id
func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.videos.FindVideoByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, video)
}

// ListCourses handles GET /api/v1/courses
func (h *VideoHandler) ListCourses(c *gin.Context) {
	courses, err := h.videos.FindAllCourses()
	if err != nil {
		h.logger.Error("Failed to list courses", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}
