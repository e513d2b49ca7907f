package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/edu-offline-go/api/middleware"
	"github.com/yourusername/edu-offline-go/internal/app"
	"go.uber.org/zap"
)

// StorageHandler serves per-user storage usage summaries
type StorageHandler struct {
	accountant *app.StorageAccountant
	logger     *zap.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(accountant *app.StorageAccountant, logger *zap.Logger) *StorageHandler {
	return &StorageHandler{
		accountant: accountant,
		logger:     logger,
	}
}

// GetStorageInfo handles GET /api/v1/storage/info
func (h *StorageHandler) GetStorageInfo(c *gin.Context) {
	userID := middleware.UserID(c)

	summary, err := h.accountant.ComputeUsage(userID)
	if err != nil {
		h.logger.Error("Failed to compute storage usage",
			zap.String("user_id", userID),
			zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
