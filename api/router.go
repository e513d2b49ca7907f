package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/edu-offline-go/api/handlers"
	"github.com/yourusername/edu-offline-go/api/middleware"
	"github.com/yourusername/edu-offline-go/internal/app"
	"github.com/yourusername/edu-offline-go/internal/domain"
)

// Deps bundles everything the router needs
type Deps struct {
	Lifecycle  *app.LifecycleManager
	Accountant *app.StorageAccountant
	Downloads  domain.DownloadRepository
	Videos     domain.VideoRepository
	Progress   domain.ProgressRepository
	Logger     *zap.Logger
}

// SetupRouter sets up the HTTP router
func SetupRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.Downloads)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	downloadHandler := handlers.NewDownloadHandler(deps.Lifecycle, deps.Logger)
	storageHandler := handlers.NewStorageHandler(deps.Accountant, deps.Logger)
	videoHandler := handlers.NewVideoHandler(deps.Videos, deps.Logger)
	progressHandler := handlers.NewProgressHandler(deps.Progress, deps.Videos, deps.Logger)

	// API v1 routes; all of them act on behalf of an identified user
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireUser())
	{
		videos := v1.Group("/videos")
		{
			videos.GET("", videoHandler.ListVideos)
			videos.GET("/offline", downloadHandler.ListOffline)
			videos.GET("/:id", videoHandler.GetVideo)
			videos.POST("/:id/download", downloadHandler.RequestDownload)
			videos.GET("/:id/download", downloadHandler.GetStatus)
			videos.DELETE("/:id/offline", downloadHandler.RemoveOffline)
			videos.POST("/:id/retry", downloadHandler.RetryDownload)
			videos.POST("/:id/progress", progressHandler.UpdateProgress)
		}

		downloads := v1.Group("/downloads")
		{
			downloads.GET("", downloadHandler.ListDownloads)
			downloads.GET("/stats", downloadHandler.GetStats)
		}

		v1.GET("/storage/info", storageHandler.GetStorageInfo)
		v1.GET("/progress", progressHandler.ListProgress)
		v1.GET("/courses", videoHandler.ListCourses)
	}

	return router
}
