package app

import (
	"math"

	"github.com/yourusername/edu-offline-go/internal/domain"
	"go.uber.org/zap"
)

// StorageAccountant computes per-user storage usage as a pure projection over
// the download records. It holds no state of its own; every call recomputes
// from the store's current contents.
type StorageAccountant struct {
	repo   domain.DownloadRepository
	videos domain.VideoRepository
	logger *zap.Logger
}

// NewStorageAccountant creates a storage accountant
func NewStorageAccountant(repo domain.DownloadRepository, videos domain.VideoRepository, logger *zap.Logger) *StorageAccountant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageAccountant{
		repo:   repo,
		videos: videos,
		logger: logger,
	}
}

// ComputeUsage aggregates a user's completed downloads. Sizes come from the
// per-record snapshot, so later catalog edits never change past accounting.
// A user with no completed downloads gets a zeroed summary, not an error.
func (a *StorageAccountant) ComputeUsage(userID string) (*domain.StorageSummary, error) {
	records, err := a.repo.FindCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.StorageSummary{
		Downloads: make([]domain.StorageItem, 0, len(records)),
	}

	var totalBytes int64
	for _, record := range records {
		totalBytes += int64(math.Round(record.FileSizeMB * 1024 * 1024))

		item := domain.StorageItem{
			ID:           record.ID,
			SizeMB:       round2(record.FileSizeMB),
			DownloadedAt: record.DownloadedAt,
		}

		// title is display-only; a removed or renamed video must not fail the summary
		if video, err := a.videos.FindVideoByID(record.VideoID); err == nil {
			item.Title = video.Title
		} else {
			a.logger.Debug("Video lookup failed for storage summary",
				zap.String("video_id", record.VideoID), zap.Error(err))
		}

		summary.Downloads = append(summary.Downloads, item)
	}

	summary.TotalSizeBytes = totalBytes
	summary.VideoCount = len(records)
	summary.TotalSizeMB = round2(float64(totalBytes) / (1024 * 1024))
	return summary, nil
}

// round2 rounds to two decimal places, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
