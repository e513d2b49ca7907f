package domain

import (
	"time"

	"github.com/google/uuid"
)

// DownloadStatus represents the current status of an offline download
type DownloadStatus string

const (
	StatusPending     DownloadStatus = "pending"
	StatusDownloading DownloadStatus = "downloading"
	StatusCompleted   DownloadStatus = "completed"
	StatusFailed      DownloadStatus = "failed"
)

// DownloadRecord tracks one user's offline copy of one video.
// At most one record exists per (user, video) pair; removing the offline
// copy deletes the record rather than marking it.
type DownloadRecord struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	UserID          string         `json:"user_id" gorm:"not null;uniqueIndex:idx_user_video"`
	VideoID         string         `json:"video_id" gorm:"not null;uniqueIndex:idx_user_video"`
	Status          DownloadStatus `json:"status" gorm:"not null;index"`
	ProgressPercent int            `json:"progress_percent" gorm:"default:0"`
	FileSizeMB      float64        `json:"file_size_mb"` // snapshot of the video size at creation
	RetryCount      int            `json:"retry_count" gorm:"default:0"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DownloadedAt    *time.Time     `json:"downloaded_at,omitempty"`
}

// NewDownloadRecord creates a pending download record for a (user, video) pair.
// fileSizeMB is the video's size at request time; accounting uses this snapshot
// even if the catalog entry changes later.
func NewDownloadRecord(userID, videoID string, fileSizeMB float64) *DownloadRecord {
	return &DownloadRecord{
		ID:              uuid.New().String(),
		UserID:          userID,
		VideoID:         videoID,
		Status:          StatusPending,
		ProgressPercent: 0,
		FileSizeMB:      fileSizeMB,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

// MarkDownloading marks the record as actively transferring
func (d *DownloadRecord) MarkDownloading() {
	d.Status = StatusDownloading
	d.ProgressPercent = 0
	d.UpdatedAt = time.Now()
}

// SetProgress advances the transfer progress. Progress never moves backwards
// and is clamped to 100.
func (d *DownloadRecord) SetProgress(percent int) {
	if percent < d.ProgressPercent {
		return
	}
	if percent > 100 {
		percent = 100
	}
	d.ProgressPercent = percent
	d.UpdatedAt = time.Now()
}

// MarkCompleted marks the record as available offline
func (d *DownloadRecord) MarkCompleted() {
	d.Status = StatusCompleted
	d.ProgressPercent = 100
	now := time.Now()
	d.DownloadedAt = &now
	d.UpdatedAt = now
}

// MarkFailed marks the record as failed with the transfer error
func (d *DownloadRecord) MarkFailed(err error) {
	d.Status = StatusFailed
	d.ErrorMessage = err.Error()
	d.UpdatedAt = time.Now()
}

// IncrementRetry increments the retry count
func (d *DownloadRecord) IncrementRetry() {
	d.RetryCount++
	d.UpdatedAt = time.Now()
}

// CanRetry checks if a failed download may be retried
func (d *DownloadRecord) CanRetry(maxRetries int) bool {
	return d.Status == StatusFailed && d.RetryCount < maxRetries
}

// IsCompleted checks if the video is available for offline playback
func (d *DownloadRecord) IsCompleted() bool {
	return d.Status == StatusCompleted
}

// IsInFlight checks if the download has not yet reached a terminal state
func (d *DownloadRecord) IsInFlight() bool {
	return d.Status == StatusPending || d.Status == StatusDownloading
}

// ValidateStatus checks if a status value is known
func ValidateStatus(status DownloadStatus) bool {
	switch status {
	case StatusPending, StatusDownloading, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
