package domain

import (
	"time"

	"github.com/google/uuid"
)

// WatchProgress tracks how far a user has watched a video. One row per
// (user, video) pair, upserted on every report from the player.
type WatchProgress struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	UserID           string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_video_progress"`
	VideoID          string    `json:"video_id" gorm:"not null;uniqueIndex:idx_user_video_progress"`
	WatchTimeSeconds int       `json:"watch_time_seconds"`
	Completed        bool      `json:"completed"`
	LastWatchedAt    time.Time `json:"last_watched_at"`
}

// NewWatchProgress creates a progress row for a first report
func NewWatchProgress(userID, videoID string, watchTimeSeconds int, completed bool) *WatchProgress {
	return &WatchProgress{
		ID:               uuid.New().String(),
		UserID:           userID,
		VideoID:          videoID,
		WatchTimeSeconds: watchTimeSeconds,
		Completed:        completed,
		LastWatchedAt:    time.Now(),
	}
}
