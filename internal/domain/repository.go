package domain

import "time"

// DownloadRepository defines the interface for download record persistence.
// Implementations must enforce the (user_id, video_id) uniqueness invariant
// at write time and report it as ErrConflict.
type DownloadRepository interface {
	// Create creates a new download record
	Create(record *DownloadRecord) error

	// Update updates an existing download record
	Update(record *DownloadRecord) error

	// Delete deletes a download record by ID
	Delete(id string) error

	// FindByID finds a download record by ID
	FindByID(id string) (*DownloadRecord, error)

	// FindByUserAndVideo finds the record for a (user, video) pair
	FindByUserAndVideo(userID, videoID string) (*DownloadRecord, error)

	// FindByUser finds a user's records, newest first
	FindByUser(userID string) ([]*DownloadRecord, error)

	// FindCompletedByUser finds a user's completed records
	FindCompletedByUser(userID string) ([]*DownloadRecord, error)

	// FindInFlight finds pending and downloading records across all users
	FindInFlight() ([]*DownloadRecord, error)

	// GetStats returns download statistics across all users
	GetStats() (*DownloadStats, error)
}

// VideoRepository provides read access to the video catalog. The create
// methods exist for the catalog seeder; the download core never writes.
type VideoRepository interface {
	FindVideoByID(id string) (*Video, error)
	FindAllVideos() ([]*Video, error)
	FindVideosByCourse(courseID string) ([]*Video, error)
	FindAllCourses() ([]*Course, error)
	CreateVideo(video *Video) error
	CreateCourse(course *Course) error
}

// ProgressRepository persists watch progress reports
type ProgressRepository interface {
	// UpsertProgress creates or updates the row for (user, video)
	UpsertProgress(progress *WatchProgress) (*WatchProgress, error)

	// FindProgressByUser returns a user's watch progress rows
	FindProgressByUser(userID string) ([]*WatchProgress, error)
}

// DownloadStats represents download statistics
type DownloadStats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Downloading int64 `json:"downloading"`
	Completed   int64 `json:"completed"`
	Failed      int64 `json:"failed"`
}

// StorageItem is one completed download in a storage summary
type StorageItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title,omitempty"`
	SizeMB       float64    `json:"size_mb"`
	DownloadedAt *time.Time `json:"downloaded_at,omitempty"`
}

// StorageSummary aggregates a user's completed downloads. It is recomputed
// from the download records on every query; nothing caches it.
type StorageSummary struct {
	TotalSizeBytes int64         `json:"total_size_bytes"`
	TotalSizeMB    float64       `json:"total_size_mb"`
	VideoCount     int           `json:"video_count"`
	Downloads      []StorageItem `json:"downloads"`
}
