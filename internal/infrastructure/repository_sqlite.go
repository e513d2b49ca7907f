package infrastructure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/edu-offline-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteRepository implements DownloadRepository, VideoRepository and
// ProgressRepository on a single SQLite database. It is the only component
// that sees gorm errors; everything it returns is from the domain taxonomy.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository opens the database and migrates the schema
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.DownloadRecord{},
		&domain.Video{},
		&domain.Course{},
		&domain.WatchProgress{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// translateErr maps gorm errors onto the domain taxonomy
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrConflict
	}
	return err
}

// Create creates a new download record. Returns ErrConflict when the
// (user_id, video_id) unique index already holds a row for the pair.
func (r *SQLiteRepository) Create(record *domain.DownloadRecord) error {
	return translateErr(r.db.Create(record).Error)
}

// Update updates an existing download record. Select("*") forces zero-valued
// fields (progress 0, cleared error message) to be written as well.
func (r *SQLiteRepository) Update(record *domain.DownloadRecord) error {
	result := r.db.Model(&domain.DownloadRecord{}).
		Where("id = ?", record.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(record)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("download record %s: %w", record.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete deletes a download record by ID
func (r *SQLiteRepository) Delete(id string) error {
	result := r.db.Delete(&domain.DownloadRecord{}, "id = ?", id)
	if result.Error != nil {
		return translateErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("download record %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// FindByID finds a download record by ID
func (r *SQLiteRepository) FindByID(id string) (*domain.DownloadRecord, error) {
	var record domain.DownloadRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &record, nil
}

// FindByUserAndVideo finds the record for a (user, video) pair
func (r *SQLiteRepository) FindByUserAndVideo(userID, videoID string) (*domain.DownloadRecord, error) {
	var record domain.DownloadRecord
	err := r.db.Where("user_id = ? AND video_id = ?", userID, videoID).First(&record).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &record, nil
}

// FindByUser finds a user's records, newest first
func (r *SQLiteRepository) FindByUser(userID string) ([]*domain.DownloadRecord, error) {
	var records []*domain.DownloadRecord
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, translateErr(err)
}

// FindCompletedByUser finds a user's completed records
func (r *SQLiteRepository) FindCompletedByUser(userID string) ([]*domain.DownloadRecord, error) {
	var records []*domain.DownloadRecord
	err := r.db.Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Order("created_at DESC").
		Find(&records).Error
	return records, translateErr(err)
}

// FindInFlight finds pending and downloading records across all users.
// Used at startup to resume transfers interrupted by a restart.
func (r *SQLiteRepository) FindInFlight() ([]*domain.DownloadRecord, error) {
	var records []*domain.DownloadRecord
	err := r.db.Where("status IN ?", []domain.DownloadStatus{domain.StatusPending, domain.StatusDownloading}).
		Order("created_at ASC").
		Find(&records).Error
	return records, translateErr(err)
}

// GetStats returns download statistics
func (r *SQLiteRepository) GetStats() (*domain.DownloadStats, error) {
	stats := &domain.DownloadStats{}

	if err := r.db.Model(&domain.DownloadRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, translateErr(err)
	}

	statusCounts := []struct {
		Status domain.DownloadStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.DownloadRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, translateErr(err)
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusPending:
			stats.Pending = sc.Count
		case domain.StatusDownloading:
			stats.Downloading = sc.Count
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// VideoRepository implementation
// ============================================================================

// FindVideoByID finds a catalog video by ID
func (r *SQLiteRepository) FindVideoByID(id string) (*domain.Video, error) {
	var video domain.Video
	if err := r.db.First(&video, "id = ?", id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &video, nil
}

// FindAllVideos lists the catalog
func (r *SQLiteRepository) FindAllVideos() ([]*domain.Video, error) {
	var videos []*domain.Video
	err := r.db.Order("created_at DESC").Find(&videos).Error
	return videos, translateErr(err)
}

// FindVideosByCourse lists a course's videos
func (r *SQLiteRepository) FindVideosByCourse(courseID string) ([]*domain.Video, error) {
	var videos []*domain.Video
	err := r.db.Where("course_id = ?", courseID).Find(&videos).Error
	return videos, translateErr(err)
}

// FindAllCourses lists the courses
func (r *SQLiteRepository) FindAllCourses() ([]*domain.Course, error) {
	var courses []*domain.Course
	err := r.db.Order("created_at DESC").Find(&courses).Error
	return courses, translateErr(err)
}

// CreateVideo inserts a catalog video (seeder only)
func (r *SQLiteRepository) CreateVideo(video *domain.Video) error {
	return translateErr(r.db.Create(video).Error)
}

// CreateCourse inserts a catalog course (seeder only)
func (r *SQLiteRepository) CreateCourse(course *domain.Course) error {
	return translateErr(r.db.Create(course).Error)
}

// UpdateVideo updates a catalog entry. The download core never calls this;
// it exists so catalog edits can be tested against snapshot accounting.
func (r *SQLiteRepository) UpdateVideo(video *domain.Video) error {
	return translateErr(r.db.Save(video).Error)
}

// ============================================================================
// ProgressRepository implementation
// ============================================================================

// UpsertProgress creates or updates the watch-progress row for (user, video)
func (r *SQLiteRepository) UpsertProgress(progress *domain.WatchProgress) (*domain.WatchProgress, error) {
	var existing domain.WatchProgress
	err := r.db.Where("user_id = ? AND video_id = ?", progress.UserID, progress.VideoID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, translateErr(err)
		}
		if err := r.db.Create(progress).Error; err != nil {
			return nil, translateErr(err)
		}
		return progress, nil
	}

	existing.WatchTimeSeconds = progress.WatchTimeSeconds
	existing.Completed = progress.Completed
	existing.LastWatchedAt = progress.LastWatchedAt
	if err := r.db.Save(&existing).Error; err != nil {
		return nil, translateErr(err)
	}
	return &existing, nil
}

// FindProgressByUser returns a user's watch progress rows
func (r *SQLiteRepository) FindProgressByUser(userID string) ([]*domain.WatchProgress, error) {
	var rows []*domain.WatchProgress
	err := r.db.Where("user_id = ?", userID).Order("last_watched_at DESC").Find(&rows).Error
	return rows, translateErr(err)
}
