package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course groups videos in the catalog
type Course struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Grade           string    `json:"grade"`
	DurationMinutes int       `json:"duration_minutes"`
	Lessons         int       `json:"lessons"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Video is a catalog entry. The download core reads videos to snapshot their
// size and to resolve display titles; it never writes them.
type Video struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description"`
	DurationSeconds int       `json:"duration_seconds"`
	FileSizeBytes   int64     `json:"file_size_bytes"`
	Quality         string    `json:"quality"`
	CourseID        string    `json:"course_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewCourse creates a catalog course
func NewCourse(title, description, category, grade string, durationMinutes, lessons int, thumbnailURL string) *Course {
	return &Course{
		ID:              uuid.New().String(),
		Title:           title,
		Description:     description,
		Category:        category,
		Grade:           grade,
		DurationMinutes: durationMinutes,
		Lessons:         lessons,
		ThumbnailURL:    thumbnailURL,
		CreatedAt:       time.Now(),
	}
}

// NewVideo creates a catalog video
func NewVideo(title, description string, durationSeconds int, fileSizeBytes int64, quality, courseID string) *Video {
	return &Video{
		ID:              uuid.New().String(),
		Title:           title,
		Description:     description,
		DurationSeconds: durationSeconds,
		FileSizeBytes:   fileSizeBytes,
		Quality:         quality,
		CourseID:        courseID,
		CreatedAt:       time.Now(),
	}
}

// SizeMB returns the catalog size in megabytes
func (v *Video) SizeMB() float64 {
	return float64(v.FileSizeBytes) / (1024 * 1024)
}
