package app

import (
	"fmt"

	"github.com/yourusername/edu-offline-go/internal/domain"
)

type seedVideo struct {
	title    string
	duration int
	sizeMB   int64
	quality  string
}

type seedCourse struct {
	course *domain.Course
	videos []seedVideo
}

// SeedCatalog loads the sample course catalog into an empty database.
// Existing catalog rows are left alone; seeding a non-empty catalog is a no-op.
func SeedCatalog(repo domain.VideoRepository) (int, error) {
	existing, err := repo.FindAllCourses()
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	catalog := []seedCourse{
		{
			course: domain.NewCourse("Algebra Fundamentals",
				"Master the basics of algebra with step-by-step explanations",
				"Mathematics", "Grade 10", 45, 12, ""),
			videos: []seedVideo{
				{"Introduction to Variables", 420, 48, "720p"},
				{"Solving Linear Equations", 560, 65, "720p"},
				{"Working with Inequalities", 480, 52, "720p"},
			},
		},
		{
			course: domain.NewCourse("Biology: Cell Structure",
				"Explore the fascinating world of cells and their components",
				"Science", "Grade 10", 35, 8, ""),
			videos: []seedVideo{
				{"The Cell Membrane", 380, 44, "720p"},
				{"Mitochondria and Energy", 520, 58, "720p"},
			},
		},
		{
			course: domain.NewCourse("Physics: Motion & Forces",
				"Understanding the principles of motion and forces in physics",
				"Science", "Grade 10", 50, 15, ""),
			videos: []seedVideo{
				{"Newton's First Law", 450, 50, "720p"},
				{"Acceleration Explained", 510, 57, "720p"},
			},
		},
		{
			course: domain.NewCourse("English Literature",
				"Dive into classic literature and improve your analysis skills",
				"Languages", "Grade 10", 40, 10, ""),
			videos: []seedVideo{
				{"Reading Between the Lines", 600, 70, "720p"},
			},
		},
	}

	count := 0
	for _, entry := range catalog {
		if err := repo.CreateCourse(entry.course); err != nil {
			return count, fmt.Errorf("failed to seed course %q: %w", entry.course.Title, err)
		}
		for _, sv := range entry.videos {
			video := domain.NewVideo(sv.title, "", sv.duration, sv.sizeMB*1024*1024, sv.quality, entry.course.ID)
			if err := repo.CreateVideo(video); err != nil {
				return count, fmt.Errorf("failed to seed video %q: %w", sv.title, err)
			}
			count++
		}
	}
	return count, nil
}
