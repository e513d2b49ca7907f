package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edu-offline-go/internal/domain"
)

func setupTestRepo(t *testing.T) (*SQLiteRepository, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "repo-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewSQLiteRepository(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return repo, cleanup
}

func TestCreate_EnforcesPairUniqueness(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	first := domain.NewDownloadRecord("user-1", "video-1", 50)
	require.NoError(t, repo.Create(first))

	// Second record for the same pair must be rejected
	dup := domain.NewDownloadRecord("user-1", "video-1", 50)
	err := repo.Create(dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Same video for a different user is fine
	other := domain.NewDownloadRecord("user-2", "video-1", 50)
	assert.NoError(t, repo.Create(other))
}

func TestFindByUserAndVideo(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	record := domain.NewDownloadRecord("user-1", "video-1", 50)
	require.NoError(t, repo.Create(record))

	found, err := repo.FindByUserAndVideo("user-1", "video-1")
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = repo.FindByUserAndVideo("user-1", "video-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_NotFound(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	record := domain.NewDownloadRecord("user-1", "video-1", 50)
	err := repo.Update(record)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RemovesRecord(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	record := domain.NewDownloadRecord("user-1", "video-1", 50)
	require.NoError(t, repo.Create(record))

	require.NoError(t, repo.Delete(record.ID))

	_, err := repo.FindByID(record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// second delete reports not found
	err = repo.Delete(record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByUser_NewestFirst(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	older := domain.NewDownloadRecord("user-1", "video-1", 10)
	require.NoError(t, repo.Create(older))

	newer := domain.NewDownloadRecord("user-1", "video-2", 20)
	newer.CreatedAt = older.CreatedAt.Add(1000)
	require.NoError(t, repo.Create(newer))

	unrelated := domain.NewDownloadRecord("user-2", "video-1", 30)
	require.NoError(t, repo.Create(unrelated))

	records, err := repo.FindByUser("user-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer.ID, records[0].ID)
	assert.Equal(t, older.ID, records[1].ID)
}

func TestFindCompletedByUser(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	done := domain.NewDownloadRecord("user-1", "video-1", 50)
	done.MarkCompleted()
	require.NoError(t, repo.Create(done))

	pending := domain.NewDownloadRecord("user-1", "video-2", 30)
	require.NoError(t, repo.Create(pending))

	records, err := repo.FindCompletedByUser("user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, done.ID, records[0].ID)
}

func TestFindInFlight(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	pending := domain.NewDownloadRecord("user-1", "video-1", 10)
	require.NoError(t, repo.Create(pending))

	downloading := domain.NewDownloadRecord("user-1", "video-2", 20)
	downloading.MarkDownloading()
	require.NoError(t, repo.Create(downloading))

	done := domain.NewDownloadRecord("user-1", "video-3", 30)
	done.MarkCompleted()
	require.NoError(t, repo.Create(done))

	records, err := repo.FindInFlight()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGetStats(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	a := domain.NewDownloadRecord("user-1", "video-1", 10)
	a.MarkCompleted()
	require.NoError(t, repo.Create(a))

	b := domain.NewDownloadRecord("user-1", "video-2", 20)
	b.MarkDownloading()
	require.NoError(t, repo.Create(b))

	c := domain.NewDownloadRecord("user-2", "video-1", 30)
	require.NoError(t, repo.Create(c))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Downloading)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestUpsertProgress(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	first := domain.NewWatchProgress("user-1", "video-1", 120, false)
	saved, err := repo.UpsertProgress(first)
	require.NoError(t, err)
	assert.Equal(t, 120, saved.WatchTimeSeconds)

	second := domain.NewWatchProgress("user-1", "video-1", 300, true)
	updated, err := repo.UpsertProgress(second)
	require.NoError(t, err)

	// same row, new values
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, 300, updated.WatchTimeSeconds)
	assert.True(t, updated.Completed)

	rows, err := repo.FindProgressByUser("user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestVideoCatalog_CRUD(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	course := domain.NewCourse("Algebra Fundamentals", "Basics of algebra", "Mathematics", "Grade 10", 45, 12, "")
	require.NoError(t, repo.CreateCourse(course))

	video := domain.NewVideo("Linear Equations", "", 600, 50*1024*1024, "720p", course.ID)
	require.NoError(t, repo.CreateVideo(video))

	found, err := repo.FindVideoByID(video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.Title, found.Title)

	_, err = repo.FindVideoByID("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	videos, err := repo.FindVideosByCourse(course.ID)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	courses, err := repo.FindAllCourses()
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}
