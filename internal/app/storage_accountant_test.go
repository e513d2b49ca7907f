package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/edu-offline-go/internal/domain"
)

func seedCompleted(t *testing.T, repo *mockDownloadRepo, userID, videoID string, sizeMB float64) *domain.DownloadRecord {
	t.Helper()
	record := domain.NewDownloadRecord(userID, videoID, sizeMB)
	record.MarkCompleted()
	require.NoError(t, repo.Create(record))
	return record
}

func TestComputeUsage_SumsCompletedDownloads(t *testing.T) {
	repo := newMockDownloadRepo()
	videos := newMockVideoRepo()
	videos.addVideo("v1", "Introduction to Variables", 50*1024*1024)
	videos.addVideo("v2", "The Cell Membrane", 30*1024*1024)
	accountant := NewStorageAccountant(repo, videos, nil)

	seedCompleted(t, repo, "u1", "v1", 50)
	seedCompleted(t, repo, "u1", "v2", 30)

	usage, err := accountant.ComputeUsage("u1")
	require.NoError(t, err)

	assert.Equal(t, 2, usage.VideoCount)
	assert.Equal(t, int64(80*1024*1024), usage.TotalSizeBytes)
	assert.Equal(t, 80.0, usage.TotalSizeMB)
	assert.Len(t, usage.Downloads, 2)
}

func TestComputeUsage_EmptyForUnknownUser(t *testing.T) {
	repo := newMockDownloadRepo()
	videos := newMockVideoRepo()
	accountant := NewStorageAccountant(repo, videos, nil)

	usage, err := accountant.ComputeUsage("nobody")
	require.NoError(t, err)

	assert.Equal(t, 0, usage.VideoCount)
	assert.Equal(t, int64(0), usage.TotalSizeBytes)
	assert.Equal(t, 0.0, usage.TotalSizeMB)
	assert.Empty(t, usage.Downloads)
}

func TestComputeUsage_IgnoresIncompleteDownloads(t *testing.T) {
	repo := newMockDownloadRepo()
	videos := newMockVideoRepo()
	videos.addVideo("v1", "Introduction to Variables", 50*1024*1024)
	accountant := NewStorageAccountant(repo, videos, nil)

	inflight := domain.NewDownloadRecord("u1", "v1", 50)
	inflight.MarkDownloading()
	require.NoError(t, repo.Create(inflight))

	usage, err := accountant.ComputeUsage("u1")
	require.NoError(t, err)
	assert.Equal(t, 0, usage.VideoCount)
}

func TestComputeUsage_MissingVideoIsNonFatal(t *testing.T) {
	repo := newMockDownloadRepo()
	videos := newMockVideoRepo()
	accountant := NewStorageAccountant(repo, videos, nil)

	seedCompleted(t, repo, "u1", "gone", 25)

	usage, err := accountant.ComputeUsage("u1")
	require.NoError(t, err)

	require.Len(t, usage.Downloads, 1)
	assert.Empty(t, usage.Downloads[0].Title)
	assert.Equal(t, 25.0, usage.Downloads[0].SizeMB)
}

func TestComputeUsage_StableUnderCatalogDrift(t *testing.T) {
	repo := newMockDownloadRepo()
	videos := newMockVideoRepo()
	video := videos.addVideo("v1", "Introduction to Variables", 50*1024*1024)
	accountant := NewStorageAccountant(repo, videos, nil)

	seedCompleted(t, repo, "u1", "v1", 50)

	before, err := accountant.ComputeUsage("u1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, before.TotalSizeMB)

	// a later catalog edit must not change past accounting
	videos.mu.Lock()
	video.FileSizeBytes = 500 * 1024 * 1024
	videos.mu.Unlock()

	after, err := accountant.ComputeUsage("u1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, after.TotalSizeMB)
	assert.Equal(t, before.TotalSizeBytes, after.TotalSizeBytes)
}

func TestComputeUsage_RoundsToTwoDecimals(t *testing.T) {
	repo := newMockDownloadRepo()
	videos := newMockVideoRepo()
	accountant := NewStorageAccountant(repo, videos, nil)

	// 10.5 MB + 0.128 MB = 10.628 -> 10.63
	seedCompleted(t, repo, "u1", "v1", 10.5)
	seedCompleted(t, repo, "u1", "v2", 0.128)

	usage, err := accountant.ComputeUsage("u1")
	require.NoError(t, err)
	assert.Equal(t, 10.63, usage.TotalSizeMB)
	for _, item := range usage.Downloads {
		if item.SizeMB != 10.5 {
			assert.Equal(t, 0.13, item.SizeMB)
		}
	}
}
