package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/edu-offline-go/internal/app"
	"github.com/yourusername/edu-offline-go/internal/domain"
	"github.com/yourusername/edu-offline-go/internal/infrastructure"
)

func setupTestServer(t *testing.T) (*httptest.Server, *infrastructure.SQLiteRepository, *domain.Video) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "api-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	repo, err := infrastructure.NewSQLiteRepository(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	video := domain.NewVideo("Introduction to Variables", "", 420, 50*1024*1024, "720p", "c1")
	require.NoError(t, repo.CreateVideo(video))

	config := &domain.DownloadConfig{
		CompletionDelay: 10 * time.Millisecond,
		ProgressSteps:   2,
		MaxRetries:      1,
		RetryDelay:      time.Millisecond,
	}
	lifecycle := app.NewLifecycleManager(repo, repo, config, zap.NewNop())
	lifecycle.SetTransfer(func(ctx context.Context, record *domain.DownloadRecord, report func(int)) error {
		return nil
	})
	t.Cleanup(lifecycle.Stop)

	router := SetupRouter(Deps{
		Lifecycle:  lifecycle,
		Accountant: app.NewStorageAccountant(repo, repo, zap.NewNop()),
		Downloads:  repo,
		Videos:     repo,
		Progress:   repo,
		Logger:     zap.NewNop(),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo, video
}

func doRequest(t *testing.T, method, url, userID string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func TestAPI_RequiresUserHeader(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, _ := doRequest(t, http.MethodGet, server.URL+"/api/v1/downloads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_RequestDownload(t *testing.T) {
	server, _, video := setupTestServer(t)

	resp, result := doRequest(t, http.MethodPost, server.URL+"/api/v1/videos/"+video.ID+"/download", "u1", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	download := result["download"].(map[string]interface{})
	assert.NotEmpty(t, download["id"])
	assert.Equal(t, "downloading", download["status"])
	assert.Equal(t, 50.0, download["file_size_mb"])
}

func TestAPI_RequestDownload_UnknownVideo(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/videos/missing/download", "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_DownloadStatusAndStorage(t *testing.T) {
	server, _, video := setupTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/videos/"+video.ID+"/download", "u1", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	// instant transfer: the record completes almost immediately
	require.Eventually(t, func() bool {
		resp, result := doRequest(t, http.MethodGet, server.URL+"/api/v1/videos/"+video.ID+"/download", "u1", nil)
		return resp.StatusCode == http.StatusOK && result["status"] == "completed"
	}, 2*time.Second, 10*time.Millisecond)

	resp, usage := doRequest(t, http.MethodGet, server.URL+"/api/v1/storage/info", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, usage["video_count"])
	assert.Equal(t, 50.0, usage["total_size_mb"])

	// another user sees empty storage
	resp, usage = doRequest(t, http.MethodGet, server.URL+"/api/v1/storage/info", "u2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, usage["video_count"])
}

func TestAPI_RemoveOffline(t *testing.T) {
	server, _, video := setupTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/videos/"+video.ID+"/download", "u1", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodDelete, server.URL+"/api/v1/videos/"+video.ID+"/offline", "u1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/api/v1/videos/"+video.ID+"/download", "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// removing again is a 404
	resp, _ = doRequest(t, http.MethodDelete, server.URL+"/api/v1/videos/"+video.ID+"/offline", "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_WatchProgress(t *testing.T) {
	server, _, video := setupTestServer(t)

	payload := map[string]interface{}{"watch_time_seconds": 120, "completed": false}
	resp, result := doRequest(t, http.MethodPost, server.URL+"/api/v1/videos/"+video.ID+"/progress", "u1", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 120.0, result["watch_time_seconds"])

	payload = map[string]interface{}{"watch_time_seconds": 420, "completed": true}
	resp, result = doRequest(t, http.MethodPost, server.URL+"/api/v1/videos/"+video.ID+"/progress", "u1", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["completed"])
}

func TestAPI_CatalogReads(t *testing.T) {
	server, _, video := setupTestServer(t)

	resp, result := doRequest(t, http.MethodGet, server.URL+"/api/v1/videos/"+video.ID, "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, video.Title, result["title"])

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/api/v1/videos/missing", "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Health(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
