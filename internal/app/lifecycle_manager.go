package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/edu-offline-go/internal/domain"
	"go.uber.org/zap"
)

// TransferFunc performs (or simulates) the byte transfer for a download.
// report publishes monotone progress in percent; the function returns nil when
// the transfer finished, ctx.Err() when cancelled, or a transfer error.
type TransferFunc func(ctx context.Context, record *domain.DownloadRecord, report func(percent int)) error

// SimulatedTransfer models a background transfer by sleeping for totalDelay,
// sliced into steps progress reports. It stands in for a real transfer until
// one is plugged into the manager.
func SimulatedTransfer(totalDelay time.Duration, steps int) TransferFunc {
	return func(ctx context.Context, record *domain.DownloadRecord, report func(percent int)) error {
		if steps < 1 {
			steps = 1
		}
		stepDelay := totalDelay / time.Duration(steps)
		for i := 1; i <= steps; i++ {
			select {
			case <-time.After(stepDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			if i < steps {
				report(i * 100 / steps)
			}
		}
		return nil
	}
}

// LifecycleManager drives download records through their states. It is the
// only component that writes status or progress. Writes for one (user, video)
// pair are serialized by a per-pair mutex, and every background task is
// registered in a task table so CancelOrRemove and Stop can cancel it.
type LifecycleManager struct {
	repo     domain.DownloadRepository
	videos   domain.VideoRepository
	config   *domain.DownloadConfig
	logger   *zap.Logger
	transfer TransferFunc

	mu        sync.Mutex
	pairLocks map[string]*sync.Mutex
	tasks     map[string]context.CancelFunc // keyed by record ID
	stopped   bool

	baseCtx    context.Context
	baseCancel context.CancelFunc
	taskWg     sync.WaitGroup
}

// NewLifecycleManager creates a lifecycle manager with the simulated transfer
func NewLifecycleManager(
	repo domain.DownloadRepository,
	videos domain.VideoRepository,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *LifecycleManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &LifecycleManager{
		repo:       repo,
		videos:     videos,
		config:     config,
		logger:     logger,
		transfer:   SimulatedTransfer(config.CompletionDelay, config.ProgressSteps),
		pairLocks:  make(map[string]*sync.Mutex),
		tasks:      make(map[string]context.CancelFunc),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// SetTransfer replaces the transfer implementation
func (m *LifecycleManager) SetTransfer(t TransferFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfer = t
}

func (m *LifecycleManager) getTransfer() TransferFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transfer
}

func (m *LifecycleManager) pairLock(userID, videoID string) *sync.Mutex {
	key := userID + "|" + videoID
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.pairLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		m.pairLocks[key] = lock
	}
	return lock
}

// RequestDownload starts (or resumes) the offline download of a video for a
// user. Completed records are returned unchanged. The returned record is in
// downloading state; completion is observed later via GetStatus.
func (m *LifecycleManager) RequestDownload(userID, videoID string) (*domain.DownloadRecord, error) {
	// Video lookup happens before any record is touched, so an unknown video
	// can never leave a partial record behind.
	video, err := m.videos.FindVideoByID(videoID)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoID, err)
	}

	lock := m.pairLock(userID, videoID)
	lock.Lock()
	defer lock.Unlock()

	record, err := m.repo.FindByUserAndVideo(userID, videoID)
	switch {
	case err == nil:
		if record.IsCompleted() {
			return record, nil
		}
		// resume the existing record, never create a duplicate
	case errors.Is(err, domain.ErrNotFound):
		record = domain.NewDownloadRecord(userID, videoID, video.SizeMB())
		if createErr := m.repo.Create(record); createErr != nil {
			if !errors.Is(createErr, domain.ErrConflict) {
				return nil, fmt.Errorf("failed to create download record: %w", createErr)
			}
			// a concurrent request won the race; fall back to its record
			record, err = m.repo.FindByUserAndVideo(userID, videoID)
			if err != nil {
				return nil, err
			}
			if record.IsCompleted() {
				return record, nil
			}
		}
	default:
		return nil, err
	}

	record.MarkDownloading()
	if err := m.repo.Update(record); err != nil {
		return nil, fmt.Errorf("failed to update download record: %w", err)
	}

	m.startTransfer(record)

	m.logger.Info("Download started",
		zap.String("id", record.ID),
		zap.String("user_id", userID),
		zap.String("video_id", videoID),
		zap.Float64("file_size_mb", record.FileSizeMB))

	return record, nil
}

// CancelOrRemove cancels any in-flight transfer for the pair and hard-deletes
// the record, regardless of its status.
func (m *LifecycleManager) CancelOrRemove(userID, videoID string) error {
	lock := m.pairLock(userID, videoID)
	lock.Lock()
	defer lock.Unlock()

	record, err := m.repo.FindByUserAndVideo(userID, videoID)
	if err != nil {
		return err
	}

	m.cancelTask(record.ID)

	if err := m.repo.Delete(record.ID); err != nil {
		return err
	}

	m.logger.Info("Download removed",
		zap.String("id", record.ID),
		zap.String("user_id", userID),
		zap.String("video_id", videoID),
		zap.String("status", string(record.Status)))
	return nil
}

// GetStatus returns the download record for a (user, video) pair
func (m *LifecycleManager) GetStatus(userID, videoID string) (*domain.DownloadRecord, error) {
	return m.repo.FindByUserAndVideo(userID, videoID)
}

// ListByUser returns a user's download records, newest first
func (m *LifecycleManager) ListByUser(userID string) ([]*domain.DownloadRecord, error) {
	return m.repo.FindByUser(userID)
}

// ListOffline returns a user's completed downloads
func (m *LifecycleManager) ListOffline(userID string) ([]*domain.DownloadRecord, error) {
	return m.repo.FindCompletedByUser(userID)
}

// GetStats returns download statistics across all users
func (m *LifecycleManager) GetStats() (*domain.DownloadStats, error) {
	return m.repo.GetStats()
}

// Retry resets a failed download and restarts its transfer
func (m *LifecycleManager) Retry(userID, videoID string) (*domain.DownloadRecord, error) {
	lock := m.pairLock(userID, videoID)
	lock.Lock()
	defer lock.Unlock()

	record, err := m.repo.FindByUserAndVideo(userID, videoID)
	if err != nil {
		return nil, err
	}

	if record.Status != domain.StatusFailed {
		return nil, fmt.Errorf("download is not in failed state (%s): %w", record.Status, domain.ErrConflict)
	}

	record.RetryCount = 0
	record.ErrorMessage = ""
	record.ProgressPercent = 0
	record.MarkDownloading()
	if err := m.repo.Update(record); err != nil {
		return nil, err
	}

	m.startTransfer(record)

	m.logger.Info("Download retried",
		zap.String("id", record.ID),
		zap.String("user_id", userID),
		zap.String("video_id", videoID))
	return record, nil
}

// ResumeInFlight restarts transfers for records left pending or downloading
// by a previous process. Called once at startup, before the API accepts
// requests.
func (m *LifecycleManager) ResumeInFlight() error {
	records, err := m.repo.FindInFlight()
	if err != nil {
		return fmt.Errorf("failed to load in-flight downloads: %w", err)
	}

	for _, record := range records {
		lock := m.pairLock(record.UserID, record.VideoID)
		lock.Lock()
		// keep the progress already reported; only the status moves
		record.Status = domain.StatusDownloading
		record.UpdatedAt = time.Now()
		if err := m.repo.Update(record); err != nil {
			lock.Unlock()
			m.logger.Error("Failed to resume download", zap.String("id", record.ID), zap.Error(err))
			continue
		}
		m.startTransfer(record)
		lock.Unlock()

		m.logger.Info("Download resumed after restart",
			zap.String("id", record.ID),
			zap.String("user_id", record.UserID),
			zap.String("video_id", record.VideoID))
	}
	return nil
}

// Stop cancels every registered transfer task and waits for them to exit.
// After Stop returns no task will write to the store.
func (m *LifecycleManager) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	m.baseCancel()
	m.taskWg.Wait()
}

// startTransfer registers and spawns the background task for a record.
// Callers must hold the record's pair lock.
func (m *LifecycleManager) startTransfer(record *domain.DownloadRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	if _, running := m.tasks[record.ID]; running {
		// a repeated request resumes the record; the existing task keeps going
		return
	}

	ctx, cancel := context.WithCancel(m.baseCtx)
	m.tasks[record.ID] = cancel

	m.taskWg.Add(1)
	go m.runTransfer(ctx, record)
}

// cancelTask cancels and unregisters the task for a record, if any
func (m *LifecycleManager) cancelTask(recordID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.tasks[recordID]; ok {
		cancel()
		delete(m.tasks, recordID)
	}
}

func (m *LifecycleManager) removeTask(recordID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, recordID)
}

// runTransfer executes the transfer: attempt, back off, retry, and mark
// failed once retries are exhausted.
func (m *LifecycleManager) runTransfer(ctx context.Context, record *domain.DownloadRecord) {
	defer m.taskWg.Done()
	defer m.removeTask(record.ID)

	userID, videoID, recordID := record.UserID, record.VideoID, record.ID

	report := func(percent int) {
		if ctx.Err() != nil {
			return
		}
		m.applyUnderLock(userID, videoID, recordID, func(r *domain.DownloadRecord) {
			if r.Status == domain.StatusDownloading {
				r.SetProgress(percent)
			}
		})
	}

	var lastErr error
	for attempt := 0; attempt <= m.config.MaxRetries; attempt++ {
		if attempt > 0 {
			m.logger.Info("Retrying transfer",
				zap.String("id", recordID),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", m.config.MaxRetries))

			select {
			case <-time.After(m.config.RetryDelay):
			case <-ctx.Done():
				return
			}

			if !m.applyUnderLock(userID, videoID, recordID, func(r *domain.DownloadRecord) {
				r.IncrementRetry()
			}) {
				return
			}
		}

		err := m.getTransfer()(ctx, record, report)
		if err == nil {
			if m.applyUnderLock(userID, videoID, recordID, func(r *domain.DownloadRecord) {
				r.MarkCompleted()
			}) {
				m.logger.Info("Download completed",
					zap.String("id", recordID),
					zap.String("user_id", userID),
					zap.String("video_id", videoID))
			}
			return
		}

		if ctx.Err() != nil {
			// cancelled or shutting down; the record keeps its current state so
			// a restart can pick it up
			return
		}

		lastErr = err
		m.logger.Warn("Transfer attempt failed",
			zap.String("id", recordID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	if m.applyUnderLock(userID, videoID, recordID, func(r *domain.DownloadRecord) {
		r.MarkFailed(lastErr)
	}) {
		m.logger.Error("Download failed after retries",
			zap.String("id", recordID),
			zap.String("user_id", userID),
			zap.String("video_id", videoID),
			zap.Error(lastErr))
	}
}

// applyUnderLock re-reads the record under its pair lock, applies fn and
// persists the result. Returns false when the record no longer exists, which
// is how a delayed write is prevented from resurrecting a deleted record.
func (m *LifecycleManager) applyUnderLock(userID, videoID, recordID string, fn func(*domain.DownloadRecord)) bool {
	lock := m.pairLock(userID, videoID)
	lock.Lock()
	defer lock.Unlock()

	record, err := m.repo.FindByID(recordID)
	if err != nil {
		return false
	}

	fn(record)
	if err := m.repo.Update(record); err != nil {
		m.logger.Error("Failed to update download record",
			zap.String("id", recordID), zap.Error(err))
		return false
	}
	return true
}
