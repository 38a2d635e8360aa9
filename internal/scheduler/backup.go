// Package scheduler runs periodic catalog backups on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/audit"
	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/exporters"
)

// ErrBackupInProgress is returned when a backup is requested while one runs.
var ErrBackupInProgress = errors.New("backup already in progress")

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CatalogExporter writes the whole catalog to a file.
type CatalogExporter interface {
	ExportToFile(ctx context.Context, path string) (exporters.ExportResult, error)
}

// StatusStore persists the outcome of the last backup.
type StatusStore interface {
	GetValue(ctx context.Context, key, fallback string) string
	SetSettings(ctx context.Context, values map[string]string) error
}

// BackupRecorder records backup runs in the audit log.
type BackupRecorder interface {
	LogBackup(correlationID, file string, movies int, err error)
}

type BackupConfig struct {
	Enabled  bool
	Schedule string
	Dir      string
}

// BackupStatus is the scheduler state plus the last recorded run.
type BackupStatus struct {
	Enabled     bool       `json:"enabled"`
	Running     bool       `json:"running"`
	Schedule    string     `json:"schedule"`
	Dir         string     `json:"dir"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	LastStatus  string     `json:"last_status,omitempty"`
	LastMessage string     `json:"last_message,omitempty"`
	LastFile    string     `json:"last_file,omitempty"`
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// BackupScheduler manages periodic CSV exports of the catalog.
type BackupScheduler struct {
	cfg      BackupConfig
	exporter CatalogExporter
	status   StatusStore
	recorder BackupRecorder

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	runMu   sync.Mutex
	pending sync.WaitGroup
}

// NewBackupScheduler creates a new scheduler instance. recorder may be nil.
func NewBackupScheduler(cfg BackupConfig, exporter CatalogExporter, status StatusStore, recorder BackupRecorder) *BackupScheduler {
	return &BackupScheduler{
		cfg:      cfg,
		exporter: exporter,
		status:   status,
		recorder: recorder,
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if backups are enabled. It stops on its own
// when ctx is cancelled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Info().Msg("backup scheduler: disabled")
		return nil
	}

	if s.cfg.Dir == "" {
		return fmt.Errorf("backup directory is not configured")
	}

	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.Run(context.Background()); err != nil && !errors.Is(err, ErrBackupInProgress) {
			log.Error().Err(err).Msg("scheduled backup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Info().
		Str("schedule", s.cfg.Schedule).
		Time("next_run", s.cron.Entry(entryID).Next).
		Msg("backup scheduler: started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler and waits for running backups.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	if s.isRunning {
		ctx := s.cron.Stop()
		<-ctx.Done()

		s.cron.Remove(s.entryID)
		s.isRunning = false
		if s.cancelFunc != nil {
			s.cancelFunc()
			s.cancelFunc = nil
		}
		log.Info().Msg("backup scheduler: stopped")
	}
	s.mu.Unlock()

	s.pending.Wait()
}

// RunNow triggers a backup in the background and returns immediately.
func (s *BackupScheduler) RunNow() {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if _, err := s.Run(context.Background()); err != nil && !errors.Is(err, ErrBackupInProgress) {
			log.Error().Err(err).Msg("manual backup failed")
		}
	}()
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next backup will occur, or nil when stopped.
func (s *BackupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return nil
	}
	return &next
}

// Status returns the scheduler state and the last recorded run.
func (s *BackupScheduler) Status(ctx context.Context) BackupStatus {
	st := BackupStatus{
		Enabled:     s.cfg.Enabled,
		Running:     s.IsRunning(),
		Schedule:    s.cfg.Schedule,
		Dir:         s.cfg.Dir,
		NextRun:     s.NextRun(),
		LastStatus:  s.status.GetValue(ctx, entities.SettingKeyBackupLastStatus, ""),
		LastMessage: s.status.GetValue(ctx, entities.SettingKeyBackupLastMessage, ""),
		LastFile:    s.status.GetValue(ctx, entities.SettingKeyBackupLastFile, ""),
	}
	if raw := s.status.GetValue(ctx, entities.SettingKeyBackupLastAt, ""); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			st.LastRunAt = &t
		}
	}
	return st
}

// Run performs one backup synchronously. Only one backup runs at a time;
// a concurrent call returns ErrBackupInProgress.
func (s *BackupScheduler) Run(ctx context.Context) (exporters.ExportResult, error) {
	if !s.runMu.TryLock() {
		return exporters.ExportResult{}, ErrBackupInProgress
	}
	defer s.runMu.Unlock()

	if s.cfg.Dir == "" {
		err := fmt.Errorf("backup directory is not configured")
		s.record(ctx, audit.NewCorrelationID(), exporters.ExportResult{}, err, 0)
		return exporters.ExportResult{}, err
	}

	correlationID := audit.NewCorrelationID()
	path := filepath.Join(s.cfg.Dir, exporters.TimestampedFileName(time.Now()))

	log.Info().Str("file", path).Str("correlation_id", correlationID).Msg("backup: starting")
	start := time.Now()

	result, err := s.exporter.ExportToFile(ctx, path)
	s.record(ctx, correlationID, result, err, time.Since(start))
	if err != nil {
		return result, fmt.Errorf("backup failed: %w", err)
	}
	return result, nil
}

func (s *BackupScheduler) record(ctx context.Context, correlationID string, result exporters.ExportResult, runErr error, took time.Duration) {
	status, message := StatusSuccess, fmt.Sprintf("Exported %d movies in %v", result.MoviesProcessed, took.Round(time.Millisecond))
	if runErr != nil {
		status, message = StatusFailed, runErr.Error()
		log.Error().Err(runErr).Str("correlation_id", correlationID).Msg("backup: failed")
	} else {
		log.Info().Str("file", result.File).Int("movies", result.MoviesProcessed).Msg("backup: " + message)
	}

	values := map[string]string{
		entities.SettingKeyBackupLastAt:      time.Now().UTC().Format(time.RFC3339),
		entities.SettingKeyBackupLastStatus:  status,
		entities.SettingKeyBackupLastMessage: message,
		entities.SettingKeyBackupLastFile:    result.File,
	}
	if err := s.status.SetSettings(ctx, values); err != nil {
		log.Warn().Err(err).Msg("backup: failed to persist status")
	}

	if s.recorder != nil {
		s.recorder.LogBackup(correlationID, result.File, result.MoviesProcessed, runErr)
	}
}
