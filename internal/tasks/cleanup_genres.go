package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"
)

// OrphanGenresCleaner provides the ability to delete genres without movies.
type OrphanGenresCleaner interface {
	DeleteOrphanGenres(ctx context.Context) (int64, error)
}

// CleanupRecorder records the outcome of a cleanup run.
type CleanupRecorder interface {
	LogCleanup(action string, removed int64, err error)
}

// CleanupOrphanGenresTask removes genres that no movie links to.
type CleanupOrphanGenresTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphanGenresTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_genres",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanGenresProcessor creates a processor function for CleanupOrphanGenresTask.
// recorder may be nil.
func CleanupOrphanGenresProcessor(cleaner OrphanGenresCleaner, recorder CleanupRecorder) backlite.QueueProcessor[CleanupOrphanGenresTask] {
	return func(ctx context.Context, task CleanupOrphanGenresTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan genres cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphanGenres(ctx)
		if recorder != nil {
			recorder.LogCleanup("orphan_genres", deleted, err)
		}
		if err != nil {
			return fmt.Errorf("cleanup orphan genres: %w", err)
		}

		log.Info().Int64("deleted", deleted).Msg("cleaned up orphan genres")
		return nil
	}
}

// NewCleanupOrphanGenresQueue creates a backlite queue for genre cleanup tasks.
func NewCleanupOrphanGenresQueue(cleaner OrphanGenresCleaner, recorder CleanupRecorder) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanGenresProcessor(cleaner, recorder))
}
