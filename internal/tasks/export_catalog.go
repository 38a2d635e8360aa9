package tasks

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/exporters"
)

// CatalogFileExporter writes the whole catalog to a file.
type CatalogFileExporter interface {
	ExportToFile(ctx context.Context, path string) (exporters.ExportResult, error)
}

// ExportRecorder records the outcome of an export.
type ExportRecorder interface {
	LogExport(format string, movies int, err error)
}

// ExportCatalogTask writes a timestamped CSV copy of the catalog into Dir.
type ExportCatalogTask struct {
	Dir string `json:"dir"`
}

// Config returns the queue configuration for catalog exports.
func (t ExportCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "export_catalog",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportCatalogProcessor creates a processor function for ExportCatalogTask.
// recorder may be nil.
func ExportCatalogProcessor(exporter CatalogFileExporter, recorder ExportRecorder) backlite.QueueProcessor[ExportCatalogTask] {
	return func(ctx context.Context, task ExportCatalogTask) error {
		if exporter == nil {
			return fmt.Errorf("catalog exporter not configured")
		}
		if task.Dir == "" {
			return fmt.Errorf("export directory is required")
		}

		path := filepath.Join(task.Dir, exporters.TimestampedFileName(time.Now()))
		result, err := exporter.ExportToFile(ctx, path)
		if recorder != nil {
			recorder.LogExport("csv", result.MoviesProcessed, err)
		}
		if err != nil {
			return fmt.Errorf("export catalog: %w", err)
		}

		log.Info().Str("file", result.File).Int("movies", result.MoviesProcessed).Msg("catalog exported")
		return nil
	}
}

// NewExportCatalogQueue creates a backlite queue for catalog exports.
func NewExportCatalogQueue(exporter CatalogFileExporter, recorder ExportRecorder) backlite.Queue {
	return backlite.NewQueue(ExportCatalogProcessor(exporter, recorder))
}
