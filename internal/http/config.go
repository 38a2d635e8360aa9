package http

import (
	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/repository"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database   *database.Database
	Repository *repository.Repository

	// Audit service (optional); records deletes, imports and exports
	// and serves /api/audit.
	Auditor Auditor

	// Backup scheduler (optional)
	Backups BackupService

	// Task queue client (optional)
	TaskQueue TaskQueue
	// ExportDir receives catalog exports queued through the task queue.
	ExportDir string

	// Application info
	Version string
}
