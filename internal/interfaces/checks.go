package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/mediatracker/internal/audit"
	"github.com/mrlokans/mediatracker/internal/database/settings"
	"github.com/mrlokans/mediatracker/internal/exporters"
	"github.com/mrlokans/mediatracker/internal/http"
	"github.com/mrlokans/mediatracker/internal/importers"
	"github.com/mrlokans/mediatracker/internal/repository"
	"github.com/mrlokans/mediatracker/internal/scheduler"
	"github.com/mrlokans/mediatracker/internal/tasks"
	"github.com/mrlokans/mediatracker/internal/viewstate"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ viewstate.Store = (*repository.Repository)(nil)
var _ http.MovieStore = (*repository.Repository)(nil)
var _ http.GenreStore = (*repository.Repository)(nil)
var _ http.MovieCounter = (*repository.Repository)(nil)

// =============================================================================
// CSV Transfer
// =============================================================================

var _ importers.MovieWriter = (*repository.Repository)(nil)
var _ exporters.MovieReader = (*repository.Repository)(nil)
var _ scheduler.CatalogExporter = (*exporters.CSVExporter)(nil)
var _ tasks.CatalogFileExporter = (*exporters.CSVExporter)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ http.Auditor = (*audit.Service)(nil)
var _ scheduler.BackupRecorder = (*audit.Service)(nil)
var _ tasks.CleanupRecorder = (*audit.Service)(nil)
var _ tasks.ExportRecorder = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.BackupService = (*scheduler.BackupScheduler)(nil)
var _ tasks.OrphanGenresCleaner = (*repository.Repository)(nil)
var _ scheduler.StatusStore = (*settings.Repository)(nil)
