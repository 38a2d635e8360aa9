// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - viewstate.Store: everything the observable state holder reads and writes (internal/viewstate/holder.go)
//   - MovieStore, GenreStore: catalog access for the JSON API (internal/http/stores.go)
//   - MovieWriter: import target (internal/importers/pipeline.go)
//   - MovieReader: export source (internal/exporters/generic.go)
//
// All of them are satisfied by repository.Repository, a facade over the
// movies and genres repositories in internal/database.
//
// ## Background Work Interfaces
//
//   - TaskQueue: enqueue and poll backlite tasks (internal/http/stores.go)
//   - BackupService: scheduled CSV backups (internal/http/backup.go)
//   - StatusStore: last-run bookkeeping for the backup scheduler (internal/scheduler/backup.go)
//
// ## Audit Interfaces
//
//   - Auditor, DeleteRecorder, CatalogRecorder: audit trail recording (internal/http)
//   - BackupRecorder, CleanupRecorder, ExportRecorder: the same trail seen from jobs
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Translate errors with database.Translate and publish a change on the
//     ChangeNotifier after every committed write
//
//  4. Forward the methods from repository.Repository and add a compile-time check
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
