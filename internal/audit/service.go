// Package audit records catalog-changing operations (imports, exports,
// deletes, backups, maintenance) as audit events.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/mediatracker/internal/database/audit"
	"github.com/mrlokans/mediatracker/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// NewCorrelationID returns an ID for grouping the events of one run.
func NewCorrelationID() string {
	return uuid.NewString()
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Error().Err(err).Str("action", event.Action).Msg("failed to log audit event")
		}
	}()
}

// Flush waits for pending asynchronous events to be written.
func (s *Service) Flush() {
	s.wg.Wait()
}

// LogImport records a catalog import.
func (s *Service) LogImport(source string, imported, skipped, failed int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      source + "_import",
		Description: fmt.Sprintf("Imported %d movies (%d skipped, %d failed)", imported, skipped, failed),
		EntityType:  "movie",
		Details: details(map[string]any{
			"imported": imported,
			"skipped":  skipped,
			"failed":   failed,
		}),
	}
	setOutcome(event, err)
	s.LogAsync(event)
}

// LogExport records a catalog export.
func (s *Service) LogExport(format string, movies int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventExport,
		Action:      format + "_export",
		Description: fmt.Sprintf("Exported %d movies", movies),
		EntityType:  "catalog",
	}
	setOutcome(event, err)
	s.LogAsync(event)
}

// LogDelete records a deletion.
func (s *Service) LogDelete(entityType string, entityID uint, entityName string) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      entityType + "_delete",
		Description: "Deleted " + entityType + ": " + entityName,
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}
	s.LogAsync(event)
}

// LogBackup records one scheduled or manual backup run.
func (s *Service) LogBackup(correlationID, file string, movies int, err error) {
	event := &entities.AuditEvent{
		EventType:     entities.AuditEventBackup,
		Action:        "catalog_backup",
		Description:   fmt.Sprintf("Backed up %d movies", movies),
		EntityType:    "catalog",
		CorrelationID: correlationID,
		Details:       details(map[string]any{"file": file, "movies": movies}),
	}
	setOutcome(event, err)
	s.LogAsync(event)
}

// LogCleanup records a maintenance run such as orphan genre removal.
func (s *Service) LogCleanup(action string, removed int64, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCleanup,
		Action:      action,
		Description: fmt.Sprintf("Removed %d records", removed),
	}
	setOutcome(event, err)
	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events. An empty eventType matches all.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func setOutcome(event *entities.AuditEvent, err error) {
	event.Status = entities.AuditStatusSuccess
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
}

func details(values map[string]any) string {
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
