package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an audit event to the database.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return database.Translate(r.db.WithContext(ctx).Create(event).Error)
}

// GetEvents retrieves paginated audit events, most recent first. An empty
// eventType matches every type.
func (r *Repository) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	var events []entities.AuditEvent
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.AuditEvent{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Translate(err)
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, database.Translate(err)
}

// GetEventsByCorrelation returns every event sharing a correlation ID,
// oldest first.
func (r *Repository) GetEventsByCorrelation(ctx context.Context, correlationID string) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := r.db.WithContext(ctx).Where("correlation_id = ?", correlationID).Order("created_at ASC, id ASC").Find(&events).Error
	return events, database.Translate(err)
}

// DeleteOldEvents removes audit events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", olderThan).Delete(&entities.AuditEvent{})
	return result.RowsAffected, database.Translate(result.Error)
}
