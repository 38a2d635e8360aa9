package entities

import "time"

type AuditEventType string

const (
	AuditEventImport  AuditEventType = "import"
	AuditEventExport  AuditEventType = "export"
	AuditEventDelete  AuditEventType = "delete"
	AuditEventBackup  AuditEventType = "backup"
	AuditEventCleanup AuditEventType = "cleanup"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	EventType     AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action        string         `gorm:"size:100" json:"action"`      // e.g. "csv_import", "movie_delete"
	Description   string         `gorm:"size:500" json:"description"` // Human-readable summary
	EntityType    string         `gorm:"size:50" json:"entity_type"`  // "movie", "genre", "catalog"
	EntityID      *uint          `gorm:"index" json:"entity_id,omitempty"`
	Details       string         `gorm:"type:text" json:"details,omitempty"` // JSON for extra data
	CorrelationID string         `gorm:"size:36;index" json:"correlation_id,omitempty"`
	Status        AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg      string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
