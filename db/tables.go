package db

import "github.com/alwitt/inovarea/models"

// --------------------------------------------------------------------------------------
// Audit journal

// AuditEventDBEntry audit journal DB entry
type AuditEventDBEntry struct {
	models.AuditEvent
}

// TableName hard code table name
func (AuditEventDBEntry) TableName() string {
	return "audit_events"
}
