package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// AuditActionENUMType audit trail action ENUM value type
type AuditActionENUMType string

const (
	// AuditActionCreate a record was created
	AuditActionCreate AuditActionENUMType = "CREATE"

	// AuditActionUpdate a record's name or description was changed
	AuditActionUpdate AuditActionENUMType = "UPDATE"

	// AuditActionActivate a record was marked active
	AuditActionActivate AuditActionENUMType = "ACTIVATE"

	// AuditActionDeactivate a record was marked inactive
	AuditActionDeactivate AuditActionENUMType = "DEACTIVATE"

	// AuditActionDelete a record was permanently removed
	AuditActionDelete AuditActionENUMType = "DELETE"

	// AuditActionUndo the last update or delete was reverted
	AuditActionUndo AuditActionENUMType = "UNDO"

	// AuditActionLoad the data file was loaded
	AuditActionLoad AuditActionENUMType = "LOAD"

	// AuditActionLoadError the data file could not be loaded
	AuditActionLoadError AuditActionENUMType = "LOAD_ERROR"

	// AuditActionSaveError the data file could not be written
	AuditActionSaveError AuditActionENUMType = "SAVE_ERROR"

	// AuditActionSaveDone a save attempt finished
	AuditActionSaveDone AuditActionENUMType = "SAVE_DONE"
)

// AuditEvent one journaled audit trail entry
type AuditEvent struct {
	// ID audit entry ID
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required"`
	// SessionID the process session which produced the entry
	SessionID string `json:"session_id" gorm:"column:session_id;not null;index" validate:"required,uuid_rfc4122"`
	// Action audit action
	Action AuditActionENUMType `json:"action" gorm:"column:action;not null" validate:"required,audit_action"`
	// Detail free text detail, as written to the audit log
	Detail string `json:"detail" gorm:"column:detail"`
	// Metadata a metadata relating to the event
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"column:metadata;default:null"`
	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseMetadata parse the metadata based on the action
//
// Returns nil when the action carries no metadata.
func (a AuditEvent) ParseMetadata(validator *validator.Validate) (interface{}, error) {
	if len(a.Metadata) == 0 {
		return nil, nil
	}

	switch a.Action {
	case AuditActionCreate:
		fallthrough
	case AuditActionUpdate:
		fallthrough
	case AuditActionActivate:
		fallthrough
	case AuditActionDeactivate:
		fallthrough
	case AuditActionDelete:
		fallthrough
	case AuditActionUndo:
		var parsed AuditEventRecordRelated
		if err := json.Unmarshal(a.Metadata, &parsed); err != nil {
			return nil, fmt.Errorf("audit event '%s' metadata parse failed [%w]", a.Action, err)
		}
		return parsed, validator.Struct(&parsed)
	}
	return nil, nil
}

// AuditEventRecordRelated audit event metadata related to a data record
type AuditEventRecordRelated struct {
	// RecordID the data record ID
	RecordID int `json:"record_id" validate:"required,gte=1"`
	// RecordName the data record name
	RecordName string `json:"record_name" validate:"required"`
}
