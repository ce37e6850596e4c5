package db

import (
	"context"
	"fmt"
	"time"

	"github.com/alwitt/goutils"
	"github.com/alwitt/inovarea/models"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// CommonListEntryQueryFilter common query filter when listing data entries
type CommonListEntryQueryFilter struct {
	Limit  *int
	Offset *int
}

// AuditEventQueryFilter audit journal query filter conditions
type AuditEventQueryFilter struct {
	CommonListEntryQueryFilter
	// Actions the specific audit actions to query for
	Actions []models.AuditActionENUMType
	// SessionID only entries from this process session
	SessionID *string
	// EventsAfter filter for events after this timestamp
	EventsAfter *time.Time
	// EventsBefore filter for events before this timestamp
	EventsBefore *time.Time
}

// Database the database handle to interacting with the journal
type Database interface {
	/*
		RecordAuditEvent journal one audit trail entry

			@param ctx context.Context - execution context
			@param sessionID string - the process session ID
			@param action models.AuditActionENUMType - the audit action
			@param detail string - free text detail
			@param metadata interface{} - optional structured metadata
			@returns the journal entry
	*/
	RecordAuditEvent(
		ctx context.Context,
		sessionID string,
		action models.AuditActionENUMType,
		detail string,
		metadata interface{},
	) (models.AuditEvent, error)

	/*
		ListAuditEvents list journaled audit trail entries

			@param ctx context.Context - execution context
			@param filters AuditEventQueryFilter - entry listing filter
			@return list of audit events
	*/
	ListAuditEvents(
		ctx context.Context, filters AuditEventQueryFilter,
	) ([]models.AuditEvent, error)
}

// databaseImpl implements Database
type databaseImpl struct {
	goutils.Component
	db        *gorm.DB
	validator *validator.Validate
}

// newDatabase define a new database client
func newDatabase(_ context.Context, sqlClient *gorm.DB) (Database, error) {
	logTags := log.Fields{"package": "inovarea", "module": "db", "component": "db-client"}

	instance := &databaseImpl{
		Component: goutils.Component{LogTags: logTags},
		db:        sqlClient,
		validator: validator.New(),
	}

	if err := models.RegisterWithValidator(instance.validator); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	return instance, nil
}
