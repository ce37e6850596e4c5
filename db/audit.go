// Package db - audit journal persistence layer
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alwitt/inovarea/models"
	"github.com/apex/log"
	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
)

/*
RecordAuditEvent journal one audit trail entry

	@param ctx context.Context - execution context
	@param sessionID string - the process session ID
	@param action models.AuditActionENUMType - the audit action
	@param detail string - free text detail
	@param metadata interface{} - optional structured metadata
	@returns the journal entry
*/
func (d *databaseImpl) RecordAuditEvent(
	_ context.Context,
	sessionID string,
	action models.AuditActionENUMType,
	detail string,
	metadata interface{},
) (models.AuditEvent, error) {
	newEntry := AuditEventDBEntry{
		AuditEvent: models.AuditEvent{
			ID:        ulid.Make().String(),
			SessionID: sessionID,
			Action:    action,
			Detail:    detail,
		},
	}

	if metadata != nil {
		if err := d.validator.Struct(metadata); err != nil {
			return models.AuditEvent{}, fmt.Errorf(
				"audit event '%s' metadata entry is not valid [%w]", action, err,
			)
		}

		metadataStr, err := json.Marshal(metadata)
		if err != nil {
			return models.AuditEvent{}, fmt.Errorf(
				"audit event '%s' metadata encode failed [%w]", action, err,
			)
		}
		newEntry.Metadata = datatypes.JSON(metadataStr)
	}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.AuditEvent{}, fmt.Errorf(
			"audit event '%s' entry is not valid [%w]", action, err,
		)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.AuditEvent{}, fmt.Errorf(
			"audit event '%s' insert failed [%w]", action, tmp.Error,
		)
	}

	log.WithFields(d.LogTags).
		WithField("action", action).
		WithField("entry", newEntry.ID).
		Debug("Journaled audit event")

	return newEntry.AuditEvent, nil
}

/*
ListAuditEvents list journaled audit trail entries

	@param ctx context.Context - execution context
	@param filters AuditEventQueryFilter - entry listing filter
	@return list of audit events
*/
func (d *databaseImpl) ListAuditEvents(
	_ context.Context, filters AuditEventQueryFilter,
) ([]models.AuditEvent, error) {
	query := d.db.Model(&AuditEventDBEntry{})

	if len(filters.Actions) > 0 {
		query = query.Where("action in ?", filters.Actions)
	}

	if filters.SessionID != nil {
		query = query.Where("session_id = ?", *filters.SessionID)
	}

	if filters.EventsAfter != nil {
		query = query.Where("created_at >= ?", *filters.EventsAfter)
	}
	if filters.EventsBefore != nil {
		query = query.Where("created_at <= ?", *filters.EventsBefore)
	}

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	}
	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	// ULIDs sort by creation time, which breaks ties inside one second
	query = query.Order("created_at").Order("id")

	var entries []AuditEventDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf("failed to list journaled audit events [%w]", tmp.Error)
	}

	result := []models.AuditEvent{}
	for _, entry := range entries {
		result = append(result, entry.AuditEvent)
	}

	return result, nil
}
