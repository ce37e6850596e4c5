// Package service - record lifecycle operations
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alwitt/goutils"
	"github.com/alwitt/inovarea/audit"
	"github.com/alwitt/inovarea/models"
	"github.com/alwitt/inovarea/store"
	"github.com/apex/log"
)

// NothingToUndoMessage outcome text of an undo which had no effect
const NothingToUndoMessage = "Nothing to undo."

// Outcome result of a record operation
type Outcome struct {
	// Message human readable outcome
	Message string
	// Records the affected or listed records
	Records []models.Record
	// PersistenceErr set when the data file could not be written. The operation still
	// took effect in memory.
	PersistenceErr error
}

// RecordService record lifecycle operations
//
// Validation, missing record, and empty undo buffer conditions are returned as errors
// wrapping models.ErrValidation, models.ErrNotFound, and models.ErrNothingToUndo.
type RecordService interface {
	/*
		Create define a new active record

			@param ctx context.Context - execution context
			@param name string - record name
			@param description string - record description
			@returns outcome holding the new record
	*/
	Create(ctx context.Context, name, description string) (Outcome, error)

	/*
		List list records in insertion order

			@param ctx context.Context - execution context
			@param includeInactive bool - whether to include inactive records
			@returns outcome holding the listed records
	*/
	List(ctx context.Context, includeInactive bool) (Outcome, error)

	/*
		Search find records by exact ID or by case-insensitive name / description substring

			@param ctx context.Context - execution context
			@param term string - search term
			@returns outcome holding the matches
	*/
	Search(ctx context.Context, term string) (Outcome, error)

	/*
		Update change the name and / or description of a record

		Blank values leave the field unchanged.

			@param ctx context.Context - execution context
			@param id int - record ID
			@param newName string - new name, or blank
			@param newDescription string - new description, or blank
			@returns outcome holding the updated record
	*/
	Update(ctx context.Context, id int, newName, newDescription string) (Outcome, error)

	/*
		SetActive activate or deactivate a record

			@param ctx context.Context - execution context
			@param id int - record ID
			@param active bool - the new activation state
			@returns outcome holding the updated record
	*/
	SetActive(ctx context.Context, id int, active bool) (Outcome, error)

	/*
		Delete permanently remove a record

			@param ctx context.Context - execution context
			@param id int - record ID
			@returns outcome holding the removed record
	*/
	Delete(ctx context.Context, id int) (Outcome, error)

	/*
		UndoLast revert the last update or delete

			@param ctx context.Context - execution context
			@returns outcome holding the restored record
	*/
	UndoLast(ctx context.Context) (Outcome, error)

	/*
		Dashboard summary statistics of the record collection

			@param ctx context.Context - execution context
			@returns the summary
	*/
	Dashboard(ctx context.Context) Summary
}

// RecordServiceParams record service dependencies
type RecordServiceParams struct {
	// Store the record collection
	Store store.RecordStore
	// Trail audit trail
	Trail audit.Trail
	// Now clock; defaults to time.Now
	Now func() time.Time
}

// recordService implements RecordService
type recordService struct {
	goutils.Component
	store store.RecordStore
	trail audit.Trail
	now   func() time.Time
	undo  UndoBuffer
}

/*
NewRecordService define a new record service

	@param params RecordServiceParams - service dependencies
	@returns service instance
*/
func NewRecordService(params RecordServiceParams) (RecordService, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if params.Trail == nil {
		return nil, fmt.Errorf("audit trail is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	logTags := log.Fields{"package": "inovarea", "module": "service", "component": "record-service"}

	return &recordService{
		Component: goutils.Component{LogTags: logTags},
		store:     params.Store,
		trail:     params.Trail,
		now:       params.Now,
	}, nil
}

func (s *recordService) timestamp() models.Timestamp {
	return models.NewTimestamp(s.now())
}

// persist save the store, reporting but not failing on error
func (s *recordService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		log.WithFields(s.LogTags).WithError(err).Warn("Continuing with unsaved in-memory state")
		return err
	}
	return nil
}

func invalidName() error {
	return fmt.Errorf(
		"invalid name, expected %d to %d characters with at least one letter or digit [%w]",
		models.NameMinLength, models.NameMaxLength, models.ErrValidation,
	)
}

func invalidDescription() error {
	return fmt.Errorf(
		"invalid description, expected %d to %d characters [%w]",
		models.DescriptionMinLength, models.DescriptionMaxLength, models.ErrValidation,
	)
}

func notFound(id int) error {
	return fmt.Errorf("no record with ID %d [%w]", id, models.ErrNotFound)
}

func (s *recordService) Create(ctx context.Context, name, description string) (Outcome, error) {
	if !models.ValidateName(name) {
		return Outcome{}, invalidName()
	}
	if !models.ValidateDescription(description) {
		return Outcome{}, invalidDescription()
	}

	newRecord := models.Record{
		ID:          s.store.NextID(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Active:      true,
		CreatedAt:   s.timestamp(),
	}
	s.store.Append(newRecord)

	persistErr := s.persist(ctx)
	s.trail.LogRecord(
		ctx, models.AuditActionCreate, newRecord,
		fmt.Sprintf("ID %d '%s' created", newRecord.ID, newRecord.Name),
	)

	return Outcome{
		Message:        fmt.Sprintf("Record '%s' created successfully!", newRecord.Name),
		Records:        []models.Record{newRecord},
		PersistenceErr: persistErr,
	}, nil
}

func (s *recordService) List(_ context.Context, includeInactive bool) (Outcome, error) {
	selected := []models.Record{}
	for _, rec := range s.store.Records() {
		if includeInactive || rec.Active {
			selected = append(selected, rec)
		}
	}
	return Outcome{Message: formatListing(listingHeader, selected), Records: selected}, nil
}

func (s *recordService) Search(_ context.Context, term string) (Outcome, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	matches := []models.Record{}
	for _, rec := range s.store.Records() {
		if strconv.Itoa(rec.ID) == term ||
			strings.Contains(strings.ToLower(rec.Name), term) ||
			strings.Contains(strings.ToLower(rec.Description), term) {
			matches = append(matches, rec)
		}
	}
	return Outcome{Message: formatListing(searchHeader, matches), Records: matches}, nil
}

func (s *recordService) Update(
	ctx context.Context, id int, newName, newDescription string,
) (Outcome, error) {
	current, ok := s.store.Get(id)
	if !ok {
		return Outcome{}, notFound(id)
	}

	// Both fields are checked before anything is touched
	name := strings.TrimSpace(newName)
	description := strings.TrimSpace(newDescription)
	if name != "" && !models.ValidateName(name) {
		return Outcome{}, invalidName()
	}
	if description != "" && !models.ValidateDescription(description) {
		return Outcome{}, invalidDescription()
	}

	updated := current.Clone()
	changed := false
	if name != "" && name != updated.Name {
		updated.Name = name
		changed = true
	}
	if description != "" && description != updated.Description {
		updated.Description = description
		changed = true
	}
	if !changed {
		return Outcome{
			Message: fmt.Sprintf("Record ID %d unchanged.", id),
			Records: []models.Record{current},
		}, nil
	}

	s.undo.Set(UndoKindUpdate, current)
	ts := s.timestamp()
	updated.UpdatedAt = &ts
	s.store.Replace(updated)

	persistErr := s.persist(ctx)
	s.trail.LogRecord(ctx, models.AuditActionUpdate, updated, fmt.Sprintf("ID %d updated", id))

	return Outcome{
		Message:        fmt.Sprintf("Record ID %d updated!", id),
		Records:        []models.Record{updated},
		PersistenceErr: persistErr,
	}, nil
}

func (s *recordService) SetActive(ctx context.Context, id int, active bool) (Outcome, error) {
	current, ok := s.store.Get(id)
	if !ok {
		return Outcome{}, notFound(id)
	}

	current.Active = active
	ts := s.timestamp()
	current.UpdatedAt = &ts
	s.store.Replace(current)

	persistErr := s.persist(ctx)
	action := models.AuditActionDeactivate
	if active {
		action = models.AuditActionActivate
	}
	s.trail.LogRecord(ctx, action, current, fmt.Sprintf("ID %d is now %s", id, current.Status()))

	return Outcome{
		Message:        fmt.Sprintf("Record %d is now %s.", id, current.Status()),
		Records:        []models.Record{current},
		PersistenceErr: persistErr,
	}, nil
}

func (s *recordService) Delete(ctx context.Context, id int) (Outcome, error) {
	removed, ok := s.store.Remove(id)
	if !ok {
		return Outcome{}, notFound(id)
	}
	s.undo.Set(UndoKindDelete, removed)

	persistErr := s.persist(ctx)
	s.trail.LogRecord(ctx, models.AuditActionDelete, removed, fmt.Sprintf("ID %d deleted", id))

	return Outcome{
		Message:        fmt.Sprintf("Record ID %d deleted.", id),
		Records:        []models.Record{removed},
		PersistenceErr: persistErr,
	}, nil
}

func (s *recordService) UndoLast(ctx context.Context) (Outcome, error) {
	kind, snapshot, ok := s.undo.Take()
	if !ok {
		return Outcome{}, fmt.Errorf("no update or delete to revert [%w]", models.ErrNothingToUndo)
	}

	var message string
	switch kind {
	case UndoKindDelete:
		s.store.Append(snapshot)
		message = fmt.Sprintf("Deletion undone. ID %d restored.", snapshot.ID)

	case UndoKindUpdate:
		if !s.store.Replace(snapshot) {
			// The record is gone; keep the snapshot rather than lose it
			s.undo.Set(kind, snapshot)
			return Outcome{Message: NothingToUndoMessage}, nil
		}
		message = fmt.Sprintf("Update undone. ID %d restored.", snapshot.ID)

	default:
		return Outcome{Message: NothingToUndoMessage}, nil
	}

	persistErr := s.persist(ctx)
	s.trail.LogRecord(
		ctx, models.AuditActionUndo, snapshot, fmt.Sprintf("%s of ID %d undone", kind, snapshot.ID),
	)

	return Outcome{
		Message:        message,
		Records:        []models.Record{snapshot},
		PersistenceErr: persistErr,
	}, nil
}

func (s *recordService) Dashboard(_ context.Context) Summary {
	return Summarize(s.store.Records())
}
