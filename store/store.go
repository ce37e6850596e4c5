// Package store - record collection and its JSON file mirror
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alwitt/goutils"
	"github.com/alwitt/inovarea/audit"
	"github.com/alwitt/inovarea/models"
	"github.com/apex/log"
)

// RecordStore authoritative in-memory record collection with a durable JSON mirror
//
// Insertion order is list order. Accessors return copies; mutations go through
// Append / Replace / Remove followed by Save.
type RecordStore interface {
	/*
		Load read the backing file

		A missing file yields an empty store. A file which can not be read or parsed
		also yields an empty store, and the cause is returned wrapping
		models.ErrPersistence.

			@param ctx context.Context - execution context
	*/
	Load(ctx context.Context) error

	/*
		Save overwrite the backing file with the full collection

		A failed write wraps models.ErrPersistence; the in-memory state is unaffected.

			@param ctx context.Context - execution context
	*/
	Save(ctx context.Context) error

	// NextID return the current ID counter value, then increment it
	NextID() int

	// PeekNextID return the current ID counter value
	PeekNextID() int

	// Records copy of all records in insertion order
	Records() []models.Record

	// Len number of records
	Len() int

	// Get fetch a copy of the record with this ID
	Get(id int) (models.Record, bool)

	// Append add a record at the end of the collection
	Append(record models.Record)

	// Replace overwrite the record with the same ID in place
	Replace(record models.Record) bool

	// Remove delete the record with this ID, returning it
	Remove(id int) (models.Record, bool)
}

// jsonFileStore implements RecordStore
type jsonFileStore struct {
	goutils.Component
	path    string
	trail   audit.Trail
	records []models.Record
	nextID  int
}

/*
NewJSONFileStore define a new record store mirrored to a JSON file

The store starts empty; call Load to read the file.

	@param path string - the backing JSON file
	@param trail audit.Trail - audit trail for load and save outcomes
	@returns store instance
*/
func NewJSONFileStore(path string, trail audit.Trail) (RecordStore, error) {
	if path == "" {
		return nil, fmt.Errorf("data file path is required")
	}
	if trail == nil {
		return nil, fmt.Errorf("audit trail is required")
	}

	logTags := log.Fields{
		"package": "inovarea", "module": "store", "component": "json-file-store", "file": path,
	}

	return &jsonFileStore{
		Component: goutils.Component{LogTags: logTags},
		path:      path,
		trail:     trail,
		records:   []models.Record{},
		nextID:    1,
	}, nil
}

func (s *jsonFileStore) reset() {
	s.records = []models.Record{}
	s.nextID = 1
}

func (s *jsonFileStore) Load(ctx context.Context) error {
	logger := log.WithFields(s.LogTags)

	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.reset()
		logger.Debug("No data file, starting empty")
		return nil
	}
	if err != nil {
		s.reset()
		return s.loadFailed(ctx, fmt.Errorf("failed to read %s [%w]", s.path, err))
	}

	var records []models.Record
	if err := json.Unmarshal(content, &records); err != nil {
		s.reset()
		return s.loadFailed(ctx, fmt.Errorf("failed to parse %s [%w]", s.path, err))
	}
	if records == nil {
		records = []models.Record{}
	}

	maxID := 0
	for _, rec := range records {
		if rec.ID > maxID {
			maxID = rec.ID
		}
	}

	s.records = records
	s.nextID = maxID + 1

	logger.WithField("records", len(records)).Debug("Loaded data file")
	s.trail.Log(ctx, models.AuditActionLoad, fmt.Sprintf("%d records loaded", len(records)))
	return nil
}

func (s *jsonFileStore) loadFailed(ctx context.Context, cause error) error {
	log.WithFields(s.LogTags).WithError(cause).Warn("Data file unusable, starting empty")
	s.trail.Log(ctx, models.AuditActionLoadError, cause.Error())
	return fmt.Errorf("%w: %w", models.ErrPersistence, cause)
}

func (s *jsonFileStore) Save(ctx context.Context) error {
	err := s.writeFile()
	if err != nil {
		log.WithFields(s.LogTags).WithError(err).Error("Failed to save data file")
		s.trail.Log(ctx, models.AuditActionSaveError, err.Error())
		err = fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	s.trail.Log(ctx, models.AuditActionSaveDone, "Save action completed")
	return err
}

// writeFile replace the data file through a temporary file in the same directory
func (s *jsonFileStore) writeFile() error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.records); err != nil {
		return fmt.Errorf("failed to encode records [%w]", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s [%w]", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s [%w]", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s [%w]", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close %s [%w]", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s [%w]", s.path, err)
	}
	return nil
}

func (s *jsonFileStore) NextID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *jsonFileStore) PeekNextID() int {
	return s.nextID
}

func (s *jsonFileStore) Records() []models.Record {
	result := make([]models.Record, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, rec.Clone())
	}
	return result
}

func (s *jsonFileStore) Len() int {
	return len(s.records)
}

func (s *jsonFileStore) indexOf(id int) int {
	for idx, rec := range s.records {
		if rec.ID == id {
			return idx
		}
	}
	return -1
}

func (s *jsonFileStore) Get(id int) (models.Record, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Record{}, false
	}
	return s.records[idx].Clone(), true
}

func (s *jsonFileStore) Append(record models.Record) {
	s.records = append(s.records, record.Clone())
	if record.ID >= s.nextID {
		s.nextID = record.ID + 1
	}
}

func (s *jsonFileStore) Replace(record models.Record) bool {
	idx := s.indexOf(record.ID)
	if idx < 0 {
		return false
	}
	s.records[idx] = record.Clone()
	return true
}

func (s *jsonFileStore) Remove(id int) (models.Record, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Record{}, false
	}
	removed := s.records[idx]
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	return removed, true
}
