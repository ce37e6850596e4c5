// Package inovarea - console record management with a JSON file store and audit trail
package inovarea

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alwitt/inovarea/audit"
	"github.com/alwitt/inovarea/config"
	"github.com/alwitt/inovarea/db"
	"github.com/alwitt/inovarea/service"
	"github.com/alwitt/inovarea/store"
	"github.com/apex/log"
	"github.com/google/uuid"
)

// Session everything one process needs to operate on a data file
type Session struct {
	// ID session ID stamped on journal entries
	ID string
	// Records the record service
	Records service.RecordService
	// Journal the audit journal, nil when disabled
	Journal db.Client
	// LoadErr set when the data file existed but could not be loaded; the session
	// started empty
	LoadErr error

	trail audit.Trail
	lock  *store.DataFileLock
}

/*
NewSession prepare a session over the configured data file

	@param ctx context.Context - execution context
	@param cfg config.Config - application configuration
	@param console io.Writer - receives echoed audit lines when enabled
	@returns new session
*/
func NewSession(ctx context.Context, cfg config.Config, console io.Writer) (*Session, error) {
	session := &Session{ID: uuid.NewString()}
	logger := log.WithField("session", session.ID)

	if cfg.Lock {
		lock, err := store.AcquireLock(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to claim data file [%w]", err)
		}
		session.lock = lock
	}

	// Prepare the audit journal
	if cfg.Journal.Enabled {
		sqlLogLevel, err := db.ParseSQLLogLevel(cfg.Journal.SQLLogLevel)
		if err != nil {
			_ = session.Close()
			return nil, err
		}
		journal, err := db.NewConnection(db.GetSqliteDialector(cfg.Journal.DBFile), sqlLogLevel)
		if err != nil {
			_ = session.Close()
			return nil, fmt.Errorf("failed to open audit journal [%w]", err)
		}
		session.Journal = journal
		if err := journal.RunSQLInTransaction(ctx, db.DefineTables); err != nil {
			_ = session.Close()
			return nil, fmt.Errorf("failed to prepare audit journal tables [%w]", err)
		}
	}

	// Prepare the audit trail
	trailParams := audit.TrailParams{
		ConsolePrefix: audit.DefaultConsolePrefix,
		File: audit.NewRotatingFile(audit.FileConfig{
			Path:       cfg.Log.AuditFile,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}),
		Journal:   session.Journal,
		SessionID: session.ID,
	}
	if cfg.Log.Console {
		trailParams.Console = console
	}
	trail, err := audit.NewTrail(trailParams)
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to prepare audit trail [%w]", err)
	}
	session.trail = trail

	// Prepare the record store
	recordStore, err := store.NewJSONFileStore(cfg.DataFile, trail)
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to prepare record store [%w]", err)
	}
	if err := recordStore.Load(ctx); err != nil {
		logger.WithError(err).Warn("Starting with an empty record collection")
		session.LoadErr = err
	}

	session.Records, err = service.NewRecordService(service.RecordServiceParams{
		Store: recordStore, Trail: trail,
	})
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to prepare record service [%w]", err)
	}

	logger.WithField("data_file", cfg.DataFile).Debug("Session ready")
	return session, nil
}

// Close release the audit log file, the journal, and the data file lock
func (s *Session) Close() error {
	var errs []error
	if s.trail != nil {
		errs = append(errs, s.trail.Close())
	}
	if s.Journal != nil {
		errs = append(errs, s.Journal.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Release())
	}
	return errors.Join(errs...)
}
