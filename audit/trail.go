// Package audit - human readable audit trail of record operations
package audit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/alwitt/goutils"
	"github.com/alwitt/inovarea/db"
	"github.com/alwitt/inovarea/models"
	"github.com/apex/log"
)

// LineTimestampLayout timestamp format of an audit trail line
const LineTimestampLayout = "2006-01-02 15:04:05"

// DefaultConsolePrefix prefix of audit lines echoed to the console
const DefaultConsolePrefix = "[LOG] "

// Trail append-only audit trail
//
// Writing the trail never fails from the caller's point of view; sink errors are
// reported through the operational logger and otherwise ignored.
type Trail interface {
	/*
		Log record one action

			@param ctx context.Context - execution context
			@param action models.AuditActionENUMType - the action
			@param detail string - free text detail
	*/
	Log(ctx context.Context, action models.AuditActionENUMType, detail string)

	/*
		LogRecord record one action relating to a data record

			@param ctx context.Context - execution context
			@param action models.AuditActionENUMType - the action
			@param record models.Record - the affected record
			@param detail string - free text detail
	*/
	LogRecord(
		ctx context.Context, action models.AuditActionENUMType, record models.Record, detail string,
	)

	// Close flush and release the file sink
	Close() error
}

// TrailParams audit trail setup parameters
type TrailParams struct {
	// Console receives each line with ConsolePrefix prepended. Optional.
	Console io.Writer
	// ConsolePrefix prefix for console lines
	ConsolePrefix string
	// File durable append-only sink. Optional.
	File io.WriteCloser
	// Journal optional SQL journal mirror
	Journal db.Client
	// SessionID process session ID stamped on journal entries
	SessionID string
	// Now clock; defaults to time.Now
	Now func() time.Time
}

// lineTrail implements Trail
type lineTrail struct {
	goutils.Component
	params TrailParams
	lock   sync.Mutex
}

/*
NewTrail define a new audit trail

	@param params TrailParams - trail sinks
	@returns the trail
*/
func NewTrail(params TrailParams) (Trail, error) {
	logTags := log.Fields{"package": "inovarea", "module": "audit", "component": "trail"}

	if params.Journal != nil && params.SessionID == "" {
		return nil, fmt.Errorf("journal mirror requires a session ID")
	}
	if params.Now == nil {
		params.Now = time.Now
	}

	return &lineTrail{
		Component: goutils.Component{LogTags: logTags},
		params:    params,
	}, nil
}

// FormatLine render one audit trail line
func FormatLine(ts time.Time, action models.AuditActionENUMType, detail string) string {
	return fmt.Sprintf("%s | %s | %s", ts.Format(LineTimestampLayout), action, detail)
}

func (t *lineTrail) Log(ctx context.Context, action models.AuditActionENUMType, detail string) {
	t.write(ctx, action, detail, nil)
}

func (t *lineTrail) LogRecord(
	ctx context.Context, action models.AuditActionENUMType, record models.Record, detail string,
) {
	t.write(ctx, action, detail, models.AuditEventRecordRelated{
		RecordID: record.ID, RecordName: record.Name,
	})
}

func (t *lineTrail) write(
	ctx context.Context, action models.AuditActionENUMType, detail string, metadata interface{},
) {
	t.lock.Lock()
	defer t.lock.Unlock()

	// Keep one entry per line
	detail = strings.ReplaceAll(detail, "\n", " ")
	line := FormatLine(t.params.Now(), action, detail)
	logger := log.WithFields(t.LogTags).WithField("action", action)

	if t.params.Console != nil {
		if _, err := fmt.Fprintf(t.params.Console, "%s%s\n", t.params.ConsolePrefix, line); err != nil {
			logger.WithError(err).Warn("Failed to echo audit line to console")
		}
	}

	if t.params.File != nil {
		if _, err := io.WriteString(t.params.File, line+"\n"); err != nil {
			logger.WithError(err).Warn("Failed to append audit line to log file")
		}
	}

	if t.params.Journal != nil {
		if err := t.params.Journal.UseDatabase(
			ctx, func(dbCtx context.Context, dbClient db.Database) error {
				_, err := dbClient.RecordAuditEvent(dbCtx, t.params.SessionID, action, detail, metadata)
				return err
			},
		); err != nil {
			logger.WithError(err).Warn("Failed to journal audit event")
		}
	}
}

func (t *lineTrail) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.params.File == nil {
		return nil
	}
	if err := t.params.File.Close(); err != nil {
		return fmt.Errorf("failed to close audit log file [%w]", err)
	}
	return nil
}
