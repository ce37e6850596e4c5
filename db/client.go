package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
GetSqliteDialector define Sqlite GORM dialector

	@param dbFile string - Sqlite DB file
	@return GORM sqlite dialector
*/
func GetSqliteDialector(dbFile string) gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("%s?_foreign_keys=on", dbFile))
}

/*
ParseSQLLogLevel convert a SQL log level name into a GORM log level

	@param level string - one of "silent", "error", "warn", "info"
	@return the GORM log level
*/
func ParseSQLLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent, nil
	case "", "error":
		return logger.Error, nil
	case "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return logger.Silent, fmt.Errorf("unknown SQL log level '%s'", level)
}

// Client manages connections and transactions with the journal DB
type Client interface {
	/*
		RunSQLInTransaction execute SQL calls within a transaction

			@param ctx context.Context - execution context
			@param coreLogic func(ctx context.Context, tx *gorm.DB) error - the callback to execute
	*/
	RunSQLInTransaction(
		ctx context.Context, coreLogic func(ctx context.Context, tx *gorm.DB) error,
	) error

	/*
		UseDatabase utilize a `Database` instance

			@param ctx context.Context - execution context
			@param coreLogic func(ctx context.Context, dbClient Database) error - the callback to execute
	*/
	UseDatabase(
		ctx context.Context, coreLogic func(ctx context.Context, dbClient Database) error,
	) error

	/*
		UseDatabaseInTransaction utilize a `Database` instance in a transaction

			@param ctx context.Context - execution context
			@param coreLogic func(ctx context.Context, dbClient Database) error - the callback to execute
	*/
	UseDatabaseInTransaction(
		ctx context.Context, coreLogic func(ctx context.Context, dbClient Database) error,
	) error

	// Close release the underlying connection pool
	Close() error
}

// clientImpl implements Client
type clientImpl struct {
	goutils.Component
	db *gorm.DB
}

/*
NewConnection define a new SQL client

	@param dbDialector gorm.Dialector - GORM dialector
	@param dbLogLevel logger.LogLevel - SQL log level
	@return new client
*/
func NewConnection(dbDialector gorm.Dialector, dbLogLevel logger.LogLevel) (Client, error) {
	logTags := log.Fields{"package": "inovarea", "module": "db", "component": "sql-client"}

	db, err := gorm.Open(dbDialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(dbLogLevel),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect with DB [%w]", err)
	}

	instance := &clientImpl{
		Component: goutils.Component{LogTags: logTags},
		db:        db,
	}

	return instance, nil
}

/*
RunSQLInTransaction execute SQL calls within a transaction

	@param ctx context.Context - execution context
	@param coreLogic func(ctx context.Context, tx *gorm.DB) error - the callback to execute
*/
func (c *clientImpl) RunSQLInTransaction(
	ctx context.Context, coreLogic func(ctx context.Context, tx *gorm.DB) error,
) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return coreLogic(ctx, tx)
	})
}

/*
UseDatabase utilize a `Database` instance

	@param ctx context.Context - execution context
	@param coreLogic func(ctx context.Context, dbClient Database) error - the callback to execute
*/
func (c *clientImpl) UseDatabase(
	ctx context.Context, coreLogic func(ctx context.Context, dbClient Database) error,
) error {
	dbClient, err := newDatabase(ctx, c.db.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to define `Database` instance: [%w]", err)
	}
	return coreLogic(ctx, dbClient)
}

/*
UseDatabaseInTransaction utilize a `Database` instance in a transaction

	@param ctx context.Context - execution context
	@param coreLogic func(ctx context.Context, dbClient Database) error - the callback to execute
*/
func (c *clientImpl) UseDatabaseInTransaction(
	ctx context.Context, coreLogic func(ctx context.Context, dbClient Database) error,
) error {
	return c.RunSQLInTransaction(ctx, func(ctx context.Context, tx *gorm.DB) error {
		dbClient, err := newDatabase(ctx, tx)
		if err != nil {
			return fmt.Errorf("failed to define `Database` instance: [%w]", err)
		}
		return coreLogic(ctx, dbClient)
	})
}

// Close release the underlying connection pool
func (c *clientImpl) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access SQL connection pool [%w]", err)
	}
	log.WithFields(c.LogTags).Debug("Closing journal connection")
	return sqlDB.Close()
}
