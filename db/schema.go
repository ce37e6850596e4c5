package db

import (
	"context"

	"gorm.io/gorm"
)

// DefineTables prepare a database with the journal tables
func DefineTables(_ context.Context, db *gorm.DB) error {
	return db.AutoMigrate(
		AuditEventDBEntry{},
	)
}
