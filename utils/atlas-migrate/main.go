// Package main - Atlas GORM migration support binary for the audit journal
package main

import (
	"fmt"

	"ariga.io/atlas-provider-gorm/gormschema"
	"github.com/alwitt/inovarea/db"
	"github.com/apex/log"
)

func main() {
	stmts, err := gormschema.New("sqlite").Load(&db.AuditEventDBEntry{})
	if err != nil {
		log.WithError(err).Fatal("Failed to load GORM models")
	}
	fmt.Printf("%s\n", stmts)
}
