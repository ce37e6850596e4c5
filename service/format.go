package service

import (
	"fmt"
	"strings"

	"github.com/alwitt/inovarea/models"
)

const (
	// NoRecordsMessage outcome text when a listing or search is empty
	NoRecordsMessage = "No records found."

	listingHeader = "=== RECORD LIST ==="
	searchHeader  = "=== SEARCH RESULTS ==="
)

// FormatRecord render one listing line
func FormatRecord(rec models.Record) string {
	return fmt.Sprintf("ID: %d | %s | %s | %s", rec.ID, rec.Name, rec.Status(), rec.Description)
}

func formatListing(header string, records []models.Record) string {
	if len(records) == 0 {
		return NoRecordsMessage
	}
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, header)
	for _, rec := range records {
		lines = append(lines, FormatRecord(rec))
	}
	return strings.Join(lines, "\n")
}
