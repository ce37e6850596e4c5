package service

import (
	"fmt"
	"strings"

	"github.com/alwitt/inovarea/models"
)

// Summary dashboard statistics over the record collection
type Summary struct {
	Total         int
	ActiveCount   int
	InactiveCount int
	// MostRecentlyCreated nil when the collection is empty
	MostRecentlyCreated *models.Record
}

// Summarize compute the dashboard statistics
//
// The most recent record is the one with the greatest creation timestamp string; the
// first such record wins ties.
func Summarize(records []models.Record) Summary {
	summary := Summary{Total: len(records)}
	latest := ""
	for idx, rec := range records {
		if rec.Active {
			summary.ActiveCount++
		} else {
			summary.InactiveCount++
		}
		created := rec.CreatedAt.String()
		if summary.MostRecentlyCreated == nil || created > latest {
			picked := records[idx].Clone()
			summary.MostRecentlyCreated = &picked
			latest = created
		}
	}
	return summary
}

// String render the dashboard block
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("=== DASHBOARD ===\n")
	fmt.Fprintf(
		&b, "Total: %d | Active: %d | Inactive: %d\n", s.Total, s.ActiveCount, s.InactiveCount,
	)
	if s.MostRecentlyCreated != nil {
		fmt.Fprintf(
			&b, "Most recently created: %s (ID %d)\n",
			s.MostRecentlyCreated.Name, s.MostRecentlyCreated.ID,
		)
	}
	b.WriteString(strings.Repeat("=", 40))
	return b.String()
}
