package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alwitt/inovarea/audit"
	"github.com/alwitt/inovarea/service"
	"github.com/alwitt/inovarea/store"
	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) service.RecordService {
	t.Helper()
	trail, err := audit.NewTrail(audit.TrailParams{})
	assert.Nil(t, err)
	recordStore, err := store.NewJSONFileStore(filepath.Join(t.TempDir(), "data.json"), trail)
	assert.Nil(t, err)
	assert.Nil(t, recordStore.Load(context.Background()))
	uut, err := service.NewRecordService(service.RecordServiceParams{Store: recordStore, Trail: trail})
	assert.Nil(t, err)
	return uut
}

func runScript(t *testing.T, records service.RecordService, lines ...string) string {
	t.Helper()
	out := &bytes.Buffer{}
	uut := newShell(records, strings.NewReader(strings.Join(lines, "\n")+"\n"), out, false)
	assert.Nil(t, uut.run(context.Background()))
	return out.String()
}

func TestShellCRUDSession(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	records := newTestService(t)
	output := runScript(
		t, records,
		"1",
		"1", "Food bank", "Weekly food collection",
		"1", "Library", "Neighbourhood book exchange",
		"6", "1", "i",
		"2",
		"7", "2",
		"8",
		"8",
		"0",
		"0",
	)

	assert.Contains(output, "=== MAIN MENU ===")
	assert.Contains(output, "Record 'Food bank' created successfully!")
	assert.Contains(output, "Record 1 is now inactive.")
	assert.Contains(output, "ID: 2 | Library | active | Neighbourhood book exchange")
	assert.NotContains(output, "ID: 1 | Food bank | active")
	assert.Contains(output, "Record ID 2 deleted.")
	assert.Contains(output, "Deletion undone. ID 2 restored.")
	assert.Contains(output, service.NothingToUndoMessage)
	assert.True(strings.HasSuffix(strings.TrimSpace(output), exitMessage))

	listing, err := records.List(context.Background(), true)
	assert.Nil(err)
	assert.Len(listing.Records, 2)
	assert.False(listing.Records[0].Active)
}

func TestShellRejectsBadInput(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	records := newTestService(t)
	output := runScript(
		t, records,
		"9",
		"1",
		"5", "abc",
		"7", "1.5",
		"1", "x", "valid description",
		"0",
		"0",
	)

	assert.Equal(2, strings.Count(output, invalidIDMessage))
	assert.Contains(output, invalidOptionMessage)
	assert.Contains(output, "Error: invalid name")

	listing, err := records.List(context.Background(), true)
	assert.Nil(err)
	assert.Empty(listing.Records)
}

func TestShellReportsMenu(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	records := newTestService(t)
	_, err := records.Create(context.Background(), "Food bank", "Weekly food collection")
	assert.Nil(err)
	_, err = records.Create(context.Background(), "Library", "Neighbourhood book exchange")
	assert.Nil(err)

	output := runScript(t, records, "2", "3", "BOOK", "3", "nothing here", "0", "0")

	assert.Contains(output, "=== REPORTS ===")
	assert.Contains(output, "=== SEARCH RESULTS ===\nID: 2 | Library | active")
	assert.Contains(output, service.NoRecordsMessage)
	assert.Contains(output, "Total: 2 | Active: 2 | Inactive: 0")
}

func TestShellEndOfInput(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	records := newTestService(t)
	out := &bytes.Buffer{}
	uut := newShell(records, strings.NewReader("1\n1\nHalf"), out, true)
	assert.Nil(uut.run(context.Background()))

	listing, err := records.List(context.Background(), true)
	assert.Nil(err)
	assert.Empty(listing.Records)
	assert.NotContains(out.String(), invalidOptionMessage)
}
