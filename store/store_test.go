package store_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alwitt/inovarea/audit"
	"github.com/alwitt/inovarea/models"
	"github.com/alwitt/inovarea/store"
	"github.com/apex/log"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func newTestTrail(t *testing.T) (audit.Trail, *bytes.Buffer) {
	console := &bytes.Buffer{}
	trail, err := audit.NewTrail(audit.TrailParams{Console: console})
	assert.Nil(t, err)
	return trail, console
}

func testDataFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), fmt.Sprintf("data_%s.json", ulid.Make().String()))
}

func TestStoreLoadMissingFile(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	trail, _ := newTestTrail(t)
	uut, err := store.NewJSONFileStore(testDataFile(t), trail)
	assert.Nil(err)

	assert.Nil(uut.Load(context.Background()))
	assert.Equal(0, uut.Len())
	assert.Equal(1, uut.PeekNextID())
}

func TestStoreLoadCorruptFile(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	dataFile := testDataFile(t)
	assert.Nil(os.WriteFile(dataFile, []byte(`[{"id": 1, "name": `), 0o600))

	trail, console := newTestTrail(t)
	uut, err := store.NewJSONFileStore(dataFile, trail)
	assert.Nil(err)

	// Existing state is dropped as well
	uut.Append(models.Record{ID: 5, Name: "Stale"})

	err = uut.Load(context.Background())
	assert.Error(err)
	assert.True(errors.Is(err, models.ErrPersistence))
	assert.Equal(0, uut.Len())
	assert.Equal(1, uut.PeekNextID())
	assert.Contains(console.String(), "| LOAD_ERROR |")

	// Unreadable path, e.g. a directory
	dirStore, err := store.NewJSONFileStore(t.TempDir(), trail)
	assert.Nil(err)
	err = dirStore.Load(context.Background())
	assert.True(errors.Is(err, models.ErrPersistence))
	assert.Equal(1, dirStore.PeekNextID())
}

func TestStoreLoadLegacyFile(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	dataFile := testDataFile(t)
	legacy := `[
  {"id": 2, "nome": "Café", "descricao": "Torra média", "ativo": true, "criado_em": "2024-05-01T10:20:30", "atualizado_em": null},
  {"id": 9, "nome": "Chá", "descricao": "Verde", "ativo": false, "criado_em": "2024-05-02T08:00:00", "atualizado_em": null},
  {"nome": "Sem id", "descricao": "registro sem id"}
]`
	assert.Nil(os.WriteFile(dataFile, []byte(legacy), 0o600))

	trail, _ := newTestTrail(t)
	uut, err := store.NewJSONFileStore(dataFile, trail)
	assert.Nil(err)

	assert.Nil(uut.Load(context.Background()))
	assert.Equal(3, uut.Len())
	assert.Equal(10, uut.PeekNextID())

	records := uut.Records()
	assert.Equal([]int{2, 9, 0}, []int{records[0].ID, records[1].ID, records[2].ID})
	assert.False(records[1].Active)
	assert.True(records[2].Active)
}

func TestStoreSaveRoundTrip(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	dataFile := testDataFile(t)

	trail, console := newTestTrail(t)
	uut, err := store.NewJSONFileStore(dataFile, trail)
	assert.Nil(err)
	assert.Nil(uut.Load(utCtx))

	created := models.NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))
	uut.Append(models.Record{
		ID: uut.NextID(), Name: "Ação <b>", Description: "Descrição & mais", Active: true,
		CreatedAt: created,
	})
	uut.Append(models.Record{
		ID: uut.NextID(), Name: "Beta", Description: "second one", Active: false,
		CreatedAt: created, UpdatedAt: &created,
	})
	assert.Equal(3, uut.PeekNextID())

	assert.Nil(uut.Save(utCtx))
	assert.Contains(console.String(), "| SAVE_DONE |")
	assert.NotContains(console.String(), "SAVE_ERROR")

	content, err := os.ReadFile(dataFile)
	assert.Nil(err)
	// Pretty printed with literal non-ASCII characters
	assert.True(strings.HasPrefix(string(content), "[\n  {\n    \"id\": 1,"))
	assert.Contains(string(content), `"name": "Ação <b>"`)
	assert.Contains(string(content), `"description": "Descrição & mais"`)
	assert.Contains(string(content), `"updatedAt": null`)

	// No temporary files left behind
	entries, err := os.ReadDir(filepath.Dir(dataFile))
	assert.Nil(err)
	assert.Len(entries, 1)

	reloaded, err := store.NewJSONFileStore(dataFile, trail)
	assert.Nil(err)
	assert.Nil(reloaded.Load(utCtx))
	assert.Equal(uut.Records(), reloaded.Records())
	assert.Equal(3, reloaded.PeekNextID())
}

func TestStoreSaveFailure(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	dataFile := filepath.Join(t.TempDir(), "missing-dir", "data.json")

	trail, console := newTestTrail(t)
	uut, err := store.NewJSONFileStore(dataFile, trail)
	assert.Nil(err)

	uut.Append(models.Record{ID: uut.NextID(), Name: "AB", Description: "kept"})
	err = uut.Save(utCtx)
	assert.Error(err)
	assert.True(errors.Is(err, models.ErrPersistence))

	// In-memory state is still authoritative
	assert.Equal(1, uut.Len())

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	assert.Len(lines, 2)
	assert.Contains(lines[0], "| SAVE_ERROR |")
	assert.Contains(lines[1], "| SAVE_DONE |")
}

func TestStoreMutations(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	trail, _ := newTestTrail(t)
	uut, err := store.NewJSONFileStore(testDataFile(t), trail)
	assert.Nil(err)

	for _, name := range []string{"one", "two", "three"} {
		uut.Append(models.Record{ID: uut.NextID(), Name: name, Active: true})
	}

	// Copies do not alias the store
	records := uut.Records()
	records[0].Name = "changed"
	rec, ok := uut.Get(1)
	assert.True(ok)
	assert.Equal("one", rec.Name)

	rec.Name = "uno"
	assert.True(uut.Replace(rec))
	rec, _ = uut.Get(1)
	assert.Equal("uno", rec.Name)
	assert.False(uut.Replace(models.Record{ID: 42}))

	removed, ok := uut.Remove(2)
	assert.True(ok)
	assert.Equal("two", removed.Name)
	_, ok = uut.Remove(2)
	assert.False(ok)
	_, ok = uut.Get(2)
	assert.False(ok)

	// IDs are never reused
	assert.Equal(4, uut.NextID())

	// Re-inserted records go to the end
	uut.Append(removed)
	records = uut.Records()
	assert.Equal([]int{1, 3, 2}, []int{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(5, uut.PeekNextID())

	// Appending a record with a higher ID moves the counter
	uut.Append(models.Record{ID: 20})
	assert.Equal(21, uut.PeekNextID())
}

func TestDataFileLock(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	dataFile := testDataFile(t)

	first, err := store.AcquireLock(dataFile)
	assert.Nil(err)

	_, err = store.AcquireLock(dataFile)
	assert.True(errors.Is(err, store.ErrDataFileLocked))

	assert.Nil(first.Release())

	again, err := store.AcquireLock(dataFile)
	assert.Nil(err)
	assert.Nil(again.Release())
}
