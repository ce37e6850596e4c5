package service_test

import (
	"testing"
	"time"

	"github.com/alwitt/inovarea/models"
	"github.com/alwitt/inovarea/service"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	assert := assert.New(t)

	at := func(day int) models.Timestamp {
		return models.NewTimestamp(time.Date(2025, 2, day, 12, 0, 0, 0, time.Local))
	}

	records := []models.Record{
		{ID: 1, Name: "Old", Active: true, CreatedAt: at(1)},
		{ID: 2, Name: "Newest", Active: false, CreatedAt: at(9)},
		{ID: 3, Name: "Tie", Active: true, CreatedAt: at(9)},
		{ID: 4, Name: "Middle", Active: true, CreatedAt: at(5)},
	}

	summary := service.Summarize(records)
	assert.Equal(4, summary.Total)
	assert.Equal(3, summary.ActiveCount)
	assert.Equal(1, summary.InactiveCount)
	// First of the equally recent records wins
	assert.Equal(2, summary.MostRecentlyCreated.ID)

	empty := service.Summarize(nil)
	assert.Equal(0, empty.Total)
	assert.Nil(empty.MostRecentlyCreated)
	assert.NotContains(empty.String(), "Most recently created")
}

func TestUndoBuffer(t *testing.T) {
	assert := assert.New(t)

	var uut service.UndoBuffer
	assert.False(uut.Pending())
	_, _, ok := uut.Take()
	assert.False(ok)

	uut.Set(service.UndoKindUpdate, models.Record{ID: 1, Name: "first"})
	uut.Set(service.UndoKindDelete, models.Record{ID: 2, Name: "second"})
	assert.True(uut.Pending())

	kind, snapshot, ok := uut.Take()
	assert.True(ok)
	assert.Equal(service.UndoKindDelete, kind)
	assert.Equal(2, snapshot.ID)

	assert.False(uut.Pending())
	_, _, ok = uut.Take()
	assert.False(ok)
}
