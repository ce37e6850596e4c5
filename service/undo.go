package service

import "github.com/alwitt/inovarea/models"

// UndoKindENUMType kind of reversible action
type UndoKindENUMType string

const (
	// UndoKindUpdate the last reversible action was an update
	UndoKindUpdate UndoKindENUMType = "update"
	// UndoKindDelete the last reversible action was a delete
	UndoKindDelete UndoKindENUMType = "delete"
)

// UndoBuffer single slot holding the snapshot of the last update or delete
type UndoBuffer struct {
	pending  bool
	kind     UndoKindENUMType
	snapshot models.Record
}

// Set overwrite the slot
func (b *UndoBuffer) Set(kind UndoKindENUMType, snapshot models.Record) {
	b.pending = true
	b.kind = kind
	b.snapshot = snapshot.Clone()
}

// Take return and clear the slot; ok is false when the slot was empty
func (b *UndoBuffer) Take() (kind UndoKindENUMType, snapshot models.Record, ok bool) {
	if !b.pending {
		return "", models.Record{}, false
	}
	kind, snapshot = b.kind, b.snapshot
	*b = UndoBuffer{}
	return kind, snapshot, true
}

// Pending whether the slot holds a snapshot
func (b *UndoBuffer) Pending() bool {
	return b.pending
}
