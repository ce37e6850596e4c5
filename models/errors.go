package models

import "errors"

var (
	// ErrValidation a record field is out of bounds or empty
	ErrValidation = errors.New("validation failed")

	// ErrNotFound no record has the requested ID
	ErrNotFound = errors.New("record not found")

	// ErrNothingToUndo the undo buffer is empty
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrPersistence the data file could not be read or written
	//
	// The in-memory state remains authoritative when this is reported.
	ErrPersistence = errors.New("persistence failure")
)
