package core

import "errors"

// Common errors.
var (
	ErrReadOnly = errors.New("repository is in read-only mode")

	// ErrNotFound is returned when no note (or no notes file) exists for a lookup.
	ErrNotFound = errors.New("note not found")

	// ErrInvalidNote is returned when a note cannot be accepted into the collection.
	ErrInvalidNote = errors.New("invalid note")

	// ErrMalformed marks a persisted record that cannot be decoded.
	// A single malformed record fails the whole file.
	ErrMalformed = errors.New("malformed note record")

	// ErrAmbiguous is returned when an id prefix matches more than one note.
	ErrAmbiguous = errors.New("ambiguous note id")
)
