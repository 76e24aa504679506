package core

import "context"

// Repository defines the contract for persisting the note collection.
// The collection is stored as a whole; adapters decide the medium
// (a JSON file by default).
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g. create directories).
	Initialize(ctx context.Context) error

	// Load returns every persisted note in stored order.
	// It returns ErrNotFound when nothing has been persisted yet.
	Load(ctx context.Context) ([]Note, error)

	// Save replaces the persisted collection with notes.
	Save(ctx context.Context, notes []Note) error
}

// Watchable is implemented by repositories that can report changes made to the
// persisted collection by other processes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
