package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// Service owns the in-memory note collection and its load/save round trip.
// Notes keep insertion order. All methods are safe for concurrent use so that
// the debounced saver can take snapshots while the tick loop reads.
type Service struct {
	repo   Repository
	logger *slog.Logger

	mu       sync.RWMutex
	notes    []Note
	index    map[uuid.UUID]int
	onChange func()
}

// NewService creates a Service backed by repo. A nil logger uses slog.Default().
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		index:  make(map[uuid.UUID]int),
	}
}

// OnChange registers fn to run after every mutation (add, update, delete).
// Replace and Load do not trigger it.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Load replaces the collection with the persisted one. A missing file starts an
// empty collection. Any other failure, including a single malformed record, also
// leaves the collection empty and is returned for the caller to log.
func (s *Service) Load(ctx context.Context) error {
	notes, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		s.logger.Info("no existing notes file, starting with empty store")
		s.Replace(nil)
		return nil
	case err != nil:
		s.logger.Warn("error loading notes, starting with empty store", "error", err)
		s.Replace(nil)
		return fmt.Errorf("failed to load notes: %w", err)
	}

	s.Replace(notes)
	s.logger.Info("loaded notes", "count", len(notes))
	return nil
}

// Save writes a snapshot of the collection to the repository.
func (s *Service) Save(ctx context.Context) error {
	snapshot := s.ListNotes()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	s.logger.Debug("saved notes", "count", len(snapshot))
	return nil
}

// Watch observes external changes of the persisted collection if the repository
// supports it.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, fmt.Errorf("repository does not support watching")
	}
	return w.Watch(ctx)
}

// Replace swaps the whole collection without notifying OnChange.
// Later duplicates of an id are dropped.
func (s *Service) Replace(notes []Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = make([]Note, 0, len(notes))
	s.index = make(map[uuid.UUID]int, len(notes))
	for _, n := range notes {
		if _, dup := s.index[n.ID]; dup {
			s.logger.Warn("dropping duplicate note id", "id", ShortID(n.ID))
			continue
		}
		s.index[n.ID] = len(s.notes)
		s.notes = append(s.notes, n)
	}
}

// AddNote appends n to the collection.
func (s *Service) AddNote(n Note) error {
	if n.ID == uuid.Nil {
		return fmt.Errorf("%w: note has no ID", ErrInvalidNote)
	}
	n.Category = n.Category.orNone()
	n.Size = n.Size.orMedium()
	n.Orientation = n.Orientation.Normalize()

	s.mu.Lock()
	if _, exists := s.index[n.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: duplicate ID %s", ErrInvalidNote, n.ID)
	}
	s.index[n.ID] = len(s.notes)
	s.notes = append(s.notes, n)
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Debug("added note", "id", ShortID(n.ID))
	notify(fn)
	return nil
}

// UpdateNote replaces the stored note with the same ID and touches it.
// Unknown IDs are logged and reported as ErrNotFound; the collection is unchanged.
func (s *Service) UpdateNote(n Note) error {
	s.mu.Lock()
	i, ok := s.index[n.ID]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("attempted to update non-existent note", "id", ShortID(n.ID))
		return fmt.Errorf("%w: %s", ErrNotFound, n.ID)
	}
	n.Category = n.Category.orNone()
	n.Size = n.Size.orMedium()
	n.Orientation = n.Orientation.Normalize()
	n.CreatedAt = s.notes[i].CreatedAt
	n.Touch()
	s.notes[i] = n
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
	return nil
}

// UpdatePosition moves the stored note with id to pos and touches it, leaving
// every other field as stored. It returns the updated note.
func (s *Service) UpdatePosition(id uuid.UUID, pos spatial.Vec3) (Note, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("attempted to move non-existent note", "id", ShortID(id))
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	n := s.notes[i]
	n.Position = pos
	n.Touch()
	s.notes[i] = n
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
	return n, nil
}

// DeleteNote removes the note with id.
func (s *Service) DeleteNote(id uuid.UUID) error {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	delete(s.index, id)
	for j := i; j < len(s.notes); j++ {
		s.index[s.notes[j].ID] = j
	}
	fn := s.onChange
	s.mu.Unlock()

	s.logger.Debug("deleted note", "id", ShortID(id))
	notify(fn)
	return nil
}

// GetNote looks a note up by id.
func (s *Service) GetNote(id uuid.UUID) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Note{}, false
	}
	return s.notes[i], true
}

// ListNotes returns a copy of the collection in stored order.
func (s *Service) ListNotes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Len returns the number of notes.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// NotesIn returns the notes of category c.
func (s *Service) NotesIn(c Category) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Note
	for _, n := range s.notes {
		if n.Category == c {
			out = append(out, n)
		}
	}
	return out
}

// Search returns notes whose content contains query, ignoring case.
// An empty query matches everything.
func (s *Service) Search(query string) []Note {
	if query == "" {
		return s.ListNotes()
	}
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Note
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

// Categories returns the categories in use, in display order.
func (s *Service) Categories() []Category {
	s.mu.RLock()
	used := make(map[Category]bool)
	for _, n := range s.notes {
		used[n.Category] = true
	}
	s.mu.RUnlock()

	var out []Category
	for _, c := range AllCategories {
		if used[c] {
			out = append(out, c)
		}
	}
	return out
}

// Resolve finds the note whose ID starts with prefix. A full ID also works.
func (s *Service) Resolve(prefix string) (Note, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return Note{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var found []Note
	for _, n := range s.notes {
		if strings.HasPrefix(n.ID.String(), prefix) {
			found = append(found, n)
		}
	}
	switch len(found) {
	case 0:
		return Note{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return Note{}, fmt.Errorf("%w: %q matches %d notes", ErrAmbiguous, prefix, len(found))
	}
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
