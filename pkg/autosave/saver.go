// Package autosave persists the note collection a short while after the last
// change, so bursts of edits (a drag, a typing session) produce one write.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/introspection"
)

// DefaultDelay is the quiet period after the last change before a save.
const DefaultDelay = 500 * time.Millisecond

// Store is what the saver persists. *core.Service satisfies it; Save is
// expected to take its own snapshot of the collection.
type Store interface {
	Save(ctx context.Context) error
}

// Saver debounces saves of a Store. Failures are logged and counted; the
// in-memory collection is never rolled back.
type Saver struct {
	store  Store
	delay  time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	pending  bool
	closed   bool
	saves    int
	failures int
	lastErr  error
	lastSave *time.Time

	// saveMu keeps at most one save in flight.
	saveMu sync.Mutex
}

// New creates a Saver. A non-positive delay uses DefaultDelay.
func New(store Store, delay time.Duration, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{store: store, delay: delay, logger: logger}
}

// Trigger schedules a save delay from now, replacing any scheduled one.
// It is a no-op after Close.
func (s *Saver) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.fire)
		return
	}
	s.timer.Reset(s.delay)
}

func (s *Saver) fire() {
	_ = s.run(context.Background())
}

// Flush saves immediately if a save is pending and returns its error.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.run(ctx)
}

// Close flushes pending work and stops accepting triggers.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

func (s *Saver) run(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	s.mu.Unlock()

	err := s.store.Save(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Still dirty: the next trigger, Flush or Close retries.
		s.pending = true
		s.failures++
		s.lastErr = err
		s.logger.Error("failed to save notes", "error", err)
		return err
	}
	now := time.Now()
	s.saves++
	s.lastErr = nil
	s.lastSave = &now
	return nil
}

// SaverState exposes internal state for observability.
type SaverState struct {
	Delay     time.Duration `json:"delay"`
	Pending   bool          `json:"pending"`
	Saves     int           `json:"saves"`
	Failures  int           `json:"failures"`
	LastError string        `json:"last_error,omitempty"`
	LastSave  *time.Time    `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Saver) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SaverState{
		Delay:    s.delay,
		Pending:  s.pending,
		Saves:    s.saves,
		Failures: s.failures,
		LastSave: s.lastSave,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Saver) ComponentType() string {
	return "autosave"
}

var _ introspection.Introspectable = (*Saver)(nil)
var _ introspection.Component = (*Saver)(nil)
