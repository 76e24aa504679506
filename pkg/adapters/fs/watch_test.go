package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/spatialnotes/pkg/core"
)

func waitForEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()

	select {
	case e, ok := <-events:
		if !ok {
			t.Fatal("events channel closed")
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return core.Event{}
	}
}

func expectNoEvent(t *testing.T, events <-chan core.Event, wait time.Duration) {
	t.Helper()

	select {
	case e := <-events:
		t.Fatalf("unexpected event: %s", e)
	case <-time.After(wait):
	}
}

func TestWatch_ExternalChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := NewRepository(Config{Path: t.TempDir()})
	if err := repo.Initialize(ctx); err != nil {
		t.Fatal(err)
	}

	events, err := repo.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	waitForWatcher(t, repo, true)

	// Own writes are not reported.
	if err := repo.Save(ctx, []core.Note{core.NewNote("mine")}); err != nil {
		t.Fatal(err)
	}
	expectNoEvent(t, events, 300*time.Millisecond)

	// Files outside the pattern are not reported.
	if err := os.WriteFile(filepath.Join(repo.Path, "other.json"), []byte("[]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	expectNoEvent(t, events, 300*time.Millisecond)

	// Another process rewrites the notes file.
	data, err := core.EncodeNotes([]core.Note{core.NewNote("theirs")})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(repo.FilePath(), data, 0644); err != nil {
		t.Fatal(err)
	}
	e := waitForEvent(t, events)
	if e.Type != core.EventModify && e.Type != core.EventCreate {
		t.Errorf("expected a modify or create event, got %s", e.Type)
	}
	if e.Path != repo.FilePath() {
		t.Errorf("expected path %s, got %s", repo.FilePath(), e.Path)
	}

	// Removal is reported as a delete.
	if err := os.Remove(repo.FilePath()); err != nil {
		t.Fatal(err)
	}
	if e := waitForEvent(t, events); e.Type != core.EventDelete {
		t.Errorf("expected DELETE, got %s", e.Type)
	}

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel was not closed after cancel")
		}
	}
}

func TestDebouncer_CoalescesPerPath(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	got := make(chan core.Event, 10)
	send := func(e core.Event) { got <- e }

	d.add(core.Event{Type: core.EventCreate, Path: "a"}, send)
	d.add(core.Event{Type: core.EventModify, Path: "a"}, send)
	d.add(core.Event{Type: core.EventModify, Path: "b"}, send)

	time.Sleep(100 * time.Millisecond)
	if !d.stopAndWait(time.Second) {
		t.Fatal("debouncer did not drain")
	}
	close(got)

	seen := map[string]core.EventType{}
	for e := range got {
		if _, dup := seen[e.Path]; dup {
			t.Errorf("path %s delivered twice", e.Path)
		}
		seen[e.Path] = e.Type
	}
	if seen["a"] != core.EventModify || seen["b"] != core.EventModify {
		t.Errorf("unexpected delivery: %v", seen)
	}

	d.add(core.Event{Path: "c"}, send) // ignored after stop; would panic on the closed channel otherwise
}
