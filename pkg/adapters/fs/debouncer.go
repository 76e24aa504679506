package fs

import (
	"sync"
	"time"

	"github.com/aretw0/spatialnotes/pkg/core"
)

// debouncer delays events per path; a newer event for the same path replaces
// the pending one and restarts its timer.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(event core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.pending[event.Path]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[event.Path] == t {
			delete(d.pending, event.Path)
		}
		d.mu.Unlock()
		fn(event)
	})
	d.pending[event.Path] = t
}

// stopAndWait drops events that have not fired yet and waits up to timeout for
// running callbacks. It reports whether they all finished.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for path, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, path)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
