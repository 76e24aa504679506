package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
)

// ErrStopped is returned by Loop.Do once the loop has exited.
var ErrStopped = errors.New("reconcile loop stopped")

// DefaultTickInterval matches a 90 Hz display.
const DefaultTickInterval = time.Second / 90

// Loop confines a Reconciler to one goroutine. Ticks fire on a fixed interval and
// interaction callbacks submitted through Do run between ticks, never during one.
// Cancelling the context passed to Start tears the scene down.
type Loop struct {
	rec      *Reconciler
	interval time.Duration
	logger   *slog.Logger
	onTick   func(Report)

	cmds chan func(*Reconciler)
	done chan struct{}

	startOnce sync.Once
}

// NewLoop creates a loop ticking rec every interval (DefaultTickInterval if zero).
// onTick, when non-nil, receives every report on the loop goroutine.
func NewLoop(rec *Reconciler, interval time.Duration, onTick func(Report)) *Loop {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Loop{
		rec:      rec,
		interval: interval,
		logger:   rec.logger,
		onTick:   onTick,
		cmds:     make(chan func(*Reconciler)),
		done:     make(chan struct{}),
	}
}

// Start launches the loop. It returns an error if the loop was already started.
func (l *Loop) Start(ctx context.Context) error {
	started := false
	l.startOnce.Do(func() { started = true })
	if !started {
		return fmt.Errorf("reconcile loop already started")
	}

	lifecycle.Go(ctx, l.run, lifecycle.WithErrorHandler(func(err error) {
		l.logger.Error("reconcile loop failed", "error", err)
	}))
	return nil
}

func (l *Loop) run(ctx context.Context) error {
	defer close(l.done)
	defer l.rec.Teardown()

	l.rec.Setup()
	l.tick()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.tick()
		case fn := <-l.cmds:
			fn(l.rec)
		}
	}
}

func (l *Loop) tick() {
	rep := l.rec.Tick()
	if l.onTick != nil {
		l.onTick(rep)
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Reconciler)) error {
	finished := make(chan struct{})
	cmd := func(r *Reconciler) {
		defer close(finished)
		fn(r)
	}

	select {
	case l.cmds <- cmd:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed after the loop exits and the scene was torn down.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
