package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/spatialnotes/pkg/autosave"
	"github.com/aretw0/spatialnotes/pkg/camera"
	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/reconcile"
	"github.com/aretw0/spatialnotes/pkg/scene"
)

// New opens the note collection at uri and loads it. A missing notes file
// yields an empty collection; a corrupt one is logged and also yields an empty
// collection, so callers can always proceed.
//
//	svc, err := spatialnotes.New("./vault", spatialnotes.WithLogger(logger))
func New(uri string, opts ...Option) (*core.Service, error) {
	o := parseOptions(opts)
	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	svc := core.NewService(repo, o.logger)
	_ = svc.Load(context.Background()) // logged by the service
	return svc, nil
}

// Session wires a loaded collection to a scene: autosave, the camera tracker,
// the reconciler and its tick loop, and optionally the file watcher.
type Session struct {
	Notes      *core.Service
	Repository core.Repository
	Saver      *autosave.Saver // nil in read-only mode
	Host       scene.Host
	Reconciler *reconcile.Reconciler
	Loop       *reconcile.Loop
	Metrics    *reconcile.Metrics

	logger *slog.Logger
	watch  bool

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// Open builds a Session for the vault at uri. Nothing runs until Start.
func Open(uri string, opts ...Option) (*Session, error) {
	o := parseOptions(opts)
	repo, err := initRepository(uri, o)
	if err != nil {
		return nil, err
	}

	svc := core.NewService(repo, o.logger)
	_ = svc.Load(context.Background())

	s := &Session{
		Notes:      svc,
		Repository: repo,
		Host:       o.host,
		logger:     o.logger,
		watch:      o.watch,
	}
	if s.Host == nil {
		s.Host = scene.NewMemory()
	}
	if !o.readOnly {
		s.Saver = autosave.New(svc, o.saveDelay, o.logger)
		svc.OnChange(s.Saver.Trigger)
	}
	if o.registerer != nil {
		s.Metrics = reconcile.NewMetrics(o.registerer)
	}

	refresh := o.refreshInterval
	if refresh < 0 {
		refresh = reconcile.DefaultRefreshInterval
	}
	s.Reconciler = reconcile.New(svc, s.Host, camera.New(o.logger), o.renderer, reconcile.Config{
		RefreshInterval: refresh,
		RenderBudget:    o.renderBudget,
		Logger:          o.logger,
		Metrics:         s.Metrics,
	})
	s.Loop = reconcile.NewLoop(s.Reconciler, o.tickInterval, nil)
	return s, nil
}

// Start runs the tick loop and, if enabled, the file watcher until ctx is
// cancelled or Close is called.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("session already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := s.Loop.Start(runCtx); err != nil {
		cancel()
		return err
	}
	if s.watch {
		if err := s.startWatch(runCtx); err != nil {
			cancel()
			return err
		}
	}
	s.cancel = cancel
	s.started = true
	return nil
}

func (s *Session) startWatch(ctx context.Context) error {
	events, err := s.Notes.Watch(ctx)
	if err != nil {
		return err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range events {
			s.reload(ctx, e)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("notes reload failed", "error", err)
	}))
	return nil
}

// reload replaces the collection after an external change of the notes file.
// The swap runs on the loop goroutine between ticks; the next tick reconciles
// the scene against it.
func (s *Session) reload(ctx context.Context, e core.Event) {
	if e.Type == core.EventDelete {
		s.logger.Warn("notes file removed externally, keeping notes in memory", "path", e.Path)
		return
	}

	notes, err := s.Repository.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to reload notes, keeping notes in memory", "path", e.Path, "error", err)
		return
	}
	err = s.Loop.Do(ctx, func(*reconcile.Reconciler) {
		s.Notes.Replace(notes)
	})
	if err != nil {
		s.logger.Warn("reload dropped, scene loop not running", "path", e.Path, "error", err)
		return
	}
	s.logger.Info("reloaded notes after external change", "count", len(notes))
}

// Do runs fn on the reconciler's goroutine. See reconcile.Loop.Do.
func (s *Session) Do(ctx context.Context, fn func(*reconcile.Reconciler)) error {
	return s.Loop.Do(ctx, fn)
}

// Close stops the loop, which tears the scene down, and flushes pending saves.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	cancel, started := s.cancel, s.started
	s.mu.Unlock()

	var errs []error
	if started {
		cancel()
		select {
		case <-s.Loop.Done():
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("waiting for scene teardown: %w", ctx.Err()))
		}
	}
	if s.Saver != nil {
		if err := s.Saver.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
