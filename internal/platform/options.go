package platform

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/render"
	"github.com/aretw0/spatialnotes/pkg/scene"
)

// options holds the internal configuration of a notes session.
type options struct {
	repository core.Repository
	host       scene.Host
	renderer   render.Renderer
	logger     *slog.Logger
	registerer prometheus.Registerer
	adapter    string

	fileName  string
	mustExist bool
	readOnly  bool
	forceTemp bool
	devSafety bool
	watch     bool

	saveDelay       time.Duration
	tickInterval    time.Duration
	refreshInterval int
	renderBudget    int

	watcherErrorHandler func(error)
}

// Option defines a functional option for configuring a session.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:         "fs",
		devSafety:       true,
		refreshInterval: -1,
	}
}

func parseOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter allows specifying the storage adapter to use by name (e.g. "fs").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithHost sets the scene host anchors are created in. Defaults to an
// in-memory scene.
func WithHost(host scene.Host) Option {
	return func(o *options) {
		o.host = host
	}
}

// WithRenderer replaces the default card renderer.
func WithRenderer(r render.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithFileName sets the notes file name inside the vault.
func WithFileName(name string) Option {
	return func(o *options) {
		o.fileName = name
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Save returns ErrReadOnly and autosave is disabled.
// 2. Initialization (Mkdir) is skipped.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via `go run`.
// By default (true), the vault is redirected to a temporary directory to prevent
// accidental data loss.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithWatch reloads the collection when the notes file is changed by another process.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.watcherErrorHandler = fn
	}
}

// WithSaveDelay sets the autosave quiet period. Zero means the default (0.5s).
func WithSaveDelay(d time.Duration) Option {
	return func(o *options) {
		o.saveDelay = d
	}
}

// WithTickInterval sets the reconciliation tick interval. Zero means 90 Hz.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		o.tickInterval = d
	}
}

// WithRefreshInterval sets the number of ticks between periodic refreshes.
// Zero disables the refresh.
func WithRefreshInterval(ticks int) Option {
	return func(o *options) {
		o.refreshInterval = ticks
	}
}

// WithRenderBudget caps re-renders per tick. Zero means no cap.
func WithRenderBudget(n int) Option {
	return func(o *options) {
		o.renderBudget = n
	}
}

// WithMetrics registers reconciler metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}
