package spatialnotes

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/spatialnotes/internal/platform"
	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/render"
	"github.com/aretw0/spatialnotes/pkg/scene"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Session is a loaded collection wired to a scene.
type Session = platform.Session

// Note is a public alias for the note record.
type Note = core.Note

// --- Configuration ---

// Option defines a functional option for configuring a session.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithHost sets the scene host. Defaults to an in-memory scene.
func WithHost(host scene.Host) Option {
	return platform.WithHost(host)
}

// WithRenderer replaces the default card renderer.
func WithRenderer(r render.Renderer) Option {
	return platform.WithRenderer(r)
}

// WithFileName sets the notes file name inside the vault.
func WithFileName(name string) Option {
	return platform.WithFileName(name)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly disables every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatch reloads the collection on external changes of the notes file.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithSaveDelay sets the autosave quiet period.
func WithSaveDelay(d time.Duration) Option {
	return platform.WithSaveDelay(d)
}

// WithTickInterval sets the reconciliation tick interval.
func WithTickInterval(d time.Duration) Option {
	return platform.WithTickInterval(d)
}

// WithRefreshInterval sets the number of ticks between periodic refreshes.
func WithRefreshInterval(ticks int) Option {
	return platform.WithRefreshInterval(ticks)
}

// WithRenderBudget caps re-renders per tick.
func WithRenderBudget(n int) Option {
	return platform.WithRenderBudget(n)
}

// WithMetrics registers reconciler metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return platform.WithMetrics(reg)
}

// --- Factory ---

// New loads the note collection of the vault at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open builds a Session for the vault at path.
func Open(path string, opts ...Option) (*Session, error) {
	return platform.Open(path, opts...)
}

// Init prepares a vault explicitly and returns its repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Safety & Utils ---

// ResolveVaultPath determines the actual path for the vault based on safety rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindVaultRoot looks upwards for a directory holding a notes file.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
