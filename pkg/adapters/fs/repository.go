package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/spatialnotes/pkg/core"
)

// DefaultFileName is the notes file inside the vault directory.
const DefaultFileName = "spatial_notes.json"

// Repository implements core.Repository as one JSON array in a file.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	readOnly      bool
	watcherActive bool
	hash          uint64 // xxhash of the last content loaded or written
	hashKnown     bool
	count         int
	lastLoad      *time.Time
	lastSave      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	FileName  string // defaults to DefaultFileName
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger

	// Pattern selects which files in Path the watcher reports, as a doublestar
	// glob relative to Path. It defaults to FileName.
	Pattern string

	// ErrorHandler receives runtime watcher failures, which are otherwise only logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.FileName == "" {
		config.FileName = DefaultFileName
	}
	if config.Pattern == "" {
		config.Pattern = config.FileName
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{
		Path:     config.Path,
		config:   config,
		readOnly: config.ReadOnly,
	}
}

// FilePath is the absolute or relative location of the notes file.
func (r *Repository) FilePath() string {
	return filepath.Join(r.Path, r.config.FileName)
}

// Initialize makes sure the vault directory exists. In read-only mode nothing
// is created.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat vault path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	return nil
}

// Load reads and decodes the notes file. A missing file yields core.ErrNotFound.
// One malformed record fails the whole load with core.ErrMalformed.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.FilePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, r.FilePath())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read notes file: %w", err)
	}

	notes, err := core.DecodeNotes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.FilePath(), err)
	}

	r.record(data, len(notes), &r.lastLoad)
	r.config.Logger.Debug("loaded notes file", "path", r.FilePath(), "count", len(notes))
	return notes, nil
}

// Save encodes notes and replaces the file atomically.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := core.EncodeNotes(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}

	// Recorded before the write so the watcher never mistakes it for an
	// external change.
	r.record(data, len(notes), &r.lastSave)
	if err := replaceFile(ctx, r.FilePath(), data, defaultFileMode); err != nil {
		return err
	}
	r.config.Logger.Debug("saved notes file", "path", r.FilePath(), "count", len(notes))
	return nil
}

func (r *Repository) record(data []byte, count int, at **time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.hash = xxhash.Sum64(data)
	r.hashKnown = true
	r.count = count
	*at = &now
}

// isCurrent reports whether data is what this repository last loaded or wrote.
func (r *Repository) isCurrent(data []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hashKnown && xxhash.Sum64(data) == r.hash
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
