package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix marks the scratch file a save writes next to the notes file.
	// The watcher ignores files with this prefix.
	TempFilePrefix = "spatialnotes-tmp-"

	defaultFileMode os.FileMode = 0644
)

// replaceFile swaps the contents of path for data without ever exposing a
// partially written notes file. A reader sees either the old array or the new
// one. An existing file keeps its permissions; a new one gets perm.
//
// Cancelling ctx before the rename leaves the old file untouched.
func replaceFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write notes to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save of %s abandoned: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

// syncDir makes the rename durable where the platform allows fsync on a
// directory. Failures are ignored: the data itself is already synced.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
