package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/spatialnotes/pkg/adapters/fs"
	"github.com/aretw0/spatialnotes/pkg/core"
)

// Init prepares the notes store at uri and returns its repository.
// The 'uri' argument is adapter-specific (a vault directory for 'fs').
func Init(uri string, opts ...Option) (core.Repository, error) {
	return initRepository(uri, parseOptions(opts))
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	switch o.adapter {
	case "fs":
		repo = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS resolves the vault path and builds the filesystem adapter.
func initFS(path string, o *options) *fs.Repository {
	// Read-only vaults are inherently safe, so the dev sandbox is bypassed.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolveVaultPath(path, useTemp)

	if IsDevRun() {
		switch {
		case o.readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolvedPath)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolvedPath)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolvedPath)
		}
	}
	if useTemp && resolvedPath != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		FileName:     o.fileName,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.watcherErrorHandler,
	})
}
