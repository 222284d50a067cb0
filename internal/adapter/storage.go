package adapter

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/citadel/internal/store"
)

// OpenStorage opens the configured storage backend and wraps it in an Origin.
func OpenStorage(cfg StorageConfig, logger *slog.Logger) (*store.Origin, error) {
	var (
		backend store.Backend
		err     error
	)
	switch cfg.Backend {
	case StorageFile:
		backend, err = store.OpenFile(cfg.Path, logger)
	case StorageBolt:
		backend, err = store.OpenBolt(cfg.Path)
	case StorageMemory:
		backend, err = store.OpenBolt("")
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}

	logger.Debug("storage opened", "backend", cfg.Backend, "path", cfg.Path)
	return store.NewOrigin(backend, logger), nil
}
