package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/tasklist/internal/config"
)

// Open builds the slot store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.RuntimeConfig) (SlotStore, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := ensureParentDir(cfg.StorePath); err != nil {
			return nil, err
		}
		return OpenSQLite(cfg.StorePath)
	case config.BackendMySQL:
		if cfg.MySQLDSN == "" {
			return nil, errors.New("storage: mysql backend requires a dsn")
		}
		return OpenMySQL(ctx, cfg.MySQLDSN)
	case config.BackendFile:
		return NewFileStore(cfg.StorePath)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	return nil
}
