package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("storage: not found")
	ErrVersionConflict = errors.New("storage: version conflict")
)

// SlotStore persists named string slots. Each write carries the version the
// caller last observed; a version of 0 means the slot must not exist yet.
type SlotStore interface {
	Get(ctx context.Context, key string) (Slot, error)
	Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, key string) error
	Close() error
}
