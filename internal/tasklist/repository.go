package tasklist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sandeepkv93/tasklist/internal/storage"
)

// Repository loads and saves the whole task list at once.
type Repository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, items []string) error
}

type MemoryRepository struct {
	mu    sync.Mutex
	items []string
}

func NewMemoryRepository(items ...string) *MemoryRepository {
	return &MemoryRepository{items: clone(items)}
}

func (r *MemoryRepository) Load(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.items), nil
}

func (r *MemoryRepository) Save(_ context.Context, items []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = clone(items)
	return nil
}

// SlotRepository stores the list as a JSON array of strings in one slot.
// Save writes against the version seen by the latest Load, so a write made
// elsewhere in between surfaces as ErrConflict.
type SlotRepository struct {
	store storage.SlotStore
	key   string

	mu      sync.Mutex
	version int64
}

func NewSlotRepository(store storage.SlotStore, key string) (*SlotRepository, error) {
	if store == nil {
		return nil, errors.New("tasklist: nil slot store")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("tasklist: slot key is required")
	}
	return &SlotRepository{store: store, key: key}, nil
}

func (r *SlotRepository) Load(ctx context.Context) ([]string, error) {
	slot, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.setVersion(0)
			return []string{}, nil
		}
		return nil, fmt.Errorf("load slot %q: %w", r.key, err)
	}
	items, err := DecodeItems(slot.Value)
	if err != nil {
		return nil, fmt.Errorf("slot %q: %w", r.key, err)
	}
	r.setVersion(slot.Version)
	return items, nil
}

func (r *SlotRepository) Save(ctx context.Context, items []string) error {
	payload, err := EncodeItems(items)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.store.Put(ctx, r.key, payload, r.version)
	if err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return fmt.Errorf("save slot %q: %w", r.key, ErrConflict)
		}
		return fmt.Errorf("save slot %q: %w", r.key, err)
	}
	r.version = next
	return nil
}

func (r *SlotRepository) setVersion(v int64) {
	r.mu.Lock()
	r.version = v
	r.mu.Unlock()
}

// DecodeItems parses a persisted slot value. Blank values and a top-level
// JSON null are an empty list; anything else that is not an array of
// strings, including null elements, is corrupt.
func DecodeItems(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var elems []*string
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	items := make([]string, len(elems))
	for i, elem := range elems {
		if elem == nil {
			return nil, fmt.Errorf("%w: item %d is null", ErrCorruptState, i)
		}
		items[i] = *elem
	}
	return items, nil
}

// EncodeItems renders the list as a compact JSON array without HTML escaping.
func EncodeItems(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func clone(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}
