package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sandeepkv93/tasklist/internal/config"
)

func setupSQLite(t *testing.T) *SQLStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "tasklist-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func slotStores(t *testing.T) map[string]SlotStore {
	t.Helper()
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "slots.json"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	stores := map[string]SlotStore{
		"sqlite": setupSQLite(t),
		"file":   fileStore,
		"memory": NewMemoryStore(),
	}
	if dsn := os.Getenv("TASKLIST_TEST_MYSQL_DSN"); dsn != "" {
		mysqlStore, err := OpenMySQL(context.Background(), dsn)
		if err != nil {
			t.Fatalf("open mysql: %v", err)
		}
		_ = mysqlStore.Delete(context.Background(), "tasks")
		t.Cleanup(func() { _ = mysqlStore.Close() })
		stores["mysql"] = mysqlStore
	}
	return stores
}

func TestSlotStoreGetMissing(t *testing.T) {
	for name, store := range slotStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "tasks")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got: %v", err)
			}
		})
	}
}

func TestSlotStorePutGetDelete(t *testing.T) {
	for name, store := range slotStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			v1, err := store.Put(ctx, "tasks", `["Buy milk"]`, 0)
			if err != nil {
				t.Fatalf("first put: %v", err)
			}
			if v1 != 1 {
				t.Fatalf("expected version 1, got %d", v1)
			}

			v2, err := store.Put(ctx, "tasks", `["Buy milk","Walk dog"]`, v1)
			if err != nil {
				t.Fatalf("second put: %v", err)
			}
			if v2 != 2 {
				t.Fatalf("expected version 2, got %d", v2)
			}

			got, err := store.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Value != `["Buy milk","Walk dog"]` || got.Version != 2 {
				t.Fatalf("unexpected slot: %#v", got)
			}
			if got.UpdatedAt.IsZero() {
				t.Fatal("expected updated_at to be set")
			}

			if err := store.Delete(ctx, "tasks"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got: %v", err)
			}
			if err := store.Delete(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound deleting missing slot, got: %v", err)
			}
		})
	}
}

func TestSlotStoreRejectsStaleVersion(t *testing.T) {
	for name, store := range slotStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Put(ctx, "tasks", `["a"]`, 0); err != nil {
				t.Fatalf("first put: %v", err)
			}
			if _, err := store.Put(ctx, "tasks", `["b"]`, 0); !errors.Is(err, ErrVersionConflict) {
				t.Fatalf("expected conflict on duplicate create, got: %v", err)
			}
			if _, err := store.Put(ctx, "tasks", `["a","b"]`, 1); err != nil {
				t.Fatalf("second put: %v", err)
			}
			if _, err := store.Put(ctx, "tasks", `["a","c"]`, 1); !errors.Is(err, ErrVersionConflict) {
				t.Fatalf("expected conflict on stale version, got: %v", err)
			}

			got, err := store.Get(ctx, "tasks")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Value != `["a","b"]` {
				t.Fatalf("stale write leaked into store: %q", got.Value)
			}
		})
	}
}

func TestSlotStoreKeysAreIndependent(t *testing.T) {
	for name, store := range slotStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Put(ctx, "work", `["ship"]`, 0); err != nil {
				t.Fatalf("put work: %v", err)
			}
			if _, err := store.Put(ctx, "home", `["cook"]`, 0); err != nil {
				t.Fatalf("put home: %v", err)
			}
			work, err := store.Get(ctx, "work")
			if err != nil {
				t.Fatalf("get work: %v", err)
			}
			if work.Value != `["ship"]` {
				t.Fatalf("unexpected work slot: %q", work.Value)
			}
		})
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, err := first.Put(context.Background(), "tasks", `["persisted"]`, 0); err != nil {
		t.Fatalf("put: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen file store: %v", err)
	}
	got, err := second.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value != `["persisted"]` || got.Version != 1 {
		t.Fatalf("unexpected slot after reopen: %#v", got)
	}
}

func TestFileStoreSeparateInstancesAllowOneWriterPerVersion(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "slots.json")

	const writers = 8
	stores := make([]*FileStore, writers)
	for i := range stores {
		store, err := NewFileStore(path)
		if err != nil {
			t.Fatalf("new file store %d: %v", i, err)
		}
		t.Cleanup(func() { _ = store.Close() })
		stores[i] = store
	}

	version, err := stores[0].Put(ctx, "tasks", `[]`, 0)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	for round := 0; round < 200; round++ {
		start := make(chan struct{})
		var wg sync.WaitGroup
		var wins atomic.Int32
		for i, store := range stores {
			wg.Add(1)
			go func(i int, store *FileStore) {
				defer wg.Done()
				<-start
				_, err := store.Put(ctx, "tasks", fmt.Sprintf(`["writer %d"]`, i), version)
				switch {
				case err == nil:
					wins.Add(1)
				case !errors.Is(err, ErrVersionConflict):
					t.Errorf("round %d writer %d: %v", round, i, err)
				}
			}(i, store)
		}
		close(start)
		wg.Wait()

		if got := wins.Load(); got != 1 {
			t.Fatalf("round %d: %d writers succeeded on version %d", round, got, version)
		}
		slot, err := stores[0].Get(ctx, "tasks")
		if err != nil {
			t.Fatalf("round %d get: %v", round, err)
		}
		if slot.Version != version+1 {
			t.Fatalf("round %d: version %d, want %d", round, slot.Version, version+1)
		}
		version = slot.Version
	}

	tmps, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(tmps) != 0 {
		t.Fatalf("temporary files left behind: %v", tmps)
	}
}

func TestFileStoreReportsUndecodableDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if _, err := store.Get(context.Background(), "tasks"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected decode error, got: %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		backend config.Backend
		path    string
	}{
		{config.BackendSQLite, filepath.Join(dir, "db", "tasks.db")},
		{config.BackendFile, filepath.Join(dir, "tasks.json")},
		{config.BackendMemory, ""},
	}
	for _, tc := range cases {
		cfg := config.DefaultRuntimeConfig()
		cfg.Backend = tc.backend
		cfg.StorePath = tc.path
		store, err := Open(context.Background(), cfg)
		if err != nil {
			t.Fatalf("open %s: %v", tc.backend, err)
		}
		if _, err := store.Put(context.Background(), "tasks", `[]`, 0); err != nil {
			t.Fatalf("put via %s: %v", tc.backend, err)
		}
		_ = store.Close()
	}

	cfg := config.DefaultRuntimeConfig()
	cfg.Backend = config.BackendMySQL
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected error for mysql backend without dsn")
	}
}
