package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

type fileDocument struct {
	Slots map[string]fileSlot `json:"slots"`
}

type fileSlot struct {
	Value     string    `json:"value"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileStore keeps every slot in one JSON document. Each write replaces the
// whole file through a temporary file and a rename. Reads and
// read-check-write cycles hold an OS lock on path+".lock", so stores in
// other processes see the same version sequence.
type FileStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
	now  func() time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage: empty file path")
	}
	return &FileStore{path: trimmed, lock: flock.New(trimmed + ".lock"), now: time.Now}, nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Close()
}

// acquire takes the in-process mutex and then the file lock. The returned
// func releases both.
func (s *FileStore) acquire(exclusive bool) (func(), error) {
	s.mu.Lock()
	if err := ensureParentDir(s.path); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	lockFn := s.lock.RLock
	if exclusive {
		lockFn = s.lock.Lock
	}
	if err := lockFn(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("storage: lock %s: %w", s.lock.Path(), err)
	}
	return func() {
		_ = s.lock.Unlock()
		s.mu.Unlock()
	}, nil
}

func (s *FileStore) Get(_ context.Context, key string) (Slot, error) {
	release, err := s.acquire(false)
	if err != nil {
		return Slot{}, err
	}
	defer release()
	doc, err := s.read()
	if err != nil {
		return Slot{}, err
	}
	item, ok := doc.Slots[key]
	if !ok {
		return Slot{}, ErrNotFound
	}
	return Slot{Key: key, Value: item.Value, Version: item.Version, UpdatedAt: item.UpdatedAt}, nil
}

func (s *FileStore) Put(_ context.Context, key, value string, expectedVersion int64) (int64, error) {
	release, err := s.acquire(true)
	if err != nil {
		return 0, err
	}
	defer release()
	doc, err := s.read()
	if err != nil {
		return 0, err
	}
	current := doc.Slots[key]
	if current.Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	next := fileSlot{Value: value, Version: expectedVersion + 1, UpdatedAt: s.now().UTC()}
	doc.Slots[key] = next
	if err := s.write(doc); err != nil {
		return 0, err
	}
	return next.Version, nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	release, err := s.acquire(true)
	if err != nil {
		return err
	}
	defer release()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := doc.Slots[key]; !ok {
		return ErrNotFound
	}
	delete(doc.Slots, key)
	return s.write(doc)
}

func (s *FileStore) read() (fileDocument, error) {
	doc := fileDocument{Slots: make(map[string]fileSlot)}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("storage: decode %s: %w", s.path, err)
	}
	if doc.Slots == nil {
		doc.Slots = make(map[string]fileSlot)
	}
	return doc, nil
}

func (s *FileStore) write(doc fileDocument) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
