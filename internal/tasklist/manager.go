// Package tasklist maintains an ordered list of free-text tasks persisted
// through a Repository. Items are addressed by position only.
package tasklist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/tasklist/internal/logger"
)

// Renderer receives the full list after every successful mutation.
type Renderer func(items []string)

type Option func(*Manager)

func WithRenderer(r Renderer) Option {
	return func(m *Manager) { m.render = r }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

type Manager struct {
	mu     sync.Mutex
	repo   Repository
	render Renderer
	log    logrus.FieldLogger
}

func NewManager(repo Repository, opts ...Option) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("tasklist: nil repository")
	}
	m := &Manager{repo: repo, log: logger.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Load returns the persisted list. A missing slot is an empty list.
func (m *Manager) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, err := m.repo.Load(ctx)
	if err != nil {
		m.log.WithError(err).Error("load task list")
		return nil, err
	}
	return clone(items), nil
}

// Items is Load under the name presenters use.
func (m *Manager) Items(ctx context.Context) ([]string, error) {
	return m.Load(ctx)
}

// Add appends text as the last item. Blank text is rejected with
// ErrEmptyInput and invalid UTF-8 with ErrInvalidText; storage is not
// touched in either case.
func (m *Manager) Add(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		m.log.WithField("op", "add").Debug("ignoring blank task")
		return nil, ErrEmptyInput
	}
	if !utf8.ValidString(text) {
		m.log.WithField("op", "add").Warn("rejecting task text that is not utf-8")
		return nil, ErrInvalidText
	}

	items, err := m.mutate(ctx, func(items []string) ([]string, error) {
		return append(items, text), nil
	})
	if err != nil {
		m.log.WithError(err).WithField("op", "add").Error("add task")
		return nil, err
	}
	m.log.WithFields(logrus.Fields{"op": "add", "len": len(items)}).Debug("task added")
	m.emit(items)
	return clone(items), nil
}

// Delete removes the item at index; later items shift down by one.
func (m *Manager) Delete(ctx context.Context, index int) ([]string, error) {
	items, err := m.mutate(ctx, func(items []string) ([]string, error) {
		if index < 0 || index >= len(items) {
			return nil, &IndexError{Index: index, Len: len(items)}
		}
		return append(items[:index:index], items[index+1:]...), nil
	})
	if err != nil {
		entry := m.log.WithError(err).WithFields(logrus.Fields{"op": "delete", "index": index})
		if errors.Is(err, ErrIndexOutOfRange) {
			entry.Warn("delete rejected")
		} else {
			entry.Error("delete task")
		}
		return nil, err
	}
	m.log.WithFields(logrus.Fields{"op": "delete", "index": index, "len": len(items)}).Debug("task deleted")
	m.emit(items)
	return clone(items), nil
}

func (m *Manager) mutate(ctx context.Context, fn func([]string) ([]string, error)) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, err := m.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(clone(items))
	if err != nil {
		return nil, err
	}
	if err := m.repo.Save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (m *Manager) emit(items []string) {
	if m.render != nil {
		m.render(clone(items))
	}
}
