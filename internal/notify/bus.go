// Package notify fans list changes out to presenters without blocking the
// writer.
package notify

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrClosed = errors.New("notify: bus closed")

type ListChanged struct {
	Items []string
	At    time.Time
}

// Bus delivers ListChanged events through a buffered channel. When the
// buffer is full the oldest pending event is discarded so the newest state
// always gets through.
type Bus struct {
	mu      sync.Mutex
	out     chan ListChanged
	closed  bool
	dropped uint64
	now     func() time.Time
}

func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Bus{
		out: make(chan ListChanged, bufferSize),
		now: time.Now,
	}
}

func (b *Bus) C() <-chan ListChanged {
	return b.out
}

func (b *Bus) Publish(items []string) error {
	ev := ListChanged{Items: append([]string(nil), items...), At: b.now().UTC()}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	for {
		select {
		case b.out <- ev:
			return nil
		default:
		}
		select {
		case <-b.out:
			atomic.AddUint64(&b.dropped, 1)
		default:
		}
	}
}

// Renderer adapts Publish to the tasklist render callback signature.
func (b *Bus) Renderer() func([]string) {
	return func(items []string) {
		_ = b.Publish(items)
	}
}

func (b *Bus) Dropped() uint64 {
	return atomic.LoadUint64(&b.dropped)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.out)
}
