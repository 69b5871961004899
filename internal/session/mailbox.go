package session

import (
	"context"
	"errors"
	"sync"
)

var errMailboxClosed = errors.New("mailbox closed")

// mailbox is an unbounded FIFO with a single consumer. put never blocks.
type mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	ready  chan struct{}
	closed bool
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ready: make(chan struct{}, 1)}
}

// put appends v and reports false if the mailbox is closed.
func (m *mailbox[T]) put(v T) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items, v)
	m.mu.Unlock()
	m.wake()
	return true
}

func (m *mailbox[T]) wake() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// close rejects further puts. Items already queued can still be taken.
func (m *mailbox[T]) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wake()
}

// len returns the number of queued items.
func (m *mailbox[T]) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// take removes the oldest item, waiting until one arrives. If merge is not
// nil and reports true for the taken item and the one queued after it, the
// later item replaces the earlier one, repeatedly.
//
// take returns errMailboxClosed once the mailbox is closed and drained.
func (m *mailbox[T]) take(ctx context.Context, merge func(cur, next T) bool) (T, error) {
	var zero T
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			v := m.pop()
			for merge != nil && len(m.items) > 0 && merge(v, m.items[0]) {
				v = m.pop()
			}
			m.mu.Unlock()
			return v, nil
		}
		closed := m.closed
		m.mu.Unlock()

		if closed {
			return zero, errMailboxClosed
		}
		select {
		case <-m.ready:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// pop removes the head. The caller holds mu and has checked len(items) > 0.
func (m *mailbox[T]) pop() T {
	var zero T
	v := m.items[0]
	m.items[0] = zero
	m.items = m.items[1:]
	return v
}
