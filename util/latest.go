package util

import (
	"sync"
)

// Latest holds the most recently published value of T until a consumer
// takes it. Publishing never blocks; a value that was not taken in time is
// simply replaced by the next one.
type Latest[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
	notify  chan struct{}
}

// NewLatest creates a new, empty Latest.
func NewLatest[T any]() *Latest[T] {
	return &Latest[T]{
		notify: make(chan struct{}, 1),
	}
}

// Put publishes v, replacing any value not yet taken.
func (l *Latest[T]) Put(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value = v
	l.pending = true

	select {
	case l.notify <- struct{}{}:
	default:
		// a notification is already waiting
	}
}

// Take returns the pending value and clears it. ok is false if nothing
// was published since the last Take.
func (l *Latest[T]) Take() (v T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.notify:
	default:
	}
	if !l.pending {
		return v, false
	}
	v = l.value
	var zero T
	l.value = zero
	l.pending = false
	return v, true
}

// Channel signals that a value is waiting, for use in select statements.
func (l *Latest[T]) Channel() <-chan struct{} {
	return l.notify
}
