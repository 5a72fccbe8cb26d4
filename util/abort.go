package util

import (
	"sync"
	"sync/atomic"
	"time"
)

// AbortFlag is the one piece of state shared between signal delivery and
// the tone loop. It starts out false, is set at most once and is never
// reset.
type AbortFlag struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

// NewAbortFlag creates a new, unset AbortFlag.
func NewAbortFlag() *AbortFlag {
	return &AbortFlag{
		done: make(chan struct{}),
	}
}

// Set raises the flag and wakes up every pending Sleep. It does nothing
// but an atomic store and a channel close, so it is safe to call from the
// signal delivery goroutine at any time.
func (a *AbortFlag) Set() {
	a.set.Store(true)
	a.once.Do(func() { close(a.done) })
}

// IsSet reports whether the flag has been raised.
func (a *AbortFlag) IsSet() bool {
	return a.set.Load()
}

// Done returns a channel that is closed once the flag is raised.
func (a *AbortFlag) Done() <-chan struct{} {
	return a.done
}

// Sleep waits for d or until the flag is raised, whichever comes first.
// It returns false if the sleep was cut short by the flag.
func (a *AbortFlag) Sleep(d time.Duration) bool {
	if d <= 0 {
		return !a.IsSet()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return !a.IsSet()
	case <-a.done:
		return false
	}
}
