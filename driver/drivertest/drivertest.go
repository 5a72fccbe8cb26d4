// Package drivertest provides a driver that records what is done to it,
// for testing code that plays tones through a driver.Registry.
package drivertest

import (
	"fmt"
	"sync"
)

// Log is an ordered list of events shared by a Recorder and any other
// fake (e.g. a sleeper) whose calls should be interleaved with it.
type Log struct {
	mu      sync.Mutex
	entries []string
}

func (l *Log) Add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of everything logged so far.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ret := make([]string, len(l.entries))
	copy(ret, l.entries)
	return ret
}

// Count returns how often entry was logged.
func (l *Log) Count(entry string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e == entry {
			n++
		}
	}
	return n
}

// Recorder implements driver.Driver. It logs "detect(hint)", "init",
// "fini", "begin(freq)" and "end".
type Recorder struct {
	ID      string
	Detects bool
	// Err, if set, is returned by BeginTone and EndTone.
	Err error
	Log *Log

	device string
}

// New returns a recorder named id logging to log.
func New(id string, detects bool, log *Log) *Recorder {
	return &Recorder{ID: id, Detects: detects, Log: log}
}

func (r *Recorder) Name() string {
	return r.ID
}

func (r *Recorder) Device() string {
	return r.device
}

func (r *Recorder) Detect(hint string) bool {
	r.Log.Add("%s.detect(%s)", r.ID, hint)
	if r.Detects {
		r.device = hint
	}
	return r.Detects
}

func (r *Recorder) Init() error {
	r.Log.Add("init")
	return nil
}

func (r *Recorder) Fini() error {
	r.Log.Add("fini")
	return nil
}

func (r *Recorder) BeginTone(freq uint16) error {
	r.Log.Add("begin(%d)", freq)
	return r.Err
}

func (r *Recorder) EndTone() error {
	r.Log.Add("end")
	return r.Err
}
