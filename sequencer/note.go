package sequencer

import (
	"fmt"
	"strings"

	c "lautenbacher.net/gobeep/config"
)

// StdinMode selects whether a note is played once or once per unit of
// standard input, echoing each unit to standard output first.
type StdinMode int

const (
	StdinNone StdinMode = iota
	StdinLine
	StdinChar
)

func (m StdinMode) String() string {
	switch m {
	case StdinLine:
		return "line"
	case StdinChar:
		return "char"
	default:
		return "none"
	}
}

// Note is one repeatable tone request. Freq is in Hz, 0 meaning silence;
// Length and Delay are in milliseconds.
type Note struct {
	Freq     uint32
	Length   uint32
	Reps     uint32
	Delay    uint32
	EndDelay bool
	Stdin    StdinMode
}

// NewNote returns a note carrying the configured defaults.
func NewNote(d c.NoteDefaults) Note {
	return Note{
		Freq:     d.Freq,
		Length:   d.Length,
		Reps:     d.Reps,
		Delay:    d.Delay,
		EndDelay: d.EndDelay,
	}
}

// Validate applies the limits every user supplied note must obey. The
// Player itself accepts any value.
func (n Note) Validate() error {
	if n.Freq > c.MaxFreq {
		return fmt.Errorf("frequency %d must be between 0 and %d", n.Freq, c.MaxFreq)
	}
	if n.Length > c.MaxValue {
		return fmt.Errorf("length %d must be between 0 and %d", n.Length, c.MaxValue)
	}
	if n.Reps > c.MaxValue {
		return fmt.Errorf("repetitions %d must be between 0 and %d", n.Reps, c.MaxValue)
	}
	if n.Delay > c.MaxValue {
		return fmt.Errorf("delay %d must be between 0 and %d", n.Delay, c.MaxValue)
	}
	return nil
}

func (n Note) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dHz %dms x%d delay %dms", n.Freq, n.Length, n.Reps, n.Delay)
	if n.EndDelay {
		b.WriteString(" end-delay")
	}
	if n.Stdin != StdinNone {
		fmt.Fprintf(&b, " stdin=%s", n.Stdin)
	}
	return b.String()
}

// Sequence is a list of notes played in order. With Loop set the list is
// played again and again until aborted.
type Sequence struct {
	Notes []Note
	Loop  bool
}

// Validate checks every note and rejects looping over standard input,
// which cannot be replayed.
func (s Sequence) Validate() error {
	for i, n := range s.Notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("note %d: %w", i+1, err)
		}
		if s.Loop && n.Stdin != StdinNone {
			return fmt.Errorf("note %d: cannot loop while echoing standard input", i+1)
		}
	}
	return nil
}
