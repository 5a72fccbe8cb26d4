// Package score reads note sequences from YAML files and watches them for
// changes while they are being looped.
package score

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	c "lautenbacher.net/gobeep/config"
	"lautenbacher.net/gobeep/sequencer"
)

type scoreFile struct {
	Loop  bool       `yaml:"Loop"`
	Notes []NoteSpec `yaml:"Notes"`
}

// NoteSpec is a note as written down by a user, in a score file or on the
// command line. Nil fields were left out and take the configured default.
type NoteSpec struct {
	Freq     *uint32             `yaml:"Freq"`
	Length   *uint32             `yaml:"Length"`
	Reps     *uint32             `yaml:"Reps"`
	Delay    *uint32             `yaml:"Delay"`
	EndDelay *bool               `yaml:"EndDelay"`
	Stdin    sequencer.StdinMode `yaml:"-"`
}

// Note fills the fields s leaves out from defaults.
func (s NoteSpec) Note(defaults c.NoteDefaults) sequencer.Note {
	n := sequencer.NewNote(defaults)
	if s.Freq != nil {
		n.Freq = *s.Freq
	}
	if s.Length != nil {
		n.Length = *s.Length
	}
	if s.Reps != nil {
		n.Reps = *s.Reps
	}
	if s.Delay != nil {
		n.Delay = *s.Delay
	}
	if s.EndDelay != nil {
		n.EndDelay = *s.EndDelay
	}
	n.Stdin = s.Stdin
	return n
}

// Resolve turns specs into a validated sequence.
func Resolve(specs []NoteSpec, loop bool, defaults c.NoteDefaults) (sequencer.Sequence, error) {
	seq := sequencer.Sequence{Loop: loop}
	for _, spec := range specs {
		seq.Notes = append(seq.Notes, spec.Note(defaults))
	}
	if err := seq.Validate(); err != nil {
		return sequencer.Sequence{}, err
	}
	return seq, nil
}

// Parse decodes a score from r. Fields a note leaves out are taken from
// defaults.
func Parse(r io.Reader, defaults c.NoteDefaults) (sequencer.Sequence, error) {
	var sf scoreFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return sequencer.Sequence{}, err
	}

	return Resolve(sf.Notes, sf.Loop, defaults)
}

// Load reads the score file at path.
func Load(path string, defaults c.NoteDefaults) (sequencer.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return sequencer.Sequence{}, fmt.Errorf("can't open score %s: %w", path, err)
	}
	defer f.Close()

	seq, err := Parse(f, defaults)
	if err != nil {
		return sequencer.Sequence{}, fmt.Errorf("can't read score %s: %w", path, err)
	}
	return seq, nil
}
