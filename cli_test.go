package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	c "lautenbacher.net/gobeep/config"
	"lautenbacher.net/gobeep/score"
	"lautenbacher.net/gobeep/sequencer"
)

func resolve(t *testing.T, args ...string) sequencer.Sequence {
	t.Helper()
	opts, err := parseArgs(args, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs(%q) failed: %v", args, err)
	}
	seq, err := score.Resolve(opts.notes, opts.loop, c.Default().Defaults)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", args, err)
	}
	return seq
}

func TestParseDefaults(t *testing.T) {
	seq := resolve(t)
	assert.Equal(t, []sequencer.Note{{Freq: 440, Length: 200, Reps: 1, Delay: 100}}, seq.Notes)
	assert.False(t, seq.Loop)
}

func TestParseOneNote(t *testing.T) {
	seq := resolve(t, "-f", "1000.4", "-l", "50", "-r", "3", "-D", "20", "-s")
	assert.Equal(t, []sequencer.Note{
		{Freq: 1000, Length: 50, Reps: 3, Delay: 20, EndDelay: true, Stdin: sequencer.StdinLine},
	}, seq.Notes)

	seq = resolve(t, "-f", "999.5", "-D", "20", "-d", "30")
	assert.Equal(t, uint32(1000), seq.Notes[0].Freq, "frequencies are rounded")
	assert.Equal(t, uint32(30), seq.Notes[0].Delay)
	assert.False(t, seq.Notes[0].EndDelay, "the last of -d and -D wins")
}

func TestParseNewNotes(t *testing.T) {
	seq := resolve(t, "-f", "100", "-l", "10", "-n", "-r", "2", "--new", "-f", "0", "-c")
	assert.Equal(t, []sequencer.Note{
		{Freq: 100, Length: 10, Reps: 1, Delay: 100},
		{Freq: 440, Length: 200, Reps: 2, Delay: 100},
		{Freq: 0, Length: 200, Reps: 1, Delay: 100, Stdin: sequencer.StdinChar},
	}, seq.Notes, "options apply to the note started by the last -n")
}

func TestParseLongOptions(t *testing.T) {
	opts, err := parseArgs([]string{"--freq=300", "--device", "/dev/input/event3", "--verbose", "--debug", "--debug", "--config", "/tmp/x.yml", "--loop"}, io.Discard)
	assert.NoError(t, err)
	assert.Equal(t, "/dev/input/event3", opts.device)
	assert.Equal(t, 3, opts.verbosity())
	assert.Equal(t, "/tmp/x.yml", opts.configFile)
	assert.True(t, opts.loop)
	assert.Equal(t, uint32(300), *opts.notes[0].Freq)
}

func TestParseHelpAndVersion(t *testing.T) {
	for _, arg := range []string{"-v", "-V", "--version"} {
		opts, err := parseArgs([]string{arg}, io.Discard)
		assert.NoError(t, err)
		assert.True(t, opts.version, arg)
	}
	opts, err := parseArgs([]string{"-h", "extra"}, io.Discard)
	assert.NoError(t, err)
	assert.True(t, opts.help)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"freq too high", []string{"-f", "20000.6"}, "out of range"},
		{"negative freq", []string{"-f", "-1"}, "out of range"},
		{"freq not a number", []string{"-f", "loud"}, "invalid argument"},
		{"length too long", []string{"-l", "300001"}, "out of range"},
		{"negative reps", []string{"-r", "-1"}, "invalid argument"},
		{"delay not a number", []string{"-d", "1.5"}, "invalid argument"},
		{"device twice", []string{"-e", "/dev/a", "--device", "/dev/b"}, "more than once"},
		{"unknown option", []string{"-x"}, "unknown shorthand flag"},
		{"arguments", []string{"-f", "100", "extra"}, "non-option arguments"},
		{"score and notes", []string{"--score", "tune.yml", "-f", "100"}, "--score cannot be combined"},
		{"score and new", []string{"-n", "--score", "tune.yml"}, "--score cannot be combined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.args, io.Discard)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseLoopWithStdin(t *testing.T) {
	opts, err := parseArgs([]string{"--loop", "-s"}, io.Discard)
	assert.NoError(t, err)
	_, err = score.Resolve(opts.notes, opts.loop, c.Default().Defaults)
	assert.ErrorContains(t, err, "cannot loop")
}

func TestParseBounded(t *testing.T) {
	v, err := parseBounded[uint16]("65535", 65535)
	assert.NoError(t, err)
	assert.Equal(t, uint16(65535), v)

	_, err = parseBounded[uint16]("65536", 65535)
	assert.Error(t, err)

	_, err = parseBounded[uint32]("", 10)
	assert.Error(t, err)
}
