package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/exp/constraints"
	c "lautenbacher.net/gobeep/config"
	"lautenbacher.net/gobeep/score"
	"lautenbacher.net/gobeep/sequencer"
)

var version = "1.4.12"

const usageHeader = `Usage:
  gobeep [-f freq] [-l length] [-r reps] [-d delay] [-D delay] [-s] [-c]
         [--verbose | --debug] [-e device] [--config file]
  gobeep [Global] [-f freq] [-l length] [-r reps] [-d delay] [-D delay]
         [-s] [-c] ([-n|--new] [-f freq] [-l length] [-r reps] [-d delay]
         [-D delay] [-s] [-c])...
  gobeep [Global] --score file [--loop]
  gobeep [-h | --help]
  gobeep [-v | -V | --version]

Options:
`

type options struct {
	notes      []score.NoteSpec
	device     string
	verbose    int
	debug      int
	help       bool
	version    bool
	configFile string
	scoreFile  string
	loop       bool
}

func (o *options) verbosity() int {
	return o.verbose + o.debug
}

func (o *options) current() *score.NoteSpec {
	return &o.notes[len(o.notes)-1]
}

// noteFlag is a flag that changes the note currently being built. pflag
// calls Set in command line order, so every flag lands on the note
// started by the last -n before it.
type noteFlag struct {
	opts *options
	typ  string
	set  func(n *score.NoteSpec, val string) error
}

func (f *noteFlag) String() string { return "" }
func (f *noteFlag) Type() string   { return f.typ }

func (f *noteFlag) Set(val string) error {
	return f.set(f.opts.current(), val)
}

// deviceFlag refuses to be given twice.
type deviceFlag struct {
	device *string
}

func (f *deviceFlag) String() string { return *f.device }
func (f *deviceFlag) Type() string   { return "path" }

func (f *deviceFlag) Set(val string) error {
	if *f.device != "" {
		return errors.New("you cannot give the --device parameter more than once")
	}
	*f.device = val
	return nil
}

// parseBounded parses a decimal unsigned number no larger than max.
func parseBounded[T constraints.Unsigned](val string, max T) (T, error) {
	v, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, err
	}
	if v > uint64(max) {
		return 0, fmt.Errorf("%d is out of range 0 to %d", v, max)
	}
	return T(v), nil
}

func parseFreq(val string) (uint32, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > c.MaxFreq {
		return 0, fmt.Errorf("%s is out of range 0 to %d", val, c.MaxFreq)
	}
	return uint32(math.Round(f)), nil
}

// switchOn accepts what a boolean flag accepts and reports whether the
// switch is on.
func switchOn(val string) (bool, error) {
	return strconv.ParseBool(val)
}

func (o *options) noteFlags(fs *pflag.FlagSet) {
	add := func(name, short, typ, usage string, set func(n *score.NoteSpec, val string) error) *pflag.Flag {
		return fs.VarPF(&noteFlag{opts: o, typ: typ, set: set}, name, short, usage)
	}
	number := func(val string) (*uint32, error) {
		v, err := parseBounded[uint32](val, c.MaxValue)
		return &v, err
	}

	add("freq", "f", "float", "frequency in Hz, 0 to 20000, 0 plays silence", func(n *score.NoteSpec, val string) error {
		v, err := parseFreq(val)
		if err != nil {
			return err
		}
		if n.Freq != nil {
			slog.Warn("multiple -f values given, only last one is used")
		}
		n.Freq = &v
		return nil
	})
	add("length", "l", "uint", "tone length in ms", func(n *score.NoteSpec, val string) (err error) {
		n.Length, err = number(val)
		return err
	})
	add("reps", "r", "uint", "number of repetitions", func(n *score.NoteSpec, val string) (err error) {
		n.Reps, err = number(val)
		return err
	})
	add("delay", "d", "uint", "delay between repetitions in ms", func(n *score.NoteSpec, val string) (err error) {
		if n.Delay, err = number(val); err != nil {
			return err
		}
		n.EndDelay = new(bool)
		return nil
	})
	add("end-delay", "D", "uint", "delay between repetitions in ms, and after the last one", func(n *score.NoteSpec, val string) (err error) {
		if n.Delay, err = number(val); err != nil {
			return err
		}
		endDelay := true
		n.EndDelay = &endDelay
		return nil
	})

	stdin := func(mode sequencer.StdinMode) func(n *score.NoteSpec, val string) error {
		return func(n *score.NoteSpec, val string) error {
			on, err := switchOn(val)
			if on {
				n.Stdin = mode
			}
			return err
		}
	}
	add("line", "s", "bool", "beep after every line read from stdin, echoing it to stdout", stdin(sequencer.StdinLine)).NoOptDefVal = "true"
	add("char", "c", "bool", "beep after every character read from stdin, echoing it to stdout", stdin(sequencer.StdinChar)).NoOptDefVal = "true"
	add("new", "n", "bool", "start a new note; the options after it apply to that note", func(_ *score.NoteSpec, val string) error {
		on, err := switchOn(val)
		if on {
			o.notes = append(o.notes, score.NoteSpec{})
		}
		return err
	}).NoOptDefVal = "true"
}

func newFlagSet(o *options, output io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("gobeep", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(output)
	fs.Usage = func() {}

	o.noteFlags(fs)
	fs.VarP(&deviceFlag{device: &o.device}, "device", "e", "use this device or driver hint instead of probing")
	fs.CountVar(&o.verbose, "verbose", "log more, may be repeated")
	fs.CountVar(&o.debug, "debug", "same as --verbose")
	fs.StringVar(&o.configFile, "config", "", "read the configuration from this file")
	fs.StringVar(&o.scoreFile, "score", "", "play the notes of this YAML score")
	fs.BoolVar(&o.loop, "loop", false, "play the notes again and again until interrupted")
	fs.BoolVarP(&o.help, "help", "h", false, "show this help")
	fs.BoolVarP(&o.version, "version", "V", false, "show the version")
	fs.BoolVarP(&o.version, "show-version", "v", false, "show the version")
	_ = fs.MarkHidden("show-version")
	return fs
}

// parseArgs parses the command line. Everything is checked that can be
// checked without the configuration.
func parseArgs(args []string, output io.Writer) (*options, error) {
	o := &options{notes: []score.NoteSpec{{}}}
	fs := newFlagSet(o, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.help || o.version {
		return o, nil
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("non-option arguments left on command line: %q", fs.Args())
	}
	if o.scoreFile != "" && (len(o.notes) > 1 || o.notes[0] != (score.NoteSpec{})) {
		return nil, errors.New("--score cannot be combined with note options")
	}
	return o, nil
}

func printUsage(w io.Writer) {
	fs := newFlagSet(&options{notes: []score.NoteSpec{{}}}, w)
	fmt.Fprint(w, usageHeader)
	fmt.Fprint(w, fs.FlagUsages())
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "gobeep %s\n", version)
}
