// Package sequencer plays notes on a detected driver: it issues the
// begin/end tone calls, sleeps in between and stops early once the abort
// flag is raised.
package sequencer

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/gammazero/deque"
	"lautenbacher.net/gobeep/driver"
	"lautenbacher.net/gobeep/util"
)

// ErrAborted is returned once the abort flag cut playing short. The device
// has been silenced and released by then.
var ErrAborted = errors.New("aborted")

// Sleeper waits for a duration and reports false if it was interrupted.
// *util.AbortFlag is the Sleeper used outside of tests.
type Sleeper interface {
	Sleep(d time.Duration) bool
}

type Player struct {
	reg     *driver.Registry
	drv     driver.Driver
	abort   *util.AbortFlag
	sleeper Sleeper
	in      *bufio.Reader
	out     io.Writer
	reload  *util.Latest[Sequence]
	closed  bool
}

type Option func(*Player)

// WithSleeper replaces the abort flag as the source of sleeps.
func WithSleeper(s Sleeper) Option {
	return func(p *Player) { p.sleeper = s }
}

// WithInput sets where the echo modes read from.
func WithInput(r io.Reader) Option {
	return func(p *Player) { p.in = bufio.NewReader(r) }
}

// WithOutput sets where the echo modes write to.
func WithOutput(w io.Writer) Option {
	return func(p *Player) { p.out = w }
}

// WithReload lets a looping Play pick up a new sequence at the end of a
// pass.
func WithReload(l *util.Latest[Sequence]) Option {
	return func(p *Player) { p.reload = l }
}

// NewPlayer returns a Player driving drv through reg. drv must have been
// detected and initialised.
func NewPlayer(reg *driver.Registry, drv driver.Driver, abort *util.AbortFlag, opts ...Option) *Player {
	p := &Player{
		reg:     reg,
		drv:     drv,
		abort:   abort,
		sleeper: abort,
		in:      bufio.NewReader(eofReader{}),
		out:     io.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// Close silences the device and releases it. It is a no-op after an abort,
// which already did both.
func (p *Player) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.reg.EndTone(p.drv)
	p.reg.Fini(p.drv)
}

// abortNow is the only way out once the abort flag was seen: silence,
// release and report.
func (p *Player) abortNow() error {
	slog.Info("Aborting", "driver", p.drv.Name())
	p.Close()
	return ErrAborted
}

func (p *Player) sleep(ms uint32) bool {
	if !p.sleeper.Sleep(time.Duration(ms) * time.Millisecond) {
		return false
	}
	return !p.abort.IsSet()
}

func toneFreq(freq uint32) uint16 {
	if freq > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(freq)
}

// playReps issues n.Reps begin/end pairs and returns how many tones were
// started.
func (p *Player) playReps(n Note) (int, error) {
	freq := toneFreq(n.Freq)
	for i := uint32(0); i < n.Reps; i++ {
		if p.abort.IsSet() {
			return int(i), p.abortNow()
		}
		p.reg.BeginTone(p.drv, freq)
		if !p.sleep(n.Length) {
			return int(i) + 1, p.abortNow()
		}
		p.reg.EndTone(p.drv)
		if i+1 < n.Reps || n.EndDelay {
			if !p.sleep(n.Delay) {
				return int(i) + 1, p.abortNow()
			}
		}
	}
	return int(n.Reps), nil
}

// PlayNote plays n once, or, in an echo mode, once per line or character
// read, after writing it to the output. End of input ends the note.
func (p *Player) PlayNote(n Note) error {
	if _, err := p.play(n); err != nil {
		return err
	}
	return p.finish()
}

// finish is the last checkpoint. A signal that arrived after the last
// sleep, or while waiting for input, still ends the run as aborted.
func (p *Player) finish() error {
	if p.abort.IsSet() {
		return p.abortNow()
	}
	return nil
}

func (p *Player) play(n Note) (int, error) {
	slog.Debug("Playing note", "note", n)
	switch n.Stdin {
	case StdinLine:
		return p.echo(n, func() (string, error) { return p.in.ReadString('\n') })
	case StdinChar:
		return p.echo(n, func() (string, error) {
			r, _, err := p.in.ReadRune()
			if err != nil {
				return "", err
			}
			return string(r), nil
		})
	default:
		return p.playReps(n)
	}
}

func (p *Player) echo(n Note, next func() (string, error)) (int, error) {
	tones := 0
	for {
		if p.abort.IsSet() {
			return tones, p.abortNow()
		}
		unit, err := next()
		if unit != "" {
			if _, werr := io.WriteString(p.out, unit); werr != nil {
				return tones, werr
			}
			played, perr := p.playReps(n)
			tones += played
			if perr != nil {
				return tones, perr
			}
		}
		if errors.Is(err, io.EOF) {
			return tones, nil
		}
		if err != nil {
			return tones, err
		}
	}
}

// Play plays every note of seq in order. A looping sequence starts over
// after its last note, switching to a newly published sequence at that
// point, and ends once a whole pass started no tone.
func (p *Player) Play(seq Sequence) error {
	var queue deque.Deque[Note]
	load := func(s Sequence) int {
		queue.Clear()
		for _, n := range s.Notes {
			queue.PushBack(n)
		}
		return queue.Len()
	}

	left := load(seq)
	tones := 0
	for queue.Len() > 0 {
		if p.abort.IsSet() {
			return p.abortNow()
		}
		n := queue.PopFront()
		played, err := p.play(n)
		tones += played
		if err != nil {
			return err
		}
		if seq.Loop {
			queue.PushBack(n)
		}

		left--
		if left > 0 || !seq.Loop {
			continue
		}
		if tones == 0 {
			slog.Info("Loop pass played no tone, stopping")
			return p.finish()
		}
		if p.reload != nil {
			if next, ok := p.reload.Take(); ok {
				slog.Info("Switching to reloaded sequence", "notes", len(next.Notes))
				seq.Notes = next.Notes
				load(seq)
			}
		}
		left = queue.Len()
		tones = 0
	}
	return p.finish()
}
