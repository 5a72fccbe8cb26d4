package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
	c "lautenbacher.net/gobeep/config"
	"lautenbacher.net/gobeep/driver"
	"lautenbacher.net/gobeep/logging"
	"lautenbacher.net/gobeep/score"
	"lautenbacher.net/gobeep/sequencer"
	"lautenbacher.net/gobeep/util"
)

const (
	exitOK     = 0
	exitFail   = 1
	exitConfig = 2
)

var newAbortFlag = util.NewAbortFlag

var privilegeCheck = func() error {
	return checkPrivileges(currentIDs(), os.LookupEnv)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, driver.Default()))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, reg *driver.Registry) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "gobeep: %v\n", err)
		printUsage(stderr)
		return exitFail
	}
	if opts.help {
		printUsage(stdout)
		return exitOK
	}
	if opts.version {
		printVersion(stdout)
		return exitOK
	}

	conf := c.Default()
	if cfile := c.Locate(opts.configFile); cfile != "" {
		if conf, err = c.ReadConfig(cfile); err != nil {
			fmt.Fprintf(stderr, "gobeep: %v\n", err)
			return exitConfig
		}
	}

	level := logging.LevelFor(conf.Logging.Level, opts.verbosity())
	if err := logging.Init(stderr, level, conf.Logging.Format, conf.Logging.File); err != nil {
		fmt.Fprintf(stderr, "gobeep: can't open log file: %v\n", err)
		return exitConfig
	}
	defer logging.Close()
	slog.Debug("Configuration loaded", "file", conf.Configfile, "level", level)

	if err := privilegeCheck(); err != nil {
		slog.Error(err.Error())
		return exitFail
	}

	seq, err := sequence(opts, conf)
	if err != nil {
		slog.Error("Invalid notes", "error", err)
		return exitFail
	}

	driver.RegisterBuiltin(reg, conf.Drivers)
	hint := opts.device
	if hint == "" {
		hint = conf.Device
	}
	drv, code := detect(reg, hint, stdout)
	if drv == nil {
		return code
	}
	reg.Init(drv)

	// No signal handling before here: nothing is sounding yet and there is
	// nothing to clean up.
	abort := newAbortFlag()
	stopSignals := util.NotifyAbort(abort)
	defer stopSignals()

	playerOpts := []sequencer.Option{
		sequencer.WithInput(stdin),
		sequencer.WithOutput(stdout),
	}
	if opts.scoreFile != "" && seq.Loop {
		reload := util.NewLatest[sequencer.Sequence]()
		stopWatch, err := score.Watch(opts.scoreFile, conf.Defaults, reload)
		if err != nil {
			slog.Warn("Not watching score for changes", "file", opts.scoreFile, "error", err)
		} else {
			defer stopWatch()
			playerOpts = append(playerOpts, sequencer.WithReload(reload))
		}
	}

	player := sequencer.NewPlayer(reg, drv, abort, playerOpts...)
	err = player.Play(seq)
	if errors.Is(err, sequencer.ErrAborted) {
		slog.Info("Interrupted")
		return exitFail
	}
	player.Close()
	if err != nil {
		slog.Error("Playing failed", "error", err)
		return exitFail
	}
	return exitOK
}

// sequence builds what to play from either the score file or the note
// options.
func sequence(opts *options, conf *c.Config) (sequencer.Sequence, error) {
	if opts.scoreFile == "" {
		return score.Resolve(opts.notes, opts.loop, conf.Defaults)
	}
	seq, err := score.Load(opts.scoreFile, conf.Defaults)
	if err != nil {
		return seq, err
	}
	seq.Loop = seq.Loop || opts.loop
	return seq, nil
}

// detect returns the driver to use, or nil and the exit status.
func detect(reg *driver.Registry, hint string, stdout io.Writer) (driver.Driver, int) {
	drv, err := reg.Detect(hint)
	switch {
	case err == nil:
		return drv, exitOK
	case errors.Is(err, driver.ErrNoDrivers):
		slog.Error("No drivers compiled in, this is a build problem")
		return nil, exitConfig
	case hint != "":
		slog.Error("Could not open device", "device", hint, "error", err)
		return nil, exitFail
	default:
		slog.Error("Could not open any device", "error", err)
		fallbackBeep(stdout)
		return nil, exitFail
	}
}

// fallbackBeep rings the terminal bell, the one beep left without a
// device. It only makes a sound on a terminal.
func fallbackBeep(stdout io.Writer) {
	f, ok := stdout.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return
	}
	io.WriteString(stdout, "\a")
}
