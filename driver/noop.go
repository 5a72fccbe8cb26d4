package driver

import (
	"log/slog"
)

// NoopDriver never makes a sound. It fails detection unless forced, so it
// keeps the registry from being empty without ever hiding a real device.
type NoopDriver struct {
	force    bool
	detected bool
}

// NewNoopDriver creates the silent backend. Only a forced one detects.
func NewNoopDriver(force bool) *NoopDriver {
	return &NoopDriver{force: force}
}

func (d *NoopDriver) Name() string {
	return "noop"
}

func (d *NoopDriver) Device() string {
	if d.detected {
		return "(none)"
	}
	return ""
}

func (d *NoopDriver) Detect(hint string) bool {
	slog.Debug("noop driver_detect", "hint", hint, "forced", d.force)
	d.detected = d.force
	return d.force
}

func (d *NoopDriver) Init() error {
	slog.Debug("noop driver_init")
	return nil
}

func (d *NoopDriver) Fini() error {
	slog.Debug("noop driver_fini")
	d.detected = false
	return nil
}

// BeginTone does nothing.
func (d *NoopDriver) BeginTone(freq uint16) error {
	slog.Debug("noop driver_begin_tone", "freq", freq)
	return nil
}

// EndTone does nothing.
func (d *NoopDriver) EndTone() error {
	slog.Debug("noop driver_end_tone")
	return nil
}
