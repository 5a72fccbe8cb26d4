package driver

import (
	c "lautenbacher.net/gobeep/config"
)

// RegisterBuiltin registers every backend compiled into this binary with
// r. The resulting detection order is evdev, console, gpio, pcm, noop; a
// forced noop driver goes to the head of the list instead.
func RegisterBuiltin(r *Registry, cfg c.DriversConfig) {
	noop := NewNoopDriver(cfg.Noop.Force)
	if !cfg.Noop.Force {
		r.Register(noop)
	}
	if cfg.PCM.Enabled {
		if d := newPCMDriver(cfg.PCM); d != nil {
			r.Register(d)
		}
	}
	for _, d := range platformDrivers(cfg) {
		r.Register(d)
	}
	if cfg.Noop.Force {
		r.Register(noop)
	}
}
