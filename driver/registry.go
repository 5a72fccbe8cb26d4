package driver

import (
	"log/slog"
	"sync"
)

// Registry is an ordered list of drivers. Drivers are registered during
// startup and tried most-recently-registered first. Once Detect has been
// called the list is frozen.
type Registry struct {
	mu      sync.Mutex
	drivers []Driver
	sealed  bool
	fatal   func(op string, err error)
}

var defaultRegistry = NewRegistry()

// NewRegistry returns an empty registry whose tone forwarding terminates
// the process on a device failure.
func NewRegistry() *Registry {
	return &Registry{
		fatal: safeErrorExit,
	}
}

// Default returns the process wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register makes d visible to Detect on the process wide registry.
func Register(d Driver) {
	defaultRegistry.Register(d)
}

// Register puts d at the head of the list, so it is tried before every
// driver registered earlier. Registering after Detect is a programming
// error and panics.
func (r *Registry) Register(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		panic("driver: Register called after Detect")
	}
	slog.Debug("beep_drivers_register", "driver", d.Name())
	r.drivers = append([]Driver{d}, r.drivers...)
}

// Drivers returns the registered drivers in detection order.
func (r *Registry) Drivers() []Driver {
	r.mu.Lock()
	defer r.mu.Unlock()

	ret := make([]Driver, len(r.drivers))
	copy(ret, r.drivers)
	return ret
}

// Detect returns the first driver, in registration order, whose Detect
// succeeds for hint. It returns ErrNoDrivers if the registry is empty and
// ErrNoDevice if every driver failed.
func (r *Registry) Detect(hint string) (Driver, error) {
	r.mu.Lock()
	r.sealed = true
	drivers := r.drivers
	r.mu.Unlock()

	if len(drivers) == 0 {
		return nil, ErrNoDrivers
	}
	for _, d := range drivers {
		if d.Detect(hint) {
			slog.Info("Using driver", "driver", d.Name(), "device", d.Device())
			return d, nil
		}
		slog.Debug("Driver did not detect a device", "driver", d.Name(), "hint", hint)
	}
	return nil, ErrNoDevice
}

// Init forwards to d.Init. A failure is fatal.
func (r *Registry) Init(d Driver) {
	if err := d.Init(); err != nil {
		r.fatal("init "+d.Name(), err)
	}
}

// Fini forwards to d.Fini. The device is gone either way, so a failure is
// only logged.
func (r *Registry) Fini(d Driver) {
	if err := d.Fini(); err != nil {
		slog.Warn("Failed to release device", "driver", d.Name(), "error", err)
	}
}

// BeginTone forwards to d.BeginTone. A failure is fatal: a device that
// cannot start a tone cannot be trusted to stop one either.
func (r *Registry) BeginTone(d Driver, freq uint16) {
	if err := d.BeginTone(freq); err != nil {
		r.fatal("begin_tone "+d.Name(), err)
	}
}

// EndTone forwards to d.EndTone. A failure is fatal.
func (r *Registry) EndTone(d Driver) {
	if err := d.EndTone(); err != nil {
		r.fatal("end_tone "+d.Name(), err)
	}
}
