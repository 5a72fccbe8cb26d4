// Package driver contains the backends that make the PC speaker (or
// something that can stand in for it) produce a tone, and the registry
// used to pick the first backend that finds a usable device.
package driver

import (
	"errors"
)

var (
	// ErrNoDrivers means nothing was registered at all. This is a build
	// or configuration problem, not a missing device.
	ErrNoDrivers = errors.New("no drivers registered")

	// ErrNoDevice means every registered driver failed to detect a
	// usable device.
	ErrNoDevice = errors.New("no usable device found")

	// ErrNotOpen is returned by tone operations on a driver whose device
	// has not been detected or has already been released.
	ErrNotOpen = errors.New("device not open")
)

// Driver is the capability set every backend implements.
//
// A driver owns its device exclusively from a successful Detect until
// Fini. Detect must not hold any resource when it returns false.
type Driver interface {
	// Name is the unique backend name, e.g. "evdev".
	Name() string

	// Device is the path or name of the device in use, empty before
	// Detect succeeded.
	Device() string

	// Detect opens and validates the hinted device, or probes the
	// backend's list of well-known devices if hint is empty.
	Detect(hint string) bool

	// Init runs backend specific setup after the driver was selected.
	Init() error

	// Fini releases the device.
	Fini() error

	// BeginTone starts a continuous tone at freq Hz. A freq of 0 is an
	// explicit request for silence.
	BeginTone(freq uint16) error

	// EndTone stops the tone. It is the same as BeginTone(0).
	EndTone() error
}
