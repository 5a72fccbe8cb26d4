package driver

import (
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// clockTickRate is the PIT input clock (PIT_TICK_RATE in the kernel) the
// speaker counter divides down to the tone frequency.
const clockTickRate = 1193182

// KIOCSOUND from linux/kd.h
const kiocsound = 0x4B2F

// consoleDivisor maps a frequency to the 16 bit counter value KIOCSOUND
// expects. 0 means silence.
func consoleDivisor(freq uint32) uint32 {
	if freq == 0 {
		return 0
	}
	return (clockTickRate / freq) & 0xffff
}

func kiocSound(fd uintptr, divisor uint32) error {
	return unix.IoctlSetInt(int(fd), kiocsound, int(divisor))
}

// ConsoleDriver drives the speaker through the console KIOCSOUND ioctl.
type ConsoleDriver struct {
	charDevice
	ioctl func(fd uintptr, divisor uint32) error
}

// NewConsoleDriver creates a console driver probing devices, in order,
// when no device hint is given.
func NewConsoleDriver(devices []string) *ConsoleDriver {
	d := &ConsoleDriver{ioctl: kiocSound}
	d.charDevice = charDevice{
		name:     "console",
		defaults: devices,
		// Silencing the speaker is harmless and proves the ioctl works.
		probe: func(f *os.File) error { return d.ioctl(f.Fd(), 0) },
	}
	return d
}

// BeginTone programs the speaker counter for freq, 0 silences it.
func (d *ConsoleDriver) BeginTone(freq uint16) error {
	slog.Debug("driver_begin_tone", "driver", d.name, "freq", freq)
	if d.file == nil {
		return ErrNotOpen
	}
	return d.ioctl(d.file.Fd(), consoleDivisor(uint32(freq)))
}

// EndTone sets the counter to 0.
func (d *ConsoleDriver) EndTone() error {
	slog.Debug("driver_end_tone", "driver", d.name)
	if d.file == nil {
		return ErrNotOpen
	}
	return d.ioctl(d.file.Fd(), 0)
}
