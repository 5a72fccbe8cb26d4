package driver

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// from linux/input-event-codes.h
const (
	evSnd   = 0x12
	sndTone = 0x02
)

// EVIOCGSND(0) from linux/input.h: _IOC(_IOC_READ, 'E', 0x1a, 0)
const eviocgsnd0 = 2<<30 | 'E'<<8 | 0x1a

// inputEvent mirrors struct input_event; its size follows the platform's
// struct timeval.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

func encodeToneEvent(freq uint16) []byte {
	var buf bytes.Buffer
	ev := inputEvent{Type: evSnd, Code: sndTone, Value: int32(freq)}
	// writing a fixed size struct to a bytes.Buffer cannot fail
	_ = binary.Write(&buf, binary.NativeEndian, &ev)
	return buf.Bytes()
}

func probeSoundEvents(fd uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, eviocgsnd0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// EvdevDriver drives the speaker by writing EV_SND/SND_TONE events to an
// input event device.
type EvdevDriver struct {
	charDevice
}

// NewEvdevDriver creates an evdev driver probing devices, in order, when
// no device hint is given.
func NewEvdevDriver(devices []string) *EvdevDriver {
	d := &EvdevDriver{}
	d.charDevice = charDevice{
		name:     "evdev",
		defaults: devices,
		probe:    func(f *os.File) error { return probeSoundEvents(f.Fd()) },
	}
	return d
}

func (d *EvdevDriver) writeTone(freq uint16) error {
	if d.file == nil {
		return ErrNotOpen
	}
	ev := encodeToneEvent(freq)
	n, err := d.file.Write(ev)
	if err != nil {
		return err
	}
	if n != len(ev) {
		return io.ErrShortWrite
	}
	return nil
}

// BeginTone writes a SND_TONE event with freq as value.
func (d *EvdevDriver) BeginTone(freq uint16) error {
	slog.Debug("driver_begin_tone", "driver", d.name, "freq", freq)
	return d.writeTone(freq)
}

// EndTone writes a SND_TONE event with value 0.
func (d *EvdevDriver) EndTone() error {
	slog.Debug("driver_end_tone", "driver", d.name)
	return d.writeTone(0)
}
