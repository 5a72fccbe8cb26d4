package driver

import (
	"fmt"
	"log/slog"
	"os"
)

// checkCharDevice fails unless path names a character device special file.
func checkCharDevice(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not stat %s: %w", path, err)
	}
	if fi.Mode()&os.ModeCharDevice == 0 {
		return fmt.Errorf("%s is not a character device", path)
	}
	return nil
}

// openCheckedCharDevice opens path write-only after making sure it is a
// character device, and checks again on the open file so a path swapped
// in between does not get past.
func openCheckedCharDevice(path string) (*os.File, error) {
	if err := checkCharDevice(path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	slog.Debug("Opened device", "device", path, "fd", f.Fd())

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not fstat %s: %w", path, err)
	}
	if fi.Mode()&os.ModeCharDevice == 0 {
		f.Close()
		return nil, fmt.Errorf("%s is not a character device", path)
	}
	return f, nil
}

// charDevice carries what the console and evdev backends have in common:
// a name, the list of default device paths and the open device file.
type charDevice struct {
	name     string
	defaults []string
	path     string
	file     *os.File
	// probe checks that an opened device speaks the backend's sound API.
	probe func(f *os.File) error
}

func (c *charDevice) Name() string {
	return c.name
}

func (c *charDevice) Device() string {
	return c.path
}

// Detect tries exactly the hinted path if there is one, otherwise each
// default path in order.
func (c *charDevice) Detect(hint string) bool {
	slog.Debug("driver_detect", "driver", c.name, "hint", hint)
	if hint != "" {
		return c.tryOpen(hint)
	}
	for _, path := range c.defaults {
		if c.tryOpen(path) {
			return true
		}
	}
	return false
}

func (c *charDevice) tryOpen(path string) bool {
	f, err := openCheckedCharDevice(path)
	if err != nil {
		slog.Debug("Device not usable", "driver", c.name, "error", err)
		return false
	}
	if err := c.probe(f); err != nil {
		slog.Debug("Device does not implement the sound API", "driver", c.name, "device", path, "error", err)
		f.Close()
		return false
	}
	c.file = f
	c.path = path
	return true
}

func (c *charDevice) Init() error {
	slog.Debug("driver_init", "driver", c.name)
	return nil
}

func (c *charDevice) Fini() error {
	slog.Debug("driver_fini", "driver", c.name)
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}
