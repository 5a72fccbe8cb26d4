package driver

import (
	"log/slog"
	"os"
	"slices"

	"github.com/stianeikeland/go-rpio/v4"
	c "lautenbacher.net/gobeep/config"
)

// The memory devices go-rpio maps, in the order it tries them.
var gpioDevices = []string{"/dev/gpiomem", "/dev/mem"}

// socRanges only exists on device tree boards with a BCM SoC. /dev/mem
// exists everywhere, so it alone says nothing about the board.
var socRanges = "/proc/device-tree/soc/ranges"

// pwmPin is the subset of rpio.Pin used for the buzzer.
type pwmPin interface {
	Mode(mode rpio.Mode)
	Freq(freq int)
	DutyCycle(dutyLen, cycleLen uint32)
}

// GPIODriver drives a piezo buzzer from a hardware PWM pin. The PWM clock
// is set to freq*cycle so one PWM cycle is one period of the tone.
type GPIODriver struct {
	cfg    c.GPIOConfig
	path   string
	pin    pwmPin
	open   func() error
	close  func() error
	active bool
}

// NewGPIODriver creates the buzzer backend for the configured pin.
func NewGPIODriver(cfg c.GPIOConfig) *GPIODriver {
	return &GPIODriver{
		cfg:   cfg,
		pin:   rpio.Pin(cfg.Pin),
		open:  rpio.Open,
		close: rpio.Close,
	}
}

func (d *GPIODriver) Name() string {
	return "gpio"
}

func (d *GPIODriver) Device() string {
	return d.path
}

// Detect checks for a BCM board, then maps its GPIO memory and sets the
// pin to silent PWM. A hint must name the memory device go-rpio is going
// to map.
func (d *GPIODriver) Detect(hint string) bool {
	slog.Debug("driver_detect", "driver", "gpio", "hint", hint, "pin", d.cfg.Pin)
	if hint != "" && !slices.Contains(gpioDevices, hint) {
		return false
	}
	if _, err := os.Stat(socRanges); err != nil {
		slog.Debug("Not a BCM board", "error", err)
		return false
	}

	path := ""
	for _, candidate := range gpioDevices {
		if err := checkCharDevice(candidate); err != nil {
			slog.Debug("GPIO device not usable", "error", err)
			continue
		}
		path = candidate
		break
	}
	if path == "" {
		return false
	}
	if hint != "" && hint != path {
		slog.Debug("GPIO memory would be mapped from another device", "hint", hint, "device", path)
		return false
	}

	if err := d.open(); err != nil {
		slog.Debug("Failed to map GPIO memory", "device", path, "error", err)
		return false
	}
	d.pin.Mode(rpio.Pwm)
	d.pin.DutyCycle(0, d.cfg.Cycle)
	d.path = path
	d.active = true
	return true
}

func (d *GPIODriver) Init() error {
	slog.Debug("driver_init", "driver", "gpio")
	return nil
}

func (d *GPIODriver) Fini() error {
	slog.Debug("driver_fini", "driver", "gpio")
	if !d.active {
		return nil
	}
	d.pin.DutyCycle(0, d.cfg.Cycle)
	d.pin.Mode(rpio.Output)
	d.active = false
	return d.close()
}

// BeginTone sets the PWM clock to freq*cycle at 50% duty, 0 turns the
// duty cycle off.
func (d *GPIODriver) BeginTone(freq uint16) error {
	slog.Debug("driver_begin_tone", "driver", "gpio", "freq", freq)
	if !d.active {
		return ErrNotOpen
	}
	if freq == 0 {
		d.pin.DutyCycle(0, d.cfg.Cycle)
		return nil
	}
	d.pin.Freq(int(freq) * int(d.cfg.Cycle))
	d.pin.DutyCycle(d.cfg.Cycle/2, d.cfg.Cycle)
	return nil
}

func (d *GPIODriver) EndTone() error {
	return d.BeginTone(0)
}
