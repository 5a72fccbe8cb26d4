//go:build cgo

package driver

import (
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
	c "lautenbacher.net/gobeep/config"
)

// PCMDriver plays a square wave on a PortAudio output device, for
// machines whose speaker is wired to the sound card or missing entirely.
type PCMDriver struct {
	cfg         c.PCMConfig
	device      *portaudio.DeviceInfo
	stream      *portaudio.Stream
	wave        *squareWave
	initialized bool
}

// NewPCMDriver creates the PortAudio backend.
func NewPCMDriver(cfg c.PCMConfig) *PCMDriver {
	return &PCMDriver{
		cfg:  cfg,
		wave: newSquareWave(cfg.SampleRate, cfg.Volume),
	}
}

func newPCMDriver(cfg c.PCMConfig) Driver {
	return NewPCMDriver(cfg)
}

func (d *PCMDriver) Name() string {
	return "pcm"
}

func (d *PCMDriver) Device() string {
	if d.device == nil {
		return ""
	}
	return d.device.Name
}

// Detect opens an output stream on the hinted PortAudio device, on the
// configured device, or on the default output, in that order of
// preference. The stream stays stopped until Init.
func (d *PCMDriver) Detect(hint string) bool {
	slog.Debug("driver_detect", "driver", "pcm", "hint", hint)
	name := hint
	if name == "" {
		name = d.cfg.Device
	}

	if err := portaudio.Initialize(); err != nil {
		slog.Debug("Failed to initialize portaudio", "error", err)
		return false
	}
	d.initialized = true

	dev, err := d.findDevice(name)
	if err == nil {
		err = d.openStream(dev)
	}
	if err != nil {
		slog.Debug("PCM device not usable", "device", name, "error", err)
		d.terminate()
		return false
	}
	d.device = dev
	return true
}

func (d *PCMDriver) findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		return portaudio.DefaultOutputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		if dev.Name == name && dev.MaxOutputChannels > 0 {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no output device named %q", name)
}

func (d *PCMDriver) openStream(dev *portaudio.DeviceInfo) error {
	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = 1
	params.SampleRate = d.cfg.SampleRate
	stream, err := portaudio.OpenStream(params, d.wave.fill)
	if err != nil {
		return err
	}
	d.stream = stream
	return nil
}

func (d *PCMDriver) terminate() {
	if d.initialized {
		if err := portaudio.Terminate(); err != nil {
			slog.Warn("Failed to terminate portaudio", "error", err)
		}
		d.initialized = false
	}
}

func (d *PCMDriver) Init() error {
	slog.Debug("driver_init", "driver", "pcm")
	if d.stream == nil {
		return ErrNotOpen
	}
	d.wave.setFreq(0)
	return d.stream.Start()
}

func (d *PCMDriver) Fini() error {
	slog.Debug("driver_fini", "driver", "pcm")
	var firstErr error
	if d.stream != nil {
		d.wave.setFreq(0)
		if err := d.stream.Stop(); err != nil {
			firstErr = err
		}
		if err := d.stream.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		d.stream = nil
	}
	d.terminate()
	return firstErr
}

// BeginTone switches the generated wave to freq.
func (d *PCMDriver) BeginTone(freq uint16) error {
	slog.Debug("driver_begin_tone", "driver", "pcm", "freq", freq)
	if d.stream == nil {
		return ErrNotOpen
	}
	d.wave.setFreq(freq)
	return nil
}

func (d *PCMDriver) EndTone() error {
	slog.Debug("driver_end_tone", "driver", "pcm")
	if d.stream == nil {
		return ErrNotOpen
	}
	d.wave.setFreq(0)
	return nil
}
