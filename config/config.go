package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CONFILE is read when neither --config nor GOBEEP_CONFIG name a file.
const CONFILE = "/etc/gobeep.yml"

// ENVCONFIG names the environment variable that may point to a config file.
const ENVCONFIG = "GOBEEP_CONFIG"

// Upper bounds applied to everything a user can hand to the tone loop.
const (
	MaxFreq  = 20000
	MaxValue = 300000
)

type Config struct {
	Configfile string        `yaml:"-"`
	Device     string        `yaml:"Device"`
	Defaults   NoteDefaults  `yaml:"Defaults"`
	Logging    LoggingConfig `yaml:"Logging"`
	Drivers    DriversConfig `yaml:"Drivers"`
}

// NoteDefaults are the values every new note starts out with.
type NoteDefaults struct {
	Freq     uint32 `yaml:"Freq"`
	Length   uint32 `yaml:"Length"`
	Reps     uint32 `yaml:"Reps"`
	Delay    uint32 `yaml:"Delay"`
	EndDelay bool   `yaml:"EndDelay"`
}

type LoggingConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

type DriversConfig struct {
	Console CharDeviceConfig `yaml:"Console"`
	Evdev   CharDeviceConfig `yaml:"Evdev"`
	PCM     PCMConfig        `yaml:"PCM"`
	GPIO    GPIOConfig       `yaml:"GPIO"`
	Noop    NoopConfig       `yaml:"Noop"`
}

// CharDeviceConfig lists the device files probed, in order, when no
// device hint is given.
type CharDeviceConfig struct {
	Devices []string `yaml:"Devices"`
}

type PCMConfig struct {
	Enabled    bool    `yaml:"Enabled"`
	Device     string  `yaml:"Device"`
	SampleRate float64 `yaml:"SampleRate"`
	Volume     float64 `yaml:"Volume"`
}

type GPIOConfig struct {
	Enabled bool   `yaml:"Enabled"`
	Pin     int    `yaml:"Pin"`
	Cycle   uint32 `yaml:"Cycle"`
}

type NoopConfig struct {
	Force bool `yaml:"Force"`
}

// Default returns the built-in configuration used when no config file is
// present. ReadConfig decodes on top of it, so a config file only needs
// to name the values it changes.
func Default() *Config {
	return &Config{
		Defaults: NoteDefaults{
			Freq:   440,
			Length: 200,
			Reps:   1,
			Delay:  100,
		},
		Logging: LoggingConfig{
			Level:  "WARN",
			Format: "text",
		},
		Drivers: DriversConfig{
			Console: CharDeviceConfig{Devices: []string{"/dev/tty0", "/dev/vc/0"}},
			Evdev:   CharDeviceConfig{Devices: []string{"/dev/input/by-path/platform-pcspkr-event-spkr"}},
			PCM: PCMConfig{
				SampleRate: 44100,
				Volume:     0.25,
			},
			GPIO: GPIOConfig{
				Pin:   18,
				Cycle: 32,
			},
		},
	}
}

// ReadConfig decodes the YAML file cfile over the defaults and validates
// the result.
func ReadConfig(cfile string) (*Config, error) {
	conf := Default()

	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", cfile, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("can't decode config file %s: %w", cfile, err)
	}
	conf.Configfile = cfile

	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", cfile, err)
	}
	return conf, nil
}

// Locate returns the config file to read: the explicit path if given,
// then $GOBEEP_CONFIG, then CONFILE if it exists. An empty result means
// the built-in defaults apply.
func Locate(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ENVCONFIG); env != "" {
		return env
	}
	if _, err := os.Stat(CONFILE); err == nil {
		return CONFILE
	}
	return ""
}

func (conf *Config) validate() error {
	d := conf.Defaults
	if d.Freq > MaxFreq {
		return fmt.Errorf("Defaults.Freq %d must be between 0 and %d", d.Freq, MaxFreq)
	}
	for name, v := range map[string]uint32{
		"Length": d.Length,
		"Reps":   d.Reps,
		"Delay":  d.Delay,
	} {
		if v > MaxValue {
			return fmt.Errorf("Defaults.%s %d must be between 0 and %d", name, v, MaxValue)
		}
	}

	pcm := conf.Drivers.PCM
	if pcm.Volume < 0 || pcm.Volume > 1 {
		return fmt.Errorf("Drivers.PCM.Volume %.2f must be between 0 and 1", pcm.Volume)
	}
	if pcm.SampleRate <= 0 {
		return fmt.Errorf("Drivers.PCM.SampleRate must be positive")
	}
	if conf.Drivers.GPIO.Cycle < 2 {
		return fmt.Errorf("Drivers.GPIO.Cycle must be at least 2")
	}
	if conf.Drivers.GPIO.Pin < 0 {
		return fmt.Errorf("Drivers.GPIO.Pin must not be negative")
	}
	return nil
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
