package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stianeikeland/go-rpio/v4"
	"github.com/stretchr/testify/assert"
	c "lautenbacher.net/gobeep/config"
)

type fakePin struct {
	calls []string
}

func (p *fakePin) Mode(mode rpio.Mode) {
	p.calls = append(p.calls, fmt.Sprintf("mode(%d)", mode))
}

func (p *fakePin) Freq(freq int) {
	p.calls = append(p.calls, fmt.Sprintf("freq(%d)", freq))
}

func (p *fakePin) DutyCycle(dutyLen, cycleLen uint32) {
	p.calls = append(p.calls, fmt.Sprintf("duty(%d/%d)", dutyLen, cycleLen))
}

func newTestGPIO(t *testing.T, openErr error) (*GPIODriver, *fakePin, *int) {
	oldDevices, oldRanges := gpioDevices, socRanges
	gpioDevices = []string{"/dev/null"}
	socRanges = filepath.Join(t.TempDir(), "ranges")
	if err := os.WriteFile(socRanges, []byte{0x7e, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("Failed to write fake soc ranges: %v", err)
	}
	t.Cleanup(func() { gpioDevices, socRanges = oldDevices, oldRanges })

	pin := &fakePin{}
	closed := 0
	d := NewGPIODriver(c.GPIOConfig{Enabled: true, Pin: 18, Cycle: 32})
	d.pin = pin
	d.open = func() error { return openErr }
	d.close = func() error { closed++; return nil }
	return d, pin, &closed
}

func TestGPIODetectAndTones(t *testing.T) {
	d, pin, closed := newTestGPIO(t, nil)

	assert.True(t, d.Detect(""))
	assert.Equal(t, "/dev/null", d.Device())
	assert.NoError(t, d.Init())
	assert.NoError(t, d.BeginTone(1000))
	assert.NoError(t, d.EndTone())
	assert.NoError(t, d.EndTone())
	assert.NoError(t, d.Fini())
	assert.Equal(t, 1, *closed)

	assert.Equal(t, []string{
		fmt.Sprintf("mode(%d)", rpio.Pwm), "duty(0/32)",
		"freq(32000)", "duty(16/32)",
		"duty(0/32)",
		"duty(0/32)",
		"duty(0/32)", fmt.Sprintf("mode(%d)", rpio.Output),
	}, pin.calls)

	assert.ErrorIs(t, d.BeginTone(1000), ErrNotOpen)
	assert.NoError(t, d.Fini(), "a second Fini does nothing")
	assert.Equal(t, 1, *closed)
}

func TestGPIODetectFailures(t *testing.T) {
	d, pin, _ := newTestGPIO(t, errors.New("permission denied"))
	assert.False(t, d.Detect(""), "mapping failure fails detection")
	assert.Empty(t, pin.calls)

	d, _, _ = newTestGPIO(t, nil)
	assert.False(t, d.Detect("/dev/input/event0"), "only GPIO memory devices are accepted as hint")
	assert.True(t, d.Detect("/dev/null"))
}

func TestGPIODetectNeedsBCMBoard(t *testing.T) {
	d, pin, _ := newTestGPIO(t, nil)
	socRanges = filepath.Join(t.TempDir(), "missing")

	assert.False(t, d.Detect(""), "/dev/mem alone does not make a Pi")
	assert.False(t, d.Detect("/dev/null"))
	assert.Empty(t, pin.calls, "nothing is written without a BCM board")
}

func TestGPIODetectReportsMappedDevice(t *testing.T) {
	d, _, _ := newTestGPIO(t, nil)
	gpioDevices = []string{filepath.Join(t.TempDir(), "gpiomem"), "/dev/null", "/dev/zero"}

	assert.False(t, d.Detect("/dev/zero"), "go-rpio would map /dev/null, not the hint")
	assert.True(t, d.Detect(""))
	assert.Equal(t, "/dev/null", d.Device(), "the first usable device in go-rpio's order")
}
