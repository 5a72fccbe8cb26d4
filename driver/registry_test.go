package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"lautenbacher.net/gobeep/driver/drivertest"
)

type fatalCall struct {
	op  string
	err error
}

func newTestRegistry(calls *[]fatalCall) *Registry {
	r := NewRegistry()
	r.fatal = func(op string, err error) {
		*calls = append(*calls, fatalCall{op, err})
	}
	return r
}

func names(drivers []Driver) []string {
	ret := make([]string, 0, len(drivers))
	for _, d := range drivers {
		ret = append(ret, d.Name())
	}
	return ret
}

func TestRegisterOrder(t *testing.T) {
	log := &drivertest.Log{}
	r := NewRegistry()
	r.Register(drivertest.New("a", false, log))
	r.Register(drivertest.New("b", false, log))
	r.Register(drivertest.New("c", false, log))

	assert.Equal(t, []string{"c", "b", "a"}, names(r.Drivers()), "most recently registered driver comes first")
}

func TestDetectReturnsFirstSuccess(t *testing.T) {
	log := &drivertest.Log{}
	r := NewRegistry()
	r.Register(drivertest.New("a", true, log))
	r.Register(drivertest.New("b", false, log))
	r.Register(drivertest.New("c", true, log))

	d, err := r.Detect("/dev/x")
	assert.NoError(t, err)
	assert.Equal(t, "c", d.Name())
	assert.Equal(t, "/dev/x", d.Device())
	assert.Equal(t, []string{"c.detect(/dev/x)"}, log.Entries(), "no driver after the first success is asked")
}

func TestDetectSkipsFailures(t *testing.T) {
	log := &drivertest.Log{}
	r := NewRegistry()
	r.Register(drivertest.New("a", true, log))
	r.Register(drivertest.New("b", false, log))
	r.Register(drivertest.New("c", false, log))

	d, err := r.Detect("")
	assert.NoError(t, err)
	assert.Equal(t, "a", d.Name())
	assert.Equal(t, []string{"c.detect()", "b.detect()", "a.detect()"}, log.Entries())
}

func TestDetectNoDevice(t *testing.T) {
	log := &drivertest.Log{}
	r := NewRegistry()
	r.Register(drivertest.New("a", false, log))
	r.Register(NewNoopDriver(false))

	d, err := r.Detect("")
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestDetectEmptyRegistry(t *testing.T) {
	r := NewRegistry()

	d, err := r.Detect("")
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrNoDrivers, "an empty registry is reported distinctly from a missing device")
	assert.False(t, errors.Is(err, ErrNoDevice))
}

func TestRegisterAfterDetectPanics(t *testing.T) {
	log := &drivertest.Log{}
	r := NewRegistry()
	r.Register(drivertest.New("a", true, log))
	_, _ = r.Detect("")

	assert.Panics(t, func() { r.Register(drivertest.New("late", true, log)) })
}

func TestForwarding(t *testing.T) {
	var calls []fatalCall
	log := &drivertest.Log{}
	r := newTestRegistry(&calls)
	rec := drivertest.New("rec", true, log)
	r.Register(rec)

	d, err := r.Detect("")
	assert.NoError(t, err)
	r.Init(d)
	r.BeginTone(d, 440)
	r.EndTone(d)
	r.EndTone(d)
	r.Fini(d)

	assert.Equal(t, []string{"rec.detect()", "init", "begin(440)", "end", "end", "fini"}, log.Entries())
	assert.Empty(t, calls)
}

func TestToneFailureIsFatal(t *testing.T) {
	var calls []fatalCall
	log := &drivertest.Log{}
	r := newTestRegistry(&calls)
	rec := drivertest.New("rec", true, log)
	rec.Err = errors.New("EIO")

	r.BeginTone(rec, 1000)
	r.EndTone(rec)

	if assert.Len(t, calls, 2) {
		assert.Equal(t, "begin_tone rec", calls[0].op)
		assert.Equal(t, "end_tone rec", calls[1].op)
		assert.EqualError(t, calls[1].err, "EIO")
	}
}

type failingFini struct {
	NoopDriver
}

func (f *failingFini) Fini() error {
	return errors.New("close failed")
}

func TestFiniFailureIsNotFatal(t *testing.T) {
	var calls []fatalCall
	r := newTestRegistry(&calls)
	r.Fini(&failingFini{})
	assert.Empty(t, calls)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, defaultRegistry, Default())
}
