package driver

import (
	"sync/atomic"
)

// squareWave generates a square wave at a frequency that may be changed
// at any time from another goroutine. fill is only ever called from the
// audio callback.
type squareWave struct {
	freq   atomic.Uint32
	rate   float64
	volume float32
	phase  float64
}

func newSquareWave(rate, volume float64) *squareWave {
	return &squareWave{rate: rate, volume: float32(volume)}
}

func (w *squareWave) setFreq(freq uint16) {
	w.freq.Store(uint32(freq))
}

func (w *squareWave) fill(out []float32) {
	freq := w.freq.Load()
	if freq == 0 {
		for i := range out {
			out[i] = 0
		}
		w.phase = 0
		return
	}
	step := float64(freq) / w.rate
	for i := range out {
		if w.phase < 0.5 {
			out[i] = w.volume
		} else {
			out[i] = -w.volume
		}
		w.phase += step
		for w.phase >= 1 {
			w.phase--
		}
	}
}
