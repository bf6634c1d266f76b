package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/dpend/internal/sim"
)

var ErrTooShort = errors.New("analysis: not enough samples")

// PowerSpectrum returns the magnitudes of the first n/2 frequency bins of
// samples after removing their mean.
func PowerSpectrum(samples []float64) []float64 {
	n := len(samples)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range samples {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

type Peak struct {
	Frequency float64
	Magnitude float64
}

// DominantFrequency finds the strongest non-zero frequency in samples taken
// dt apart.
func DominantFrequency(samples []float64, dt float64) (Peak, error) {
	if len(samples) < 4 {
		return Peak{}, ErrTooShort
	}
	ps := PowerSpectrum(samples)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return Peak{
		Frequency: float64(best) / (float64(len(samples)) * dt),
		Magnitude: ps[best],
	}, nil
}

// Series extracts one quantity from each frame.
func Series(frames []sim.Frame, value func(sim.Frame) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = value(f)
	}
	return out
}

// SampleInterval is the simulated time between consecutive frames.
func SampleInterval(frames []sim.Frame) float64 {
	if len(frames) < 2 {
		return 0
	}
	return frames[1].Time - frames[0].Time
}
