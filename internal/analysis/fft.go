package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// PowerSpectrum returns the magnitude of the positive-frequency half of the
// discrete Fourier transform of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}

	return ps
}

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freq  []float64 // Hz
	Power []float64
}

// UniformSpectrum computes the Hann-windowed spectrum of a uniformly sampled
// signal with spacing dt after removing its mean.
func UniformSpectrum(data []float64, dt float64) (*Spectrum, error) {
	if len(data) < 4 {
		return nil, ErrTooFewSamples
	}
	x := make([]float64, len(data))
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	ps := PowerSpectrum(x)
	freq := make([]float64, len(ps))
	df := 1 / (float64(len(x)) * dt)
	for i := range freq {
		freq[i] = float64(i) * df
	}
	return &Spectrum{Freq: freq, Power: ps}, nil
}

// Peak returns the frequency of the largest non-DC bin.
func (s *Spectrum) Peak() float64 {
	best, idx := -1.0, 0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > best {
			best, idx = s.Power[i], i
		}
	}
	return s.Freq[idx]
}

// DominantFrequency resamples a non-uniform signal at spacing dt and returns
// its strongest frequency in Hz.
func DominantFrequency(times, values []float64, dt float64) (float64, error) {
	u, err := Resample(times, values, dt)
	if err != nil {
		return 0, err
	}
	spec, err := UniformSpectrum(u, dt)
	if err != nil {
		return 0, err
	}
	return spec.Peak(), nil
}
