package analysis

import (
	"errors"
	"fmt"
	"math"
)

var ErrTooFewSamples = errors.New("analysis: too few samples")

// Resample linearly interpolates values sampled at strictly increasing
// times onto a uniform grid of spacing dt starting at times[0].
func Resample(times, values []float64, dt float64) ([]float64, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("resample: %d times for %d values", len(times), len(values))
	}
	if len(times) < 2 {
		return nil, ErrTooFewSamples
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("resample: step %v must be positive", dt)
	}

	t0, t1 := times[0], times[len(times)-1]
	n := int(math.Floor((t1-t0)/dt)) + 1
	out := make([]float64, n)

	j := 0
	for i := 0; i < n; i++ {
		t := t0 + float64(i)*dt
		for j < len(times)-2 && times[j+1] < t {
			j++
		}
		span := times[j+1] - times[j]
		if span <= 0 {
			return nil, fmt.Errorf("resample: times not increasing at index %d", j)
		}
		frac := (t - times[j]) / span
		out[i] = values[j] + frac*(values[j+1]-values[j])
	}
	return out, nil
}
