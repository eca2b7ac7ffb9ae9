package control

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultGain is the B-dot gain used by the reference scenario, A·m²·s/T.
const DefaultGain = -1e4

// BDot damps body rate with a magnetic dipole proportional to the rate of
// change of the sensed field. Gain must be negative to damp.
type BDot struct {
	Gain float64
	// MaxDipole clamps each dipole axis, A·m². Zero means unlimited.
	MaxDipole float64
}

func NewBDot(gain float64) *BDot {
	return &BDot{Gain: gain}
}

// FieldRate approximates the body-frame field derivative for a field that is
// fixed on the time scale of the spin: Ḃ = -ω × B = B × ω.
func FieldRate(b, w r3.Vec) r3.Vec {
	return r3.Cross(b, w)
}

// Dipole returns the commanded magnetic moment m = k·Ḃ, A·m².
func (c *BDot) Dipole(b, w r3.Vec) r3.Vec {
	m := r3.Scale(c.Gain, FieldRate(b, w))
	if c.MaxDipole > 0 {
		m = r3.Vec{
			X: clamp(m.X, c.MaxDipole),
			Y: clamp(m.Y, c.MaxDipole),
			Z: clamp(m.Z, c.MaxDipole),
		}
	}
	return m
}

// Torque returns m × B, N·m.
func (c *BDot) Torque(b, w r3.Vec) r3.Vec {
	return r3.Cross(c.Dipole(b, w), b)
}

// GetParams returns tunable parameters.
func (c *BDot) GetParams() map[string]float64 {
	return map[string]float64{
		"gain":       c.Gain,
		"max_dipole": c.MaxDipole,
	}
}

// SetParam adjusts a B-dot parameter.
func (c *BDot) SetParam(name string, value float64) {
	switch name {
	case "gain":
		c.Gain = value
	case "max_dipole":
		c.MaxDipole = value
	}
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
