package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EarthMu is Earth's gravitational parameter, km³/s².
const EarthMu = 398600.0

// TwoBodyAcceleration is the point-mass gravity -μ r/|r|³.
func TwoBodyAcceleration(r r3.Vec, mu float64) r3.Vec {
	n := r3.Norm(r)
	return r3.Scale(-mu/(n*n*n), r)
}

// SpecificEnergy is v²/2 - μ/r, km²/s².
func SpecificEnergy(r, v r3.Vec, mu float64) float64 {
	return 0.5*r3.Norm2(v) - mu/r3.Norm(r)
}

// SpecificAngularMomentum is r × v, km²/s.
func SpecificAngularMomentum(r, v r3.Vec) r3.Vec {
	return r3.Cross(r, v)
}

// OrbitalPeriod is the period of a circular orbit of radius r km, seconds.
func OrbitalPeriod(r, mu float64) float64 {
	return 2 * math.Pi * math.Sqrt(r*r*r/mu)
}
