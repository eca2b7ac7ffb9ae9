// Package quat implements the attitude quaternion algebra used by the
// propagator on top of gonum's quaternion numbers.
//
// Quaternions are Hamilton quaternions [w, x, y, z] with the scalar first.
// An attitude q describes the body frame relative to a reference frame as
// an active rotation; a reference-frame vector is expressed in body
// coordinates with ToBody and back with ToReference.
package quat

import (
	"errors"
	"math"

	gq "gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroAxis is returned when a rotation axis has zero length.
var ErrZeroAxis = errors.New("quat: rotation axis has zero length")

const deg2rad = math.Pi / 180

// Q is an attitude quaternion. Real is the scalar part.
type Q = gq.Number

// Identity is the zero rotation.
var Identity = Q{Real: 1}

// FromAxisAngle returns the unit quaternion rotating by deg degrees about axis.
func FromAxisAngle(axis r3.Vec, deg float64) (Q, error) {
	n := r3.Norm(axis)
	if n == 0 || math.IsNaN(n) {
		return Identity, ErrZeroAxis
	}
	u := r3.Scale(1/n, axis)
	s, c := math.Sincos(0.5 * deg * deg2rad)
	return Q{Real: c, Imag: s * u.X, Jmag: s * u.Y, Kmag: s * u.Z}, nil
}

// FromArray converts [w, x, y, z] to a quaternion.
func FromArray(a [4]float64) Q {
	return Q{Real: a[0], Imag: a[1], Jmag: a[2], Kmag: a[3]}
}

// Array converts a quaternion to [w, x, y, z].
func Array(q Q) [4]float64 {
	return [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}

func Norm(q Q) float64 { return gq.Abs(q) }

// Normalize returns q scaled to unit norm. The zero quaternion maps to Identity.
func Normalize(q Q) Q {
	n := gq.Abs(q)
	if n == 0 || math.IsNaN(n) {
		return Identity
	}
	return gq.Scale(1/n, q)
}

// Invert returns the multiplicative inverse, conj(q)/|q|².
func Invert(q Q) Q {
	return gq.Inv(q)
}

func Mul(a, b Q) Q { return gq.Mul(a, b) }

// Rotate applies the rotation q to v as q ⊗ v ⊗ q⁻¹.
func Rotate(v r3.Vec, q Q) r3.Vec {
	p := Q{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := gq.Mul(gq.Mul(q, p), gq.Inv(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// ToBody expresses a reference-frame vector in the body frame of attitude q.
func ToBody(v r3.Vec, q Q) r3.Vec {
	return Rotate(v, Invert(q))
}

// ToReference expresses a body-frame vector in the reference frame.
func ToReference(v r3.Vec, q Q) r3.Vec {
	return Rotate(v, q)
}

// Relative re-expresses attitude from relative to a reference frame that has
// itself turned by to: the result composes as to ⊗ result = from.
func Relative(from, to Q) Q {
	return gq.Mul(gq.Inv(to), from)
}

// Derivative is the kinematic rate q̇ = ½ q ⊗ (0, ω) for body rate w.
func Derivative(q Q, w r3.Vec) [4]float64 {
	d := gq.Scale(0.5, gq.Mul(q, Q{Imag: w.X, Jmag: w.Y, Kmag: w.Z}))
	return [4]float64{d.Real, d.Imag, d.Jmag, d.Kmag}
}

// Angle is the rotation angle of q in radians, in [0, π].
func Angle(q Q) float64 {
	q = Normalize(q)
	v := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	return 2 * math.Atan2(v, math.Abs(q.Real))
}

// EqualApprox reports whether a and b describe the same rotation within tol,
// treating q and -q as equal.
func EqualApprox(a, b Q, tol float64) bool {
	d1 := gq.Abs(gq.Sub(a, b))
	d2 := gq.Abs(gq.Add(a, b))
	return math.Min(d1, d2) <= tol
}
