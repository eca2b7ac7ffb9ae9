package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// Inertia is a principal-axis inertia tensor, kg·m².
type Inertia struct {
	Ixx, Iyy, Izz float64
}

// Diag builds a diagonal inertia from its three entries.
func Diag(ixx, iyy, izz float64) Inertia {
	return Inertia{Ixx: ixx, Iyy: iyy, Izz: izz}
}

func (in Inertia) Validate() error {
	for i, v := range [3]float64{in.Ixx, in.Iyy, in.Izz} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("principal moment %d = %v: %w", i, v, dynamo.ErrInvalidInertia)
		}
	}
	return nil
}

// Apply returns I·w.
func (in Inertia) Apply(w r3.Vec) r3.Vec {
	return r3.Vec{X: in.Ixx * w.X, Y: in.Iyy * w.Y, Z: in.Izz * w.Z}
}

// Solve returns I⁻¹·v.
func (in Inertia) Solve(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X / in.Ixx, Y: v.Y / in.Iyy, Z: v.Z / in.Izz}
}

// AngularMomentum is H = I·ω in the body frame.
func AngularMomentum(w r3.Vec, in Inertia) r3.Vec {
	return in.Apply(w)
}

// RotationalEnergy is ½ ω·Iω.
func RotationalEnergy(w r3.Vec, in Inertia) float64 {
	return 0.5 * r3.Dot(w, in.Apply(w))
}

// AngularAcceleration solves Euler's equation I ω̇ + ω × Iω = τ for ω̇.
func AngularAcceleration(torque, w r3.Vec, in Inertia) r3.Vec {
	gyro := r3.Cross(w, in.Apply(w))
	return in.Solve(r3.Sub(torque, gyro))
}
