package physics

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/control"
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/environment"
	"github.com/san-kum/dartsim/internal/quat"
)

// Satellite is the coupled orbit and attitude model of a rigid spacecraft
// under two-body gravity, magnetic control and aerodynamic torque.
//
// All fields are fixed for a run; Derive is a pure function of (x, t).
type Satellite struct {
	Inertia  Inertia
	Mu       float64
	Epoch    time.Time
	Magnetic environment.MagneticModel
	Control  control.Law
	Aero     environment.AeroModel
	Geometry environment.Geometry
	// Altitude fed to the aero model, km. Orbital decay is not coupled.
	Altitude float64
}

// NewSatellite builds the dart with the given inertia, a dipole field model
// and the flat-plate aero model.
func NewSatellite(in Inertia, law control.Law, epoch time.Time) *Satellite {
	return &Satellite{
		Inertia:  in,
		Mu:       EarthMu,
		Epoch:    epoch,
		Magnetic: environment.NewDipole(),
		Control:  law,
		Aero:     environment.NewPanelModel(),
		Geometry: environment.DartGeometry(),
		Altitude: environment.DefaultAltitude,
	}
}

func (s *Satellite) StateDim() int   { return dynamo.StateDim }
func (s *Satellite) ControlDim() int { return 0 }

// Diagnostics holds the transient quantities of one derivative evaluation.
type Diagnostics struct {
	Field         r3.Vec // body frame, T
	Dipole        r3.Vec // A·m²
	ControlTorque r3.Vec // N·m
	AeroTorque    r3.Vec // moment of the drag reaction, N·m
	NetTorque     r3.Vec
	Momentum      r3.Vec // I·ω, body frame
}

// Diagnose evaluates the attitude environment at (x, t).
func (s *Satellite) Diagnose(x dynamo.State, t float64) (Diagnostics, error) {
	r, v, w := x.Position(), x.Velocity(), x.Rate()
	q := quat.Normalize(quat.FromArray(x.Attitude()))

	b, err := environment.BodyField(s.Magnetic, r, v, q, t, s.Epoch)
	if err != nil {
		return Diagnostics{}, err
	}

	var d Diagnostics
	d.Field = b
	if s.Control != nil {
		d.Dipole = s.Control.Dipole(b, w)
		d.ControlTorque = s.Control.Torque(b, w)
	}
	d.AeroTorque = environment.AeroTorque(s.Aero, s.Altitude, q, s.Geometry, r3.Norm(v))
	d.NetTorque = r3.Sub(d.ControlTorque, d.AeroTorque)
	d.Momentum = AngularMomentum(w, s.Inertia)
	return d, nil
}

func (s *Satellite) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, dynamo.StateDim)

	r, v, w := x.Position(), x.Velocity(), x.Rate()
	acc := TwoBodyAcceleration(r, s.Mu)
	dx[0], dx[1], dx[2] = v.X, v.Y, v.Z
	dx[3], dx[4], dx[5] = acc.X, acc.Y, acc.Z

	d, err := s.Diagnose(x, t)
	if err != nil {
		for i := dynamo.QuatIdx; i < dynamo.StateDim; i++ {
			dx[i] = math.NaN()
		}
		return dx
	}

	q := quat.Normalize(quat.FromArray(x.Attitude()))
	qd := quat.Derivative(q, w)
	copy(dx[dynamo.QuatIdx:dynamo.QuatIdx+4], qd[:])

	alpha := AngularAcceleration(d.NetTorque, w, s.Inertia)
	dx[10], dx[11], dx[12] = alpha.X, alpha.Y, alpha.Z
	return dx
}

// Energy is the orbital specific energy, km²/s².
func (s *Satellite) Energy(x dynamo.State) float64 {
	return SpecificEnergy(x.Position(), x.Velocity(), s.Mu)
}

// OrbitalMomentum is |r × v|, km²/s.
func (s *Satellite) OrbitalMomentum(x dynamo.State) float64 {
	return r3.Norm(SpecificAngularMomentum(x.Position(), x.Velocity()))
}

// OrbitalPeriod is the circular-orbit period at radius r km.
func (s *Satellite) OrbitalPeriod(r float64) float64 {
	return OrbitalPeriod(r, s.Mu)
}

// Validate rejects configurations the derivative cannot evaluate.
func (s *Satellite) Validate() error {
	if err := s.Inertia.Validate(); err != nil {
		return err
	}
	if !(s.Mu > 0) || math.IsInf(s.Mu, 0) {
		return fmt.Errorf("gravitational parameter %v: %w", s.Mu, dynamo.ErrInvalidConfig)
	}
	if s.Magnetic == nil {
		return fmt.Errorf("no magnetic field model: %w", dynamo.ErrInvalidConfig)
	}
	return nil
}

var (
	_ dynamo.System      = (*Satellite)(nil)
	_ dynamo.Hamiltonian = (*Satellite)(nil)
)
