package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Layout of the 13-component satellite state.
const (
	PosIdx   = 0
	VelIdx   = 3
	QuatIdx  = 6
	RateIdx  = 10
	StateDim = 13
)

type State []float64

// NewSatState packs position (km), velocity (km/s), attitude quaternion
// [w, x, y, z] and body rate (rad/s) into a state vector.
func NewSatState(r, v r3.Vec, q [4]float64, w r3.Vec) State {
	return State{
		r.X, r.Y, r.Z,
		v.X, v.Y, v.Z,
		q[0], q[1], q[2], q[3],
		w.X, w.Y, w.Z,
	}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Position() r3.Vec {
	return r3.Vec{X: s[PosIdx], Y: s[PosIdx+1], Z: s[PosIdx+2]}
}

func (s State) Velocity() r3.Vec {
	return r3.Vec{X: s[VelIdx], Y: s[VelIdx+1], Z: s[VelIdx+2]}
}

// Attitude returns the raw quaternion components; callers normalize.
func (s State) Attitude() [4]float64 {
	return [4]float64{s[QuatIdx], s[QuatIdx+1], s[QuatIdx+2], s[QuatIdx+3]}
}

func (s State) Rate() r3.Vec {
	return r3.Vec{X: s[RateIdx], Y: s[RateIdx+1], Z: s[RateIdx+2]}
}

// SetAttitude overwrites the quaternion block in place.
func (s State) SetAttitude(q [4]float64) {
	copy(s[QuatIdx:QuatIdx+4], q[:])
}

// NormalizeAttitude rescales the quaternion block to unit norm in place.
// A zero quaternion is replaced by the identity.
func (s State) NormalizeAttitude() {
	q := s[QuatIdx : QuatIdx+4]
	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		q[0], q[1], q[2], q[3] = 1, 0, 0, 0
		return
	}
	for i := range q {
		q[i] /= n
	}
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Hamiltonian is implemented by systems with a conserved scalar.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Observer is notified once per completed propagation segment.
type Observer interface {
	OnSegment(segment int, x State, t float64)
}

type Config struct {
	Horizon      float64
	Increment    float64
	Tolerance    float64
	AbsTolerance float64
	MaxStep      float64
	MinStep      float64
	InitialStep  float64
	MaxSegments  int
}

func DefaultConfig() Config {
	return Config{
		Horizon:      80000,
		Increment:    15,
		Tolerance:    1e-13,
		AbsTolerance: 1e-6,
		MaxStep:      100,
		MinStep:      1e-9,
		InitialStep:  0.1,
	}
}

type Result struct {
	Series     *Series
	Metrics    map[string]float64
	Segments   int
	StepsTaken int
}

// Times returns the sample times of the accumulated series.
func (r *Result) Times() []float64 {
	if r.Series == nil {
		return nil
	}
	return r.Series.Times
}

// States returns the sample states of the accumulated series.
func (r *Result) States() []State {
	if r.Series == nil {
		return nil
	}
	return r.Series.States
}
