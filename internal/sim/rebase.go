package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/quat"
)

// PitchAxis is the orbital -Y axis, about which a prograde orbital frame
// turns.
var PitchAxis = r3.Vec{Y: -1}

// FrameAngle is the rotation in degrees of a circular orbital frame over dt
// seconds of an orbit with the given period.
func FrameAngle(dt, period float64) float64 {
	return dt / period * 360
}

// Rebase returns a copy of x with its attitude re-expressed relative to the
// orbital frame after it has turned by FrameAngle(increment, period).
func Rebase(x dynamo.State, increment, period float64) (dynamo.State, error) {
	if len(x) != dynamo.StateDim {
		return nil, fmt.Errorf("rebase: %w", dynamo.ErrDimensionMismatch)
	}
	out := x.Clone()
	out.NormalizeAttitude()
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, fmt.Errorf("rebase: orbital period %v: %w", period, dynamo.ErrDegenerateFrame)
	}

	rot, err := quat.FromAxisAngle(PitchAxis, FrameAngle(increment, period))
	if err != nil {
		return nil, err
	}
	q := quat.Relative(quat.FromArray(out.Attitude()), rot)
	out.SetAttitude(quat.Array(quat.Normalize(q)))
	return out, nil
}
