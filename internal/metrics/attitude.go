package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/environment"
	"github.com/san-kum/dartsim/internal/quat"
)

// QuaternionNorm is the worst |‖q‖ - 1| over the observed samples.
type QuaternionNorm struct {
	worst float64
}

func NewQuaternionNorm() *QuaternionNorm {
	return &QuaternionNorm{}
}

func (q *QuaternionNorm) Name() string { return "quaternion_norm_error" }

func (q *QuaternionNorm) Observe(x dynamo.State, t float64) {
	n := quat.Norm(quat.FromArray(x.Attitude()))
	q.worst = math.Max(q.worst, math.Abs(n-1))
}

func (q *QuaternionNorm) Value() float64 { return q.worst }

func (q *QuaternionNorm) Reset() { q.worst = 0 }

// PointingError is the mean angle in degrees between the body +x axis and
// the flow direction, averaged over samples observed at or after From.
type PointingError struct {
	From    float64
	sum     float64
	samples int
}

func NewPointingError(from float64) *PointingError {
	return &PointingError{From: from}
}

func (p *PointingError) Name() string { return "pointing_error_deg" }

func (p *PointingError) Observe(x dynamo.State, t float64) {
	if t < p.From {
		return
	}
	q := quat.Normalize(quat.FromArray(x.Attitude()))
	flow := quat.ToBody(environment.FlowDirection, q)
	c := math.Max(-1, math.Min(1, r3.Dot(r3.Vec{X: 1}, r3.Unit(flow))))
	p.sum += math.Acos(c) * 180 / math.Pi
	p.samples++
}

func (p *PointingError) Value() float64 {
	if p.samples == 0 {
		return math.NaN()
	}
	return p.sum / float64(p.samples)
}

func (p *PointingError) Reset() {
	p.sum = 0
	p.samples = 0
}
