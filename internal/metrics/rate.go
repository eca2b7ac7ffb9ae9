package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// RateDamping is the ratio of the last to the first observed |ω|. Values
// below one mean the body rate was damped.
type RateDamping struct {
	first, last float64
	samples     int
}

func NewRateDamping() *RateDamping {
	return &RateDamping{}
}

func (r *RateDamping) Name() string { return "rate_damping" }

func (r *RateDamping) Observe(x dynamo.State, t float64) {
	w := r3.Norm(x.Rate())
	if r.samples == 0 {
		r.first = w
	}
	r.last = w
	r.samples++
}

func (r *RateDamping) Value() float64 {
	if r.samples == 0 || r.first == 0 {
		return math.NaN()
	}
	return r.last / r.first
}

func (r *RateDamping) Reset() {
	r.first, r.last = 0, 0
	r.samples = 0
}

// FinalRate is |ω| at the last observed sample, rad/s.
type FinalRate struct {
	last float64
}

func NewFinalRate() *FinalRate {
	return &FinalRate{}
}

func (f *FinalRate) Name() string { return "final_rate" }

func (f *FinalRate) Observe(x dynamo.State, t float64) {
	f.last = r3.Norm(x.Rate())
}

func (f *FinalRate) Value() float64 { return f.last }

func (f *FinalRate) Reset() { f.last = 0 }
