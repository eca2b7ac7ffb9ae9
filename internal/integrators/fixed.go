package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// FixedStep adapts a single-step method to the AdaptiveSolver interface by
// splitting the span into equal steps no longer than Options.MaxStep (or
// Options.InitialStep when it is smaller). Tolerances are ignored.
type FixedStep struct {
	Method dynamo.Integrator
}

func NewFixedStep(m dynamo.Integrator) *FixedStep {
	return &FixedStep{Method: m}
}

func (f *FixedStep) Solve(ctx context.Context, sys dynamo.System, t0, t1 float64, x0 dynamo.State, opts Options) (*dynamo.Series, error) {
	if err := checkSpan(sys, t0, t1, x0); err != nil {
		return nil, err
	}
	out := dynamo.NewSeries(16)
	out.Append(t0, x0)
	span := t1 - t0
	if span == 0 {
		return out, nil
	}

	step := opts.MaxStep
	if opts.InitialStep > 0 && (step <= 0 || opts.InitialStep < step) {
		step = opts.InitialStep
	}
	if step <= 0 {
		step = span
	}
	n := int(math.Ceil(span / step))
	if opts.MaxSteps > 0 && n > opts.MaxSteps {
		return out, fmt.Errorf("%d steps needed, budget %d: %w", n, opts.MaxSteps, dynamo.ErrStepBudget)
	}
	h := span / float64(n)

	x := x0.Clone()
	for i := 1; i <= n; i++ {
		if err := canceled(ctx); err != nil {
			return out, err
		}
		t := t0 + float64(i-1)*h
		x = f.Method.Step(sys, x, nil, t, h)
		if !x.IsValid() {
			return out, fmt.Errorf("step %d at t=%v: %w", i, t, dynamo.ErrInvalidState)
		}
		tn := t0 + float64(i)*h
		if i == n {
			tn = t1
		}
		out.Append(tn, x)
	}
	return out, nil
}

var _ AdaptiveSolver = (*FixedStep)(nil)
