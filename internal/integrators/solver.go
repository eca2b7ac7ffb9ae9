package integrators

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// DefaultMaxSteps bounds the attempted steps of one Solve call.
const DefaultMaxSteps = 100000

// AdaptiveSolver integrates a system over [t0, t1] and returns every accepted
// sample. The first sample is (t0, x0), the last is at exactly t1, and times
// strictly increase.
type AdaptiveSolver interface {
	Solve(ctx context.Context, sys dynamo.System, t0, t1 float64, x0 dynamo.State, opts Options) (*dynamo.Series, error)
}

type Options struct {
	RelTol      float64
	AbsTol      float64
	MaxStep     float64
	MinStep     float64
	InitialStep float64
	MaxSteps    int
}

// OptionsFromConfig maps run tolerances and step bounds onto solver options.
func OptionsFromConfig(cfg dynamo.Config) Options {
	return Options{
		RelTol:      cfg.Tolerance,
		AbsTol:      cfg.AbsTolerance,
		MaxStep:     cfg.MaxStep,
		MinStep:     cfg.MinStep,
		InitialStep: cfg.InitialStep,
		MaxSteps:    DefaultMaxSteps,
	}
}

func (o Options) withDefaults(span float64) Options {
	if o.MaxStep <= 0 {
		o.MaxStep = span
	}
	if o.MinStep <= 0 {
		o.MinStep = 1e-12 * math.Max(1, span)
	}
	if o.InitialStep <= 0 {
		o.InitialStep = math.Min(o.MaxStep, span/100)
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	return o
}

func (o Options) validate() error {
	if !(o.RelTol >= 0) || !(o.AbsTol >= 0) || o.RelTol+o.AbsTol == 0 {
		return fmt.Errorf("tolerances rtol=%v atol=%v: %w", o.RelTol, o.AbsTol, dynamo.ErrInvalidConfig)
	}
	if o.MaxStep < 0 || o.MinStep < 0 {
		return fmt.Errorf("step bounds [%v, %v]: %w", o.MinStep, o.MaxStep, dynamo.ErrInvalidConfig)
	}
	return nil
}

func checkSpan(sys dynamo.System, t0, t1 float64, x0 dynamo.State) error {
	if len(x0) != sys.StateDim() {
		return fmt.Errorf("state has %d components, system wants %d: %w", len(x0), sys.StateDim(), dynamo.ErrDimensionMismatch)
	}
	if !x0.IsValid() {
		return dynamo.ErrInvalidState
	}
	if math.IsNaN(t0) || math.IsNaN(t1) || t1 < t0 {
		return fmt.Errorf("span [%v, %v]: %w", t0, t1, dynamo.ErrInvalidConfig)
	}
	return nil
}

func canceled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err())
	default:
		return nil
	}
}
