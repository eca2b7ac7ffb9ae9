package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// Validate rejects initial conditions and run settings that cannot be
// propagated. Every failure wraps dynamo.ErrInvalidConfig.
func (p *Propagator) Validate(x0 dynamo.State, cfg dynamo.Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if v, ok := p.sys.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
		}
	}
	return validateState(x0, p.sys.StateDim())
}

func validateConfig(cfg dynamo.Config) error {
	positive := []struct {
		name string
		v    float64
	}{
		{"horizon", cfg.Horizon},
		{"increment", cfg.Increment},
		{"max step", cfg.MaxStep},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", dynamo.ErrInvalidConfig, f.name, f.v)
		}
	}
	if !(cfg.Tolerance >= 0) || !(cfg.AbsTolerance >= 0) || cfg.Tolerance+cfg.AbsTolerance == 0 {
		return fmt.Errorf("%w: tolerances rtol=%v atol=%v", dynamo.ErrInvalidConfig, cfg.Tolerance, cfg.AbsTolerance)
	}
	if cfg.MinStep < 0 || cfg.MinStep >= cfg.MaxStep {
		return fmt.Errorf("%w: min step %v must lie in [0, %v)", dynamo.ErrInvalidConfig, cfg.MinStep, cfg.MaxStep)
	}
	if cfg.MaxSegments < 0 {
		return fmt.Errorf("%w: max segments %d", dynamo.ErrInvalidConfig, cfg.MaxSegments)
	}
	return nil
}

func validateState(x dynamo.State, dim int) error {
	if len(x) != dim {
		return fmt.Errorf("%w: %w: state has %d components, want %d",
			dynamo.ErrInvalidConfig, dynamo.ErrDimensionMismatch, len(x), dim)
	}
	if !x.IsValid() {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, dynamo.ErrInvalidState)
	}
	q := x.Attitude()
	vectors := []struct {
		name string
		norm float64
	}{
		{"position", r3.Norm(x.Position())},
		{"velocity", r3.Norm(x.Velocity())},
		{"attitude", math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])},
		{"angular rate", r3.Norm(x.Rate())},
	}
	for _, v := range vectors {
		if v.norm == 0 {
			return fmt.Errorf("%w: initial %s: %w", dynamo.ErrInvalidConfig, v.name, dynamo.ErrZeroVector)
		}
	}
	return nil
}
