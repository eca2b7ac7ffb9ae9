package integrators

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dartsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int   { return 2 }
func (h *harmonicOscillator) ControlDim() int { return 0 }

func (h *harmonicOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

type nanAfter struct{ t float64 }

func (n *nanAfter) StateDim() int   { return 1 }
func (n *nanAfter) ControlDim() int { return 0 }

func (n *nanAfter) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	if t >= n.t {
		return dynamo.State{math.NaN()}
	}
	return dynamo.State{1}
}

func tightOptions() Options {
	return Options{RelTol: 1e-10, AbsTol: 1e-12, MaxStep: 1}
}

func TestDormandPrince_Accuracy(t *testing.T) {
	solver := NewDormandPrince()
	s, err := solver.Solve(context.Background(), &harmonicOscillator{}, 0, 10, dynamo.State{1, 0}, tightOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tEnd, x, ok := s.Last()
	if !ok || tEnd != 10 {
		t.Fatalf("last sample should be at exactly 10, got %v", tEnd)
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-6 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], math.Cos(10))
	}
	if math.Abs(x[1]+math.Sin(10)) > 1e-6 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], -math.Sin(10))
	}
}

func TestDormandPrince_Samples(t *testing.T) {
	solver := NewDormandPrince()
	x0 := dynamo.State{1, 0}
	opts := tightOptions()
	opts.MaxStep = 0.25
	s, err := solver.Solve(context.Background(), &harmonicOscillator{}, 2, 7, x0, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t0, first := s.At(0)
	if t0 != 2 || first[0] != 1 || first[1] != 0 {
		t.Errorf("first sample should be the initial condition, got %v %v", t0, first)
	}
	if s.Len() < 21 {
		t.Errorf("max step 0.25 over 5 s needs at least 20 steps, got %d samples", s.Len())
	}
	if !s.Monotonic() {
		t.Error("sample times must strictly increase")
	}
	for i := 1; i < s.Len(); i++ {
		if dt := s.Times[i] - s.Times[i-1]; dt > opts.MaxStep+1e-12 {
			t.Errorf("step %d of %v exceeds max step", i, dt)
		}
	}
}

func TestDormandPrince_EnergyConservation(t *testing.T) {
	solver := NewDormandPrince()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	s, err := solver.Solve(context.Background(), dyn, 0, 100, x0, tightOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, x, _ := s.Last()
	drift := math.Abs(dyn.Energy(x)-dyn.Energy(x0)) / dyn.Energy(x0)
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestDormandPrince_ZeroSpan(t *testing.T) {
	s, err := NewDormandPrince().Solve(context.Background(), &harmonicOscillator{}, 3, 3, dynamo.State{1, 0}, tightOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected a single sample, got %d", s.Len())
	}
}

func TestDormandPrince_Errors(t *testing.T) {
	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		sys  dynamo.System
		x0   dynamo.State
		t1   float64
		opts Options
		want error
	}{
		{"dimension", context.Background(), &harmonicOscillator{}, dynamo.State{1}, 1, tightOptions(), dynamo.ErrDimensionMismatch},
		{"nan initial", context.Background(), &harmonicOscillator{}, dynamo.State{math.NaN(), 0}, 1, tightOptions(), dynamo.ErrInvalidState},
		{"backwards", context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, -1, tightOptions(), dynamo.ErrInvalidConfig},
		{"no tolerance", context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, 1, Options{}, dynamo.ErrInvalidConfig},
		{"canceled", canceledCtx, &harmonicOscillator{}, dynamo.State{1, 0}, 1, tightOptions(), dynamo.ErrContextCanceled},
		{"budget", context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, 10, Options{RelTol: 1e-6, MaxStep: 0.01, MaxSteps: 5}, dynamo.ErrStepBudget},
		{"too small", context.Background(), &harmonicOscillator{}, dynamo.State{1, 0}, 10, Options{AbsTol: 1e-300, MinStep: 1e-3, InitialStep: 0.1}, dynamo.ErrStepTooSmall},
		{"non-finite", context.Background(), &nanAfter{t: 0.5}, dynamo.State{0}, 2, Options{RelTol: 1e-6, MaxStep: 0.1}, dynamo.ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDormandPrince().Solve(tt.ctx, tt.sys, 0, tt.t1, tt.x0, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDormandPrince_PartialSeriesOnFailure(t *testing.T) {
	s, err := NewDormandPrince().Solve(context.Background(), &nanAfter{t: 0.5}, 0, 2, dynamo.State{0}, Options{RelTol: 1e-6, MaxStep: 0.1})
	if err == nil {
		t.Fatal("expected failure")
	}
	if s == nil || s.Len() < 2 {
		t.Fatalf("samples before the failure should be returned")
	}
	tEnd, _, _ := s.Last()
	if tEnd >= 0.5 {
		t.Errorf("no sample should reach the poisoned region, last at %v", tEnd)
	}
}
