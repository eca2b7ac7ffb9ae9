package metrics

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/control"
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/physics"
	"github.com/san-kum/dartsim/internal/quat"
)

func state(r, v r3.Vec, q quat.Q, w r3.Vec) dynamo.State {
	return dynamo.NewSatState(r, v, quat.Array(q), w)
}

func dart() *physics.Satellite {
	return physics.NewSatellite(physics.Diag(0.038, 0.04, 0.0066667),
		control.NewBDot(control.DefaultGain), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestOrbitalEnergyDrift(t *testing.T) {
	m := NewOrbitalEnergyDrift(dart())
	v := r3.Vec{Y: 7.6126}

	m.Observe(state(r3.Vec{X: 6878}, v, quat.Identity, r3.Vec{X: 1}), 0)
	m.Observe(state(r3.Vec{X: 6878}, v, quat.Identity, r3.Vec{X: 1}), 1)
	if m.Value() != 0 {
		t.Errorf("expected zero drift for identical samples, got %e", m.Value())
	}

	m.Observe(state(r3.Vec{X: 6878}, r3.Scale(1.01, v), quat.Identity, r3.Vec{X: 1}), 2)
	if m.Value() <= 0 {
		t.Error("expected non-zero drift after a velocity change")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	m.Observe(state(r3.Vec{X: 7000}, r3.Vec{Y: 7}, quat.Identity, r3.Vec{}), 0)
	m.Observe(state(r3.Vec{Y: 7000}, r3.Vec{X: -7}, quat.Identity, r3.Vec{}), 1)
	if m.Value() > 1e-15 {
		t.Errorf("rotated circular state has the same |h|, drift %e", m.Value())
	}
	m.Observe(state(r3.Vec{X: 7000}, r3.Vec{Y: 7.7}, quat.Identity, r3.Vec{}), 2)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected 10%% drift, got %v", m.Value())
	}
}

func TestRateMetrics(t *testing.T) {
	damping := NewRateDamping()
	final := NewFinalRate()
	if !math.IsNaN(damping.Value()) {
		t.Error("damping without samples should be NaN")
	}

	rates := []r3.Vec{{X: 0.3, Y: 0.4}, {X: 0.1}, {Z: 0.05}}
	for i, w := range rates {
		x := state(r3.Vec{X: 6878}, r3.Vec{Y: 7.6}, quat.Identity, w)
		damping.Observe(x, float64(i))
		final.Observe(x, float64(i))
	}
	if math.Abs(damping.Value()-0.1) > 1e-12 {
		t.Errorf("expected ratio 0.05/0.5 = 0.1, got %v", damping.Value())
	}
	if math.Abs(final.Value()-0.05) > 1e-12 {
		t.Errorf("expected final rate 0.05, got %v", final.Value())
	}
}

func TestQuaternionNorm(t *testing.T) {
	m := NewQuaternionNorm()
	m.Observe(state(r3.Vec{X: 1}, r3.Vec{Y: 1}, quat.Identity, r3.Vec{}), 0)
	if m.Value() != 0 {
		t.Errorf("identity has unit norm, got %e", m.Value())
	}
	m.Observe(state(r3.Vec{X: 1}, r3.Vec{Y: 1}, quat.Q{Real: 1.001}, r3.Vec{}), 1)
	if math.Abs(m.Value()-0.001) > 1e-12 {
		t.Errorf("expected 1e-3, got %e", m.Value())
	}
}

func TestPointingError(t *testing.T) {
	tests := []struct {
		name string
		axis r3.Vec
		deg  float64
		want float64
	}{
		{"nose first", r3.Vec{X: 1}, 0, 0},
		{"roll keeps nose", r3.Vec{X: 1}, 70, 0},
		{"pitched", r3.Vec{Y: 1}, 30, 30},
		{"yawed", r3.Vec{Z: 1}, -45, 45},
		{"tail first", r3.Vec{Z: 1}, 180, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := quat.FromAxisAngle(tt.axis, tt.deg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			m := NewPointingError(0)
			m.Observe(state(r3.Vec{X: 6878}, r3.Vec{Y: 7.6}, q, r3.Vec{}), 0)
			if math.Abs(m.Value()-tt.want) > 1e-5 {
				t.Errorf("expected %v deg, got %v", tt.want, m.Value())
			}
		})
	}
}

func TestPointingError_From(t *testing.T) {
	q, _ := quat.FromAxisAngle(r3.Vec{Y: 1}, 90)
	m := NewPointingError(100)
	m.Observe(state(r3.Vec{X: 6878}, r3.Vec{Y: 7.6}, q, r3.Vec{}), 50)
	m.Observe(state(r3.Vec{X: 6878}, r3.Vec{Y: 7.6}, quat.Identity, r3.Vec{}), 150)
	if m.Value() != 0 {
		t.Errorf("samples before From should be ignored, got %v", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	sat := dart()
	m := NewControlEffort(sat)
	x := state(r3.Vec{X: 6878}, r3.Vec{Y: 5.38, Z: 5.38}, quat.Identity, r3.Vec{X: 0.1, Y: 0.25, Z: 0.03})
	m.Observe(x, 0)
	if m.Value() <= 0 {
		t.Errorf("a tumbling dart should command a dipole, got %v", m.Value())
	}

	sat.Control = control.NewNone()
	m.Reset()
	m.Observe(x, 0)
	if m.Value() != 0 {
		t.Errorf("no control law means no dipole, got %v", m.Value())
	}
}

func TestStandardNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(dart()) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"orbital_energy_drift", "rate_damping", "final_rate", "quaternion_norm_error"} {
		if !seen[name] {
			t.Errorf("missing metric %q", name)
		}
	}
}
