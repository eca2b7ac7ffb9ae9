package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/dartsim/internal/config"
	"github.com/san-kum/dartsim/internal/control"
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/sim"
)

func TestRegistryLookups(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"rk45", "rk4", "euler"} {
		if _, err := reg.GetIntegrator(name); err != nil {
			t.Errorf("integrator %s: %v", name, err)
		}
	}
	if _, err := reg.GetIntegrator("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	law, err := reg.GetController("bdot", map[string]float64{"gain": -2, "max_dipole": 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bdot, ok := law.(*control.BDot)
	if !ok || bdot.Gain != -2 || bdot.MaxDipole != 0.5 {
		t.Errorf("bdot params not applied: %+v", law)
	}
	if _, err := reg.GetController("pid", nil); err == nil {
		t.Error("expected error for unknown controller")
	}

	if m, err := reg.GetAero("none"); err != nil || m != nil {
		t.Errorf("aero none should be a nil model, got %v %v", m, err)
	}
	if m, err := reg.GetAero("panel"); err != nil || m == nil {
		t.Errorf("aero panel: %v %v", m, err)
	}

	g, err := reg.GetGeometry("dart")
	if err != nil || len(g.Panels) == 0 {
		t.Errorf("dart geometry: %v %v", g, err)
	}
}

func TestRegistryLists(t *testing.T) {
	reg := NewRegistry()
	if got := reg.ListIntegrators(); len(got) != 3 || got[0] != "euler" {
		t.Errorf("unexpected integrators %v", got)
	}
	if got := reg.ListControllers(); len(got) != 2 || got[0] != "bdot" {
		t.Errorf("unexpected controllers %v", got)
	}
	if got := reg.ListAero(); len(got) != 2 {
		t.Errorf("unexpected aero models %v", got)
	}
}

func TestBuildErrors(t *testing.T) {
	reg := NewRegistry()
	tests := []struct {
		name string
		mod  func(c *config.Config)
	}{
		{"integrator", func(c *config.Config) { c.Integrator = "verlet" }},
		{"control", func(c *config.Config) { c.Control = "lqr" }},
		{"aero", func(c *config.Config) { c.Aero = "dsmc" }},
		{"geometry", func(c *config.Config) { c.Geometry = "cube" }},
		{"inertia", func(c *config.Config) { c.Inertia[2] = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mod(cfg)
			if _, err := Build(reg, cfg); err == nil {
				t.Error("expected build error")
			}
		})
	}
}

func TestRunNotSetup(t *testing.T) {
	if _, err := New(config.DefaultConfig()).Run(context.Background()); err == nil {
		t.Error("expected error for an experiment without setup")
	}
}

func TestRunQuick(t *testing.T) {
	cfg := config.GetPreset("quick")
	cfg.Horizon = 45
	cfg.Tolerance = 1e-8
	e, err := Build(NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if e.Satellite().Aero == nil {
		t.Error("quick preset should fly the panel model")
	}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Segments != 3 {
		t.Errorf("expected 3 segments, got %d", result.Segments)
	}
	for _, name := range []string{"orbital_energy_drift", "rate_damping", "final_rate", "control_effort"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if result.Metrics["quaternion_norm_error"] > 1e-12 {
		t.Errorf("quaternion drifted off unit norm: %e", result.Metrics["quaternion_norm_error"])
	}
}

func TestRunTorqueFreeFixedStep(t *testing.T) {
	cfg := config.GetPreset("torque-free")
	cfg.Integrator = "rk4"
	cfg.Horizon = 30
	cfg.InitialStep = 0.05
	e, err := Build(NewRegistry(), cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if e.Satellite().Aero != nil {
		t.Error("torque-free preset should not carry an aero model")
	}
	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// 15 s segments at 0.05 s steps.
	if result.Series.Len() != 601 {
		t.Errorf("expected 601 samples, got %d", result.Series.Len())
	}
	if result.Metrics["control_effort"] != 0 {
		t.Errorf("no control law should mean zero effort, got %v", result.Metrics["control_effort"])
	}
}

func TestScenarioEnsemble(t *testing.T) {
	reg := NewRegistry()
	var scenarios []sim.Scenario
	for _, gain := range []float64{-1e4, -1e3} {
		cfg := config.GetPreset("quick")
		cfg.Horizon = 15
		cfg.Tolerance = 1e-8
		cfg.ControlParams.Gain = gain
		e, err := Build(reg, cfg)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		scenarios = append(scenarios, e.Scenario())
	}
	results, err := sim.NewEnsemble(0).Run(context.Background(), scenarios)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSetupWrapsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Inertia = [3]float64{0, 0, 0}
	_, err := Build(NewRegistry(), cfg)
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
