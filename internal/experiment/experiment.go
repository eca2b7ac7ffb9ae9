package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/dartsim/internal/config"
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/metrics"
	"github.com/san-kum/dartsim/internal/physics"
	"github.com/san-kum/dartsim/internal/sim"
)

type Experiment struct {
	cfg        *config.Config
	satellite  *physics.Satellite
	propagator *sim.Propagator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// Build is New followed by Setup.
func Build(reg *Registry, cfg *config.Config) (*Experiment, error) {
	e := New(cfg)
	if err := e.Setup(reg); err != nil {
		return nil, err
	}
	return e, nil
}

// Setup resolves the named components of the scenario and wires the
// satellite, solver and standard metrics into a propagator.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	solver, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	law, err := reg.GetController(e.cfg.Control, e.cfg.GetControlParams())
	if err != nil {
		return err
	}
	aero, err := reg.GetAero(e.cfg.Aero)
	if err != nil {
		return err
	}
	geom, err := reg.GetGeometry(e.cfg.Geometry)
	if err != nil {
		return err
	}

	in := e.cfg.Inertia
	sat := physics.NewSatellite(physics.Diag(in[0], in[1], in[2]), law, e.cfg.Epoch)
	sat.Aero = aero
	sat.Geometry = geom
	sat.Altitude = e.cfg.Altitude

	e.satellite = sat
	e.propagator = sim.New(sat, solver)
	for _, m := range metrics.Standard(sat) {
		e.propagator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.propagator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.propagator.Run(ctx, e.cfg.GetInitState(), e.cfg.RunConfig())
}

// Scenario packages the experiment for a sim.Ensemble.
func (e *Experiment) Scenario() sim.Scenario {
	return sim.Scenario{
		Name:       e.cfg.Scenario,
		Propagator: e.propagator,
		X0:         e.cfg.GetInitState(),
		Config:     e.cfg.RunConfig(),
	}
}

func (e *Experiment) SetLogger(l *slog.Logger) {
	if e.propagator != nil {
		e.propagator.SetLogger(l)
	}
}

// GetPropagator returns the underlying propagator for adding observers.
func (e *Experiment) GetPropagator() *sim.Propagator { return e.propagator }

func (e *Experiment) Satellite() *physics.Satellite { return e.satellite }

func (e *Experiment) Config() *config.Config { return e.cfg }
