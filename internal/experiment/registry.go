package experiment

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/dartsim/internal/control"
	"github.com/san-kum/dartsim/internal/environment"
	"github.com/san-kum/dartsim/internal/integrators"
)

type Registry struct {
	integrators map[string]func() integrators.AdaptiveSolver
	controllers map[string]func(map[string]float64) control.Law
	aero        map[string]func() environment.AeroModel
	geometries  map[string]func() environment.Geometry
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() integrators.AdaptiveSolver),
		controllers: make(map[string]func(map[string]float64) control.Law),
		aero:        make(map[string]func() environment.AeroModel),
		geometries:  make(map[string]func() environment.Geometry),
	}

	r.integrators["rk45"] = func() integrators.AdaptiveSolver { return integrators.NewDormandPrince() }
	r.integrators["rk4"] = func() integrators.AdaptiveSolver { return integrators.NewFixedStep(integrators.NewRK4()) }
	r.integrators["euler"] = func() integrators.AdaptiveSolver { return integrators.NewFixedStep(integrators.NewEuler()) }

	r.controllers["none"] = func(params map[string]float64) control.Law {
		return control.NewNone()
	}
	r.controllers["bdot"] = func(params map[string]float64) control.Law {
		c := control.NewBDot(params["gain"])
		c.MaxDipole = params["max_dipole"]
		return c
	}

	r.aero["panel"] = func() environment.AeroModel { return environment.NewPanelModel() }
	r.aero["none"] = func() environment.AeroModel { return nil }

	r.geometries["dart"] = environment.DartGeometry

	return r
}

func (r *Registry) GetIntegrator(name string) (integrators.AdaptiveSolver, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params map[string]float64) (control.Law, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetAero(name string) (environment.AeroModel, error) {
	fn, ok := r.aero[name]
	if !ok {
		return nil, fmt.Errorf("unknown aero model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetGeometry(name string) (environment.Geometry, error) {
	fn, ok := r.geometries[name]
	if !ok {
		return environment.Geometry{}, fmt.Errorf("unknown geometry: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string { return slices.Sorted(maps.Keys(r.integrators)) }
func (r *Registry) ListControllers() []string { return slices.Sorted(maps.Keys(r.controllers)) }
func (r *Registry) ListAero() []string        { return slices.Sorted(maps.Keys(r.aero)) }
func (r *Registry) ListGeometries() []string  { return slices.Sorted(maps.Keys(r.geometries)) }
