package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/san-kum/dartsim/internal/config"
	"github.com/san-kum/dartsim/internal/experiment"
)

var ErrNoTrials = errors.New("optim: no trial produced the metric")

// BuildFunc turns one grid point into a ready-to-run experiment.
type BuildFunc func(params map[string]float64) (*experiment.Experiment, error)

// Trial is one evaluated grid point. Err is set when the run failed; Value
// is then NaN.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every point of the grid and returns the parameters that
// minimize metricName, its value and every trial in grid order. Failed
// points are recorded but never chosen.
func (g *GridSearch) Search(ctx context.Context, build BuildFunc, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d parameter names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &trials); err != nil {
		return nil, 0, trials, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for _, tr := range trials {
		if tr.Err == nil && tr.Value < best {
			best, bestParams = tr.Value, tr.Params
		}
	}
	if bestParams == nil {
		return nil, 0, trials, fmt.Errorf("%w %q", ErrNoTrials, metricName)
	}
	return maps.Clone(bestParams), best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build BuildFunc,
	metricName string,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		*trials = append(*trials, evaluate(ctx, current, build, metricName))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := maps.Clone(current)
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, trials); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, params map[string]float64, build BuildFunc, metricName string) Trial {
	tr := Trial{Params: params, Value: math.NaN()}

	exp, err := build(params)
	if err != nil {
		tr.Err = err
		return tr
	}
	result, err := exp.Run(ctx)
	if err != nil {
		tr.Err = err
		return tr
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		tr.Err = fmt.Errorf("metric %q not recorded (have %v)", metricName, slices.Sorted(maps.Keys(result.Metrics)))
		return tr
	}
	tr.Value = val
	return tr
}

// ControlBuilder maps "gain" and "max_dipole" grid parameters onto copies of
// base. Parameters absent from a grid point keep their base value.
func ControlBuilder(reg *experiment.Registry, base *config.Config) BuildFunc {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			switch name {
			case "gain":
				cfg.ControlParams.Gain = v
			case "max_dipole":
				cfg.ControlParams.MaxDipole = v
			default:
				return nil, fmt.Errorf("unknown sweep parameter %q", name)
			}
		}
		return experiment.Build(reg, cfg)
	}
}
