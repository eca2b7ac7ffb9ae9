package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/integrators"
)

// Orbiter is a system whose orbital reference frame turns at the
// circular-orbit rate for radius r.
type Orbiter interface {
	dynamo.System
	OrbitalPeriod(r float64) float64
}

// Validator is implemented by systems that can check their own
// configuration before a run.
type Validator interface {
	Validate() error
}

// Propagator drives the solver over fixed increments and re-bases the
// attitude into the rotated orbital frame between increments.
//
// A Propagator holds metric state and is not safe for concurrent runs.
type Propagator struct {
	sys       Orbiter
	solver    integrators.AdaptiveSolver
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *slog.Logger
}

func New(sys Orbiter, solver integrators.AdaptiveSolver) *Propagator {
	return &Propagator{
		sys:       sys,
		solver:    solver,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    slog.New(slog.DiscardHandler),
	}
}

func (p *Propagator) AddMetric(m dynamo.Metric)     { p.metrics = append(p.metrics, m) }
func (p *Propagator) AddObserver(o dynamo.Observer) { p.observers = append(p.observers, o) }

func (p *Propagator) SetLogger(l *slog.Logger) {
	if l != nil {
		p.logger = l
	}
}

func (p *Propagator) System() Orbiter { return p.sys }

// Run propagates x0 from t=0 until a segment starts at or past cfg.Horizon.
// On failure the samples accumulated so far are returned alongside a
// *dynamo.SimulationError.
//
// The sample stored at each segment end carries the attitude as solved,
// relative to the orbital frame of the segment that produced it. The
// re-based attitude only seeds the next segment, whose duplicate start
// sample is not stored; observers receive the re-based state.
func (p *Propagator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := p.Validate(x0, cfg); err != nil {
		return nil, err
	}

	segments := int(math.Ceil(cfg.Horizon / cfg.Increment))
	result := &dynamo.Result{
		Series:  dynamo.NewSeries(segments*4 + 1),
		Metrics: make(map[string]float64),
	}
	for _, m := range p.metrics {
		m.Reset()
	}

	opts := integrators.OptionsFromConfig(cfg)
	x := x0.Clone()
	x.NormalizeAttitude()
	t := 0.0
	p.record(result, t, x)

	for seg := 0; t < cfg.Horizon; seg++ {
		if cfg.MaxSegments > 0 && seg >= cfg.MaxSegments {
			return p.fail(result, seg, t, x, fmt.Errorf("%d segments: %w", seg, dynamo.ErrStepBudget))
		}
		select {
		case <-ctx.Done():
			return p.fail(result, seg, t, x, fmt.Errorf("%w: %v", dynamo.ErrContextCanceled, ctx.Err()))
		default:
		}

		span, err := p.solver.Solve(ctx, p.sys, t, t+cfg.Increment, x, opts)
		if span != nil {
			for i := 1; i < span.Len(); i++ {
				ti, xi := span.At(i)
				xi = xi.Clone()
				xi.NormalizeAttitude()
				p.record(result, ti, xi)
			}
			result.StepsTaken += span.Len() - 1
		}
		if err != nil {
			return p.fail(result, seg, t, x, err)
		}

		tEnd, xEnd, _ := result.Series.Last()
		next, err := p.Rebase(xEnd, cfg.Increment)
		if err != nil {
			return p.fail(result, seg, tEnd, xEnd, err)
		}
		x, t = next, tEnd
		result.Segments++

		for _, obs := range p.observers {
			obs.OnSegment(seg, x, t)
		}
	}

	p.finish(result)
	p.logger.Debug("propagation finished",
		"segments", result.Segments,
		"samples", result.Series.Len(),
		"steps", result.StepsTaken,
		"t", t)
	return result, nil
}

// Rebase turns the attitude of x into the orbital frame as it will be after
// increment seconds of a circular orbit at the current radius. Position,
// velocity and rate are copied unchanged.
func (p *Propagator) Rebase(x dynamo.State, increment float64) (dynamo.State, error) {
	period := p.sys.OrbitalPeriod(r3.Norm(x.Position()))
	return Rebase(x, increment, period)
}

func (p *Propagator) record(result *dynamo.Result, t float64, x dynamo.State) {
	result.Series.Append(t, x)
	for _, m := range p.metrics {
		m.Observe(x, t)
	}
}

func (p *Propagator) finish(result *dynamo.Result) {
	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (p *Propagator) fail(result *dynamo.Result, seg int, t float64, x dynamo.State, err error) (*dynamo.Result, error) {
	p.finish(result)
	p.logger.Warn("propagation failed", "segment", seg, "t", t, "err", err)
	return result, &dynamo.SimulationError{Segment: seg, Time: t, State: x.Clone(), Wrapped: err}
}
