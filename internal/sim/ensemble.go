package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// Scenario is one independent run of an ensemble. Each scenario needs its
// own Propagator since metrics and fixed-step solvers carry state.
type Scenario struct {
	Name       string
	Propagator *Propagator
	X0         dynamo.State
	Config     dynamo.Config
}

// Ensemble runs scenarios concurrently, at most Limit at a time (0 means
// no limit). The first failure cancels the remaining runs.
type Ensemble struct {
	Limit int
}

func NewEnsemble(limit int) *Ensemble {
	return &Ensemble{Limit: limit}
}

// Run returns one result per scenario, in order. Results of scenarios that
// failed or were canceled hold whatever was propagated before stopping.
func (e *Ensemble) Run(ctx context.Context, scenarios []Scenario) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	if e.Limit > 0 {
		g.SetLimit(e.Limit)
	}
	for i, sc := range scenarios {
		g.Go(func() error {
			res, err := sc.Propagator.Run(ctx, sc.X0, sc.Config)
			results[i] = res
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
