package metrics

import (
	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/physics"
)

// Standard returns the metric set recorded for every dart run.
func Standard(sat *physics.Satellite) []dynamo.Metric {
	return []dynamo.Metric{
		NewOrbitalEnergyDrift(sat),
		NewMomentumDrift(),
		NewRateDamping(),
		NewFinalRate(),
		NewQuaternionNorm(),
		NewPointingError(0),
		NewControlEffort(sat),
	}
}
