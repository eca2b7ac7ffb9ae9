package sim

import (
	"context"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
)

// LogObserver writes one structured record per Every segments.
type LogObserver struct {
	Logger *slog.Logger
	Every  int
	Level  slog.Level
}

func NewLogObserver(l *slog.Logger, every int) *LogObserver {
	return &LogObserver{Logger: l, Every: every, Level: slog.LevelDebug}
}

func (o *LogObserver) OnSegment(segment int, x dynamo.State, t float64) {
	if o.Logger == nil {
		return
	}
	if o.Every > 1 && segment%o.Every != 0 {
		return
	}
	o.Logger.Log(context.Background(), o.Level, "segment",
		"n", segment,
		"t", t,
		"radius_km", r3.Norm(x.Position()),
		"rate", r3.Norm(x.Rate()),
	)
}

// FuncObserver adapts a function to dynamo.Observer.
type FuncObserver func(segment int, x dynamo.State, t float64)

func (f FuncObserver) OnSegment(segment int, x dynamo.State, t float64) { f(segment, x, t) }
