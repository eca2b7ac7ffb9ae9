package analysis

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/environment"
	"github.com/san-kum/dartsim/internal/quat"
)

// Channel is a named scalar read out of a state sample.
type Channel struct {
	Name string
	Unit string
	Eval func(x dynamo.State) float64
}

func component(name, unit string, idx int) Channel {
	return Channel{Name: name, Unit: unit, Eval: func(x dynamo.State) float64 { return x[idx] }}
}

var channels = map[string]Channel{
	"rx": component("rx", "km", dynamo.PosIdx),
	"ry": component("ry", "km", dynamo.PosIdx+1),
	"rz": component("rz", "km", dynamo.PosIdx+2),
	"vx": component("vx", "km/s", dynamo.VelIdx),
	"vy": component("vy", "km/s", dynamo.VelIdx+1),
	"vz": component("vz", "km/s", dynamo.VelIdx+2),
	"q0": component("q0", "", dynamo.QuatIdx),
	"q1": component("q1", "", dynamo.QuatIdx+1),
	"q2": component("q2", "", dynamo.QuatIdx+2),
	"q3": component("q3", "", dynamo.QuatIdx+3),
	"wx": component("wx", "rad/s", dynamo.RateIdx),
	"wy": component("wy", "rad/s", dynamo.RateIdx+1),
	"wz": component("wz", "rad/s", dynamo.RateIdx+2),
	"radius": {Name: "radius", Unit: "km", Eval: func(x dynamo.State) float64 {
		return r3.Norm(x.Position())
	}},
	"speed": {Name: "speed", Unit: "km/s", Eval: func(x dynamo.State) float64 {
		return r3.Norm(x.Velocity())
	}},
	"rate": {Name: "rate", Unit: "rad/s", Eval: func(x dynamo.State) float64 {
		return r3.Norm(x.Rate())
	}},
	"nose": {Name: "nose", Unit: "deg", Eval: noseAngle},
}

// noseAngle is the angle between body +x and the flow.
func noseAngle(x dynamo.State) float64 {
	q := quat.Normalize(quat.FromArray(x.Attitude()))
	flow := quat.ToBody(environment.FlowDirection, q)
	c := math.Max(-1, math.Min(1, r3.Unit(flow).X))
	return math.Acos(c) * 180 / math.Pi
}

func LookupChannel(name string) (Channel, error) {
	ch, ok := channels[name]
	if !ok {
		return Channel{}, fmt.Errorf("unknown channel %q (have %v)", name, ChannelNames())
	}
	return ch, nil
}

func ChannelNames() []string {
	return slices.Sorted(maps.Keys(channels))
}

// Extract evaluates ch at every sample of s.
func Extract(s *dynamo.Series, ch Channel) []float64 {
	out := make([]float64, s.Len())
	for i, x := range s.States {
		out[i] = ch.Eval(x)
	}
	return out
}
