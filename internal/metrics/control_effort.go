package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/dartsim/internal/dynamo"
	"github.com/san-kum/dartsim/internal/physics"
)

// ControlEffort is the mean commanded dipole magnitude, A·m².
type ControlEffort struct {
	name    string
	sat     *physics.Satellite
	sum     float64
	samples int
}

func NewControlEffort(sat *physics.Satellite) *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
		sat:  sat,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x dynamo.State, t float64) {
	d, err := c.sat.Diagnose(x, t)
	if err != nil {
		return
	}
	c.sum += r3.Norm(d.Dipole)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
