package control

import "gonum.org/v1/gonum/spatial/r3"

// None commands no dipole.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Dipole(b, w r3.Vec) r3.Vec { return r3.Vec{} }

func (n *None) Torque(b, w r3.Vec) r3.Vec { return r3.Vec{} }
