// Package control provides magnetic attitude control laws.
//
// Laws implement [Law] and map the body-frame field (Tesla) and body rate
// (rad/s) to a commanded dipole and the resulting torque:
//
//   - [BDot]: rate damping, m = k·Ḃ with k < 0, τ = m × B
//   - [None]: zero dipole (torque-free verification runs)
//
// # Usage
//
//	law := control.NewBDot(control.DefaultGain)
//	tau := law.Torque(bBody, omega)
//
// B-dot only removes angular rate; it does not target an attitude.
package control

import "gonum.org/v1/gonum/spatial/r3"

// Law is a magnetic control law evaluated once per derivative evaluation.
type Law interface {
	Dipole(b, w r3.Vec) r3.Vec
	Torque(b, w r3.Vec) r3.Vec
}

var (
	_ Law = (*BDot)(nil)
	_ Law = (*None)(nil)
)
