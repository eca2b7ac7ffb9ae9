// Package physics provides the coupled orbit and attitude model of the dart
// satellite.
//
// [Satellite] implements the [dynamo.System] interface over the 13-component
// state laid out in package dynamo:
//
//   - translational block: two-body gravity, [TwoBodyAcceleration]
//   - attitude block: quaternion kinematics and Euler's equation,
//     [AngularAcceleration], driven by the magnetic control torque minus the
//     aerodynamic torque
//
// Inertia is carried explicitly by the model; nothing here holds mutable
// state across derivative evaluations.
//
// # Conservation
//
// [Satellite] implements [dynamo.Hamiltonian] with the orbital specific
// energy, which two-body gravity conserves regardless of the attitude torques:
//
//	sat := physics.NewSatellite(physics.Diag(0.038, 0.04, 0.0066667), control.NewNone(), epoch)
//	e0 := sat.Energy(x0)
package physics
