// Package dynamo provides core simulation primitives for the satellite propagator.
//
// The package defines the fundamental interfaces and types shared by the
// physics, solver and propagation layers:
//
//   - [State]: 13-component satellite state (position, velocity, attitude, body rate)
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Series]: growable time series of emitted samples
//   - [Config]: segment increment, horizon and solver tolerances
//   - [SimulationError]: failure context wrapping the sentinel errors
//
// # State layout
//
//	x[0:3]   ECI position, km
//	x[3:6]   ECI velocity, km/s
//	x[6:10]  attitude quaternion [w, x, y, z], orbital frame to body frame
//	x[10:13] body angular rate, rad/s
//
// The quaternion block is not kept at unit norm by integration. Consumers
// call [State.NormalizeAttitude] or normalize a copy before use.
package dynamo
