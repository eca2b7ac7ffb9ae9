// Package sim propagates the coupled orbit and attitude state.
//
// A run alternates two phases per increment: the adaptive solver integrates
// the system over [t, t+increment] and every accepted sample is kept; then
// [Rebase] re-expresses the attitude relative to the orbital frame, which
// has turned by increment/period·360° about orbital -Y in the meantime.
//
//	p := sim.New(sat, integrators.NewDormandPrince())
//	p.AddObserver(sim.NewLogObserver(logger, 100))
//	res, err := p.Run(ctx, x0, dynamo.DefaultConfig())
//
// The period is that of a circular orbit at the current radius.
package sim
