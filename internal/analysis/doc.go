// Package analysis post-processes propagated series.
//
// State samples are read through named channels ([LookupChannel]): raw
// components such as "wx" or "q0" and derived ones such as "rate" (|ω|) or
// "nose" (angle between body +x and the flow, degrees).
//
// The solver emits non-uniform time steps, so spectral tools first
// [Resample] onto a uniform grid:
//
//	ch, _ := analysis.LookupChannel("wx")
//	f, err := analysis.DominantFrequency(s.Times, analysis.Extract(s, ch), 0.5)
//
// [GeneratePhasePortrait] pairs two channels for terminal plotting.
package analysis
