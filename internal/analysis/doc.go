// Package analysis inspects recorded runs and scenario behaviour.
//
//   - [PowerSpectrum] and [DominantFrequency]: flutter frequency of a channel
//   - [Sweep]: settled channel values across a range of one parameter
//   - [Divergence]: growth rate of a small positional disturbance
//   - [NewPhasePortrait] and [Crossings]: two-channel phase plots
//
// A cloth flapping in wind shows up as a clear peak in the tip channel:
//
//	labels, states, _, _ := store.LoadStates(id)
//	tip, _ := storage.Channel(labels, states, "tip_z")
//	hz := analysis.DominantFrequency(tip, dt)
package analysis
