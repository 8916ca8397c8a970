// Package dynamo provides the shared primitives of the softbody core.
//
// The package defines the small vocabulary every other package speaks:
//
//   - [State]: flat observation vector recorded by the simulator
//   - [SafeNormalize]: zero-length guarded normalisation for [mgl64.Vec3]
//   - [Configurable]: runtime parameter access for UIs and the CLI
//   - domain errors such as [ErrUnstable] and [ErrParameterBounds]
//
// # Degenerate Geometry
//
// Normalising a zero vector is undefined. Every caller in this module goes
// through [SafeNormalize], which returns the zero vector instead of NaN:
//
//	dir := dynamo.SafeNormalize(p.Position().Sub(anchor))
//
// # Thread Safety
//
// Nothing in this package holds state. Aggregates built on top of it
// (cloth, emitter) are NOT thread-safe and assume one simulation goroutine.
package dynamo
