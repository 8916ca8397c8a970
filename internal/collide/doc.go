// Package collide implements narrow-phase contact generation between
// primitive shapes.
//
// Detectors are pure functions of their primitives. Each appends
// [particle.Contact] records to a caller-owned, capacity-bounded [Data]
// buffer and returns how many it wrote. A full buffer is not an error: the
// detector writes what fits and returns the partial count.
//
// Box-box is an overlap predicate only ([BoxAndBox]); it reports whether
// two boxes intersect but generates no contact manifold.
package collide
