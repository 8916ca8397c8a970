// Package particle implements point-mass dynamics for the softbody core.
//
// A [Particle] carries position, velocity, a constant acceleration and a
// transient force accumulator. Forces are contributed by [ForceGenerator]
// values registered in a per-aggregate [Registry]; contacts between
// particles (or a particle and static geometry) are resolved by a
// [Resolver] using greedy sequential impulses.
//
// # Ownership
//
// Particles are owned by the aggregate that created them (a cloth, an
// emitter, a scene). Registries, generators and contacts only borrow
// pointers to them and must not outlive the owner.
//
// # Per-step order
//
//	reg.UpdateForces(dt)
//	for _, p := range particles {
//	    p.Integrate(dt)
//	}
//	resolver.ResolveContacts(contacts, dt)
package particle
