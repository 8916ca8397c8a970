package particle

// Registration pairs a borrowed particle with the generator acting on it.
type Registration struct {
	Particle  *Particle
	Generator ForceGenerator
}

// Registry applies force generators to particles in registration order.
// It holds no ownership; every registered particle must outlive it.
type Registry struct {
	registrations []Registration
}

func NewRegistry() *Registry {
	return &Registry{registrations: make([]Registration, 0)}
}

func (r *Registry) Add(p *Particle, g ForceGenerator) {
	r.registrations = append(r.registrations, Registration{Particle: p, Generator: g})
}

// Remove deletes the first matching pair, preserving the order of the rest.
// It reports whether a pair was found.
func (r *Registry) Remove(p *Particle, g ForceGenerator) bool {
	for i, reg := range r.registrations {
		if reg.Particle == p && reg.Generator == g {
			r.registrations = append(r.registrations[:i], r.registrations[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Clear()   { r.registrations = r.registrations[:0] }
func (r *Registry) Len() int { return len(r.registrations) }

func (r *Registry) UpdateForces(dt float64) {
	for _, reg := range r.registrations {
		reg.Generator.UpdateForce(reg.Particle, dt)
	}
}
