package collide

import "github.com/san-kum/softbody/internal/particle"

// Data is a bounded contact buffer shared by a detection pass.
type Data struct {
	Restitution float64
	Friction    float64

	contacts []particle.Contact
	capacity int
}

func NewData(capacity int) *Data {
	return &Data{
		contacts: make([]particle.Contact, 0, capacity),
		capacity: capacity,
	}
}

// ContactsLeft returns how many more contacts fit.
func (d *Data) ContactsLeft() int { return d.capacity - len(d.contacts) }

// Contacts returns the contacts written since the last Reset. The slice is
// reused by the next pass.
func (d *Data) Contacts() []particle.Contact { return d.contacts }

func (d *Data) Len() int { return len(d.contacts) }

func (d *Data) Reset() { d.contacts = d.contacts[:0] }

// add keeps a movable participant in slot 0, flipping the normal when the
// pair is swapped.
func (d *Data) add(c particle.Contact) {
	if c.Particles[0] == nil && c.Particles[1] != nil {
		c.Particles[0], c.Particles[1] = c.Particles[1], nil
		c.Normal = c.Normal.Mul(-1)
	}
	c.Restitution = d.Restitution
	d.contacts = append(d.contacts, c)
}
