package scheduler

import "github.com/edmdsim/dynamogo/event"

// Dumb is the O(N) baseline sorter: a map of slots scanned linearly for
// the minimum on every pop, trading asymptotic cost for a trivial
// implementation with no auxiliary index structure. Grounded on
// original_source/.../dumbsched.cpp, whose SDumb scheduler answers
// neighbourhood queries the same brute-force way (see Scheduler's own
// getParticleNeighbourhood baseline).
type Dumb struct {
	slots map[int]Stamped
}

// NewDumb builds an empty linear-scan sorter.
func NewDumb() *Dumb {
	return &Dumb{slots: make(map[int]Stamped)}
}

func (d *Dumb) Push(s Stamped) { d.slots[s.Event.Particle] = s }

func (d *Dumb) Remove(particle int) { delete(d.slots, particle) }

func (d *Dumb) Len() int { return len(d.slots) }

func (d *Dumb) PeekMin() (Stamped, bool) {
	var best Stamped
	found := false
	for _, s := range d.slots {
		if !found || event.Less(s.Event, best.Event) {
			best = s
			found = true
		}
	}
	return best, found
}

func (d *Dumb) PopMin() (Stamped, bool) {
	best, found := d.PeekMin()
	if found {
		delete(d.slots, best.Event.Particle)
	}
	return best, found
}
