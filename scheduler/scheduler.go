package scheduler

import (
	"github.com/edmdsim/dynamogo/event"
	"github.com/edmdsim/dynamogo/particle"
)

// Neighbourhood answers per-particle proximity queries; satisfied by
// *cell.Grid when a spatial decomposition is in use, or by
// BruteNeighbourhood for the O(N^2) fallback — schedulers delegate
// neighbour discovery rather than owning it.
type Neighbourhood interface {
	GetParticleNeighbourhood(p *particle.Particle, fn func(p, q int))
}

// BruteNeighbourhood is the SDumb-style fallback: every other resident
// particle is a neighbour, grounded on
// original_source/.../dumbsched.cpp's getParticleNeighbourhood.
type BruteNeighbourhood struct {
	Store *particle.Store
}

func (b BruteNeighbourhood) GetParticleNeighbourhood(p *particle.Particle, fn func(p, q int)) {
	for _, q := range b.Store.All() {
		if q.ID != p.ID {
			fn(p.ID, q.ID)
		}
	}
}

// Scheduler owns exactly one pending event slot per particle and the
// Sorter used to find the global minimum among them.
type Scheduler struct {
	sorter Sorter
	nbhd   Neighbourhood
	store  *particle.Store
}

// New builds a Scheduler over the given sorter, neighbourhood
// collaborator and particle store. The store is needed at push time so
// an INTERACTION slot can be stamped with its partner's clock too — an
// INTERACTION prediction depends on both particles' trajectories, so
// either one moving invalidates it.
func New(sorter Sorter, nbhd Neighbourhood, store *particle.Store) *Scheduler {
	return &Scheduler{sorter: sorter, nbhd: nbhd, store: store}
}

// PushEvent installs p's predicted next event, stamping it with p's
// current LocalClock (and, for an INTERACTION event, its partner's
// LocalClock too) so later staleness can be detected without an
// explicit invalidation list.
func (s *Scheduler) PushEvent(p *particle.Particle, ev event.Event) {
	st := Stamped{Event: ev, Clock: p.LocalClock}
	if ev.Kind == event.Interaction {
		st.PartnerClock = s.store.Get(ev.Payload).LocalClock
	}
	s.sorter.Push(st)
}

// RemoveEvent clears any pending slot held for a particle, used when a
// particle is about to be re-predicted out of band (e.g. a cell
// transit invalidates both the old CELL and INTERACTION slots at once).
func (s *Scheduler) RemoveEvent(particle int) { s.sorter.Remove(particle) }

// PopNextEvent extracts the globally earliest event, re-scanning past any
// stale slots — stale meaning the owning particle's store state was
// updated since the slot was predicted. isStale is supplied by the
// caller since only the particle store knows each particle's current
// clock. A stale slot is never simply dropped: its owning particle is
// re-predicted via predict and pushed back in, so it keeps a pending
// slot just like every other resident.
func (s *Scheduler) PopNextEvent(isStale func(Stamped) bool, predict func(p *particle.Particle) event.Event) (event.Event, bool) {
	for {
		st, ok := s.sorter.PopMin()
		if !ok {
			return event.Event{}, false
		}
		if isStale(st) {
			p := s.store.Get(st.Event.Particle)
			s.PushEvent(p, predict(p))
			continue
		}
		return st.Event, true
	}
}

// PeekNext reports the earliest pending event without consuming it.
// Unlike PopNextEvent it cannot drop stale entries (that would mutate
// the sorter), so callers must tolerate a stale result and re-peek after
// a PopNextEvent clears it.
func (s *Scheduler) PeekNext() (event.Event, bool) {
	st, ok := s.sorter.PeekMin()
	if !ok {
		return event.Event{}, false
	}
	return st.Event, true
}

// Len reports how many particles currently hold a pending slot.
func (s *Scheduler) Len() int { return s.sorter.Len() }

// FullUpdate rebuilds every particle's slot from scratch, used after a
// global rescaling or a configuration reload invalidates every
// prediction at once.
func (s *Scheduler) FullUpdate(ps []*particle.Particle, predict func(p *particle.Particle) event.Event) {
	for _, p := range ps {
		s.PushEvent(p, predict(p))
	}
}

// GetParticleNeighbourhood delegates to the configured neighbourhood
// collaborator.
func (s *Scheduler) GetParticleNeighbourhood(p *particle.Particle, fn func(p, q int)) {
	s.nbhd.GetParticleNeighbourhood(p, fn)
}

// StaleByClock is the canonical isStale predicate: a slot is stale if the
// owning particle's LocalClock has moved past the clock it was stamped
// with, meaning some other event updated the particle after this one was
// predicted. For an INTERACTION slot the partner's clock is checked too,
// since the prediction depended on both trajectories.
func StaleByClock(store *particle.Store) func(Stamped) bool {
	return func(st Stamped) bool {
		if store.Get(st.Event.Particle).LocalClock != st.Clock {
			return true
		}
		if st.Event.Kind == event.Interaction {
			return store.Get(st.Event.Payload).LocalClock != st.PartnerClock
		}
		return false
	}
}
