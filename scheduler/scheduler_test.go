package scheduler

import (
	"testing"

	"github.com/edmdsim/dynamogo/event"
	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

func TestBoundedPQOrdersByTime(t *testing.T) {
	pq := NewBoundedPQ()
	pq.Push(Stamped{Event: event.Event{Particle: 0, Time: 5}})
	pq.Push(Stamped{Event: event.Event{Particle: 1, Time: 2}})
	pq.Push(Stamped{Event: event.Event{Particle: 2, Time: 8}})

	st, ok := pq.PopMin()
	if !ok || st.Event.Particle != 1 {
		t.Fatalf("expected particle 1 first, got %+v", st)
	}
	st, ok = pq.PopMin()
	if !ok || st.Event.Particle != 0 {
		t.Fatalf("expected particle 0 second, got %+v", st)
	}
}

func TestBoundedPQReplacesExistingSlot(t *testing.T) {
	pq := NewBoundedPQ()
	pq.Push(Stamped{Event: event.Event{Particle: 0, Time: 10}})
	pq.Push(Stamped{Event: event.Event{Particle: 0, Time: 1}})

	if pq.Len() != 1 {
		t.Fatalf("expected exactly one slot per particle, got %d", pq.Len())
	}
	st, _ := pq.PeekMin()
	if st.Event.Time != 1 {
		t.Fatalf("expected the replaced (newer) slot to win, got time %v", st.Event.Time)
	}
}

func TestDumbOrdersByTime(t *testing.T) {
	d := NewDumb()
	d.Push(Stamped{Event: event.Event{Particle: 0, Time: 5}})
	d.Push(Stamped{Event: event.Event{Particle: 1, Time: 2}})

	st, ok := d.PopMin()
	if !ok || st.Event.Particle != 1 {
		t.Fatalf("expected particle 1 first, got %+v", st)
	}
}

func TestSchedulerDiscardsStaleSlots(t *testing.T) {
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{}, geom.Vec{}, 0),
		particle.NewParticle(1, geom.Vec{}, geom.Vec{}, 0),
	}
	store := particle.NewStore(ps)

	sched := New(NewBoundedPQ(), BruteNeighbourhood{Store: store}, store)
	sched.PushEvent(ps[0], event.Event{Particle: 0, Time: 1, Kind: event.System})
	sched.PushEvent(ps[1], event.Event{Particle: 1, Time: 2, Kind: event.System})

	ps[0].LocalClock = 0.5 // simulate particle 0 having been updated elsewhere

	repredicted := false
	predict := func(p *particle.Particle) event.Event {
		repredicted = true
		return event.Event{Particle: p.ID, Time: 10, Kind: event.System}
	}

	ev, ok := sched.PopNextEvent(StaleByClock(store), predict)
	if !ok {
		t.Fatal("expected an event")
	}
	if ev.Particle != 1 {
		t.Fatalf("expected the stale slot for particle 0 to be skipped, got particle %d", ev.Particle)
	}
	if !repredicted {
		t.Fatal("expected the stale slot's owner to be re-predicted instead of dropped")
	}
	if sched.Len() != 1 {
		t.Fatalf("expected particle 0 to keep a pending slot after re-prediction, got %d slots", sched.Len())
	}
}

func TestBruteNeighbourhoodVisitsEveryOtherParticle(t *testing.T) {
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{}, geom.Vec{}, 0),
		particle.NewParticle(1, geom.Vec{}, geom.Vec{}, 0),
		particle.NewParticle(2, geom.Vec{}, geom.Vec{}, 0),
	}
	store := particle.NewStore(ps)
	nb := BruteNeighbourhood{Store: store}

	var seen []int
	nb.GetParticleNeighbourhood(ps[0], func(p, q int) { seen = append(seen, q) })

	if len(seen) != 2 {
		t.Fatalf("expected 2 neighbours, got %v", seen)
	}
}
