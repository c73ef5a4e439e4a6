package observer

import "testing"

func TestBusFiresRegisteredObservers(t *testing.T) {
	b := New()

	var gotPairs [][2]int
	b.OnNewNeighbour(func(p, q int) { gotPairs = append(gotPairs, [2]int{p, q}) })

	var reinitCount int
	b.OnReInit(func() { reinitCount++ })

	b.FireNewNeighbour(1, 2)
	b.FireNewNeighbour(3, 4)
	b.FireReInit()

	if len(gotPairs) != 2 || gotPairs[0] != [2]int{1, 2} || gotPairs[1] != [2]int{3, 4} {
		t.Fatalf("unexpected pairs observed: %v", gotPairs)
	}
	if reinitCount != 1 {
		t.Fatalf("expected 1 reinit signal, got %d", reinitCount)
	}
}

func TestBusWithNoObserversIsNoop(t *testing.T) {
	b := New()
	b.FireNewLocal(1, 2)
	b.FireCellChange(1, 0)
	b.FireParticleUpdate(ParticleUpdate{Kind: "test"})
}
