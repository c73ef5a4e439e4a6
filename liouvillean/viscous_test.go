package liouvillean

import (
	"math"
	"testing"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

func TestReducedMassSumIsSumNotDifference(t *testing.T) {
	got := ReducedMassSum(2, 4)
	want := 1.0/2 + 1.0/4
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("ReducedMassSum(2,4) = %v, want %v (sum, not difference)", got, want)
	}
}

func TestLargestRootInUnitInterval(t *testing.T) {
	// u^2 - 1.5u + 0.5 = 0 -> roots 1.0 and 0.5; largest in (0,1] is 1.0.
	u, ok := largestRootInUnitInterval(1, -1.5, 0.5)
	if !ok {
		t.Fatal("expected a root")
	}
	if math.Abs(u-1.0) > 1e-9 {
		t.Fatalf("got %v, want 1.0", u)
	}
}

func TestViscousNoDragFallsBackToNewtonian(t *testing.T) {
	v := NewViscous(geom.Periodic{}, geom.Vec{10, 10, 10}, geom.Vec{}, 0)
	x := v.Gravity
	if x != (geom.Vec{}) {
		t.Fatalf("unexpected gravity default")
	}

	n := NewNewtonian(geom.Periodic{}, geom.Vec{10, 10, 10})
	p := particle.NewParticle(0, geom.Vec{-2, 0, 0}, geom.Vec{1, 0, 0}, 0)
	q := particle.NewParticle(1, geom.Vec{2, 0, 0}, geom.Vec{-1, 0, 0}, 0)
	want, wantOK := n.SphereSphereInRoot(p, q, 0, 1)
	got, gotOK := v.SphereSphereInRoot(p, q, 0, 1)
	if got != want || gotOK != wantOK {
		t.Fatalf("Viscous with Gamma=0 predicted (%v, %v), Newtonian predicted (%v, %v)", got, gotOK, want, wantOK)
	}
}
