package report

import (
	"math"
	"testing"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

func TestChainBondLengthMeanOfStraightChain(t *testing.T) {
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{0, 0, 0}, geom.Vec{}, 0),
		particle.NewParticle(1, geom.Vec{1, 0, 0}, geom.Vec{}, 1),
		particle.NewParticle(2, geom.Vec{2, 0, 0}, geom.Vec{}, 2),
	}
	store := particle.NewStore(ps)
	chain := NewChainBondLength(0, []int{0, 1, 2})
	chain.Sample(0, store)

	if chain.Mean() != 1.0 {
		t.Fatalf("expected mean bond length 1.0, got %v", chain.Mean())
	}
	if chain.StdDev() != 0.0 {
		t.Fatalf("expected zero stddev for a uniform chain, got %v", chain.StdDev())
	}
}

func TestChainBondAnglesStraightChainHasCosMinusOne(t *testing.T) {
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{0, 0, 0}, geom.Vec{}, 0),
		particle.NewParticle(1, geom.Vec{1, 0, 0}, geom.Vec{}, 1),
		particle.NewParticle(2, geom.Vec{2, 0, 0}, geom.Vec{}, 2),
	}
	store := particle.NewStore(ps)
	angles := NewChainBondAngles(0, []int{0, 1, 2})
	angles.Sample(0, store)

	// A perfectly straight chain has the two flanking bonds pointing in
	// opposite directions from the middle particle, cos(theta) = -1.
	if math.Abs(angles.MeanCos()-(-1.0)) > 1e-9 {
		t.Fatalf("expected cos(theta) = -1 for a straight chain, got %v", angles.MeanCos())
	}
}
