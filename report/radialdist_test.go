package report

import (
	"testing"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

func TestRadialDistributionBinsKnownSeparation(t *testing.T) {
	size := geom.Vec{20, 20, 20}
	rd := NewRadialDistribution(0.1, 50, geom.Periodic{}, size)
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{0, 0, 0}, geom.Vec{}, 0),
		particle.NewParticle(1, geom.Vec{1, 0, 0}, geom.Vec{}, 0),
	}
	rd.Sample(0, ps)

	g := rd.GOfR(1.0)
	expectedBin := int(1.0 / 0.1)
	if rd.counts[expectedBin] != 1 {
		t.Fatalf("expected the separation-1 pair in bin %d, counts=%v", expectedBin, rd.counts)
	}
	if g[expectedBin] <= 0 {
		t.Fatalf("expected a positive g(r) at the populated bin, got %v", g[expectedBin])
	}
}

func TestNewRadialDistributionDerivesLengthFromBoxSize(t *testing.T) {
	rd := NewRadialDistribution(0.5, 0, geom.Periodic{}, geom.Vec{10, 10, 10})
	if rd.Length != 2+int(10.0/(2*0.5)) {
		t.Fatalf("expected derived length matching the smallest box dimension, got %d", rd.Length)
	}
}
