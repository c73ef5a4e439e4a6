package report

import (
	"strings"
	"testing"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/liouvillean"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/species"
)

func TestSampleConservesMomentumForFreeFlight(t *testing.T) {
	dyn := liouvillean.NewNewtonian(geom.Periodic{}, geom.Vec{100, 100, 100})
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{0, 0, 0}, geom.Vec{1, 0, 0}, 0),
		particle.NewParticle(1, geom.Vec{1, 0, 0}, geom.Vec{-1, 0, 0}, 1),
	}
	sp := species.Table{Default: species.Species{Name: "A", Mass: 1, Radius: 0.5}}

	initial := Sample(0, ps, sp, dyn)
	final := Sample(5, ps, sp, dyn)

	if initial.Momentum != final.Momentum {
		t.Fatalf("expected momentum to be conserved under free flight: initial %v final %v", initial.Momentum, final.Momentum)
	}
	if initial.KineticEnergy != final.KineticEnergy {
		t.Fatalf("expected kinetic energy to be conserved under free flight: initial %v final %v", initial.KineticEnergy, final.KineticEnergy)
	}
}

func TestDriftReportRendersATable(t *testing.T) {
	dyn := liouvillean.NewNewtonian(geom.Periodic{}, geom.Vec{100, 100, 100})
	ps := []*particle.Particle{particle.NewParticle(0, geom.Vec{}, geom.Vec{1, 0, 0}, 0)}
	sp := species.Table{Default: species.Species{Name: "A", Mass: 1, Radius: 0.5}}

	initial := Sample(0, ps, sp, dyn)
	final := Sample(1, ps, sp, dyn)
	report := Drift(initial, final)

	out := report.Render()
	if !strings.Contains(out, "Kinetic energy") {
		t.Fatalf("expected rendered table to mention kinetic energy, got:\n%s", out)
	}
}
