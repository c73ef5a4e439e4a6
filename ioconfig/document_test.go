package ioconfig

import (
	"bytes"
	"strings"
	"testing"
)

const sampleDoc = `<Simulation>
  <Dynamics Type="Newtonian">
    <Units unitLength="1" unitVelocity="1" unitEnergy="1" unitTime="1" unitAcceleration="1"/>
    <BC Type="PBC" sizex="10" sizey="10" sizez="10"/>
    <Genus>
      <Species Name="Default" Mass="1" Radius="0.5"/>
    </Genus>
  </Dynamics>
  <ParticleData N="2" AttachedBinary="N" OrientationDataInc="N">
    <Pt ID="0" PositionX="-2" PositionY="0" PositionZ="0" VelocityX="1" VelocityY="0" VelocityZ="0"/>
    <Pt ID="1" PositionX="2" PositionY="0" PositionZ="0" VelocityX="-1" VelocityY="0" VelocityZ="0"/>
  </ParticleData>
  <Scheduler Type="BoundedPQ" lambda="0.25" OverLink="1"/>
</Simulation>`

func TestLoadParsesSampleDocument(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dynamics.Name() != "Newtonian" {
		t.Fatalf("expected Newtonian dynamics, got %s", cfg.Dynamics.Name())
	}
	if len(cfg.Particles) != 2 {
		t.Fatalf("expected 2 particles, got %d", len(cfg.Particles))
	}
	if cfg.Particles[0].Position[0] != -2 {
		t.Fatalf("expected particle 0 at x=-2, got %v", cfg.Particles[0].Position)
	}
	if cfg.Lambda != 0.25 {
		t.Fatalf("expected Scheduler Lambda resolved case-insensitively, got %v", cfg.Lambda)
	}
}

func TestLoadSaveLoadRoundTrip(t *testing.T) {
	cfg, err := Load(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("initial Load failed: %v", err)
	}

	var buf bytes.Buffer
	if err := SaveSimulation(&buf, cfg, cfg.Particles, SaveOptions{Binary: false}); err != nil {
		t.Fatalf("SaveSimulation failed: %v", err)
	}

	reloaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Particles) != len(cfg.Particles) {
		t.Fatalf("particle count changed across round trip: got %d want %d", len(reloaded.Particles), len(cfg.Particles))
	}
	for i := range cfg.Particles {
		if reloaded.Particles[i].Position != cfg.Particles[i].Position {
			t.Fatalf("particle %d position changed: got %v want %v", i, reloaded.Particles[i].Position, cfg.Particles[i].Position)
		}
		if reloaded.Particles[i].Velocity != cfg.Particles[i].Velocity {
			t.Fatalf("particle %d velocity changed: got %v want %v", i, reloaded.Particles[i].Velocity, cfg.Particles[i].Velocity)
		}
	}
}

func TestLoadRejectsMissingParticleData(t *testing.T) {
	doc := `<Simulation>
  <Dynamics Type="Newtonian">
    <BC Type="PBC" sizex="10" sizey="10" sizez="10"/>
  </Dynamics>
  <Scheduler Type="BoundedPQ"/>
</Simulation>`
	if _, err := Load(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for missing <ParticleData>")
	}
}

func TestLoadRejectsOrientationDataForNonOrientationDynamics(t *testing.T) {
	doc := `<Simulation>
  <Dynamics Type="Newtonian">
    <BC Type="PBC" sizex="10" sizey="10" sizez="10"/>
  </Dynamics>
  <ParticleData N="1" AttachedBinary="N" OrientationDataInc="Y">
    <Pt ID="0" PositionX="0" PositionY="0" PositionZ="0" VelocityX="0" VelocityY="0" VelocityZ="0"/>
  </ParticleData>
  <Scheduler Type="BoundedPQ"/>
</Simulation>`
	if _, err := Load(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for OrientationDataInc=Y under Newtonian dynamics")
	}
}
