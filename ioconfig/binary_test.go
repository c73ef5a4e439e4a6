package ioconfig

import (
	"testing"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

func TestBinaryRoundTrip(t *testing.T) {
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{1, 2, 3}, geom.Vec{0.1, -0.2, 0.3}, 0),
		particle.NewParticle(1, geom.Vec{-1, -2, -3}, geom.Vec{4, 5, 6}, 0),
	}
	encoded := EncodeParticlesBinary(ps, false)

	decoded, err := DecodeParticlesBinary(encoded, false)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != len(ps) {
		t.Fatalf("expected %d particles, got %d", len(ps), len(decoded))
	}
	for i, p := range ps {
		if decoded[i].Position != p.Position || decoded[i].Velocity != p.Velocity {
			t.Fatalf("particle %d did not round trip: got %+v want %+v", i, decoded[i], p)
		}
	}
}

func TestBinaryRoundTripWithOrientation(t *testing.T) {
	p := particle.NewParticle(0, geom.Vec{1, 1, 1}, geom.Vec{2, 2, 2}, 0)
	p.HasOrientation = true
	p.Orientation.Quat = [4]float64{1, 0, 0, 0}
	p.Orientation.Angular = geom.Vec{0.5, 0, 0}

	encoded := EncodeParticlesBinary([]*particle.Particle{p}, true)
	decoded, err := DecodeParticlesBinary(encoded, true)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded[0].Orientation.Quat != p.Orientation.Quat {
		t.Fatalf("quaternion did not round trip: got %v want %v", decoded[0].Orientation.Quat, p.Orientation.Quat)
	}
	if decoded[0].Orientation.Angular != p.Orientation.Angular {
		t.Fatalf("angular velocity did not round trip: got %v want %v", decoded[0].Orientation.Angular, p.Orientation.Angular)
	}
}

func TestBinaryWrapsAt80Columns(t *testing.T) {
	ps := make([]*particle.Particle, 20)
	for i := range ps {
		ps[i] = particle.NewParticle(i, geom.Vec{float64(i), 0, 0}, geom.Vec{0, 0, 0}, 0)
	}
	encoded := EncodeParticlesBinary(ps, false)
	for _, line := range splitLines(encoded) {
		if len(line) > 80 {
			t.Fatalf("line exceeds 80 columns: %d", len(line))
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func TestDecodeParticlesBinaryRejectsOutOfSequenceID(t *testing.T) {
	ps := []*particle.Particle{particle.NewParticle(0, geom.Vec{}, geom.Vec{}, 0)}
	ps[0].ID = 5 // corrupt the id after construction
	encoded := EncodeParticlesBinary(ps, false)
	if _, err := DecodeParticlesBinary(encoded, false); err == nil {
		t.Fatal("expected an error for out-of-sequence id")
	}
}
