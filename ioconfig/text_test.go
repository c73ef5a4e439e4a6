package ioconfig

import (
	"strings"
	"testing"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

func TestTextRoundTrip(t *testing.T) {
	ps := []*particle.Particle{
		particle.NewParticle(0, geom.Vec{1, 2, 3}, geom.Vec{0.5, -0.5, 0}, 0),
		particle.NewParticle(1, geom.Vec{-1, -2, -3}, geom.Vec{0, 0, 1}, 1),
	}
	encoded := EncodeParticlesText(ps)

	decoded, err := DecodeParticlesText(strings.NewReader(encoded), len(ps))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i, p := range ps {
		if decoded[i].Position != p.Position || decoded[i].Velocity != p.Velocity {
			t.Fatalf("particle %d did not round trip: got %+v want %+v", i, decoded[i], p)
		}
	}
}

func TestDecodeParticlesTextRejectsWrongFieldCount(t *testing.T) {
	if _, err := DecodeParticlesText(strings.NewReader("0 1 2 3\n"), 1); err == nil {
		t.Fatal("expected an error for a short particle line")
	}
}

func TestDecodeParticlesTextRejectsOutOfSequenceID(t *testing.T) {
	if _, err := DecodeParticlesText(strings.NewReader("5 0 0 0 0 0 0\n"), 1); err == nil {
		t.Fatal("expected an error for out-of-sequence id")
	}
}
