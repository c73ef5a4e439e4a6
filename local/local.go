// Package local implements the "Local" event kind: surfaces that live
// inside a region of space rather than being global — walls, plates and
// thermostatted surfaces that a cell may overlap.
// Grounded on original_source/.../AndersenWall.cpp.
package local

import (
	"github.com/edmdsim/dynamogo/event"
	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/liouvillean"
	"github.com/edmdsim/dynamogo/particle"
)

// Local is one local event source: a wall, plate, or thermostat surface.
type Local interface {
	ID() int
	Name() string
	// GetEvent predicts the next LOCAL event for p against this surface,
	// or (event.Event{}, false) if none is predicted.
	GetEvent(p *particle.Particle, t float64, dyn liouvillean.Dynamics) (event.Event, bool)
	// RunEvent executes the surface's resolver for p at the predicted
	// time and returns the delta for observers.
	RunEvent(p *particle.Particle, t float64, dyn liouvillean.Dynamics) liouvillean.Delta
	// IsInCell reports whether this surface's overlap region intersects
	// the extended cell box [origin, origin+extent].
	IsInCell(origin, extent geom.Vec) bool
}

// AndersenWall is a stochastic thermostatting wall: on contact it
// reflects the particle positionally and resamples the wall-normal
// velocity component from a Maxwell-Boltzmann distribution at the
// configured temperature (runAndersenWallCollision).
type AndersenWall struct {
	LocalID  int
	LocalNm  string
	Position geom.Vec
	Normal   geom.Vec
	SqrtT    float64
	Rng      liouvillean.Rand
}

func (w *AndersenWall) ID() int      { return w.LocalID }
func (w *AndersenWall) Name() string { return w.LocalNm }

func (w *AndersenWall) GetEvent(p *particle.Particle, t float64, dyn liouvillean.Dynamics) (event.Event, bool) {
	dt, ok := dyn.WallCollision(p, t, w.Position, w.Normal)
	if !ok {
		return event.Event{}, false
	}
	return event.Event{Particle: p.ID, Time: t + dt, Kind: event.Local, Payload: w.LocalID}, true
}

func (w *AndersenWall) RunEvent(p *particle.Particle, t float64, dyn liouvillean.Dynamics) liouvillean.Delta {
	return dyn.RunAndersenWallCollision(p, t, w.Normal, w.SqrtT, w.Rng)
}

// IsInCell tests whether the infinite plane through Position with normal
// Normal passes through the axis-aligned box [origin, origin+extent],
// the cube/plane overlap test DynamO names CubePlane.
func (w *AndersenWall) IsInCell(origin, extent geom.Vec) bool {
	var minD, maxD float64
	first := true
	for i := 0; i < 8; i++ {
		corner := origin
		for axis := 0; axis < geom.NDIM; axis++ {
			if i&(1<<axis) != 0 {
				corner[axis] += extent[axis]
			}
		}
		d := corner.Sub(w.Position).Dot(w.Normal)
		if first {
			minD, maxD = d, d
			first = false
		} else {
			if d < minD {
				minD = d
			}
			if d > maxD {
				maxD = d
			}
		}
	}
	return minD <= 0 && maxD >= 0
}
