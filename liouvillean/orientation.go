package liouvillean

import (
	"math"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

// NewtonianOrientation extends Newtonian with a streamed quaternion
// orientation and angular velocity, needed by line/rod interactions
// (runLineLineCollision) and rigid-body output. Grounded on
// original_source/.../liouvillean.cpp's CLNOrientation constructor.
type NewtonianOrientation struct {
	Newtonian
}

func NewNewtonianOrientation(bc geom.BoundaryCondition, size geom.Vec) *NewtonianOrientation {
	return &NewtonianOrientation{Newtonian: Newtonian{BC: bc, Size: size}}
}

func (n *NewtonianOrientation) Name() string { return "NOrientation" }

func (n *NewtonianOrientation) Update(p *particle.Particle, t float64) {
	if p.LocalClock == t {
		return
	}
	dt := p.Delay(t)
	n.Newtonian.Update(p, t)
	if p.HasOrientation {
		p.Orientation.Quat = integrateQuaternion(p.Orientation.Quat, p.Orientation.Angular, dt)
	}
}

func (n *NewtonianOrientation) HasOrientation() bool { return true }

func (n *NewtonianOrientation) ParticleDOF() int { return 2 * geom.NDIM }

// RunLineLineCollision resolves a rod-rod collision: swaps linear
// momentum along the contact normal exactly as the sphere-sphere
// resolver, and reverses the whole angular velocity of each particle
// that tracks orientation (a simplified rod model sufficient for the
// event-driven kernel; full rough-rod dynamics is a pure-function
// interaction concern out of scope here).
func (n *NewtonianOrientation) RunLineLineCollision(p, q *particle.Particle, t, length float64) PairDelta {
	n.Update(p, t)
	n.Update(q, t)

	oldP, oldQ := p.Velocity, q.Velocity
	r := p.Position.Sub(q.Position)
	n.BC.ApplyBC(&r, n.Size)
	unit := r.Scale(1 / r.Nrm())

	rel := p.Velocity.Sub(q.Velocity)
	vn := rel.Dot(unit)
	p.Velocity = p.Velocity.Sub(unit.Scale(vn))
	q.Velocity = q.Velocity.Add(unit.Scale(vn))

	if p.HasOrientation {
		p.Orientation.Angular = p.Orientation.Angular.Scale(-1)
	}
	if q.HasOrientation {
		q.Orientation.Angular = q.Orientation.Angular.Scale(-1)
	}

	return PairDelta{
		A: Delta{ParticleID: p.ID, OldVelocity: oldP, NewVelocity: p.Velocity},
		B: Delta{ParticleID: q.ID, OldVelocity: oldQ, NewVelocity: q.Velocity},
	}
}

// integrateQuaternion advances a unit quaternion by a constant angular
// velocity over dt using the standard first-order exponential map, then
// renormalises to cancel drift (DynamO's
// Quaternion::fromRotationAxis(...) * orientation, normalise).
func integrateQuaternion(q [4]float64, omega geom.Vec, dt float64) [4]float64 {
	theta := omega.Nrm() * dt
	if theta == 0 {
		return q
	}
	axis := omega.Scale(1 / omega.Nrm())
	half := theta / 2
	s := math.Sin(half)
	dq := [4]float64{math.Cos(half), axis[0] * s, axis[1] * s, axis[2] * s}

	out := quatMul(dq, q)
	n := math.Sqrt(out[0]*out[0] + out[1]*out[1] + out[2]*out[2] + out[3]*out[3])
	for i := range out {
		out[i] /= n
	}
	return out
}

func quatMul(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[0]*b[0] - a[1]*b[1] - a[2]*b[2] - a[3]*b[3],
		a[0]*b[1] + a[1]*b[0] + a[2]*b[3] - a[3]*b[2],
		a[0]*b[2] - a[1]*b[3] + a[2]*b[0] + a[3]*b[1],
		a[0]*b[3] + a[1]*b[2] - a[2]*b[1] + a[3]*b[0],
	}
}
