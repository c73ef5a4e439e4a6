package liouvillean

import (
	"math"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

// Newtonian is the plain hard-sphere / square-well dynamics: ballistic
// flight, elastic or inelastic sphere-sphere collisions, specular or
// thermostatted wall collisions. Grounded on
// original_source/.../liouvillean.cpp's CLNewton default behaviour.
type Newtonian struct {
	BC geom.BoundaryCondition
	// Size is the primary cell's side lengths, needed to apply the
	// boundary condition to a pair separation.
	Size geom.Vec
}

func NewNewtonian(bc geom.BoundaryCondition, size geom.Vec) *Newtonian {
	return &Newtonian{BC: bc, Size: size}
}

func (n *Newtonian) Name() string { return "Newtonian" }

func (n *Newtonian) Update(p *particle.Particle, t float64) {
	if p.LocalClock == t {
		return
	}
	p.Position = p.StreamedPosition(t)
	p.LocalClock = t
}

func (n *Newtonian) UpdateAll(ps []*particle.Particle, t float64) {
	for _, p := range ps {
		n.Update(p, t)
	}
}

func (n *Newtonian) ParticleDelay(p *particle.Particle, t float64) float64 {
	return p.Delay(t)
}

func (n *Newtonian) relativeState(p, q *particle.Particle, t float64) (geom.Vec, geom.Vec) {
	dp, dq := p.Delay(t), q.Delay(t)
	rp := geom.Stream(p.Position, p.Velocity, dp)
	rq := geom.Stream(q.Position, q.Velocity, dq)
	r := rp.Sub(rq)
	n.BC.ApplyBC(&r, n.Size)
	v := p.Velocity.Sub(q.Velocity)
	n.BC.ApplyBCVel(&v, n.Size)
	return r, v
}

func (n *Newtonian) SphereSphereInRoot(p, q *particle.Particle, t, sigma float64) (float64, bool) {
	r, v := n.relativeState(p, q, t)
	a := v.Nrm2()
	b := 2 * r.Dot(v)
	c := r.Nrm2() - sigma*sigma
	root, ok := smallestPositiveRoot(a, b, c)
	if !ok {
		return 0, false
	}
	return clampNonNegative(root, "Newtonian.SphereSphereInRoot"), true
}

func (n *Newtonian) SquareCellCollision2(p *particle.Particle, t float64, origin, extent geom.Vec) float64 {
	best := math.Inf(1)
	d := p.Delay(t)
	x := geom.Stream(p.Position, p.Velocity, d)
	for i := 0; i < geom.NDIM; i++ {
		v := p.Velocity[i]
		if v == 0 {
			continue
		}
		var dt float64
		if v > 0 {
			dt = (origin[i] + extent[i] - x[i]) / v
		} else {
			dt = (origin[i] - x[i]) / v
		}
		if dt < best {
			best = dt
		}
	}
	return clampNonNegative(best, "Newtonian.SquareCellCollision2")
}

func (n *Newtonian) SquareCellCollision3(p *particle.Particle, t float64, origin, extent geom.Vec) int {
	bestAxis := 0
	best := math.Inf(1)
	d := p.Delay(t)
	x := geom.Stream(p.Position, p.Velocity, d)
	for i := 0; i < geom.NDIM; i++ {
		v := p.Velocity[i]
		if v == 0 {
			continue
		}
		var dt float64
		if v > 0 {
			dt = (origin[i] + extent[i] - x[i]) / v
		} else {
			dt = (origin[i] - x[i]) / v
		}
		if dt < best {
			best = dt
			bestAxis = i
		}
	}
	return bestAxis
}

func (n *Newtonian) WallCollision(p *particle.Particle, t float64, x0, normal geom.Vec) (float64, bool) {
	d := p.Delay(t)
	x := geom.Stream(p.Position, p.Velocity, d)
	rel := x.Sub(x0)
	dist := rel.Dot(normal)
	speed := p.Velocity.Dot(normal)
	if speed >= 0 {
		return 0, false
	}
	dt := -dist / speed
	return clampNonNegative(dt, "Newtonian.WallCollision"), true
}

// ResolveSphereSphere implements the standard hard-sphere impulse:
// exchange momentum along the line of centres, scaled by the coefficient
// of restitution e (e=1 elastic).
func (n *Newtonian) ResolveSphereSphere(p, q *particle.Particle, t, sigma, e float64, massOf func(id int) float64) PairDelta {
	n.Update(p, t)
	n.Update(q, t)

	mp, mq := massOf(p.ID), massOf(q.ID)
	r := p.Position.Sub(q.Position)
	n.BC.ApplyBC(&r, n.Size)
	unit := r.Scale(1 / r.Nrm())

	vBefore := p.Velocity.Sub(q.Velocity)
	n.BC.ApplyBCVel(&vBefore, n.Size)
	vn := vBefore.Dot(unit)

	reduced := (mp * mq) / (mp + mq)
	impulse := (1 + e) * reduced * vn

	oldP, oldQ := p.Velocity, q.Velocity
	p.Velocity = p.Velocity.Sub(unit.Scale(impulse / mp))
	q.Velocity = q.Velocity.Add(unit.Scale(impulse / mq))

	return PairDelta{
		A: Delta{ParticleID: p.ID, OldVelocity: oldP, NewVelocity: p.Velocity},
		B: Delta{ParticleID: q.ID, OldVelocity: oldQ, NewVelocity: q.Velocity},
	}
}

// RunAndersenWallCollision resamples the wall-normal velocity component
// from a Maxwell-Boltzmann distribution (a normal draw scaled by sqrtT,
// folded positive since the particle must leave the wall) and reflects
// the tangential components unchanged, grounded on
// original_source/.../AndersenWall.cpp's runEvent path.
func (n *Newtonian) RunAndersenWallCollision(p *particle.Particle, t float64, normal geom.Vec, sqrtT float64, rng Rand) Delta {
	n.Update(p, t)
	old := p.Velocity

	sample := math.Abs(rng.NormFloat64()) * sqrtT
	vn := p.Velocity.Dot(normal)
	p.Velocity = p.Velocity.Sub(normal.Scale(vn)).Add(normal.Scale(sample))

	return Delta{ParticleID: p.ID, OldVelocity: old, NewVelocity: p.Velocity}
}

func (n *Newtonian) KineticEnergy(p *particle.Particle, mass float64) float64 {
	return 0.5 * mass * p.Velocity.Nrm2()
}

func (n *Newtonian) HasOrientation() bool { return false }

func (n *Newtonian) ParticleDOF() int { return geom.NDIM }

func (n *Newtonian) RunLineLineCollision(p, q *particle.Particle, t, length float64) PairDelta {
	unsupported(n.Name(), "runLineLineCollision")
	return PairDelta{}
}

func (n *Newtonian) RunOscillatingPlate(p *particle.Particle, t float64, origin, normal geom.Vec, omega, amplitude, mass, e float64) Delta {
	// Plate position at time t: origin + normal*amplitude*sin(omega*t).
	n.Update(p, t)
	old := p.Velocity
	plateVel := normal.Scale(amplitude * omega * math.Cos(omega*t))
	vRel := p.Velocity.Sub(plateVel)
	vn := vRel.Dot(normal)
	if vn < 0 {
		reduced := mass // plate mass against a unit-mass particle; the plate's own motion is unaffected
		impulse := (1 + e) * vn * reduced / (reduced + 1)
		p.Velocity = p.Velocity.Sub(normal.Scale(impulse))
	}
	return Delta{ParticleID: p.ID, OldVelocity: old, NewVelocity: p.Velocity}
}

func (n *Newtonian) ParallelCubeColl(p, q *particle.Particle, t, e, d float64) PairDelta {
	unsupported(n.Name(), "parallelCubeColl")
	return PairDelta{}
}
