package liouvillean

import (
	"math"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

// Viscous is the dissipative dynamics with constant gravity and a linear
// drag term: dv/dt = g - gamma*v between events. Grounded on
// original_source/.../viscous.cpp.
//
// Open question resolved: the source's SphereSphereInRoot
// computes the reduced-mass-like quantity M as a *difference*
// (1/m1 - 1/m2) and then returns a hardcoded 0, discarding the quadratic
// root it just built. Both are treated here as bugs: M is the reduced
// mass *sum* 1/m1 + 1/m2 (consistent with every other reduced-mass use
// in the engine, e.g. Newtonian.ResolveSphereSphere), and the predictor
// returns the smallest positive real root instead of a constant.
type Viscous struct {
	Newtonian
	Gravity geom.Vec
	Gamma   float64
}

func NewViscous(bc geom.BoundaryCondition, size geom.Vec, gravity geom.Vec, gamma float64) *Viscous {
	return &Viscous{Newtonian: Newtonian{BC: bc, Size: size}, Gravity: gravity, Gamma: gamma}
}

func (v *Viscous) Name() string { return "Viscous" }

// Update streams position under the exact solution of dv/dt = g -
// gamma*v: v(t) = v_inf + (v0 - v_inf) e^{-gamma dt}, with v_inf = g/gamma,
// and integrates position accordingly. Falls back to plain ballistic
// motion when Gamma is zero (no drag configured).
func (v *Viscous) Update(p *particle.Particle, t float64) {
	if p.LocalClock == t {
		return
	}
	dt := p.Delay(t)

	if v.Gamma == 0 {
		p.Position = geom.Stream(p.Position, p.Velocity, dt)
		p.LocalClock = t
		return
	}

	vInf := v.Gravity.Scale(1 / v.Gamma)
	decay := math.Exp(-v.Gamma * dt)

	v0MinusVInf := p.Velocity.Sub(vInf)
	newVel := vInf.Add(v0MinusVInf.Scale(decay))

	// Position: x(t) = x0 + vInf*dt + (v0-vInf)*(1-decay)/gamma
	disp := vInf.Scale(dt).Add(v0MinusVInf.Scale((1 - decay) / v.Gamma))
	p.Position = p.Position.Add(disp)
	p.Velocity = newVel
	p.LocalClock = t
}

func (v *Viscous) UpdateAll(ps []*particle.Particle, t float64) {
	for _, p := range ps {
		v.Update(p, t)
	}
}

// SphereSphereInRoot solves |r12(t)|^2 = sigma^2 for the drag-relaxed
// relative motion r12(t) = A + B*exp(-gamma t), A = X + V/gamma,
// B = -V/gamma, where X is the current separation and V the relative
// velocity. Substituting u = exp(-gamma t) gives the
// quadratic B.B u^2 + 2(A.B) u + (A.A - sigma^2) = 0; the physical root
// is the largest u in (0,1] (smallest positive t).
func (v *Viscous) SphereSphereInRoot(p, q *particle.Particle, t, sigma float64) (float64, bool) {
	if v.Gamma == 0 {
		return v.Newtonian.SphereSphereInRoot(p, q, t, sigma)
	}

	dp, dq := p.Delay(t), q.Delay(t)
	rp := geom.Stream(p.Position, p.Velocity, dp)
	rq := geom.Stream(q.Position, q.Velocity, dq)
	x := rp.Sub(rq)
	v.BC.ApplyBC(&x, v.Size)

	vel := p.Velocity.Sub(q.Velocity)
	v.BC.ApplyBCVel(&vel, v.Size)

	b := vel.Scale(-1 / v.Gamma)
	a := x.Sub(b)

	qa := b.Nrm2()
	qb := 2 * a.Dot(b)
	qc := a.Nrm2() - sigma*sigma

	u, ok := largestRootInUnitInterval(qa, qb, qc)
	if !ok {
		return 0, false
	}
	dt := -math.Log(u) / v.Gamma
	return clampNonNegative(dt, "Viscous.SphereSphereInRoot"), true
}

// largestRootInUnitInterval returns the largest real root of
// a*u^2+b*u+c=0 lying in (0,1], or (0,false) if neither root qualifies.
func largestRootInUnitInterval(a, b, c float64) (float64, bool) {
	const eps = 1e-12
	var roots []float64

	if math.Abs(a) < eps {
		if math.Abs(b) > eps {
			roots = append(roots, -c/b)
		}
	} else {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			roots = append(roots, (-b-sq)/(2*a), (-b+sq)/(2*a))
		}
	}

	found := false
	var best float64
	for _, r := range roots {
		if r > 0 && r <= 1 && (!found || r > best) {
			best = r
			found = true
		}
	}
	return best, found
}

// ReducedMassSum is the open-question resolution: M = 1/m1 + 1/m2.
func ReducedMassSum(m1, m2 float64) float64 {
	return 1/m1 + 1/m2
}

func (v *Viscous) KineticEnergy(p *particle.Particle, mass float64) float64 {
	return 0.5 * mass * p.Velocity.Nrm2()
}

// PBCSentinelTime returns the (conservatively huge) time budget before a
// low-density, drag-driven system needs a periodic-image sentinel
// re-check. The original notes this is "bad for low densities" and
// always returns HUGE_VAL; we preserve that conservative behaviour.
func (v *Viscous) PBCSentinelTime(p *particle.Particle, lMax float64) float64 {
	return math.Inf(1)
}

func (v *Viscous) RunLineLineCollision(p, q *particle.Particle, t, length float64) PairDelta {
	unsupported(v.Name(), "runLineLineCollision")
	return PairDelta{}
}

func (v *Viscous) RunOscillatingPlate(p *particle.Particle, t float64, origin, normal geom.Vec, omega, amplitude, mass, e float64) Delta {
	unsupported(v.Name(), "runOscillatingPlate")
	return Delta{}
}

func (v *Viscous) ParallelCubeColl(p, q *particle.Particle, t, e, d float64) PairDelta {
	unsupported(v.Name(), "parallelCubeColl")
	return PairDelta{}
}
