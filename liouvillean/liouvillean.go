// Package liouvillean implements the analytic predictors and resolvers:
// given two particles or a particle and a surface, return the time
// until the next event and the post-event state change. Every
// operation is pure with respect to global state except the resolvers,
// which mutate exactly the particles passed to them.
package liouvillean

import (
	"math"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/simerr"
)

// NoEvent is the sentinel "no event" predicted time.
const NoEvent = math.MaxFloat64

// Delta is the change a resolver reports for a single particle, handed to
// observers.
type Delta struct {
	ParticleID  int
	OldVelocity geom.Vec
	NewVelocity geom.Vec
}

// PairDelta is the resolved state change of an INTERACTION event.
type PairDelta struct {
	A, B Delta
}

// Dynamics is the capability set the engine assigns to the liouvillean:
// stream, predict_pair, resolve_pair, predict_wall, resolve_wall,
// kinetic_energy. Concrete variants are Newtonian, NewtonianOrientation,
// SLLOD and Viscous.
type Dynamics interface {
	// Name identifies the variant for config round-tripping.
	Name() string

	// Update fast-forwards p's stored state to time t. Idempotent: a
	// second call at the same t is a no-op.
	Update(p *particle.Particle, t float64)

	// UpdateAll fast-forwards every particle in ps to time t.
	UpdateAll(ps []*particle.Particle, t float64)

	// ParticleDelay returns t - p.LocalClock.
	ParticleDelay(p *particle.Particle, t float64) float64

	// SphereSphereInRoot returns the smallest positive real root of
	// |r_pq(t)|^2 = sigma^2 in relative-motion time, measured from
	// current time t, or (0, false) if the pair never approaches to
	// sigma within their current trajectories.
	SphereSphereInRoot(p, q *particle.Particle, t, sigma float64) (float64, bool)

	// SquareCellCollision2 returns the time until p leaves the extended
	// cell box [origin, origin+extent], always positive under the cell
	// grid's invariants.
	SquareCellCollision2(p *particle.Particle, t float64, origin, extent geom.Vec) float64

	// SquareCellCollision3 returns the axis index of the face p will
	// cross first, tie-broken by the smallest axis index.
	SquareCellCollision3(p *particle.Particle, t float64, origin, extent geom.Vec) int

	// WallCollision returns the time until the signed distance
	// (x(t)-x0).n from the positive side reaches zero, or (0, false) if
	// p is moving away from the wall.
	WallCollision(p *particle.Particle, t float64, x0, normal geom.Vec) (float64, bool)

	// ResolveSphereSphere executes a hard-sphere collision between p and
	// q at time t with contact diameter sigma and coefficient of
	// restitution e, mutating both particles' velocities in place and
	// returning the reported delta.
	ResolveSphereSphere(p, q *particle.Particle, t, sigma, e float64, massOf func(id int) float64) PairDelta

	// RunAndersenWallCollision resamples the velocity component along
	// normal from a Maxwell-Boltzmann distribution at temperature sqrtT
	// (already sqrt'd), reflecting positionally, and returns the delta.
	RunAndersenWallCollision(p *particle.Particle, t float64, normal geom.Vec, sqrtT float64, rng Rand) Delta

	// KineticEnergy returns 0.5*m*|v|^2 for the streamed velocity.
	KineticEnergy(p *particle.Particle, mass float64) float64

	// HasOrientation reports whether this variant tracks orientation
	// data; the loader rejects OrientationDataInc=Y for variants that
	// answer false.
	HasOrientation() bool

	// ParticleDOF returns the degrees of freedom per particle used by
	// the equipartition temperature estimate: 3 for translational-only
	// dynamics, 6 once orientation is tracked.
	ParticleDOF() int

	// RunLineLineCollision, RunOscillatingPlate and ParallelCubeColl are
	// kind-specific resolvers. Variants that do not implement them call
	// simerr.Unsupported, matching each variant's own stub overrides.
	RunLineLineCollision(p, q *particle.Particle, t, length float64) PairDelta
	RunOscillatingPlate(p *particle.Particle, t float64, origin, normal geom.Vec, omega, amplitude, mass, e float64) Delta
	ParallelCubeColl(p, q *particle.Particle, t, e, d float64) PairDelta
}

// Rand is the minimal random source the resolvers need; math/rand.Rand
// satisfies it.
type Rand interface {
	NormFloat64() float64
}

// unsupported panics with UnsupportedForThisDynamics; kept as a package
// helper so every variant's stub overrides read the same way.
func unsupported(dynamics, operation string) {
	simerr.Unsupported(dynamics, operation)
}

// clampNonNegative enforces the failure semantics predictors must obey:
// never return a negative time. A solve that yields a small negative
// root within numeric slack returns 0; anything more negative is an
// invariant violation (it means the particle's stored state was already
// stale when the predicate ran).
func clampNonNegative(dt float64, where string) float64 {
	const slack = 1e-9
	if dt >= 0 {
		return dt
	}
	if dt > -slack {
		return 0
	}
	simerr.Violate("%s predicted a negative time %g beyond numeric slack", where, dt)
	return 0 // unreachable
}

// smallestPositiveRoot solves a*t^2 + b*t + c = 0 and returns the
// smallest strictly positive real root, or (0, false) if none exists.
// Shared by every variant's SphereSphereInRoot.
func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	const eps = 1e-12

	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return 0, false
		}
		t := -c / b
		if t > 0 {
			return t, true
		}
		return 0, false
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	if t1 > 0 {
		return t1, true
	}
	if t2 > 0 {
		return t2, true
	}
	return 0, false
}
