// Package particle holds the particle store: positions, velocities,
// the lazily streamed local clock, and the intrusive cell-list slot each
// particle occupies.
package particle

import "github.com/edmdsim/dynamogo/geom"

// Orientation carries the optional orientation/angular-velocity state
// used by the NewtonianOrientation dynamics variant. Dynamics that never
// set HasOrientation ignore this field entirely.
type Orientation struct {
	Quat    [4]float64 // unit quaternion, w,x,y,z
	Angular geom.Vec
}

// Particle is one rigid body in the simulation.
type Particle struct {
	ID       int
	Position geom.Vec
	Velocity geom.Vec
	Species  int // id that species.Table.Lookup matches against each entry's [Lo, Hi) range; loaders set it to the particle's own id

	// LocalClock is t_p: the absolute time at which Position/Velocity
	// were last valid. Streamed (x + v*(t-t_p), v) is the state every
	// external observer sees; the stored state here is fast-forwarded
	// lazily, only when the particle participates in an event.
	LocalClock float64

	HasOrientation bool
	Orientation    Orientation

	// Cell is the id of the cell this particle currently occupies,
	// mirrored from cell.Grid so liouvillean predictors that only need
	// the particle don't have to reach into the grid.
	Cell int
	// listNext is set to -1 at construction and read nowhere; cell.Grid
	// keeps its per-cell resident lists in its own next array.
	listNext int32
}

// NewParticle constructs a particle at global time zero.
func NewParticle(id int, pos, vel geom.Vec, species int) *Particle {
	return &Particle{ID: id, Position: pos, Velocity: vel, Species: species, listNext: -1}
}

// StreamedPosition returns the particle's position advanced to time t
// under free (Newtonian) flight, without mutating stored state. This is
// the read path every predictor and observer uses.
func (p *Particle) StreamedPosition(t float64) geom.Vec {
	return geom.Stream(p.Position, p.Velocity, t-p.LocalClock)
}

// Delay returns t - t_p, letting a caller predict in the un-streamed
// frame and subtract the delay afterwards instead of materialising the
// streamed state.
func (p *Particle) Delay(t float64) float64 {
	return t - p.LocalClock
}

// Store is the dense particle vector the simulation owns.
type Store struct {
	particles []*Particle
}

// NewStore builds a Store from an already-constructed particle slice,
// which must be in dense id order (particles[i].ID == i).
func NewStore(ps []*Particle) *Store {
	return &Store{particles: ps}
}

// Get returns the particle with the given id.
func (s *Store) Get(id int) *Particle { return s.particles[id] }

// Len returns the number of particles.
func (s *Store) Len() int { return len(s.particles) }

// All returns the backing slice for iteration; callers must not retain
// it past the current call.
func (s *Store) All() []*Particle { return s.particles }
