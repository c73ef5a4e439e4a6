// Package cell implements the neighbourhood global: a spatial
// decomposition maintained as an intrusive linked list per cell,
// producing CELL events so the neighbour list stays correct as particles
// move. Grounded on original_source/.../gcells.cpp.
package cell

import (
	"math"

	"github.com/edmdsim/dynamogo/event"
	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/liouvillean"
	"github.com/edmdsim/dynamogo/local"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/simerr"
)

const maxCellsPerAxis = 200

// Grid is the rectilinear cell lattice, one intrusive per-cell linked
// list of resident particles plus the derived lattice geometry needed
// to predict and execute CELL transits.
type Grid struct {
	Size     geom.Vec // primary box side lengths
	Count    [geom.NDIM]int
	Lattice  geom.Vec // w_i = L_i / N_i
	Extent   geom.Vec // D_i = w_i + lambda*(w_i - dMax)
	Lambda   float64
	OverLink int
	NCells   int

	origins  []geom.Vec
	head     []int32 // per-cell intrusive list head, -1 if empty
	next     []int32 // per-particle intrusive list next pointer, -1 if tail
	partCell []int32 // per-particle current cell id

	locals     []localEntry // id -> predicate, used to rebuild cellLocals
	cellLocals [][]int      // per-cell list of local ids overlapping it

	BC  geom.BoundaryCondition
	Dyn liouvillean.Dynamics
}

type localEntry struct {
	id     int
	inCell func(origin, extent geom.Vec) bool
}

// Transit is what RunEvent reports back to the caller so the event loop
// can push the re-predicted event and fire observer signals without cell
// and scheduler needing to import each other.
type Transit struct {
	OldCell       int
	NewCell       int
	NewNeighbours [][2]int // (movingParticle, residentParticle) pairs newly in range
	NewLocals     []int    // local ids newly overlapping the particle's new cell
}

// NewGrid builds the lattice: N_i = floor(L_i / (dMax/k)), capped at
// 200, erroring if any axis would get fewer than 3 cells.
func NewGrid(size geom.Vec, dMax float64, overlink int, lambda float64, bc geom.BoundaryCondition, dyn liouvillean.Dynamics) (*Grid, error) {
	if lambda < 0 || lambda > 1 {
		return nil, simerr.NewConfigError("cell.NewGrid", "Lambda out of bounds [0,1], lambda=%g", lambda)
	}
	if overlink < 1 {
		return nil, simerr.NewConfigError("cell.NewGrid", "OverLink must be >= 1, got %d", overlink)
	}

	g := &Grid{Size: size, Lambda: lambda, OverLink: overlink, BC: bc, Dyn: dyn}

	maxDiam := dMax / float64(overlink)
	g.NCells = 1
	for i := 0; i < geom.NDIM; i++ {
		n := int(math.Floor(size[i] / maxDiam))
		if n < 3 {
			axis := "xyz"[i]
			return nil, simerr.NewConfigError("cell.NewGrid", "not enough cells in %c dimension, need 3+, got %d", axis, n)
		}
		if n > maxCellsPerAxis {
			n = maxCellsPerAxis
		}
		g.Count[i] = n
		g.NCells *= n
	}

	for i := 0; i < geom.NDIM; i++ {
		g.Lattice[i] = size[i] / float64(g.Count[i])
		g.Extent[i] = g.Lattice[i] + lambda*(g.Lattice[i]-maxDiam)
	}

	g.origins = make([]geom.Vec, g.NCells)
	g.head = make([]int32, g.NCells)
	for i := range g.head {
		g.head[i] = -1
	}
	g.cellLocals = make([][]int, g.NCells)

	for id := 0; id < g.NCells; id++ {
		coords := g.coordsFromID(id)
		var origin geom.Vec
		for i := 0; i < geom.NDIM; i++ {
			origin[i] = float64(coords[i])*g.Lattice[i] - 0.5*size[i]
		}
		g.origins[id] = origin
	}

	return g, nil
}

// Initialise assigns every particle in ps to its resident cell.
func (g *Grid) Initialise(ps []*particle.Particle) {
	g.next = make([]int32, len(ps))
	g.partCell = make([]int32, len(ps))
	for i := range g.next {
		g.next[i] = -1
		g.partCell[i] = -1
	}
	for _, p := range ps {
		id := g.CellIDFromPosition(p.Position)
		g.addToCell(p.ID, id)
		p.Cell = id
	}
}

// AddLocalEvents recomputes, for every cell, which local event surfaces
// overlap its extended domain.
func (g *Grid) AddLocalEvents(locals []localEntry) {
	g.locals = locals
	for c := range g.cellLocals {
		g.cellLocals[c] = g.cellLocals[c][:0]
	}
	for id := range g.origins {
		for _, l := range locals {
			if l.inCell(g.origins[id], g.Extent) {
				g.cellLocals[id] = append(g.cellLocals[id], l.id)
			}
		}
	}
}

// NewLocalEntry constructs the opaque entry AddLocalEvents consumes; kept
// as a function instead of an exported struct field set so callers in
// package local don't need to depend on this package's internals.
func NewLocalEntry(id int, inCell func(origin, extent geom.Vec) bool) localEntry {
	return localEntry{id: id, inCell: inCell}
}

// BuildLocalEntries adapts a set of local.Local surfaces into the
// opaque entries AddLocalEvents consumes, so callers outside this
// package never need to name the unexported localEntry type.
func BuildLocalEntries(locals []local.Local) []localEntry {
	entries := make([]localEntry, len(locals))
	for i, l := range locals {
		entries[i] = NewLocalEntry(l.ID(), l.IsInCell)
	}
	return entries
}

func (g *Grid) addToCell(pid, cellID int) {
	g.next[pid] = g.head[cellID]
	g.head[cellID] = int32(pid)
	g.partCell[pid] = int32(cellID)
}

func (g *Grid) removeFromCell(pid int) {
	cellID := g.partCell[pid]
	if g.head[cellID] == int32(pid) {
		g.head[cellID] = g.next[pid]
		return
	}
	prev := g.head[cellID]
	for prev != -1 && g.next[prev] != int32(pid) {
		prev = g.next[prev]
	}
	if prev != -1 {
		g.next[prev] = g.next[pid]
	}
}

// CellOf returns the cell id a particle currently resides in.
func (g *Grid) CellOf(pid int) int { return int(g.partCell[pid]) }

// Origin returns cell id's lower corner.
func (g *Grid) Origin(id int) geom.Vec { return g.origins[id] }

func (g *Grid) cellIDPrebounded(coords [geom.NDIM]int) int {
	id := coords[0]
	pow := g.Count[0]
	for i := 1; i < geom.NDIM-1; i++ {
		id += coords[i] * pow
		pow *= g.Count[i]
	}
	return id + coords[geom.NDIM-1]*pow
}

func (g *Grid) cellID(coords [geom.NDIM]int) int {
	for i := 0; i < geom.NDIM; i++ {
		coords[i] %= g.Count[i]
		if coords[i] < 0 {
			coords[i] += g.Count[i]
		}
	}
	return g.cellIDPrebounded(coords)
}

func (g *Grid) coordsFromID(id int) [geom.NDIM]int {
	var c [geom.NDIM]int
	id = id % g.NCells
	c[0] = id % g.Count[0]
	id /= g.Count[0]
	c[1] = id % g.Count[1]
	id /= g.Count[1]
	c[2] = id % g.Count[2]
	return c
}

// CellIDFromPosition resolves the cell a (possibly unwrapped) position
// belongs to, applying the boundary condition first.
func (g *Grid) CellIDFromPosition(pos geom.Vec) int {
	wrapped, _ := g.BC.WrapPosition(pos, g.Size)
	var coords [geom.NDIM]int
	for i := 0; i < geom.NDIM; i++ {
		coords[i] = int((wrapped[i] + 0.5*g.Size[i]) / g.Lattice[i])
	}
	return g.cellID(coords)
}

// GetEvent predicts p's next CELL event.
func (g *Grid) GetEvent(p *particle.Particle, t float64) event.Event {
	cellID := g.CellOf(p.ID)
	dt := g.Dyn.SquareCellCollision2(p, t, g.origins[cellID], g.Extent)
	dt -= g.Dyn.ParticleDelay(p, t)
	axis := g.Dyn.SquareCellCollision3(p, t, g.origins[cellID], g.Extent)
	return event.Event{Particle: p.ID, Time: t + dt, Kind: event.Cell, Payload: axis}
}

// RunEvent executes p's CELL transit: fast forwards p, determines the
// exit axis, relocates p's intrusive slot, and reports the outer shell
// of cells that newly enter p's neighbourhood plus any local surfaces
// newly in range.
func (g *Grid) RunEvent(p *particle.Particle, t float64) Transit {
	g.Dyn.Update(p, t)

	oldCell := g.CellOf(p.ID)
	axis := g.Dyn.SquareCellCollision3(p, t, g.origins[oldCell], g.Extent)

	oldCoords := g.coordsFromID(oldCell)
	endCoords := oldCoords
	inCoords := oldCoords

	k := g.OverLink
	if p.Velocity[axis] > 0 {
		endCoords[axis]++
		inCoords[axis] += 1 + k
	} else {
		endCoords[axis]--
		inCoords[axis] -= 1 + k
	}

	endCell := g.cellID(endCoords)
	inCell := g.cellID(inCoords)

	g.removeFromCell(p.ID)
	g.addToCell(p.ID, endCell)
	p.Cell = endCell

	dim1 := (axis + 1) % geom.NDIM
	dim2 := (axis + 2) % geom.NDIM

	inShellCoords := g.coordsFromID(inCell)
	walk := 2*k + 1

	var pairs [][2]int
	base := inShellCoords
	for i := 0; i < walk; i++ {
		for j := 0; j < walk; j++ {
			c := base
			c[dim1] += j - k
			c[dim2] += i - k
			nb := g.cellID(c)
			for cur := g.head[nb]; cur != -1; cur = g.next[cur] {
				if int(cur) != p.ID {
					pairs = append(pairs, [2]int{p.ID, int(cur)})
				}
			}
		}
	}

	newLocals := append([]int(nil), g.cellLocals[endCell]...)

	return Transit{OldCell: oldCell, NewCell: endCell, NewNeighbours: pairs, NewLocals: newLocals}
}

// GetParticleNeighbourhood invokes fn(p, q) for every resident q != p in
// the (2k+1)^3 cube centred on p's cell, in deterministic z-outer,
// y-middle, x-inner, cell-list order.
func (g *Grid) GetParticleNeighbourhood(p *particle.Particle, fn func(p, q int)) {
	coords := g.coordsFromID(g.CellOf(p.ID))
	k := g.OverLink

	for dz := -k; dz <= k; dz++ {
		for dy := -k; dy <= k; dy++ {
			for dx := -k; dx <= k; dx++ {
				c := coords
				c[0] += dx
				c[1] += dy
				c[2] += dz
				nb := g.cellID(c)
				for cur := g.head[nb]; cur != -1; cur = g.next[cur] {
					if int(cur) != p.ID {
						fn(p.ID, int(cur))
					}
				}
			}
		}
	}
}

// GetMaxSupportedInteractionLength returns the largest interaction range
// this lattice can safely answer neighbour queries for.
func (g *Grid) GetMaxSupportedInteractionLength() float64 {
	minAxis := 0
	for i := 1; i < geom.NDIM; i++ {
		if g.Extent[i] < g.Extent[minAxis] {
			minAxis = i
		}
	}
	return g.Lattice[minAxis] + g.Lambda*(g.Lattice[minAxis]-g.Extent[minAxis])
}
