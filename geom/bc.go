package geom

import "math"

// BoundaryCondition applies an image convention to a relative separation
// (and, for shearing conditions, to the paired velocity) so that every
// distance computation in the engine sees the minimum-image vector. This
// is the "applyBC" primitive, kept as an external collaborator
// interface; the engine core only ever calls through it.
type BoundaryCondition interface {
	// ApplyBC rewrites rij in place to the minimum-image convention for
	// the primary cell of the given size; a velocity-dependent condition
	// corrects the paired vij through ApplyBCVel.
	ApplyBC(rij *Vec, size Vec)

	// ApplyBCVel rewrites a relative velocity to match the image chosen
	// by the most recent ApplyBC call for a shearing condition. For
	// non-shearing conditions this is a no-op.
	ApplyBCVel(vij *Vec, size Vec)

	// WrapPosition maps an absolute position back into the primary cell,
	// returning the wrapped position and the integer image shift applied
	// along each axis (needed by the cell grid to resolve periodic
	// neighbours without re-deriving the wrap).
	WrapPosition(x Vec, size Vec) (wrapped Vec, shift [NDIM]int)
}

// Periodic is the ordinary 3D periodic boundary condition.
type Periodic struct{}

func (Periodic) ApplyBC(rij *Vec, size Vec) {
	for i := 0; i < NDIM; i++ {
		rij[i] -= size[i] * math.Round(rij[i]/size[i])
	}
}

func (Periodic) ApplyBCVel(vij *Vec, size Vec) {}

func (Periodic) WrapPosition(x Vec, size Vec) (Vec, [NDIM]int) {
	var out Vec
	var shift [NDIM]int
	for i := 0; i < NDIM; i++ {
		n := math.Floor(x[i]/size[i] + 0.5)
		out[i] = x[i] - size[i]*n
		shift[i] = int(n)
	}
	return out, shift
}

// LeesEdwards is a sheared periodic boundary condition: crossing the
// y-boundary offsets x by an accumulated shear displacement and adds the
// corresponding shear-rate velocity jump, the standard SLLOD boundary
// (DynamO's LEBC.hpp). Shear is accumulated externally (by the SLLOD
// dynamics) and supplied here at apply time.
type LeesEdwards struct {
	// Delta is the current shear displacement accumulated along x for a
	// unit crossing of the y boundary.
	Delta float64
	// ShearRate is dv_x/dy, used to correct the relative velocity of a
	// pair whose image crosses the shearing boundary.
	ShearRate float64

	lastImgY int
}

func (l *LeesEdwards) ApplyBC(rij *Vec, size Vec) {
	imgY := int(math.Floor(rij[1]/size[1] + 0.5))
	rij[0] -= float64(imgY) * l.Delta
	for rij[0] > 0.5*size[0] {
		rij[0] -= size[0]
	}
	for rij[0] < -0.5*size[0] {
		rij[0] += size[0]
	}
	rij[1] -= size[1] * float64(imgY)
	rij[2] -= size[2] * math.Round(rij[2]/size[2])
	l.lastImgY = imgY
}

func (l *LeesEdwards) ApplyBCVel(vij *Vec, size Vec) {
	vij[0] -= float64(l.lastImgY) * l.ShearRate * size[1]
}

func (l *LeesEdwards) WrapPosition(x Vec, size Vec) (Vec, [NDIM]int) {
	var shift [NDIM]int
	out := x
	ny := math.Floor(out[1]/size[1] + 0.5)
	shift[1] = int(ny)
	out[1] -= size[1] * ny
	out[0] -= ny * l.Delta
	nx := math.Floor(out[0]/size[0] + 0.5)
	shift[0] = int(nx)
	out[0] -= size[0] * nx
	nz := math.Floor(out[2]/size[2] + 0.5)
	shift[2] = int(nz)
	out[2] -= size[2] * nz
	return out, shift
}
