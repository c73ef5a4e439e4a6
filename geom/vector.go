// Package geom provides the 3D vector arithmetic and boundary-condition
// primitives shared by every component of the engine.
package geom

import "math"

// NDIM is the dimensionality the engine is built for. Every vector and
// cell-lattice computation in the package assumes 3D.
const NDIM = 3

// Vec is a 3D vector in reduced units.
type Vec [NDIM]float64

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the scalar product v . w.
func (v Vec) Dot(w Vec) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Nrm2 returns the squared Euclidean norm |v|^2.
func (v Vec) Nrm2() float64 {
	return v.Dot(v)
}

// Nrm returns the Euclidean norm |v|.
func (v Vec) Nrm() float64 {
	return math.Sqrt(v.Nrm2())
}

// Stream returns the position of a particle with velocity v after a time
// dt of free flight from the given origin: x + v*dt.
func Stream(x, v Vec, dt float64) Vec {
	return x.Add(v.Scale(dt))
}
