package report

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
)

// RadialDistribution accumulates a pair-separation histogram across
// repeated ticker samples, grounded on
// original_source/.../radialdist.cpp's OPRadialDistribution: a fixed
// bin width, a bin count derived from the smallest primary cell
// dimension unless given explicitly, and a running sample count used to
// normalise the final g(r).
type RadialDistribution struct {
	BinWidth float64
	Length   int
	BC       geom.BoundaryCondition
	Size     geom.Vec

	counts      []uint64
	sampleCount uint64
}

// NewRadialDistribution builds an accumulator. If length is 0 it is
// derived from the smallest box dimension, matching the C++ default:
// 2 + floor(minDim / (2*binWidth)).
func NewRadialDistribution(binWidth float64, length int, bc geom.BoundaryCondition, size geom.Vec) *RadialDistribution {
	if length == 0 {
		minDim := size[0]
		for i := 1; i < geom.NDIM; i++ {
			if size[i] < minDim {
				minDim = size[i]
			}
		}
		length = 2 + int(minDim/(2*binWidth))
	}
	return &RadialDistribution{
		BinWidth: binWidth,
		Length:   length,
		BC:       bc,
		Size:     size,
		counts:   make([]uint64, length),
	}
}

// Sample bins every distinct pair separation among ps at the current
// streamed positions.
func (r *RadialDistribution) Sample(t float64, ps []*particle.Particle) {
	r.sampleCount++
	for i := 0; i < len(ps); i++ {
		pi := ps[i].StreamedPosition(t)
		for j := i + 1; j < len(ps); j++ {
			pj := ps[j].StreamedPosition(t)
			rij := pi.Sub(pj)
			r.BC.ApplyBC(&rij, r.Size)
			bin := int(rij.Nrm() / r.BinWidth)
			if bin >= 0 && bin < r.Length {
				r.counts[bin]++
			}
		}
	}
}

// GOfR returns the normalised radial distribution function g(r) for
// every populated bin, given the system's average number density.
func (r *RadialDistribution) GOfR(numDensity float64) []float64 {
	out := make([]float64, r.Length)
	if r.sampleCount == 0 || numDensity == 0 {
		return out
	}
	for bin, c := range r.counts {
		rLo := float64(bin) * r.BinWidth
		rHi := rLo + r.BinWidth
		shellVol := 4.0 / 3.0 * math.Pi * (rHi*rHi*rHi - rLo*rLo*rLo)
		ideal := numDensity * shellVol * float64(r.sampleCount)
		if ideal > 0 {
			out[bin] = float64(c) / ideal
		}
	}
	return out
}

// Render tabulates g(r) for reporting.
func (r *RadialDistribution) Render(numDensity float64) string {
	g := r.GOfR(numDensity)
	t := table.NewWriter()
	t.SetTitle("Radial distribution function")
	t.AppendHeader(table.Row{"r", "g(r)"})
	for bin, v := range g {
		t.AppendRow(table.Row{fmt.Sprintf("%.4g", float64(bin)*r.BinWidth), fmt.Sprintf("%.6g", v)})
	}
	return t.Render()
}
