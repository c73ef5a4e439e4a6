package report

import (
	"fmt"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/edmdsim/dynamogo/particle"
)

// ChainBondLength accumulates the running mean and standard deviation
// of the bond length between consecutive particles of a chain (no
// histogram is kept), grounded on
// original_source/.../chainBondLength.hpp.
type ChainBondLength struct {
	ChainID int
	IDs     []int // particle ids in chain order

	sumLength  float64
	sumLength2 float64
	samples    uint64
}

// NewChainBondLength builds an accumulator for a chain given as a
// dense, ordered slice of particle ids.
func NewChainBondLength(chainID int, ids []int) *ChainBondLength {
	return &ChainBondLength{ChainID: chainID, IDs: ids}
}

// Sample adds one bond-length measurement for every consecutive pair in
// the chain at their current streamed positions.
func (c *ChainBondLength) Sample(t float64, store *particle.Store) {
	for i := 0; i+1 < len(c.IDs); i++ {
		a := store.Get(c.IDs[i]).StreamedPosition(t)
		b := store.Get(c.IDs[i+1]).StreamedPosition(t)
		l := a.Sub(b).Nrm()
		c.sumLength += l
		c.sumLength2 += l * l
		c.samples++
	}
}

// Mean returns the running mean bond length.
func (c *ChainBondLength) Mean() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sumLength / float64(c.samples)
}

// StdDev returns the running bond-length standard deviation.
func (c *ChainBondLength) StdDev() float64 {
	if c.samples == 0 {
		return 0
	}
	mean := c.Mean()
	variance := c.sumLength2/float64(c.samples) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// ChainBondAngles accumulates the cosine of the angle at each interior
// particle of a chain, between its two flanking bonds, grounded on
// original_source/.../chainBondAngles.hpp's per-chain bond-correlation
// histogram (simplified to running sums rather than a full
// magnet::math::Histogram; only the mean cosine is exposed, through
// MeanCos).
type ChainBondAngles struct {
	ChainID int
	IDs     []int

	sumCos  float64
	sumCos2 float64
	samples uint64
}

// NewChainBondAngles builds an accumulator for a chain.
func NewChainBondAngles(chainID int, ids []int) *ChainBondAngles {
	return &ChainBondAngles{ChainID: chainID, IDs: ids}
}

// Sample adds one angle-cosine measurement for every interior particle
// of the chain at their current streamed positions.
func (c *ChainBondAngles) Sample(t float64, store *particle.Store) {
	for i := 1; i+1 < len(c.IDs); i++ {
		prev := store.Get(c.IDs[i-1]).StreamedPosition(t)
		here := store.Get(c.IDs[i]).StreamedPosition(t)
		next := store.Get(c.IDs[i+1]).StreamedPosition(t)
		u := prev.Sub(here)
		v := next.Sub(here)
		nu, nv := u.Nrm(), v.Nrm()
		if nu == 0 || nv == 0 {
			continue
		}
		cosTheta := u.Dot(v) / (nu * nv)
		c.sumCos += cosTheta
		c.sumCos2 += cosTheta * cosTheta
		c.samples++
	}
}

// MeanCos returns the running mean bond-angle cosine.
func (c *ChainBondAngles) MeanCos() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sumCos / float64(c.samples)
}

// RenderChains tabulates bond length and angle statistics for a set of
// chains.
func RenderChains(lengths []*ChainBondLength, angles []*ChainBondAngles) string {
	t := table.NewWriter()
	t.SetTitle("Chain bond statistics")
	t.AppendHeader(table.Row{"Chain", "Mean bond length", "Bond length stddev", "Mean bond angle cos"})
	meanCos := make(map[int]float64)
	for _, a := range angles {
		meanCos[a.ChainID] = a.MeanCos()
	}
	for _, l := range lengths {
		t.AppendRow(table.Row{
			fmt.Sprintf("%d", l.ChainID),
			fmt.Sprintf("%.6g", l.Mean()),
			fmt.Sprintf("%.6g", l.StdDev()),
			fmt.Sprintf("%.6g", meanCos[l.ChainID]),
		})
	}
	return t.Render()
}
