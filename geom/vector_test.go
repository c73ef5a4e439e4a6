package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVecArithmetic(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{4, -1, 0.5}

	require.Equal(t, Vec{5, 1, 3.5}, a.Add(b))
	require.Equal(t, Vec{-3, 3, 2.5}, a.Sub(b))
	require.Equal(t, Vec{2, 4, 6}, a.Scale(2))
	require.InDelta(t, 4-2+1.5, a.Dot(b), 1e-12)
	require.InDelta(t, 14, a.Nrm2(), 1e-12)
}

func TestStream(t *testing.T) {
	x := Vec{0, 0, 0}
	v := Vec{1, -2, 0}
	require.Equal(t, Vec{3, -6, 0}, Stream(x, v, 3))
}

func TestPeriodicApplyBC(t *testing.T) {
	bc := Periodic{}
	size := Vec{10, 10, 10}

	r := Vec{6, -6, 0}
	bc.ApplyBC(&r, size)
	require.InDelta(t, -4, r[0], 1e-12)
	require.InDelta(t, 4, r[1], 1e-12)
}

func TestPeriodicWrapPosition(t *testing.T) {
	bc := Periodic{}
	size := Vec{10, 10, 10}

	wrapped, shift := bc.WrapPosition(Vec{7, -13, 0}, size)
	require.InDelta(t, -3, wrapped[0], 1e-12)
	require.InDelta(t, -3, wrapped[1], 1e-12)
	require.Equal(t, 1, shift[0])
	require.Equal(t, -1, shift[1])
}

func TestLeesEdwardsShearsImage(t *testing.T) {
	bc := &LeesEdwards{Delta: 2, ShearRate: 0.1}
	size := Vec{10, 10, 10}

	r := Vec{1, 16, 0}
	bc.ApplyBC(&r, size)
	// crossing two +y images: y wraps by -20, x corrected by -Delta*img
	require.InDelta(t, -4, r[1], 1e-12)
	require.InDelta(t, -3, r[0], 1e-12)
	require.Equal(t, 2, bc.lastImgY)
}
