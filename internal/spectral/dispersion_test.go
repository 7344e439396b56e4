package spectral_test

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/spectral"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Spec{
		RadialNodes: 8,
		TimeNodes:   64,
		Steps:       1,
		RMax:        1e-3,
		TMin:        -100e-15,
		TMax:        100e-15,
		ZMax:        1e-3,
	})
	require.NoError(t, err)
	return g
}

// With a zero dispersion coefficient the phase is unity and the transform
// pair must reproduce the input to floating-point tolerance.
func TestApply_ZeroCoefficientRoundTrip(t *testing.T) {
	g := testGrid(t)
	d := spectral.New(g, 0)

	src := field.NewComplex(g.Nr, g.Nt)
	for i := range src.Data {
		src.Data[i] = complex(float64(i%13)-6, float64(i%7)-3)
	}

	dst := field.NewComplex(g.Nr, g.Nt)
	d.Apply(dst, src)

	for i := range src.Data {
		require.InDelta(t, 0, cmplx.Abs(dst.Data[i]-src.Data[i]), 1e-10,
			"entry %d changed under unit phase", i)
	}
}

// The dispersion step is elementwise in frequency: it must preserve the
// spectral power of every row.
func TestApply_PreservesRowEnergy(t *testing.T) {
	g := testGrid(t)
	d := spectral.New(g, 248e-28)

	src := field.NewComplex(g.Nr, g.Nt)
	for i := range src.Data {
		src.Data[i] = complex(float64(i%5), float64(i%11)-5)
	}

	dst := field.NewComplex(g.Nr, g.Nt)
	d.Apply(dst, src)

	for i := 0; i < g.Nr; i++ {
		var before, after float64
		for _, v := range src.Row(i) {
			before += real(v)*real(v) + imag(v)*imag(v)
		}
		for _, v := range dst.Row(i) {
			after += real(v)*real(v) + imag(v)*imag(v)
		}
		require.InDelta(t, before, after, before*1e-10, "row %d", i)
	}
}

func TestApplyRow_Aliased(t *testing.T) {
	g := testGrid(t)
	d := spectral.New(g, 0)

	row := make([]complex128, g.Nt)
	want := make([]complex128, g.Nt)
	for i := range row {
		row[i] = complex(float64(i), -float64(i))
		want[i] = row[i]
	}

	d.ApplyRow(row, row)

	for i := range row {
		require.InDelta(t, 0, cmplx.Abs(row[i]-want[i]), 1e-10)
	}
}
