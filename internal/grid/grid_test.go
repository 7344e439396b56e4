package grid_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/filament/internal/grid"
)

func validSpec() grid.Spec {
	return grid.Spec{
		RadialNodes: 64,
		TimeNodes:   128,
		Steps:       10,
		RMax:        1e-3,
		TMin:        -100e-15,
		TMax:        100e-15,
		ZMax:        1e-2,
	}
}

func TestNew_Valid(t *testing.T) {
	g, err := grid.New(validSpec())
	require.NoError(t, err)

	assert.Equal(t, 64, g.Nr)
	assert.Equal(t, 128, g.Nt)
	assert.Len(t, g.R, 64)
	assert.Len(t, g.T, 128)
	assert.Len(t, g.Z, 11)
	assert.Len(t, g.W, 128)

	assert.Equal(t, 0.0, g.R[0], "axis node at index 0")
	assert.InDelta(t, 1e-3, g.R[63], 1e-12)
	assert.InDelta(t, -100e-15, g.T[0], 1e-25)
	assert.InDelta(t, 100e-15, g.T[127], 1e-25)

	// Uniform spacing.
	for i := 1; i < g.Nr; i++ {
		assert.InDelta(t, g.Dr, g.R[i]-g.R[i-1], 1e-12)
	}
}

func TestNew_TooFewRadialNodes(t *testing.T) {
	spec := validSpec()
	spec.RadialNodes = 2

	_, err := grid.New(spec)
	require.ErrorIs(t, err, grid.ErrInvalidGrid)
}

func TestNew_InvalidExtents(t *testing.T) {
	for name, mutate := range map[string]func(*grid.Spec){
		"zero radial extent": func(s *grid.Spec) { s.RMax = 0 },
		"empty time window":  func(s *grid.Spec) { s.TMax = s.TMin },
		"no steps":           func(s *grid.Spec) { s.Steps = 0 },
		"one time node":      func(s *grid.Spec) { s.TimeNodes = 1 },
		"zero distance":      func(s *grid.Spec) { s.ZMax = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			spec := validSpec()
			mutate(&spec)
			_, err := grid.New(spec)
			require.ErrorIs(t, err, grid.ErrInvalidGrid)
		})
	}
}

func TestAngularFrequencies_FFTOrder(t *testing.T) {
	g, err := grid.New(validSpec())
	require.NoError(t, err)

	assert.Equal(t, 0.0, g.W[0])

	scale := 2 * math.Pi / (float64(g.Nt) * g.Dt)
	assert.InDelta(t, scale, g.W[1], scale*1e-12)

	// Second half holds the negative frequencies.
	assert.InDelta(t, -scale, g.W[g.Nt-1], scale*1e-12)
	assert.Less(t, g.W[g.Nt/2], 0.0)
}
