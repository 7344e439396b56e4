// Package grid describes the cylindrical computational domain: a radial axis
// with the symmetry axis at node 0, a temporal axis, and the propagation
// distance split into uniform steps.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid indicates a discretization that cannot support the
// centered finite-difference operators.
var ErrInvalidGrid = errors.New("grid: invalid grid")

// Spec holds the extents and node counts of the domain.
type Spec struct {
	RadialNodes int     `yaml:"radial_nodes"`
	TimeNodes   int     `yaml:"time_nodes"`
	Steps       int     `yaml:"steps"`
	RMax        float64 `yaml:"r_max"`
	TMin        float64 `yaml:"t_min"`
	TMax        float64 `yaml:"t_max"`
	ZMax        float64 `yaml:"z_max"`
}

// Grid is the realized discretization. Immutable after New.
type Grid struct {
	Nr    int // radial nodes, axis at index 0
	Nt    int // temporal nodes
	Steps int // propagation steps

	Dr, Dt, Dz float64

	R []float64 // radial coordinates, len Nr
	T []float64 // temporal coordinates, len Nt
	Z []float64 // propagation planes, len Steps+1
	W []float64 // angular frequencies in FFT order, len Nt
}

// New validates spec and builds the coordinate arrays.
func New(spec Spec) (*Grid, error) {
	if spec.RadialNodes < 3 {
		return nil, fmt.Errorf("%w: need at least 3 radial nodes, got %d", ErrInvalidGrid, spec.RadialNodes)
	}
	if spec.TimeNodes < 2 {
		return nil, fmt.Errorf("%w: need at least 2 time nodes, got %d", ErrInvalidGrid, spec.TimeNodes)
	}
	if spec.Steps < 1 {
		return nil, fmt.Errorf("%w: need at least 1 propagation step, got %d", ErrInvalidGrid, spec.Steps)
	}
	if spec.RMax <= 0 {
		return nil, fmt.Errorf("%w: radial extent must be positive, got %g", ErrInvalidGrid, spec.RMax)
	}
	if spec.TMax <= spec.TMin {
		return nil, fmt.Errorf("%w: empty time window [%g, %g]", ErrInvalidGrid, spec.TMin, spec.TMax)
	}
	if spec.ZMax <= 0 {
		return nil, fmt.Errorf("%w: propagation distance must be positive, got %g", ErrInvalidGrid, spec.ZMax)
	}

	g := &Grid{
		Nr:    spec.RadialNodes,
		Nt:    spec.TimeNodes,
		Steps: spec.Steps,
		Dr:    spec.RMax / float64(spec.RadialNodes-1),
		Dt:    (spec.TMax - spec.TMin) / float64(spec.TimeNodes-1),
		Dz:    spec.ZMax / float64(spec.Steps),
	}

	g.R = make([]float64, g.Nr)
	for i := range g.R {
		g.R[i] = float64(i) * g.Dr
	}

	g.T = make([]float64, g.Nt)
	for l := range g.T {
		g.T[l] = spec.TMin + float64(l)*g.Dt
	}

	g.Z = make([]float64, g.Steps+1)
	for k := range g.Z {
		g.Z[k] = float64(k) * g.Dz
	}

	g.W = angularFrequencies(g.Nt, g.Dt)

	return g, nil
}

// angularFrequencies returns 2*pi*fftfreq(n, dt): non-negative bins first,
// then the negative half, matching the FFT bin ordering.
func angularFrequencies(n int, dt float64) []float64 {
	w := make([]float64, n)
	scale := 2 * math.Pi / (float64(n) * dt)
	half := (n + 1) / 2
	for l := 0; l < half; l++ {
		w[l] = scale * float64(l)
	}
	for l := half; l < n; l++ {
		w[l] = scale * float64(l-n)
	}
	return w
}
