package field

import (
	"math"
	"math/cmplx"

	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/medium"
)

// GaussianBeam builds the initial envelope: a Gaussian in radius and time
// with optional chirp and focusing phase.
func GaussianBeam(g *grid.Grid, b medium.Beam) *Complex {
	env := NewComplex(g.Nr, g.Nt)

	for i := 0; i < g.Nr; i++ {
		r := g.R[i]
		spatial := -(r / b.Waist) * (r / b.Waist)
		phase := 0.0
		if b.FocalLength != 0 {
			phase = -0.5 * b.Wavenumber * r * r / b.FocalLength
		}

		row := env.Row(i)
		for l := 0; l < g.Nt; l++ {
			tn := g.T[l] / b.PeakTime
			arg := complex(spatial-tn*tn, phase-b.Chirp*tn*tn)
			row[l] = complex(b.Amplitude, 0) * cmplx.Exp(arg)
		}
	}

	return env
}

// PeakNode returns the index of the maximum of a real profile.
func PeakNode(profile []float64) int {
	peak := 0
	max := math.Inf(-1)
	for i, v := range profile {
		if v > max {
			max = v
			peak = i
		}
	}
	return peak
}
