// Package spectral applies the group-velocity-dispersion phase in the
// frequency domain, one radial row at a time.
package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/parallel"
)

// Dispersion holds the precomputed per-frequency phase factor. The factor is
// time-invariant; it is built once and reused for every step.
type Dispersion struct {
	nt    int
	phase []complex128
}

// New precomputes the spectral multiplier exp(-2i dc (w dt)^2) with
// dc = -dz k'' / (4 dt^2).
func New(g *grid.Grid, gvd float64) *Dispersion {
	dc := -0.25 * g.Dz * gvd / (g.Dt * g.Dt)

	d := &Dispersion{nt: g.Nt, phase: make([]complex128, g.Nt)}
	for l, w := range g.W {
		arg := w * g.Dt
		d.phase[l] = cmplx.Exp(complex(0, -2*dc*arg*arg))
	}
	return d
}

// Apply writes the dispersed envelope into dst, row by row in parallel.
// Rows are independent: the step is elementwise in frequency space.
func (d *Dispersion) Apply(dst, src *field.Complex) {
	parallel.For(src.Nr, 1, func(start, end int) {
		for i := start; i < end; i++ {
			d.ApplyRow(dst.Row(i), src.Row(i))
		}
	})
}

// ApplyRow transforms one temporal row to the frequency domain, multiplies
// by the phase factor, and transforms back. dst and src may alias.
func (d *Dispersion) ApplyRow(dst, src []complex128) {
	spec := fft.FFT(src)
	for l := range spec {
		spec[l] *= d.phase[l]
	}
	copy(dst, fft.IFFT(spec))
}
