// Package plasma advances the free-electron density ODE
//
//	dN/dt = rate (N_n - N) + ava N I
//
// along the time axis, independently for every radial row.
package plasma

import (
	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/parallel"
	"github.com/pulselab/filament/internal/scheme"
)

// Integrator marches the density recurrence with a fixed step Dt.
type Integrator struct {
	dt      float64
	neutral float64
	initial float64
	ava     float64
	method  scheme.Scheme
}

// New builds a density integrator. initial is the density at t_min, applied
// at the start of every step's sweep.
func New(g *grid.Grid, neutral, initial, avalanche float64, method scheme.Scheme) *Integrator {
	return &Integrator{
		dt:      g.Dt,
		neutral: neutral,
		initial: initial,
		ava:     avalanche,
		method:  method,
	}
}

// Advance recomputes the density field from the intensity and ionization
// rate, parallel across radial rows. Each row's sweep restarts from the
// causal boundary N(t_min); the intensity and rate are frozen per time slice
// during the sub-steps.
func (in *Integrator) Advance(density, intensity, rate *field.Real) {
	parallel.For(density.Nr, 1, func(start, end int) {
		for i := start; i < end; i++ {
			in.advanceRow(density.Row(i), intensity.Row(i), rate.Row(i))
		}
	})
}

func (in *Integrator) advanceRow(density, intensity, rate []float64) {
	density[0] = in.initial
	for l := 0; l < len(density)-1; l++ {
		density[l+1] = in.Step(density[l], intensity[l], rate[l])
	}
}

// Step advances one density sample by one time step.
func (in *Integrator) Step(n, intensity, rate float64) float64 {
	if in.method == scheme.Euler {
		return n + in.dt*in.deriv(n, intensity, rate)
	}

	dt := in.dt
	k1 := in.deriv(n, intensity, rate)
	k2 := in.deriv(n+0.5*dt*k1, intensity, rate)
	k3 := in.deriv(n+0.5*dt*k2, intensity, rate)
	k4 := in.deriv(n+dt*k3, intensity, rate)

	return n + dt/6*(k1+2*k2+2*k3+k4)
}

func (in *Integrator) deriv(n, intensity, rate float64) float64 {
	return rate*(in.neutral-n) + in.ava*n*intensity
}
