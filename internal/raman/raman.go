// Package raman advances the delayed molecular response, a damped driven
// oscillator on the intensity, as the first-order pair
//
//	dR/dt  = R'
//	dR'/dt = c1 (I - R) + c2 R'
package raman

import (
	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/parallel"
	"github.com/pulselab/filament/internal/scheme"
)

// Integrator marches the oscillator pair with a fixed step Dt.
type Integrator struct {
	dt     float64
	c1, c2 float64
	method scheme.Scheme
}

// New builds a Raman integrator with the oscillator coefficients.
func New(g *grid.Grid, c1, c2 float64, method scheme.Scheme) *Integrator {
	return &Integrator{dt: g.Dt, c1: c1, c2: c2, method: method}
}

// Advance recomputes the response and its derivative from the intensity,
// parallel across radial rows. Every sweep restarts from the causal boundary
// R(t_min) = R'(t_min) = 0.
func (in *Integrator) Advance(resp, dresp, intensity *field.Real) {
	parallel.For(resp.Nr, 1, func(start, end int) {
		for i := start; i < end; i++ {
			in.advanceRow(resp.Row(i), dresp.Row(i), intensity.Row(i))
		}
	})
}

func (in *Integrator) advanceRow(resp, dresp, intensity []float64) {
	resp[0], dresp[0] = 0, 0
	for l := 0; l < len(resp)-1; l++ {
		resp[l+1], dresp[l+1] = in.Step(resp[l], dresp[l], intensity[l])
	}
}

// Step advances one (R, R') pair by one time step; the intensity is frozen
// over the sub-steps.
func (in *Integrator) Step(r, dr, intensity float64) (float64, float64) {
	if in.method == scheme.Euler {
		kr, kdr := in.deriv(r, dr, intensity)
		return r + in.dt*kr, dr + in.dt*kdr
	}

	dt := in.dt
	k1r, k1d := in.deriv(r, dr, intensity)
	k2r, k2d := in.deriv(r+0.5*dt*k1r, dr+0.5*dt*k1d, intensity)
	k3r, k3d := in.deriv(r+0.5*dt*k2r, dr+0.5*dt*k2d, intensity)
	k4r, k4d := in.deriv(r+dt*k3r, dr+dt*k3d, intensity)

	return r + dt/6*(k1r+2*k2r+2*k3r+k4r),
		dr + dt/6*(k1d+2*k2d+2*k3d+k4d)
}

func (in *Integrator) deriv(r, dr, intensity float64) (float64, float64) {
	return dr, in.c1*(intensity-r) + in.c2*dr
}
