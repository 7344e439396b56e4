// Package nonlinear assembles the per-step driving term that folds plasma
// defocusing/absorption, multiphoton absorption, the optical Kerr effect and
// the delayed Raman response into the implicit solve's right-hand side.
package nonlinear

import (
	"math"

	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/parallel"
	"github.com/pulselab/filament/internal/scheme"
)

// Assembler evaluates the nonlinear term. Disabled effects carry a zero
// coefficient, so the term set is fixed at construction.
type Assembler struct {
	photons int
	plasma  complex128
	mpa     complex128
	kerr    complex128
	raman   complex128
	dz      float64
	method  scheme.Scheme
}

// Config selects the coefficients and integration method.
type Config struct {
	PhotonCount int
	Plasma      complex128
	MPA         complex128
	Kerr        complex128
	Raman       complex128
	Dz          float64
	Method      scheme.Scheme
}

// New builds an assembler.
func New(cfg Config) *Assembler {
	return &Assembler{
		photons: cfg.PhotonCount,
		plasma:  cfg.Plasma,
		mpa:     cfg.MPA,
		kerr:    cfg.Kerr,
		raman:   cfg.Raman,
		dz:      cfg.Dz,
		method:  cfg.Method,
	}
}

// Term evaluates the instantaneous nonlinear rate
//
//	f(E) = E (plasma N + mpa |E|^(2K-2) + kerr |E|^2) + raman R E
//
// at one grid point. Density and Raman response are frozen inputs.
func (a *Assembler) Term(e complex128, density, raman float64) complex128 {
	i2 := real(e)*real(e) + imag(e)*imag(e)
	mpaPow := math.Pow(i2, float64(a.photons-1))

	t := e * (a.plasma*complex(density, 0) +
		a.mpa*complex(mpaPow, 0) +
		a.kerr*complex(i2, 0))
	if a.raman != 0 {
		t += a.raman * complex(raman, 0) * e
	}
	return t
}

// Assemble writes the nonlinear increment over one propagation step into
// term, parallel across radial rows. With the RK4 method the term is
// advanced by a Runge-Kutta sub-step over dz with frozen density and Raman
// state; otherwise it is a single explicit evaluation scaled by dz.
func (a *Assembler) Assemble(term, env *field.Complex, density, raman *field.Real) {
	parallel.For(env.Nr, 1, func(start, end int) {
		for i := start; i < end; i++ {
			envRow := env.Row(i)
			termRow := term.Row(i)
			densRow := density.Row(i)
			ramRow := raman.Row(i)

			for l, e := range envRow {
				termRow[l] = a.increment(e, densRow[l], ramRow[l])
			}
		}
	})
}

func (a *Assembler) increment(e complex128, density, raman float64) complex128 {
	if a.method == scheme.Euler {
		return complex(a.dz, 0) * a.Term(e, density, raman)
	}

	dz := complex(a.dz, 0)
	k1 := a.Term(e, density, raman)
	k2 := a.Term(e+0.5*dz*k1, density, raman)
	k3 := a.Term(e+0.5*dz*k2, density, raman)
	k4 := a.Term(e+dz*k3, density, raman)

	return dz / 6 * (k1 + 2*k2 + 2*k3 + k4)
}
