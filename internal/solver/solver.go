package solver

import (
	"context"
	"fmt"

	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/ionization"
	"github.com/pulselab/filament/internal/medium"
	"github.com/pulselab/filament/internal/nonlinear"
	"github.com/pulselab/filament/internal/parallel"
	"github.com/pulselab/filament/internal/plasma"
	"github.com/pulselab/filament/internal/raman"
	"github.com/pulselab/filament/internal/scheme"
	"github.com/pulselab/filament/internal/spectral"
	"github.com/pulselab/filament/internal/tridiag"
)

// Effects toggles the physical contributions to the nonlinear term.
type Effects struct {
	Plasma bool
	MPA    bool
	Kerr   bool
	Raman  bool
}

// AllEffects enables every contribution.
func AllEffects() Effects {
	return Effects{Plasma: true, MPA: true, Kerr: true, Raman: true}
}

// Config fixes a run's physics and numerics. It is resolved once before
// construction; no selection is re-checked per grid point.
type Config struct {
	Grid   *grid.Grid
	Medium medium.Medium
	Beam   medium.Beam
	Coef   medium.Coefficients

	IonizationModel     ionization.Model
	IonizationTolerance float64

	DensityScheme   scheme.Scheme
	RamanScheme     scheme.Scheme
	NonlinearScheme scheme.Scheme

	Effects        Effects
	InitialDensity float64
}

// Snapshot is the read-only per-step view handed to observers. The field
// references alias the solver's committed buffers and are only valid until
// the next step begins.
type Snapshot struct {
	Step     int
	Z        float64
	Envelope *field.Complex
	Density  *field.Real
	Fluence  []float64
	Radius   float64
}

// Observer receives a snapshot after every committed step.
type Observer interface {
	OnStep(snap Snapshot)
}

// Solver advances the envelope through the fixed split-step sequence:
// ionization, density, Raman, nonlinear assembly, dispersion, diffraction
// solve, commit. It owns all field buffers; the envelope and density are
// double-buffered and swapped at commit, never aliased.
type Solver struct {
	cfg  Config
	grid *grid.Grid

	env, envNext   *field.Complex
	dens, densNext *field.Real
	split          *field.Complex
	term           *field.Complex

	amp    *field.Real
	intens *field.Real
	rate   *field.Real
	ram    *field.Real
	dram   *field.Real

	fluence []float64
	radius  float64

	left, right *tridiag.Operator
	disp        *spectral.Dispersion
	ion         *ionization.Engine
	density     *plasma.Integrator
	raman       *raman.Integrator
	assembler   *nonlinear.Assembler

	observers []Observer
	step      int
}

// New builds a solver from the resolved configuration and the initial
// envelope. The initial envelope is copied into the solver's own buffer.
func New(cfg Config, initial *field.Complex) (*Solver, error) {
	g := cfg.Grid
	if g == nil {
		return nil, fmt.Errorf("solver: %w: nil grid", grid.ErrInvalidGrid)
	}
	if initial == nil || initial.Nr != g.Nr || initial.Nt != g.Nt {
		return nil, fmt.Errorf("solver: %w: initial envelope shape mismatch", grid.ErrInvalidGrid)
	}

	s := &Solver{cfg: cfg, grid: g}

	s.env = field.NewComplex(g.Nr, g.Nt)
	s.env.CopyFrom(initial)
	s.envNext = field.NewComplex(g.Nr, g.Nt)
	s.dens = field.NewReal(g.Nr, g.Nt)
	s.densNext = field.NewReal(g.Nr, g.Nt)
	s.split = field.NewComplex(g.Nr, g.Nt)
	s.term = field.NewComplex(g.Nr, g.Nt)
	s.amp = field.NewReal(g.Nr, g.Nt)
	s.intens = field.NewReal(g.Nr, g.Nt)
	s.rate = field.NewReal(g.Nr, g.Nt)
	s.ram = field.NewReal(g.Nr, g.Nt)
	s.dram = field.NewReal(g.Nr, g.Nt)
	s.fluence = make([]float64, g.Nr)

	if cfg.InitialDensity != 0 {
		s.dens.Fill(cfg.InitialDensity)
	}

	diff := complex(0, 0.25*g.Dz/(cfg.Beam.Wavenumber*g.Dr*g.Dr))

	var err error
	if s.left, err = tridiag.Build(g.Nr, tridiag.Left, diff); err != nil {
		return nil, err
	}
	if s.right, err = tridiag.Build(g.Nr, tridiag.Right, -diff); err != nil {
		return nil, err
	}

	s.disp = spectral.New(g, cfg.Medium.GVDCoefficient)

	s.ion, err = ionization.NewEngine(cfg.IonizationModel, ionization.Params{
		PhotonCount: cfg.Medium.PhotonCount,
		OFICoef:     cfg.Coef.OFI,
		Field:       cfg.Coef.PPTField,
		NStar:       cfg.Coef.PPTNStar,
		GammaC:      cfg.Coef.PPTGammaC,
		Nu:          cfg.Coef.PPTNu,
		RateC:       cfg.Coef.PPTRateC,
		Tolerance:   cfg.IonizationTolerance,
	})
	if err != nil {
		return nil, err
	}

	s.density = plasma.New(g, cfg.Medium.NeutralDensity, cfg.InitialDensity,
		cfg.Coef.Avalanche, cfg.DensityScheme)

	if cfg.Effects.Raman && cfg.Coef.RamanC1 != 0 {
		s.raman = raman.New(g, cfg.Coef.RamanC1, cfg.Coef.RamanC2, cfg.RamanScheme)
	}

	nl := nonlinear.Config{
		PhotonCount: cfg.Medium.PhotonCount,
		Dz:          g.Dz,
		Method:      cfg.NonlinearScheme,
	}
	if cfg.Effects.Plasma {
		nl.Plasma = cfg.Coef.Plasma
	}
	if cfg.Effects.MPA {
		nl.MPA = cfg.Coef.MPA
	}
	if cfg.Effects.Kerr {
		nl.Kerr = cfg.Coef.Kerr
	}
	if cfg.Effects.Raman {
		nl.Raman = cfg.Coef.Raman
	}
	s.assembler = nonlinear.New(nl)

	field.Fluence(s.fluence, s.env, g)
	s.radius = field.HalfWidth(s.fluence, g.R)

	return s, nil
}

// AddObserver registers an observer for committed steps.
func (s *Solver) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Envelope returns the committed envelope buffer.
func (s *Solver) Envelope() *field.Complex { return s.env }

// Density returns the committed density buffer.
func (s *Solver) Density() *field.Real { return s.dens }

// Fluence returns the fluence profile at the committed plane.
func (s *Solver) Fluence() []float64 { return s.fluence }

// Radius returns the beam half-width at the committed plane.
func (s *Solver) Radius() float64 { return s.radius }

// StepCount returns the number of committed steps.
func (s *Solver) StepCount() int { return s.step }

// Z returns the committed propagation distance.
func (s *Solver) Z() float64 { return s.grid.Z[s.step] }

// Step executes one propagation step. On a validation failure the
// current/next buffers are left unswapped and the error is fatal.
func (s *Solver) Step() error {
	field.Amplitude(s.amp, s.env)
	field.Intensity(s.intens, s.env)

	s.ion.Rate(s.rate, s.amp)
	s.density.Advance(s.densNext, s.intens, s.rate)
	if s.raman != nil {
		s.raman.Advance(s.ram, s.dram, s.intens)
	}

	s.assembler.Assemble(s.term, s.env, s.densNext, s.ram)
	s.disp.Apply(s.split, s.env)
	s.solveDiffraction()

	return s.commit()
}

// Run advances all remaining steps, strictly sequentially in z.
func (s *Solver) Run(ctx context.Context) error {
	for s.step < s.grid.Steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// solveDiffraction applies the explicit right operator and inverts the
// implicit left operator, per temporal column in parallel. This is the only
// step that couples grid points, radially within one column.
func (s *Solver) solveDiffraction() {
	nr := s.grid.Nr

	parallel.For(s.grid.Nt, 8, func(start, end int) {
		col := make([]complex128, nr)
		rhs := make([]complex128, nr)
		ts := tridiag.NewSolver(s.left)

		for l := start; l < end; l++ {
			for i := 0; i < nr; i++ {
				col[i] = s.split.At(i, l)
			}
			s.right.MulVecInto(rhs, col)
			for i := 0; i < nr; i++ {
				rhs[i] += s.term.At(i, l)
			}
			ts.SolveInto(col, rhs)
			for i := 0; i < nr; i++ {
				s.envNext.Set(i, l, col[i])
			}
		}
	})
}

// commit validates the next-step state, swaps the buffers and notifies
// observers. Validation failures terminate the run.
func (s *Solver) commit() error {
	z := s.grid.Z[s.step+1]

	if !s.envNext.IsFinite() {
		return &StepError{Step: s.step + 1, Z: z,
			Wrapped: fmt.Errorf("envelope: %w", ErrNonFiniteState)}
	}
	if !s.densNext.IsFinite() {
		return &StepError{Step: s.step + 1, Z: z,
			Wrapped: fmt.Errorf("density: %w", ErrNonFiniteState)}
	}

	s.env, s.envNext = s.envNext, s.env
	s.dens, s.densNext = s.densNext, s.dens
	s.step++

	field.Fluence(s.fluence, s.env, s.grid)
	s.radius = field.HalfWidth(s.fluence, s.grid.R)

	if len(s.observers) > 0 {
		snap := Snapshot{
			Step:     s.step,
			Z:        z,
			Envelope: s.env,
			Density:  s.dens,
			Fluence:  s.fluence,
			Radius:   s.radius,
		}
		for _, o := range s.observers {
			o.OnStep(snap)
		}
	}

	return nil
}
