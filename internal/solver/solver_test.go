package solver_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/ionization"
	"github.com/pulselab/filament/internal/medium"
	"github.com/pulselab/filament/internal/scheme"
	"github.com/pulselab/filament/internal/solver"
)

// testConfig builds a small water run: 64x64 nodes, two z steps, all
// nonlinear effects off so the propagation is purely linear.
func testConfig(t *testing.T) (solver.Config, *field.Complex) {
	t.Helper()

	g, err := grid.New(grid.Spec{
		RadialNodes: 64,
		TimeNodes:   64,
		Steps:       2,
		RMax:        300e-6,
		TMin:        -250e-15,
		TMax:        250e-15,
		ZMax:        2e-4,
	})
	require.NoError(t, err)

	m := medium.Water()
	laser := medium.Laser{
		Wavelength: 800e-9,
		Waist:      80e-6,
		PeakTime:   85e-15,
		Energy:     1e-6,
	}
	b := medium.NewBeam(laser, m)

	cfg := solver.Config{
		Grid:            g,
		Medium:          m,
		Beam:            b,
		Coef:            medium.NewCoefficients(m, b, false),
		IonizationModel: ionization.MPI,
		DensityScheme:   scheme.RK4,
		RamanScheme:     scheme.RK4,
		NonlinearScheme: scheme.RK4,
	}

	return cfg, field.GaussianBeam(g, b)
}

func TestNew_NilGrid(t *testing.T) {
	cfg, env := testConfig(t)
	cfg.Grid = nil

	_, err := solver.New(cfg, env)
	require.ErrorIs(t, err, grid.ErrInvalidGrid)
}

func TestNew_ShapeMismatch(t *testing.T) {
	cfg, _ := testConfig(t)

	_, err := solver.New(cfg, field.NewComplex(8, 8))
	require.ErrorIs(t, err, grid.ErrInvalidGrid)
}

// Linear propagation of an unchirped, collimated beam: dispersion is unitary
// and the implicit diffraction solve is near-conservative, so the grid energy
// must hold to within a percent over a step.
func TestStep_ConservesEnergy(t *testing.T) {
	cfg, env := testConfig(t)
	s, err := solver.New(cfg, env)
	require.NoError(t, err)

	before := s.Envelope().Energy()
	require.NoError(t, s.Step())
	after := s.Envelope().Energy()

	assert.InEpsilon(t, before, after, 1e-2)
	assert.Equal(t, 1, s.StepCount())
	assert.InDelta(t, cfg.Grid.Dz, s.Z(), 1e-18)
}

// With every effect disabled the density never feeds back, but the
// ionization source still populates it from the intensity.
func TestStep_DensityStaysFinite(t *testing.T) {
	cfg, env := testConfig(t)
	s, err := solver.New(cfg, env)
	require.NoError(t, err)

	require.NoError(t, s.Step())

	assert.True(t, s.Density().IsFinite())
	for i := 0; i < cfg.Grid.Nr; i++ {
		assert.Equal(t, 0.0, s.Density().At(i, 0), "boundary at row %d", i)
	}
}

type recordingObserver struct {
	steps  []int
	zs     []float64
	radius []float64
}

func (r *recordingObserver) OnStep(snap solver.Snapshot) {
	r.steps = append(r.steps, snap.Step)
	r.zs = append(r.zs, snap.Z)
	r.radius = append(r.radius, snap.Radius)
}

func TestRun_NotifiesObserverPerStep(t *testing.T) {
	cfg, env := testConfig(t)
	s, err := solver.New(cfg, env)
	require.NoError(t, err)

	rec := &recordingObserver{}
	s.AddObserver(rec)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []int{1, 2}, rec.steps)
	require.Len(t, rec.zs, 2)
	assert.InDelta(t, cfg.Grid.Dz, rec.zs[0], 1e-18)
	assert.InDelta(t, 2*cfg.Grid.Dz, rec.zs[1], 1e-18)
	for _, r := range rec.radius {
		assert.Greater(t, r, 0.0)
	}

	assert.Equal(t, 2, s.StepCount())
}

func TestRun_HonorsContext(t *testing.T) {
	cfg, env := testConfig(t)
	s, err := solver.New(cfg, env)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Equal(t, 0, s.StepCount())
}

// A non-finite envelope entry must fail the commit without swapping buffers.
func TestStep_RejectsNonFiniteState(t *testing.T) {
	cfg, env := testConfig(t)
	s, err := solver.New(cfg, env)
	require.NoError(t, err)

	s.Envelope().Set(3, 7, complex(math.NaN(), 0))

	err = s.Step()
	require.ErrorIs(t, err, solver.ErrNonFiniteState)

	var stepErr *solver.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 1, stepErr.Step)

	assert.Equal(t, 0, s.StepCount(), "failed step must not commit")
}

func BenchmarkStep(b *testing.B) {
	g, err := grid.New(grid.Spec{
		RadialNodes: 128,
		TimeNodes:   256,
		Steps:       1 << 20,
		RMax:        300e-6,
		TMin:        -250e-15,
		TMax:        250e-15,
		ZMax:        1,
	})
	if err != nil {
		b.Fatal(err)
	}

	m := medium.Water()
	laser := medium.Laser{Wavelength: 800e-9, Waist: 80e-6, PeakTime: 85e-15, Energy: 1e-6}
	beam := medium.NewBeam(laser, m)

	s, err := solver.New(solver.Config{
		Grid:            g,
		Medium:          m,
		Beam:            beam,
		Coef:            medium.NewCoefficients(m, beam, false),
		IonizationModel: ionization.MPI,
		DensityScheme:   scheme.RK4,
		RamanScheme:     scheme.RK4,
		NonlinearScheme: scheme.RK4,
		Effects:         solver.AllEffects(),
	}, field.GaussianBeam(g, beam))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Step(); err != nil {
			b.Fatal(err)
		}
	}
}
