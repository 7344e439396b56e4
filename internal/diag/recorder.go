// Package diag records per-step diagnostics from the solver and persists
// them as a run directory. The solver itself never writes files.
package diag

import (
	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/solver"
)

// FieldSnapshot is a deep copy of the full state at one plane.
type FieldSnapshot struct {
	Step     int
	Z        float64
	Envelope *field.Complex
	Density  *field.Real
}

// Recorder accumulates cheap per-step scalars every step and full-field
// snapshots on a fixed cadence. It implements solver.Observer.
type Recorder struct {
	g             *grid.Grid
	snapshotEvery int

	Z             []float64
	Radius        []float64
	PeakIntensity []float64 // on-axis max of |E|^2
	PeakDensity   []float64 // on-axis max of N

	AxisIntensity   []float64 // |E(r=0, t)|^2 at the last committed plane
	RadialIntensity []float64 // |E(r, t_peak)|^2 at the last committed plane
	Fluence         []float64 // fluence profile at the last committed plane

	Snapshots []FieldSnapshot
}

// NewRecorder builds a recorder. snapshotEvery <= 0 disables full-field
// snapshots.
func NewRecorder(g *grid.Grid, snapshotEvery int) *Recorder {
	return &Recorder{
		g:             g,
		snapshotEvery: snapshotEvery,
		Z:             make([]float64, 0, g.Steps),
		Radius:        make([]float64, 0, g.Steps),
		PeakIntensity: make([]float64, 0, g.Steps),
		PeakDensity:   make([]float64, 0, g.Steps),
		AxisIntensity:   make([]float64, g.Nt),
		RadialIntensity: make([]float64, g.Nr),
		Fluence:         make([]float64, g.Nr),
	}
}

// OnStep records the committed plane.
func (r *Recorder) OnStep(snap solver.Snapshot) {
	axisEnv := snap.Envelope.Row(0)
	axisDens := snap.Density.Row(0)

	peakI, peakD := 0.0, 0.0
	for l, v := range axisEnv {
		i2 := real(v)*real(v) + imag(v)*imag(v)
		r.AxisIntensity[l] = i2
		if i2 > peakI {
			peakI = i2
		}
		if axisDens[l] > peakD {
			peakD = axisDens[l]
		}
	}

	peakNode := field.PeakNode(r.AxisIntensity)
	for i := 0; i < r.g.Nr; i++ {
		v := snap.Envelope.At(i, peakNode)
		r.RadialIntensity[i] = real(v)*real(v) + imag(v)*imag(v)
	}

	r.Z = append(r.Z, snap.Z)
	r.Radius = append(r.Radius, snap.Radius)
	r.PeakIntensity = append(r.PeakIntensity, peakI)
	r.PeakDensity = append(r.PeakDensity, peakD)
	copy(r.Fluence, snap.Fluence)

	if r.snapshotEvery > 0 && (snap.Step%r.snapshotEvery == 0 || snap.Step == r.g.Steps) {
		env := field.NewComplex(r.g.Nr, r.g.Nt)
		env.CopyFrom(snap.Envelope)
		dens := field.NewReal(r.g.Nr, r.g.Nt)
		copy(dens.Data, snap.Density.Data)
		r.Snapshots = append(r.Snapshots, FieldSnapshot{
			Step:     snap.Step,
			Z:        snap.Z,
			Envelope: env,
			Density:  dens,
		})
	}
}
