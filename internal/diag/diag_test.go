package diag_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselab/filament/internal/config"
	"github.com/pulselab/filament/internal/diag"
	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/solver"
)

func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.New(grid.Spec{
		RadialNodes: 8,
		TimeNodes:   16,
		Steps:       4,
		RMax:        1e-3,
		TMin:        -100e-15,
		TMax:        100e-15,
		ZMax:        1e-2,
	})
	require.NoError(t, err)
	return g
}

func snapshotAt(g *grid.Grid, step int, peak float64) solver.Snapshot {
	env := field.NewComplex(g.Nr, g.Nt)
	env.Set(0, g.Nt/2, complex(peak, 0))
	dens := field.NewReal(g.Nr, g.Nt)
	dens.Set(0, g.Nt-1, 2*peak)

	fluence := make([]float64, g.Nr)
	field.Fluence(fluence, env, g)

	return solver.Snapshot{
		Step:     step,
		Z:        g.Z[step],
		Envelope: env,
		Density:  dens,
		Fluence:  fluence,
		Radius:   1.5e-4,
	}
}

func TestRecorder_Scalars(t *testing.T) {
	g := testGrid(t)
	rec := diag.NewRecorder(g, 0)

	rec.OnStep(snapshotAt(g, 1, 3.0))
	rec.OnStep(snapshotAt(g, 2, 5.0))

	require.Len(t, rec.Z, 2)
	assert.Equal(t, g.Z[1], rec.Z[0])
	assert.Equal(t, g.Z[2], rec.Z[1])

	assert.Equal(t, []float64{9.0, 25.0}, rec.PeakIntensity)
	assert.Equal(t, []float64{6.0, 10.0}, rec.PeakDensity)
	assert.Equal(t, 25.0, rec.AxisIntensity[g.Nt/2])
	assert.Equal(t, 25.0, rec.RadialIntensity[0])
	assert.Equal(t, 0.0, rec.RadialIntensity[1])
	assert.Empty(t, rec.Snapshots)
}

func TestRecorder_SnapshotCadence(t *testing.T) {
	g := testGrid(t)
	rec := diag.NewRecorder(g, 2)

	for step := 1; step <= g.Steps; step++ {
		rec.OnStep(snapshotAt(g, step, 1.0))
	}

	// Steps 2 and 4 match the cadence; 4 is also the final plane.
	require.Len(t, rec.Snapshots, 2)
	assert.Equal(t, 2, rec.Snapshots[0].Step)
	assert.Equal(t, 4, rec.Snapshots[1].Step)
}

// Snapshots must be deep copies, detached from the solver's live buffers.
func TestRecorder_SnapshotIsDetached(t *testing.T) {
	g := testGrid(t)
	rec := diag.NewRecorder(g, 1)

	snap := snapshotAt(g, 1, 4.0)
	rec.OnStep(snap)

	snap.Envelope.Set(0, 0, complex(999, 0))
	assert.Equal(t, complex(0, 0), rec.Snapshots[0].Envelope.At(0, 0))
}

func TestStore_Save(t *testing.T) {
	g := testGrid(t)
	rec := diag.NewRecorder(g, 0)
	rec.OnStep(snapshotAt(g, 1, 2.0))
	rec.OnStep(snapshotAt(g, 2, 3.0))

	base := t.TempDir()
	store := diag.NewStore(base)
	require.NoError(t, store.Init())

	cfg := config.Default()
	runID, err := store.Save(cfg, rec, 1500*time.Millisecond)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runDir := filepath.Join(base, runID)
	for _, name := range []string{
		"metadata.json", "evolution.csv", "fluence.csv",
		"axis_intensity.csv", "radial_intensity.csv",
	} {
		_, err := os.Stat(filepath.Join(runDir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(runDir, "metadata.json"))
	require.NoError(t, err)

	var meta diag.RunMetadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, cfg.Medium, meta.Medium)
	assert.InDelta(t, 1.5, meta.Elapsed, 1e-9)
	assert.Equal(t, 9.0, meta.PeakIntensity)
	assert.Equal(t, 1.5e-4, meta.FinalRadius)
}

func TestStore_SaveSnapshots(t *testing.T) {
	g := testGrid(t)
	rec := diag.NewRecorder(g, 2)
	for step := 1; step <= g.Steps; step++ {
		rec.OnStep(snapshotAt(g, step, 1.0))
	}
	require.Len(t, rec.Snapshots, 2)

	base := t.TempDir()
	store := diag.NewStore(base)
	require.NoError(t, store.Init())

	runID, err := store.Save(config.Default(), rec, time.Second)
	require.NoError(t, err)

	for _, name := range []string{
		"snapshot_0002_intensity.csv", "snapshot_0002_density.csv",
		"snapshot_0004_intensity.csv", "snapshot_0004_density.csv",
	} {
		_, err := os.Stat(filepath.Join(base, runID, name))
		assert.NoError(t, err, name)
	}
}
