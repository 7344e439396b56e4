package diag

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pulselab/filament/internal/config"
)

// Store persists run diagnostics under a base directory, one subdirectory
// per run.
type Store struct {
	baseDir string
}

// NewStore builds a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

// RunMetadata describes a stored run.
type RunMetadata struct {
	ID            string    `json:"id"`
	Medium        string    `json:"medium"`
	Timestamp     time.Time `json:"timestamp"`
	Steps         int       `json:"steps"`
	RadialNodes   int       `json:"radial_nodes"`
	TimeNodes     int       `json:"time_nodes"`
	Model         string    `json:"ionization_model"`
	Elapsed       float64   `json:"elapsed_seconds"`
	FinalRadius   float64   `json:"final_radius"`
	PeakIntensity float64   `json:"peak_intensity"`
	PeakDensity   float64   `json:"peak_density"`
}

// Save writes the run directory: metadata.json plus the evolution, fluence
// and on-axis intensity series as CSV. It returns the run ID.
func (s *Store) Save(cfg *config.Config, rec *Recorder, elapsed time.Duration) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Medium, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Medium:      cfg.Medium,
		Timestamp:   time.Now(),
		Steps:       cfg.Grid.Steps,
		RadialNodes: cfg.Grid.RadialNodes,
		TimeNodes:   cfg.Grid.TimeNodes,
		Model:       cfg.Ionization.Model,
		Elapsed:     elapsed.Seconds(),
	}
	if n := len(rec.Radius); n > 0 {
		meta.FinalRadius = rec.Radius[n-1]
	}
	for _, v := range rec.PeakIntensity {
		if v > meta.PeakIntensity {
			meta.PeakIntensity = v
		}
	}
	for _, v := range rec.PeakDensity {
		if v > meta.PeakDensity {
			meta.PeakDensity = v
		}
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	evo := [][]string{{"z", "radius", "peak_intensity", "peak_density"}}
	for k := range rec.Z {
		evo = append(evo, []string{
			fmtFloat(rec.Z[k]),
			fmtFloat(rec.Radius[k]),
			fmtFloat(rec.PeakIntensity[k]),
			fmtFloat(rec.PeakDensity[k]),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "evolution.csv"), evo); err != nil {
		return "", err
	}

	flu := [][]string{{"r", "fluence"}}
	for i, v := range rec.Fluence {
		flu = append(flu, []string{fmtFloat(rec.g.R[i]), fmtFloat(v)})
	}
	if err := writeCSV(filepath.Join(runDir, "fluence.csv"), flu); err != nil {
		return "", err
	}

	axis := [][]string{{"t", "intensity"}}
	for l, v := range rec.AxisIntensity {
		axis = append(axis, []string{fmtFloat(rec.g.T[l]), fmtFloat(v)})
	}
	if err := writeCSV(filepath.Join(runDir, "axis_intensity.csv"), axis); err != nil {
		return "", err
	}

	radial := [][]string{{"r", "intensity"}}
	for i, v := range rec.RadialIntensity {
		radial = append(radial, []string{fmtFloat(rec.g.R[i]), fmtFloat(v)})
	}
	if err := writeCSV(filepath.Join(runDir, "radial_intensity.csv"), radial); err != nil {
		return "", err
	}

	for _, snap := range rec.Snapshots {
		if err := s.writeSnapshot(runDir, snap); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// writeSnapshot flushes one full-field snapshot as a pair of (Nr x Nt) CSV
// grids, intensity and density, one radial row per line.
func (s *Store) writeSnapshot(runDir string, snap FieldSnapshot) error {
	intensity := make([][]string, snap.Envelope.Nr)
	density := make([][]string, snap.Density.Nr)

	for i := 0; i < snap.Envelope.Nr; i++ {
		envRow := snap.Envelope.Row(i)
		densRow := snap.Density.Row(i)

		iRow := make([]string, len(envRow))
		dRow := make([]string, len(densRow))
		for l, v := range envRow {
			iRow[l] = fmtFloat(real(v)*real(v) + imag(v)*imag(v))
			dRow[l] = fmtFloat(densRow[l])
		}
		intensity[i] = iRow
		density[i] = dRow
	}

	prefix := filepath.Join(runDir, fmt.Sprintf("snapshot_%04d", snap.Step))
	if err := writeCSV(prefix+"_intensity.csv", intensity); err != nil {
		return err
	}
	return writeCSV(prefix+"_density.csv", density)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 9, 64)
}
