// Package config loads and saves run configuration. Values resolve against
// defaults; model and method strings are validated when the run is wired,
// not per grid point.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pulselab/filament/internal/grid"
	"github.com/pulselab/filament/internal/medium"
)

// Config is the full YAML-backed run description.
type Config struct {
	Medium     string           `yaml:"medium"`
	Grid       grid.Spec        `yaml:"grid"`
	Laser      medium.Laser     `yaml:"laser"`
	Ionization IonizationConfig `yaml:"ionization"`
	Methods    MethodsConfig    `yaml:"methods"`
	Effects    EffectsConfig    `yaml:"effects"`
	Output     OutputConfig     `yaml:"output"`
}

// IonizationConfig selects the ionization model and series tolerance.
type IonizationConfig struct {
	Model     string  `yaml:"model"`
	Tolerance float64 `yaml:"tolerance"`
}

// MethodsConfig selects the integration scheme per sub-integrator.
type MethodsConfig struct {
	Density   string `yaml:"density"`
	Raman     string `yaml:"raman"`
	Nonlinear string `yaml:"nonlinear"`
}

// EffectsConfig toggles the physical contributions.
type EffectsConfig struct {
	Plasma bool `yaml:"plasma"`
	MPA    bool `yaml:"mpa"`
	Kerr   bool `yaml:"kerr"`
	Raman  bool `yaml:"raman"`
}

// OutputConfig controls diagnostics output.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	SnapshotEvery int    `yaml:"snapshot_every"`
	Plots         bool   `yaml:"plots"`
}

// Default returns the built-in water run, mirroring the reference
// experiment: an 800 nm, 130 fs, 2.2 uJ pulse in water.
func Default() *Config {
	return &Config{
		Medium: "water",
		Grid: grid.Spec{
			RadialNodes: 1002,
			TimeNodes:   2048,
			Steps:       500,
			RMax:        25e-4,
			TMin:        -250e-15,
			TMax:        250e-15,
			ZMax:        3e-2,
		},
		Laser: medium.Laser{
			Wavelength: 800e-9,
			Waist:      75e-6,
			PeakTime:   130e-15,
			Energy:     2.2e-6,
		},
		Ionization: IonizationConfig{
			Model:     "MPI",
			Tolerance: 1e-4,
		},
		Methods: MethodsConfig{
			Density:   "RK4",
			Raman:     "RK4",
			Nonlinear: "RK4",
		},
		Effects: EffectsConfig{
			Plasma: true,
			MPA:    true,
			Kerr:   true,
			Raman:  false,
		},
		Output: OutputConfig{
			Dir:           ".filament",
			SnapshotEvery: 100,
			Plots:         true,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
