// Package medium holds the material and laser parameters of a propagation
// run and derives the equation coefficients the solver consumes.
package medium

import (
	"fmt"
	"sort"
	"strings"
)

// Universal constants (SI).
const (
	LightSpeed     = 299792458.0
	Permittivity   = 8.8541878128e-12
	ElectronMass   = 9.1093837139e-31
	ElectronCharge = 1.602176634e-19
	PlanckBar      = 1.05457182e-34
)

// Atomic-unit conversion factors used by the tunneling-ionization model.
const (
	hartreeEnergy = 4.3597447222071e-18
	atomicField   = 5.14220675112e11
	atomicTime    = 2.4188843265857e-17
)

// Medium collects the material parameters of the interacting medium.
// Intensity-like quantities follow the convention |E|^2 == intensity;
// IntensityFactor carries the SI conversion when a run needs it.
type Medium struct {
	Name             string  `yaml:"name"`
	RefractiveIndex  float64 `yaml:"refractive_index"`  // n0
	NonlinearIndex   float64 `yaml:"nonlinear_index"`   // n2 [m^2/W]
	GVDCoefficient   float64 `yaml:"gvd_coefficient"`   // k'' [s^2/m]
	PhotonCount      int     `yaml:"photon_count"`      // K
	MPACoefficient   float64 `yaml:"mpa_coefficient"`   // beta_K
	MPICoefficient   float64 `yaml:"mpi_coefficient"`   // sigma_K
	IonizationEnergy float64 `yaml:"ionization_energy"` // U_i [J]
	CollisionTime    float64 `yaml:"collision_time"`    // tau_c [s]
	NeutralDensity   float64 `yaml:"neutral_density"`   // N_n [1/m^3]
	IntensityFactor  float64 `yaml:"intensity_factor"`

	// Delayed Raman response (damped oscillator on the intensity).
	RamanFraction  float64 `yaml:"raman_fraction"`  // share of the Kerr response that is delayed
	RamanFrequency float64 `yaml:"raman_frequency"` // rotational/vibrational frequency [rad/s]
	RamanTime      float64 `yaml:"raman_time"`      // dephasing time [s]
}

// Water returns the parameter set for liquid water at 800 nm.
func Water() Medium {
	return Medium{
		Name:             "water",
		RefractiveIndex:  1.334,
		NonlinearIndex:   4.1e-20,
		GVDCoefficient:   248e-28,
		PhotonCount:      5,
		MPACoefficient:   1e-61,
		MPICoefficient:   1.2e-72,
		IonizationEnergy: 1.04e-18, // 6.5 eV
		CollisionTime:    3e-15,
		NeutralDensity:   6.68e28,
		IntensityFactor:  1,
	}
}

// Air returns the parameter set for atmospheric air at 800 nm. The delayed
// rotational Raman response matters here, unlike in water.
func Air() Medium {
	return Medium{
		Name:             "air",
		RefractiveIndex:  1.000334,
		NonlinearIndex:   3.2e-23,
		GVDCoefficient:   2e-29,
		PhotonCount:      8,
		MPACoefficient:   1.8e-94,
		MPICoefficient:   3.7e-96,
		IonizationEnergy: 1.932e-18, // 12.06 eV, O2
		CollisionTime:    3.5e-13,
		NeutralDensity:   5.4e24, // O2 share of air
		IntensityFactor:  1,
		RamanFraction:    0.5,
		RamanFrequency:   16e12,
		RamanTime:        77e-15,
	}
}

// Presets returns the built-in media sorted by name.
func Presets() []Medium {
	media := []Medium{Air(), Water()}
	sort.Slice(media, func(i, j int) bool { return media[i].Name < media[j].Name })
	return media
}

// ByName looks up a built-in medium, case-insensitively.
func ByName(name string) (Medium, error) {
	name = strings.ToLower(name)
	for _, m := range Presets() {
		if m.Name == name {
			return m, nil
		}
	}
	return Medium{}, fmt.Errorf("medium: unknown preset %q", name)
}
