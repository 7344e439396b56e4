package medium

import "math"

// Laser is the input pulse description.
type Laser struct {
	Wavelength  float64 `yaml:"wavelength"`   // [m]
	Waist       float64 `yaml:"waist"`        // 1/e^2 beam waist [m]
	PeakTime    float64 `yaml:"peak_time"`    // pulse duration [s]
	Energy      float64 `yaml:"energy"`       // pulse energy [J]
	Chirp       float64 `yaml:"chirp"`        // temporal chirp, dimensionless
	FocalLength float64 `yaml:"focal_length"` // 0 for collimated input [m]
}

// Beam carries the quantities derived from a Laser in a Medium.
type Beam struct {
	Laser

	Wavenumber0   float64 // k_0, vacuum
	Wavenumber    float64 // k = k_0 n_0
	Frequency     float64 // omega_0
	Power         float64
	CriticalPower float64
	Intensity     float64
	Amplitude     float64
}

// NewBeam derives the propagation quantities of l inside m.
func NewBeam(l Laser, m Medium) Beam {
	b := Beam{Laser: l}
	b.Wavenumber0 = 2 * math.Pi / l.Wavelength
	b.Wavenumber = b.Wavenumber0 * m.RefractiveIndex
	b.Frequency = b.Wavenumber0 * LightSpeed
	b.Power = l.Energy / (l.PeakTime * math.Sqrt(0.5*math.Pi))
	b.CriticalPower = 3.77 * l.Wavelength * l.Wavelength /
		(8 * math.Pi * m.RefractiveIndex * m.NonlinearIndex)
	b.Intensity = 2 * b.Power / (math.Pi * l.Waist * l.Waist)
	b.Amplitude = math.Sqrt(b.Intensity / m.IntensityFactor)
	return b
}
