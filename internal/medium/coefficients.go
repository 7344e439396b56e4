package medium

import "math"

// Coefficients are the per-run equation constants consumed by the solver.
// They are derived once from the medium and beam and never change during
// propagation.
type Coefficients struct {
	CriticalDensity float64

	// Nonlinear polarization terms.
	Plasma complex128 // -i k_0 / (2 n_0 N_c)
	MPA    complex128 // -beta_K / 2
	Kerr   complex128 // i k_0 n_2 (prompt share when Raman is on)
	Raman  complex128 // i k_0 n_2 f (delayed share)

	// Electron density source terms.
	OFI       float64 // sigma_K, multiplies |E|^(2K)
	Avalanche float64 // sigma_B / U_i, multiplies N |E|^2

	// Raman oscillator: dR'/dt = RamanC1 (I - R) + RamanC2 R'.
	RamanC1 float64
	RamanC2 float64

	// Adiabatic (PPT) ionization constants, pre-scaled so that the engine
	// works directly on the envelope modulus.
	PPTField    float64 // F_0 against the envelope amplitude
	PPTNStar    float64 // effective principal quantum number
	PPTGammaC   float64 // gamma = PPTGammaC / |E|
	PPTNu       float64 // photon-order scale, nu = PPTNu (1 + 1/(2 gamma^2))
	PPTRateC    float64 // overall rate prefactor [1/s]
}

// NewCoefficients derives the equation constants. ramanOn splits the Kerr
// response into prompt and delayed shares by the medium's Raman fraction.
func NewCoefficients(m Medium, b Beam, ramanOn bool) Coefficients {
	var c Coefficients

	omega := b.Frequency
	omegaTau := omega * m.CollisionTime

	c.CriticalDensity = Permittivity * ElectronMass *
		(omega / ElectronCharge) * (omega / ElectronCharge)

	bremss := (b.Wavenumber * omegaTau) /
		((m.RefractiveIndex * m.RefractiveIndex * c.CriticalDensity) * (1 + omegaTau*omegaTau))

	c.Plasma = complex(0, -0.5*b.Wavenumber0/(m.RefractiveIndex*c.CriticalDensity))
	c.MPA = complex(-0.5*m.MPACoefficient*math.Pow(m.IntensityFactor, float64(m.PhotonCount-1)), 0)

	kerr := b.Wavenumber0 * m.NonlinearIndex * m.IntensityFactor
	if ramanOn && m.RamanFraction > 0 {
		c.Kerr = complex(0, kerr*(1-m.RamanFraction))
		c.Raman = complex(0, kerr*m.RamanFraction)
	} else {
		c.Kerr = complex(0, kerr)
	}

	c.OFI = m.MPICoefficient * math.Pow(m.IntensityFactor, float64(m.PhotonCount))
	c.Avalanche = bremss * m.IntensityFactor / m.IonizationEnergy

	if m.RamanTime > 0 {
		tau := m.RamanTime
		c.RamanC1 = (1 + (m.RamanFrequency*tau)*(m.RamanFrequency*tau)) / (tau * tau)
		c.RamanC2 = -2 / tau
	}

	c.derivePPT(m, b)

	return c
}

// derivePPT computes the adiabatic-model constants. The envelope modulus is
// in intensity units (|E|^2 == I), so the atomic-unit field constant and the
// Keldysh coefficient absorb the conversion from sqrt(W/m^2) to V/m.
func (c *Coefficients) derivePPT(m Medium, b Beam) {
	uiAU := m.IonizationEnergy / hartreeEnergy
	envToVm := math.Sqrt(2 / (LightSpeed * Permittivity * m.RefractiveIndex))

	c.PPTNStar = 1 / math.Sqrt(2*uiAU)
	c.PPTField = math.Pow(2*uiAU, 1.5) * atomicField / envToVm
	c.PPTGammaC = b.Frequency * math.Sqrt(2*ElectronMass*m.IonizationEnergy) /
		(ElectronCharge * envToVm)
	c.PPTNu = m.IonizationEnergy / (PlanckBar * b.Frequency)
	c.PPTRateC = (4 * math.Sqrt2 / math.Pi) * uiAU / atomicTime
}
