// Package ionization computes the pointwise field-ionization rate.
//
// Two models are supported. The multiphoton limit is a pure power law in the
// field amplitude. The general adiabatic (PPT-style) model evaluates, per
// grid point, an infinite series of exponentially damped special-function
// terms; the series is summed to a relative tolerance with a hard iteration
// cap so that rare slowly converging points cannot stall a step.
package ionization

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/pulselab/filament/internal/field"
	"github.com/pulselab/filament/internal/parallel"
)

// ErrUnknownModel indicates an unrecognized ionization model identifier.
var ErrUnknownModel = errors.New("ionization: unknown model")

// Model is the closed set of ionization models, resolved once at
// configuration time.
type Model int

const (
	// MPI is the multiphoton limit: rate = C |E|^(2K).
	MPI Model = iota
	// PPT is the general adiabatic tunneling model.
	PPT
)

// ParseModel resolves a configuration string into a Model.
func ParseModel(s string) (Model, error) {
	switch strings.ToUpper(s) {
	case "MPI":
		return MPI, nil
	case "PPT":
		return PPT, nil
	default:
		return 0, fmt.Errorf("%w: %q (want MPI or PPT)", ErrUnknownModel, s)
	}
}

func (m Model) String() string {
	switch m {
	case MPI:
		return "MPI"
	case PPT:
		return "PPT"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

const (
	// maxExtraTerms caps the series past its start index.
	maxExtraTerms = 200
	// minAmplitude guards the 1/|E| terms; weaker points keep a zero rate.
	minAmplitude = 1e-12
	// quadNodes is the Gauss-Legendre order for the phi integral.
	quadNodes = 40
	// defaultTolerance stops the series when a term falls below this
	// fraction of the partial sum.
	defaultTolerance = 1e-4
)

// Params are the model constants, pre-scaled against the envelope modulus.
type Params struct {
	PhotonCount int
	OFICoef     float64 // multiphoton rate coefficient

	Field     float64 // F_0
	NStar     float64 // effective principal quantum number
	GammaC    float64 // gamma = GammaC / |E|
	Nu        float64 // photon-order scale
	RateC     float64 // adiabatic rate prefactor
	Tolerance float64 // series stopping tolerance; 0 means the default
}

// Engine computes ionization rates over the full grid.
type Engine struct {
	model Model
	p     Params
}

// NewEngine builds an engine for the given model.
func NewEngine(model Model, p Params) (*Engine, error) {
	if model != MPI && model != PPT {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(model))
	}
	if p.Tolerance <= 0 {
		p.Tolerance = defaultTolerance
	}
	return &Engine{model: model, p: p}, nil
}

// Model returns the engine's resolved model.
func (e *Engine) Model() Model { return e.model }

// Rate fills rate from the envelope amplitude, in parallel across grid rows.
// Points below the amplitude floor keep their prior value.
func (e *Engine) Rate(rate, amp *field.Real) {
	parallel.For(amp.Nr, 1, func(start, end int) {
		for i := start; i < end; i++ {
			ampRow := amp.Row(i)
			rateRow := rate.Row(i)
			switch e.model {
			case MPI:
				e.rateMPIRow(rateRow, ampRow)
			case PPT:
				e.ratePPTRow(rateRow, ampRow)
			}
		}
	})
}

func (e *Engine) rateMPIRow(rate, amp []float64) {
	exp := 2 * float64(e.p.PhotonCount)
	for l, a := range amp {
		rate[l] = e.p.OFICoef * math.Pow(a, exp)
	}
}

func (e *Engine) ratePPTRow(rate, amp []float64) {
	for l, a := range amp {
		if a < minAmplitude {
			continue
		}
		rate[l] = e.ratePPT(a)
	}
}

// ratePPT evaluates the adiabatic model at one field amplitude.
func (e *Engine) ratePPT(a float64) float64 {
	gamma := e.p.GammaC / a
	root := math.Sqrt(1 + gamma*gamma)

	asinh := math.Asinh(gamma)
	idx := 1 + 0.5/(gamma*gamma)
	beta := 2 * gamma / root
	alpha := 2*asinh - beta
	gFunc := (1.5 / gamma) * (idx*asinh - 1/beta)

	nsTerm := math.Pow(2*e.p.Field/(a*root), 2*e.p.NStar-1.5)
	expTerm := math.Exp(-2 * e.p.Field * gFunc / (3 * a))
	betaTerm := 0.25 * beta * beta

	sum := seriesSum(alpha, beta, e.p.Nu*idx, e.p.Tolerance)

	return e.p.RateC * nsTerm * expTerm * betaTerm * sum
}

// seriesSum evaluates sum over n >= ceil(nu) of exp(-alpha (n-nu)) *
// phi(sqrt(beta (n-nu))). Terms accumulate while the running term exceeds
// tol times the partial sum; a hard cap of maxExtraTerms past the start
// index guarantees termination, trading exactness for a best partial sum.
func seriesSum(alpha, beta, nu, tol float64) float64 {
	idxMin := int(math.Ceil(nu))
	sum := 0.0

	for idx := idxMin; ; idx++ {
		delta := float64(idx) - nu
		term := math.Exp(-alpha*delta) * phi(math.Sqrt(beta*delta))
		sum += term

		if term < tol*sum {
			break
		}
		if idx > idxMin+maxExtraTerms {
			break
		}
	}

	return sum
}

// phi computes exp(-x^2) * integral_0^x exp(y^2) dy by fixed-order
// Gauss-Legendre quadrature. phi(x) = 0 for x <= 0.
//
// For x >= 1 the integrand exp(y^2) spans too many orders of magnitude for
// a fixed rule, so the substitution u = x - y is integrated instead:
// phi(x) = integral_0^x exp(-u (2x - u)) du, which is bounded by 1 and
// concentrated near u = 0.
func phi(x float64) float64 {
	if x <= 0 {
		return 0
	}

	if x < 1 {
		integral := quad.Fixed(func(y float64) float64 {
			return math.Exp(y * y)
		}, 0, x, quadNodes, nil, 0)
		return math.Exp(-x*x) * integral
	}

	uMax := x
	if limit := 20 / x; limit < uMax {
		uMax = limit
	}
	return quad.Fixed(func(u float64) float64 {
		return math.Exp(-u * (2*x - u))
	}, 0, uMax, quadNodes, nil, 0)
}
