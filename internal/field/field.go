// Package field provides the dense (Nr x Nt) grids the solver advances and
// the scalar diagnostics derived from them.
package field

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/pulselab/filament/internal/grid"
)

// Complex is a row-major complex field over the radial x temporal grid.
type Complex struct {
	Nr, Nt int
	Data   []complex128
}

// NewComplex allocates a zeroed field.
func NewComplex(nr, nt int) *Complex {
	return &Complex{Nr: nr, Nt: nt, Data: make([]complex128, nr*nt)}
}

// Row returns the temporal slice at radial index i, backed by the field.
func (f *Complex) Row(i int) []complex128 {
	return f.Data[i*f.Nt : (i+1)*f.Nt]
}

func (f *Complex) At(i, l int) complex128     { return f.Data[i*f.Nt+l] }
func (f *Complex) Set(i, l int, v complex128) { f.Data[i*f.Nt+l] = v }

// CopyFrom copies src into f. The shapes must match.
func (f *Complex) CopyFrom(src *Complex) {
	copy(f.Data, src.Data)
}

// IsFinite reports whether every entry is free of NaN and Inf.
func (f *Complex) IsFinite() bool {
	for _, v := range f.Data {
		re, im := real(v), imag(v)
		if math.IsNaN(re) || math.IsInf(re, 0) || math.IsNaN(im) || math.IsInf(im, 0) {
			return false
		}
	}
	return true
}

// Energy returns the grid sum of |E|^2.
func (f *Complex) Energy() float64 {
	sum := 0.0
	for _, v := range f.Data {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum
}

// Real is a row-major real field over the radial x temporal grid.
type Real struct {
	Nr, Nt int
	Data   []float64
}

// NewReal allocates a zeroed field.
func NewReal(nr, nt int) *Real {
	return &Real{Nr: nr, Nt: nt, Data: make([]float64, nr*nt)}
}

// Row returns the temporal slice at radial index i, backed by the field.
func (f *Real) Row(i int) []float64 {
	return f.Data[i*f.Nt : (i+1)*f.Nt]
}

func (f *Real) At(i, l int) float64     { return f.Data[i*f.Nt+l] }
func (f *Real) Set(i, l int, v float64) { f.Data[i*f.Nt+l] = v }

// Fill sets every entry to v.
func (f *Real) Fill(v float64) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// IsFinite reports whether every entry is free of NaN and Inf.
func (f *Real) IsFinite() bool {
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Amplitude writes |E| into dst.
func Amplitude(dst *Real, env *Complex) {
	for i, v := range env.Data {
		dst.Data[i] = math.Hypot(real(v), imag(v))
	}
}

// Intensity writes |E|^2 into dst.
func Intensity(dst *Real, env *Complex) {
	for i, v := range env.Data {
		dst.Data[i] = real(v)*real(v) + imag(v)*imag(v)
	}
}

// Fluence writes the time-integrated intensity per radius into dst
// (one entry per radial node).
func Fluence(dst []float64, env *Complex, g *grid.Grid) {
	row2 := make([]float64, g.Nt)
	for i := 0; i < g.Nr; i++ {
		row := env.Row(i)
		for l, v := range row {
			row2[l] = real(v)*real(v) + imag(v)*imag(v)
		}
		dst[i] = integrate.Trapezoidal(g.T, row2)
	}
}

// HalfWidth returns the radius where the fluence profile first falls to half
// its on-axis value, interpolating linearly between straddling nodes. It
// returns the outer radius when the profile never drops below half.
func HalfWidth(fluence []float64, r []float64) float64 {
	half := 0.5 * fluence[0]
	for i := 1; i < len(fluence); i++ {
		if fluence[i] <= half {
			f0, f1 := fluence[i-1], fluence[i]
			if f0 == f1 {
				return r[i]
			}
			frac := (f0 - half) / (f0 - f1)
			return r[i-1] + frac*(r[i]-r[i-1])
		}
	}
	return r[len(r)-1]
}
