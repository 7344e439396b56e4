// Package tridiag builds the fixed Crank-Nicolson operators for the radial
// diffraction step and solves the resulting tridiagonal systems.
//
// Both operators discretize the radial Laplacian with centered second-order
// differences and the cylindrical correction (1 +- 0.5/i) at interior node i.
// Node 0 is the symmetry axis and gets a reflective boundary via a doubled
// superdiagonal. The outer node is Dirichlet (main=1) on the implicit left
// operator and absorbing (main=0) on the explicit right operator.
package tridiag

import (
	"fmt"

	"github.com/pulselab/filament/internal/grid"
)

// Side selects which half of the Crank-Nicolson pair to build.
type Side int

const (
	// Left is the implicit operator, inverted once per temporal column.
	Left Side = iota
	// Right is the explicit operator, applied as a matrix-vector product.
	Right
)

// Operator is a tridiagonal matrix stored by diagonals. lower[i] holds
// A[i+1][i] and upper[i] holds A[i][i+1].
type Operator struct {
	n     int
	lower []complex128
	main  []complex128
	upper []complex128
}

// Build constructs the operator of the given side for nr radial nodes with
// the supplied diffraction coefficient.
func Build(nr int, side Side, coef complex128) (*Operator, error) {
	if nr < 3 {
		return nil, fmt.Errorf("tridiag: %w: need at least 3 radial nodes, got %d", grid.ErrInvalidGrid, nr)
	}

	op := &Operator{
		n:     nr,
		lower: make([]complex128, nr-1),
		main:  make([]complex128, nr),
		upper: make([]complex128, nr-1),
	}

	mainCoef := 1 + 2*coef
	for i := range op.main {
		op.main[i] = mainCoef
	}

	// Axis node: reflective boundary folds the ghost node into a doubled
	// superdiagonal.
	op.upper[0] = -2 * coef

	for i := 1; i < nr-1; i++ {
		inv := 0.5 / float64(i)
		op.lower[i-1] = -coef * complex(1-inv, 0)
		op.upper[i] = -coef * complex(1+inv, 0)
	}
	op.lower[nr-2] = 0

	switch side {
	case Left:
		op.main[nr-1] = 1
	case Right:
		op.main[nr-1] = 0
	default:
		return nil, fmt.Errorf("tridiag: unknown side %d", side)
	}

	return op, nil
}

// N returns the operator dimension.
func (op *Operator) N() int { return op.n }

// Diagonals exposes the bands for inspection. The returned slices alias the
// operator's storage and must not be modified.
func (op *Operator) Diagonals() (lower, main, upper []complex128) {
	return op.lower, op.main, op.upper
}

// MulVecInto computes dst = A x. dst and x must not alias.
func (op *Operator) MulVecInto(dst, x []complex128) {
	n := op.n
	dst[0] = op.main[0]*x[0] + op.upper[0]*x[1]
	for i := 1; i < n-1; i++ {
		dst[i] = op.lower[i-1]*x[i-1] + op.main[i]*x[i] + op.upper[i]*x[i+1]
	}
	dst[n-1] = op.lower[n-2]*x[n-2] + op.main[n-1]*x[n-1]
}

// Solver carries the scratch state for repeated Thomas solves against one
// operator. Not safe for concurrent use; allocate one per worker.
type Solver struct {
	op *Operator
	cp []complex128
	dp []complex128
}

// NewSolver prepares a solver for op.
func NewSolver(op *Operator) *Solver {
	return &Solver{
		op: op,
		cp: make([]complex128, op.n),
		dp: make([]complex128, op.n),
	}
}

// SolveInto solves A dst = rhs by the Thomas algorithm. The operator must be
// diagonally dominant, which the Crank-Nicolson left operator is for any
// diffraction coefficient. dst and rhs may alias.
func (s *Solver) SolveInto(dst, rhs []complex128) {
	op := s.op
	n := op.n

	s.cp[0] = op.upper[0] / op.main[0]
	s.dp[0] = rhs[0] / op.main[0]

	for i := 1; i < n; i++ {
		den := op.main[i] - op.lower[i-1]*s.cp[i-1]
		if i < n-1 {
			s.cp[i] = op.upper[i] / den
		}
		s.dp[i] = (rhs[i] - op.lower[i-1]*s.dp[i-1]) / den
	}

	dst[n-1] = s.dp[n-1]
	for i := n - 2; i >= 0; i-- {
		dst[i] = s.dp[i] - s.cp[i]*dst[i+1]
	}
}
