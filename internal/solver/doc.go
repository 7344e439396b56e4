// Package solver orchestrates the split-step propagation of an ultrashort
// pulse envelope in cylindrical coordinates.
//
// One propagation step executes a fixed sequence with no mid-run branching:
//
//	ionization rate -> electron density -> Raman response ->
//	nonlinear assembly -> spectral dispersion -> implicit diffraction solve ->
//	commit (buffer swap)
//
// The model and method selections (MPI vs PPT ionization, RK4 vs Euler
// sub-integrators) are resolved once at configuration time. Within a step
// the work is data-parallel over disjoint grid slices: density, Raman and
// dispersion across radial rows, the diffraction solve across temporal
// columns. Steps are strictly sequential in the propagation distance.
//
// Commit validates the envelope and density for NaN/Inf; a failure surfaces
// [ErrNonFiniteState] wrapped in a [StepError] and terminates the run.
package solver
