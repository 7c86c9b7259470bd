// Package lpvalue maintains the dense vector of current variable values
// (basic and non-basic) and the dual-price priority structure the dual
// simplex's leaving-row selection reads from.
package lpvalue

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ColIndex and RowIndex mirror the root package's index domains.
type ColIndex = int32
type RowIndex = int32

// Solver is the read-only handle Values needs to recompute x_B from
// scratch: a freshly factorized basis solve, plus the problem's A
// matrix, bounds and basis mapping. Passed per call rather than stored,
// per §9's explicit-context-passing design note.
type Solver interface {
	Solve(rhs []float64) []float64
}

// Matrix is the read-only handle to A needed to form b - A_N x_N.
type Matrix interface {
	NumRows() int
	NumCols() int
	AddMultipleToDense(col int, alpha float64, out []float64)
}

// Values maintains x for every column, basic and non-basic.
type Values struct {
	x []float64
}

// NewValues returns a Values sized for n columns, all zero.
func NewValues(n int) *Values { return &Values{x: make([]float64, n)} }

// Dense exposes the full value vector, indexed by ColIndex.
func (v *Values) Dense() []float64 { return v.x }

// At returns x_j.
func (v *Values) At(j ColIndex) float64 { return v.x[j] }

// Set assigns x_j directly (used by ResetNonBasicToStatus and warm start).
func (v *Values) Set(j ColIndex, val float64) { v.x[j] = val }

// RecomputeBasicValues sets x_B <- B^-1 (b - A_N x_N) from scratch. It
// must only be called when the factorization is freshly refactorized
// (no pending low-rank updates), per spec §4.3.
func (v *Values) RecomputeBasicValues(basis []ColIndex, solver Solver, a Matrix, b []float64) {
	m := len(basis)
	rhs := append([]float64(nil), b...)
	basicSet := make(map[ColIndex]bool, m)
	for _, c := range basis {
		basicSet[c] = true
	}
	for j := 0; j < a.NumCols(); j++ {
		jc := ColIndex(j)
		if basicSet[jc] || v.x[jc] == 0 {
			continue
		}
		a.AddMultipleToDense(j, -v.x[jc], rhs)
	}
	xb := solver.Solve(rhs)
	for row, col := range basis {
		v.x[col] = xb[row]
	}
}

// UpdateOnPivot applies x_B <- x_B - step*d, x_entering <- x_entering +
// step, the dense half of the 5-step pivot in spec §4.7. basis gives the
// row->col mapping so the direction (indexed by row) can be scattered
// into the column-indexed value vector.
func (v *Values) UpdateOnPivot(basis []ColIndex, direction []float64, entering ColIndex, step float64) {
	for row, d := range direction {
		v.x[basis[row]] -= step * d
	}
	v.x[entering] += step
}

// NonBasicReset describes, for one non-basic column, which value it
// should be pinned to.
type NonBasicReset struct {
	Col    ColIndex
	Status int8 // mirrors simplex.VariableStatus without importing the root package
	Lower  float64
	Upper  float64
	// Starting is used only when Status denotes FREE; it lets a
	// warm-started super-basic keep its saved non-zero value until the
	// push phase consumes it, per spec §3's FREE-variable invariant.
	Starting float64
}

// Status tags understood by ResetNonBasicToStatus; duplicated from the
// root package's VariableStatus to avoid an import cycle.
const (
	StatusFixedValue int8 = iota + 1
	StatusAtLower
	StatusAtUpper
	StatusFree
)

// ResetNonBasicToStatus sets each listed non-basic column's value to
// the bound implied by its status, or to Starting if the status is
// FREE.
func (v *Values) ResetNonBasicToStatus(resets []NonBasicReset) {
	for _, r := range resets {
		switch r.Status {
		case StatusFixedValue, StatusAtLower:
			v.x[r.Col] = r.Lower
		case StatusAtUpper:
			v.x[r.Col] = r.Upper
		case StatusFree:
			v.x[r.Col] = r.Starting
		}
	}
}

// ComputeMaxPrimalInfeasibility returns max_j max(lower_j - x_j, x_j -
// upper_j, 0) over every column, the measured max bound violation.
func ComputeMaxPrimalInfeasibility(x, lower, upper []float64) float64 {
	var worst float64
	for j := range x {
		if v := lower[j] - x[j]; v > worst {
			worst = v
		}
		if v := x[j] - upper[j]; v > worst {
			worst = v
		}
	}
	return worst
}

// ComputeMaxPrimalResidual returns ||A x - b||_inf.
func ComputeMaxPrimalResidual(ax, b []float64) float64 {
	residual := make([]float64, len(b))
	floats.SubTo(residual, ax, b)
	return floats.Norm(residual, math.Inf(1))
}
