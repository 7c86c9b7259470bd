// Package lpprice maintains reduced costs and edge norms, and
// implements the entering/leaving pricing rules and the Harris
// two-pass ratio test.
package lpprice

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ColIndex and RowIndex mirror the root package's index domains.
type ColIndex = int32
type RowIndex = int32

// LeftSolver is the read-only handle needed to form y = c_B^T B^-1 via
// a left solve (yᵀB = c_Bᵀ).
type LeftSolver interface {
	LeftSolve(rhs []float64) []float64
}

// ColumnReader reads A's columns for the Aᵀy scalar product.
type ColumnReader interface {
	NumCols() int
	ScalarProduct(col int, dense []float64) float64
}

// CostShift records a deliberate perturbation of one column's cost,
// applied to escape degeneracy or break dual infeasibility (§4.4),
// and undone before the engine reports a final solution.
type CostShift struct {
	Col    ColIndex
	Amount float64
}

// ReducedCosts maintains c̄ = c - Aᵀy for the current basis and cost
// vector, plus any active cost shifts.
type ReducedCosts struct {
	c       []float64 // the (possibly shifted) cost vector, dense over all columns
	cBase   []float64 // the unshifted cost vector, kept to undo shifts exactly
	cbar    []float64
	shifts  []CostShift
	precise bool
}

// NewReducedCosts returns a maintainer for n columns, cost vector cost
// (copied).
func NewReducedCosts(cost []float64) *ReducedCosts {
	return &ReducedCosts{
		c:     append([]float64(nil), cost...),
		cBase: append([]float64(nil), cost...),
		cbar:  make([]float64, len(cost)),
	}
}

// MakeReducedCostsPrecise recomputes c̄ from a freshly factorized basis:
// y = solver.LeftSolve(c_B), then c̄_j = c_j - A_jᵀy for every column.
func (r *ReducedCosts) MakeReducedCostsPrecise(basis []ColIndex, solver LeftSolver, a ColumnReader) {
	m := len(basis)
	cb := make([]float64, m)
	for row, col := range basis {
		cb[row] = r.c[col]
	}
	y := solver.LeftSolve(cb)
	for j := 0; j < a.NumCols(); j++ {
		r.cbar[j] = r.c[j] - a.ScalarProduct(j, y)
	}
	r.precise = true
}

// Dense exposes the current reduced-cost row.
func (r *ReducedCosts) Dense() []float64 { return r.cbar }

// At returns c̄_j.
func (r *ReducedCosts) At(j ColIndex) float64 { return r.cbar[j] }

// IsPrecise reports whether c̄ reflects MakeReducedCostsPrecise's output
// with no pivot applied since.
func (r *ReducedCosts) IsPrecise() bool { return r.precise }

// UpdateBeforeBasisPivot applies the outer-product update c̄ <- c̄ -
// (c̄_entering/pivot) * updateRow over the update row uᵀ = e_iᵀB⁻¹A of
// the leaving row i. The leaving column's entry (where u is 1) becomes
// -c̄_entering/pivot and the entering column's entry becomes 0 (the
// e_i - r̄_j*d shape of spec §4.7, without recomputing d).
func (r *ReducedCosts) UpdateBeforeBasisPivot(entering ColIndex, leavingRow int, pivot float64, updateRow []float64) {
	ratio := r.cbar[entering] / pivot
	for j, u := range updateRow {
		r.cbar[j] -= ratio * u
	}
	r.cbar[entering] = 0
	r.precise = false
}

// DualFeasibilityTolerance bundles the tolerance callers compare
// MaxDualInfeasibility against; kept here (rather than a bare float
// constant) so Parameters can carry it through without an import of
// the root package.
type DualFeasibilityTolerance = float64

// MaxDualInfeasibility returns the largest violation of dual
// feasibility over the given non-basic columns: for a column that can
// only increase, a violation is max(0, -c̄_j); for one that can only
// decrease, max(0, c̄_j); for a free column, |c̄_j|.
func (r *ReducedCosts) MaxDualInfeasibility(canIncrease, canDecrease []bool, excludeBoxed []bool) float64 {
	var worst float64
	for j, cbar := range r.cbar {
		if excludeBoxed != nil && excludeBoxed[j] {
			continue
		}
		v := dualInfeasibilityAt(cbar, canIncrease[j], canDecrease[j])
		if v > worst {
			worst = v
		}
	}
	return worst
}

func dualInfeasibilityAt(cbar float64, canIncrease, canDecrease bool) float64 {
	switch {
	case canIncrease && canDecrease:
		return math.Abs(cbar)
	case canIncrease:
		return math.Max(0, -cbar)
	case canDecrease:
		return math.Max(0, cbar)
	default:
		return 0
	}
}

// MaxDualResidual returns ||c̄ - (c - Aᵀy)||_inf for a freshly recomputed
// y, i.e. how far the incrementally maintained c̄ has drifted from the
// exact value; 0 immediately after MakeReducedCostsPrecise.
func (r *ReducedCosts) MaxDualResidual(basis []ColIndex, solver LeftSolver, a ColumnReader) float64 {
	m := len(basis)
	cb := make([]float64, m)
	for row, col := range basis {
		cb[row] = r.c[col]
	}
	y := solver.LeftSolve(cb)
	exact := make([]float64, len(r.cbar))
	for j := 0; j < a.NumCols(); j++ {
		exact[j] = r.c[j] - a.ScalarProduct(j, y)
	}
	diff := make([]float64, len(exact))
	floats.SubTo(diff, r.cbar, exact)
	return floats.Norm(diff, math.Inf(1))
}

// ShiftCostIfNeeded enlarges the entering column's cost (and hence its
// reduced cost) by the smallest amount that makes it strictly favorable
// to pivot, recording the shift so it can be undone before the engine
// reports a final solution. dir is +1 if j should decrease (c̄_j > 0 at
// an AT_UPPER-eligible column) or -1 if it should increase.
func (r *ReducedCosts) ShiftCostIfNeeded(j ColIndex, dir float64, minStrictImprovement float64) {
	want := -dir * minStrictImprovement // the sign that makes dir*c̄_j < 0 strictly
	have := r.cbar[j]
	if dir*have >= -minStrictImprovement {
		delta := want - have
		r.c[j] += delta
		r.cbar[j] += delta
		r.shifts = append(r.shifts, CostShift{Col: j, Amount: delta})
	}
}

// ActiveShifts exposes the pending cost-shift record.
func (r *ReducedCosts) ActiveShifts() []CostShift { return r.shifts }

// RemoveShifts undoes every active cost shift, restoring c to cBase
// exactly, then marks c̄ as requiring MakeReducedCostsPrecise again.
func (r *ReducedCosts) RemoveShifts() {
	copy(r.c, r.cBase)
	r.shifts = r.shifts[:0]
	r.precise = false
}
