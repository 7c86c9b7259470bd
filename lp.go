package simplex

import "github.com/numericlp/simplex/lpsparse"

// LinearProgram is the external input to a solve (spec §6). Columns
// holds structural columns only. Solve always appends an identity block
// of one slack column per row; columns that already play the role of
// slacks (equation form) are not detected.
type LinearProgram struct {
	NumRows int
	NumCols int // structural columns only; slacks are appended by the engine

	// Columns[j] describes the nonzeros of structural column j.
	Columns []ColumnEntries

	Objective              []Fractional // length NumCols
	ObjectiveOffset        Fractional   // added to the reported objective, not optimized over
	ObjectiveScalingFactor Fractional   // <=0 selects maximization; sign-flipped before load/after extraction

	ColumnLowerBound []Fractional // length NumCols, ±Infinity allowed
	ColumnUpperBound []Fractional

	RowLowerBound []Fractional // length NumRows, ±Infinity allowed
	RowUpperBound []Fractional

	// IntegerColumns, when non-nil, flags columns that collaborating MIP
	// preprocessors treat as integral. The core never branches on this;
	// it is read-only passthrough data (spec §1's "external collaborators").
	IntegerColumns []bool
}

// ColumnEntries is a column's nonzero (row, coefficient) pairs.
type ColumnEntries struct {
	Rows   []int
	Values []Fractional
}

// IsMaximize reports whether ObjectiveScalingFactor selects maximization.
func (lp *LinearProgram) IsMaximize() bool { return lp.ObjectiveScalingFactor <= 0 }

// totalCols returns NumCols + NumRows, i.e. the column count once the
// slack identity block is appended.
func (lp *LinearProgram) totalCols() int { return lp.NumCols + lp.NumRows }

// slackCol returns the column index of the slack for row i once the
// identity block has been appended.
func (lp *LinearProgram) slackCol(row int) ColIndex { return ColIndex(lp.NumCols + row) }

// buildCompactMatrix appends the slack identity block and returns the
// full [A | I] compact matrix plus the per-column cost, lower-bound and
// upper-bound vectors over the combined (structural + slack) column space.
func (lp *LinearProgram) buildCompactMatrix() (*lpsparse.CompactMatrix, []Fractional, []Fractional, []Fractional) {
	cols := make([]lpsparse.ColumnSource, lp.NumCols)
	for j, c := range lp.Columns {
		cols[j] = lpsparse.ColumnSource{Rows: c.Rows, Values: c.Values}
	}
	base := lpsparse.NewCompactMatrix(lp.NumRows, cols)
	full := base.WithAppendedSlackIdentity()

	n := lp.totalCols()
	cost := make([]Fractional, n)
	lower := make([]Fractional, n)
	upper := make([]Fractional, n)
	copy(cost, lp.Objective)
	copy(lower, lp.ColumnLowerBound)
	copy(upper, lp.ColumnUpperBound)
	for i := 0; i < lp.NumRows; i++ {
		// A slack s_i satisfies row_i: (Ax)_i + s_i = 0 under the
		// convention that row bounds translate to slack bounds
		// s_i in [-RowUpperBound[i], -RowLowerBound[i]].
		lower[lp.NumCols+i] = negateBound(lp.RowUpperBound[i])
		upper[lp.NumCols+i] = negateBound(lp.RowLowerBound[i])
		cost[lp.NumCols+i] = 0
	}
	return full, cost, lower, upper
}

func negateBound(b Fractional) Fractional { return -b }

// Solution is the output of a solve (spec §6).
type Solution struct {
	Status ProblemStatus

	ObjectiveValue Fractional

	ColumnValue      []Fractional
	ColumnReducedCost []Fractional
	ColumnStatus     []VariableStatus

	// RowDualValue[i] is the dual value of row i's constraint; RowStatus
	// mirrors the row's constraint status, with AT_LOWER/AT_UPPER
	// swapped relative to the slack's own status because of the slack's
	// sign convention (spec §6).
	RowDualValue []Fractional
	RowStatus    []VariableStatus

	// PrimalRay is populated only on PrimalUnbounded: length NumCols +
	// NumRows (the structural+slack column space Basis already indexes
	// into), satisfying A*PrimalRay=0 with the objective improving along
	// it: Objective·PrimalRay<0 when minimizing, >0 when maximizing (spec
	// §8 property 4). DualRay/RayRowCombination are populated only on
	// DualUnbounded: both hold the same length-NumRows row-combination
	// vector y certifying infeasibility (spec §8 property 5); all three
	// are nil otherwise.
	PrimalRay         []Fractional
	DualRay           []Fractional
	RayRowCombination []Fractional

	// Basis and BasisColumnStatus report the final basis. Solve takes no
	// basis argument, so they cannot be passed back in; a warm start
	// reuses the basis kept inside the same RevisedSimplex.
	Basis             []ColIndex // row -> column, length NumRows
	BasisColumnStatus []VariableStatus

	Iterations int
}
