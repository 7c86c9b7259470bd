// Package lpinit builds a starting basis for a fresh solve: the
// all-slack default, the singleton-column exploitation pre-step, and
// the Bixby/Maros/Triangular heuristics of spec §4.9, grounded on
// ortools/glop/initial_basis.h's CompleteBixbyBasis and
// CompleteTriangularPrimalBasis/CompleteTriangularDualBasis.
package lpinit

import (
	"math"
	"sort"
)

// ColIndex and RowIndex mirror the root package's index domains.
type ColIndex = int32
type RowIndex = int32

// InvalidCol marks a basis row not yet assigned a column.
const InvalidCol ColIndex = -1

// ColumnReader exposes the per-column data the heuristics need: a
// column's nonzero (row, value) pairs, its cost, and its bounds.
type ColumnReader interface {
	NumCols() int
	NumRows() int
	Column(col int) (rows []int, values []float64)
	Cost(col int) float64
	Bounds(col int) (lower, upper float64)
}

// AllSlackBasis returns the trivial basis: row i -> slack column for
// row i, where slackCol(i) gives that column's index.
func AllSlackBasis(numRows int, slackCol func(row int) ColIndex) []ColIndex {
	basis := make([]ColIndex, numRows)
	for i := 0; i < numRows; i++ {
		basis[i] = slackCol(i)
	}
	return basis
}

// SingletonCandidate describes one column with exactly one nonzero
// entry, found by ExploitSingletonColumns.
type SingletonCandidate struct {
	Col          ColIndex
	Row          int
	Coefficient  float64
	CostVariation float64 // cost change per unit of absorbed infeasibility
}

// ExploitSingletonColumns finds every column with a single matrix entry
// whose bounds differ, computes each one's cost-variation per unit of
// absorbed infeasibility, and returns them sorted ascending by that
// quantity (spec §4.9). The caller is responsible for the greedy
// row-assignment walk, since it must interleave with boxed-variable
// bound flips and fixed-slack fallback.
func ExploitSingletonColumns(a ColumnReader) []SingletonCandidate {
	var out []SingletonCandidate
	for j := 0; j < a.NumCols(); j++ {
		rows, values := a.Column(j)
		if len(rows) != 1 {
			continue
		}
		lower, upper := a.Bounds(j)
		if lower == upper {
			continue
		}
		coeff := values[0]
		cost := a.Cost(j)
		// The cost variation per unit of residual absorbed is cost/coeff
		// when starting from the lower bound (the variable increases to
		// absorb positive residual), and -cost/coeff when starting from
		// the upper bound.
		variation := cost / coeff
		if !isFinite(lower) && isFinite(upper) {
			variation = -variation
		}
		out = append(out, SingletonCandidate{
			Col:           ColIndex(j),
			Row:           rows[0],
			Coefficient:   coeff,
			CostVariation: variation,
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CostVariation < out[k].CostVariation })
	return out
}

// AssignSingletons walks candidates in their given (already sorted)
// order and greedily assigns each one's row if not yet taken: if the
// singleton can absorb the entire residual[row] inside its bounds, it
// enters the basis there; otherwise, if boxed (both bounds finite), it
// is flipped to the opposite bound and the row is left for a fixed
// slack. residual is mutated to reflect each absorption.
func AssignSingletons(basis []ColIndex, candidates []SingletonCandidate, a ColumnReader, residual []float64) {
	taken := make([]bool, len(basis))
	for _, c := range candidates {
		if taken[c.Row] {
			continue
		}
		lower, upper := a.Bounds(int(c.Col))
		// Value the singleton would need to take to zero out the row's
		// residual entirely, given the current non-basic placement at
		// lower.
		needed := lower + residual[c.Row]/c.Coefficient
		if needed >= lower && needed <= upper {
			basis[c.Row] = c.Col
			taken[c.Row] = true
			residual[c.Row] = 0
			continue
		}
		if isFinite(lower) && isFinite(upper) {
			// Flip to the other bound and continue; the row still needs a
			// slack, but part of the residual it would have produced at
			// lower is now absorbed by sitting at upper instead.
			residual[c.Row] -= c.Coefficient * (upper - lower)
		}
	}
}

func isFinite(f float64) bool {
	return f == f && f < 1e300 && f > -1e300
}

// columnCategory mirrors InitialBasis::GetColumnCategory from
// ortools/glop/initial_basis.h: columns with more freedom (closer to
// unconstrained) sort first, fixed columns always last.
func columnCategory(lower, upper float64) int {
	switch {
	case lower == upper:
		return 3 // fixed: last resort
	case !isFinite(lower) && !isFinite(upper):
		return 0 // free: most freedom
	case !isFinite(lower) || !isFinite(upper):
		return 1 // one-sided
	default:
		return 2 // boxed
	}
}

// columnPenalty mirrors GetColumnPenalty: lower is better, scaled by
// the column's cost relative to the largest cost among candidates
// (maxScaledAbsCost), matching Bixby's q_j.
func columnPenalty(cost, maxScaledAbsCost float64) float64 {
	if maxScaledAbsCost == 0 {
		return 0
	}
	return math.Abs(cost / maxScaledAbsCost)
}

// priorityMode selects the secondary sort key completeTriangular uses
// to break ties within a column's (category) bucket, the one point
// where the three §4.9 heuristics actually diverge: they all accept
// the same strictly-triangular columns, in a different order.
type priorityMode int

const (
	// priorityPenalty is Bixby's q_j: prefer columns whose cost is small
	// relative to the largest cost among candidates.
	priorityPenalty priorityMode = iota
	// priorityNorm is Maros's ordering: prefer columns with small
	// Euclidean norm, which tend to be the best-scaled and least prone
	// to amplifying rounding error during the triangular solve.
	priorityNorm
	// priorityNNZ is the GLPK-style strictly triangular order: prefer
	// the sparsest columns, maximizing the chance later columns still
	// find a free row to land in.
	priorityNNZ
)

// CompleteBixbyBasis fills every still-unassigned row of basis with a
// column chosen by Bixby's almost-triangular algorithm: columns are
// considered in ascending (category, cost-penalty) order and accepted
// into an empty row as long as doing so keeps the basis triangular
// enough for good numerical stability.
func CompleteBixbyBasis(basis []ColIndex, a ColumnReader) bool {
	return completeTriangular(basis, a, false, priorityPenalty)
}

// CompleteMarosBasis fills unassigned rows in ascending (category,
// column-norm) order, per Maros's candidate ordering: well-scaled
// columns (small norm) are preferred over large, poorly scaled ones.
func CompleteMarosBasis(basis []ColIndex, a ColumnReader) bool {
	return completeTriangular(basis, a, false, priorityNorm)
}

// CompleteTriangularPrimalBasis fills unassigned rows with A-columns
// while keeping B strictly triangular, preferring the sparsest
// candidate columns first (GLPK's strictly-triangular order).
func CompleteTriangularPrimalBasis(basis []ColIndex, a ColumnReader) bool {
	return completeTriangular(basis, a, false, priorityNNZ)
}

// CompleteTriangularDualBasis is identical but restricts candidates to
// zero-cost columns, so the starting dual value vector is all zero.
func CompleteTriangularDualBasis(basis []ColIndex, a ColumnReader) bool {
	return completeTriangular(basis, a, true, priorityNNZ)
}

func completeTriangular(basis []ColIndex, a ColumnReader, onlyZeroCost bool, mode priorityMode) bool {
	assigned := make([]bool, len(basis))
	for i, col := range basis {
		if col != InvalidCol {
			assigned[i] = true
		}
	}

	var maxScaledAbsCost float64
	type candidate struct {
		col     int
		rows    []int
		penalty float64
		norm    float64
		nnz     int
		cat     int
	}
	var candidates []candidate
	for j := 0; j < a.NumCols(); j++ {
		if onlyZeroCost && a.Cost(j) != 0 {
			continue
		}
		if cost := math.Abs(a.Cost(j)); cost > maxScaledAbsCost {
			maxScaledAbsCost = cost
		}
	}
	for j := 0; j < a.NumCols(); j++ {
		if onlyZeroCost && a.Cost(j) != 0 {
			continue
		}
		lower, upper := a.Bounds(j)
		rows, values := a.Column(j)
		var sq float64
		for _, v := range values {
			sq += v * v
		}
		candidates = append(candidates, candidate{
			col:     j,
			rows:    rows,
			penalty: columnPenalty(a.Cost(j), maxScaledAbsCost),
			norm:    math.Sqrt(sq),
			nnz:     len(rows),
			cat:     columnCategory(lower, upper),
		})
	}
	sort.Slice(candidates, func(i, k int) bool {
		if candidates[i].cat != candidates[k].cat {
			return candidates[i].cat < candidates[k].cat
		}
		switch mode {
		case priorityNorm:
			return candidates[i].norm < candidates[k].norm
		case priorityNNZ:
			return candidates[i].nnz < candidates[k].nnz
		default:
			return candidates[i].penalty < candidates[k].penalty
		}
	})

	remainingRows := make(map[int]bool)
	for i, a := range assigned {
		if !a {
			remainingRows[i] = true
		}
	}

	for _, c := range candidates {
		if len(remainingRows) == 0 {
			break
		}
		// Triangular acceptance: the column must have at least one
		// nonzero in a still-unassigned row, and (to keep B triangular)
		// every other nonzero must already be in an assigned row.
		var freeRow = -1
		ok := true
		for _, r := range c.rows {
			if remainingRows[r] {
				if freeRow != -1 {
					ok = false
					break
				}
				freeRow = r
			}
		}
		if !ok || freeRow == -1 {
			continue
		}
		basis[freeRow] = ColIndex(c.col)
		delete(remainingRows, freeRow)
	}
	return len(remainingRows) == 0
}
