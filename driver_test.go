package simplex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// productMixLP is the textbook "maximize 3x1+5x2" problem: x1<=4, 2x2<=12,
// 3x1+2x2<=18, x1,x2>=0, with unique optimum x1=2, x2=6, objective 36.
func productMixLP() *LinearProgram {
	return &LinearProgram{
		NumRows: 3,
		NumCols: 2,
		Columns: []ColumnEntries{
			{Rows: []int{0, 2}, Values: []Fractional{1, 3}},
			{Rows: []int{1, 2}, Values: []Fractional{2, 2}},
		},
		Objective:              []Fractional{3, 5},
		ObjectiveScalingFactor: -1, // maximize
		ColumnLowerBound:       []Fractional{0, 0},
		ColumnUpperBound:       []Fractional{Infinity, Infinity},
		RowLowerBound:          []Fractional{-Infinity, -Infinity, -Infinity},
		RowUpperBound:          []Fractional{4, 12, 18},
	}
}

func TestSolveProductMixPrimal(t *testing.T) {
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(productMixLP())
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	assert.InDelta(t, 36.0, sol.ObjectiveValue, 1e-6)
	require.Len(t, sol.ColumnValue, 2)
	assert.InDelta(t, 2.0, sol.ColumnValue[0], 1e-6)
	assert.InDelta(t, 6.0, sol.ColumnValue[1], 1e-6)
}

func TestSolveProductMixDualSimplex(t *testing.T) {
	params := DefaultParameters()
	params.UseDualSimplex = true
	params.UseDedicatedDualFeasibilityAlgorithm = true
	rs := NewRevisedSimplex(params)
	sol, err := rs.Solve(productMixLP())
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	assert.InDelta(t, 36.0, sol.ObjectiveValue, 1e-6)
}

func TestSolveCheapestIngredientMinimize(t *testing.T) {
	// minimize 2x+3y s.t. x+y>=4, x,y>=0: cheapest is all-x, obj=8.
	lp := &LinearProgram{
		NumRows: 1,
		NumCols: 2,
		Columns: []ColumnEntries{
			{Rows: []int{0}, Values: []Fractional{1}},
			{Rows: []int{0}, Values: []Fractional{1}},
		},
		Objective:              []Fractional{2, 3},
		ObjectiveScalingFactor: 1, // minimize
		ColumnLowerBound:       []Fractional{0, 0},
		ColumnUpperBound:       []Fractional{Infinity, Infinity},
		RowLowerBound:          []Fractional{4},
		RowUpperBound:          []Fractional{Infinity},
	}
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(lp)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	assert.InDelta(t, 8.0, sol.ObjectiveValue, 1e-6)
}

func TestSolvePrimalInfeasible(t *testing.T) {
	// x>=5 (row0) and x<=2 (row1), same column x in both rows: unsatisfiable.
	lp := &LinearProgram{
		NumRows: 2,
		NumCols: 1,
		Columns: []ColumnEntries{
			{Rows: []int{0, 1}, Values: []Fractional{1, 1}},
		},
		Objective:              []Fractional{1},
		ObjectiveScalingFactor: 1,
		ColumnLowerBound:       []Fractional{0},
		ColumnUpperBound:       []Fractional{Infinity},
		RowLowerBound:          []Fractional{5, -Infinity},
		RowUpperBound:          []Fractional{Infinity, 2},
	}
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(lp)
	require.NoError(t, err)
	assert.Equal(t, PrimalInfeasible, sol.Status)
}

func TestSolvePrimalUnbounded(t *testing.T) {
	// maximize x, no constraint actually touches x: unbounded above.
	lp := &LinearProgram{
		NumRows: 1,
		NumCols: 1,
		Columns: []ColumnEntries{
			{Rows: []int{}, Values: []Fractional{}},
		},
		Objective:              []Fractional{1},
		ObjectiveScalingFactor: -1, // maximize
		ColumnLowerBound:       []Fractional{0},
		ColumnUpperBound:       []Fractional{Infinity},
		RowLowerBound:          []Fractional{-Infinity},
		RowUpperBound:          []Fractional{Infinity},
	}
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(lp)
	require.NoError(t, err)
	assert.Equal(t, PrimalUnbounded, sol.Status)
}

func TestSolveWarmStartReusesBasisAcrossMutation(t *testing.T) {
	rs := NewRevisedSimplex(DefaultParameters())
	lp := productMixLP()

	sol1, err := rs.Solve(lp)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol1.Status)

	// Tighten row 2's upper bound in place (same *LinearProgram pointer,
	// the warm-start pattern the engine's shapeSignature recognizes).
	lp.RowUpperBound[2] = 12
	sol2, err := rs.Solve(lp)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol2.Status)
	assert.Less(t, sol2.ObjectiveValue, sol1.ObjectiveValue)
}

func TestSolveObjectiveOffsetIsAdded(t *testing.T) {
	lp := productMixLP()
	lp.ObjectiveOffset = 100
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(lp)
	require.NoError(t, err)
	assert.InDelta(t, 136.0, sol.ObjectiveValue, 1e-6)
}

func TestSolveReturnsRowDualValues(t *testing.T) {
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(productMixLP())
	require.NoError(t, err)
	require.Len(t, sol.RowDualValue, 3)
	require.Len(t, sol.RowStatus, 3)
	// Row 0 (x1<=4) is slack at x1=2 < 4, so it is not binding: zero dual.
	assert.InDelta(t, 0.0, sol.RowDualValue[0], 1e-6)
}

func TestSolveFixedVariableColumn(t *testing.T) {
	// A column pinned to a single value (lower==upper) should report FIXED_VALUE.
	lp := &LinearProgram{
		NumRows: 1,
		NumCols: 1,
		Columns: []ColumnEntries{
			{Rows: []int{0}, Values: []Fractional{1}},
		},
		Objective:              []Fractional{1},
		ObjectiveScalingFactor: 1,
		ColumnLowerBound:       []Fractional{3},
		ColumnUpperBound:       []Fractional{3},
		RowLowerBound:          []Fractional{-Infinity},
		RowUpperBound:          []Fractional{Infinity},
	}
	rs := NewRevisedSimplex(DefaultParameters())
	sol, err := rs.Solve(lp)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	assert.InDelta(t, 3.0, sol.ColumnValue[0], 1e-6)
	assert.InDelta(t, 3.0, sol.ObjectiveValue, 1e-6)
	assert.Equal(t, FixedValue, sol.ColumnStatus[0])
}
