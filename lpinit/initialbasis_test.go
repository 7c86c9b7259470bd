package lpinit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type columnData struct {
	rows  []int
	value []float64
	cost  float64
	lower float64
	upper float64
}

type fakeReader struct {
	rows int
	cols []columnData
}

func (r fakeReader) NumCols() int { return len(r.cols) }
func (r fakeReader) NumRows() int { return r.rows }
func (r fakeReader) Column(col int) ([]int, []float64) {
	return r.cols[col].rows, r.cols[col].value
}
func (r fakeReader) Cost(col int) float64 { return r.cols[col].cost }
func (r fakeReader) Bounds(col int) (float64, float64) {
	return r.cols[col].lower, r.cols[col].upper
}

func TestAllSlackBasis(t *testing.T) {
	basis := AllSlackBasis(3, func(row int) ColIndex { return ColIndex(10 + row) })
	assert.Equal(t, []ColIndex{10, 11, 12}, basis)
}

func TestExploitSingletonColumnsSortsByVariation(t *testing.T) {
	a := fakeReader{rows: 2, cols: []columnData{
		{rows: []int{0}, value: []float64{2}, cost: 4, lower: 0, upper: 10},  // variation = 2
		{rows: []int{1}, value: []float64{1}, cost: -3, lower: 0, upper: 10}, // variation = -3
		{rows: []int{0, 1}, value: []float64{1, 1}, cost: 1, lower: 0, upper: 5}, // not a singleton
		{rows: []int{1}, value: []float64{1}, cost: 0, lower: 5, upper: 5},  // fixed, excluded
	}}
	got := ExploitSingletonColumns(a)
	require.Len(t, got, 2)
	assert.Equal(t, ColIndex(1), got[0].Col) // variation -3, smallest, sorts first
	assert.Equal(t, ColIndex(0), got[1].Col)
}

func TestAssignSingletonsAbsorbsResidual(t *testing.T) {
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{2}, cost: 1, lower: 0, upper: 10},
	}}
	candidates := []SingletonCandidate{{Col: 0, Row: 0, Coefficient: 2, CostVariation: 0.5}}
	basis := []ColIndex{-1}
	residual := []float64{4} // needed = 0 + 4/2 = 2, within [0,10]

	AssignSingletons(basis, candidates, a, residual)
	assert.Equal(t, ColIndex(0), basis[0])
	assert.Equal(t, 0.0, residual[0])
}

func TestAssignSingletonsFlipsBoxedWhenOutOfRange(t *testing.T) {
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 1, lower: 0, upper: 2},
	}}
	candidates := []SingletonCandidate{{Col: 0, Row: 0, Coefficient: 1, CostVariation: 1}}
	basis := []ColIndex{-1}
	residual := []float64{10} // needed = 0+10/1=10, exceeds upper 2: flips instead

	AssignSingletons(basis, candidates, a, residual)
	assert.Equal(t, ColIndex(-1), basis[0]) // not assigned, row still needs a slack
	assert.Equal(t, 10.0-1*(2-0), residual[0])
}

func TestAssignSingletonsSkipsTakenRow(t *testing.T) {
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 1, lower: 0, upper: 10},
		{rows: []int{0}, value: []float64{1}, cost: 2, lower: 0, upper: 10},
	}}
	candidates := []SingletonCandidate{
		{Col: 0, Row: 0, Coefficient: 1, CostVariation: 1},
		{Col: 1, Row: 0, Coefficient: 1, CostVariation: 2},
	}
	basis := []ColIndex{-1}
	residual := []float64{5}

	AssignSingletons(basis, candidates, a, residual)
	assert.Equal(t, ColIndex(0), basis[0]) // first candidate wins the row
}

func TestCompleteTriangularPrimalBasisSimple(t *testing.T) {
	// 2x2 identity-like structure: col0 has a single entry in row0, col1
	// has a single entry in row1.
	a := fakeReader{rows: 2, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 0, lower: 0, upper: 10},
		{rows: []int{1}, value: []float64{1}, cost: 0, lower: 0, upper: 10},
	}}
	basis := []ColIndex{InvalidCol, InvalidCol}
	ok := CompleteTriangularPrimalBasis(basis, a)
	assert.True(t, ok)
	assert.Equal(t, ColIndex(0), basis[0])
	assert.Equal(t, ColIndex(1), basis[1])
}

func TestCompleteTriangularPrimalBasisLeavesUnassignableRow(t *testing.T) {
	a := fakeReader{rows: 2, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 0, lower: 0, upper: 10},
		// no column touches row 1 at all.
	}}
	basis := []ColIndex{InvalidCol, InvalidCol}
	ok := CompleteTriangularPrimalBasis(basis, a)
	assert.False(t, ok)
	assert.Equal(t, ColIndex(0), basis[0])
	assert.Equal(t, InvalidCol, basis[1])
}

func TestCompleteTriangularDualBasisRestrictsToZeroCost(t *testing.T) {
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 5, lower: 0, upper: 10}, // nonzero cost, excluded
		{rows: []int{0}, value: []float64{1}, cost: 0, lower: 0, upper: 10}, // zero cost, eligible
	}}
	basis := []ColIndex{InvalidCol}
	ok := CompleteTriangularDualBasis(basis, a)
	assert.True(t, ok)
	assert.Equal(t, ColIndex(1), basis[0])
}

func TestCompleteTriangularDualBasisFailsWithNoZeroCostCandidate(t *testing.T) {
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 5, lower: 0, upper: 10},
	}}
	basis := []ColIndex{InvalidCol}
	ok := CompleteTriangularDualBasis(basis, a)
	assert.False(t, ok)
}

func TestCompleteBixbyBasisPrefersFreeColumnsFirst(t *testing.T) {
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{1}, cost: 5, lower: 0, upper: 10},                          // boxed
		{rows: []int{0}, value: []float64{2}, cost: 1, lower: math.Inf(-1), upper: math.Inf(1)}, // free
	}}
	basis := []ColIndex{InvalidCol}
	ok := CompleteBixbyBasis(basis, a)
	assert.True(t, ok)
	assert.Equal(t, ColIndex(1), basis[0]) // free column sorts first (category 0)
}

func TestBixbyAndMarosDisagreeOnTieBreak(t *testing.T) {
	// Both columns are boxed (same category), so the two heuristics fall
	// back to their distinct secondary keys: Bixby's cost-penalty ranks
	// col 0 first, Maros's column-norm ranks col 1 first.
	a := fakeReader{rows: 1, cols: []columnData{
		{rows: []int{0}, value: []float64{10}, cost: 1, lower: 0, upper: 10}, // low penalty, high norm
		{rows: []int{0}, value: []float64{1}, cost: 5, lower: 0, upper: 10},  // high penalty, low norm
	}}

	bixbyBasis := []ColIndex{InvalidCol}
	require.True(t, CompleteBixbyBasis(bixbyBasis, a))
	assert.Equal(t, ColIndex(0), bixbyBasis[0])

	marosBasis := []ColIndex{InvalidCol}
	require.True(t, CompleteMarosBasis(marosBasis, a))
	assert.Equal(t, ColIndex(1), marosBasis[0])
}
