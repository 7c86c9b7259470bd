package lpvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValuesZeroed(t *testing.T) {
	v := NewValues(3)
	assert.Equal(t, []float64{0, 0, 0}, v.Dense())
}

func TestValuesSetAt(t *testing.T) {
	v := NewValues(2)
	v.Set(0, 4.5)
	assert.Equal(t, 4.5, v.At(0))
	assert.Equal(t, 0.0, v.At(1))
}

func TestValuesUpdateOnPivot(t *testing.T) {
	v := NewValues(3)
	v.Set(0, 1) // basic col 0 in row 0
	v.Set(1, 2) // basic col 1 in row 1
	basis := []ColIndex{0, 1}
	direction := []float64{3, 4}
	v.UpdateOnPivot(basis, direction, 2, 0.5)

	assert.Equal(t, 1-0.5*3, v.At(0))
	assert.Equal(t, 2-0.5*4, v.At(1))
	assert.Equal(t, 0.5, v.At(2))
}

// identitySolver returns rhs unchanged, standing in for B^-1 when B is
// the identity basis.
type identitySolver struct{}

func (identitySolver) Solve(rhs []float64) []float64 {
	return append([]float64(nil), rhs...)
}

type fakeMatrix struct {
	rows, cols int
	data       [][]float64 // data[col][row]
}

func (m fakeMatrix) NumRows() int { return m.rows }
func (m fakeMatrix) NumCols() int { return m.cols }
func (m fakeMatrix) AddMultipleToDense(col int, alpha float64, out []float64) {
	if alpha == 0 {
		return
	}
	for row, val := range m.data[col] {
		out[row] += alpha * val
	}
}

func TestValuesRecomputeBasicValues(t *testing.T) {
	// A 2x3 problem: column 2 is non-basic at value 1, basis = {0, 1}
	// (identity columns), b = {5, 7}. rhs = b - A_2 * x_2 = {5-2, 7-0} = {3,7}
	// solver (identity) returns rhs unchanged, so x_0=3 (row0), x_1=7 (row1).
	v := NewValues(3)
	v.Set(2, 1) // non-basic value

	mat := fakeMatrix{rows: 2, cols: 3, data: [][]float64{
		{1, 0},
		{0, 1},
		{2, 0},
	}}
	solver := identitySolver{}
	basis := []ColIndex{0, 1}
	v.RecomputeBasicValues(basis, solver, mat, []float64{5, 7})

	assert.Equal(t, 3.0, v.At(0))
	assert.Equal(t, 7.0, v.At(1))
	assert.Equal(t, 1.0, v.At(2)) // unchanged non-basic value
}

func TestValuesResetNonBasicToStatus(t *testing.T) {
	v := NewValues(4)
	resets := []NonBasicReset{
		{Col: 0, Status: StatusAtLower, Lower: -2, Upper: 10},
		{Col: 1, Status: StatusAtUpper, Lower: -2, Upper: 10},
		{Col: 2, Status: StatusFixedValue, Lower: 5, Upper: 5},
		{Col: 3, Status: StatusFree, Starting: 1.5},
	}
	v.ResetNonBasicToStatus(resets)

	assert.Equal(t, -2.0, v.At(0))
	assert.Equal(t, 10.0, v.At(1))
	assert.Equal(t, 5.0, v.At(2))
	assert.Equal(t, 1.5, v.At(3))
}

func TestComputeMaxPrimalInfeasibility(t *testing.T) {
	x := []float64{1, -5, 20}
	lower := []float64{0, 0, 0}
	upper := []float64{10, 10, 10}
	got := ComputeMaxPrimalInfeasibility(x, lower, upper)
	assert.Equal(t, 10.0, got) // from x[2]-upper[2] = 20-10
}

func TestComputeMaxPrimalInfeasibilityFeasible(t *testing.T) {
	x := []float64{1, 2, 3}
	lower := []float64{0, 0, 0}
	upper := []float64{10, 10, 10}
	assert.Equal(t, 0.0, ComputeMaxPrimalInfeasibility(x, lower, upper))
}

func TestComputeMaxPrimalResidual(t *testing.T) {
	ax := []float64{1, 2, 3}
	b := []float64{1, 2, 10}
	got := ComputeMaxPrimalResidual(ax, b)
	require.Equal(t, 7.0, got)
}
