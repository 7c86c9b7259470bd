package lpprice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPrimalEdgeNormsStartsAtOne(t *testing.T) {
	p := NewPrimalEdgeNorms(3, Devex)
	for j := ColIndex(0); j < 3; j++ {
		assert.Equal(t, 1.0, p.Weight(j))
	}
}

func TestPrimalEdgeNormsUpdateBeforeBasisPivot(t *testing.T) {
	p := NewPrimalEdgeNorms(3, Devex)
	updateRow := []float64{0, 2, 3} // entering=0 ignored, cols 1,2 have entries
	p.UpdateBeforeBasisPivot(0, 2.0, updateRow, []ColIndex{0, 1, 2})

	// enteringWeight/(pivot^2) = 1/4, below the reset floor, so gamma=1.
	assert.Equal(t, 1.0, p.Weight(0))
	assert.Equal(t, 4.0, p.Weight(1)) // alpha=2, candidate=4*1=4 > existing 1
	assert.Equal(t, 9.0, p.Weight(2)) // alpha=3, candidate=9*1=9 > existing 1
}

func TestPrimalEdgeNormsResetAll(t *testing.T) {
	p := NewPrimalEdgeNorms(2, Devex)
	p.UpdateBeforeBasisPivot(0, 2.0, []float64{0, 5}, []ColIndex{0, 1})
	p.ResetAll()
	assert.Equal(t, 1.0, p.Weight(0))
	assert.Equal(t, 1.0, p.Weight(1))
}

func TestPrimalEdgeNormsTestEnteringEdgeNormPrecision(t *testing.T) {
	p := NewPrimalEdgeNorms(2, Devex)
	direction := []float64{3, 4} // exact norm^2 = 25
	// maintained weight is 1, drift = |1-25|/25 = 0.96
	assert.True(t, p.TestEnteringEdgeNormPrecision(0, direction, 0.5))
	assert.False(t, p.TestEnteringEdgeNormPrecision(0, direction, 0.99))
}

func TestPrimalEdgeNormsTestEnteringEdgeNormPrecisionZeroDirection(t *testing.T) {
	p := NewPrimalEdgeNorms(1, Devex)
	assert.False(t, p.TestEnteringEdgeNormPrecision(0, []float64{0, 0}, 0.01))
}

func TestNewDualEdgeNormsStartsAtOne(t *testing.T) {
	d := NewDualEdgeNorms(2, Devex)
	assert.Equal(t, 1.0, d.Weight(0))
	assert.Equal(t, 1.0, d.Weight(1))
}

func TestDualEdgeNormsUpdateBeforeBasisPivot(t *testing.T) {
	d := NewDualEdgeNorms(3, Devex)
	pivotCol := []float64{2, 0, 3} // leavingRow=0
	d.UpdateBeforeBasisPivot(0, pivotCol, 2.0)

	assert.Equal(t, 1.0, d.Weight(0)) // gamma floor
	assert.Equal(t, 1.0, d.Weight(1)) // alpha==0, untouched
	assert.Equal(t, 9.0, d.Weight(2)) // alpha=3, candidate=9
}

func TestDualEdgeNormsResetAll(t *testing.T) {
	d := NewDualEdgeNorms(2, Devex)
	d.UpdateBeforeBasisPivot(0, []float64{5, 5}, 2.0)
	d.ResetAll()
	assert.Equal(t, 1.0, d.Weight(0))
	assert.Equal(t, 1.0, d.Weight(1))
}
