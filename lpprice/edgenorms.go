package lpprice

import "math"

// PricingRule names the reference-weight scheme for both edge-norm
// maintainers (spec §4.5's "capability trait" over pricing rules,
// modeled per §9 as a tagged variant rather than a class hierarchy).
// The maintainers store the rule but do not read it: both values run
// the Devex recurrence, and exact steepest-edge norms are not computed.
type PricingRule int8

const (
	// Devex uses the cheap reference-weight approximation (default).
	Devex PricingRule = iota
	// SteepestEdge is accepted and stored; weights are still updated by
	// the Devex recurrence.
	SteepestEdge
)

// devexResetWeight is the weight every reference frame column starts
// at, the standard Devex initialization.
const devexResetWeight = 1.0

// PrimalEdgeNorms maintains, for every non-basic column, a Devex
// estimate of ||B^-1 A_j||^2, used to weight the
// primal entering selection.
type PrimalEdgeNorms struct {
	rule   PricingRule
	weight []float64 // indexed by ColIndex
}

// NewPrimalEdgeNorms returns a maintainer over n columns, all weights
// reset to 1.
func NewPrimalEdgeNorms(n int, rule PricingRule) *PrimalEdgeNorms {
	w := make([]float64, n)
	for i := range w {
		w[i] = devexResetWeight
	}
	return &PrimalEdgeNorms{rule: rule, weight: w}
}

// Weight returns the current weight for column j.
func (p *PrimalEdgeNorms) Weight(j ColIndex) float64 { return p.weight[j] }

// UpdateBeforeBasisPivot applies the Devex recurrence for
// a pivot on entering column with direction d (indexed by row) and
// updateRow = e_leavingRow^T B^-1 A, run BEFORE the reduced costs are
// updated, per spec §5's required ordering. O(pivot support size): only
// nonbasic columns with a nonzero update-row entry are touched.
func (p *PrimalEdgeNorms) UpdateBeforeBasisPivot(entering ColIndex, pivot float64, updateRow []float64, nonBasicCols []ColIndex) {
	enteringWeight := p.weight[entering]
	gamma := math.Max(enteringWeight/(pivot*pivot), devexResetWeight)
	for _, j := range nonBasicCols {
		if j == entering {
			continue
		}
		alpha := updateRow[j]
		if alpha == 0 {
			continue
		}
		candidate := alpha * alpha * gamma
		if candidate > p.weight[j] {
			p.weight[j] = candidate
		}
	}
	p.weight[entering] = gamma
}

// ResetAll recomputes every weight to the Devex baseline, used when
// TestEnteringEdgeNormPrecision detects drift.
func (p *PrimalEdgeNorms) ResetAll() {
	for i := range p.weight {
		p.weight[i] = devexResetWeight
	}
}

// TestEnteringEdgeNormPrecision compares the maintained weight for the
// chosen entering column against a freshly recomputed exact norm
// (||direction||^2) and reports whether the relative drift exceeds tol,
// i.e. whether the weights should be reset from scratch.
func (p *PrimalEdgeNorms) TestEnteringEdgeNormPrecision(entering ColIndex, direction []float64, tol float64) bool {
	var exact float64
	for _, d := range direction {
		exact += d * d
	}
	maintained := p.weight[entering]
	if exact == 0 {
		return false
	}
	return math.Abs(maintained-exact)/exact > tol
}

// DualEdgeNorms maintains, for every row, a Devex estimate of
// ||B^-T e_i||^2, used to weight the
// dual leaving-row selection.
type DualEdgeNorms struct {
	rule   PricingRule
	weight []float64 // indexed by RowIndex
}

// NewDualEdgeNorms returns a maintainer over m rows, all weights reset
// to 1.
func NewDualEdgeNorms(m int, rule PricingRule) *DualEdgeNorms {
	w := make([]float64, m)
	for i := range w {
		w[i] = devexResetWeight
	}
	return &DualEdgeNorms{rule: rule, weight: w}
}

// Weight returns the current weight for row i.
func (d *DualEdgeNorms) Weight(i RowIndex) float64 { return d.weight[i] }

// UpdateBeforeBasisPivot applies the dual Devex recurrence, run before
// the variable values update per spec §5's ordering (dual values
// depend on the pre-pivot norms the same way primal reduced costs do).
func (d *DualEdgeNorms) UpdateBeforeBasisPivot(leavingRow RowIndex, pivotColumnInBasis []float64, pivot float64) {
	gamma := math.Max(d.weight[leavingRow]/(pivot*pivot), devexResetWeight)
	for i, alpha := range pivotColumnInBasis {
		if RowIndex(i) == leavingRow || alpha == 0 {
			continue
		}
		candidate := alpha * alpha * gamma
		if candidate > d.weight[i] {
			d.weight[i] = candidate
		}
	}
	d.weight[leavingRow] = gamma
}

// ResetAll recomputes every weight to the Devex baseline.
func (d *DualEdgeNorms) ResetAll() {
	for i := range d.weight {
		d.weight[i] = devexResetWeight
	}
}
