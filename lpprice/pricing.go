package lpprice

import (
	"math"

	"golang.org/x/exp/rand"
)

// NonBasicInfo is the per-column data the primal/dual pricers need to
// decide whether and which way a non-basic column may move. It mirrors
// the bitmaps of spec §3 (can_increase/can_decrease) without depending
// on the root package's VariableStatus, to keep lpprice import-cycle
// free.
type NonBasicInfo struct {
	Col         ColIndex
	CanIncrease bool
	CanDecrease bool
	IsBoxed     bool // non-basic with both bounds finite and distinct
}

// PrimalPricer selects the best entering column by weighted reduced
// cost, with a deterministic random tie-break (spec §4.6).
type PrimalPricer struct {
	rnd *rand.Rand
}

// NewPrimalPricer returns a pricer whose tie-breaks are seeded
// deterministically from seed.
func NewPrimalPricer(seed uint64) *PrimalPricer {
	return &PrimalPricer{rnd: rand.New(rand.NewSource(seed))}
}

// BestEnteringColumn returns the non-basic column with the most
// favorable reduced cost weighted by 1/sqrt(edge norm weight), or
// (InvalidCol, false) if every candidate is already dual-feasible.
func (p *PrimalPricer) BestEnteringColumn(candidates []NonBasicInfo, cbar []float64, norms *PrimalEdgeNorms, tol float64) (ColIndex, bool) {
	best := math.Inf(1)
	var bestCol ColIndex = -1
	var ties []ColIndex
	for _, c := range candidates {
		dir := movementDirection(cbar[c.Col], c.CanIncrease, c.CanDecrease, tol)
		if dir == 0 {
			continue
		}
		// dir<0 means c̄ is negative and the column wants to increase
		// (standard minimization improvement); the score is always
		// non-positive and "more negative is better".
		score := -math.Abs(cbar[c.Col]) / math.Sqrt(norms.Weight(c.Col))
		switch {
		case score < best-tol:
			best = score
			bestCol = c.Col
			ties = ties[:0]
			ties = append(ties, c.Col)
		case score <= best+tol:
			ties = append(ties, c.Col)
		}
	}
	if bestCol == -1 {
		return -1, false
	}
	if len(ties) > 1 {
		return ties[p.rnd.Intn(len(ties))], true
	}
	return bestCol, true
}

// movementDirection returns -1 if column j (with reduced cost cbar)
// should increase to reduce the objective, +1 if it should decrease,
// or 0 if it is already dual-feasible (within tol) or cannot move.
func movementDirection(cbar float64, canIncrease, canDecrease bool, tol float64) float64 {
	if canIncrease && cbar < -tol {
		return -1
	}
	if canDecrease && cbar > tol {
		return 1
	}
	return 0
}

// RatioTestResult is the outcome of the Harris two-pass primal ratio
// test: either a bound flip (no leaving row), a pivot on a chosen
// leaving row, or an indication that refactorization is required before
// retrying.
type RatioTestResult struct {
	BoundFlip         bool
	LeavingRow        int
	Step              float64
	Pivot             float64
	NeedsRefactorize  bool
}

// RatioTestCandidate is one basic variable's data for the ratio test:
// its row, current value, bound range, and the direction coefficient d_i.
type RatioTestCandidate struct {
	Row         int
	Value       float64
	Lower       float64
	Upper       float64
	Direction   float64 // d_i, the leaving row's coefficient in the direction vector
}

// HarrisRatioTest implements spec §4.6's two-pass rule.
//
// boundFlipRatio is the max feasible step from flipping the entering
// column alone (+Inf if the entering column is not boxed).
func HarrisRatioTest(
	candidates []RatioTestCandidate,
	boundFlipRatio float64,
	harrisTolerance float64,
	minimumDelta float64,
	zeroPivotThreshold float64,
	minimumAcceptablePivot float64,
	isRefactorized bool,
	smallPivotThreshold float64,
	dirInfNorm float64,
	rnd *rand.Rand,
) RatioTestResult {
	pivotFloor := zeroPivotThreshold
	if isRefactorized {
		pivotFloor = minimumAcceptablePivot
	}

	// First pass: compute the Harris ratio, tolerating a small bound
	// violation.
	harris := math.Inf(1)
	for _, c := range candidates {
		if math.Abs(c.Direction) < pivotFloor {
			continue
		}
		step := harrisStep(c, harrisTolerance)
		floor := minimumDelta / math.Abs(c.Direction)
		if step < floor {
			step = floor
		}
		if step < harris {
			harris = step
		}
	}

	if !math.IsInf(boundFlipRatio, 1) && boundFlipRatio <= harris {
		return RatioTestResult{BoundFlip: true, LeavingRow: -1, Step: boundFlipRatio}
	}

	// Second pass: among candidates whose *actual* (untoleranced) ratio
	// is <= harris, pick the largest pivot magnitude; ties broken by
	// "more stable" ratio, then uniformly at random.
	type picked struct {
		cand  RatioTestCandidate
		ratio float64
	}
	var chosen []picked
	for _, c := range candidates {
		if math.Abs(c.Direction) < pivotFloor {
			continue
		}
		ratio := actualRatio(c)
		if ratio <= harris {
			chosen = append(chosen, picked{c, ratio})
		}
	}
	if len(chosen) == 0 {
		return RatioTestResult{NeedsRefactorize: false, LeavingRow: -1, Step: harris}
	}

	bestPivot := 0.0
	var winners []picked
	for _, p := range chosen {
		mag := math.Abs(p.cand.Direction)
		switch {
		case mag > bestPivot*(1+1e-9):
			bestPivot = mag
			winners = winners[:0]
			winners = append(winners, p)
		case mag > bestPivot*(1-1e-9):
			winners = append(winners, p)
		}
	}
	winner := winners[0]
	if len(winners) > 1 {
		for _, w := range winners[1:] {
			if isRatioMoreStable(w.ratio, winner.ratio) {
				winner = w
			}
		}
		var finalTies []picked
		for _, w := range winners {
			if w.ratio == winner.ratio {
				finalTies = append(finalTies, w)
			}
		}
		if len(finalTies) > 1 {
			winner = finalTies[rnd.Intn(len(finalTies))]
		}
	}

	needsRefactorize := math.Abs(winner.cand.Direction) < smallPivotThreshold*dirInfNorm
	return RatioTestResult{
		LeavingRow:       winner.cand.Row,
		Step:             winner.ratio,
		Pivot:            winner.cand.Direction,
		NeedsRefactorize: needsRefactorize,
	}
}

// harrisStep is the tolerance-relaxed step: the distance to the
// opposite bound in the direction of travel, plus the Harris slack.
func harrisStep(c RatioTestCandidate, harrisTolerance float64) float64 {
	if c.Direction > 0 {
		return (c.Value - c.Lower + harrisTolerance) / c.Direction
	}
	return (c.Value - c.Upper - harrisTolerance) / c.Direction
}

// actualRatio is the untoleranced step to the exact bound.
func actualRatio(c RatioTestCandidate) float64 {
	if c.Direction > 0 {
		return (c.Value - c.Lower) / c.Direction
	}
	return (c.Value - c.Upper) / c.Direction
}

// isRatioMoreStable prefers the smallest positive ratio, then the
// largest (closest to zero) among negative ratios, matching the
// teacher's IsRatioMoreOrEquallyStable intent from the original source.
func isRatioMoreStable(candidate, current float64) bool {
	if candidate >= 0 && current >= 0 {
		return candidate < current
	}
	if candidate < 0 && current < 0 {
		return candidate > current
	}
	return candidate >= 0
}

// DualLeavingCandidate is one basic row's data for dual leaving
// selection: its value, bounds, and edge-norm weight.
type DualLeavingCandidate struct {
	Row              RowIndex
	Value            float64
	Lower            float64
	Upper            float64
	Weight           float64
	ZeroCost         bool // true during dual phase I for a zero-cost variable, which is ignored
}

// BestLeavingRow picks the row with the largest weighted dual
// infeasibility, per spec §4.6's dual leaving selection, and reports
// the bound the leaving variable should be driven toward (-1: lower,
// +1: upper).
func BestLeavingRow(candidates []DualLeavingCandidate, tol float64, dualPhaseI bool) (RowIndex, float64, bool) {
	best := -1.0
	var bestRow RowIndex = -1
	var targetDir float64
	for _, c := range candidates {
		if dualPhaseI && c.ZeroCost {
			continue
		}
		var excess float64
		var dir float64
		if c.Value < c.Lower-tol {
			excess = c.Lower - c.Value
			dir = -1
		} else if c.Value > c.Upper+tol {
			excess = c.Value - c.Upper
			dir = 1
		} else {
			continue
		}
		score := (excess * excess) / c.Weight
		if score > best {
			best = score
			bestRow = c.Row
			targetDir = dir
		}
	}
	return bestRow, targetDir, bestRow != -1
}

// DualEnteringCandidate is one non-basic column's data for the dual
// ratio test: its update-row coefficient and movement bitmap.
type DualEnteringCandidate struct {
	Col         ColIndex
	UpdateCoeff float64 // u_j = e_i^T B^-1 A_j
	CanIncrease bool
	CanDecrease bool
	IsBoxed     bool
}

// DualEnteringResult is the outcome of dual entering selection: the
// chosen column, plus the set of boxed columns that should be bound-
// flipped in place before the pivot (spec §4.6's "bound-flipping ratio
// test").
type DualEnteringResult struct {
	Entering  ColIndex
	Found     bool
	FlipCols  []ColIndex
}

// DualEnteringSelection picks the column achieving the minimum ratio
// given the update row and the sign of the leaving variable's required
// cost variation (targetDir, as returned by BestLeavingRow).
func DualEnteringSelection(candidates []DualEnteringCandidate, cbar []float64, targetDir float64, dualFeasibilityTolerance float64) DualEnteringResult {
	best := math.Inf(1)
	var result DualEnteringResult
	result.Entering = -1
	for _, c := range candidates {
		coeff := targetDir * c.UpdateCoeff
		var eligible bool
		switch {
		case c.CanIncrease && coeff > dualFeasibilityTolerance:
			eligible = true
		case c.CanDecrease && coeff < -dualFeasibilityTolerance:
			eligible = true
		}
		if !eligible {
			if c.IsBoxed {
				result.FlipCols = append(result.FlipCols, c.Col)
			}
			continue
		}
		ratio := math.Abs(cbar[c.Col] / coeff)
		if ratio < best {
			best = ratio
			result.Entering = c.Col
			result.Found = true
		}
	}
	return result
}
