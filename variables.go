package simplex

import "github.com/numericlp/simplex/lpprice"

// variableInfo holds the per-column bitmaps and classification of spec
// §3: whether a column is basic, which directions a non-basic column is
// allowed to move, and whether pricing should consider it at all.
type variableInfo struct {
	n int

	varType []VariableType
	status  []VariableStatus

	isBasic              []bool
	canIncrease          []bool
	canDecrease          []bool
	isRelevantForPricing []bool
	nonBasicBoxed        []bool
}

// newVariableInfo classifies every column from its bounds and seeds
// every column as non-basic at its "natural" bound (lower if finite,
// else upper, else free at zero); the caller overwrites this once the
// initial basis is chosen.
func newVariableInfo(lower, upper []Fractional) *variableInfo {
	n := len(lower)
	vi := &variableInfo{
		n:                    n,
		varType:              make([]VariableType, n),
		status:               make([]VariableStatus, n),
		isBasic:              make([]bool, n),
		canIncrease:          make([]bool, n),
		canDecrease:          make([]bool, n),
		isRelevantForPricing: make([]bool, n),
		nonBasicBoxed:        make([]bool, n),
	}
	for j := 0; j < n; j++ {
		vi.varType[j] = VariableTypeFromBounds(lower[j], upper[j])
		vi.setNonBasicStatus(j, lower, upper, vi.varType[j])
	}
	return vi
}

// setNonBasicStatus pins column j at its default non-basic placement
// and refreshes the movement bitmaps that depend only on status and
// bounds (isBasic is left untouched; callers update it separately when
// a pivot changes basic/non-basic membership).
func (vi *variableInfo) setNonBasicStatus(j int, lower, upper []Fractional, t VariableType) {
	switch t {
	case Fixed:
		vi.status[j] = FixedValue
	case UpperBounded:
		vi.status[j] = AtUpperBound
	case Unconstrained:
		vi.status[j] = FreeVariable
	default: // LowerBounded, UpperAndLowerBounded
		vi.status[j] = AtLowerBound
	}
	vi.refreshBitmaps(j, lower, upper)
}

// refreshBitmaps recomputes canIncrease/canDecrease/isRelevantForPricing/
// nonBasicBoxed for column j from its current status and bounds. Called
// whenever a column's status or basic membership changes.
func (vi *variableInfo) refreshBitmaps(j int, lower, upper []Fractional) {
	if vi.isBasic[j] {
		vi.canIncrease[j] = false
		vi.canDecrease[j] = false
		vi.isRelevantForPricing[j] = false
		vi.nonBasicBoxed[j] = false
		return
	}
	switch vi.status[j] {
	case AtLowerBound:
		vi.canIncrease[j] = true
		vi.canDecrease[j] = false
	case AtUpperBound:
		vi.canIncrease[j] = false
		vi.canDecrease[j] = true
	case FreeVariable:
		vi.canIncrease[j] = true
		vi.canDecrease[j] = true
	case FixedValue:
		vi.canIncrease[j] = false
		vi.canDecrease[j] = false
	}
	vi.isRelevantForPricing[j] = vi.canIncrease[j] || vi.canDecrease[j]
	vi.nonBasicBoxed[j] = vi.varType[j] == UpperAndLowerBounded && IsFinite(lower[j]) && IsFinite(upper[j])
}

// makeBasic marks column j basic; makeNonBasic marks it non-basic at
// the given status and refreshes its bitmaps.
func (vi *variableInfo) makeBasic(j int) {
	vi.isBasic[j] = true
	vi.status[j] = Basic
	vi.canIncrease[j] = false
	vi.canDecrease[j] = false
	vi.isRelevantForPricing[j] = false
	vi.nonBasicBoxed[j] = false
}

func (vi *variableInfo) makeNonBasic(j int, status VariableStatus, lower, upper []Fractional) {
	vi.isBasic[j] = false
	vi.status[j] = status
	vi.refreshBitmaps(j, lower, upper)
}

// rebuildFromBasis marks every column in basis as basic and every other
// column non-basic at its current status (used after (re)computing an
// initial basis, where the caller has already decided each non-basic
// column's bound placement).
func (vi *variableInfo) rebuildFromBasis(basis []ColIndex, lower, upper []Fractional) {
	for j := range vi.isBasic {
		vi.isBasic[j] = false
	}
	for _, col := range basis {
		vi.isBasic[col] = true
	}
	for j := 0; j < vi.n; j++ {
		if vi.isBasic[j] {
			vi.makeBasic(j)
		} else {
			if vi.status[j] == Basic { // was basic before this rebuild; re-pin
				vi.setNonBasicStatus(j, lower, upper, vi.varType[j])
			}
			vi.refreshBitmaps(j, lower, upper)
		}
	}
}

// nonBasicInfos builds the lpprice.NonBasicInfo slice pricing needs,
// skipping basic and FIXED columns (FIXED can never move, so it is
// never a pricing candidate).
func (vi *variableInfo) nonBasicInfos() []lpprice.NonBasicInfo {
	out := make([]lpprice.NonBasicInfo, 0, vi.n)
	for j := 0; j < vi.n; j++ {
		if vi.isBasic[j] || vi.status[j] == FixedValue {
			continue
		}
		out = append(out, lpprice.NonBasicInfo{
			Col:         int32(j),
			CanIncrease: vi.canIncrease[j],
			CanDecrease: vi.canDecrease[j],
			IsBoxed:     vi.nonBasicBoxed[j],
		})
	}
	return out
}
