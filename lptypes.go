// Package simplex implements a revised simplex engine for continuous
// linear programs
//
//	minimize    cᵀx + c₀
//	subject to  A x = b      (after slack introduction)
//	            ℓ ≤ x ≤ u
//
// via a sequence of LU-factorized basis updates. It supports both the
// primal and the dual simplex variant, warm-starting from a previously
// saved basis, an optional polishing pass that nudges the solution
// toward integrality, and a push pass that drives free super-basic
// variables to a bound.
package simplex

import "math"

// Fractional is the scalar type used throughout the engine.
type Fractional = float64

// ColIndex identifies a column (structural variable or slack). RowIndex
// identifies a row (constraint). Both are conceptually distinct index
// domains, named accordingly throughout the engine's API, but are
// declared as int32 aliases rather than separate defined types: every
// subpackage (lpbasis, lpvalue, lpprice, lpinit) duplicates its own
// ColIndex/RowIndex alias locally to avoid importing the root package
// (which would cycle back through the driver), and aliases of the same
// underlying type interoperate across packages without per-call
// conversions, which a set of mutually-distinct defined types would not.
// The naming convention, not the type system, is what keeps row and
// column indices from being accidentally swapped.
type ColIndex = int32

// RowIndex identifies a constraint row.
type RowIndex = int32

// InvalidCol and InvalidRow mark "absent" in contexts where any valid
// index may be returned (e.g. an entering column not found, or a ratio
// test result with no leaving row because of a bound flip).
const (
	InvalidCol ColIndex = -1
	InvalidRow RowIndex = -1
)

// Infinity is the sentinel used for unbounded sides of a variable or
// constraint bound. Both +Infinity and -Infinity are meaningful.
var Infinity = math.Inf(1)

// IsFinite reports whether f is neither +Infinity nor -Infinity. NaN is
// considered finite by this predicate; callers are expected never to
// feed NaN bounds into the engine.
func IsFinite(f Fractional) bool {
	return !math.IsInf(f, 0)
}

// VariableType classifies a column by which of its bounds are finite.
// It never changes across a solve; only VariableStatus does.
type VariableType int8

const (
	// Unconstrained variables have both bounds infinite.
	Unconstrained VariableType = iota
	// LowerBounded variables have a finite lower bound and +Infinity upper.
	LowerBounded
	// UpperBounded variables have a finite upper bound and -Infinity lower.
	UpperBounded
	// UpperAndLowerBounded variables have both bounds finite and distinct.
	UpperAndLowerBounded
	// Fixed variables have identical finite lower and upper bounds.
	Fixed
)

func (t VariableType) String() string {
	switch t {
	case Unconstrained:
		return "UNCONSTRAINED"
	case LowerBounded:
		return "LOWER_BOUNDED"
	case UpperBounded:
		return "UPPER_BOUNDED"
	case UpperAndLowerBounded:
		return "UPPER_AND_LOWER_BOUNDED"
	case Fixed:
		return "FIXED"
	default:
		return "UNKNOWN_VARIABLE_TYPE"
	}
}

// VariableTypeFromBounds derives the VariableType implied by a pair of
// bounds, the same classification the engine performs once at Solve
// entry for every column.
func VariableTypeFromBounds(lower, upper Fractional) VariableType {
	switch {
	case lower == upper:
		return Fixed
	case IsFinite(lower) && IsFinite(upper):
		return UpperAndLowerBounded
	case IsFinite(lower):
		return LowerBounded
	case IsFinite(upper):
		return UpperBounded
	default:
		return Unconstrained
	}
}

// VariableStatus is the current placement of a column: basic, or
// non-basic pinned at a bound/zero.
type VariableStatus int8

const (
	// Basic columns have their value determined by x_B = B⁻¹(b - A_N x_N).
	Basic VariableStatus = iota
	// FixedValue is a non-basic FIXED column (lower == upper).
	FixedValue
	// AtLowerBound is a non-basic column pinned at its finite lower bound.
	AtLowerBound
	// AtUpperBound is a non-basic column pinned at its finite upper bound.
	AtUpperBound
	// FreeVariable is a non-basic UNCONSTRAINED column; value 0 unless
	// warm-started as a super-basic, in which case it may be non-zero
	// until consumed by the push phase.
	FreeVariable
)

func (s VariableStatus) String() string {
	switch s {
	case Basic:
		return "BASIC"
	case FixedValue:
		return "FIXED_VALUE"
	case AtLowerBound:
		return "AT_LOWER"
	case AtUpperBound:
		return "AT_UPPER"
	case FreeVariable:
		return "FREE"
	default:
		return "UNKNOWN_STATUS"
	}
}

// ProblemStatus is the terminal or interim outcome of a solve.
type ProblemStatus int8

const (
	// Init is the state before any phase has run.
	Init ProblemStatus = iota
	// PrimalFeasible is an interim state: x satisfies A x = b and bounds,
	// optimality not yet established.
	PrimalFeasible
	// DualFeasible is an interim state: reduced costs satisfy dual
	// feasibility, primal feasibility not yet established.
	DualFeasible
	// Optimal: both primal and dual feasibility hold within tolerance.
	Optimal
	// PrimalInfeasible: no x satisfies A x = b and the bounds.
	PrimalInfeasible
	// DualInfeasible: the dual problem has no feasible solution (does not
	// by itself imply primal unboundedness; see InfeasibleOrUnbounded).
	DualInfeasible
	// InfeasibleOrUnbounded: could not distinguish primal infeasibility
	// from primal unboundedness (e.g. dual phase I reports unbounded).
	InfeasibleOrUnbounded
	// PrimalUnbounded: the primal problem's objective is unbounded below;
	// a ray certificate is available.
	PrimalUnbounded
	// DualUnbounded: the dual problem is unbounded, i.e. the primal is
	// infeasible; a row-combination certificate is available.
	DualUnbounded
	// Imprecise: a success status was reached but residuals exceed the
	// solution feasibility tolerance.
	Imprecise
	// Abnormal: an internal invariant was violated mid-solve.
	Abnormal
	// InvalidProblem: the input failed cleanliness or shape checks.
	InvalidProblem
)

func (s ProblemStatus) String() string {
	switch s {
	case Init:
		return "INIT"
	case PrimalFeasible:
		return "PRIMAL_FEASIBLE"
	case DualFeasible:
		return "DUAL_FEASIBLE"
	case Optimal:
		return "OPTIMAL"
	case PrimalInfeasible:
		return "PRIMAL_INFEASIBLE"
	case DualInfeasible:
		return "DUAL_INFEASIBLE"
	case InfeasibleOrUnbounded:
		return "INFEASIBLE_OR_UNBOUNDED"
	case PrimalUnbounded:
		return "PRIMAL_UNBOUNDED"
	case DualUnbounded:
		return "DUAL_UNBOUNDED"
	case Imprecise:
		return "IMPRECISE"
	case Abnormal:
		return "ABNORMAL"
	case InvalidProblem:
		return "INVALID_PROBLEM"
	default:
		return "UNKNOWN_STATUS"
	}
}

// IsTerminal reports whether s ends the solve (as opposed to an interim
// phase-control state).
func (s ProblemStatus) IsTerminal() bool {
	switch s {
	case Optimal, PrimalInfeasible, DualInfeasible, InfeasibleOrUnbounded,
		PrimalUnbounded, DualUnbounded, Imprecise, Abnormal, InvalidProblem:
		return true
	default:
		return false
	}
}

// InitialBasisHeuristic selects which §4.9 algorithm builds the
// starting basis when none is warm-started.
type InitialBasisHeuristic int8

const (
	// NoneHeuristic uses the all-slack basis directly.
	NoneHeuristic InitialBasisHeuristic = iota
	// Maros builds a triangular basis via the Maros candidate order.
	Maros
	// Bixby builds an almost-triangular basis via Bixby's algorithm.
	Bixby
	// Triangular builds a strictly triangular basis (GLPK-style).
	Triangular
)
