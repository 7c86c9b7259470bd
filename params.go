package simplex

import "github.com/numericlp/simplex/lpprice"

// Parameters is every recognized option of spec §6, as a plain struct
// with a DefaultParameters constructor (gonum-style explicit
// configuration rather than functional options, upgraded to a struct
// because the option count outgrows a positional parameter list).
type Parameters struct {
	// Algorithm choice.
	UseDualSimplex                      bool
	AllowSimplexAlgorithmChange         bool
	UseDedicatedDualFeasibilityAlgorithm bool

	// Tolerances.
	PrimalFeasibilityTolerance    float64
	DualFeasibilityTolerance      float64
	SolutionFeasibilityTolerance  float64
	HarrisToleranceRatio          float64
	DegenerateMinistepFactor      float64
	SmallPivotThreshold           float64
	DualSmallPivotThreshold       float64
	RatioTestZeroThreshold        float64
	MinimumAcceptablePivot        float64

	// Numerical safety nets.
	RefactorizationThreshold        float64
	InitialConditionNumberThreshold float64

	// Budgets.
	MaxNumberOfIterations      int
	MaxNumberOfReoptimizations int

	// Early exit.
	ObjectiveLowerLimit Fractional
	ObjectiveUpperLimit Fractional

	// Dual simplex shaping.
	PerturbCostsInDualSimplex bool

	// Storage choices.
	UseScaling          bool
	UseTransposedMatrix bool

	// Initial basis.
	InitialBasis                          InitialBasisHeuristic
	ExploitSingletonColumnInInitialBasis bool

	// Pricing.
	FeasibilityRule  lpprice.PricingRule
	OptimizationRule lpprice.PricingRule

	// Push phase.
	PushToVertex                     bool
	CrossoverBoundSnappingDistance   float64

	// Imprecision / determinism.
	ChangeStatusToImprecise bool
	RandomSeed              uint64

	// Logging.
	LogSearchProgress bool
	LogToStdout       bool
}

// DefaultParameters returns the engine's default configuration,
// matching the original implementation's documented defaults where
// spec.md names a concrete value, and otherwise a conservative choice
// grounded on the teacher's own AffineScaling defaults.
func DefaultParameters() Parameters {
	return Parameters{
		UseDualSimplex:                       false,
		AllowSimplexAlgorithmChange:          true,
		UseDedicatedDualFeasibilityAlgorithm: true,

		PrimalFeasibilityTolerance:   1e-8,
		DualFeasibilityTolerance:     1e-8,
		SolutionFeasibilityTolerance: 1e-6,
		HarrisToleranceRatio:         1e-9,
		DegenerateMinistepFactor:     1e-9,
		SmallPivotThreshold:          1e-6,
		DualSmallPivotThreshold:      1e-6,
		RatioTestZeroThreshold:       1e-9,
		MinimumAcceptablePivot:       1e-6,

		RefactorizationThreshold:        1e-9,
		InitialConditionNumberThreshold: 1e50,

		MaxNumberOfIterations:      -1, // unlimited
		MaxNumberOfReoptimizations: 40,

		ObjectiveLowerLimit: -Infinity,
		ObjectiveUpperLimit: Infinity,

		PerturbCostsInDualSimplex: false,

		UseScaling:          true,
		UseTransposedMatrix: true,

		InitialBasis:                          Triangular,
		ExploitSingletonColumnInInitialBasis: true,

		FeasibilityRule:  lpprice.Devex,
		OptimizationRule: lpprice.Devex,

		PushToVertex:                   false,
		CrossoverBoundSnappingDistance: 1e-6,

		ChangeStatusToImprecise: true,
		RandomSeed:              1,

		LogSearchProgress: false,
		LogToStdout:       false,
	}
}
