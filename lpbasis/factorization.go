package lpbasis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/numericlp/simplex/lpsparse"
)

// ErrLU is returned when the basis factorization fails outright or its
// condition-number bound exceeds initialConditionNumberThreshold; see
// spec §4.2/§7. Callers may retry with a fresh (e.g. all-slack) basis.
var ErrLU = errors.New("lpbasis: basis factorization failed or is too ill-conditioned")

// BasisColumns supplies the m columns currently assigned to the basis,
// read-only, as an index-based handle per §9's "explicit context
// passing" design note (no long-lived pointers back into the compact
// matrix are stored by Factorization).
type BasisColumns interface {
	NumRows() int
	Column(col int) *lpsparse.Vector
}

// Factorization maintains B = LU for the current basis, together with a
// chain of rank-one updates applied since the last refactorization
// (Sherman-Morrison-Woodbury style, adapted from the teacher's Swap
// type in gonum/optimize/convex/lp/swap.go). Solve/LeftSolve apply the
// update chain on top of the stale LU factors so that most pivots avoid
// a full refactorization.
type Factorization struct {
	dim int
	lu  mat.LU

	updates    []rankOneUpdate
	updateCond float64 // running product of per-update condition bounds

	updatesSinceRefactorization int
	conditionNumberBound        float64
}

type rankOneUpdate struct {
	k int       // the index being replaced
	y []float64 // E = I + (y - e_k) e_k^T
}

// NewFactorization returns an empty factorization for an m-row basis;
// call Refactorize before any Solve/LeftSolve/Update call.
func NewFactorization(dim int) *Factorization {
	return &Factorization{dim: dim}
}

// IsRefactorized reports whether no rank-one updates are pending, i.e.
// Solve/LeftSolve would apply the LU factors directly.
func (f *Factorization) IsRefactorized() bool { return len(f.updates) == 0 }

// NeedsBasisRefactorization reports whether accumulated updates or
// numerical drift warrant a full Refactorize, driven by an elapsed-update
// counter and the running update condition-number bound.
func (f *Factorization) NeedsBasisRefactorization(maxUpdates int, maxUpdateCond float64) bool {
	if len(f.updates) == 0 {
		return false
	}
	if f.updatesSinceRefactorization >= maxUpdates {
		return true
	}
	return f.updateCond > maxUpdateCond
}

// ConditionNumberBound returns an upper bound on the infinity-norm
// condition number of the current basis (LU factors only; the pending
// rank-one chain is not folded in, matching the teacher's Swap.Cond()
// which tracks its own running bound separately).
func (f *Factorization) ConditionNumberBound() float64 {
	return f.lu.Cond()
}

// Refactorize recomputes B = LU from scratch from the given basis
// columns and drops the pending update chain. It returns the column
// permutation LU imposed (Identity if none) — the caller (driver) must
// absorb this permutation into the basis row mapping, the edge norms,
// and any row-indexed auxiliary vector, per spec §4.2.
func (f *Factorization) Refactorize(cols BasisColumns, initialConditionNumberThreshold float64) (lpsparse.Permutation, error) {
	m := cols.NumRows()
	dense := mat.NewDense(m, m, nil)
	for j := 0; j < m; j++ {
		col := cols.Column(j)
		for k := 0; k < col.Len(); k++ {
			idx, val := col.At(k)
			dense.Set(int(idx), j, val)
		}
	}
	f.lu.Factorize(dense)
	f.updates = f.updates[:0]
	f.updateCond = 1
	f.updatesSinceRefactorization = 0
	f.conditionNumberBound = f.lu.Cond()
	if math.IsInf(f.conditionNumberBound, 1) || f.conditionNumberBound > initialConditionNumberThreshold {
		return lpsparse.Identity(m), ErrLU
	}
	// mat.LU pivots internally but exposes the permutation only via
	// forward/back substitution, not as a reusable ColIndex permutation;
	// since Solve/LeftSolve always route back through the same lu value,
	// no permutation needs to be reported to the caller.
	return lpsparse.Identity(m), nil
}

// Solve computes d such that B*d = rhs, applying the update chain (if
// any) on top of the last-refactorized LU factors.
func (f *Factorization) Solve(rhs []float64) []float64 {
	d := make([]float64, f.dim)
	dVec := mat.NewVecDense(f.dim, d)
	f.lu.SolveVec(dVec, false, mat.NewVecDense(f.dim, append([]float64(nil), rhs...)))
	for _, u := range f.updates {
		applyUpdateSolve(d, u)
	}
	return d
}

// LeftSolve computes y such that yᵀB = rhsᵀ, i.e. Bᵀy = rhs, applying
// the update chain in reverse transposed order.
func (f *Factorization) LeftSolve(rhs []float64) []float64 {
	y := append([]float64(nil), rhs...)
	for i := len(f.updates) - 1; i >= 0; i-- {
		applyUpdateLeftSolve(y, f.updates[i])
	}
	out := make([]float64, f.dim)
	outVec := mat.NewVecDense(f.dim, out)
	f.lu.SolveVec(outVec, true, mat.NewVecDense(f.dim, y))
	return out
}

// applyUpdateSolve and applyUpdateLeftSolve implement the same
// Sherman-Morrison elimination as the teacher's Swap.SolveVec, one
// rank-one factor E = I + (y - e_k) e_k^T at a time.
func applyUpdateSolve(v []float64, u rankOneUpdate) {
	a := u.y[u.k]
	if a == 0 {
		return
	}
	vk := v[u.k] / a
	for i := range v {
		v[i] -= vk * u.y[i]
	}
	v[u.k] = vk
}

func applyUpdateLeftSolve(v []float64, u rankOneUpdate) {
	a := u.y[u.k]
	if a == 0 {
		return
	}
	var dot float64
	for i := range v {
		dot += u.y[i] * v[i]
	}
	vk := v[u.k]
	v[u.k] = vk - (dot-vk)/a
}

// Update applies the low-rank basis substitution that replaces the
// column at entering's pre-solve position (leavingRow) with direction,
// exactly as spec §4.2 describes. direction must be B⁻¹·A_entering,
// already solved by the caller (it is the pivot column expressed in the
// current basis).
func (f *Factorization) Update(leavingRow int, direction []float64) {
	y := append([]float64(nil), direction...)
	u := rankOneUpdate{k: leavingRow, y: y}
	f.updates = append(f.updates, u)
	f.updatesSinceRefactorization++
	f.updateCond *= updateConditionBound(y, leavingRow)
}

// updateConditionBound estimates the condition number of E = I + (y -
// e_k) e_k^T under the infinity norm, the same computation as the
// teacher's swap.go cond() helper restricted to the 'I' case used by
// NeedsBasisRefactorization's running bound.
func updateConditionBound(y []float64, k int) float64 {
	yk := math.Abs(y[k])
	if yk == 0 {
		return math.Inf(1)
	}
	beta := 1 / yk
	var ymax float64
	for i, v := range y {
		if i == k {
			continue
		}
		if a := math.Abs(v); a > ymax {
			ymax = a
		}
	}
	normA := math.Max(1+ymax, yk)
	normAInv := math.Max(1+beta*ymax, beta)
	return normA * normAInv
}
