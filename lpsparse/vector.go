// Package lpsparse provides the indexed sparse storage used for columns,
// update rows, and solution components, plus an immutable compact
// column-oriented matrix built from it.
//
// A "cleaned" Vector maintains the invariants required by the rest of
// the engine: entries sorted strictly ascending by index, no duplicate
// indices, no zero coefficients. Vectors may be dirty (unsorted,
// duplicated, zero-valued) between construction and a call to CleanUp.
package lpsparse

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Index is a generic sparse-entry position; callers embed the
// domain-specific ColIndex/RowIndex as this underlying int.
type Index int32

// entry is one (index, coefficient) pair.
type entry struct {
	index Index
	value float64
}

// Vector is an indexed sparse container of Fractional coefficients.
type Vector struct {
	entries []entry
	clean   bool // true once CleanUp last confirmed the invariants
}

// NewVector returns an empty sparse vector with capacity for n entries.
func NewVector(capacityHint int) *Vector {
	return &Vector{entries: make([]entry, 0, capacityHint), clean: true}
}

// Set appends an (index, value) pair. Duplicates are permitted until
// CleanUp is called; a zero value is also permitted pre-cleanup, e.g. to
// overwrite an earlier nonzero entry for the same index.
func (v *Vector) Set(i Index, value float64) {
	v.entries = append(v.entries, entry{i, value})
	v.clean = false
}

// Len returns the number of stored entries, which may include
// duplicates or zeros if the vector has not been cleaned.
func (v *Vector) Len() int { return len(v.entries) }

// Reset empties the vector while retaining its backing storage.
func (v *Vector) Reset() {
	v.entries = v.entries[:0]
	v.clean = true
}

// At returns the (index, value) pair stored at position k, 0 <= k < Len().
func (v *Vector) At(k int) (Index, float64) {
	e := v.entries[k]
	return e.index, e.value
}

// IsClean reports whether the vector is known (cached) to satisfy the
// cleaned-vector invariants.
func (v *Vector) IsClean() bool { return v.clean }

// CleanUp sorts entries stably by index, keeps only the last value
// written for each index, and drops entries whose resulting value is
// exactly zero.
func (v *Vector) CleanUp() {
	if v.clean {
		return
	}
	sort.SliceStable(v.entries, func(a, b int) bool {
		return v.entries[a].index < v.entries[b].index
	})
	out := v.entries[:0]
	for i := 0; i < len(v.entries); {
		j := i
		for j+1 < len(v.entries) && v.entries[j+1].index == v.entries[i].index {
			j++
		}
		// last write (at position j) wins.
		if val := v.entries[j].value; val != 0 {
			out = append(out, entry{v.entries[i].index, val})
		}
		i = j + 1
	}
	v.entries = out
	v.clean = true
}

// CheckNoDuplicates verifies, in O(num_entries + max_index), that no
// index repeats. It does not require the vector to be sorted. The
// result is not cached: the clean flag is left as it was, and a later
// CleanUp still sorts and deduplicates in full.
func (v *Vector) CheckNoDuplicates() bool {
	seen := make(map[Index]struct{}, len(v.entries))
	for _, e := range v.entries {
		if _, ok := seen[e.index]; ok {
			return false
		}
		seen[e.index] = struct{}{}
	}
	return true
}

// DenseCopyInto writes the vector's value at every stored index into
// dense[index], leaving all other positions untouched. Callers are
// expected to have zeroed dense beforehand.
func (v *Vector) DenseCopyInto(dense []float64) {
	for _, e := range v.entries {
		dense[e.index] = e.value
	}
}

// PermutedDenseCopyInto is like DenseCopyInto but writes to
// dense[perm[index]] instead of dense[index].
func (v *Vector) PermutedDenseCopyInto(dense []float64, perm []Index) {
	for _, e := range v.entries {
		dense[perm[e.index]] = e.value
	}
}

// ScatterAdd adds alpha*value to dense[index] for every stored entry,
// i.e. dense += alpha * v, without requiring v to be cleaned.
func (v *Vector) ScatterAdd(dense []float64, alpha float64) {
	if alpha == 0 {
		return
	}
	for _, e := range v.entries {
		dense[e.index] += alpha * e.value
	}
}

// Permute replaces every stored index i with perm[i]. The vector is
// marked dirty since the permuted indices need not remain sorted.
func (v *Vector) Permute(perm []Index) {
	for k := range v.entries {
		v.entries[k].index = perm[v.entries[k].index]
	}
	v.clean = false
}

// PermutePartial is like Permute but drops any entry whose image under
// perm is negative, matching the convention that a negative image marks
// "this index no longer exists" (e.g. a row removed by presolve).
func (v *Vector) PermutePartial(perm []Index) {
	out := v.entries[:0]
	for _, e := range v.entries {
		if img := perm[e.index]; img >= 0 {
			out = append(out, entry{img, e.value})
		}
	}
	v.entries = out
	v.clean = false
}

// RemoveNearZero drops entries whose |value| (optionally scaled by a
// per-index weight) is <= tol. weights may be nil, meaning unit weight
// for every index.
func (v *Vector) RemoveNearZero(tol float64, weights []float64) {
	out := v.entries[:0]
	for _, e := range v.entries {
		w := 1.0
		if weights != nil {
			w = weights[e.index]
		}
		if mag := e.value * w; mag > tol || mag < -tol {
			out = append(out, e)
		}
	}
	v.entries = out
}

// MoveFirst moves the entry at position k (if any) to position 0,
// leaving the remaining order otherwise unchanged at the source slot.
func (v *Vector) MoveFirst(k int) {
	if k <= 0 || k >= len(v.entries) {
		return
	}
	v.entries[0], v.entries[k] = v.entries[k], v.entries[0]
	v.clean = false
}

// MoveLast moves the entry at position k (if any) to the last slot.
func (v *Vector) MoveLast(k int) {
	last := len(v.entries) - 1
	if k < 0 || k >= last {
		return
	}
	v.entries[last], v.entries[k] = v.entries[k], v.entries[last]
	v.clean = false
}

// MultiplyByDense multiplies, in place, every stored value by
// dense[index] (componentwise).
func (v *Vector) MultiplyByDense(dense []float64) {
	for k := range v.entries {
		v.entries[k].value *= dense[v.entries[k].index]
	}
}

// DivideByDense divides, in place, every stored value by dense[index].
func (v *Vector) DivideByDense(dense []float64) {
	for k := range v.entries {
		v.entries[k].value /= dense[v.entries[k].index]
	}
}

// InfinityNorm returns max_i |value_i|, 0 for an empty vector.
func (v *Vector) InfinityNorm() float64 {
	if len(v.entries) == 0 {
		return 0
	}
	vals := make([]float64, len(v.entries))
	for i, e := range v.entries {
		vals[i] = e.value
	}
	return floats.Norm(vals, math.Inf(1))
}
