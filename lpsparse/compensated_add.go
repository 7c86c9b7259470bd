package lpsparse

import "math"

// epsPrune is the 2*epsilon factor used by the compensated-add pruning
// rule: after b += alpha*a, any newly created entry whose magnitude is
// <= 2*eps*max(|alpha*a_k|, |b_k|) is dropped as decimal dust.
const epsPrune = 2 * 2.220446049250313e-16

// AddMultipleAndDeleteCommonIndex computes b += alpha*a for two cleaned
// vectors that share index k, then removes the k-th entry from the
// result entirely (the caller is expected to handle that shared
// coordinate separately, e.g. because it is about to leave the basis).
// Both a and b must already be cleaned; it is a programmer error
// (panic) to call this on dirty inputs or when k is absent from either.
func AddMultipleAndDeleteCommonIndex(b *Vector, alpha float64, k Index, a *Vector) {
	mergeScaled(b, alpha, k, a, true)
}

// AddMultipleIgnoreCommonIndex is identical to
// AddMultipleAndDeleteCommonIndex except that b's value at k is left
// unchanged by the merge (the a_k contribution is skipped).
func AddMultipleIgnoreCommonIndex(b *Vector, alpha float64, k Index, a *Vector) {
	mergeScaled(b, alpha, k, a, false)
}

func mergeScaled(b *Vector, alpha float64, k Index, a *Vector, deleteK bool) {
	if !a.clean || !b.clean {
		panic("lpsparse: compensated add requires cleaned vectors")
	}
	if !containsIndex(a, k) || !containsIndex(b, k) {
		panic("lpsparse: compensated add requires the shared index to be present in both vectors")
	}

	merged := make([]entry, 0, len(a.entries)+len(b.entries))
	i, j := 0, 0
	for i < len(a.entries) && j < len(b.entries) {
		ai, bj := a.entries[i], b.entries[j]
		switch {
		case ai.index < bj.index:
			merged = append(merged, entry{ai.index, alpha * ai.value})
			i++
		case ai.index > bj.index:
			merged = append(merged, bj)
			j++
		default:
			sum := bj.value + alpha*ai.value
			if ai.index == k && !deleteK {
				sum = bj.value
			}
			merged = append(merged, entry{ai.index, sum})
			i, j = i+1, j+1
		}
	}
	for ; i < len(a.entries); i++ {
		merged = append(merged, entry{a.entries[i].index, alpha * a.entries[i].value})
	}
	for ; j < len(b.entries); j++ {
		merged = append(merged, b.entries[j])
	}

	// Prune decimal dust introduced by the sum, preserving or deleting
	// the shared index k per the caller's request.
	out := merged[:0]
	for _, e := range merged {
		if e.index == k {
			if deleteK {
				continue
			}
			out = append(out, e)
			continue
		}
		aVal, aHas := lookup(a, e.index)
		bVal, bHas := lookup(b, e.index)
		if aHas && bHas {
			bound := epsPrune * math.Max(math.Abs(alpha*aVal), math.Abs(bVal))
			if math.Abs(e.value) <= bound {
				continue
			}
		}
		out = append(out, e)
	}
	b.entries = out
	b.clean = true
}

func containsIndex(v *Vector, k Index) bool {
	_, ok := lookup(v, k)
	return ok
}

// lookup does a binary search since cleaned vectors are sorted by index.
func lookup(v *Vector, k Index) (float64, bool) {
	lo, hi := 0, len(v.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if v.entries[mid].index < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(v.entries) && v.entries[lo].index == k {
		return v.entries[lo].value, true
	}
	return 0, false
}
