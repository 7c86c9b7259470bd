package lpsparse

// Permutation maps old positions to new ones: NewIndex[old] == new.
// Grounded on ortools/lp_data/permutation.h; used by basis refactorization
// to absorb the column permutation LU may impose into the basis's
// row->col mapping, the edge norms, and any row-indexed auxiliary vector.
type Permutation struct {
	NewIndex []Index
}

// Identity returns the permutation that maps every position to itself.
func Identity(n int) Permutation {
	p := Permutation{NewIndex: make([]Index, n)}
	for i := range p.NewIndex {
		p.NewIndex[i] = Index(i)
	}
	return p
}

// IsIdentity reports whether the permutation maps every position to itself.
func (p Permutation) IsIdentity() bool {
	for i, v := range p.NewIndex {
		if int(v) != i {
			return false
		}
	}
	return true
}

// Inverse returns the permutation q such that q.NewIndex[p.NewIndex[i]] == i.
func (p Permutation) Inverse() Permutation {
	q := Permutation{NewIndex: make([]Index, len(p.NewIndex))}
	for old, new := range p.NewIndex {
		q.NewIndex[new] = Index(old)
	}
	return q
}

// ComposedWith returns the permutation equivalent to applying p first,
// then q: result[i] == q[p[i]].
func (p Permutation) ComposedWith(q Permutation) Permutation {
	r := Permutation{NewIndex: make([]Index, len(p.NewIndex))}
	for i, pi := range p.NewIndex {
		r.NewIndex[i] = q.NewIndex[pi]
	}
	return r
}

// ApplyToDenseColumn permutes a dense column in place: out[p[i]] = in[i].
// dst and src may be the same slice only if p is its own inverse; callers
// needing an in-place permutation on an arbitrary permutation should route
// through a scratch buffer.
func (p Permutation) ApplyToDenseColumn(dst, src []float64) {
	for i, v := range src {
		dst[p.NewIndex[i]] = v
	}
}

// ApplyToIndices permutes an index slice in place (e.g. a row->col basis
// mapping indexed by row, when the rows themselves are permuted).
func (p Permutation) ApplyToIndices(idx []ColIndexLike) {
	tmp := make([]ColIndexLike, len(idx))
	for i, v := range idx {
		tmp[p.NewIndex[i]] = v
	}
	copy(idx, tmp)
}

// ColIndexLike is any integer-like column index type; it lets
// ApplyToIndices work generically over the caller's own ColIndex type
// without this package importing the root package (which would create
// an import cycle, since the root package imports lpsparse).
type ColIndexLike = int32
