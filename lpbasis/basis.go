// Package lpbasis maintains the ordered row->column basis mapping and
// its LU factorization, including low-rank pivot updates and
// refactorization with permutation absorption.
package lpbasis

import "github.com/numericlp/simplex/lpsparse"

// ColIndex and RowIndex mirror the root package's distinct index
// domains; duplicated here (rather than imported) to avoid a package
// cycle, since the root package imports lpbasis.
type ColIndex = int32
type RowIndex = int32

// Basis is the ordered mapping row -> column giving the basic variable
// occupying each row (§3's "Basis").
type Basis struct {
	rowToCol []ColIndex
}

// NewBasis returns a basis for m rows, all entries unset (-1).
func NewBasis(m int) *Basis {
	b := &Basis{rowToCol: make([]ColIndex, m)}
	for i := range b.rowToCol {
		b.rowToCol[i] = -1
	}
	return b
}

// NumRows returns m.
func (b *Basis) NumRows() int { return len(b.rowToCol) }

// ColAt returns the column basic in row i.
func (b *Basis) ColAt(i RowIndex) ColIndex { return b.rowToCol[i] }

// SetColAt assigns column col to row i.
func (b *Basis) SetColAt(i RowIndex, col ColIndex) { b.rowToCol[i] = col }

// AsSlice exposes the row->col mapping, e.g. for a warm-start save.
func (b *Basis) AsSlice() []ColIndex { return b.rowToCol }

// Clone returns a deep copy.
func (b *Basis) Clone() *Basis {
	out := &Basis{rowToCol: append([]ColIndex(nil), b.rowToCol...)}
	return out
}

// Permute reassigns b.rowToCol[new] = old value at row, per the
// refactorization-imposed column permutation perm (perm.NewIndex[old
// row] == new row): the basis vector itself is row-indexed, so absorbing
// a row permutation means moving entries, not relabeling columns.
func (b *Basis) Permute(perm lpsparse.Permutation) {
	out := make([]ColIndex, len(b.rowToCol))
	for oldRow, col := range b.rowToCol {
		out[perm.NewIndex[oldRow]] = col
	}
	b.rowToCol = out
}
