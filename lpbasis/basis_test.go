package lpbasis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/numericlp/simplex/lpsparse"
)

func TestNewBasisUnset(t *testing.T) {
	b := NewBasis(3)
	assert.Equal(t, 3, b.NumRows())
	for i := 0; i < 3; i++ {
		assert.Equal(t, ColIndex(-1), b.ColAt(RowIndex(i)))
	}
}

func TestBasisSetAndGet(t *testing.T) {
	b := NewBasis(2)
	b.SetColAt(0, 5)
	b.SetColAt(1, 9)
	assert.Equal(t, ColIndex(5), b.ColAt(0))
	assert.Equal(t, ColIndex(9), b.ColAt(1))
	assert.Equal(t, []ColIndex{5, 9}, b.AsSlice())
}

func TestBasisClone(t *testing.T) {
	b := NewBasis(2)
	b.SetColAt(0, 1)
	clone := b.Clone()
	clone.SetColAt(0, 99)
	assert.Equal(t, ColIndex(1), b.ColAt(0))
	assert.Equal(t, ColIndex(99), clone.ColAt(0))
}

func TestBasisPermute(t *testing.T) {
	b := NewBasis(3)
	b.SetColAt(0, 10)
	b.SetColAt(1, 20)
	b.SetColAt(2, 30)

	perm := lpsparse.Permutation{NewIndex: []lpsparse.Index{2, 0, 1}}
	b.Permute(perm)

	// old row 0 -> new row 2, old row 1 -> new row 0, old row 2 -> new row 1
	assert.Equal(t, ColIndex(20), b.ColAt(0))
	assert.Equal(t, ColIndex(30), b.ColAt(1))
	assert.Equal(t, ColIndex(10), b.ColAt(2))
}
