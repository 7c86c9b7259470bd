package lpsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermutationIdentity(t *testing.T) {
	p := Identity(4)
	assert.True(t, p.IsIdentity())
	assert.Equal(t, []Index{0, 1, 2, 3}, p.NewIndex)
}

func TestPermutationIsIdentity(t *testing.T) {
	p := Permutation{NewIndex: []Index{1, 0, 2}}
	assert.False(t, p.IsIdentity())
}

func TestPermutationInverse(t *testing.T) {
	p := Permutation{NewIndex: []Index{2, 0, 1}}
	q := p.Inverse()
	for old, new := range p.NewIndex {
		assert.Equal(t, Index(old), q.NewIndex[new])
	}
}

func TestPermutationComposedWith(t *testing.T) {
	p := Permutation{NewIndex: []Index{1, 0, 2}} // swap 0,1
	q := Permutation{NewIndex: []Index{0, 2, 1}} // swap 1,2
	r := p.ComposedWith(q)
	// position 0 -> p:1 -> q:2
	assert.Equal(t, Index(2), r.NewIndex[0])
	// position 1 -> p:0 -> q:0
	assert.Equal(t, Index(0), r.NewIndex[1])
	// position 2 -> p:2 -> q:1
	assert.Equal(t, Index(1), r.NewIndex[2])
}

func TestPermutationApplyToDenseColumn(t *testing.T) {
	p := Permutation{NewIndex: []Index{2, 0, 1}}
	src := []float64{10, 20, 30}
	dst := make([]float64, 3)
	p.ApplyToDenseColumn(dst, src)
	assert.Equal(t, []float64{20, 30, 10}, dst)
}

func TestPermutationApplyToIndices(t *testing.T) {
	p := Permutation{NewIndex: []Index{2, 0, 1}}
	idx := []ColIndexLike{7, 8, 9}
	p.ApplyToIndices(idx)
	// tmp[p[i]] = idx[i]: tmp[2]=7, tmp[0]=8, tmp[1]=9
	assert.Equal(t, []ColIndexLike{8, 9, 7}, idx)
}
