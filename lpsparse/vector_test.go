package lpsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorCleanUp(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry
		want    []entry
	}{
		{
			name:    "already sorted no dups",
			entries: []entry{{0, 1}, {1, 2}, {2, 3}},
			want:    []entry{{0, 1}, {1, 2}, {2, 3}},
		},
		{
			name:    "unsorted",
			entries: []entry{{2, 3}, {0, 1}, {1, 2}},
			want:    []entry{{0, 1}, {1, 2}, {2, 3}},
		},
		{
			name:    "duplicate keeps last write",
			entries: []entry{{0, 1}, {0, 5}},
			want:    []entry{{0, 5}},
		},
		{
			name:    "zero result dropped",
			entries: []entry{{0, 1}, {0, 0}, {1, 2}},
			want:    []entry{{1, 2}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := &Vector{entries: append([]entry(nil), tc.entries...), clean: false}
			v.CleanUp()
			assert.True(t, v.IsClean())
			assert.Equal(t, tc.want, v.entries)
		})
	}
}

func TestVectorCheckNoDuplicates(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 1)
	v.Set(1, 2)
	assert.True(t, v.CheckNoDuplicates())

	v.Set(0, 3)
	assert.False(t, v.CheckNoDuplicates())
}

func TestVectorDenseCopyInto(t *testing.T) {
	v := NewVector(2)
	v.Set(1, 4)
	v.Set(3, 7)
	dense := make([]float64, 5)
	v.DenseCopyInto(dense)
	assert.Equal(t, []float64{0, 4, 0, 7, 0}, dense)
}

func TestVectorPermutedDenseCopyInto(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 4)
	v.Set(1, 7)
	perm := []Index{2, 0}
	dense := make([]float64, 3)
	v.PermutedDenseCopyInto(dense, perm)
	assert.Equal(t, []float64{7, 0, 4}, dense)
}

func TestVectorScatterAdd(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 2)
	v.Set(1, 3)
	dense := []float64{10, 10}
	v.ScatterAdd(dense, 2)
	assert.Equal(t, []float64{14, 16}, dense)

	// alpha == 0 is a no-op.
	v.ScatterAdd(dense, 0)
	assert.Equal(t, []float64{14, 16}, dense)
}

func TestVectorPermute(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 1)
	v.Set(1, 2)
	v.CleanUp()
	v.Permute([]Index{1, 0})
	assert.False(t, v.IsClean())
	v.CleanUp()
	assert.Equal(t, []entry{{0, 2}, {1, 1}}, v.entries)
}

func TestVectorPermutePartial(t *testing.T) {
	v := NewVector(3)
	v.Set(0, 1)
	v.Set(1, 2)
	v.Set(2, 3)
	v.PermutePartial([]Index{-1, 0, 1})
	require.Equal(t, 2, v.Len())
	assert.Equal(t, []entry{{0, 2}, {1, 3}}, v.entries)
}

func TestVectorRemoveNearZero(t *testing.T) {
	v := NewVector(3)
	v.Set(0, 1e-12)
	v.Set(1, 5)
	v.Set(2, -1e-12)
	v.RemoveNearZero(1e-9, nil)
	require.Equal(t, 1, v.Len())
	idx, val := v.At(0)
	assert.Equal(t, Index(1), idx)
	assert.Equal(t, 5.0, val)
}

func TestVectorRemoveNearZeroWeighted(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 1)
	v.Set(1, 1)
	v.RemoveNearZero(0.5, []float64{0.1, 10})
	require.Equal(t, 1, v.Len())
	idx, _ := v.At(0)
	assert.Equal(t, Index(1), idx)
}

func TestVectorMoveFirst(t *testing.T) {
	v := NewVector(3)
	v.Set(0, 1)
	v.Set(1, 2)
	v.Set(2, 3)
	v.MoveFirst(2)
	idx, val := v.At(0)
	assert.Equal(t, Index(2), idx)
	assert.Equal(t, 3.0, val)
	assert.False(t, v.IsClean())
}

func TestVectorMoveFirstOutOfRange(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 1)
	v.Set(1, 2)
	v.clean = true
	v.MoveFirst(0) // k<=0 is a no-op
	assert.True(t, v.IsClean())
	v.MoveFirst(5) // out of range is a no-op
	assert.True(t, v.IsClean())
}

func TestVectorMoveLast(t *testing.T) {
	v := NewVector(3)
	v.Set(0, 1)
	v.Set(1, 2)
	v.Set(2, 3)
	v.MoveLast(0)
	idx, val := v.At(2)
	assert.Equal(t, Index(0), idx)
	assert.Equal(t, 1.0, val)
}

func TestVectorMultiplyDivideByDense(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 2)
	v.Set(1, 4)
	dense := []float64{3, 5}
	v.MultiplyByDense(dense)
	_, v0 := v.At(0)
	_, v1 := v.At(1)
	assert.Equal(t, 6.0, v0)
	assert.Equal(t, 20.0, v1)

	v.DivideByDense(dense)
	_, v0 = v.At(0)
	_, v1 = v.At(1)
	assert.Equal(t, 2.0, v0)
	assert.Equal(t, 4.0, v1)
}

func TestVectorInfinityNorm(t *testing.T) {
	v := NewVector(3)
	assert.Equal(t, 0.0, v.InfinityNorm())
	v.Set(0, -3)
	v.Set(1, 2)
	assert.Equal(t, 3.0, v.InfinityNorm())
}

func TestVectorReset(t *testing.T) {
	v := NewVector(2)
	v.Set(0, 1)
	v.Reset()
	assert.Equal(t, 0, v.Len())
	assert.True(t, v.IsClean())
}
