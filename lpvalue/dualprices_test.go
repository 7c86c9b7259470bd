package lpvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualPricesGetMaximumEmpty(t *testing.T) {
	d := NewDualPrices()
	_, _, ok := d.GetMaximum()
	assert.False(t, ok)
}

func TestDualPricesAddOrUpdateAndGetMaximum(t *testing.T) {
	d := NewDualPrices()
	d.AddOrUpdate(0, 1.0)
	d.AddOrUpdate(1, 5.0)
	d.AddOrUpdate(2, 3.0)

	row, key, ok := d.GetMaximum()
	require.True(t, ok)
	assert.Equal(t, RowIndex(1), row)
	assert.Equal(t, 5.0, key)
}

func TestDualPricesUpdateExisting(t *testing.T) {
	d := NewDualPrices()
	d.AddOrUpdate(0, 1.0)
	d.AddOrUpdate(1, 2.0)
	d.AddOrUpdate(0, 10.0) // update, not insert

	row, key, ok := d.GetMaximum()
	require.True(t, ok)
	assert.Equal(t, RowIndex(0), row)
	assert.Equal(t, 10.0, key)
	assert.Equal(t, 2, d.Len())
}

func TestDualPricesRemove(t *testing.T) {
	d := NewDualPrices()
	d.AddOrUpdate(0, 1.0)
	d.AddOrUpdate(1, 5.0)
	d.Remove(1)

	row, _, ok := d.GetMaximum()
	require.True(t, ok)
	assert.Equal(t, RowIndex(0), row)

	// Removing an absent row is a no-op.
	d.Remove(99)
	assert.Equal(t, 1, d.Len())
}

func TestDualPricesReset(t *testing.T) {
	d := NewDualPrices()
	d.AddOrUpdate(0, 1.0)
	d.AddOrUpdate(1, 2.0)
	d.Reset()
	assert.Equal(t, 0, d.Len())
	_, _, ok := d.GetMaximum()
	assert.False(t, ok)
}

func TestDualPricesDenseUpdates(t *testing.T) {
	d := NewDualPrices()
	d.DenseUpdates([]RowIndex{0, 1, 2}, []float64{1, 9, 4})

	row, key, ok := d.GetMaximum()
	require.True(t, ok)
	assert.Equal(t, RowIndex(1), row)
	assert.Equal(t, 9.0, key)
}

func TestDualPricesMaintainsMaxUnderChurn(t *testing.T) {
	d := NewDualPrices()
	keys := map[RowIndex]float64{0: 3, 1: 7, 2: 1, 3: 9, 4: 5}
	for row, key := range keys {
		d.AddOrUpdate(row, key)
	}
	d.Remove(3) // remove the current max

	row, key, ok := d.GetMaximum()
	require.True(t, ok)
	assert.Equal(t, RowIndex(1), row)
	assert.Equal(t, 7.0, key)
}
