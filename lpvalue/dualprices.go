package lpvalue

import "container/heap"

// DualPrices is a priority-queue-like container keyed by squared
// normalized infeasibility of basic variables (spec §4.3): the data
// structure dual leaving-row selection reads from via GetMaximum. No
// pack example implements a float priority queue; container/heap is
// the idiomatic stdlib mechanism for this, so it is used directly
// rather than reaching for a third-party dependency (see DESIGN.md).
type DualPrices struct {
	items  []priceItem
	posOf  map[RowIndex]int // row -> index into items, for O(log n) update/remove
}

type priceItem struct {
	row  RowIndex
	key  float64 // squared normalized infeasibility; larger is more attractive
}

// NewDualPrices returns an empty priority structure.
func NewDualPrices() *DualPrices {
	return &DualPrices{posOf: make(map[RowIndex]int)}
}

// Len, Less, Swap, Push, Pop implement container/heap.Interface as a max-heap on key.
func (d *DualPrices) Len() int { return len(d.items) }
func (d *DualPrices) Less(i, j int) bool { return d.items[i].key > d.items[j].key }
func (d *DualPrices) Swap(i, j int) {
	d.items[i], d.items[j] = d.items[j], d.items[i]
	d.posOf[d.items[i].row] = i
	d.posOf[d.items[j].row] = j
}
func (d *DualPrices) Push(x any) {
	it := x.(priceItem)
	d.posOf[it.row] = len(d.items)
	d.items = append(d.items, it)
}
func (d *DualPrices) Pop() any {
	old := d.items
	n := len(old)
	it := old[n-1]
	d.items = old[:n-1]
	delete(d.posOf, it.row)
	return it
}

// AddOrUpdate inserts row with the given key, or updates its key if
// already present.
func (d *DualPrices) AddOrUpdate(row RowIndex, key float64) {
	if pos, ok := d.posOf[row]; ok {
		d.items[pos].key = key
		heap.Fix(d, pos)
		return
	}
	heap.Push(d, priceItem{row: row, key: key})
}

// Remove deletes row from the structure, if present.
func (d *DualPrices) Remove(row RowIndex) {
	pos, ok := d.posOf[row]
	if !ok {
		return
	}
	heap.Remove(d, pos)
}

// GetMaximum returns the row with the largest key, and whether the
// structure is non-empty.
func (d *DualPrices) GetMaximum() (RowIndex, float64, bool) {
	if len(d.items) == 0 {
		return 0, 0, false
	}
	return d.items[0].row, d.items[0].key, true
}

// DenseUpdates applies a batch of (row, newKey) updates in one pass,
// used after an UpdateBeforeBasisPivot touches many rows' infeasibility
// at once.
func (d *DualPrices) DenseUpdates(rows []RowIndex, keys []float64) {
	for i, r := range rows {
		d.AddOrUpdate(r, keys[i])
	}
}

// Reset empties the structure.
func (d *DualPrices) Reset() {
	d.items = d.items[:0]
	d.posOf = make(map[RowIndex]int)
}
