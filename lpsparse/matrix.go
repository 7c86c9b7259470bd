package lpsparse

import "gonum.org/v1/gonum/mat"

// CompactMatrix is an immutable column-oriented sparse representation
// of A, built once per problem from a source sparse matrix, optionally
// followed by appending an identity block of slack columns. Layout
// mirrors a compressed-sparse-column store (indptr/ind/data), the same
// shape edaniels-sparse's CSC uses, so the type slots directly into
// any gonum.org/v1/gonum/mat consumer via the mat.Matrix interface.
type CompactMatrix struct {
	rows, cols int
	colStart   []int     // length cols+1; column j occupies [colStart[j], colStart[j+1])
	rowIdx     []int     // row index of each stored entry, length nnz
	data       []float64 // coefficient of each stored entry, length nnz
}

var _ mat.Matrix = (*CompactMatrix)(nil)

// ColumnSource describes one column to build a CompactMatrix from: two
// parallel slices of (row, value) pairs. Rows need not be sorted;
// NewCompactMatrix sorts them for predictable iteration order.
type ColumnSource struct {
	Rows   []int
	Values []float64
}

// NewCompactMatrix builds an immutable compact matrix with the given
// shape from a slice of per-column sources (columns[j] describes column
// j). Zero entries in the sources are dropped.
func NewCompactMatrix(rows int, columns []ColumnSource) *CompactMatrix {
	m := &CompactMatrix{
		rows:     rows,
		cols:     len(columns),
		colStart: make([]int, len(columns)+1),
	}
	for j, col := range columns {
		m.colStart[j] = len(m.data)
		type pair = struct {
			row int
			val float64
		}
		pairs := make([]pair, 0, len(col.Rows))
		for k, r := range col.Rows {
			if v := col.Values[k]; v != 0 {
				pairs = append(pairs, pair{r, v})
			}
		}
		sortPairs(pairs)
		for _, p := range pairs {
			m.rowIdx = append(m.rowIdx, p.row)
			m.data = append(m.data, p.val)
		}
	}
	m.colStart[len(columns)] = len(m.data)
	return m
}

func sortPairs(p []struct {
	row int
	val float64
}) {
	for i := 1; i < len(p); i++ {
		for j := i; j > 0 && p[j-1].row > p[j].row; j-- {
			p[j-1], p[j] = p[j], p[j-1]
		}
	}
}

// WithAppendedSlackIdentity returns a new CompactMatrix equal to m with
// an m.rows x m.rows identity block appended as additional columns, the
// standard slack-introduction step of §1/§6: every row i gets column
// m.cols+i with a single 1 entry at row i.
func (m *CompactMatrix) WithAppendedSlackIdentity() *CompactMatrix {
	cols := make([]ColumnSource, m.cols, m.cols+m.rows)
	for j := 0; j < m.cols; j++ {
		s, e := m.colStart[j], m.colStart[j+1]
		cols[j] = ColumnSource{Rows: append([]int(nil), m.rowIdx[s:e]...), Values: append([]float64(nil), m.data[s:e]...)}
	}
	for i := 0; i < m.rows; i++ {
		cols = append(cols, ColumnSource{Rows: []int{i}, Values: []float64{1}})
	}
	return NewCompactMatrix(m.rows, cols)
}

// Dims implements mat.Matrix.
func (m *CompactMatrix) Dims() (int, int) { return m.rows, m.cols }

// At implements mat.Matrix by a binary search within the column's
// sorted row range; not intended for hot-path use (see Column).
func (m *CompactMatrix) At(i, j int) float64 {
	s, e := m.colStart[j], m.colStart[j+1]
	lo, hi := s, e
	for lo < hi {
		mid := (lo + hi) / 2
		if m.rowIdx[mid] < i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < e && m.rowIdx[lo] == i {
		return m.data[lo]
	}
	return 0
}

// T returns a TransposeView sharing this matrix's storage.
func (m *CompactMatrix) T() mat.Matrix { return TransposeView{m} }

// NumRows and NumCols are the §3 accessor names used elsewhere in the
// engine (mirroring RowIndex/ColIndex rather than plain int).
func (m *CompactMatrix) NumRows() int { return m.rows }
func (m *CompactMatrix) NumCols() int { return m.cols }

// Column returns the sparse column j as a freshly built *Vector. Cheap
// iteration over a column's nonzeros without materializing a Vector is
// available via ColumnDo.
func (m *CompactMatrix) Column(j int) *Vector {
	s, e := m.colStart[j], m.colStart[j+1]
	v := NewVector(e - s)
	for k := s; k < e; k++ {
		v.Set(Index(m.rowIdx[k]), m.data[k])
	}
	v.clean = true
	return v
}

// ColumnDo calls fn(row, value) for every nonzero of column j in
// ascending row order, without allocating.
func (m *CompactMatrix) ColumnDo(j int, fn func(row int, value float64)) {
	s, e := m.colStart[j], m.colStart[j+1]
	for k := s; k < e; k++ {
		fn(m.rowIdx[k], m.data[k])
	}
}

// ScalarProduct returns column(j) . dense, a primitive used by the
// reduced-cost computation (c̄_j = c_j - A_jᵀy written as a scalar
// product against a dense y) and elsewhere.
func (m *CompactMatrix) ScalarProduct(j int, dense []float64) float64 {
	var sum float64
	s, e := m.colStart[j], m.colStart[j+1]
	for k := s; k < e; k++ {
		sum += m.data[k] * dense[m.rowIdx[k]]
	}
	return sum
}

// AddMultipleToDense adds alpha*column(j) into out, the primitive used
// to build update rows and direction vectors without an intermediate
// Vector allocation.
func (m *CompactMatrix) AddMultipleToDense(j int, alpha float64, out []float64) {
	if alpha == 0 {
		return
	}
	s, e := m.colStart[j], m.colStart[j+1]
	for k := s; k < e; k++ {
		out[m.rowIdx[k]] += alpha * m.data[k]
	}
}

// TransposeView is an Aᵀ view over a CompactMatrix's storage, enabled
// by the use_transposed_matrix parameter for row-wise hot loops (dual
// pricing's update row, notably). It shares the underlying column
// storage and therefore costs no extra memory for the column-major
// direction; a genuinely row-major companion (built once, like the
// matrix itself) is what RevisedSimplex actually keeps live, see
// NewRowMajor.
type TransposeView struct {
	m *CompactMatrix
}

var _ mat.Matrix = TransposeView{}

// Dims implements mat.Matrix.
func (t TransposeView) Dims() (int, int) { r, c := t.m.Dims(); return c, r }

// At implements mat.Matrix.
func (t TransposeView) At(i, j int) float64 { return t.m.At(j, i) }

// T returns the original (un-transposed) matrix.
func (t TransposeView) T() mat.Matrix { return t.m }

// RowMajor is a companion compact representation of Aᵀ, built once from
// a CompactMatrix when use_transposed_matrix is enabled, for hot loops
// that need to iterate a row's nonzeros cheaply (dual pricing's update
// row construction, mainly).
type RowMajor struct {
	rows, cols int
	rowStart   []int
	colIdx     []int
	data       []float64
}

// NewRowMajor builds the Aᵀ-equivalent row-major store from m.
func NewRowMajor(m *CompactMatrix) *RowMajor {
	rows, cols := m.Dims()
	counts := make([]int, rows+1)
	for k := range m.rowIdx {
		counts[m.rowIdx[k]+1]++
	}
	for i := 0; i < rows; i++ {
		counts[i+1] += counts[i]
	}
	rowStart := append([]int(nil), counts...)
	colIdx := make([]int, len(m.rowIdx))
	data := make([]float64, len(m.data))
	cursor := append([]int(nil), counts...)
	for j := 0; j < cols; j++ {
		m.ColumnDo(j, func(row int, value float64) {
			pos := cursor[row]
			colIdx[pos] = j
			data[pos] = value
			cursor[row] = pos + 1
		})
	}
	return &RowMajor{rows: rows, cols: cols, rowStart: rowStart, colIdx: colIdx, data: data}
}

// RowDo calls fn(col, value) for every nonzero of row i in ascending
// column order.
func (r *RowMajor) RowDo(i int, fn func(col int, value float64)) {
	s, e := r.rowStart[i], r.rowStart[i+1]
	for k := s; k < e; k++ {
		fn(r.colIdx[k], r.data[k])
	}
}
