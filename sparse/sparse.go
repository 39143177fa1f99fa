// Package sparse implements the DOK-to-CCS sparse matrix construction
// kernel of spec.md §4.6: a dictionary-of-keys builder that converts to
// column-compressed storage, the layout the cone solver expects.
package sparse

import "sort"

// entry is one (row, col, value) cell pending conversion to CCS.
type entry struct {
	row, col int
	value    float64
}

// DOK is a dictionary-of-keys sparse matrix builder. Duplicate (row, col)
// insertions overwrite the previous value, matching spec.md §4.6 (the clean
// phase upstream already uniques terms per Variable, so overwrite is a
// belt-and-braces behavior, never a load-bearing one in normal use).
type DOK struct {
	rows, cols int
	cells      map[[2]int]float64
}

// NewDOK returns an empty rows x cols builder.
func NewDOK(rows, cols int) *DOK {
	return &DOK{rows: rows, cols: cols, cells: make(map[[2]int]float64)}
}

// Set inserts or overwrites the value at (row, col).
func (d *DOK) Set(row, col int, value float64) {
	d.cells[[2]int{row, col}] = value
}

// Rows returns the row count.
func (d *DOK) Rows() int { return d.rows }

// Cols returns the column count.
func (d *DOK) Cols() int { return d.cols }

// NNZ returns the number of distinct nonzero-key cells currently stored
// (including any that happen to hold the value 0.0 — DOK does not filter by
// value, only CCS construction does via ToCCS's explicit zero check).
func (d *DOK) NNZ() int { return len(d.cells) }

// CCS is a column-compressed sparse matrix: Values and RowIndex run parallel
// and are sorted by (col, row); ColPtr has length Cols+1 with
// ColPtr[j+1]-ColPtr[j] equal to the number of nonzeros in column j.
type CCS struct {
	Rows, Cols int
	Values     []float64
	RowIndex   []int
	ColPtr     []int
}

// ToCCS converts d to column-compressed storage. Entries with an exactly
// zero value are dropped. Entries are sorted by (col, row) ascending before
// the parallel arrays are emitted, per spec.md §4.6.
func (d *DOK) ToCCS() CCS {
	entries := make([]entry, 0, len(d.cells))
	for key, v := range d.cells {
		if v == 0 {
			continue
		}
		entries = append(entries, entry{row: key[0], col: key[1], value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].col != entries[j].col {
			return entries[i].col < entries[j].col
		}
		return entries[i].row < entries[j].row
	})

	values := make([]float64, len(entries))
	rowIndex := make([]int, len(entries))
	colPtr := make([]int, d.cols+1)

	for i, e := range entries {
		values[i] = e.value
		rowIndex[i] = e.row
		colPtr[e.col+1]++
	}
	for j := 0; j < d.cols; j++ {
		colPtr[j+1] += colPtr[j]
	}

	return CCS{Rows: d.rows, Cols: d.cols, Values: values, RowIndex: rowIndex, ColPtr: colPtr}
}

// At returns the value stored at (row, col), or 0 if absent. O(nnz in col).
func (c CCS) At(row, col int) float64 {
	if col < 0 || col >= c.Cols {
		return 0
	}
	for i := c.ColPtr[col]; i < c.ColPtr[col+1]; i++ {
		if c.RowIndex[i] == row {
			return c.Values[i]
		}
	}
	return 0
}

// Dense materializes c as a row-major dense slice, for tests and small
// debug dumps only.
func (c CCS) Dense() [][]float64 {
	out := make([][]float64, c.Rows)
	for i := range out {
		out[i] = make([]float64, c.Cols)
	}
	for col := 0; col < c.Cols; col++ {
		for i := c.ColPtr[col]; i < c.ColPtr[col+1]; i++ {
			out[c.RowIndex[i]][col] = c.Values[i]
		}
	}
	return out
}
