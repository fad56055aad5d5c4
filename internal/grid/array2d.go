// Package grid provides fixed-size row-major 2D arrays with a nodata
// sentinel, used as working storage by the raster tools.
package grid

import "fmt"

// Number constrains Array2D to the cell types the raster tools use.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Array2D is a dense row-major 2D array of rows x columns cells. Cells are
// initialised to a fill value at construction; the nodata sentinel is
// carried alongside but never written by the array itself.
type Array2D[T Number] struct {
	rows    int
	columns int
	nodata  T
	data    []T
}

// NewArray2D allocates a rows x columns array filled with initial.
func NewArray2D[T Number](rows, columns int, initial, nodata T) (*Array2D[T], error) {
	if rows < 0 || columns < 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", rows, columns)
	}
	a := &Array2D[T]{
		rows:    rows,
		columns: columns,
		nodata:  nodata,
		data:    make([]T, rows*columns),
	}
	if initial != 0 {
		for i := range a.data {
			a.data[i] = initial
		}
	}
	return a, nil
}

// Rows returns the number of rows.
func (a *Array2D[T]) Rows() int { return a.rows }

// Columns returns the number of columns.
func (a *Array2D[T]) Columns() int { return a.columns }

// Nodata returns the sentinel value carried by this array.
func (a *Array2D[T]) Nodata() T { return a.nodata }

// Value returns the cell at (row, col). Out-of-range reads return the
// nodata sentinel rather than panicking, matching raster edge semantics.
func (a *Array2D[T]) Value(row, col int) T {
	if row < 0 || row >= a.rows || col < 0 || col >= a.columns {
		return a.nodata
	}
	return a.data[row*a.columns+col]
}

// SetValue writes the cell at (row, col). Out-of-range writes are ignored.
func (a *Array2D[T]) SetValue(row, col int, value T) {
	if row < 0 || row >= a.rows || col < 0 || col >= a.columns {
		return
	}
	a.data[row*a.columns+col] = value
}

// Increment adds delta to the cell at (row, col) in place.
func (a *Array2D[T]) Increment(row, col int, delta T) {
	if row < 0 || row >= a.rows || col < 0 || col >= a.columns {
		return
	}
	a.data[row*a.columns+col] += delta
}
