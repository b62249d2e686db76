// Package densematrix provides the row-major dense float64 matrix the
// forward engine uses to hold one generation's ancestry-proportion table
// (child deme rows x parent deme columns). Adapted from the teacher's
// matrix.Dense: same flat row-major backing store and bounds-checked
// accessors, trimmed to the operations the engine actually needs
// (Set/At/Add/ScaleRow/RowSum/RenormalizeRow/Row) instead of the teacher's general linear-algebra
// surface (View, Induced, Clone, ...).
package densematrix

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDimensions indicates a non-positive row or column count was
// requested of New.
var ErrInvalidDimensions = errors.New("densematrix: dimensions must be positive")

// ErrOutOfRange indicates a row or column index outside the matrix's bounds.
var ErrOutOfRange = errors.New("densematrix: index out of range")

// Matrix is a row-major dense float64 matrix.
type Matrix struct {
	rows, cols int
	data       []float64
}

// New allocates an rows x cols Matrix initialized to zero.
// Complexity: O(rows*cols).
func New(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) offset(row, col int) (int, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, fmt.Errorf("densematrix(%d,%d): %w", row, col, ErrOutOfRange)
	}
	return row*m.cols + col, nil
}

// At returns the value at (row, col).
func (m *Matrix) At(row, col int) (float64, error) {
	off, err := m.offset(row, col)
	if err != nil {
		return 0, err
	}
	return m.data[off], nil
}

// Set writes v at (row, col).
func (m *Matrix) Set(row, col int, v float64) error {
	off, err := m.offset(row, col)
	if err != nil {
		return err
	}
	m.data[off] = v
	return nil
}

// Add accumulates v into the existing value at (row, col).
func (m *Matrix) Add(row, col int, v float64) error {
	off, err := m.offset(row, col)
	if err != nil {
		return err
	}
	m.data[off] += v
	return nil
}

// ScaleRow multiplies every entry in row by factor.
func (m *Matrix) ScaleRow(row int, factor float64) error {
	if row < 0 || row >= m.rows {
		return fmt.Errorf("densematrix.ScaleRow(%d): %w", row, ErrOutOfRange)
	}
	base := row * m.cols
	for c := 0; c < m.cols; c++ {
		m.data[base+c] *= factor
	}
	return nil
}

// RowSum returns the sum of row's entries.
func (m *Matrix) RowSum(row int) (float64, error) {
	if row < 0 || row >= m.rows {
		return 0, fmt.Errorf("densematrix.RowSum(%d): %w", row, ErrOutOfRange)
	}
	base := row * m.cols
	var sum float64
	for c := 0; c < m.cols; c++ {
		sum += m.data[base+c]
	}
	return sum, nil
}

// RenormalizeRow rescales row so its entries sum to exactly 1, provided
// the row's current sum is within tol of 1; otherwise it reports the
// observed sum without modifying the row so the caller can raise
// AncestryInvariantViolated with the offending value.
func (m *Matrix) RenormalizeRow(row int, tol float64) (sum float64, withinTol bool, err error) {
	sum, err = m.RowSum(row)
	if err != nil {
		return 0, false, err
	}
	if math.Abs(sum-1) > tol {
		return sum, false, nil
	}
	if sum != 1 {
		_ = m.ScaleRow(row, 1/sum)
	}
	return sum, true, nil
}

// Row returns a copy of row's entries.
func (m *Matrix) Row(row int) ([]float64, error) {
	if row < 0 || row >= m.rows {
		return nil, fmt.Errorf("densematrix.Row(%d): %w", row, ErrOutOfRange)
	}
	out := make([]float64, m.cols)
	copy(out, m.data[row*m.cols:(row+1)*m.cols])
	return out, nil
}
