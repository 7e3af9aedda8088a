// Scrobblerec - Listening-Event Recommender Toolkit
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblerec

package uam

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrMalformedInput is returned for unparsable or inconsistent input files.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDimensionMismatch is returned when matrix and registry sizes disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Matrix is a dense users × artists interaction matrix.
type Matrix struct {
	dense *mat.Dense
}

// NewMatrix allocates a zero matrix. Both dimensions must be positive.
func NewMatrix(users, artists int) *Matrix {
	return &Matrix{dense: mat.NewDense(users, artists, nil)}
}

// FromRows builds a matrix from row slices. All rows must have the same,
// non-zero length and contain only finite non-negative values.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrMalformedInput)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for u, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedInput, u, len(row), cols)
		}
		for a, v := range row {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: invalid value %v at (%d, %d)", ErrMalformedInput, v, u, a)
			}
		}
		data = append(data, row...)
	}
	return &Matrix{dense: mat.NewDense(len(rows), cols, data)}, nil
}

// Dims returns the number of users and artists.
func (m *Matrix) Dims() (users, artists int) {
	return m.dense.Dims()
}

// At returns the value for user u and artist a.
func (m *Matrix) At(u, a int) float64 {
	return m.dense.At(u, a)
}

// Set stores v for user u and artist a.
func (m *Matrix) Set(u, a int, v float64) {
	m.dense.Set(u, a, v)
}

// Row returns a copy of user u's row.
func (m *Matrix) Row(u int) []float64 {
	return mat.Row(nil, u, m.dense)
}

// Dense exposes the backing gonum matrix. It shares storage with m.
func (m *Matrix) Dense() *mat.Dense {
	return m.dense
}

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{dense: mat.DenseCopyOf(m.dense)}
}

// NonZero returns the artist indices with a nonzero value for user u, ascending.
func (m *Matrix) NonZero(u int) []int {
	row := m.dense.RawRowView(u)
	idx := make([]int, 0, 16)
	for a, v := range row {
		if v != 0 {
			idx = append(idx, a)
		}
	}
	return idx
}

// RowSum returns the sum of user u's row.
func (m *Matrix) RowSum(u int) float64 {
	return floats.Sum(m.dense.RawRowView(u))
}

// ZeroEntries sets the given artist entries of user u to zero.
func (m *Matrix) ZeroEntries(u int, artists []int) {
	row := m.dense.RawRowView(u)
	for _, a := range artists {
		row[a] = 0
	}
}

// NormalizeRow rescales user u's row to sum to 1.
// An all-zero row is left untouched and false is returned.
func (m *Matrix) NormalizeRow(u int) bool {
	row := m.dense.RawRowView(u)
	sum := floats.Sum(row)
	if sum == 0 {
		return false
	}
	floats.Scale(1/sum, row)
	return true
}

// NormalizeRows applies NormalizeRow to every user and returns the number of
// all-zero rows that were skipped.
func (m *Matrix) NormalizeRows() int {
	users, _ := m.Dims()
	empty := 0
	for u := 0; u < users; u++ {
		if !m.NormalizeRow(u) {
			empty++
		}
	}
	return empty
}

// CheckNormalized verifies that every row sums to 0 or to 1 within tol.
func (m *Matrix) CheckNormalized(tol float64) error {
	users, _ := m.Dims()
	for u := 0; u < users; u++ {
		sum := m.RowSum(u)
		if sum != 0 && math.Abs(sum-1) > tol {
			return fmt.Errorf("%w: row %d sums to %.6f", ErrMalformedInput, u, sum)
		}
	}
	return nil
}

// Interactions returns the number of nonzero entries.
func (m *Matrix) Interactions() int {
	users, _ := m.Dims()
	n := 0
	for u := 0; u < users; u++ {
		for _, v := range m.dense.RawRowView(u) {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
