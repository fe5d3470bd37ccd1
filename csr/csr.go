// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package csr provides a compressed sparse row matrix for use with the icpcg
// solver, and an incomplete Cholesky factorization producing its
// preconditioner.
package csr

import (
	"errors"
	"fmt"

	"github.com/vladimir-ch/icpcg"
	"github.com/vladimir-ch/icpcg/internal/triplet"
)

var (
	// ErrBadShape is returned when the row pointer array does not describe
	// the requested shape.
	ErrBadShape = errors.New("csr: invalid shape")

	// ErrIndex is returned when a column index is out of range.
	ErrIndex = errors.New("csr: index out of range")

	// ErrNotSquare is returned when a square matrix is required.
	ErrNotSquare = errors.New("csr: matrix is not square")

	// ErrNotPositiveDefinite is returned by IncompleteCholesky when a pivot
	// is not positive.
	ErrNotPositiveDefinite = errors.New("csr: matrix is not positive definite")
)

// Matrix is an r×c sparse matrix in compressed sparse row form. The entries
// of row i are colInd[rowPtr[i]:rowPtr[i+1]] and the same range of values.
// A Matrix is not modified after construction and is safe for concurrent
// reads.
type Matrix[T icpcg.Float] struct {
	r, c   int
	rowPtr []int
	colInd []int
	values []T
}

var _ icpcg.Matrix[float64] = (*Matrix[float64])(nil)

// New returns an r×c matrix backed by the given arrays. The arrays are used
// directly and must not be modified afterwards.
func New[T icpcg.Float](r, c int, rowPtr, colInd []int, values []T) (*Matrix[T], error) {
	if r < 0 || c < 0 || len(rowPtr) != r+1 || rowPtr[0] != 0 {
		return nil, fmt.Errorf("%d×%d with %d row pointers: %w", r, c, len(rowPtr), ErrBadShape)
	}
	nnz := rowPtr[r]
	if len(colInd) != nnz || len(values) != nnz {
		return nil, fmt.Errorf("%d nonzeros, %d column indices, %d values: %w", nnz, len(colInd), len(values), ErrBadShape)
	}
	for i := 0; i < r; i++ {
		if rowPtr[i] > rowPtr[i+1] {
			return nil, fmt.Errorf("row %d: decreasing row pointer: %w", i, ErrBadShape)
		}
	}
	for k, j := range colInd {
		if j < 0 || c <= j {
			return nil, fmt.Errorf("entry %d: column %d: %w", k, j, ErrIndex)
		}
	}
	return &Matrix[T]{r: r, c: c, rowPtr: rowPtr, colInd: colInd, values: values}, nil
}

// Identity returns the n×n identity matrix.
func Identity[T icpcg.Float](n int) *Matrix[T] {
	d := make([]T, n)
	for i := range d {
		d[i] = 1
	}
	return Diagonal(d)
}

// Diagonal returns the square matrix with d on its diagonal.
func Diagonal[T icpcg.Float](d []T) *Matrix[T] {
	n := len(d)
	m := &Matrix[T]{
		r:      n,
		c:      n,
		rowPtr: make([]int, n+1),
		colInd: make([]int, n),
		values: make([]T, n),
	}
	for i, v := range d {
		m.rowPtr[i+1] = i + 1
		m.colInd[i] = i
		m.values[i] = v
	}
	return m
}

func (m *Matrix[T]) Dims() (r, c int) {
	return m.r, m.c
}

// NNZ returns the number of stored entries.
func (m *Matrix[T]) NNZ() int {
	return len(m.values)
}

func (m *Matrix[T]) RowCount(i int) int {
	return m.rowPtr[i+1] - m.rowPtr[i]
}

// Row returns the column indices and values of row i, sorted by column when
// the matrix was built with a Builder. The slices have their capacity
// limited to the row, so appending to them never overwrites another row.
func (m *Matrix[T]) Row(i int) (cols []int, vals []T) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	return m.colInd[lo:hi:hi], m.values[lo:hi:hi]
}

// At returns the entry at (i, j).
func (m *Matrix[T]) At(i, j int) T {
	if i < 0 || m.r <= i || j < 0 || m.c <= j {
		panic("csr: index out of range")
	}
	cols, vals := m.Row(i)
	var v T
	for k, c := range cols {
		if c == j {
			v += vals[k]
		}
	}
	return v
}

// MulVec computes dst = m x.
func (m *Matrix[T]) MulVec(dst, x []T) {
	if len(x) != m.c || len(dst) != m.r {
		panic("csr: dimension mismatch")
	}
	for i := 0; i < m.r; i++ {
		cols, vals := m.Row(i)
		var sum T
		for k, j := range cols {
			sum += vals[k] * x[j]
		}
		dst[i] = sum
	}
}

// Transpose returns a new matrix holding mᵀ with rows sorted by column.
func (m *Matrix[T]) Transpose() *Matrix[T] {
	t := triplet.New[T](m.c, m.r)
	for i := 0; i < m.r; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			t.Append(j, i, vals[k])
		}
	}
	return fromTriplet(t)
}

// Lower returns a new matrix holding the lower triangle of m, diagonal
// included.
func (m *Matrix[T]) Lower() *Matrix[T] {
	t := triplet.New[T](m.r, m.c)
	for i := 0; i < m.r; i++ {
		cols, vals := m.Row(i)
		for k, j := range cols {
			if j <= i {
				t.Append(i, j, vals[k])
			}
		}
	}
	return fromTriplet(t)
}

// Builder assembles a Matrix from individual entries.
type Builder[T icpcg.Float] struct {
	t *triplet.Matrix[T]
}

// NewBuilder returns a Builder for an r×c matrix.
func NewBuilder[T icpcg.Float](r, c int) *Builder[T] {
	return &Builder[T]{t: triplet.New[T](r, c)}
}

// Add adds v to the entry at (i, j). It panics if (i, j) is out of range.
func (b *Builder[T]) Add(i, j int, v T) {
	b.t.Append(i, j, v)
}

// Build returns the assembled matrix. Entries added at the same position are
// summed. The Builder can still be used afterwards.
func (b *Builder[T]) Build() *Matrix[T] {
	return fromTriplet(b.t)
}

func fromTriplet[T icpcg.Float](t *triplet.Matrix[T]) *Matrix[T] {
	r, c := t.Dims()
	rowPtr, colInd, values := t.Compress()
	return &Matrix[T]{r: r, c: c, rowPtr: rowPtr, colInd: colInd, values: values}
}
