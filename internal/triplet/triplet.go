// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triplet implements a coordinate list used to assemble sparse
// matrices entry by entry.
package triplet

import "sort"

type triplet[T ~float32 | ~float64] struct {
	i, j int
	v    T
}

// Matrix is an r×c matrix stored as an unordered list of (i, j, v) entries.
// Entries with the same (i, j) add up.
type Matrix[T ~float32 | ~float64] struct {
	r, c int
	data []triplet[T]
}

func New[T ~float32 | ~float64](r, c int) *Matrix[T] {
	return &Matrix[T]{
		r: r,
		c: c,
	}
}

func (m *Matrix[T]) Dims() (r, c int) {
	return m.r, m.c
}

// Len returns the number of stored entries, counting duplicates.
func (m *Matrix[T]) Len() int {
	return len(m.data)
}

func (m *Matrix[T]) Append(i, j int, v T) {
	if i < 0 || m.r <= i {
		panic("row index out of range")
	}
	if j < 0 || m.c <= j {
		panic("column index out of range")
	}
	m.data = append(m.data, triplet[T]{i, j, v})
}

// Compress returns the entries in compressed sparse row form. Row i occupies
// colInd[rowPtr[i]:rowPtr[i+1]] and the same range of values, sorted by
// column. Duplicate entries are summed; entries that sum to zero are kept.
func (m *Matrix[T]) Compress() (rowPtr, colInd []int, values []T) {
	data := make([]triplet[T], len(m.data))
	copy(data, m.data)
	sort.SliceStable(data, func(a, b int) bool {
		if data[a].i != data[b].i {
			return data[a].i < data[b].i
		}
		return data[a].j < data[b].j
	})

	rowPtr = make([]int, m.r+1)
	colInd = make([]int, 0, len(data))
	values = make([]T, 0, len(data))
	for k, t := range data {
		if k > 0 && data[k-1].i == t.i && data[k-1].j == t.j {
			values[len(values)-1] += t.v
			continue
		}
		colInd = append(colInd, t.j)
		values = append(values, t.v)
		rowPtr[t.i+1]++
	}
	for i := 0; i < m.r; i++ {
		rowPtr[i+1] += rowPtr[i]
	}
	return rowPtr, colInd, values
}
