// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dok implements a dictionary of keys sparse matrix for random access
// to entries while a factorization is being computed.
package dok

type DOK[T ~float32 | ~float64] struct {
	Rows, Cols int

	data map[index]T
}

type index struct {
	row, col int
}

func New[T ~float32 | ~float64](r, c int) *DOK[T] {
	return &DOK[T]{
		Rows: r,
		Cols: c,
		data: make(map[index]T),
	}
}

// At returns the entry at (i, j) and whether it is stored.
func (m *DOK[T]) At(i, j int) (T, bool) {
	if i < 0 || m.Rows <= i {
		panic("row index out of range")
	}
	if j < 0 || m.Cols <= j {
		panic("column index out of range")
	}
	v, ok := m.data[index{i, j}]
	return v, ok
}

func (m *DOK[T]) SetAt(i, j int, v T) {
	if i < 0 || m.Rows <= i {
		panic("row index out of range")
	}
	if j < 0 || m.Cols <= j {
		panic("column index out of range")
	}
	m.data[index{i, j}] = v
}

// NNZ returns the number of stored entries.
func (m *DOK[T]) NNZ() int {
	return len(m.data)
}
