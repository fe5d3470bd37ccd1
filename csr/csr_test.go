// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package csr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder[float64](3, 4)
	b.Add(2, 3, 1)
	b.Add(0, 2, 5)
	b.Add(0, 0, 1)
	b.Add(2, 3, 2)
	b.Add(2, 0, -1)
	m := b.Build()

	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 4, m.NNZ())

	cols, vals := m.Row(0)
	assert.Equal(t, []int{0, 2}, cols)
	assert.Equal(t, []float64{1, 5}, vals)
	assert.Equal(t, 0, m.RowCount(1))
	cols, vals = m.Row(2)
	assert.Equal(t, []int{0, 3}, cols)
	assert.Equal(t, []float64{-1, 3}, vals)

	assert.Equal(t, 3.0, m.At(2, 3))
	assert.Equal(t, 0.0, m.At(1, 1))
	assert.Panics(t, func() { m.At(3, 0) })
	assert.Panics(t, func() { b.Add(0, 4, 1) })
}

func TestRowCapacity(t *testing.T) {
	m := Identity[float64](3)
	cols, vals := m.Row(0)
	cols = append(cols, 7)
	vals = append(vals, 7)
	_, _ = cols, vals
	c1, v1 := m.Row(1)
	assert.Equal(t, []int{1}, c1)
	assert.Equal(t, []float64{1}, v1)
}

func TestNew(t *testing.T) {
	m, err := New(2, 2, []int{0, 1, 3}, []int{1, 0, 1}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.At(1, 0))

	for _, tc := range []struct {
		name   string
		r, c   int
		rowPtr []int
		colInd []int
		want   error
	}{
		{"short rowPtr", 2, 2, []int{0, 1}, []int{0}, ErrBadShape},
		{"nonzero start", 1, 1, []int{1, 1}, nil, ErrBadShape},
		{"decreasing", 2, 2, []int{0, 2, 1}, []int{0}, ErrBadShape},
		{"column range", 1, 2, []int{0, 1}, []int{2}, ErrIndex},
		{"negative column", 1, 2, []int{0, 1}, []int{-1}, ErrIndex},
	} {
		vals := make([]float64, len(tc.colInd))
		_, err := New(tc.r, tc.c, tc.rowPtr, tc.colInd, vals)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestMulVecTransposeLower(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const r, c = 7, 5
	var dense [r][c]float64
	b := NewBuilder[float64](r, c)
	for k := 0; k < 20; k++ {
		i, j, v := rnd.Intn(r), rnd.Intn(c), rnd.NormFloat64()
		dense[i][j] += v
		b.Add(i, j, v)
	}
	m := b.Build()

	x := make([]float64, c)
	for i := range x {
		x[i] = rnd.NormFloat64()
	}
	want := make([]float64, r)
	for i := range want {
		for j, v := range dense[i] {
			want[i] += v * x[j]
		}
	}
	got := make([]float64, r)
	m.MulVec(got, x)
	assert.InDeltaSlice(t, want, got, 1e-12)

	mt := m.Transpose()
	rt, ct := mt.Dims()
	assert.Equal(t, [2]int{c, r}, [2]int{rt, ct})
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			assert.Equal(t, m.At(i, j), mt.At(j, i))
		}
	}

	low := m.Lower()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if j <= i {
				assert.Equal(t, m.At(i, j), low.At(i, j))
			} else {
				assert.Zero(t, low.At(i, j))
			}
		}
	}
	assert.Panics(t, func() { m.MulVec(got, want) })
}

func TestDiagonal(t *testing.T) {
	m := Diagonal([]float32{2, 3})
	dst := make([]float32, 2)
	m.MulVec(dst, []float32{1, 1})
	assert.Equal(t, []float32{2, 3}, dst)
	assert.Equal(t, 2, Identity[float32](2).NNZ())
}
