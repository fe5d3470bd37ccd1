// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg_test

import (
	"math/rand"

	"github.com/vladimir-ch/icpcg/csr"
)

// randomSPD returns a dense symmetric positive definite matrix stored as a
// sparse one, together with its upper triangle in row-major order.
func randomSPD(n int, rnd *rand.Rand) (*csr.Matrix[float64], []float64) {
	a := make([]float64, n*n)
	lda := n
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a[i*lda+j] = rnd.Float64()
		}
	}
	for i := 0; i < n; i++ {
		a[i*lda+i] += float64(n)
	}
	b := csr.NewBuilder[float64](n, n)
	for i := 0; i < n; i++ {
		b.Add(i, i, a[i*lda+i])
		for j := i + 1; j < n; j++ {
			b.Add(i, j, a[i*lda+j])
			b.Add(j, i, a[i*lda+j])
		}
	}
	return b.Build(), a
}

// laplace2D returns the five-point finite difference Laplacian on a k×k grid.
func laplace2D[T float32 | float64](k int) *csr.Matrix[T] {
	n := k * k
	b := csr.NewBuilder[T](n, n)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			row := i*k + j
			b.Add(row, row, 4)
			if i > 0 {
				b.Add(row, row-k, -1)
			}
			if i < k-1 {
				b.Add(row, row+k, -1)
			}
			if j > 0 {
				b.Add(row, row-1, -1)
			}
			if j < k-1 {
				b.Add(row, row+1, -1)
			}
		}
	}
	return b.Build()
}

// tridiag returns the n×n matrix with 2 on the diagonal and -1 next to it.
func tridiag[T float32 | float64](n int) *csr.Matrix[T] {
	b := csr.NewBuilder[T](n, n)
	for i := 0; i < n; i++ {
		b.Add(i, i, 2)
		if i > 0 {
			b.Add(i, i-1, -1)
		}
		if i < n-1 {
			b.Add(i, i+1, -1)
		}
	}
	return b.Build()
}

func ones[T float32 | float64](n int) []T {
	v := make([]T, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// rhsFor returns a*want.
func rhsFor[T float32 | float64](a *csr.Matrix[T], want []T) []T {
	b := make([]T, len(want))
	a.MulVec(b, want)
	return b
}
