// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package csr

import (
	"fmt"
	"math"

	"github.com/vladimir-ch/icpcg"
	"github.com/vladimir-ch/icpcg/internal/dok"
)

// IncompleteCholesky computes the incomplete Cholesky factorization without
// fill-in of the symmetric positive definite matrix a. L has nonzero entries
// only where the lower triangle of a has them, and L Lᵀ equals a on that
// pattern. Only the lower triangle of a is read.
//
// It returns L and Lᵀ, ready to be passed to icpcg.Solve. If a pivot is not
// positive or a diagonal entry of a is missing, it returns
// ErrNotPositiveDefinite.
func IncompleteCholesky[T icpcg.Float](a *Matrix[T]) (l, lt *Matrix[T], err error) {
	n, c := a.Dims()
	if n != c {
		return nil, nil, fmt.Errorf("%d×%d: %w", n, c, ErrNotSquare)
	}

	low := a.Lower()
	vals := make([]T, low.NNZ())
	// Entries of L computed so far, for lookups into earlier rows.
	known := dok.New[T](n, n)
	for i := 0; i < n; i++ {
		cols, avals := low.Row(i)
		off := low.rowPtr[i]
		if len(cols) == 0 || cols[len(cols)-1] != i {
			return nil, nil, fmt.Errorf("row %d: missing diagonal: %w", i, ErrNotPositiveDefinite)
		}
		// Columns are sorted, so cols[:k] are the entries of row i left of j.
		for k, j := range cols {
			s := avals[k]
			for kk := 0; kk < k; kk++ {
				if ljm, ok := known.At(j, cols[kk]); ok {
					s -= vals[off+kk] * ljm
				}
			}
			var v T
			if j < i {
				ljj, _ := known.At(j, j)
				v = s / ljj
			} else {
				if !(s > 0) {
					return nil, nil, fmt.Errorf("row %d: pivot %v: %w", i, s, ErrNotPositiveDefinite)
				}
				v = T(math.Sqrt(float64(s)))
			}
			vals[off+k] = v
			known.SetAt(i, j, v)
		}
	}

	l = &Matrix[T]{
		r:      n,
		c:      n,
		rowPtr: low.rowPtr,
		colInd: low.colInd,
		values: vals,
	}
	return l, l.Transpose(), nil
}
