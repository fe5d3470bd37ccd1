// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg

import "fmt"

// LowerSolve solves
//  l dst = rhs
// by forward substitution, where l is lower triangular. Entries of l above the
// diagonal are ignored and the order of entries within a row does not matter.
// Duplicate entries in a row add up. It returns ErrZeroPivot if a row has no
// diagonal entry. A diagonal entry stored as zero is divided by, leaving Inf
// or NaN in dst.
func LowerSolve[T Float](l Matrix[T], dst, rhs []T) error {
	n, err := triangularDims(l, dst, rhs)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		cols, vals := l.Row(i)
		sum := rhs[i]
		var diag T
		found := false
		for k, j := range cols {
			switch {
			case j < i:
				sum -= vals[k] * dst[j]
			case j == i:
				diag += vals[k]
				found = true
			}
		}
		if !found {
			return fmt.Errorf("row %d: %w", i, ErrZeroPivot)
		}
		dst[i] = sum / diag
	}
	return nil
}

// UpperSolve solves
//  u dst = rhs
// by backward substitution, where u is upper triangular. Entries of u below the
// diagonal are ignored. Pivots are handled as in LowerSolve.
func UpperSolve[T Float](u Matrix[T], dst, rhs []T) error {
	n, err := triangularDims(u, dst, rhs)
	if err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		cols, vals := u.Row(i)
		sum := rhs[i]
		var diag T
		found := false
		for k, j := range cols {
			switch {
			case j > i:
				sum -= vals[k] * dst[j]
			case j == i:
				diag += vals[k]
				found = true
			}
		}
		if !found {
			return fmt.Errorf("row %d: %w", i, ErrZeroPivot)
		}
		dst[i] = sum / diag
	}
	return nil
}

func triangularDims[T Float](t Matrix[T], dst, rhs []T) (int, error) {
	r, c := t.Dims()
	if r != c || len(dst) != r || len(rhs) != r {
		return 0, fmt.Errorf("%d×%d matrix, len(dst)=%d, len(rhs)=%d: %w",
			r, c, len(dst), len(rhs), ErrDimensionMismatch)
	}
	return r, nil
}
