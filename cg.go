// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg

// pcg holds the operands and working vectors of a single solve. The working
// vectors are allocated by newPCG and are not shared between solves.
type pcg[T Float] struct {
	a, l, lt     Matrix[T]
	lower, upper TriangularSolve[T]
	red          *reducer[T]

	g []T // Residual A x - b.
	p []T // Search direction.
	w []T // A p.
	q []T // Preconditioned residual.
	r []T // Solution of L r = g.
}

func newPCG[T Float](a, l, lt Matrix[T], lower, upper TriangularSolve[T], s schedule) *pcg[T] {
	return &pcg[T]{
		a:     a,
		l:     l,
		lt:    lt,
		lower: lower,
		upper: upper,
		red:   newReducer[T](s),
		g:     make([]T, s.n),
		p:     make([]T, s.n),
		w:     make([]T, s.n),
		q:     make([]T, s.n),
		r:     make([]T, s.n),
	}
}

// rowDot returns the product of row i of a with v.
func rowDot[T Float](a Matrix[T], i int, v []T) T {
	nnz := a.RowCount(i)
	cols, vals := a.Row(i)
	cols, vals = cols[:nnz], vals[:nnz]
	var sum T
	for k, j := range cols {
		sum += vals[k] * v[j]
	}
	return sum
}

// residual computes g = A x - b and returns g·g.
func (s *pcg[T]) residual(x, b []T) T {
	return s.red.reduceRows(func(lo, hi int) T {
		var gg T
		for i := lo; i < hi; i++ {
			gi := rowDot(s.a, i, x) - b[i]
			s.g[i] = gi
			gg += gi * gi
		}
		return gg
	})
}

// precondition solves M q = g with M = L Lᵀ.
func (s *pcg[T]) precondition(step int) error {
	if err := s.lower(s.l, s.r, s.g); err != nil {
		return &DependencyError{Op: "lower solve", Step: step, Err: err}
	}
	if err := s.upper(s.lt, s.q, s.r); err != nil {
		return &DependencyError{Op: "upper solve", Step: step, Err: err}
	}
	return nil
}

// firstDirection sets p = -q and returns g·q.
func (s *pcg[T]) firstDirection() T {
	return s.red.reduceRows(func(lo, hi int) T {
		var gq T
		for i := lo; i < hi; i++ {
			s.p[i] = -s.q[i]
			gq += s.g[i] * s.q[i]
		}
		return gq
	})
}

// mulDirection computes w = A p and returns p·w.
func (s *pcg[T]) mulDirection() T {
	return s.red.reduceRows(func(lo, hi int) T {
		var pw T
		for i := lo; i < hi; i++ {
			wi := rowDot(s.a, i, s.p)
			s.w[i] = wi
			pw += s.p[i] * wi
		}
		return pw
	})
}

// step updates x = x + alpha p and g = g + alpha w and returns the new g·g.
func (s *pcg[T]) step(x []T, alpha T) T {
	return s.red.reduceRows(func(lo, hi int) T {
		var gg T
		for i := lo; i < hi; i++ {
			x[i] += alpha * s.p[i]
			s.g[i] += alpha * s.w[i]
			gg += s.g[i] * s.g[i]
		}
		return gg
	})
}

// residualDot returns g·q.
func (s *pcg[T]) residualDot() T {
	return s.red.reduceRows(func(lo, hi int) T {
		var gq T
		for i := lo; i < hi; i++ {
			gq += s.g[i] * s.q[i]
		}
		return gq
	})
}

// nextDirection sets p = beta p - q.
func (s *pcg[T]) nextDirection(beta T) {
	s.red.forRows(func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s.p[i] = beta*s.p[i] - s.q[i]
		}
	})
}
