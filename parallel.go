// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const defaultChunkSize = 64

// schedule splits a row range [0, n) into chunks of size rows that are
// handed out to at most threads goroutines.
type schedule struct {
	n       int
	chunk   int
	threads int
}

func newSchedule(n, threads, chunk int) schedule {
	if threads == 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if chunk == 0 {
		chunk = defaultChunkSize
	}
	return schedule{n: n, chunk: chunk, threads: threads}
}

func (s schedule) chunks() int {
	return (s.n + s.chunk - 1) / s.chunk
}

func (s schedule) bounds(c int) (lo, hi int) {
	lo = c * s.chunk
	return lo, min(lo+s.chunk, s.n)
}

// reducer runs fork-join passes over the rows of a schedule. Each chunk's
// partial result has its own slot, and the slots are added in chunk order
// after the join, so the sum does not depend on the number of goroutines or
// on which goroutine ran which chunk.
type reducer[T Float] struct {
	sched   schedule
	partial []T
}

func newReducer[T Float](s schedule) *reducer[T] {
	return &reducer[T]{
		sched:   s,
		partial: make([]T, s.chunks()),
	}
}

// reduceRows calls fn for every chunk [lo, hi) of rows and returns the sum of
// the returned values. fn may be called concurrently for different chunks.
// It must write only to rows within its chunk.
func (r *reducer[T]) reduceRows(fn func(lo, hi int) T) T {
	nc := len(r.partial)
	workers := min(r.sched.threads, nc)
	if workers <= 1 {
		for c := 0; c < nc; c++ {
			r.partial[c] = fn(r.sched.bounds(c))
		}
	} else {
		var next atomic.Int64
		var g errgroup.Group
		for w := 0; w < workers; w++ {
			g.Go(func() error {
				for {
					c := int(next.Add(1)) - 1
					if c >= nc {
						return nil
					}
					r.partial[c] = fn(r.sched.bounds(c))
				}
			})
		}
		_ = g.Wait() // Chunk functions do not fail.
	}

	var sum T
	for _, v := range r.partial {
		sum += v
	}
	return sum
}

// forRows is reduceRows for passes that produce no scalar.
func (r *reducer[T]) forRows(fn func(lo, hi int)) {
	r.reduceRows(func(lo, hi int) T {
		fn(lo, hi)
		return 0
	})
}
