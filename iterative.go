// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package icpcg solves large sparse symmetric positive definite linear systems
//  A x = b
// with the preconditioned conjugate gradient method, where the preconditioner
// is an incomplete Cholesky factorization
//  A ≈ L Lᵀ
// supplied by the caller as two sparse triangular matrices.
//
// The heavy passes of each iteration (sparse matrix-vector products, vector
// updates and inner products) are split by rows across a bounded set of
// goroutines and joined before the next pass starts.
package icpcg

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Float is the set of element types the solver works with. All scalar
// arithmetic of a solve is done in the precision of T.
type Float interface {
	~float32 | ~float64
}

// Matrix is read-only row access to a sparse square matrix.
//
// Row returns the column indices and values of the nonzero entries in row i.
// Both slices have length RowCount(i). The order of the entries is defined
// by the implementation and must not change between calls. The returned
// slices must not share memory with any vector passed to Solve, and callers
// must not modify them.
type Matrix[T Float] interface {
	Dims() (r, c int)
	RowCount(i int) int
	Row(i int) (cols []int, vals []T)
}

// TriangularSolve stores into dst the solution of the triangular system
//  t dst = rhs.
// dst and rhs do not overlap.
type TriangularSolve[T Float] func(t Matrix[T], dst, rhs []T) error

var (
	// ErrDiverged is returned when the residual norm becomes NaN or a step
	// coefficient is not finite.
	ErrDiverged = errors.New("icpcg: solve diverged")

	// ErrIterationLimit is returned when MaxSteps iterations were done
	// without reaching the tolerance.
	ErrIterationLimit = errors.New("icpcg: iteration limit reached")

	// ErrZeroPivot is returned by LowerSolve and UpperSolve when a row has
	// no diagonal entry.
	ErrZeroPivot = errors.New("icpcg: structurally zero pivot")

	// ErrDimensionMismatch is returned by LowerSolve and UpperSolve when the
	// matrix and vectors do not agree in size.
	ErrDimensionMismatch = errors.New("icpcg: dimension mismatch")
)

// DependencyError reports a failure of a collaborator called by Solve. The
// original error is kept unmodified in Err.
type DependencyError struct {
	// Op names the failed call, "lower solve" or "upper solve".
	Op string
	// Step is the iteration during which the call failed.
	Step int
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("icpcg: %s at step %d: %v", e.Op, e.Step, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Settings holds various settings for
// solving a linear system.
type Settings[T Float] struct {
	// Tolerance is the threshold on the
	// Euclidean norm of the residual
	//  g = A x - b.
	// The solve converges when
	//  |g|^2 <= Tolerance^2.
	// It must not be negative. Zero is
	// a valid tolerance.
	Tolerance T

	// MaxSteps is the limit on the
	// number of iterations. It must not
	// be negative. If it is zero, only
	// the initial residual is checked.
	MaxSteps int

	// Threads is the maximum number of
	// goroutines used by a parallel
	// pass. If it is zero,
	// runtime.GOMAXPROCS(0) is used.
	Threads int

	// ChunkSize is the number of rows a
	// goroutine takes at a time. If it
	// is zero, 64 is used.
	// Partial sums are combined per
	// chunk in row order, so iterates
	// do not depend on Threads, but
	// they may differ in the last bits
	// for different ChunkSize.
	ChunkSize int

	// LowerSolve and UpperSolve apply
	// the preconditioner
	//  q = (L Lᵀ)⁻¹ g
	// as L r = g followed by Lᵀ q = r.
	// If nil, the forward and backward
	// substitutions of this package
	// are used.
	LowerSolve TriangularSolve[T]
	UpperSolve TriangularSolve[T]

	// Logger receives the solve summary
	// at slog.LevelInfo and the
	// per-step residual at LevelTrace.
	// If nil, nothing is logged.
	Logger *slog.Logger

	// History enables recording of the
	// residual norm after every step in
	// Stats.Residuals.
	History bool
}

// DefaultSettings returns the settings
// used by the command line tool when no
// configuration is given.
func DefaultSettings[T Float]() Settings[T] {
	return Settings[T]{
		Tolerance: 1e-6,
		MaxSteps:  1000,
	}
}

// Result holds the result of a solve.
type Result struct {
	// Iterations is the number of
	// completed iterations. On success
	// it is the step at which the
	// residual met the tolerance.
	Iterations int
	// Stats holds the statistics of the
	// solve.
	Stats Stats
}

// Stats holds statistics about a solve.
type Stats struct {
	// Iterations is the number of
	// iterations done.
	Iterations int
	// MatVec is the number of products
	// with A.
	MatVec int
	// PSolve is the number of
	// preconditioner applications, each
	// a lower and an upper solve.
	PSolve int
	// ResidualNorm is the last computed
	// norm of the residual.
	ResidualNorm float64
	// Residuals holds the residual norm
	// before the first and after every
	// step if Settings.History is set.
	Residuals []float64
	// StartTime is an approximate time
	// when the solve was started.
	StartTime time.Time
	// Runtime is an approximate duration
	// of the solve.
	Runtime time.Duration
}
