// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Solve solves the system of n linear equations
//  A x = b,
// where A is an n×n symmetric positive definite sparse matrix, using the
// conjugate gradient method preconditioned with
//  M = L Lᵀ.
// l and lt hold L and Lᵀ, typically an incomplete Cholesky factorization of A.
//
// x holds the initial estimate on entry and the approximate solution on
// return. It is updated in place. a, b, l and lt are not modified.
//
// On success the returned error is nil and Result.Iterations is the number of
// steps after which
//  |A x - b|^2 <= settings.Tolerance^2.
// Otherwise the error is ErrDiverged, ErrIterationLimit or a *DependencyError
// carrying the error of a triangular solve. In all cases Result holds the
// statistics of the work done.
//
// Solve panics if the dimensions of the operands do not agree or if settings
// are invalid. ctx is used only for tracing; Solve runs until convergence,
// divergence or MaxSteps and does not observe cancellation.
func Solve[T Float](ctx context.Context, a Matrix[T], x, b []T, l, lt Matrix[T], settings Settings[T]) (Result, error) {
	stats := Stats{StartTime: time.Now()}

	n := len(x)
	switch {
	case len(b) != n:
		panic("icpcg: mismatched length of right-hand side")
	case !square(a, n):
		panic("icpcg: mismatched dimension of A")
	case !square(l, n) || !square(lt, n):
		panic("icpcg: mismatched dimension of preconditioner")
	case settings.Tolerance < 0 || math.IsNaN(float64(settings.Tolerance)):
		panic("icpcg: invalid tolerance")
	case settings.MaxSteps < 0:
		panic("icpcg: negative MaxSteps")
	case settings.Threads < 0 || settings.ChunkSize < 0:
		panic("icpcg: invalid parallel settings")
	}
	if settings.LowerSolve == nil {
		settings.LowerSolve = LowerSolve[T]
	}
	if settings.UpperSolve == nil {
		settings.UpperSolve = UpperSolve[T]
	}

	sched := newSchedule(n, settings.Threads, settings.ChunkSize)
	log := settings.logger()
	ctx, span := startSolveSpan(ctx, n, sched.threads, sched.chunk, float64(settings.Tolerance), settings.MaxSteps)

	log.LogAttrs(ctx, slog.LevelInfo, "pcg solve",
		slog.Int("dim", n),
		slog.Float64("tolerance", float64(settings.Tolerance)),
		slog.Int("max_steps", settings.MaxSteps),
		slog.Int("threads", sched.threads),
	)

	step, outcome, err := iterate(ctx, log, a, x, b, l, lt, &settings, sched, &stats)

	stats.Iterations = step
	stats.Runtime = time.Since(stats.StartTime)
	switch outcome {
	case outcomeConverged:
		log.LogAttrs(ctx, slog.LevelInfo, "pcg converged",
			slog.Int("steps", step),
			slog.Float64("residual_norm", stats.ResidualNorm),
			slog.Duration("runtime", stats.Runtime),
		)
	case outcomeLimit:
		log.LogAttrs(ctx, slog.LevelError, "pcg did not converge",
			slog.Int("max_steps", settings.MaxSteps),
			slog.Float64("residual_norm", stats.ResidualNorm),
		)
	default:
		log.LogAttrs(ctx, slog.LevelError, "pcg failed",
			slog.Int("step", step),
			slog.String("error", err.Error()),
		)
	}
	endSolveSpan(span, outcome, step, err)
	recordSolveMetrics(ctx, outcome, step, stats.Runtime)

	return Result{
		Iterations: step,
		Stats:      stats,
	}, err
}

func iterate[T Float](ctx context.Context, log *slog.Logger, a Matrix[T], x, b []T, l, lt Matrix[T], settings *Settings[T], sched schedule, stats *Stats) (int, string, error) {
	s := newPCG(a, l, lt, settings.LowerSolve, settings.UpperSolve, sched)
	trace := log.Enabled(ctx, LevelTrace)

	gg := s.residual(x, b) // g = A x - b
	stats.MatVec++
	stats.ResidualNorm = math.Sqrt(float64(gg))
	if settings.History {
		stats.Residuals = append(stats.Residuals, stats.ResidualNorm)
	}

	if err := s.precondition(0); err != nil {
		return 0, outcomeDependency, err
	}
	stats.PSolve++
	gq := s.firstDirection() // p = -q

	epsilon := settings.Tolerance * settings.Tolerance
	step := 0
	for {
		if math.IsNaN(float64(gg)) {
			return step, outcomeDiverged, fmt.Errorf("%w: residual norm is NaN at step %d", ErrDiverged, step)
		}
		if gg <= epsilon {
			return step, outcomeConverged, nil
		}
		if step >= settings.MaxSteps {
			return step, outcomeLimit, fmt.Errorf("%w: %d steps", ErrIterationLimit, settings.MaxSteps)
		}

		pw := s.mulDirection() // w = A p
		stats.MatVec++
		alpha := gq / pw
		if !finite(alpha) {
			return step, outcomeDiverged, fmt.Errorf("%w: alpha = %v at step %d", ErrDiverged, alpha, step)
		}

		gngn := s.step(x, alpha)

		if err := s.precondition(step); err != nil {
			return step, outcomeDependency, err
		}
		stats.PSolve++
		gnqn := s.residualDot()
		beta := gnqn / gq
		if !finite(beta) {
			return step, outcomeDiverged, fmt.Errorf("%w: beta = %v at step %d", ErrDiverged, beta, step)
		}
		s.nextDirection(beta)

		gg = gngn
		gq = gnqn
		stats.ResidualNorm = math.Sqrt(float64(gg))
		if settings.History {
			stats.Residuals = append(stats.Residuals, stats.ResidualNorm)
		}
		if trace {
			log.LogAttrs(ctx, LevelTrace, "pcg step",
				slog.Int("step", step),
				slog.Float64("gg", float64(gg)),
			)
		}
		step++
	}
}

func square[T Float](m Matrix[T], n int) bool {
	r, c := m.Dims()
	return r == n && c == n
}

func finite[T Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
