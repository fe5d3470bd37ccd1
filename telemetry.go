// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("github.com/vladimir-ch/icpcg")
	meter  = otel.Meter("github.com/vladimir-ch/icpcg")
)

var (
	solveTotal      metric.Int64Counter
	solveIterations metric.Int64Histogram
	solveDuration   metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// Outcomes recorded on spans and metrics.
const (
	outcomeConverged  = "converged"
	outcomeDiverged   = "diverged"
	outcomeLimit      = "iteration_limit"
	outcomeDependency = "dependency_error"
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error
		solveTotal, err = meter.Int64Counter(
			"icpcg_solve_total",
			metric.WithDescription("Number of PCG solves by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		solveIterations, err = meter.Int64Histogram(
			"icpcg_solve_iterations",
			metric.WithDescription("Iterations done per PCG solve"),
		)
		if err != nil {
			metricsErr = err
			return
		}
		solveDuration, err = meter.Float64Histogram(
			"icpcg_solve_duration_seconds",
			metric.WithDescription("Duration of PCG solves"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func startSolveSpan(ctx context.Context, n, threads, chunk int, tol float64, maxSteps int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "icpcg.Solve",
		trace.WithAttributes(
			attribute.Int("icpcg.dim", n),
			attribute.Int("icpcg.threads", threads),
			attribute.Int("icpcg.chunk_size", chunk),
			attribute.Float64("icpcg.tolerance", tol),
			attribute.Int("icpcg.max_steps", maxSteps),
		),
	)
}

func endSolveSpan(span trace.Span, outcome string, iterations int, err error) {
	span.SetAttributes(
		attribute.String("icpcg.outcome", outcome),
		attribute.Int("icpcg.iterations", iterations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	span.End()
}

func recordSolveMetrics(ctx context.Context, outcome string, iterations int, d time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	solveTotal.Add(ctx, 1, attrs)
	solveIterations.Record(ctx, int64(iterations), attrs)
	solveDuration.Record(ctx, d.Seconds(), attrs)
}
