// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/vladimir-ch/icpcg"
	"github.com/vladimir-ch/icpcg/csr"
	"github.com/vladimir-ch/icpcg/internal/config"
	"github.com/vladimir-ch/icpcg/internal/market"
)

type solveOptions struct {
	matrix     string
	rhs        string
	configPath string
	output     string
	plot       string

	tolerance float64
	maxSteps  int
	threads   int
	chunkSize int
	logLevel  string
	logFormat string
}

func newSolveCmd() *cobra.Command {
	var opts solveOptions
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve A x = b",
		Long: `Reads A (and optionally b) from Matrix Market files, computes the
incomplete Cholesky factorization of A without fill-in and solves A x = b with
the preconditioned conjugate gradient method starting from x = 0. Without
--rhs, b is set to A times the vector of ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config(cmd)
			if err != nil {
				return err
			}
			return runSolve(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.matrix, "matrix", "A", "", "Matrix Market file with the coordinate matrix A")
	f.StringVarP(&opts.rhs, "rhs", "b", "", "Matrix Market file with the right-hand side vector")
	f.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	f.StringVarP(&opts.output, "output", "o", "", "write the solution vector to this file")
	f.StringVar(&opts.plot, "plot", "", "write a residual history plot (png, svg or pdf)")
	f.Float64Var(&opts.tolerance, "tolerance", 0, "residual norm tolerance")
	f.IntVar(&opts.maxSteps, "max-steps", 0, "maximum number of iterations")
	f.IntVar(&opts.threads, "threads", 0, "maximum number of worker goroutines (0: GOMAXPROCS)")
	f.IntVar(&opts.chunkSize, "chunk-size", 0, "rows per work chunk (0: 64)")
	f.StringVar(&opts.logLevel, "log-level", "", "error, warn, summary, debug or trace")
	f.StringVar(&opts.logFormat, "log-format", "", "text or json")
	_ = cmd.MarkFlagRequired("matrix")
	return cmd
}

// config loads the configuration file, if any, and applies the flags that
// were set on the command line.
func (o *solveOptions) config(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	f := cmd.Flags()
	if f.Changed("tolerance") {
		cfg.Solver.Tolerance = o.tolerance
	}
	if f.Changed("max-steps") {
		cfg.Solver.MaxSteps = o.maxSteps
	}
	if f.Changed("threads") {
		cfg.Solver.Threads = o.threads
	}
	if f.Changed("chunk-size") {
		cfg.Solver.ChunkSize = o.chunkSize
	}
	if f.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	return cfg, cfg.Validate()
}

func runSolve(ctx context.Context, stdout, stderr io.Writer, cfg config.Config, opts solveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := readMatrix(opts.matrix)
	if err != nil {
		return err
	}
	n, c := a.Dims()
	if n != c {
		return fmt.Errorf("%s: %d×%d: %w", opts.matrix, n, c, csr.ErrNotSquare)
	}

	var b []float64
	if opts.rhs != "" {
		if b, err = readVector(opts.rhs); err != nil {
			return err
		}
		if len(b) != n {
			return fmt.Errorf("%s: length %d, want %d", opts.rhs, len(b), n)
		}
	} else {
		ones := make([]float64, n)
		for i := range ones {
			ones[i] = 1
		}
		b = make([]float64, n)
		a.MulVec(b, ones)
	}

	start := time.Now()
	l, lt, err := csr.IncompleteCholesky(a)
	if err != nil {
		return fmt.Errorf("factorization: %w", err)
	}
	factorTime := time.Since(start)

	settings := cfg.Settings(cfg.Logger(stderr))
	settings.History = opts.plot != ""
	x := make([]float64, n)
	res, solveErr := icpcg.Solve(ctx, a, x, b, l, lt, settings)

	// Residual recomputed from x, independent of the recurrence.
	r := make([]float64, n)
	a.MulVec(r, x)
	floats.Sub(r, b)

	fmt.Fprintf(stdout, "dimension:       %d\n", n)
	fmt.Fprintf(stdout, "nonzeros A, L:   %d, %d\n", a.NNZ(), l.NNZ())
	fmt.Fprintf(stdout, "factorization:   %v\n", factorTime)
	fmt.Fprintf(stdout, "iterations:      %d\n", res.Iterations)
	fmt.Fprintf(stdout, "solve time:      %v\n", res.Stats.Runtime)
	fmt.Fprintf(stdout, "residual norm:   %.5e\n", floats.Norm(r, 2))

	if opts.plot != "" {
		if err := plotResiduals(opts.plot, res.Stats.Residuals); err != nil {
			return err
		}
	}
	if opts.output != "" {
		if err := writeVector(opts.output, x); err != nil {
			return err
		}
	}
	return solveErr
}

func readMatrix(path string) (*csr.Matrix[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := market.ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func readVector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	v, err := market.ReadVector(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func writeVector(path string, v []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := market.WriteVector(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
