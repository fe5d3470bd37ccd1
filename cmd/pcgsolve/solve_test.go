// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimir-ch/icpcg"
	"github.com/vladimir-ch/icpcg/internal/config"
	"github.com/vladimir-ch/icpcg/internal/market"
)

// writeLaplace1D writes the symmetric n×n tridiagonal matrix tridiag(-1, 2, -1)
// and returns its path.
func writeLaplace1D(t *testing.T, dir string, n int) string {
	var buf strings.Builder
	buf.WriteString("%%MatrixMarket matrix coordinate real symmetric\n")
	fmt.Fprintf(&buf, "%d %d %d\n", n, n, 2*n-1)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&buf, "%d %d 2\n", i, i)
		if i > 1 {
			fmt.Fprintf(&buf, "%d %d -1\n", i, i-1)
		}
	}
	path := filepath.Join(dir, "a.mtx")
	require.NoError(t, os.WriteFile(path, []byte(buf.String()), 0o644))
	return path
}

func TestRunSolve(t *testing.T) {
	dir := t.TempDir()
	opts := solveOptions{
		matrix: writeLaplace1D(t, dir, 30),
		output: filepath.Join(dir, "x.mtx"),
		plot:   filepath.Join(dir, "res.png"),
	}
	cfg := config.Default()
	cfg.Solver.Tolerance = 1e-10

	var stdout, stderr bytes.Buffer
	require.NoError(t, runSolve(context.Background(), &stdout, &stderr, cfg, opts))

	out := stdout.String()
	assert.Contains(t, out, "dimension:       30\n")
	assert.Contains(t, out, "nonzeros A, L:   88, 59\n")
	// IC(0) of a tridiagonal matrix is exact.
	assert.Contains(t, out, "iterations:      1\n")
	assert.Contains(t, stderr.String(), "pcg converged")

	f, err := os.Open(opts.output)
	require.NoError(t, err)
	defer f.Close()
	x, err := market.ReadVector(f)
	require.NoError(t, err)
	require.Len(t, x, 30)
	for i, v := range x {
		assert.InDelta(t, 1, v, 1e-8, "x[%d]", i)
	}

	info, err := os.Stat(opts.plot)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunSolveRHS(t *testing.T) {
	dir := t.TempDir()
	rhs := filepath.Join(dir, "b.mtx")
	require.NoError(t, writeVector(rhs, []float64{1, 0, 0, 1}))

	var stdout bytes.Buffer
	err := runSolve(context.Background(), &stdout, &bytes.Buffer{}, config.Default(), solveOptions{
		matrix: writeLaplace1D(t, dir, 4),
		rhs:    rhs,
	})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "dimension:       4\n")

	require.NoError(t, writeVector(rhs, []float64{1, 2}))
	err = runSolve(context.Background(), &stdout, &bytes.Buffer{}, config.Default(), solveOptions{
		matrix: writeLaplace1D(t, dir, 4),
		rhs:    rhs,
	})
	assert.ErrorContains(t, err, "length 2, want 4")
}

func TestRunSolveIterationLimit(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Solver.MaxSteps = 0

	var stdout bytes.Buffer
	err := runSolve(context.Background(), &stdout, &bytes.Buffer{}, cfg, solveOptions{
		matrix: writeLaplace1D(t, dir, 10),
	})
	require.ErrorIs(t, err, icpcg.ErrIterationLimit)
	assert.Contains(t, stdout.String(), "iterations:      0\n")
}

func TestSolveCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeLaplace1D(t, dir, 12)
	cfgPath := filepath.Join(dir, "pcg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("solver:\n  max_steps: 0\nlog:\n  level: error\n"), 0o644))

	cmd := newSolveCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-A", a, "-c", cfgPath, "--max-steps", "50", "--threads", "2"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "iterations:      1\n")

	cmd = newSolveCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-A", a, "--log-level", "loud"})
	assert.Error(t, cmd.Execute())

	cmd = newSolveCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute(), "matrix flag is required")
}
