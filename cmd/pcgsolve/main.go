// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pcgsolve solves a sparse symmetric positive definite system stored
// in Matrix Market files with the incomplete Cholesky preconditioned conjugate
// gradient method.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "pcgsolve",
	Short:        "Solve sparse SPD systems with IC(0) preconditioned CG",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newSolveCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
