// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotResiduals saves the residual norm history on a logarithmic axis. The
// image format follows the file extension.
func plotResiduals(path string, residuals []float64) error {
	if len(residuals) == 0 {
		return errors.New("no residual history to plot")
	}
	pts := make(plotter.XYs, 0, len(residuals))
	for i, r := range residuals {
		// Zero cannot be shown on a log scale.
		if r <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: r})
	}
	if len(pts) == 0 {
		return errors.New("no positive residuals to plot")
	}

	p := plot.New()
	p.Title.Text = "PCG residual history"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "|A x - b|"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
