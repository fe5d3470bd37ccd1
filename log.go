// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package icpcg

import "log/slog"

// LevelTrace is the level of the per-step residual log records. It is below
// slog.LevelDebug, so handlers must be configured for it explicitly.
const LevelTrace = slog.LevelDebug - 4

var discardLogger = slog.New(slog.DiscardHandler)

func (s *Settings[T]) logger() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger.With(slog.String("solver", "icpcg"))
}
