// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the configuration of the pcgsolve command.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vladimir-ch/icpcg"
)

// Config is the file configuration of pcgsolve. Command line flags override
// individual fields.
type Config struct {
	Solver SolverConfig `yaml:"solver"`
	Log    LogConfig    `yaml:"log"`
}

// SolverConfig mirrors icpcg.Settings.
type SolverConfig struct {
	Tolerance float64 `yaml:"tolerance" validate:"gte=0"`
	MaxSteps  int     `yaml:"max_steps" validate:"gte=0"`
	Threads   int     `yaml:"threads" validate:"gte=0"`
	ChunkSize int     `yaml:"chunk_size" validate:"gte=0"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	// Level is one of error, warn, summary, debug or trace.
	Level string `yaml:"level" validate:"oneof=error warn summary debug trace"`
	// Format is text or json.
	Format string `yaml:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() Config {
	s := icpcg.DefaultSettings[float64]()
	return Config{
		Solver: SolverConfig{
			Tolerance: s.Tolerance,
			MaxSteps:  s.MaxSteps,
		},
		Log: LogConfig{
			Level:  "summary",
			Format: "text",
		},
	}
}

// Load reads a YAML configuration from path. Fields missing from the file
// keep their Default values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a YAML configuration from r on top of Default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Settings converts the solver section into solver settings.
func (c *Config) Settings(logger *slog.Logger) icpcg.Settings[float64] {
	return icpcg.Settings[float64]{
		Tolerance: c.Solver.Tolerance,
		MaxSteps:  c.Solver.MaxSteps,
		Threads:   c.Solver.Threads,
		ChunkSize: c.Solver.ChunkSize,
		Logger:    logger,
	}
}

// Level maps the configured level name to a slog level.
func (c *Config) Level() slog.Level {
	switch c.Log.Level {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	case "trace":
		return icpcg.LevelTrace
	default:
		return slog.LevelInfo
	}
}

// Logger returns a logger writing to w as configured.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
