// SPDX-License-Identifier: MIT

// Package config loads a within-group transport problem and its solver and
// driver settings from YAML.
//
// Resolution order: Default(), then the YAML file (Load), then WGS_*
// environment overrides (ApplyEnv). Validate checks the merged result and
// Build assembles the ready-to-solve collaborators.
//
// Example document:
//
//	solver:
//	  kind: gmres
//	  tolerance: 1.0e-8
//	outer:
//	  mode: fixed
//	problem:
//	  discretization: slab
//	  order: 4
//	  materials:
//	    - name: moderator
//	      sigma_t: [1.2, 1.8]
//	      sigma_s: [[0.5, 0.01], [0.2, 0.9]]   # sigma_s[g][gp]: into g from gp
//	  regions:
//	    - {width: 2.0, cells: 10, material: 0, source: [1.0, 0.0]}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ntransport/convergence"
	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/driver"
	"github.com/katalvlaran/ntransport/logging"
	"github.com/katalvlaran/ntransport/solver"
)

// Environment overrides applied by ApplyEnv.
const (
	EnvSolver   = "WGS_SOLVER"
	EnvTol      = "WGS_TOLERANCE"
	EnvMaxIters = "WGS_MAX_ITERS"
	EnvLogLevel = "WGS_LOG_LEVEL"
	EnvMode     = "WGS_MODE"
)

// Outer iteration modes.
const (
	ModeFixed = "fixed"
	ModeEigen = "eigen"
)

var (
	// ErrRead indicates the file could not be read or decoded.
	ErrRead = errors.New("config: cannot read document")

	// ErrInvalid indicates a value outside its admissible range.
	ErrInvalid = errors.New("config: invalid value")

	// ErrShape indicates cross-section or source arrays of inconsistent length.
	ErrShape = errors.New("config: inconsistent group count")

	// ErrNoFission indicates eigen mode without any fissile material.
	ErrNoFission = errors.New("config: eigen mode requires nu_sigma_f > 0 somewhere")
)

func configErrorf(tag string, err error) error {
	return fmt.Errorf("config.%s: %w", tag, err)
}

// Config is the full wgsolve document.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Outer   OuterConfig   `yaml:"outer"`
	Logging LoggingConfig `yaml:"logging"`
	Problem ProblemConfig `yaml:"problem"`
}

// SolverConfig selects and tunes the within-group solver.
type SolverConfig struct {
	Kind           string  `yaml:"kind"`
	Tolerance      float64 `yaml:"tolerance"`
	MaxIterations  int     `yaml:"max_iterations"`
	LivolantPeriod int     `yaml:"livolant_period"`
	KrylovRestart  int     `yaml:"krylov_restart"`
	ErrorFloor     float64 `yaml:"error_floor"`
}

// OuterConfig tunes the multigroup driver.
type OuterConfig struct {
	Mode           string  `yaml:"mode"`
	Tolerance      float64 `yaml:"tolerance"`
	EigenTolerance float64 `yaml:"eigen_tolerance"`
	MaxOuter       int     `yaml:"max_outer"`
	Loosening      float64 `yaml:"loosening"`
	Parallel       bool    `yaml:"parallel"`
	Parallelism    int     `yaml:"parallelism"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ProblemConfig describes materials, geometry and external sources.
type ProblemConfig struct {
	Discretization string           `yaml:"discretization"`
	Order          int              `yaml:"order"`
	Normalization  float64          `yaml:"normalization"`
	Materials      []MaterialConfig `yaml:"materials"`
	Regions        []RegionConfig   `yaml:"regions"`
}

// MaterialConfig holds per-group cross sections. SigmaS[g][gp] scatters into
// g from gp. Omitted NuSigmaF and Chi mean a non-fissile material.
type MaterialConfig struct {
	Name     string      `yaml:"name"`
	SigmaT   []float64   `yaml:"sigma_t"`
	NuSigmaF []float64   `yaml:"nu_sigma_f"`
	Chi      []float64   `yaml:"chi"`
	SigmaS   [][]float64 `yaml:"sigma_s"`
}

// RegionConfig is a uniform slab segment with an optional per-group isotropic
// source strength.
type RegionConfig struct {
	Width    float64   `yaml:"width"`
	Cells    int       `yaml:"cells"`
	Material int       `yaml:"material"`
	Source   []float64 `yaml:"source"`
}

// Default returns the settings used when the document omits them. The
// problem section is empty.
func Default() Config {
	return Config{
		Solver: SolverConfig{
			Kind:           solver.KindSourceIteration.String(),
			Tolerance:      convergence.DefaultTolerance,
			MaxIterations:  convergence.DefaultMaxIterations,
			LivolantPeriod: solver.DefaultLivolantPeriod,
			KrylovRestart:  solver.DefaultKrylovRestart,
			ErrorFloor:     convergence.DefaultErrorFloor,
		},
		Outer: OuterConfig{
			Mode:           ModeFixed,
			Tolerance:      driver.DefaultTolerance,
			EigenTolerance: driver.DefaultEigenTolerance,
			MaxOuter:       driver.DefaultMaxOuter,
			Loosening:      driver.DefaultLoosening,
		},
		Logging: LoggingConfig{Level: "info", Format: string(logging.FormatText)},
		Problem: ProblemConfig{
			Discretization: discrete.OneD.String(),
			Order:          discrete.DefaultOrder,
			Normalization:  discrete.DefaultNormalization,
		},
	}
}

// Load reads path over Default(). Keys absent from the file keep their
// defaults. Environment overrides are not applied.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configErrorf("Load", fmt.Errorf("%w: %w", ErrRead, err))
	}

	return Parse(data)
}

// Parse decodes a YAML document over Default(). Unknown keys are rejected and
// an empty document yields Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, configErrorf("Parse", fmt.Errorf("%w: %w", ErrRead, err))
	}

	return cfg, nil
}

// ApplyEnv overrides the solver kind, tolerance, iteration cap, log level and
// outer mode from WGS_* variables that are set and non-empty.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvSolver); v != "" {
		c.Solver.Kind = v
	}
	if v := os.Getenv(EnvTol); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return configErrorf("ApplyEnv", fmt.Errorf("%s=%q: %w", EnvTol, v, ErrInvalid))
		}
		c.Solver.Tolerance = tol
	}
	if v := os.Getenv(EnvMaxIters); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return configErrorf("ApplyEnv", fmt.Errorf("%s=%q: %w", EnvMaxIters, v, ErrInvalid))
		}
		c.Solver.MaxIterations = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvMode); v != "" {
		c.Outer.Mode = v
	}

	return nil
}

// Validate checks every range the option constructors would otherwise panic
// on, plus the problem shape.
//
// Errors:
//   - ErrInvalid, ErrShape, ErrNoFission, solver.ErrUnknownKind,
//     discrete.ErrUnsupportedDiscretization, logging.ErrUnknownLevel,
//     logging.ErrUnknownFormat.
func (c Config) Validate() error {
	if _, err := solver.ParseKind(c.Solver.Kind); err != nil {
		return configErrorf("Validate", err)
	}
	if _, err := discrete.ParseDimension(c.Problem.Discretization); err != nil {
		return configErrorf("Validate", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return configErrorf("Validate", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return configErrorf("Validate", err)
	}

	s := c.Solver
	switch {
	case !positive(s.Tolerance):
		return invalid("solver.tolerance", s.Tolerance)
	case s.MaxIterations < 1:
		return invalid("solver.max_iterations", s.MaxIterations)
	case s.LivolantPeriod < solver.MinLivolantPeriod || s.LivolantPeriod > solver.MaxLivolantPeriod:
		return invalid("solver.livolant_period", s.LivolantPeriod)
	case s.KrylovRestart < 1:
		return invalid("solver.krylov_restart", s.KrylovRestart)
	case !(s.ErrorFloor >= 0) || math.IsInf(s.ErrorFloor, 0):
		return invalid("solver.error_floor", s.ErrorFloor)
	}

	o := c.Outer
	switch {
	case o.Mode != ModeFixed && o.Mode != ModeEigen:
		return invalid("outer.mode", o.Mode)
	case !positive(o.Tolerance):
		return invalid("outer.tolerance", o.Tolerance)
	case !positive(o.EigenTolerance):
		return invalid("outer.eigen_tolerance", o.EigenTolerance)
	case o.MaxOuter < 1:
		return invalid("outer.max_outer", o.MaxOuter)
	case !(o.Loosening >= 0) || math.IsInf(o.Loosening, 0):
		return invalid("outer.loosening", o.Loosening)
	case o.Parallel && o.Mode == ModeEigen:
		return invalid("outer.parallel (eigen mode)", o.Parallel)
	}

	return c.Problem.validate(o.Mode == ModeEigen)
}

// NumGroups returns the group count implied by the first material, or 0.
func (p ProblemConfig) NumGroups() int {
	if len(p.Materials) == 0 {
		return 0
	}

	return len(p.Materials[0].SigmaT)
}

func (p ProblemConfig) validate(eigen bool) error {
	if !positive(p.Normalization) {
		return invalid("problem.normalization", p.Normalization)
	}
	if len(p.Materials) == 0 {
		return invalid("problem.materials", "empty")
	}
	if len(p.Regions) == 0 {
		return invalid("problem.regions", "empty")
	}
	G := p.NumGroups()
	if G == 0 {
		return configErrorf("Validate", fmt.Errorf("material 0 sigma_t: %w", ErrShape))
	}
	fissile := false
	for i, m := range p.Materials {
		if len(m.SigmaT) != G || len(m.SigmaS) != G ||
			(m.NuSigmaF != nil && len(m.NuSigmaF) != G) || (m.Chi != nil && len(m.Chi) != G) {
			return configErrorf("Validate", fmt.Errorf("material %d: %w", i, ErrShape))
		}
		for g, row := range m.SigmaS {
			if len(row) != G {
				return configErrorf("Validate", fmt.Errorf("material %d sigma_s[%d]: %w", i, g, ErrShape))
			}
		}
		for _, v := range m.NuSigmaF {
			if v > 0 {
				fissile = true
			}
		}
	}
	for i, r := range p.Regions {
		if r.Material < 0 || r.Material >= len(p.Materials) {
			return invalid(fmt.Sprintf("problem.regions[%d].material", i), r.Material)
		}
		if r.Source != nil && len(r.Source) != G {
			return configErrorf("Validate", fmt.Errorf("region %d source: %w", i, ErrShape))
		}
	}
	if eigen && !fissile {
		return configErrorf("Validate", ErrNoFission)
	}

	return nil
}

// Kind returns the parsed solver kind. Call after Validate.
func (c Config) Kind() solver.Kind {
	k, _ := solver.ParseKind(c.Solver.Kind)

	return k
}

// Logger builds the slog logger described by the logging section. Unknown
// names fall back to INFO and text.
func (c Config) Logger(cfg logging.Config) *slog.Logger {
	cfg.Level, _ = logging.ParseLevel(c.Logging.Level)
	cfg.Format, _ = logging.ParseFormat(c.Logging.Format)

	return logging.New(cfg)
}

// SolverOptions translates the solver section. Call after Validate; the
// option constructors panic on out-of-range values.
func (c Config) SolverOptions(log *slog.Logger, metrics *solver.Metrics) []solver.Option {
	s := c.Solver

	return []solver.Option{
		solver.WithLogger(log),
		solver.WithMetrics(metrics),
		solver.WithTolerance(s.Tolerance),
		solver.WithMaxIterations(s.MaxIterations),
		solver.WithLivolantPeriod(s.LivolantPeriod),
		solver.WithKrylovRestart(s.KrylovRestart),
		solver.WithErrorFloor(s.ErrorFloor),
	}
}

// DriverOptions translates the outer section. The inner target is the solver
// tolerance and cap. Call after Validate.
func (c Config) DriverOptions(log *slog.Logger) []driver.Option {
	o := c.Outer

	return []driver.Option{
		driver.WithLogger(log),
		driver.WithTolerance(o.Tolerance),
		driver.WithEigenTolerance(o.EigenTolerance),
		driver.WithMaxOuter(o.MaxOuter),
		driver.WithInner(c.Solver.MaxIterations, c.Solver.Tolerance),
		driver.WithLoosening(o.Loosening),
		driver.WithParallelism(o.Parallelism),
	}
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func invalid(field string, v any) error {
	return configErrorf("Validate", fmt.Errorf("%s=%v: %w", field, v, ErrInvalid))
}
