// SPDX-License-Identifier: MIT
package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/ntransport/config"
	"github.com/katalvlaran/ntransport/convergence"
	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/driver"
	"github.com/katalvlaran/ntransport/logging"
	"github.com/katalvlaran/ntransport/solver"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, name string) config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join("testdata", name))
	require.NoError(t, err)

	return cfg
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	cfg := load(t, "two_group_slab.yaml")

	require.Equal(t, "gmres", cfg.Solver.Kind)
	require.Equal(t, 1e-10, cfg.Solver.Tolerance)
	require.Equal(t, 10, cfg.Solver.KrylovRestart)
	require.Equal(t, convergence.DefaultMaxIterations, cfg.Solver.MaxIterations)
	require.Equal(t, solver.DefaultLivolantPeriod, cfg.Solver.LivolantPeriod)
	require.Equal(t, driver.DefaultMaxOuter, cfg.Outer.MaxOuter)
	require.Equal(t, discrete.DefaultNormalization, cfg.Problem.Normalization)
	require.Equal(t, 2, cfg.Problem.NumGroups())
	require.Equal(t, solver.KindKrylov, cfg.Kind())
	require.NoError(t, cfg.Validate())
}

func TestParseEmptyAndUnknown(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	_, err = config.Parse([]byte("solver:\n  kindd: si\n"))
	require.ErrorIs(t, err, config.ErrRead)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, config.ErrRead)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	cfg := config.Default()
	t.Setenv(config.EnvSolver, "livolant")
	t.Setenv(config.EnvTol, "1e-5")
	t.Setenv(config.EnvMaxIters, "42")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvMode, "eigen")
	require.NoError(t, cfg.ApplyEnv())

	require.Equal(t, "livolant", cfg.Solver.Kind)
	require.Equal(t, 1e-5, cfg.Solver.Tolerance)
	require.Equal(t, 42, cfg.Solver.MaxIterations)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, config.ModeEigen, cfg.Outer.Mode)

	t.Setenv(config.EnvMaxIters, "many")
	require.ErrorIs(t, cfg.ApplyEnv(), config.ErrInvalid)
}

func TestValidate(t *testing.T) {
	base := load(t, "two_group_slab.yaml")
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"unknown kind", func(c *config.Config) { c.Solver.Kind = "cg" }, solver.ErrUnknownKind},
		{"dimension", func(c *config.Config) { c.Problem.Discretization = "3d" }, discrete.ErrUnsupportedDiscretization},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, logging.ErrUnknownLevel},
		{"tolerance", func(c *config.Config) { c.Solver.Tolerance = 0 }, config.ErrInvalid},
		{"period", func(c *config.Config) { c.Solver.LivolantPeriod = 11 }, config.ErrInvalid},
		{"mode", func(c *config.Config) { c.Outer.Mode = "adjoint" }, config.ErrInvalid},
		{"parallel eigen", func(c *config.Config) {
			c.Outer.Parallel, c.Outer.Mode = true, config.ModeEigen
		}, config.ErrInvalid},
		{"material ref", func(c *config.Config) { c.Problem.Regions[1].Material = 2 }, config.ErrInvalid},
		{"sigma_s shape", func(c *config.Config) { c.Problem.Materials[1].SigmaS[0] = []float64{1} }, config.ErrShape},
		{"source shape", func(c *config.Config) { c.Problem.Regions[0].Source = []float64{1} }, config.ErrShape},
		{"no fission", func(c *config.Config) { c.Outer.Mode = config.ModeEigen }, config.ErrNoFission},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := load(t, "two_group_slab.yaml")
			tc.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
	require.NoError(t, base.Validate())
}

func TestBuildFixedSourceSolves(t *testing.T) {
	cfg := load(t, "two_group_slab.yaml")
	prob, err := cfg.Build()
	require.NoError(t, err)

	require.Equal(t, 11, prob.Mesh.NumCells())
	require.Equal(t, discrete.OneD, prob.Disc.Dimension())
	require.Nil(t, prob.Fission)
	require.NotNil(t, prob.External)
	lo, hi := prob.Table.Bounds(0)
	require.Equal(t, [2]int{0, 1}, [2]int{lo, hi})

	log := logging.Discard()
	s, err := solver.New(cfg.Kind(), prob.Setup, cfg.SolverOptions(log, nil)...)
	require.NoError(t, err)
	rep, err := driver.GaussSeidel(context.Background(), s, prob.State, cfg.DriverOptions(log)...)
	require.NoError(t, err)
	require.True(t, rep.Converged)

	phi := prob.State.Flux(0)
	require.Greater(t, phi[2], phi[10]) // source region is brighter
	require.Greater(t, prob.State.Flux(1)[4], 0.0)
}

func TestBuildEigenInfiniteMedium(t *testing.T) {
	cfg := load(t, "infinite_eigen.yaml")
	prob, err := cfg.Build()
	require.NoError(t, err)
	require.NotNil(t, prob.Fission)
	require.Nil(t, prob.External)
	require.Equal(t, []float64{1}, prob.State.Flux(0))

	log := logging.Discard()
	s, err := solver.New(cfg.Kind(), prob.Setup, cfg.SolverOptions(log, nil)...)
	require.NoError(t, err)
	rep, err := driver.PowerIteration(context.Background(), s, prob.Fission, prob.State, cfg.DriverOptions(log)...)
	require.NoError(t, err)
	require.True(t, rep.Converged)
	require.InDelta(t, 1.2, rep.Eigenvalue, 1e-8)
}

func TestBuildRejectsUnsupportedOrder(t *testing.T) {
	cfg := load(t, "two_group_slab.yaml")
	cfg.Problem.Order = 6
	_, err := cfg.Build()
	require.ErrorIs(t, err, discrete.ErrUnsupportedOrder)
}
