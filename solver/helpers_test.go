// SPDX-License-Identifier: MIT
package solver_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/katalvlaran/ntransport/scatter"
	"github.com/katalvlaran/ntransport/solver"
	"github.com/katalvlaran/ntransport/source"
	"github.com/katalvlaran/ntransport/state"
	"github.com/stretchr/testify/require"
)

// quiet discards solver logs in tests.
var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixture bundles a ready Setup with its state.
type fixture struct {
	setup solver.Setup
	state *state.State
	disc  discrete.Discretization
}

// twoGroupPoint is the 1-cell, 2-group problem: Σs(0←0)=0.1, Σs(1←0)=0.05,
// Σs(1←1)=0.2, Σt=1, external source 1 in group 0. The sweep is identity-like.
func twoGroupPoint(t testing.TB) *fixture {
	t.Helper()
	lib, err := material.NewLibrary(1, 2)
	require.NoError(t, err)
	require.NoError(t, lib.SetSigmaT(0, 0, 1))
	require.NoError(t, lib.SetSigmaT(0, 1, 1))
	require.NoError(t, lib.SetSigmaS(0, 0, 0, 0.1))
	require.NoError(t, lib.SetSigmaS(0, 1, 0, 0.05))
	require.NoError(t, lib.SetSigmaS(0, 1, 1, 0.2))
	require.NoError(t, lib.Finalize())

	m, err := mesh.NewPoint(1, 0)
	require.NoError(t, err)
	d, err := discrete.NewHomogeneous(m, lib)
	require.NoError(t, err)

	return build(t, m, lib, d, [][]float64{{1}, {0}})
}

// slab builds a 2-group, 2-region slab with downscatter and upscatter.
func slab(t testing.TB) *fixture {
	t.Helper()
	lib, err := material.NewLibrary(2, 2)
	require.NoError(t, err)
	for mat, f := range []float64{1, 0.6} {
		require.NoError(t, lib.SetSigmaT(mat, 0, 1.0*f+0.2))
		require.NoError(t, lib.SetSigmaT(mat, 1, 1.5*f+0.3))
		require.NoError(t, lib.SetSigmaS(mat, 0, 0, 0.5*f))
		require.NoError(t, lib.SetSigmaS(mat, 1, 0, 0.2*f))
		require.NoError(t, lib.SetSigmaS(mat, 1, 1, 0.9*f))
		require.NoError(t, lib.SetSigmaS(mat, 0, 1, 0.01*f))
	}
	require.NoError(t, lib.Finalize())

	m, err := mesh.NewSlab([]mesh.Region{
		{Width: 2, Cells: 5, Material: 0},
		{Width: 3, Cells: 6, Material: 1},
	})
	require.NoError(t, err)
	d, err := discrete.NewSlab1D(m, lib, discrete.WithOrder(4))
	require.NoError(t, err)

	q := make([]float64, m.NumCells())
	for c := 0; c < 5; c++ {
		q[c] = 1
	}

	return build(t, m, lib, d, [][]float64{q, nil})
}

func build(t testing.TB, m mesh.Mesh, lib *material.Library, d discrete.Discretization, ext [][]float64) *fixture {
	t.Helper()
	tab, err := scatter.New(m, lib)
	require.NoError(t, err)
	st, err := state.New(lib.NumGroups(), m.NumCells(), 0)
	require.NoError(t, err)
	iso, err := source.NewIsotropic(d, m.NumCells(), ext)
	require.NoError(t, err)
	b, err := source.NewBuilder(tab, d, st, source.WithExternal(iso))
	require.NoError(t, err)
	setup, err := solver.NewSetup(d, tab, b, st)
	require.NoError(t, err)

	return &fixture{setup: setup, state: st, disc: d}
}

// mustSolver builds a solver with logs discarded and no metrics unless given.
func mustSolver(t testing.TB, kind solver.Kind, setup solver.Setup, opts ...solver.Option) solver.Solver {
	t.Helper()
	s, err := solver.New(kind, setup, append([]solver.Option{solver.WithLogger(quiet)}, opts...)...)
	require.NoError(t, err)

	return s
}
