// SPDX-License-Identifier: MIT
package fission_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/fission"
	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/katalvlaran/ntransport/state"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, norm float64) (*fission.Source, *state.State) {
	t.Helper()
	lib, err := material.NewLibrary(1, 2)
	require.NoError(t, err)
	require.NoError(t, lib.SetSigmaT(0, 0, 1))
	require.NoError(t, lib.SetSigmaT(0, 1, 1))
	require.NoError(t, lib.SetNuSigmaF(0, 0, 0.1))
	require.NoError(t, lib.SetNuSigmaF(0, 1, 0.3))
	require.NoError(t, lib.SetChi(0, 0, 0.75))
	require.NoError(t, lib.SetChi(0, 1, 0.25))
	require.NoError(t, lib.Finalize())

	m, err := mesh.NewPoint(2, 0)
	require.NoError(t, err)
	d, err := discrete.NewHomogeneous(m, lib, discrete.WithNormalization(norm))
	require.NoError(t, err)
	src, err := fission.New(m, lib, d)
	require.NoError(t, err)

	st, err := state.New(2, 2, 0)
	require.NoError(t, err)
	require.NoError(t, st.SetFlux(0, []float64{1, 2}))
	require.NoError(t, st.SetFlux(1, []float64{10, 20}))

	return src, st
}

func TestSourceIsPrescaled(t *testing.T) {
	src, st := setup(t, 4*math.Pi)
	require.False(t, src.Initialized())
	_, err := src.Source(0)
	require.ErrorIs(t, err, fission.ErrNotInitialized)

	require.NoError(t, src.Update(st))
	require.True(t, src.Initialized())
	require.NoError(t, src.SetScale(0.5))

	// F = 0.1·[1,2] + 0.3·[10,20] = [3.1, 6.2]
	q, err := src.Source(0)
	require.NoError(t, err)
	want := []float64{0.5 * 0.75 * 3.1 / (4 * math.Pi), 0.5 * 0.75 * 6.2 / (4 * math.Pi)}
	require.InDeltaSlice(t, want, q, 1e-14)

	require.InDelta(t, 3.1+6.2, src.Production(), 1e-12)
	require.Equal(t, 0.5, src.Scale())
}

func TestSourceErrors(t *testing.T) {
	src, st := setup(t, 1)
	require.NoError(t, src.Update(st))

	_, err := src.Source(2)
	require.ErrorIs(t, err, fission.ErrGroupOutOfRange)
	require.ErrorIs(t, src.SetScale(-1), fission.ErrInvalidScale)
	require.ErrorIs(t, src.SetScale(math.NaN()), fission.ErrInvalidScale)

	bad, err := state.New(3, 2, 0)
	require.NoError(t, err)
	require.ErrorIs(t, src.Update(bad), fission.ErrDimensionMismatch)

	_, err = fission.New(nil, nil, nil)
	require.ErrorIs(t, err, fission.ErrNilInput)

	var none *fission.Source
	require.False(t, none.Initialized())
}
