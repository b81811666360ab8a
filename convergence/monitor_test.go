// SPDX-License-Identifier: MIT
package convergence_test

import (
	"errors"
	"math"
	"testing"

	"github.com/katalvlaran/ntransport/convergence"
	"github.com/stretchr/testify/require"
)

func TestCheckWarnsIffAtCapAboveTolerance(t *testing.T) {
	m, err := convergence.NewMonitor(10, 1e-6)
	require.NoError(t, err)

	cases := []struct {
		iter int
		err  float64
		warn bool
	}{
		{9, 1, false},
		{10, 1e-6, false}, // exactly at tolerance
		{10, 5e-7, false},
		{10, 1.0000001e-6, true},
		{11, 1, false},
		{0, 1, false},
		{10, math.Inf(1), true},
	}
	for _, tc := range cases {
		w := m.Check(tc.iter, tc.err)
		if tc.warn {
			require.NotNil(t, w, "iter=%d err=%g", tc.iter, tc.err)
			require.True(t, errors.Is(w, convergence.ErrNotConverged))
			require.Equal(t, tc.iter, w.Iteration)
		} else {
			require.Nil(t, w, "iter=%d err=%g", tc.iter, tc.err)
		}
	}
}

func TestRateGeometric(t *testing.T) {
	m, err := convergence.NewMonitor(100, 1e-12)
	require.NoError(t, err)

	_, ok := m.Rate()
	require.False(t, ok)

	for _, e := range []float64{1, 0.1, 0.01, 0.001} {
		m.Record(e)
	}
	r, ok := m.Rate()
	require.True(t, ok)
	require.InDelta(t, 0.1, r, 1e-12)
	require.Equal(t, []float64{0.001, 0.01, 0.1}, m.History())
}

func TestRateDegenerateOmitted(t *testing.T) {
	m, err := convergence.NewMonitor(100, 1e-12)
	require.NoError(t, err)
	m.Record(0.5)
	m.Record(0.5)
	m.Record(0.4)
	_, ok := m.Rate()
	require.False(t, ok)

	m.Clear()
	require.Empty(t, m.History())
	for i := 0; i < 3; i++ {
		m.Record(0)
	}
	_, ok = m.Rate()
	require.False(t, ok)
}

func TestResetValidates(t *testing.T) {
	_, err := convergence.NewMonitor(0, 1)
	require.ErrorIs(t, err, convergence.ErrInvalidMaxIterations)
	_, err = convergence.NewMonitor(1, 0)
	require.ErrorIs(t, err, convergence.ErrInvalidTolerance)
	_, err = convergence.NewMonitor(1, math.NaN())
	require.ErrorIs(t, err, convergence.ErrInvalidTolerance)

	m, err := convergence.NewMonitor(5, 1e-3)
	require.NoError(t, err)
	m.Record(1)
	require.NoError(t, m.Reset(50, 1e-9))
	require.Equal(t, 50, m.MaxIterations())
	require.Equal(t, 1e-9, m.Tolerance())
	require.Empty(t, m.History())
	require.ErrorIs(t, m.Reset(-1, 1), convergence.ErrInvalidMaxIterations)
	require.Equal(t, 50, m.MaxIterations())
}

func TestFluxError(t *testing.T) {
	e, err := convergence.FluxError([]float64{1, 2, 0}, []float64{1.1, 2, 1e-20}, convergence.DefaultErrorFloor)
	require.NoError(t, err)
	require.InDelta(t, 0.1/1.1, e, 1e-15)

	// Near-zero reference falls back to absolute change.
	e, err = convergence.FluxError([]float64{0.5}, []float64{0}, convergence.DefaultErrorFloor)
	require.NoError(t, err)
	require.InDelta(t, 0.5, e, 0)

	e, err = convergence.FluxError([]float64{1}, []float64{math.NaN()}, convergence.DefaultErrorFloor)
	require.NoError(t, err)
	require.True(t, math.IsInf(e, 1))

	_, err = convergence.FluxError([]float64{1}, nil, 0)
	require.ErrorIs(t, err, convergence.ErrDimensionMismatch)
}
