// SPDX-License-Identifier: MIT
package solver_test

import (
	"fmt"

	"github.com/katalvlaran/ntransport/discrete"
	"github.com/katalvlaran/ntransport/material"
	"github.com/katalvlaran/ntransport/mesh"
	"github.com/katalvlaran/ntransport/scatter"
	"github.com/katalvlaran/ntransport/solver"
	"github.com/katalvlaran/ntransport/source"
	"github.com/katalvlaran/ntransport/state"
)

// ExampleNew solves one group of an infinite medium with Σt = 1, Σs = 0.1 and
// a unit source: φ = 1/(1 − 0.1).
func ExampleNew() {
	lib, _ := material.NewLibrary(1, 1)
	_ = lib.SetSigmaT(0, 0, 1)
	_ = lib.SetSigmaS(0, 0, 0, 0.1)
	_ = lib.Finalize()

	m, _ := mesh.NewPoint(1, 0)
	d, _ := discrete.NewHomogeneous(m, lib)
	tab, _ := scatter.New(m, lib)
	st, _ := state.New(1, 1, 0)
	ext, _ := source.NewIsotropic(d, 1, [][]float64{{1}})
	b, _ := source.NewBuilder(tab, d, st, source.WithExternal(ext))
	setup, _ := solver.NewSetup(d, tab, b, st)

	s, _ := solver.New(solver.KindSourceIteration, setup, solver.WithLogger(quiet), solver.WithTolerance(1e-8))
	_ = s.BuildFixedSource(0)
	res, _ := s.Solve(0)

	fmt.Printf("converged=%t iterations=%d phi=%.6f\n", res.Converged, res.Iterations, st.Flux(0)[0])
	// Output: converged=true iterations=9 phi=1.111111
}
