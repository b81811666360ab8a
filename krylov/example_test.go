// SPDX-License-Identifier: MIT
package krylov_test

import (
	"fmt"

	"github.com/katalvlaran/ntransport/krylov"
)

// ExampleGMRES solves the nonsymmetric system [[4 1] [2 3]]·x = [1 2] with a
// matrix-free operator. Two unknowns need at most two Arnoldi steps.
func ExampleGMRES() {
	op := func(x []float64) ([]float64, error) {
		return []float64{4*x[0] + x[1], 2*x[0] + 3*x[1]}, nil
	}

	x, res, err := krylov.GMRES(op, []float64{1, 2}, nil, krylov.WithTolerance(1e-10))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("x = [%.6f %.6f] converged=%t iterations=%d\n", x[0], x[1], res.Converged, res.Iterations)
	// Output: x = [0.100000 0.600000] converged=true iterations=2
}
