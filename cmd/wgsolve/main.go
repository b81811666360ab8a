// SPDX-License-Identifier: MIT

// Command wgsolve runs multigroup transport problems described in YAML through
// the within-group solvers and prints a per-group flux summary.
//
//	wgsolve solve --config problem.yaml --solver gmres --tol 1e-8
//	wgsolve solve --config core.yaml --mode eigen --metrics
//	wgsolve version
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
