// SPDX-License-Identifier: MIT

// Package driver runs outer iterations around the within-group solvers.
//
//   - GaussSeidel sweeps the groups in order, so every group sees the newest
//     flux of the groups solved before it in the same pass.
//   - Jacobi solves all groups of a pass concurrently on separate solver
//     instances. Each pass has two phases: every fixed source is built from the
//     flux of the previous pass, then every group is solved. Reads and writes
//     of the shared flux therefore never overlap.
//   - PowerIteration wraps Gauss–Seidel passes in a k-eigenvalue loop: the
//     fission source is scaled by 1/k, the inner tolerance is loosened while
//     the outer error is large, and k is updated from the fission production
//     ratio.
//
// The context is checked between group solves only; a solve in progress is
// never interrupted. Every outer pass and group solve is traced with
// OpenTelemetry spans.
package driver
