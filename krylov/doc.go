// SPDX-License-Identifier: MIT

// Package krylov implements restarted, matrix-free GMRES(m).
//
// The operator is supplied as a function y = A·x; it is never materialized. The
// Arnoldi basis and Hessenberg matrix live in matrix.Dense storage and are
// updated in place through RawRow. Givens rotations keep the least-squares
// residual available after every step, so convergence is tested without an
// extra operator application.
//
// Convergence is relative: ‖b − A·x‖ ≤ tol·‖b‖. A zero right-hand side returns
// the zero vector immediately. Non-finite values produced by the operator are
// reported as ErrBreakdown with the last finite iterate.
//
// Complexity quicksheet (n unknowns, restart m, k iterations):
//   - Time: O(k·(m·n + cost(A))); Space: O(m·n).
package krylov
