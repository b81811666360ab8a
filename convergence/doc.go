// SPDX-License-Identifier: MIT

// Package convergence tracks the progress of a within-group iteration.
//
// A Monitor holds the iteration cap, the tolerance and a rolling window of the
// three most recent error samples. Check emits a *Warning exactly when the cap
// is reached with the error still above tolerance; an error equal to the
// tolerance at the cap is converged and yields nil.
//
// Rate estimates the empirical contraction factor r = (e0 − e1)/(e1 − e2) from
// the newest-first window. A degenerate denominator omits the rate instead of
// dividing through it.
//
// FluxError is the shared error metric: the pointwise maximum of the relative
// change between two flux iterates, with absolute change used where the new
// magnitude is below a floor.
//
// Monitor is not safe for concurrent use; a solver instance owns its monitor.
package convergence
