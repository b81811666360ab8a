// SPDX-License-Identifier: MIT

// Package solver implements the within-group inner-iteration kernels.
//
// One energy group is solved at a time while every other group's flux stays
// frozen. Three interchangeable kernels share a single contract (Solver) and a
// single immutable context (Setup):
//
//   - SourceIteration: the fixed-point recurrence
//     φ ← D·Sweep(q_fixed + M·(σs,gg ∘ φ)) until the flux change meets the
//     tolerance or the iteration cap is reached.
//   - Livolant: the same recurrence with a periodic vector Aitken
//     extrapolation x* = x2 − λ·r1, λ = r1·(r1 − r0)/‖r1 − r0‖². A
//     negligible denominator or a non-finite extrapolant skips the step.
//   - Krylov: restarted GMRES on (I − D·Sweep·M·S)·φ = D·Sweep(q_fixed) with the
//     operator applied matrix-free. A numerical breakdown falls back to source
//     iteration for the remaining budget.
//
// Every Solve requires a fixed source assembled for the same group (see
// BuildFixedSource, BuildExternalFixedSource and SetFixedSource). Iteration
// starts from the stored flux of the group and the final estimate is written
// back to the store, whether or not the tolerance was met. Exhausting the
// budget is reported through Result.Warning and is never a returned error.
//
// A Solver instance owns its fixed source and monitor and is not reentrant.
// Run independent groups concurrently on separate instances built from the
// same Setup.
package solver
