// SPDX-License-Identifier: MIT

// Package ntransport is a within-group neutron transport engine: the inner
// iterations that, for one energy group at a time, converge the scalar flux
// against a fixed source while scattering within the group is treated
// implicitly.
//
// 🚀 What is in the box?
//
//	• A banded scattering table built from a cross-section library
//	• A source builder: downscatter, upscatter, fission and external terms
//	• Three interchangeable inner solvers behind one interface:
//	    source iteration, Livolant-accelerated iteration, restarted GMRES
//	• A convergence monitor with a spectral-radius estimate and warnings
//	• Outer drivers: Gauss–Seidel, parallel Jacobi, k-eigenvalue power iteration
//	• Reference discretizations: infinite medium and diamond-difference S_N slab
//
// ✨ Design notes
//
//   - Non-convergence is reported on the result, never as an error.
//   - Solvers are single-goroutine objects; build one per concurrent task.
//   - Structured logging (log/slog), Prometheus metrics and OpenTelemetry
//     spans are injected, never global by force.
//
// Packages:
//
//	material/    multigroup cross sections and coupling bounds
//	mesh/        cell → material maps, slab geometry
//	matrix/      dense row-major storage used by tables and GMRES
//	discrete/    sweeps and moment ↔ discrete transforms
//	scatter/     banded per-group scattering table
//	source/      fixed-source assembly and isotropic external sources
//	fission/     prescaled fission source
//	state/       shared per-group scalar flux and eigenvalue
//	convergence/ flux error, monitor, warnings
//	krylov/      restarted GMRES
//	solver/      the within-group solver family
//	driver/      outer iterations
//	config/      YAML problem and settings
//	logging/     slog construction
//	cmd/wgsolve  command-line front end
//
// Quick start:
//
//	cfg, _ := config.Load("problem.yaml")
//	prob, _ := cfg.Build()
//	s, _ := solver.New(cfg.Kind(), prob.Setup, cfg.SolverOptions(nil, nil)...)
//	rep, _ := driver.GaussSeidel(ctx, s, prob.State, cfg.DriverOptions(nil)...)
package ntransport
