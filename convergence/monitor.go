// SPDX-License-Identifier: MIT

package convergence

import (
	"fmt"
	"math"
)

const (
	// DefaultTolerance is the within-group tolerance used when none is configured.
	DefaultTolerance = 1e-8

	// DefaultMaxIterations is the within-group iteration cap used when none is configured.
	DefaultMaxIterations = 1000

	// DefaultErrorFloor is the magnitude below which FluxError uses absolute change.
	DefaultErrorFloor = 1e-14

	// rateEps bounds the relative size of the rate denominator.
	rateEps = 1e-12

	window = 3
)

// Monitor holds the convergence limits and the error history of one solver.
type Monitor struct {
	maxIters int
	tol      float64
	hist     [window]float64 // newest first
	n        int
}

// NewMonitor returns a monitor with an empty history.
//
// Errors:
//   - ErrInvalidMaxIterations, ErrInvalidTolerance.
func NewMonitor(maxIters int, tol float64) (*Monitor, error) {
	if err := validate(maxIters, tol); err != nil {
		return nil, fmt.Errorf("convergence.NewMonitor: %w", err)
	}

	return &Monitor{maxIters: maxIters, tol: tol}, nil
}

// Reset swaps the limits between solves and clears the history.
func (m *Monitor) Reset(maxIters int, tol float64) error {
	if err := validate(maxIters, tol); err != nil {
		return fmt.Errorf("convergence.Reset: %w", err)
	}
	m.maxIters, m.tol = maxIters, tol
	m.Clear()

	return nil
}

// MaxIterations returns the iteration cap.
func (m *Monitor) MaxIterations() int { return m.maxIters }

// Tolerance returns the error tolerance.
func (m *Monitor) Tolerance() float64 { return m.tol }

// Clear drops the error history.
func (m *Monitor) Clear() {
	m.hist = [window]float64{}
	m.n = 0
}

// Record pushes err into the newest slot of the window.
func (m *Monitor) Record(err float64) {
	m.hist[2] = m.hist[1]
	m.hist[1] = m.hist[0]
	m.hist[0] = err
	if m.n < window {
		m.n++
	}
}

// History returns the recorded samples, newest first.
func (m *Monitor) History() []float64 {
	out := make([]float64, m.n)
	copy(out, m.hist[:m.n])

	return out
}

// Converged reports err ≤ tolerance. NaN never converges.
func (m *Monitor) Converged(err float64) bool { return err <= m.tol }

// Check returns a *Warning iff iteration == MaxIterations and err > tolerance.
func (m *Monitor) Check(iteration int, err float64) *Warning {
	if iteration != m.maxIters || m.Converged(err) {
		return nil
	}

	return &Warning{Group: -1, Iteration: iteration, Achieved: err, Tolerance: m.tol}
}

// Rate returns (e0 − e1)/(e1 − e2) over the newest-first window. It reports
// false while fewer than three samples exist, when |e1 − e2| is negligible
// relative to the samples, or when the quotient is not finite.
func (m *Monitor) Rate() (float64, bool) {
	if m.n < window {
		return 0, false
	}
	e0, e1, e2 := m.hist[0], m.hist[1], m.hist[2]
	den := e1 - e2
	scale := math.Max(math.Abs(e1), math.Abs(e2))
	if den == 0 || math.Abs(den) <= rateEps*scale {
		return 0, false
	}
	r := (e0 - e1) / den
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}

	return r, true
}

func validate(maxIters int, tol float64) error {
	if maxIters <= 0 {
		return ErrInvalidMaxIterations
	}
	if !(tol > 0) || math.IsInf(tol, 0) {
		return ErrInvalidTolerance
	}

	return nil
}
