// SPDX-License-Identifier: MIT

package krylov

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/ntransport/matrix"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrDimensionMismatch indicates b and x0 of different length, or an
	// operator returning a vector of the wrong length.
	ErrDimensionMismatch = errors.New("krylov: dimension mismatch")

	// ErrBreakdown indicates non-finite values in the Arnoldi process.
	ErrBreakdown = errors.New("krylov: non-finite breakdown")

	// ErrNilOperator indicates a nil operator.
	ErrNilOperator = errors.New("krylov: nil operator")
)

// happyEps is the relative size of h(k+1,k) under which the Krylov space is
// treated as invariant.
const happyEps = 1e-14

// Operator applies the linear map y = A·x. It must not retain or modify x.
type Operator func(x []float64) ([]float64, error)

// Result reports the outcome of a GMRES run.
type Result struct {
	// Iterations is the number of Arnoldi steps taken.
	Iterations int
	// Restarts is the number of completed restart cycles.
	Restarts int
	// Applications is the number of operator applications, including
	// residual evaluations.
	Applications int
	// Residual is the final relative residual ‖b − A·x‖/‖b‖.
	Residual float64
	// Converged reports Residual ≤ tolerance.
	Converged bool
}

// GMRES solves A·x = b starting from x0 (nil means zero).
//
// Implementation:
//   - Stage 1: r = b − A·x, β = ‖r‖; stop when β ≤ tol·‖b‖ or the step budget is spent.
//   - Stage 2: Arnoldi with modified Gram–Schmidt for up to m steps; each new
//     Hessenberg column is reduced by Givens rotations and |g(k)| tracks the
//     residual norm.
//   - Stage 3: solve the k×k upper-triangular system R·y = g, update x += Vᵀ·y,
//     and restart from Stage 1.
//
// Returns:
//   - the final iterate (a fresh slice) and the Result. On ErrBreakdown the
//     returned iterate is the last finite one.
//
// Errors:
//   - ErrNilOperator, ErrDimensionMismatch, ErrBreakdown, operator errors.
func GMRES(op Operator, b, x0 []float64, opts ...Option) ([]float64, Result, error) {
	var res Result
	if op == nil {
		return nil, res, fmt.Errorf("krylov.GMRES: %w", ErrNilOperator)
	}
	n := len(b)
	if n == 0 || (x0 != nil && len(x0) != n) {
		return nil, res, fmt.Errorf("krylov.GMRES: %w", ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)

	x := make([]float64, n)
	if x0 != nil {
		copy(x, x0)
	}
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		for i := range x {
			x[i] = 0
		}
		res.Converged = true

		return x, res, nil
	}
	tolAbs := o.Tolerance * bnorm

	m := o.Restart
	if m > o.MaxIterations {
		m = o.MaxIterations
	}
	V, err := matrix.NewDenseWith(m+1, n, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, res, fmt.Errorf("krylov.GMRES: %w", err)
	}
	H, err := matrix.NewDenseWith(m+1, m, matrix.WithNoValidateNaNInf())
	if err != nil {
		return nil, res, fmt.Errorf("krylov.GMRES: %w", err)
	}
	cs := make([]float64, m)
	sn := make([]float64, m)
	g := make([]float64, m+1)

	for {
		// Stage 1: true residual.
		ax, err := apply(op, x, n, &res)
		if err != nil {
			return x, res, err
		}
		r := make([]float64, n)
		floats.SubTo(r, b, ax)
		beta := floats.Norm(r, 2)
		if !finite(beta) {
			return x, res, fmt.Errorf("krylov.GMRES: residual: %w", ErrBreakdown)
		}
		res.Residual = beta / bnorm
		if beta <= tolAbs {
			res.Converged = true
			return x, res, nil
		}
		if res.Iterations >= o.MaxIterations {
			return x, res, nil
		}

		// Stage 2: Arnoldi cycle.
		V.Zero()
		H.Zero()
		for i := range g {
			g[i] = 0
		}
		v0, _ := V.RawRow(0)
		floats.ScaleTo(v0, 1/beta, r)
		g[0] = beta

		k := 0
		for k < m && res.Iterations < o.MaxIterations {
			vk, _ := V.RawRow(k)
			w, err := apply(op, vk, n, &res)
			if err != nil {
				return x, res, err
			}
			w0 := floats.Norm(w, 2)
			for i := 0; i <= k; i++ {
				vi, _ := V.RawRow(i)
				hik := floats.Dot(w, vi)
				setH(H, i, k, hik)
				floats.AddScaled(w, -hik, vi)
			}
			hk1 := floats.Norm(w, 2)
			if !finite(w0) || !finite(hk1) {
				return x, res, fmt.Errorf("krylov.GMRES: step %d: %w", res.Iterations, ErrBreakdown)
			}
			setH(H, k+1, k, hk1)

			rotate(H, cs, sn, g, k)
			k++
			res.Iterations++
			res.Residual = math.Abs(g[k]) / bnorm

			happy := hk1 <= happyEps*w0
			if !happy {
				vn, _ := V.RawRow(k)
				floats.ScaleTo(vn, 1/hk1, w)
			}
			if happy || math.Abs(g[k]) <= tolAbs {
				break
			}
		}

		// Stage 3: least squares and correction.
		y, err := solveUpper(H, g, k)
		if err != nil {
			return x, res, err
		}
		dx, err := matrix.MatTVec(V, y)
		if err != nil {
			return x, res, fmt.Errorf("krylov.GMRES: %w", err)
		}
		next := make([]float64, n)
		floats.AddTo(next, x, dx)
		if err := matrix.ValidateFiniteVec(next); err != nil {
			return x, res, fmt.Errorf("krylov.GMRES: update: %w: %w", ErrBreakdown, err)
		}
		x = next
		res.Restarts++
	}
}

// apply evaluates op and checks the result length.
func apply(op Operator, x []float64, n int, res *Result) ([]float64, error) {
	y, err := op(x)
	res.Applications++
	if err != nil {
		return nil, fmt.Errorf("krylov.GMRES: operator: %w", err)
	}
	if len(y) != n {
		return nil, fmt.Errorf("krylov.GMRES: operator len=%d want %d: %w", len(y), n, ErrDimensionMismatch)
	}

	return y, nil
}

// rotate applies the previous k rotations to column k of H, then builds and
// applies rotation k, updating the residual vector g.
func rotate(H *matrix.Dense, cs, sn, g []float64, k int) {
	var t, a, b float64
	for i := 0; i < k; i++ {
		a, b = getH(H, i, k), getH(H, i+1, k)
		t = cs[i]*a + sn[i]*b
		setH(H, i+1, k, -sn[i]*a+cs[i]*b)
		setH(H, i, k, t)
	}
	a, b = getH(H, k, k), getH(H, k+1, k)
	cs[k], sn[k] = givens(a, b)
	setH(H, k, k, cs[k]*a+sn[k]*b)
	setH(H, k+1, k, 0)
	g[k+1] = -sn[k] * g[k]
	g[k] = cs[k] * g[k]
}

// givens returns (c, s) with c·a + s·b = hypot(a, b) and −s·a + c·b = 0.
func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	r := math.Hypot(a, b)

	return a / r, b / r
}

// solveUpper solves R·y = g(0:k) for the leading k×k block of H and returns y
// zero-padded to H.Rows(). A zero pivot truncates the system to the block above it.
func solveUpper(H *matrix.Dense, g []float64, k int) ([]float64, error) {
	y := make([]float64, H.Rows())
	for i := 0; i < k; i++ {
		if getH(H, i, i) == 0 {
			k = i
			break
		}
	}
	if k == 0 {
		return y, nil
	}
	data := make([]float64, k*k)
	for i := 0; i < k; i++ {
		row, _ := H.RawRow(i)
		copy(data[i*k:(i+1)*k], row[:k])
	}
	R := mat.NewTriDense(k, mat.Upper, data)
	rhs := mat.NewVecDense(k, append([]float64(nil), g[:k]...))

	var sol mat.VecDense
	if err := sol.SolveVec(R, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return nil, fmt.Errorf("krylov.GMRES: least squares: %v: %w", err, ErrBreakdown)
		}
	}
	for i := 0; i < k; i++ {
		y[i] = sol.AtVec(i)
	}

	return y, nil
}

func getH(H *matrix.Dense, i, j int) float64 {
	row, _ := H.RawRow(i)
	return row[j]
}

func setH(H *matrix.Dense, i, j int, v float64) {
	row, _ := H.RawRow(i)
	row[j] = v
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
