// Package numeric provides the small set of scalar utilities shared by every
// QSS variable kind: the positive-infinity sentinel, a real cube root, plain
// (unclipped) polynomial evaluation, and the quantum/tolerance arithmetic used at every
// requantization.
package numeric

import "math"

// Named constants so call sites read as arithmetic rather than magic numbers.
const (
	Zero = 0.0
	Half = 0.5
	OneThird = 1.0 / 3.0
	TwoThirds = 2.0 / 3.0
	Infinity = math.MaxFloat64
	HalfInfinity = 0.5 * math.MaxFloat64

	// MinTolerance is the clamp floor for non-positive rTol/aTol/zTol.
	MinTolerance = 1.0e-12
)

// Cbrt returns the real cube root of x, including for negative x (unlike a
// naive math.Pow(x, 1.0/3.0), which returns NaN for negative bases).
func Cbrt(x float64) float64 {
	return math.Cbrt(x)
}

// ClampTolerance returns tol if it is positive and finite, otherwise
// MinTolerance. Callers are responsible for surfacing the associated warning.
func ClampTolerance(tol float64) float64 {
	if tol > 0 && !math.IsInf(tol, 0) && !math.IsNaN(tol) {
		return tol
	}
	return MinTolerance
}

// QTol computes the derived quantum max(aTol, rTol*|q0|) used by every
// requantization.
func QTol(aTol, rTol, q0 float64) float64 {
	q := rTol * math.Abs(q0)
	if aTol > q {
		return aTol
	}
	return q
}

// Finite reports whether x is neither NaN nor +/-Inf; used to detect a
// derivative evaluator returning a non-finite value.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// EvalPoly2 evaluates a0 + a1*tau + a2*tau^2.
func EvalPoly2(a0, a1, a2, tau float64) float64 {
	return a0 + tau*(a1+tau*a2)
}

// EvalPoly3 evaluates a0 + a1*tau + a2*tau^2 + a3*tau^3.
func EvalPoly3(a0, a1, a2, a3, tau float64) float64 {
	return a0 + tau*(a1+tau*(a2+tau*a3))
}

// EvalDPoly3 evaluates the first derivative of a0+a1*tau+a2*tau^2+a3*tau^3
// with respect to tau, i.e. a1 + 2*a2*tau + 3*a3*tau^2.
func EvalDPoly3(a1, a2, a3, tau float64) float64 {
	return a1 + tau*(2*a2+tau*3*a3)
}

// Factorial2 returns 2! as a float64; used when deriving xK = d^k/dt^k / k!.
const Factorial2 = 2.0
