package kinds

import "github.com/qss-go/qss/numeric"

// State is the plain polynomial/tolerance data one Variable carries. It
// holds no identity or graph wiring; that lives in package model,
// which owns a State per Variable and drives it through the functions in
// this package. Keeping State free of model.Variable avoids an import cycle
// between model (which needs Method) and kinds (which needs to mutate
// variable state): kinds operates on State and EvalFunc alone.
type State struct {
	ATol, RTol float64
	QTol float64

	// DtMax bounds the event step of Input variables.
	DtMax float64

	TX, TQ, TE float64

	// Continuous polynomial, anchored at TX: x(t) = X0 + X1*(t-TX) + X2*(t-TX)^2 + X3*(t-TX)^3.
	X0, X1, X2, X3 float64

	// Quantized polynomial, anchored at TQ: q(t) = Q0 + Q1*(t-TQ) + Q2*(t-TQ)^2.
	Q0, Q1, Q2 float64
}

// X evaluates the continuous polynomial at t.
func (s *State) X(t float64) float64 {
	return numeric.EvalPoly3(s.X0, s.X1, s.X2, s.X3, t-s.TX)
}

// X1At evaluates the continuous polynomial's first time-derivative at t.
func (s *State) X1At(t float64) float64 {
	tau := t - s.TX
	return s.X1 + tau*(2*s.X2+tau*3*s.X3)
}

// X2At evaluates the continuous polynomial's second time-derivative at t.
func (s *State) X2At(t float64) float64 {
	tau := t - s.TX
	return 2*s.X2 + tau*6*s.X3
}

// Q evaluates the quantized polynomial at t.
func (s *State) Q(t float64) float64 {
	return numeric.EvalPoly2(s.Q0, s.Q1, s.Q2, t-s.TQ)
}

// Q1At evaluates the quantized polynomial's first time-derivative at t.
func (s *State) Q1At(t float64) float64 {
	return s.Q1 + (t-s.TQ)*2*s.Q2
}

// taylorShiftX returns the continuous polynomial's coefficients re-expanded
// about a new anchor t: the standard Taylor shift c_i(t) = x^(i)(t)/i!. This
// realizes step 1's "qᵢ ← xᵢ(tE)/i!" exactly, since the shifted
// coefficients of a polynomial about a new point ARE its derivatives over i!
// evaluated at that point.
func (s *State) taylorShiftX(t float64) (c0, c1, c2, c3 float64) {
	tau := t - s.TX
	c3 = s.X3
	c2 = s.X2 + 3*s.X3*tau
	c1 = s.X1 + tau*(2*s.X2+3*s.X3*tau)
	c0 = s.X0 + tau*(s.X1+tau*(s.X2+s.X3*tau))
	return
}
