// This file implements the shared QSS/LIQSS/Input/zero-crossing requantization
// skeleton point-by-point: steps 1-2 (quantize), step 3
// (re-derive the continuous polynomial), step 4 (next event time). LIQSS's
// q0/q1 nudging is layered in liqss.go; Input's dtMax cap is applied inline
// in this file's nextEventTime; Discrete's trivial case lives in discrete.go.
// ZC1/ZC2/ZCe2 requantize exactly like QSS of the matching order: package
// model calls kinds.Requantize for them and layers root isolation
// (zerocross.NextCrossing) on top.
package kinds

import (
	"github.com/qss-go/qss/numeric"
)

// Requantize performs a full requantization at t: it refreshes the
// quantized polynomial from the pre-update continuous polynomial (steps
// 1-2), asks eval for the new derivative(s) to rebuild the continuous
// polynomial anchored at t (step 3), and recomputes TE (step 4). It is the
// entry point for QSS1-3, LIQSS1-2, Inp1-3, ZC1-2 and ZCe2; Discrete never
// calls it (it has no internal event).
func Requantize(m Method, s *State, t float64, eval EvalFunc) error {
	if m.IsDiscrete() {
		return nil
	}

	order := m.Order()
	c0, c1, c2, _ := s.taylorShiftX(t)

	s.TQ = t
	s.Q0 = c0
	if order >= 2 {
		s.Q1 = c1
	} else {
		s.Q1 = 0
	}
	if order >= 3 {
		s.Q2 = c2
	} else {
		s.Q2 = 0
	}
	s.QTol = numeric.QTol(s.ATol, s.RTol, s.Q0)

	if m.IsLIQSS() {
		return requantizeLIQSS(m, s, t, eval)
	}

	sample, err := eval(t, nil)
	if err != nil {
		return err
	}
	if err := checkFinite(sample, order); err != nil {
		return err
	}
	setContinuousFromSample(s, t, order, sample)

	s.TE = nextEventTime(m, s)
	return nil
}

// setContinuousFromSample rebuilds the continuous polynomial anchored at t
// from a derivative Sample, honoring continuity x(tQ)=q0 (invariant 5).
func setContinuousFromSample(s *State, t float64, order int, sample Sample) {
	s.TX = t
	s.X0 = s.Q0
	s.X1, s.X2, s.X3 = 0, 0, 0
	if order >= 1 {
		s.X1 = sample.F
	}
	if order >= 2 {
		s.X2 = sample.F1 / 2
	}
	if order >= 3 {
		s.X3 = sample.F2 / 6
	}
}

// nextEventTime computes TE via the general divergence-root solver: it
// builds the error polynomial e(tau) = x(TQ+tau) - q(TQ+tau) by Taylor-
// shifting X's coefficients to anchor TQ (X and Q may be anchored at
// different points after AdvanceObserver) and subtracting Q's own
// coefficients, then finds the smallest positive tau where |e(tau)| =
// qTol. Immediately after a non-LIQSS Requantize, e's only nonzero
// coefficient is the leading (order-th) one, so this reduces exactly to the
// closed forms step 4: QSS1's qTol/|x1|, QSS2's
// sqrt(qTol/|x2|), QSS3's cbrt(qTol/|x3|).
func nextEventTime(m Method, s *State) float64 {
	order := m.Order()
	tau := divergenceTau(order, s)
	if !numeric.Finite(tau) {
		if m.IsInput() && s.DtMax > 0 {
			return s.TQ + s.DtMax
		}
		return numeric.Infinity
	}
	if m.IsInput() && s.DtMax > 0 && tau > s.DtMax {
		tau = s.DtMax
	}
	return s.TQ + tau
}

// divergenceTau returns the smallest positive tau such that the error
// polynomial x(TQ+tau)-q(TQ+tau) reaches +-qTol, or +Inf if it never does
// (a root-solver failure here falls back to the horizon, applied
// by the driver since this package has no notion of the simulation horizon).
func divergenceTau(order int, s *State) float64 {
	e0, e1, e2, e3 := errorPolyAtTQ(order, s)
	var tau float64
	var ok bool
	switch order {
	case 1:
		tPlus, okP := numeric.SmallestPositiveLinearRoot(e0-s.QTol, e1)
		tMinus, okM := numeric.SmallestPositiveLinearRoot(e0+s.QTol, e1)
		tau, ok = minOK(tPlus, okP, tMinus, okM)
	case 2:
		tPlus, okP := numeric.SmallestPositiveQuadraticRoot(e0-s.QTol, e1, e2)
		tMinus, okM := numeric.SmallestPositiveQuadraticRoot(e0+s.QTol, e1, e2)
		tau, ok = minOK(tPlus, okP, tMinus, okM)
	case 3:
		tPlus, okP := numeric.SmallestPositiveCubicRoot(e0-s.QTol, e1, e2, e3)
		tMinus, okM := numeric.SmallestPositiveCubicRoot(e0+s.QTol, e1, e2, e3)
		tau, ok = minOK(tPlus, okP, tMinus, okM)
	}
	if !ok {
		return numeric.Infinity
	}
	return tau
}

// errorPolyAtTQ returns the coefficients (about anchor TQ) of
// x(TQ+tau) - q(TQ+tau): X's coefficients Taylor-shifted to TQ, minus Q's
// own coefficients (already anchored at TQ).
func errorPolyAtTQ(order int, s *State) (e0, e1, e2, e3 float64) {
	xc0, xc1, xc2, xc3 := s.taylorShiftX(s.TQ)
	e0 = xc0 - s.Q0
	if order >= 2 {
		e1 = xc1 - s.Q1
	} else {
		e1 = xc1
	}
	if order >= 3 {
		e2 = xc2 - s.Q2
	} else {
		e2 = xc2
	}
	e3 = xc3
	return
}

func minOK(a float64, aOK bool, b float64, bOK bool) (float64, bool) {
	switch {
	case aOK && bOK:
		if a < b {
			return a, true
		}
		return b, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return 0, false
	}
}

// InitialEventTime computes TE for a freshly-seeded variable (its
// init_event pass), where X and Q have already been seeded to match by the
// driver's init0-init2 passes. It calls the same nextEventTime used by
// Requantize/AdvanceObserver/AdvanceHandler, so a variable's first TE is
// computed identically to every subsequent one.
func InitialEventTime(m Method, s *State) float64 {
	if m.IsDiscrete() {
		return numeric.Infinity
	}
	s.QTol = numeric.QTol(s.ATol, s.RTol, s.Q0)
	return nextEventTime(m, s)
}

// AdvanceObserver refreshes an observer's continuous polynomial after one of
// its observees has just requantized: re-anchor x0 by
// continuity using the PRE-update polynomial, recompute the leading
// derivative(s) via eval, then recompute TE. The quantized polynomial is
// left untouched; only an actual self-requantization of this variable may
// change it.
func AdvanceObserver(m Method, s *State, t float64, eval EvalFunc) error {
	if m.IsDiscrete() {
		return nil
	}
	order := m.Order()
	newX0 := s.X(t)
	s.TX = t
	s.X0 = newX0

	sample, err := eval(t, nil)
	if err != nil {
		return err
	}
	if err := checkFinite(sample, order); err != nil {
		return err
	}
	s.X1, s.X2, s.X3 = 0, 0, 0
	if order >= 1 {
		s.X1 = sample.F
	}
	if order >= 2 {
		s.X2 = sample.F1 / 2
	}
	if order >= 3 {
		s.X3 = sample.F2 / 6
	}
	s.TE = nextEventTime(m, s)
	return nil
}

// AdvanceHandler reinitializes a variable at time t with newValue, as a
// zero-crossing handler's mutation_channel does: the continuous
// and quantized polynomials are both reseated at t with X0=Q0=newValue, and
// higher coefficients are rebuilt from eval exactly as in a requantization.
func AdvanceHandler(m Method, s *State, t float64, newValue float64, eval EvalFunc) error {
	s.TX, s.TQ = t, t
	s.X0, s.Q0 = newValue, newValue
	s.Q1, s.Q2 = 0, 0
	s.QTol = numeric.QTol(s.ATol, s.RTol, s.Q0)

	if m.IsDiscrete() {
		s.X1, s.X2, s.X3 = 0, 0, 0
		return nil
	}

	order := m.Order()
	sample, err := eval(t, nil)
	if err != nil {
		return err
	}
	if err := checkFinite(sample, order); err != nil {
		return err
	}
	setContinuousFromSample(s, t, order, sample)
	s.Q1, s.Q2 = 0, 0
	if order >= 2 {
		s.Q1 = s.X1
	}
	if order >= 3 {
		s.Q2 = s.X2
	}
	s.TE = nextEventTime(m, s)
	return nil
}

// InitDerivative fills X1/X2/X3 (and the matching Q coefficients) from the
// init0 state using eval, implementing the init1/init2 passes
// for a single variable. The driver calls this across ALL variables per
// pass, never per-variable out of order.
func InitDerivative(m Method, s *State, t float64, eval EvalFunc) error {
	if m.IsDiscrete() {
		return nil
	}
	order := m.Order()
	sample, err := eval(t, nil)
	if err != nil {
		return err
	}
	if err := checkFinite(sample, order); err != nil {
		return err
	}
	if order >= 1 {
		s.X1 = sample.F
	}
	if order >= 2 {
		s.X2 = sample.F1 / 2
		s.Q1 = s.X1
	}
	if order >= 3 {
		s.X3 = sample.F2 / 6
		s.Q2 = s.X2
	}
	return nil
}

func checkFinite(sample Sample, order int) error {
	if order >= 1 && !numeric.Finite(sample.F) {
		return errNonFinite(sample.F)
	}
	if order >= 2 && !numeric.Finite(sample.F1) {
		return errNonFinite(sample.F1)
	}
	if order >= 3 && !numeric.Finite(sample.F2) {
		return errNonFinite(sample.F2)
	}
	return nil
}

// nonFiniteError is a sentinel-free marker kept local to this package; the
// model package wraps it into xerrors.NumericError with the variable's
// name, since kinds has no notion of variable identity.
type nonFiniteError struct{ value float64 }

func (e *nonFiniteError) Error() string {
	return "kinds: derivative evaluator produced a non-finite value"
}

func errNonFinite(v float64) error { return &nonFiniteError{value: v} }

// NonFiniteValue extracts the offending value from an error produced by a
// derivative evaluator, if any, for callers that need to build a
// xerrors.NumericError.
func NonFiniteValue(err error) (float64, bool) {
	if nf, ok := err.(*nonFiniteError); ok {
		return nf.value, true
	}
	return 0, false
}
