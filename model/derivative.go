package model

import "github.com/qss-go/qss/kinds"

// Query lets a DerivativeFunc read an observee's quantized state without
// holding a reference to the owning Model: derivative functions are only
// permitted to read quantized values of declared observees.
type Query interface {
	// Q returns observee id's quantized polynomial value at time t.
	Q(id VariableID, t float64) float64
	// Q1 returns observee id's quantized polynomial first derivative at t
	// (zero for Discrete and order-1 methods, whose quantized polynomial is
	// constant).
	Q1(id VariableID, t float64) float64
}

// DerivativeFunc computes a variable's derivative value and, for
// second/third-order methods, its first and second time derivatives, at
// time t given the current quantized states of its declared observees.
// value is always required; d1/d2 are read only when the
// variable's Method.Order() needs them (ignored otherwise, so a QSS1
// function may safely return zeros).
type DerivativeFunc func(t float64, q Query) (value, d1, d2 float64, err error)

// queryView adapts a *Model into a Query scoped to one derivative
// evaluation; it exists only to keep Model's exported surface free of the
// Q/Q1-by-id plumbing used internally by eval closures.
type queryView struct{ m *Model }

func (qv queryView) Q(id VariableID, t float64) float64 {
	v := qv.m.mustVariable(id)
	return v.st.Q(t)
}

func (qv queryView) Q1(id VariableID, t float64) float64 {
	v := qv.m.mustVariable(id)
	return v.st.Q1At(t)
}

// evalFuncFor builds a kinds.EvalFunc closure over variable id's
// DerivativeFunc, translating kinds' (Sample, error) shape to/from
// DerivativeFunc's (value, d1, d2, error) shape. q0Override is LIQSS's
// probe mechanism: when non-nil, id's OWN quantized value is
// overridden for the duration of this single evaluation, without mutating
// state.
func (m *Model) evalFuncFor(id VariableID) kinds.EvalFunc {
	return func(t float64, q0Override *float64) (kinds.Sample, error) {
		v := m.mustVariable(id)
		var override *float64
		var savedQ0 float64
		if q0Override != nil {
			savedQ0 = v.st.Q0
			v.st.Q0 = *q0Override
			override = q0Override
		}
		value, d1, d2, err := v.derivative(t, queryView{m})
		if override != nil {
			v.st.Q0 = savedQ0
		}
		if err != nil {
			return kinds.Sample{}, err
		}
		return kinds.Sample{F: value, F1: d1, F2: d2}, nil
	}
}
