package model

import "github.com/qss-go/qss/kinds"

// Init0 seeds a single variable's polynomial at simulation start: x0=q0=
// the construction-time initial value (its init0 pass). NewVariable
// already sets X0=Q0=xIni, so this only seeds TX/TQ and Discrete's
// permanently-idle TE; the driver still calls it across every variable so
// the pass exists uniformly regardless of what each kind needs.
func (m *Model) Init0(id VariableID, t0 float64) {
	v := m.mustVariable(id)
	v.st.TX, v.st.TQ = t0, t0
	if v.IsDiscrete() {
		kinds.InitDiscrete(&v.st)
	}
}

// Init1 fills x1 (and, for order>=2 methods, seeds q1=x1) from the
// derivative evaluator (its init1 pass). The driver calls this
// across every variable before any variable's Init2 runs, since a
// variable's derivative may read another's freshly-seeded x1 only once
// every variable has one.
func (m *Model) Init1(id VariableID, t0 float64) error {
	v := m.mustVariable(id)
	if err := kinds.InitDerivative(v.method, &v.st, t0, m.evalFuncFor(id)); err != nil {
		return m.wrapNumeric(v, t0, err)
	}
	return nil
}

// Init2 fills x2/q2 for order-3 methods (its init2 pass); it is a
// no-op for lower-order variables since InitDerivative already filled
// everything they need in Init1. Kept as a distinct driver-visible pass
// rather than folded into Init1 so the outer loop structure keeps every
// variable in lockstep and never lets one run ahead to a later stage.
func (m *Model) Init2(id VariableID, t0 float64) error {
	v := m.mustVariable(id)
	if v.method.Order() < 3 {
		return nil
	}
	if err := kinds.InitDerivative(v.method, &v.st, t0, m.evalFuncFor(id)); err != nil {
		return m.wrapNumeric(v, t0, err)
	}
	return nil
}

// InitEvent computes id's initial event time(s) and inserts its queue
// entry (its init_event pass): the first self-requantization time
// TE, and, for zero-crossing variables, the first root time tZ.
func (m *Model) InitEvent(id VariableID) {
	v := m.mustVariable(id)
	if v.IsDiscrete() {
		return
	}
	v.st.TE = recomputeInitialTE(v)
	m.scheduleVariable(v)
}

// recomputeInitialTE reuses the same divergence-root machinery Requantize
// uses, by treating the freshly-seeded (x==q) polynomial as already
// quantized: this is exactly the init_event definition ("as if a
// Requantize had just completed using the seeded x/q values").
func recomputeInitialTE(v *Variable) float64 {
	// Keep Q as init0-init2 leave it (q0=x0; q1/q2 only for orders that
	// quantize them), then ask kinds for the resulting TE without
	// re-evaluating the derivative.
	v.st.Q0 = v.st.X0
	return kinds.InitialEventTime(v.method, &v.st)
}
