// This file implements the per-variable state transitions
// on top of package kinds' per-method algorithms: self-requantization,
// one-level observer propagation, handler-driven mutation (the
// zerocross.MutationChannel implementation), and zero-crossing scheduling.
// The event queue always holds, per variable, the earlier of its next
// requantization time and (for zero-crossing variables) its next detected
// root time; the driver distinguishes the two when a variable's turn comes,
// calling FireZeroCrossing or RequantizeVariable.
package model

import (
	"math"

	"github.com/qss-go/qss/internal/xerrors"
	"github.com/qss-go/qss/kinds"
	"github.com/qss-go/qss/numeric"
	"github.com/qss-go/qss/queue"
	"github.com/qss-go/qss/zerocross"
)

func (m *Model) wrapNumeric(v *Variable, t float64, err error) error {
	if val, ok := kinds.NonFiniteValue(err); ok {
		return &xerrors.NumericError{Time: t, Variable: v.name, Value: val}
	}
	return err
}

// refreshZeroCrossing recomputes v's next root time from its current
// continuous polynomial (anchored at TX), bounded by the simulation
// horizon. A value already inside the zero band is a tangent: it is not
// rescheduled (tZ is parked at +Inf) until a later refresh observes the
// value has moved outside the band again.
func (m *Model) refreshZeroCrossing(v *Variable) {
	if !v.IsZeroCrossing() {
		return
	}
	windowHi := m.horizon - v.st.TX
	if !(windowHi > 0) {
		v.tZ = numeric.Infinity
		v.zTangent = false
		return
	}
	order := v.method.Order()
	tau, found, tangent := zerocross.NextCrossing(order, v.st.X0, v.st.X1, v.st.X2, v.st.X3, v.zTol, windowHi)
	v.zTangent = tangent
	if tangent || !found {
		v.tZ = numeric.Infinity
		return
	}
	v.tZ = v.st.TX + tau
}

// effectiveEventTime is the earlier of v's requantization time and (for
// zero-crossing variables) its root time.
func effectiveEventTime(v *Variable) float64 {
	t := v.st.TE
	if v.IsZeroCrossing() && v.tZ < t {
		t = v.tZ
	}
	return t
}

// scheduleVariable refreshes v's zero-crossing root (if applicable) and
// reflects its effective event time into the queue, removing the entry
// entirely if the variable has nothing left to do before the horizon.
func (m *Model) scheduleVariable(v *Variable) {
	if v.IsDiscrete() {
		return
	}
	m.refreshZeroCrossing(v)
	t := effectiveEventTime(v)
	id := queue.ID(v.id)
	if !numeric.Finite(t) || t > m.horizon {
		if m.q.Contains(id) {
			m.q.Remove(id)
		}
		return
	}
	if m.q.Contains(id) {
		m.q.Shift(id, t)
	} else {
		m.q.Insert(id, t)
	}
}

// RequantizeVariable performs a full self-requantization of id at time t
// and reschedules its queue entry.
func (m *Model) RequantizeVariable(id VariableID, t float64) error {
	v := m.mustVariable(id)
	if err := kinds.Requantize(v.method, &v.st, t, m.evalFuncFor(id)); err != nil {
		return m.wrapNumeric(v, t, err)
	}
	m.scheduleVariable(v)
	return nil
}

// AdvanceObserverVariable refreshes id's continuous polynomial only, as an
// observer reacting to one of its observees having just changed. It
// reschedules id's queue entry but does not touch id's own
// quantized polynomial.
func (m *Model) AdvanceObserverVariable(id VariableID, t float64) error {
	v := m.mustVariable(id)
	if err := kinds.AdvanceObserver(v.method, &v.st, t, m.evalFuncFor(id)); err != nil {
		return m.wrapNumeric(v, t, err)
	}
	m.scheduleVariable(v)
	return nil
}

// PropagateObservers advances every direct observer of sourceID by exactly
// one level (its explicit prohibition on transitive cascades
// within a single step): observers that are themselves in the current
// simultaneous batch are skipped here, since the driver will refresh them
// directly as part of that same batch.
func (m *Model) PropagateObservers(sourceID VariableID, t float64, skip map[VariableID]bool) error {
	v := m.mustVariable(sourceID)
	for _, obsID := range v.observers {
		if skip != nil && skip[obsID] {
			continue
		}
		if err := m.AdvanceObserverVariable(obsID, t); err != nil {
			return err
		}
	}
	return nil
}

// AdvanceHandler reinitializes id at (t, newValue) and reschedules it. It
// implements zerocross.MutationChannel, the sole entry point through which
// a Handler may mutate state.
func (m *Model) AdvanceHandler(id int, t float64, newValue float64) error {
	v, err := m.variable(id)
	if err != nil {
		return err
	}
	if err := kinds.AdvanceHandler(v.method, &v.st, t, newValue, m.evalFuncFor(id)); err != nil {
		return m.wrapNumeric(v, t, err)
	}
	m.scheduleVariable(v)
	return nil
}

// FireZeroCrossing samples the polynomial a small step before and after t,
// classifies the crossing, and invokes id's handler with m as the mutation
// channel. It is called by the driver when id's popped
// event time equals its root time rather than its requantization time.
func (m *Model) FireZeroCrossing(id VariableID, t float64) error {
	v := m.mustVariable(id)
	slope := v.st.X1At(t)
	if v.method.IsNumericEventIndicator() {
		slope = zerocross.NumericSlope(v.st.X, t)
	}
	// The probe step is wide enough that a root with a non-zero slope
	// leaves the zTol band on both sides (|slope|*probe = 2*zTol).
	probe := 1e-9
	if s := math.Abs(slope); s > 0 && 2*v.zTol/s > probe {
		probe = 2 * v.zTol / s
	}
	before := v.st.X(t - probe)
	after := v.st.X(t + probe)
	crossing := zerocross.Classify(before, after, slope, v.zTol)
	v.crossing = crossing
	if crossing == zerocross.Flat {
		// A marginal/non-event root; still requantize to pick up a fresh
		// estimate and move on without invoking the handler.
		return m.RequantizeVariable(id, t)
	}
	if err := v.handler(t, crossing, m); err != nil {
		return err
	}
	// The handler mutates variables (possibly including id itself) via
	// AdvanceHandler, which already reschedules each mutated variable; if
	// id itself was not mutated, give it a fresh requantization so its tZ
	// does not immediately refire at the same root.
	if effectiveEventTime(v) <= t {
		return m.RequantizeVariable(id, t)
	}
	return nil
}
