package model

import (
	"fmt"

	"github.com/qss-go/qss/internal/diag"
	"github.com/qss-go/qss/internal/xerrors"
	"github.com/qss-go/qss/kinds"
	"github.com/qss-go/qss/numeric"
	"github.com/qss-go/qss/queue"
	"github.com/qss-go/qss/zerocross"
)

// Model is the arena owning every Variable and the shared event queue.
// It is constructed via NewModel and NewVariable/
// DeclareObservee/SetDerivative/SetHandler, then sealed with Finalize
// before a driver may simulate it.
type Model struct {
	vars []*Variable
	byName map[string]VariableID
	q *queue.Queue
	log *diag.Logger
	warned map[VariableID]bool
	final bool
	horizon float64
}

// NewModel returns an empty Model. A nil logger is replaced with a
// discarding one, mirroring diag.Logger's own nil-safety. The simulation
// horizon defaults to +Inf until the driver calls SetHorizon.
func NewModel(log *diag.Logger) *Model {
	if log == nil {
		log = diag.Discard()
	}
	return &Model{
		byName: make(map[string]VariableID),
		q: queue.New(),
		log: log,
		warned: make(map[VariableID]bool),
		horizon: numeric.Infinity,
	}
}

// SetHorizon records the simulation end time, used to bound zero-crossing
// root search windows. The driver calls this once before the
// first init pass.
func (m *Model) SetHorizon(tEnd float64) { m.horizon = tEnd }

// VariableOption configures optional per-variable fields at construction.
type VariableOption func(*Variable)

// WithDtMax sets the maximum inter-event spacing for an Input variable
// (its Input bound). Ignored by other kinds.
func WithDtMax(dtMax float64) VariableOption {
	return func(v *Variable) { v.st.DtMax = dtMax }
}

// WithZTol sets the zero band for a zero-crossing variable.
// Ignored by other kinds.
func WithZTol(zTol float64) VariableOption {
	return func(v *Variable) { v.zTol = zTol }
}

// NewVariable registers a new variable of the given method, seeded at
// xIni with the given relative/absolute tolerances (its qTol =
// max(aTol, rTol*|q0|)). Non-positive tolerances are clamped to
// numeric.MinTolerance and reported once via m's logger rather
// than rejected.
func (m *Model) NewVariable(name string, method kinds.Method, xIni, rTol, aTol float64, opts ...VariableOption) (VariableID, error) {
	if m.final {
		return 0, fmt.Errorf("model: NewVariable after Finalize")
	}
	if name == "" {
		return 0, ErrEmptyName
	}
	if _, exists := m.byName[name]; exists {
		return 0, &xerrors.BuilderError{Variable: name, Reason: "duplicate variable name"}
	}

	id := len(m.vars)
	v := &Variable{
		id: id,
		name: name,
		method: method,
		kind: kindOf(method),
		tZ: numeric.Infinity,
	}
	v.st = kinds.State{
		ATol: m.clampTolerance(id, name, "ATol", aTol),
		RTol: m.clampTolerance(id, name, "RTol", rTol),
		X0: xIni,
		Q0: xIni,
	}
	for _, opt := range opts {
		opt(v)
	}

	m.vars = append(m.vars, v)
	m.byName[name] = id
	return id, nil
}

func (m *Model) clampTolerance(id VariableID, name, field string, given float64) float64 {
	clamped := numeric.ClampTolerance(given)
	if clamped != given && !m.warned[id] {
		m.warned[id] = true
		m.log.Warn("tolerance clamped", "variable", name, "field", field, "given", given, "clamped", clamped)
	}
	return clamped
}

// DeclareObservee records that dependent's derivative reads observee's
// quantized value; the reverse observer edge is derived at
// Finalize.
func (m *Model) DeclareObservee(dependent, observee VariableID) error {
	if m.final {
		return fmt.Errorf("model: DeclareObservee after Finalize")
	}
	dv, err := m.variable(dependent)
	if err != nil {
		return err
	}
	if _, err := m.variable(observee); err != nil {
		return err
	}
	for _, existing := range dv.observees {
		if existing == observee {
			return nil // already declared; idempotent
		}
	}
	dv.observees = append(dv.observees, observee)
	return nil
}

// SetDerivative attaches id's derivative evaluator.
func (m *Model) SetDerivative(id VariableID, fn DerivativeFunc) error {
	if m.final {
		return fmt.Errorf("model: SetDerivative after Finalize")
	}
	v, err := m.variable(id)
	if err != nil {
		return err
	}
	v.derivative = fn
	return nil
}

// SetHandler attaches id's zero-crossing handler. id must be a
// zero-crossing variable (declared with a ZC1/ZC2/ZCe2 method).
func (m *Model) SetHandler(id VariableID, h zerocross.Handler) error {
	if m.final {
		return fmt.Errorf("model: SetHandler after Finalize")
	}
	v, err := m.variable(id)
	if err != nil {
		return err
	}
	if !v.IsZeroCrossing() {
		return ErrNotZeroCrossing
	}
	v.handler = h
	return nil
}

// Finalize seals the model: it derives the observer adjacency from every
// declared observee edge, and verifies every non-discrete variable has a
// derivative and every zero-crossing variable has a handler (its
// "unresolved reference found at model finalization" is fatal before
// simulation can start). Call this once, after all variables and wiring
// are declared.
func (m *Model) Finalize() error {
	if m.final {
		return nil
	}
	for _, v := range m.vars {
		for _, observeeID := range v.observees {
			ov := m.vars[observeeID]
			ov.observers = appendUnique(ov.observers, v.id)
		}
	}
	for _, v := range m.vars {
		if v.derivative == nil && !v.IsDiscrete() {
			return &xerrors.BuilderError{Variable: v.name, Reason: "no derivative set"}
		}
		if v.IsZeroCrossing() && v.handler == nil {
			return &xerrors.BuilderError{Variable: v.name, Reason: "no handler set"}
		}
		if v.IsZeroCrossing() {
			v.zTol = numeric.ClampTolerance(v.zTol)
		}
	}
	m.final = true
	return nil
}

func appendUnique(s []VariableID, id VariableID) []VariableID {
	for _, existing := range s {
		if existing == id {
			return s
		}
	}
	return append(s, id)
}

// NumVariables returns the number of registered variables.
func (m *Model) NumVariables() int { return len(m.vars) }

// Variable returns the variable registered under id, or an error if id is
// out of range.
func (m *Model) Variable(id VariableID) (*Variable, error) { return m.variable(id) }

// VariableByName returns the variable registered under name.
func (m *Model) VariableByName(name string) (*Variable, error) {
	id, ok := m.byName[name]
	if !ok {
		return nil, &xerrors.BuilderError{Variable: name, Reason: "no such variable"}
	}
	return m.vars[id], nil
}

func (m *Model) variable(id VariableID) (*Variable, error) {
	if id < 0 || id >= len(m.vars) {
		return nil, ErrUnknownID
	}
	return m.vars[id], nil
}

// mustVariable is the internal fast path used from hot loops where id was
// already validated at Finalize time.
func (m *Model) mustVariable(id VariableID) *Variable { return m.vars[id] }

// Queue exposes the model's event queue to the driver package.
func (m *Model) Queue() *queue.Queue { return m.q }

// Logger exposes the model's diagnostic logger to the driver package.
func (m *Model) Logger() *diag.Logger { return m.log }
