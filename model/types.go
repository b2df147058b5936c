// Package model implements the Variable/Model data
// model, polynomial base behavior, observer/observee wiring and
// propagation, and initialization staging. It owns a kinds.State per
// Variable and drives it through package kinds' per-method algorithms;
// Variable and Model never duplicate that math themselves.
//
// Variables live in a slice owned by Model and are referenced elsewhere
// only by VariableID (a plain int), never by pointer: this is what lets
// cyclic observer/observee graphs exist without Go-level reference cycles
// and keeps replay/cloning trivial.
package model

import (
	"errors"

	"github.com/qss-go/qss/kinds"
	"github.com/qss-go/qss/zerocross"
)

// VariableID indexes a Variable within a Model's arena. It is a plain int
// alias (not a distinct named type) so a Model can satisfy
// zerocross.MutationChannel without either package importing the other.
type VariableID = int

// Kind is the coarse variable category: QSS, LIQSS, Discrete,
// Input, or ZeroCrossing. It is derived from a kinds.Method at construction
// and cached for cheap predicates; kinds.Method remains the single
// dispatch key used for every algorithmic call.
type Kind uint8

const (
	KindQSS Kind = iota
	KindLIQSS
	KindDiscrete
	KindInput
	KindZeroCrossing
)

func (k Kind) String() string {
	switch k {
	case KindQSS:
		return "QSS"
	case KindLIQSS:
		return "LIQSS"
	case KindDiscrete:
		return "Discrete"
	case KindInput:
		return "Input"
	case KindZeroCrossing:
		return "ZeroCrossing"
	default:
		return "Kind(?)"
	}
}

// kindOf maps a kinds.Method to its coarse Kind.
func kindOf(m kinds.Method) Kind {
	switch {
	case m.IsLIQSS():
		return KindLIQSS
	case m.IsDiscrete():
		return KindDiscrete
	case m.IsInput():
		return KindInput
	case m.IsZeroCrossing():
		return KindZeroCrossing
	default:
		return KindQSS
	}
}

// Sentinel errors returned by Model's builder-phase methods; see also
// xerrors.BuilderError, the typed error (carrying the variable's name) that
// Model returns for duplicate or unknown names and for the unresolved
// references found at Finalize.
var (
	ErrEmptyName = errors.New("model: variable name is empty")
	ErrUnknownID = errors.New("model: unknown variable id")
	ErrNotZeroCrossing = errors.New("model: SetHandler on a non-zero-crossing variable")
)

// Variable is one QSS state variable: its polynomial state (owned by
// kinds.State), its method/kind, its observer/observee wiring (by ID), and,
// for zero-crossing variables, its handler and crossing classification.
type Variable struct {
	id VariableID
	name string
	method kinds.Method
	kind Kind

	st kinds.State

	observees []VariableID
	observers []VariableID

	derivative DerivativeFunc

	// Zero-crossing-only fields.
	zTol float64
	crossing zerocross.Crossing
	handler zerocross.Handler
	tZ float64
	zTangent bool // true while the crossing value is inside the zTol band
}

// ID returns the variable's identity within its Model.
func (v *Variable) ID() VariableID { return v.id }

// Name returns the variable's label.
func (v *Variable) Name() string { return v.name }

// Method returns the variable's concrete algorithm.
func (v *Variable) Method() kinds.Method { return v.method }

// Kind returns the variable's coarse category.
func (v *Variable) Kind() Kind { return v.kind }

// IsZeroCrossing reports whether this variable is a zero-crossing detector.
func (v *Variable) IsZeroCrossing() bool { return v.kind == KindZeroCrossing }

// IsDiscrete reports whether this variable never self-schedules.
func (v *Variable) IsDiscrete() bool { return v.kind == KindDiscrete }

// X evaluates the continuous polynomial at t.
func (v *Variable) X(t float64) float64 { return v.st.X(t) }

// Q evaluates the quantized polynomial at t.
func (v *Variable) Q(t float64) float64 { return v.st.Q(t) }

// TE returns the variable's next scheduled internal event time.
func (v *Variable) TE() float64 { return v.st.TE }

// TQ returns the variable's most recent quantization time.
func (v *Variable) TQ() float64 { return v.st.TQ }

// TX returns the variable's most recent continuous-update time.
func (v *Variable) TX() float64 { return v.st.TX }

// TZ returns the variable's next scheduled zero-crossing time (+Inf if
// none known); only meaningful for zero-crossing variables.
func (v *Variable) TZ() float64 { return v.tZ }

// Crossing returns the variable's current crossing classification (only
// meaningful after at least one handler firing).
func (v *Variable) Crossing() zerocross.Crossing { return v.crossing }

// Observees returns the IDs of variables this variable's derivative reads.
func (v *Variable) Observees() []VariableID { return append([]VariableID(nil), v.observees...) }

// Observers returns the IDs of variables whose derivatives read this one.
func (v *Variable) Observers() []VariableID { return append([]VariableID(nil), v.observers...) }

// QTol returns the variable's current quantum (derived tolerance band).
func (v *Variable) QTol() float64 { return v.st.QTol }
