// Package kinds implements the per-method requantization and advance
// algorithms: QSS1-3, LIQSS1-2, Discrete, Inp1-3, ZC1-2, ZCe2.
// Method is a closed, small-integer enum; Requantize, AdvanceObserver,
// AdvanceHandler and the init functions branch on it directly rather than
// dispatching through a per-kind interface: the method set
// is fixed and small, so a single non-virtual switch keeps the hot path
// branch-predictable.
package kinds

import "fmt"

// Method identifies one of the twelve concrete variable algorithms.
type Method uint8

const (
	// QSS1, QSS2, QSS3 are explicit QSS of order 1, 2, 3.
	QSS1 Method = iota
	QSS2
	QSS3
	// LIQSS1, LIQSS2 are linear-implicit QSS of order 1, 2.
	LIQSS1
	LIQSS2
	// Discrete variables hold a single value and never self-schedule.
	Discrete
	// Inp1, Inp2, Inp3 represent exogenous time functions of order 1, 2, 3.
	Inp1
	Inp2
	Inp3
	// ZC1, ZC2 are zero-crossing variables of order 1, 2 with analytic
	// derivatives; ZCe2 is the order-2 variant using numeric
	// differentiation of the event indicator instead.
	ZC1
	ZC2
	ZCe2
)

// String renders the method's canonical short name.
func (m Method) String() string {
	switch m {
	case QSS1:
		return "QSS1"
	case QSS2:
		return "QSS2"
	case QSS3:
		return "QSS3"
	case LIQSS1:
		return "LIQSS1"
	case LIQSS2:
		return "LIQSS2"
	case Discrete:
		return "Discrete"
	case Inp1:
		return "Inp1"
	case Inp2:
		return "Inp2"
	case Inp3:
		return "Inp3"
	case ZC1:
		return "ZC1"
	case ZC2:
		return "ZC2"
	case ZCe2:
		return "ZCe2"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// Order returns the method's polynomial order (0, 1, 2, or 3).
func (m Method) Order() int {
	switch m {
	case QSS1, LIQSS1, Inp1, ZC1:
		return 1
	case QSS2, LIQSS2, Inp2, ZC2, ZCe2:
		return 2
	case QSS3, Inp3:
		return 3
	default: // Discrete
		return 0
	}
}

// IsLIQSS reports whether m is one of the linear-implicit methods.
func (m Method) IsLIQSS() bool { return m == LIQSS1 || m == LIQSS2 }

// IsInput reports whether m represents an exogenous input variable.
func (m Method) IsInput() bool { return m == Inp1 || m == Inp2 || m == Inp3 }

// IsZeroCrossing reports whether m is one of the zero-crossing methods.
func (m Method) IsZeroCrossing() bool { return m == ZC1 || m == ZC2 || m == ZCe2 }

// IsDiscrete reports whether m is the discrete (non-self-scheduling) method.
func (m Method) IsDiscrete() bool { return m == Discrete }

// IsNumericEventIndicator reports whether the zero-crossing expression
// should be differentiated numerically (ZCe2) rather than analytically.
func (m Method) IsNumericEventIndicator() bool { return m == ZCe2 }
