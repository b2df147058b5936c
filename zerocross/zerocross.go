// Package zerocross implements the zero-crossing subsystem:
// root isolation within the current continuous polynomial, crossing-kind
// classification, and handler dispatch. Root isolation reuses the same
// general cubic/quadratic/linear solvers package numeric exposes for the
// event-queue divergence calculation in package kinds: those root solvers
// are the shared machinery both depend on.
package zerocross

import (
	"math"

	"github.com/qss-go/qss/numeric"
)

// Crossing classifies a detected zero crossing by the polynomial's sign
// immediately before and after tZ. Dn/Up are confirmed clean
// crossings (opposite strict signs on both sides with a sufficiently
// non-zero slope at the root); DnPN/UpNP are the same opposite-sign shape
// but with a shallow slope, kept distinct because a handler may want to
// treat a barely-resolved crossing more cautiously than a sharp one. The
// remaining variants describe a crossing that only glances the zero band on
// one side (…PZ/…ZN/…ZP/…NZ) or not at all (Flat). This classification and
// its exact naming is not pinned down by any external source; documented
// here and in DESIGN.md as this implementation's own classification scheme.
type Crossing uint8

const (
	Flat Crossing = iota
	Dn
	DnPZ
	DnZN
	DnPN
	Up
	UpZP
	UpNZ
	UpNP
)

func (c Crossing) String() string {
	switch c {
	case Flat:
		return "Flat"
	case Dn:
		return "Dn"
	case DnPZ:
		return "DnPZ"
	case DnZN:
		return "DnZN"
	case DnPN:
		return "DnPN"
	case Up:
		return "Up"
	case UpZP:
		return "UpZP"
	case UpNZ:
		return "UpNZ"
	case UpNP:
		return "UpNP"
	default:
		return "Crossing(?)"
	}
}

// sign3 buckets v into -1/0/+1 using zTol as the zero band.
func sign3(v, zTol float64) int {
	if math.Abs(v) <= zTol {
		return 0
	}
	if v < 0 {
		return -1
	}
	return 1
}

// shallowSlopeFactor times zTol is the slope magnitude below which a clean
// (P,N) or (N,P) crossing is reported as the shallow DnPN/UpNP variant
// rather than the confident Dn/Up variant.
const shallowSlopeFactor = 4.0

// Classify determines the Crossing kind from the polynomial's value a small
// step before and after tZ, and the analytic slope at tZ.
func Classify(valBefore, valAfter, slopeAtZ, zTol float64) Crossing {
	sb, sa := sign3(valBefore, zTol), sign3(valAfter, zTol)
	switch {
	case sb == 0 && sa == 0:
		return Flat
	case sb > 0 && sa < 0:
		if math.Abs(slopeAtZ) < shallowSlopeFactor*zTol {
			return DnPN
		}
		return Dn
	case sb > 0 && sa == 0:
		return DnPZ
	case sb == 0 && sa < 0:
		return DnZN
	case sb < 0 && sa > 0:
		if math.Abs(slopeAtZ) < shallowSlopeFactor*zTol {
			return UpNP
		}
		return Up
	case sb < 0 && sa == 0:
		return UpNZ
	case sb == 0 && sa > 0:
		return UpZP
	default:
		// Same-sign on both sides: no real sign change occurred (a
		// numerically marginal root); treat conservatively as Flat so the
		// caller does not fire a handler for a non-event.
		return Flat
	}
}

// NextCrossing finds the smallest positive tau in (0, windowHi] solving
// x0 + x1*tau + x2*tau^2 + x3*tau^3 = 0, where the coefficients
// are the continuous polynomial anchored at the search window's start
// (i.e. at tX). If |x0| <= zTol the variable is already within the zero
// band: this is treated as an immediate tangent crossing, reported as
// tangent=true, and the caller must not schedule a new handler event until
// the polynomial's value has moved back outside the band by more than zTol.
func NextCrossing(order int, x0, x1, x2, x3, zTol, windowHi float64) (tau float64, found, tangent bool) {
	if math.Abs(x0) <= zTol {
		return 0, false, true
	}
	var root float64
	var ok bool
	switch order {
	case 1:
		root, ok = numeric.SmallestPositiveLinearRoot(x0, x1)
	case 2:
		root, ok = numeric.SmallestPositiveQuadraticRoot(x0, x1, x2)
	case 3:
		root, ok = numeric.SmallestPositiveCubicRoot(x0, x1, x2, x3)
	default:
		return 0, false, false
	}
	if !ok {
		return 0, false, false
	}
	if root > windowHi {
		// Root solver found a real but out-of-window root; treat it as a
		// numerical failure and fall back to the horizon-bounded limit
		// the caller passed as windowHi, so reporting not-found here lets
		// it apply that fallback uniformly.
		return 0, false, false
	}
	return root, true, false
}

// MutationChannel is the narrow capability a Handler is given to mutate
// other variables, only through this explicit interface rather than by
// holding a direct reference to the owning model. package model's *Model
// implements this so package zerocross never imports package model.
type MutationChannel interface {
	AdvanceHandler(id int, t float64, newValue float64) error
}

// Handler is invoked when a zero-crossing variable's tZ fires. It may
// mutate any number of other variables through mutate, but only via
// mutate.AdvanceHandler.
type Handler func(t float64, crossing Crossing, mutate MutationChannel) error
