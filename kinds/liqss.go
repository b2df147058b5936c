package kinds

import "github.com/qss-go/qss/numeric"

// requantizeLIQSS implements the linear-implicit nudge:
// LIQSS1 selects q0 (and LIQSS2 additionally q1) from candidate derivative
// evaluations at q0+qTol and q0-qTol, rather than simply sampling the
// continuous polynomial. This is what bounds LIQSS's oscillation on stiff
// problems relative to plain QSS.
//
// By the time this runs, Requantize has already set s.Q0 (and s.Q1 for
// LIQSS2) to the Taylor-shift value and recomputed s.QTol; this function
// overwrites those with the implicit fixed point before rebuilding the
// continuous polynomial and TE.
func requantizeLIQSS(m Method, s *State, t float64, eval EvalFunc) error {
	order := m.Order()
	q0hat := s.Q0
	qTol := s.QTol

	qPlus := q0hat + qTol
	qMinus := q0hat - qTol
	samplePlus, err := eval(t, &qPlus)
	if err != nil {
		return err
	}
	sampleMinus, err := eval(t, &qMinus)
	if err != nil {
		return err
	}
	if err := checkFinite(samplePlus, order); err != nil {
		return err
	}
	if err := checkFinite(sampleMinus, order); err != nil {
		return err
	}

	q0, chosenSample, flat := liqssFixedPoint(q0hat, qTol, samplePlus.F, sampleMinus.F, samplePlus, sampleMinus)
	s.Q0 = q0
	s.QTol = numeric.QTol(s.ATol, s.RTol, s.Q0)

	if m == LIQSS2 {
		// Analogous rule applied to the (q0,q1) pair: having
		// fixed q0, take q1 from the chosen candidate's first derivative,
		// continuity-anchored (the candidate sample already reflects the
		// derivative function evaluated with the variable held at q0).
		if flat {
			s.Q1 = 0
		} else {
			s.Q1 = chosenSample.F
		}
	}

	// Rebuild the continuous polynomial from a final evaluation at the
	// chosen q0 (not a candidate probe), so X reflects the variable's own
	// actual quantized state rather than a +-qTol perturbation.
	sample, err := eval(t, &q0)
	if err != nil {
		return err
	}
	if err := checkFinite(sample, order); err != nil {
		return err
	}
	setContinuousFromSample(s, t, order, sample)
	if flat {
		s.X1 = 0
	}

	s.TE = nextEventTime(m, s)
	return nil
}

// liqssFixedPoint implements the LIQSS1 selection rule: if the candidate
// derivatives at q0+qTol and q0-qTol bracket zero, the variable has a fixed
// point inside the quantum band: pick it by linear interpolation and
// report a flat (zero-derivative) trajectory. Otherwise pick whichever
// candidate's sign matches its own derivative direction (monotone).
func liqssFixedPoint(q0hat, qTol, fPlus, fMinus float64, samplePlus, sampleMinus Sample) (q0 float64, chosen Sample, flat bool) {
	brackets := (fPlus >= 0 && fMinus <= 0) || (fPlus <= 0 && fMinus >= 0)
	if brackets && fPlus != fMinus {
		frac := fPlus / (fPlus - fMinus)
		q0 = (q0hat + qTol) - frac*2*qTol
		return q0, Sample{}, true
	}
	if fPlus > 0 {
		return q0hat + qTol, samplePlus, false
	}
	return q0hat - qTol, sampleMinus, false
}
