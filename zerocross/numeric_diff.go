package zerocross

import "gonum.org/v1/gonum/diff/fd"

// NumericSlope estimates dx/dt at tau by central finite difference, for
// ZCe2 variables whose handler only classifies a crossing rather than
// needing an analytic derivative supplied by the model author.
func NumericSlope(x func(tau float64) float64, tau float64) float64 {
	return fd.Derivative(x, tau, &fd.Settings{
		Formula: fd.Central,
		Step: 1e-6,
	})
}
