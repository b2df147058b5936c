package kinds

import "github.com/qss-go/qss/numeric"

// InitDiscrete seats a Discrete variable's TE at +Inf ("never
// self-schedule"). Discrete variables are mutated exclusively by
// AdvanceHandler; Requantize, AdvanceObserver and InitDerivative are no-ops
// for them, each guarded by Method.IsDiscrete().
func InitDiscrete(s *State) {
	s.TE = numeric.Infinity
	s.TQ = s.TX
	s.Q0 = s.X0
}
