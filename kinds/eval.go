package kinds

// Sample is a derivative evaluator's result at a point in time: the
// function's value and its first and second time-derivatives, as required
// by the calling variable's order. For a variable of order k the
// evaluator is expected to fill in F (k>=1), F1 (k>=2), F2 (k==3) and leave
// the rest at zero; the functions in this package read only as many fields
// as the order needs.
type Sample struct {
	F, F1, F2 float64
}

// EvalFunc evaluates a variable's derivative function at time t using the
// current quantized states of its observees. q0Override, when non-nil,
// asks the evaluator to substitute *q0Override for the variable's own
// quantized value instead of its currently stored Q0, used by LIQSS to
// probe candidate fixed points without mutating any state.
type EvalFunc func(t float64, q0Override *float64) (Sample, error)
