package numeric

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// companionCubicRoots returns the real roots of a3*t^3+a2*t^2+a1*t+a0 via
// the eigenvalues of its companion matrix, used as SmallestPositiveCubicRoot's
// fallback when Cardano's trigonometric branch is ill-conditioned (the
// discriminant near zero, where the three trig roots lose precision).
func companionCubicRoots(a0, a1, a2, a3 float64) []float64 {
	b, c, d := a2/a3, a1/a3, a0/a3
	companion := mat.NewDense(3, 3, []float64{
		0, 0, -d,
		1, 0, -c,
		0, 1, -b,
	})
	var eig mat.Eigen
	if !eig.Factorize(companion, mat.EigenRight) {
		return nil
	}
	var roots []float64
	for _, v := range eig.Values(nil) {
		if v.Imag() == 0 || floats.EqualWithinAbs(v.Imag(), 0, 1e-9) {
			roots = append(roots, v.Real())
		}
	}
	return roots
}

// smallestPositiveFrom picks the smallest strictly-positive finite value
// among candidates.
func smallestPositiveFrom(candidates []float64) (float64, bool) {
	best := Infinity
	found := false
	for _, t := range candidates {
		if t > 0 && Finite(t) && t < best {
			best = t
			found = true
		}
	}
	return best, found
}
