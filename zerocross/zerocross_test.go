package zerocross

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNextCrossingLinear VERIFIES order-1 root isolation against a known
// linear root: x(tau) = 2 - 4*tau crosses zero at tau=0.5.
func TestNextCrossingLinear(t *testing.T) {
	tau, found, tangent := NextCrossing(1, 2, -4, 0, 0, 1e-9, 10)
	require.True(t, found)
	assert.False(t, tangent)
	assert.InDelta(t, 0.5, tau, 1e-9)
}

// TestNextCrossingQuadratic VERIFIES order-2 root isolation:
// x(tau) = (tau-2)(tau-3) = 6 - 5*tau + tau^2, smallest positive root 2.
func TestNextCrossingQuadratic(t *testing.T) {
	tau, found, tangent := NextCrossing(2, 6, -5, 1, 0, 1e-9, 10)
	require.True(t, found)
	assert.False(t, tangent)
	assert.InDelta(t, 2.0, tau, 1e-9)
}

// TestNextCrossingCubic VERIFIES order-3 root isolation: x(tau)=tau^3-8
// has its only real root at tau=2.
func TestNextCrossingCubic(t *testing.T) {
	tau, found, tangent := NextCrossing(3, -8, 0, 0, 1, 1e-9, 10)
	require.True(t, found)
	assert.False(t, tangent)
	assert.InDelta(t, 2.0, tau, 1e-9)
}

// TestNextCrossingTangentWithinBand VERIFIES a value already inside the
// zero band is reported as a tangent rather than a found root.
func TestNextCrossingTangentWithinBand(t *testing.T) {
	_, found, tangent := NextCrossing(1, 1e-12, -4, 0, 0, 1e-9, 10)
	assert.False(t, found)
	assert.True(t, tangent)
}

// TestNextCrossingOutOfWindowReportsNotFound VERIFIES a real root beyond
// windowHi is reported not-found so the caller can apply its own
// horizon-bounded fallback.
func TestNextCrossingOutOfWindowReportsNotFound(t *testing.T) {
	tau, found, tangent := NextCrossing(1, 2, -1, 0, 0, 1e-9, 1.0) // root at tau=2
	assert.False(t, found)
	assert.False(t, tangent)
	assert.Equal(t, 0.0, tau)
}

// TestClassifyCleanCrossings VERIFIES a sharp sign change in either
// direction is reported as Dn/Up rather than the shallow variant.
func TestClassifyCleanCrossings(t *testing.T) {
	assert.Equal(t, Dn, Classify(1.0, -1.0, -10.0, 1e-6))
	assert.Equal(t, Up, Classify(-1.0, 1.0, 10.0, 1e-6))
}

// TestClassifyShallowCrossings VERIFIES a sign change with a slope near the
// zero band is downgraded to DnPN/UpNP.
func TestClassifyShallowCrossings(t *testing.T) {
	zTol := 1e-3
	assert.Equal(t, DnPN, Classify(1.0, -1.0, zTol, zTol))
	assert.Equal(t, UpNP, Classify(-1.0, 1.0, -zTol, zTol))
}

// TestClassifyGlancingOneSidedZero VERIFIES a crossing that only touches
// zero on one side is reported as the matching PZ/ZN/ZP/NZ variant.
func TestClassifyGlancingOneSidedZero(t *testing.T) {
	zTol := 1e-6
	assert.Equal(t, DnPZ, Classify(1.0, 0.0, -1.0, zTol))
	assert.Equal(t, DnZN, Classify(0.0, -1.0, -1.0, zTol))
	assert.Equal(t, UpZP, Classify(0.0, 1.0, 1.0, zTol))
	assert.Equal(t, UpNZ, Classify(-1.0, 0.0, 1.0, zTol))
}

// TestClassifyFlat VERIFIES no real sign change (same sign both sides, or
// zero both sides) classifies as Flat.
func TestClassifyFlat(t *testing.T) {
	zTol := 1e-6
	assert.Equal(t, Flat, Classify(0.0, 0.0, 0.0, zTol))
	assert.Equal(t, Flat, Classify(1.0, 1.0, 0.0, zTol))
	assert.Equal(t, Flat, Classify(-1.0, -1.0, 0.0, zTol))
}

// TestCrossingStringCoversAllValues VERIFIES every enumerator has a
// distinct, non-fallback name.
func TestCrossingStringCoversAllValues(t *testing.T) {
	for c := Flat; c <= UpNP; c++ {
		assert.NotEqual(t, "Crossing(?)", c.String())
	}
}

// TestNumericSlopeApproximatesAnalyticDerivative VERIFIES the finite-
// difference slope used by ZCe2 tracks a known analytic derivative.
func TestNumericSlopeApproximatesAnalyticDerivative(t *testing.T) {
	square := func(tau float64) float64 { return tau * tau }
	slope := NumericSlope(square, 3.0) // d/dtau(tau^2) at 3 = 6
	assert.InDelta(t, 6.0, slope, 1e-4)
}

func TestSign3(t *testing.T) {
	assert.Equal(t, 0, sign3(1e-10, 1e-6))
	assert.Equal(t, -1, sign3(-1.0, 1e-6))
	assert.Equal(t, 1, sign3(1.0, 1e-6))
}
