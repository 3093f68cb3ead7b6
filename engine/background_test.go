package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundAtChebyshevConstantTerm(t *testing.T) {
	got := BackgroundAt(BackgroundChebyshev, []float64{3.0}, 50, 10, 90, 0)
	assert.Equal(t, 3.0, got)
}

func TestBackgroundAtChebyshevAtMidpointIsSumOfOddTermsZero(t *testing.T) {
	// x = 0 at the midpoint of [thetaMin, thetaMax]; T_0(0)=1, T_1(0)=0.
	got := BackgroundAt(BackgroundChebyshev, []float64{2.0, 5.0}, 50, 10, 90, 0)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestBackgroundAtLaurentSingleTermAtPolyStartMinusOne(t *testing.T) {
	got := BackgroundAt(BackgroundLaurent, []float64{10.0}, 20, 0, 0, -1)
	assert.InDelta(t, 0.5, got, 1e-12)
}

func TestBackgroundAtLaurentSumsMultipleTerms(t *testing.T) {
	// coefficients[0] at exponent -1, coefficients[1] at exponent 0.
	got := BackgroundAt(BackgroundLaurent, []float64{10.0, 2.0}, 20, 0, 0, -1)
	assert.InDelta(t, 0.5+2.0, got, 1e-12)
}

func TestFitBackgroundLeastSquaresRecoversConstantBackground(t *testing.T) {
	angles := []float64{20, 30, 40, 50, 60}
	intensity := make([]float64, len(angles))
	for i := range intensity {
		intensity[i] = 7.5
	}
	coeffs := FitBackgroundLeastSquares(BackgroundChebyshev, angles, intensity, 1, angles[0], angles[len(angles)-1], 0)
	assert.InDelta(t, 7.5, coeffs[0], 1e-6)
}

func TestFitBackgroundLeastSquaresRecoversLinearTrend(t *testing.T) {
	thetaMin, thetaMax := 20.0, 60.0
	angles := []float64{20, 30, 40, 50, 60}
	// true background is 3 + 2*x in Chebyshev-reduced coordinates
	intensity := make([]float64, len(angles))
	for i, a := range angles {
		x := 2*(a-thetaMin)/(thetaMax-thetaMin) - 1
		intensity[i] = 3 + 2*x
	}
	coeffs := FitBackgroundLeastSquares(BackgroundChebyshev, angles, intensity, 2, thetaMin, thetaMax, 0)
	assert.InDelta(t, 3.0, coeffs[0], 1e-6)
	assert.InDelta(t, 2.0, coeffs[1], 1e-6)
}
