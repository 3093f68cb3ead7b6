package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngularShiftConstantTermOnly(t *testing.T) {
	shift := [6]float64{0, 0, 0, 0, 0, 0.05}
	assert.InDelta(t, 0.05, AngularShift(0.3, shift), 1e-12)
}

func TestCagliotiFWHMRejectsNegativeHSquared(t *testing.T) {
	_, ok := CagliotiFWHM(0.7, 0, 0, -1)
	assert.False(t, ok)
}

func TestCagliotiFWHMAtThetaZeroIsSqrtW(t *testing.T) {
	h, ok := CagliotiFWHM(0, 0.01, -0.005, 0.02)
	assert.True(t, ok)
	assert.InDelta(t, math.Sqrt(0.02), h, 1e-9)
}

func TestMixingParameterIsConstantWhenHigherTermsZero(t *testing.T) {
	assert.Equal(t, 0.7, MixingParameter(45, 0.7, 0, 0))
}

func TestPseudoVoigtPeaksAtCenter(t *testing.T) {
	center := PseudoVoigt(40, 40, 0.2, 0.5)
	off := PseudoVoigt(40.5, 40, 0.2, 0.5)
	assert.Greater(t, center, off)
}

func TestPseudoVoigtIsSymmetricAboutCenter(t *testing.T) {
	left := PseudoVoigt(39.7, 40, 0.2, 0.5)
	right := PseudoVoigt(40.3, 40, 0.2, 0.5)
	assert.InDelta(t, left, right, 1e-9)
}

func TestPeakContributionIsZeroOutsideWindow(t *testing.T) {
	got := PeakContribution(50, 40, 0.1, 0.5, 1000)
	assert.Equal(t, 0.0, got)
}

func TestPeakContributionScalesLinearlyWithIntensity(t *testing.T) {
	low := PeakContribution(40, 40, 0.2, 0.5, 10)
	high := PeakContribution(40, 40, 0.2, 0.5, 20)
	assert.InDelta(t, low*2, high, 1e-9)
}
