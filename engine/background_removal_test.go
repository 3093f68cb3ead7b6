package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveBackgroundOfConstantSignalLeavesZeroResidual(t *testing.T) {
	angle := make([]float64, 10)
	intensity := make([]float64, 10)
	for i := range angle {
		angle[i] = float64(i)
		intensity[i] = 5.0
	}
	residual, background := RemoveBackground(angle, intensity)
	for i := range residual {
		assert.InDelta(t, 5.0, background[i], 1e-9)
		assert.InDelta(t, 0.0, residual[i], 1e-9)
	}
}

func TestRemoveBackgroundDownweightsASpikeRelativeToBaseline(t *testing.T) {
	n := 11
	angle := make([]float64, n)
	intensity := make([]float64, n)
	for i := range angle {
		angle[i] = float64(i)
		intensity[i] = 1.0
	}
	intensity[5] = 100.0

	residual, background := RemoveBackground(angle, intensity)
	// the heavy 1/I^4 weighting suppresses the spike's own contribution to
	// its local background estimate, so the estimated background there
	// stays near the surrounding baseline rather than tracking the spike.
	assert.Less(t, background[5], 10.0)
	assert.Greater(t, residual[5], 90.0)
}

func TestRemoveBackgroundOfShortSignalReturnsZeroBackground(t *testing.T) {
	angle := []float64{1.0}
	intensity := []float64{42.0}
	residual, background := RemoveBackground(angle, intensity)
	assert.Equal(t, intensity, residual)
	assert.Equal(t, []float64{0}, background)
}
