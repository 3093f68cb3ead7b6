package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntheticGaussian(center, height, fwhm, step float64, n int, start float64) ([]float64, []float64) {
	angle := make([]float64, n)
	intensity := make([]float64, n)
	for i := 0; i < n; i++ {
		a := start + float64(i)*step
		angle[i] = a
		d := (a - center) / fwhm
		intensity[i] = height * math.Exp(-4*math.Ln2*d*d)
	}
	return angle, intensity
}

func TestLocatePeaksFindsASinglePeakInAGaussianBump(t *testing.T) {
	angle, intensity := syntheticGaussian(40, 1000, 1.0, 0.05, 400, 30)
	peaks := LocatePeaks(angle, intensity)
	require.NotEmpty(t, peaks)

	found := false
	for _, p := range peaks {
		if p.Angle[0] <= 40 && 40 <= p.Angle[len(p.Angle)-1] {
			found = true
		}
	}
	assert.True(t, found, "expected some detected peak to bracket the true center at 40 degrees")
}

func TestGroupPeaksMergesCloseAndSeparatesFarPeaks(t *testing.T) {
	peaks := []RawPeak{
		{Angle: []float64{10, 10.02}},
		{Angle: []float64{10.08, 10.1}}, // gap 0.06 < 0.1, merges with previous
		{Angle: []float64{20, 20.1}},    // far away, own group
	}
	groups := GroupPeaks(peaks)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{0, 1}, groups[0])
	assert.Equal(t, []int{2}, groups[1])
}

func TestGlobalMaxOfEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, GlobalMax(nil))
}

func TestGlobalMaxReturnsLargestValue(t *testing.T) {
	assert.Equal(t, 9.0, GlobalMax([]float64{3, 9, -2, 5}))
}
