package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxConstrainedBFGSFindsUnconstrainedMinimum(t *testing.T) {
	objective := func(x []float64) float64 { return (x[0] - 3) * (x[0] - 3) }
	xOpt, fOpt, err := BoxConstrainedBFGS(objective, []float64{0}, []Bound{{Lower: -10, Upper: 10}})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, xOpt[0], 1e-3)
	assert.InDelta(t, 0.0, fOpt, 1e-4)
}

func TestBoxConstrainedBFGSClampsToUpperBound(t *testing.T) {
	// minimizing -x drives x toward its upper bound.
	objective := func(x []float64) float64 { return -x[0] }
	xOpt, _, err := BoxConstrainedBFGS(objective, []float64{1}, []Bound{{Lower: 0, Upper: 5}})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, xOpt[0], 1e-2)
}

func TestBoundFromUnconstrainedStaysWithinTwoSidedBound(t *testing.T) {
	b := Bound{Lower: 2, Upper: 8}
	for _, y := range []float64{-100, -1, 0, 1, 100} {
		x := b.fromUnconstrained(y)
		assert.GreaterOrEqual(t, x, 2.0)
		assert.LessOrEqual(t, x, 8.0)
	}
}

func TestBoundRoundTripsThroughUnconstrainedSpace(t *testing.T) {
	b := Bound{Lower: 2, Upper: 8}
	x := 5.5
	y := b.toUnconstrained(x)
	assert.InDelta(t, x, b.fromUnconstrained(y), 1e-9)
}

func TestBoundLowerOnlyStaysAboveLowerBound(t *testing.T) {
	b := Bound{Lower: 0, Upper: math.Inf(1)}
	for _, y := range []float64{-50, 0, 50} {
		assert.GreaterOrEqual(t, b.fromUnconstrained(y), 0.0)
	}
}
