package engine

// Smooth applies a linear-tapered weighted mean of width 2*numPerSide+1 to
// intensity (spec.md §4.3 step 2): center weight 1, edge weight farWeight,
// interior weights interpolated linearly between them, normalized to sum
// to 1. Points within numPerSide of either edge are left unchanged.
func Smooth(intensity []float64, numPerSide int, farWeight float64) []float64 {
	numSmoothPoints := numPerSide*2 + 1
	weight := make([]float64, numSmoothPoints)
	weight[numPerSide] = 1.0
	totalWeight := 1.0
	for i := 1; i <= numPerSide; i++ {
		w := 1.0 + (farWeight-1.0)*float64(i)/float64(numPerSide)
		totalWeight += 2 * w
		weight[numPerSide-i] = w
		weight[numPerSide+i] = w
	}
	for i := range weight {
		weight[i] /= totalWeight
	}

	out := append([]float64(nil), intensity...)
	for i := numPerSide; i < len(intensity)-numPerSide; i++ {
		var newValue float64
		start := i - numPerSide
		for j := 0; j < numSmoothPoints; j++ {
			newValue += weight[j] * intensity[start+j]
		}
		out[i] = newValue
	}
	return out
}

// DefaultSmoothingHalfWidth and DefaultSmoothingEdgeWeight are the
// smoothing defaults named in spec.md §4.3 step 2 (k=2, edge weight 0.25).
const (
	DefaultSmoothingHalfWidth  = 2
	DefaultSmoothingEdgeWeight = 0.25
)

// CenteredFirstDerivative computes d(intensity)/d(angle) by centered finite
// differences, replicating the edge slope at the boundaries (spec.md §4.3
// step 4).
func CenteredFirstDerivative(angle, intensity []float64) []float64 {
	n := len(intensity)
	out := make([]float64, n)
	if n < 2 {
		return out
	}
	for i := 1; i < n-1; i++ {
		out[i] = (intensity[i+1] - intensity[i-1]) / (angle[i+1] - angle[i-1])
	}
	out[0] = out[1]
	out[n-1] = out[n-2]
	return out
}

// CenteredSecondDerivative computes d^2(intensity)/d(angle)^2 by centered
// finite differences, replicating the edge curvature at the boundaries.
func CenteredSecondDerivative(angle, intensity []float64) []float64 {
	n := len(intensity)
	out := make([]float64, n)
	if n < 3 {
		return out
	}
	for i := 1; i < n-1; i++ {
		h := angle[i+1] - angle[i-1]
		out[i] = 4 * (intensity[i+1] - 2*intensity[i] + intensity[i-1]) / (h * h)
	}
	out[0] = out[1]
	out[n-1] = out[n-2]
	return out
}
