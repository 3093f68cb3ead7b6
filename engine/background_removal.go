package engine

// RemoveBackground subtracts, in place conceptually (returns a new slice),
// a weighted-mean background estimate from intensity, per spec.md §4.3 step
// 3: each point's background is a weighted average over a window whose
// half-width corresponds to ~2 degrees of angle, weight (max(1/I,10))^4.
func RemoveBackground(angle, intensity []float64) ([]float64, []float64) {
	n := len(intensity)
	if n < 2 {
		return append([]float64(nil), intensity...), make([]float64, n)
	}

	const boxSizeDeg = 4.0
	step := angle[1] - angle[0]
	if step <= 0 {
		step = 1e-6
	}
	nPoints := int(boxSizeDeg / step)
	pointsPerSide := nPoints / 2

	fitWeight := make([]float64, n)
	for i, v := range intensity {
		w := 10.0
		if v > 0 {
			w = 1.0 / v
		}
		w = w * w
		w = w * w
		fitWeight[i] = w
	}

	background := make([]float64, n)
	for point := 0; point < n; point++ {
		toAverage := pointsPerSide
		if point < toAverage {
			toAverage = point
		}
		if n-1-point < toAverage {
			toAverage = n - 1 - point
		}
		var total, totalWeight float64
		for neigh := -toAverage; neigh <= toAverage; neigh++ {
			idx := point + neigh
			total += fitWeight[idx] * intensity[idx]
			totalWeight += fitWeight[idx]
		}
		if totalWeight > 0 {
			background[point] = total / totalWeight
		}
	}

	out := make([]float64, n)
	for i := range intensity {
		out[i] = intensity[i] - background[i]
	}
	return out, background
}
