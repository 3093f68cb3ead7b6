package engine

import "math"

// RawPeak is one detected peak: the contiguous run of (angle, intensity)
// samples around its center, before fitting.
type RawPeak struct {
	Angle     []float64
	Intensity []float64
}

// LocatePeaks detects candidate peaks in a smoothed, background-subtracted
// pattern by the sign pattern of the first and second derivatives, then
// walks out each peak's boundaries and filters/merges small ones (spec.md
// §4.3 steps 4-6).
func LocatePeaks(angle, intensity []float64) []RawPeak {
	n := len(intensity)
	if n == 0 {
		return nil
	}

	maxHeight := intensity[0]
	for _, v := range intensity {
		if v > maxHeight {
			maxHeight = v
		}
	}
	peakTol := 0.01 * maxHeight

	firstDeriv := Smooth(CenteredFirstDerivative(angle, intensity), 3, 1.0)
	secondDeriv := Smooth(CenteredSecondDerivative(angle, intensity), 3, 1.0)

	var centers []int
	position := 0
	for position < n {
		for position < n && (intensity[position] < peakTol || secondDeriv[position] < 0) {
			position++
		}
		if position == n {
			break
		}
		for position < n && secondDeriv[position] > 0 {
			position++
		}
		if position == n {
			break
		}
		for position < n && firstDeriv[position] > 0 {
			position++
		}
		if position == n {
			break
		}
		centers = append(centers, position)
		for position < n && secondDeriv[position] < 0 {
			position++
		}
		if position == n {
			centers = centers[:len(centers)-1]
			break
		}
	}

	if len(centers) == 0 {
		return nil
	}

	peaks := boundPeaks(angle, intensity, centers)
	return filterAndMergePeaks(peaks, maxHeight)
}

// boundPeaks walks left/right from each center while intensity stays
// positive and within the minima bounding the neighboring valleys (spec.md
// §4.3 step 5).
func boundPeaks(angle, intensity []float64, centers []int) []RawPeak {
	n := len(intensity)

	leftMinimum := 0
	minVal := intensity[0]
	for i := 1; i < centers[0]; i++ {
		if intensity[i] < minVal {
			minVal = intensity[i]
			leftMinimum = i
		}
	}

	peaks := make([]RawPeak, 0, len(centers))
	for i, center := range centers {
		rightBound := n
		if i != len(centers)-1 {
			rightBound = centers[i+1]
		}
		rightMinimum := center
		minVal = intensity[center]
		for p := center; p < rightBound; p++ {
			if intensity[p] < minVal {
				minVal = intensity[p]
				rightMinimum = p
			}
		}

		var peakAngle, peakIntensity []float64
		position := center
		for position >= leftMinimum && intensity[position] > 0 {
			peakAngle = append([]float64{angle[position]}, peakAngle...)
			peakIntensity = append([]float64{intensity[position]}, peakIntensity...)
			position--
		}
		position = center + 1
		for position <= rightMinimum && position < n && intensity[position] > 0 {
			peakAngle = append(peakAngle, angle[position])
			peakIntensity = append(peakIntensity, intensity[position])
			position++
		}

		if len(peakAngle) > 0 {
			peaks = append(peaks, RawPeak{Angle: peakAngle, Intensity: peakIntensity})
		}
		leftMinimum = rightMinimum
	}
	return peaks
}

// filterAndMergePeaks drops peaks with max height < 2% of global max or
// span < 0.05 degrees, merging a dropped peak's samples into an adjacent
// peak when their angle lists touch (spec.md §4.3 step 6).
func filterAndMergePeaks(peaks []RawPeak, maxHeight float64) []RawPeak {
	position := 0
	for position < len(peaks) {
		peak := peaks[position]
		peakHeight := peak.Intensity[0]
		for _, v := range peak.Intensity {
			if v > peakHeight {
				peakHeight = v
			}
		}
		toRemove := peakHeight < 0.02*maxHeight
		if !toRemove {
			span := peak.Angle[len(peak.Angle)-1] - peak.Angle[0]
			toRemove = span < 0.05
		}
		if !toRemove {
			position++
			continue
		}

		if position != len(peaks)-1 && peak.Angle[len(peak.Angle)-1] == peaks[position+1].Angle[0] {
			peaks[position+1].Angle = append(append([]float64{}, peak.Angle...), peaks[position+1].Angle...)
			peaks[position+1].Intensity = append(append([]float64{}, peak.Intensity...), peaks[position+1].Intensity...)
		} else if position != 0 && peak.Angle[0] == peaks[position-1].Angle[len(peaks[position-1].Angle)-1] {
			peaks[position-1].Angle = append(peaks[position-1].Angle, peak.Angle...)
			peaks[position-1].Intensity = append(peaks[position-1].Intensity, peak.Intensity...)
		}
		peaks = append(peaks[:position], peaks[position+1:]...)
	}
	return peaks
}

// GroupPeaks groups consecutive peaks whose gap is smaller than 0.1 degrees
// (spec.md §4.3 step 7).
func GroupPeaks(peaks []RawPeak) [][]int {
	if len(peaks) == 0 {
		return nil
	}
	groups := [][]int{{0}}
	for i := 1; i < len(peaks); i++ {
		lastGroup := groups[len(groups)-1]
		lastPeakEnd := peaks[lastGroup[len(lastGroup)-1]].Angle[len(peaks[lastGroup[len(lastGroup)-1]].Angle)-1]
		peakStart := peaks[i].Angle[0]
		if peakStart-lastPeakEnd < 0.1 {
			groups[len(groups)-1] = append(lastGroup, i)
		} else {
			groups = append(groups, []int{i})
		}
	}
	return groups
}

// GlobalMax returns the maximum value in v, or 0 for an empty slice.
func GlobalMax(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := v[0]
	for _, x := range v {
		m = math.Max(m, x)
	}
	return m
}
