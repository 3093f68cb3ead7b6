package engine

import (
	"math"
	"sort"
)

// ExperimentalPattern holds a measured diffraction pattern: the continuous
// raw (2theta, intensity) arrays when available, and always the derived
// list of integrated peaks (spec.md §3 "Experimental-pattern state").
type ExperimentalPattern struct {
	Wavelength  float64
	MinTwoTheta float64
	MaxTwoTheta float64

	RawAngle     []float64
	RawIntensity []float64

	Peaks []MeasuredPeak
}

// NewExperimentalPattern constructs an empty experimental pattern at the
// given wavelength.
func NewExperimentalPattern(wavelength float64) *ExperimentalPattern {
	return &ExperimentalPattern{Wavelength: wavelength}
}

// alreadyProcessedThreshold is the point count above which uniformly
// spaced data is assumed to be a raw scan rather than pre-integrated peaks
// (spec.md §4.3 "already processed" detection).
const alreadyProcessedThreshold = 300

// isAlreadyProcessed reports whether angle looks like a list of
// pre-integrated peak positions rather than a raw, uniformly sampled scan:
// too few points, or spacing that is not uniform.
func isAlreadyProcessed(angle []float64) bool {
	if len(angle) <= alreadyProcessedThreshold {
		return true
	}
	step := angle[1] - angle[0]
	if step <= 0 {
		return true
	}
	const tol = 1e-6
	for i := 2; i < len(angle); i++ {
		if math.Abs((angle[i]-angle[i-1])-step) > tol*step {
			return true
		}
	}
	return false
}

// SetFromArrays populates the pattern from (angle, intensity) pairs,
// autodetecting whether they are already-integrated peaks or a raw scan
// requiring the full processing pipeline (spec.md §4.3).
func (e *ExperimentalPattern) SetFromArrays(angle, intensity []float64) error {
	sortedAngle, sortedIntensity := sortByAngle(angle, intensity)
	if len(sortedAngle) == 0 {
		return nil
	}
	e.MinTwoTheta = sortedAngle[0]
	e.MaxTwoTheta = sortedAngle[len(sortedAngle)-1]

	if isAlreadyProcessed(sortedAngle) {
		e.Peaks = make([]MeasuredPeak, len(sortedAngle))
		for i := range sortedAngle {
			e.Peaks[i] = NewMeasuredPeak(sortedAngle[i], sortedIntensity[i])
		}
		return nil
	}

	e.RawAngle = sortedAngle
	e.RawIntensity = sortedIntensity

	peaks, err := ProcessRawPattern(sortedAngle, sortedIntensity, e.MinTwoTheta, e.MaxTwoTheta)
	if err != nil {
		// Processing failure discards the peak list; the raw continuous
		// pattern remains available (spec.md §7).
		e.Peaks = nil
		return nil
	}
	e.Peaks = peaks
	return nil
}

func sortByAngle(angle, intensity []float64) ([]float64, []float64) {
	n := len(angle)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return angle[idx[i]] < angle[idx[j]] })
	outAngle := make([]float64, n)
	outIntensity := make([]float64, n)
	for i, j := range idx {
		outAngle[i] = angle[j]
		outIntensity[i] = intensity[j]
	}
	return outAngle, outIntensity
}

// ProcessRawPattern runs the full raw-pattern pipeline of spec.md §4.3
// steps 2-9: smooth, remove background, locate peaks, group, fit
// Gaussian then composite Gaussian then pseudo-Voigt, and integrate.
func ProcessRawPattern(angle, intensity []float64, minTwoTheta, maxTwoTheta float64) ([]MeasuredPeak, error) {
	smoothed := Smooth(intensity, DefaultSmoothingHalfWidth, DefaultSmoothingEdgeWeight)
	netIntensity, _ := RemoveBackground(angle, smoothed)

	rawPeaks := LocatePeaks(angle, netIntensity)
	if len(rawPeaks) == 0 {
		return nil, nil
	}

	points := make([][]FitPoint, len(rawPeaks))
	gaussianParams := make([][3]float64, len(rawPeaks))
	for i, rp := range rawPeaks {
		points[i] = toFitPoints(rp)
		gaussianParams[i] = FitGaussian(points[i])
	}

	groups := GroupPeaks(rawPeaks)
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		groupPoints := concatPoints(points, group)
		init := make([]float64, 0, 3*len(group))
		for _, idx := range group {
			init = append(init, gaussianParams[idx][0], gaussianParams[idx][1], gaussianParams[idx][2])
		}
		refit := FitCompositeGaussian(groupPoints, init)
		for j, idx := range group {
			gaussianParams[idx] = [3]float64{refit[j*3], refit[j*3+1], refit[j*3+2]}
		}
	}

	pvParams := make([][8]float64, len(rawPeaks))
	for i, g := range gaussianParams {
		pvParams[i] = InitialPVParams(g)
	}
	for _, group := range groups {
		groupPoints := concatPoints(points, group)
		init := make([]float64, 0, 8*len(group))
		for _, idx := range group {
			init = append(init, pvParams[idx][:]...)
		}
		refit := FitCompositePV(groupPoints, init)
		for j, idx := range group {
			var p [8]float64
			copy(p[:], refit[j*8:j*8+8])
			pvParams[idx] = p
		}
	}

	var result []MeasuredPeak
	for _, group := range groups {
		groupMin := rawPeaks[group[0]].Angle[0]
		groupMax := rawPeaks[group[len(group)-1]].Angle[len(rawPeaks[group[len(group)-1]].Angle)-1]
		for _, idx := range group {
			p := pvParams[idx]
			model := func(x float64) float64 { return PVValue(p, x) }

			location, _ := MaximizeGoldenSection(model, groupMin, groupMax, 1e-8)
			integrated := AdaptiveSimpson(model, groupMin, groupMax, 1e-8)

			if integrated < 0 {
				return nil, &Failure{Category: CategoryProcessing, Message: "negative integrated intensity near peak"}
			}
			if location < minTwoTheta || location > maxTwoTheta {
				return nil, &Failure{Category: CategoryProcessing, Message: "fitted peak maximum outside measured range"}
			}
			result = append(result, NewMeasuredPeak(location, integrated))
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].TwoThetaDeg < result[j].TwoThetaDeg })
	for i := range result {
		result[i].PatternIndex = i
	}
	return result, nil
}

func toFitPoints(rp RawPeak) []FitPoint {
	points := make([]FitPoint, len(rp.Angle))
	for i := range rp.Angle {
		points[i] = FitPoint{Angle: rp.Angle[i], Intensity: rp.Intensity[i]}
	}
	return points
}

func concatPoints(points [][]FitPoint, group []int) []FitPoint {
	var out []FitPoint
	for _, idx := range group {
		out = append(out, points[idx]...)
	}
	return out
}
