package engine

import "math"

// BackgroundKind selects which basis functions BackgroundAt evaluates
// (spec.md §4.2 "Background model").
type BackgroundKind int

const (
	// BackgroundChebyshev expands the background over Chebyshev
	// polynomials T_0..T_{n-1} of the reduced variable x in [-1, 1].
	BackgroundChebyshev BackgroundKind = iota
	// BackgroundLaurent expands the background as
	// sum_k c_k * (2theta)^(k + polyStart).
	BackgroundLaurent
)

// BackgroundAt evaluates the background intensity at twoTheta given its
// coefficients, the pattern's angular range [thetaMin, thetaMax], and,
// for the Laurent form, the starting exponent polyStart (typically -1).
func BackgroundAt(kind BackgroundKind, coefficients []float64, twoTheta, thetaMin, thetaMax, polyStart float64) float64 {
	switch kind {
	case BackgroundChebyshev:
		x := 2*(twoTheta-thetaMin)/(thetaMax-thetaMin) - 1
		return chebyshevExpansion(coefficients, x)
	default:
		var sum float64
		for k, c := range coefficients {
			sum += c * math.Pow(twoTheta, float64(k)+polyStart)
		}
		return sum
	}
}

// chebyshevExpansion evaluates sum_k c_k*T_k(x) via the standard
// three-term recurrence T_0=1, T_1=x, T_k=2x*T_{k-1}-T_{k-2}.
func chebyshevExpansion(coefficients []float64, x float64) float64 {
	if len(coefficients) == 0 {
		return 0
	}
	sum := coefficients[0]
	if len(coefficients) == 1 {
		return sum
	}
	tPrev, tCur := 1.0, x
	sum += coefficients[1] * tCur
	for k := 2; k < len(coefficients); k++ {
		tNext := 2*x*tCur - tPrev
		sum += coefficients[k] * tNext
		tPrev, tCur = tCur, tNext
	}
	return sum
}
