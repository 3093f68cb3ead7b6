// Package engine implements the core powder-diffraction pipeline: peak
// enumeration, profile synthesis, experimental-pattern processing, the
// R-factor engine, and the staged refinement driver.
package engine

import (
	"math"

	"xrdengine-go/crystal"
)

// Method selects which physical model computes diffraction intensity.
type Method int

const (
	MethodXRay Method = iota
	MethodNeutron
	MethodSimple
	MethodNone
)

// Reflection is one unique family of symmetry-equivalent hkl contributing
// a calculated peak (spec.md §3 "Reflection (calculated peak)").
type Reflection struct {
	HKL          crystal.Vector3
	EquivHKL     []crystal.Vector3
	RecipVectors []crystal.Vector3
	Multiplicity int
	TwoThetaRad  float64
	TwoThetaDeg  float64
	LPFactor     float64
	Intensity    float64
	PatternIndex int

	// SystematicAbsence flags hkl directions where at least one symmetry
	// operation fixing hkl carries a fractional intrinsic translation (screw/glide
	// component), which the original implementation computes as a
	// diagnostic but deliberately does not use to suppress the peak —
	// preserved here as a reported flag rather than a filter.
	SystematicAbsence bool

	Method     Method
	Wavelength float64
}

// NewReflection builds a reflection from its canonical hkl and equivalent
// set, computing the initial position and Lorentz-polarization factor.
func NewReflection(method Method, wavelength float64, hkl crystal.Vector3, equivHKL []crystal.Vector3, basis crystal.Basis) Reflection {
	r := Reflection{
		Method:       method,
		Wavelength:   wavelength,
		HKL:          hkl,
		EquivHKL:     append([]crystal.Vector3(nil), equivHKL...),
		Multiplicity: len(equivHKL),
		PatternIndex: -1,
	}
	r.UpdatePosition(basis)
	return r
}

// DiffractionAngle computes theta (not 2*theta) from the basis, hkl, and
// wavelength, clamped to [-pi/2, pi/2] (spec.md §4.1/§3).
func DiffractionAngle(basis crystal.Basis, hkl crystal.Vector3, wavelength float64) float64 {
	recip := basis.Inverse().MulVec(hkl)
	arg := recip.Magnitude() * wavelength / 2
	if arg >= -1 && arg <= 1 {
		return math.Asin(arg)
	}
	if arg < -1 {
		return -math.Pi / 2
	}
	return math.Pi / 2
}

// LPFactor is the Lorentz-polarization factor, (1+cos^2(2theta)) /
// (cos(theta)*sin^2(theta)).
func LPFactor(theta float64) float64 {
	twoTheta := 2 * theta
	return (1 + math.Pow(math.Cos(twoTheta), 2)) / (math.Cos(theta) * math.Pow(math.Sin(theta), 2))
}

// UpdatePosition recomputes the diffraction angle, Lorentz-polarization
// factor, and reciprocal lattice vectors whenever the basis or hkl changes.
func (r *Reflection) UpdatePosition(basis crystal.Basis) {
	theta := DiffractionAngle(basis, r.HKL, r.Wavelength)
	r.TwoThetaRad = 2 * theta
	r.TwoThetaDeg = r.TwoThetaRad * 180 / math.Pi
	r.LPFactor = LPFactor(theta)

	inv := basis.Inverse()
	r.RecipVectors = make([]crystal.Vector3, len(r.EquivHKL))
	for i, hkl := range r.EquivHKL {
		r.RecipVectors[i] = inv.MulVec(hkl)
	}
}

// CanonicalHKL returns, out of all equivalent hkl, the one with the
// smallest, and preferentially non-negative, indices — matching
// CalculatedPeak::getHKL in the original implementation.
func (r Reflection) CanonicalHKL() crystal.Vector3 {
	chosen := r.EquivHKL[0]
	for _, candidate := range r.EquivHKL[1:] {
		for d := 0; d < 3; d++ {
			if chosen[d] < 0 && candidate[d] >= 0 {
				chosen = candidate
				break
			} else if math.Abs(chosen[d]) > math.Abs(candidate[d]) {
				chosen = candidate
				break
			}
		}
	}
	return chosen
}

// MeasuredPeak is one integrated peak in a measured diffraction pattern.
// Immutable once set; a pattern's peaks are kept sorted ascending by angle.
type MeasuredPeak struct {
	TwoThetaDeg  float64
	TwoThetaRad  float64
	Intensity    float64
	PatternIndex int
}

// NewMeasuredPeak constructs a measured peak from its angle (degrees) and
// integrated intensity.
func NewMeasuredPeak(twoThetaDeg, intensity float64) MeasuredPeak {
	return MeasuredPeak{
		TwoThetaDeg:  twoThetaDeg,
		TwoThetaRad:  twoThetaDeg * math.Pi / 180,
		Intensity:    intensity,
		PatternIndex: -1,
	}
}
