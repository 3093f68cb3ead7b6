package engine

import (
	"math"

	"xrdengine-go/crystal"
	"xrdengine-go/elements"
)

// ThermalFactor is the isotropic Debye-Waller attenuation exp(-B*(sin(theta)/lambda)^2).
func ThermalFactor(theta, wavelength, bFactor float64) float64 {
	s := math.Sin(theta) / wavelength
	return math.Exp(-bFactor * s * s)
}

// StructureFactorSquared computes |F(hkl)|^2 by summing the phase-weighted
// scattering contribution of every atom image in every orbit of structure,
// per spec.md §4.2's "Integrated intensity per reflection":
//
//	F = sum_orbits sum_images f(s)*T*occupancy*exp(2*pi*i*hkl.position)
//
// bFactors and atfTable are indexed/queried per orbit in the order
// structure.Atoms() returns its orbit representatives. method == MethodSimple
// disables the thermal factor (T=1), matching DM_SIMPLE in the original
// implementation.
func StructureFactorSquared(method Method, wavelength float64, symmetry crystal.Symmetry, structure crystal.Structure, bFactors []float64, atfTable elements.Table, theta float64, hkl crystal.Vector3) (float64, error) {
	s := math.Sin(theta) / wavelength
	orbits := symmetry.Orbits()
	atoms := structure.Atoms()

	var real, imag float64
	for i, orbit := range orbits {
		if i >= len(atoms) {
			break
		}
		atom := atoms[i]
		scatteringFactor, err := atfTable.ScatteringFactor(atom.Z, s)
		if err != nil {
			return 0, err
		}
		thermFactor := 1.0
		if method != MethodSimple {
			thermFactor = ThermalFactor(theta, wavelength, bFactors[i])
		}
		pre := scatteringFactor * thermFactor * atom.Occupancy

		images := orbit.Images(atom.Position, structure.MoveIntoCell)
		for _, p := range images {
			dot := 2 * math.Pi * hkl.Dot(p)
			real += pre * math.Cos(dot)
			imag += pre * math.Sin(dot)
		}
	}
	return real*real + imag*imag, nil
}
