package engine

import (
	"math"
	"sort"

	"xrdengine-go/crystal"
)

// roundTo rounds x to the given number of decimal places, matching the
// original implementation's coarse rounding used when comparing hkl images
// for canonicality (spec.md §4.1 "canonical representative").
func roundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}

// EnumerateReflections generates every reflection visible between
// minTwoTheta and maxTwoTheta (degrees) for structure under symmetry,
// following spec.md §4.1: enumerate the reduced-cell hkl range implied by
// the resolution limit, fold each point by every symmetry operation to find
// its canonical representative and multiplicity, convert to the unit-cell
// hkl, and keep those whose diffraction angle falls in range.
func EnumerateReflections(method Method, wavelength float64, structure crystal.Structure, symmetry crystal.Symmetry, minTwoTheta, maxTwoTheta float64) []Reflection {
	basis := structure.Basis()

	maxMag := 2 * math.Sin(maxTwoTheta/2*math.Pi/180) / wavelength

	reducedInv := basis.ReducedInverse()
	var rng [3]float64
	for i := 0; i < 3; i++ {
		var vec crystal.Vector3
		for j := 0; j < 3; j++ {
			vec[j] = reducedInv[j][i]
		}
		rng[i] = math.Abs(math.Ceil(maxMag / vec.Magnitude()))
	}

	P := basis.UnitToReduced.Transpose()
	Q := P.Inverse()

	ops := symmetry.Operations()
	foldOps := make([]crystal.Matrix3, 0, len(ops))
	translations := make([][]crystal.Vector3, len(ops))
	for i, op := range ops {
		m := P.Mul(op.Rotation).Mul(Q).Transpose()
		if !matrixApproxEqual(m, crystal.IdentityMatrix3(), 1e-9) {
			foldOps = append(foldOps, m)
		}
		translations[i] = make([]crystal.Vector3, len(op.Translations))
		for j, t := range op.Translations {
			translations[i][j] = symmetry.IntrinsicTranslation(op.Rotation, t)
		}
	}

	var reflections []Reflection

	rx, ry, rz := int(rng[0]), int(rng[1]), int(rng[2])
	for h := -rx; h <= rx; h++ {
		for k := -ry; k <= ry; k++ {
			for l := -rz; l <= rz; l++ {
				redHKL := crystal.Vector3{float64(h), float64(k), float64(l)}

				mult := 1
				equivPoints := []crystal.Vector3{redHKL}
				discarded := false
				for _, m := range foldOps {
					symHKL := m.MulVec(redHKL)
					for j := 0; j < 3; j++ {
						symHKL[j] = roundTo(symHKL[j], 1)
					}

					if symHKL.Less(redHKL, 1e-4) {
						discarded = true
						break
					}

					found := false
					for _, existing := range equivPoints {
						if math.Abs(existing[0]-symHKL[0]) < 1e-4 &&
							math.Abs(existing[1]-symHKL[1]) < 1e-4 &&
							math.Abs(existing[2]-symHKL[2]) < 1e-4 {
							found = true
							break
						}
					}
					if !found {
						mult++
						equivPoints = append(equivPoints, symHKL)
					}
				}
				if discarded {
					continue
				}

				hkl := basis.ReducedHKLToUnit(redHKL)
				equivHKL := make([]crystal.Vector3, len(equivPoints))
				for i, p := range equivPoints {
					equivHKL[i] = basis.ReducedHKLToUnit(p)
				}

				absence := systematicAbsence(ops, translations, hkl)

				theta := DiffractionAngle(basis, hkl, wavelength)
				twoThetaDeg := 2 * theta * 180 / math.Pi
				if twoThetaDeg < minTwoTheta || twoThetaDeg > maxTwoTheta {
					continue
				}

				r := NewReflection(method, wavelength, hkl, equivHKL, basis)
				r.Multiplicity = mult
				r.SystematicAbsence = absence
				reflections = append(reflections, r)
			}
		}
	}

	sort.Slice(reflections, func(i, j int) bool {
		return reflections[i].TwoThetaDeg < reflections[j].TwoThetaDeg
	})
	return reflections
}

// systematicAbsence reports whether hkl is fixed (R*hkl == hkl) by some
// symmetry operation whose intrinsic translation has a non-integer
// projection onto hkl — the screw/glide signature of a systematic absence.
// Computed as a diagnostic only; it does not suppress the reflection, per
// the original implementation.
func systematicAbsence(ops []crystal.Operation, translations [][]crystal.Vector3, hkl crystal.Vector3) bool {
	for i, op := range ops {
		symHKL := op.Rotation.MulVec(hkl)
		if math.Abs(symHKL[0]-hkl[0]) > 1e-4 || math.Abs(symHKL[1]-hkl[1]) > 1e-4 || math.Abs(symHKL[2]-hkl[2]) > 1e-4 {
			continue
		}
		for _, t := range translations[i] {
			product := t.Dot(hkl)
			if math.Abs(roundTo(product, 1)-product) > 1e-4 {
				return true
			}
		}
	}
	return false
}

func matrixApproxEqual(a, b crystal.Matrix3, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
