package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrdengine-go/crystal"
)

func fccAluminium() (*crystal.Lattice, crystal.Symmetry) {
	basis := crystal.FromLengthsAngles(crystal.Vector3{4.05, 4.05, 4.05}, crystal.Vector3{math.Pi / 2, math.Pi / 2, math.Pi / 2})
	structure := crystal.NewLattice(basis, []crystal.Atom{{Z: 13, Position: crystal.Vector3{0, 0, 0}, Occupancy: 1}})
	return structure, crystal.NewFCCSpaceGroup()
}

// braggTwoTheta computes the expected 2theta (degrees) for a cubic fcc
// lattice of parameter a at wavelength lambda, independent of the engine's
// own basis-inverse machinery, as a cross-check on EnumerateReflections.
func braggTwoTheta(a, wavelength float64, h, k, l int) float64 {
	d := a / math.Sqrt(float64(h*h+k*k+l*l))
	arg := wavelength / (2 * d)
	return 2 * math.Asin(arg) * 180 / math.Pi
}

func TestEnumerateReflectionsFindsFCCAluminiumFamilies(t *testing.T) {
	structure, symmetry := fccAluminium()
	const wavelength = 1.5406
	const a = 4.05

	reflections := EnumerateReflections(MethodXRay, wavelength, structure, symmetry, 10, 90)
	require.NotEmpty(t, reflections)

	families := [][3]int{{1, 1, 1}, {2, 0, 0}, {2, 2, 0}, {3, 1, 1}, {2, 2, 2}}
	for _, hkl := range families {
		want := braggTwoTheta(a, wavelength, hkl[0], hkl[1], hkl[2])
		found := false
		for _, r := range reflections {
			if math.Abs(r.TwoThetaDeg-want) < 0.05 {
				found = true
				assert.GreaterOrEqual(t, r.Multiplicity, 1)
				break
			}
		}
		assert.True(t, found, "expected a reflection near 2theta=%.3f for hkl=%v", want, hkl)
	}
}

func TestEnumerateReflectionsRespectsAngleBounds(t *testing.T) {
	structure, symmetry := fccAluminium()
	reflections := EnumerateReflections(MethodXRay, 1.5406, structure, symmetry, 30, 50)
	for _, r := range reflections {
		assert.GreaterOrEqual(t, r.TwoThetaDeg, 30.0)
		assert.LessOrEqual(t, r.TwoThetaDeg, 50.0)
		assert.GreaterOrEqual(t, r.Multiplicity, 1)
	}
}

func TestEnumerateReflectionsIsSortedByAngle(t *testing.T) {
	structure, symmetry := fccAluminium()
	reflections := EnumerateReflections(MethodXRay, 1.5406, structure, symmetry, 10, 90)
	for i := 1; i < len(reflections); i++ {
		assert.LessOrEqual(t, reflections[i-1].TwoThetaDeg, reflections[i].TwoThetaDeg)
	}
}

func TestEnumerateReflectionsIsDeterministic(t *testing.T) {
	structure, symmetry := fccAluminium()
	first := EnumerateReflections(MethodXRay, 1.5406, structure, symmetry, 10, 90)
	second := EnumerateReflections(MethodXRay, 1.5406, structure, symmetry, 10, 90)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].HKL, second[i].HKL)
		assert.InDelta(t, first[i].TwoThetaDeg, second[i].TwoThetaDeg, 1e-12)
	}
}
