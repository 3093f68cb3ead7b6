package crystal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrbitImagesDeduplicatesCoincidentPositions(t *testing.T) {
	identity := IdentityMatrix3()
	orbit := Orbit{
		Generators: []Generator{
			{Rotation: identity, Translations: []Vector3{{0, 0, 0}, {1e-5, 0, 0}, {0.5, 0, 0}}},
		},
	}
	images := orbit.Images(Vector3{0, 0, 0}, nil)
	require.Len(t, images, 2) // {0,0,0} and {1e-5,0,0} collapse within tolerance
}

func TestOrbitImagesFallsBackToRepresentativeWithNoGenerators(t *testing.T) {
	orbit := Orbit{}
	p := Vector3{0.25, 0.25, 0.25}
	images := orbit.Images(p, nil)
	assert.Equal(t, []Vector3{p}, images)
}

func TestRefineBasisEnforcesTetragonalConstraint(t *testing.T) {
	sg := NewSpaceGroup(SystemTetragonal, nil, nil)
	m := Matrix3{{3, 0, 0}, {0, 5, 0}, {0, 0, 7}}
	got := sg.RefineBasis(m)
	assert.InDelta(t, 4.0, got[0][0], 1e-9)
	assert.InDelta(t, 4.0, got[1][1], 1e-9)
	assert.InDelta(t, 7.0, got[2][2], 1e-9)
}

func TestRefineBasisOrthorhombicLeavesIndependentLengthsUnchanged(t *testing.T) {
	sg := NewSpaceGroup(SystemOrthorhombic, nil, nil)
	m := Matrix3{{3, 0, 0}, {0, 5, 0}, {0, 0, 7}}
	got := sg.RefineBasis(m)
	assert.InDelta(t, 3.0, got[0][0], 1e-9)
	assert.InDelta(t, 5.0, got[1][1], 1e-9)
	assert.InDelta(t, 7.0, got[2][2], 1e-9)
}

func TestRefineBasisTriclinicIsIdentityProjection(t *testing.T) {
	sg := NewSpaceGroup(SystemTriclinic, nil, nil)
	m := Matrix3{{3, 1, 0}, {0, 5, 2}, {1, 0, 7}}
	got := sg.RefineBasis(m)
	assert.Equal(t, m, got)
}

func TestIntrinsicTranslationOfTwoFoldScrewIsHalfTranslation(t *testing.T) {
	sg := NewSpaceGroup(SystemTetragonal, nil, nil)
	twoFold := Matrix3{{-1, 0, 0}, {0, -1, 0}, {0, 0, 1}}
	t0 := Vector3{0, 0, 0.5}
	got := sg.IntrinsicTranslation(twoFold, t0)
	// the translation is entirely along the rotation axis already invariant
	// under the two-fold, so its time-average is itself.
	assert.InDelta(t, 0.5, got[2], 1e-9)
	assert.InDelta(t, 0.0, got[0], 1e-9)
	assert.InDelta(t, 0.0, got[1], 1e-9)
}
