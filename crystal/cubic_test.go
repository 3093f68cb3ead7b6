package crystal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubicPointGroupOpsHasOrder48AndAllOrthogonal(t *testing.T) {
	ops := CubicPointGroupOps()
	require.Len(t, ops, 48)
	for _, op := range ops {
		product := op.Mul(op.Transpose())
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				assert.InDelta(t, want, product[i][j], 1e-9)
			}
		}
		assert.InDelta(t, 1.0, math.Abs(op.Det()), 1e-9)
	}
}

func TestFCCSpaceGroupOrbitAt000HasFourImages(t *testing.T) {
	sg := NewFCCSpaceGroup()
	orbits := sg.Orbits()
	require.Len(t, orbits, 1)

	images := orbits[0].Images(Vector3{0, 0, 0}, func(v Vector3) Vector3 {
		var out Vector3
		for i := 0; i < 3; i++ {
			f := math.Mod(v[i], 1.0)
			if f < 0 {
				f += 1.0
			}
			out[i] = f
		}
		return out
	})
	assert.Len(t, images, 4)
}

func TestRockSaltSpaceGroupHasTwoOrbits(t *testing.T) {
	sg := NewRockSaltSpaceGroup()
	assert.Len(t, sg.Orbits(), 2)
	assert.Len(t, sg.Operations(), 48)
	for _, op := range sg.Operations() {
		assert.Len(t, op.Translations, 4)
	}
}

func TestSpaceGroupRefineBasisEnforcesCubicConstraint(t *testing.T) {
	sg := NewSpaceGroup(SystemCubic, nil, nil)
	m := Matrix3{{4.0, 0, 0}, {0, 4.2, 0}, {0, 0, 3.9}}
	refined := sg.RefineBasis(m)
	assert.InDelta(t, refined[0][0], refined[1][1], 1e-12)
	assert.InDelta(t, refined[1][1], refined[2][2], 1e-12)
}

func TestIntrinsicTranslationOfPureRotationIsZero(t *testing.T) {
	sg := NewSpaceGroup(SystemCubic, nil, nil)
	r := Matrix3{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}} // 4-fold about z, pure point operation
	translation := sg.IntrinsicTranslation(r, Vector3{0.5, 0.5, 0})
	assert.InDelta(t, 0, translation.Magnitude(), 1e-9)
}
