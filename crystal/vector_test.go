package crystal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3Arithmetic(t *testing.T) {
	v := Vector3{1, 2, 3}
	w := Vector3{4, 5, 6}

	assert.Equal(t, Vector3{5, 7, 9}, v.Add(w))
	assert.Equal(t, Vector3{-3, -3, -3}, v.Sub(w))
	assert.Equal(t, Vector3{2, 4, 6}, v.Scale(2))
	assert.Equal(t, 32.0, v.Dot(w))
	assert.InDelta(t, math.Sqrt(14), v.Magnitude(), 1e-12)
}

func TestVector3Less(t *testing.T) {
	const tol = 1e-4
	assert.True(t, Vector3{-1, 0, 0}.Less(Vector3{1, 0, 0}, tol))
	assert.False(t, Vector3{1, 0, 0}.Less(Vector3{-1, 0, 0}, tol))
	assert.False(t, Vector3{1, 0, 0}.Less(Vector3{1, 0, 0}, tol))
	// within tolerance, falls through to the next component
	assert.True(t, Vector3{1, -1, 0}.Less(Vector3{1 + 1e-6, 1, 0}, tol))
}

func TestMatrix3IdentityIsMultiplicativeUnit(t *testing.T) {
	m := Matrix3{{2, 1, 0}, {0, 3, 1}, {1, 0, 4}}
	id := IdentityMatrix3()
	assert.Equal(t, m, m.Mul(id))
	assert.Equal(t, m, id.Mul(m))
}

func TestMatrix3InverseRecoversIdentity(t *testing.T) {
	m := Matrix3{{2, 1, 0}, {0, 3, 1}, {1, 0, 4}}
	inv := m.Inverse()
	product := m.Mul(inv)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, product[i][j], 1e-9)
		}
	}
}

func TestMatrix3InverseOfSingularIsIdentity(t *testing.T) {
	singular := Matrix3{{1, 2, 3}, {2, 4, 6}, {1, 1, 1}}
	require.InDelta(t, 0, singular.Det(), 1e-12)
	assert.Equal(t, IdentityMatrix3(), singular.Inverse())
}

func TestMatrix3MulVecAppliesRowsAsDotProducts(t *testing.T) {
	m := Matrix3{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}}
	v := Vector3{1, 1, 1}
	assert.Equal(t, Vector3{1, 2, 3}, m.MulVec(v))
}
