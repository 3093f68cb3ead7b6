package crystal

import "math"

// Basis describes the real-space lattice vectors of a unit cell, plus the
// reduced-cell transforms the symmetry collaborator would normally supply.
type Basis struct {
	Lengths Vector3 // a, b, c
	Angles  Vector3 // alpha, beta, gamma (radians)
	Matrix  Matrix3 // real-space basis, rows are lattice vectors a, b, c

	// UnitToReduced maps unit-cell fractional/reciprocal coordinates into
	// the symmetry-reduced cell; ReducedToUnit is its inverse. For a
	// primitive setting both are the identity.
	UnitToReduced Matrix3
}

// FromLengthsAngles builds the conventional basis matrix from lattice
// lengths and angles (radians), using the standard crystallographic
// convention: a along x, b in the xy-plane.
func FromLengthsAngles(lengths, angles Vector3) Basis {
	a, b, c := lengths[0], lengths[1], lengths[2]
	alpha, beta, gamma := angles[0], angles[1], angles[2]

	cosA, cosB, cosG := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sinG := math.Sin(gamma)

	ax, ay, az := a, 0.0, 0.0
	bx, by, bz := b*cosG, b*sinG, 0.0
	cx := c * cosB
	cy := c * (cosA - cosB*cosG) / sinG
	czSq := c*c - cx*cx - cy*cy
	cz := 0.0
	if czSq > 0 {
		cz = math.Sqrt(czSq)
	}

	m := Matrix3{
		{ax, ay, az},
		{bx, by, bz},
		{cx, cy, cz},
	}
	return Basis{
		Lengths:       lengths,
		Angles:        angles,
		Matrix:        m,
		UnitToReduced: IdentityMatrix3(),
	}
}

// Inverse returns the reciprocal basis matrix (rows are reciprocal lattice
// vectors, in the convention b_i* . a_j = delta_ij, no 2*pi factor — matches
// the convention used by getDiffractionAngle in the original engine).
func (b Basis) Inverse() Matrix3 {
	return b.Matrix.Inverse()
}

// ReducedInverse is the reciprocal basis of the symmetry-reduced cell.
func (b Basis) ReducedInverse() Matrix3 {
	reduced := b.UnitToReduced.Mul(b.Matrix)
	return reduced.Inverse()
}

// UnitPointToReduced maps a fractional coordinate in the unit cell into the
// reduced cell's fractional coordinates.
func (b Basis) UnitPointToReduced(p Vector3) Vector3 {
	return b.UnitToReduced.MulVec(p)
}

// ReducedToUnit is the inverse of UnitToReduced.
func (b Basis) ReducedToUnit() Matrix3 {
	return b.UnitToReduced.Inverse()
}

// ReducedHKLToUnit maps a reduced-cell hkl index into the unit-cell hkl
// index, the reciprocal-space (covariant) counterpart of ReducedToUnit:
// point coordinates transform by UnitToReduced.Inverse(), hkl indices by
// its transpose.
func (b Basis) ReducedHKLToUnit(hkl Vector3) Vector3 {
	return b.UnitToReduced.Transpose().MulVec(hkl)
}
