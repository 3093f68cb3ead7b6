package crystal

import "math"

// Generator pairs a rotation with the set of translations it is combined
// with when generating atom images within an orbit (spec: "generators[]:
// {rotation, translations[]}").
type Generator struct {
	Rotation     Matrix3
	Translations []Vector3
}

// SpecialPosition constrains an atom's fractional coordinate under the
// site-symmetry operation (rotation, translation) of a special Wyckoff
// position: p <- R*(p-t) + t.
type SpecialPosition struct {
	Rotation    Matrix3
	Translation Vector3
}

// Orbit is the set of symmetry-equivalent atoms generated from one
// representative position, plus the special-position projections that
// constrain it.
type Orbit struct {
	Generators       []Generator
	SpecialPositions []SpecialPosition
}

// Images expands a representative fractional position into all symmetry-
// equivalent positions in the unit cell, deduplicated with tolerance 1e-4.
func (o Orbit) Images(p Vector3, moveIntoCell func(Vector3) Vector3) []Vector3 {
	const tol = 1e-4
	var images []Vector3
	for _, g := range o.Generators {
		for _, t := range g.Translations {
			img := g.Rotation.MulVec(p).Add(t)
			if moveIntoCell != nil {
				img = moveIntoCell(img)
			}
			dup := false
			for _, existing := range images {
				if math.Abs(existing[0]-img[0]) < tol &&
					math.Abs(existing[1]-img[1]) < tol &&
					math.Abs(existing[2]-img[2]) < tol {
					dup = true
					break
				}
			}
			if !dup {
				images = append(images, img)
			}
		}
	}
	if len(images) == 0 {
		images = []Vector3{p}
	}
	return images
}

// Operation is one symmetry operation of the space group: a rotation
// paired with the translations (centering vectors) it combines with.
type Operation struct {
	Rotation     Matrix3
	Translations []Vector3
}

// Symmetry is the external-collaborator contract the engine consumes for
// space-group operations, orbit structure, and basis/translation utilities.
type Symmetry interface {
	Operations() []Operation
	Orbits() []Orbit
	RefineBasis(m Matrix3) Matrix3
	IntrinsicTranslation(r Matrix3, t Vector3) Vector3
}

// LatticeSystem names the constraint RefineBasis enforces.
type LatticeSystem int

const (
	SystemTriclinic LatticeSystem = iota
	SystemCubic
	SystemTetragonal
	SystemHexagonal
	SystemOrthorhombic
)

// SpaceGroup is a minimal concrete Symmetry sufficient to run the engine
// end to end and exercise the cubic worked examples in spec.md §8.
type SpaceGroup struct {
	system LatticeSystem
	ops    []Operation
	orbits []Orbit
}

// NewSpaceGroup builds a symmetry description from explicit operations and
// orbits.
func NewSpaceGroup(system LatticeSystem, ops []Operation, orbits []Orbit) *SpaceGroup {
	return &SpaceGroup{system: system, ops: ops, orbits: orbits}
}

func (s *SpaceGroup) Operations() []Operation { return s.ops }
func (s *SpaceGroup) Orbits() []Orbit         { return s.orbits }

// RefineBasis projects a proposed basis matrix onto the constraints implied
// by the lattice system (e.g. cubic forces equal lengths, orthogonal axes).
func (s *SpaceGroup) RefineBasis(m Matrix3) Matrix3 {
	switch s.system {
	case SystemCubic:
		a := (vecLen(m[0]) + vecLen(m[1]) + vecLen(m[2])) / 3.0
		return Matrix3{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
	case SystemTetragonal:
		ab := (vecLen(m[0]) + vecLen(m[1])) / 2.0
		c := vecLen(m[2])
		return Matrix3{{ab, 0, 0}, {0, ab, 0}, {0, 0, c}}
	case SystemOrthorhombic:
		return Matrix3{{vecLen(m[0]), 0, 0}, {0, vecLen(m[1]), 0}, {0, 0, vecLen(m[2])}}
	default:
		return m
	}
}

func vecLen(row [3]float64) float64 {
	return math.Sqrt(row[0]*row[0] + row[1]*row[1] + row[2]*row[2])
}

// IntrinsicTranslation returns the component of t that is invariant under
// repeated application of the rotation R, i.e. the part of the translation
// along the rotation axis (zero for a pure point operation, non-zero for a
// screw/glide component). Computed as the time-average of R^k*t over the
// rotation's order.
func (s *SpaceGroup) IntrinsicTranslation(r Matrix3, t Vector3) Vector3 {
	order := rotationOrder(r)
	sum := Vector3{}
	rk := IdentityMatrix3()
	for k := 0; k < order; k++ {
		sum = sum.Add(rk.MulVec(t))
		rk = rk.Mul(r)
	}
	return sum.Scale(1.0 / float64(order))
}

func rotationOrder(r Matrix3) int {
	cur := r
	for n := 1; n <= 6; n++ {
		if matrixIsIdentity(cur) {
			return n
		}
		cur = cur.Mul(r)
	}
	return 1
}

func matrixIsIdentity(m Matrix3) bool {
	const tol = 1e-6
	id := IdentityMatrix3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-id[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
