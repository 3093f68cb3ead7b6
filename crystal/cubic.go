package crystal

// This file builds the cubic point-group rotations and the handful of
// face-centered space-group descriptions (Fm-3m, Fd-3m) exercised by the
// engine's worked examples (fcc aluminium, rock-salt NaCl, diamond Si).
// It is not a general symmetry database — that remains an external
// collaborator's responsibility per spec.md §1.

// CubicPointGroupOps returns the 48 signed-permutation matrices that make
// up the full cubic point group m-3m (order 48: 3! permutations of the
// axes times 2^3 sign choices).
func CubicPointGroupOps() []Matrix3 {
	perms := [][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	var ops []Matrix3
	for _, perm := range perms {
		for sx := -1; sx <= 1; sx += 2 {
			for sy := -1; sy <= 1; sy += 2 {
				for sz := -1; sz <= 1; sz += 2 {
					signs := [3]int{sx, sy, sz}
					var m Matrix3
					for row := 0; row < 3; row++ {
						m[row][perm[row]] = float64(signs[row])
					}
					ops = append(ops, m)
				}
			}
		}
	}
	return ops
}

// FCenteringTranslations returns the four translations ((0,0,0) plus the
// three face-centering vectors) that generate an F-centered lattice from a
// set of point-group rotations.
func FCenteringTranslations() []Vector3 {
	return []Vector3{
		{0, 0, 0},
		{0, 0.5, 0.5},
		{0.5, 0, 0.5},
		{0.5, 0.5, 0},
	}
}

// faceCenteredOperations builds the Operations list for a cubic,
// face-centered space group: every point-group rotation combined with
// every centering translation.
func faceCenteredOperations() []Operation {
	rots := CubicPointGroupOps()
	trans := FCenteringTranslations()
	ops := make([]Operation, len(rots))
	for i, r := range rots {
		ops[i] = Operation{Rotation: r, Translations: trans}
	}
	return ops
}

// fullSymmetrySiteOrbit builds an Orbit for an atom sitting on a special
// position whose site symmetry is the full cubic point group (e.g. (0,0,0)
// or (1/4,1/4,1/4) in an F-centered cell): the rotations fix the point, so
// only the centering translations are needed to generate its images.
func fullSymmetrySiteOrbit() Orbit {
	return Orbit{
		Generators: []Generator{
			{Rotation: IdentityMatrix3(), Translations: FCenteringTranslations()},
		},
		SpecialPositions: []SpecialPosition{
			{Rotation: IdentityMatrix3(), Translation: Vector3{0, 0, 0}},
		},
	}
}

// NewFCCSpaceGroup builds a face-centered cubic (Fm-3m) symmetry with a
// single atom orbit at (0,0,0) — the setting used for elemental fcc metals
// such as aluminium.
func NewFCCSpaceGroup() *SpaceGroup {
	return NewSpaceGroup(SystemCubic, faceCenteredOperations(), []Orbit{fullSymmetrySiteOrbit()})
}

// NewRockSaltSpaceGroup builds the Fm-3m symmetry with two atom orbits, at
// (0,0,0) and (1/2,1/2,1/2) — the NaCl rock-salt setting.
func NewRockSaltSpaceGroup() *SpaceGroup {
	return NewSpaceGroup(SystemCubic, faceCenteredOperations(), []Orbit{
		fullSymmetrySiteOrbit(),
		fullSymmetrySiteOrbit(),
	})
}

// NewDiamondSpaceGroup builds the diamond-cubic setting (Si, Ge, C) with two
// atom orbits, at (0,0,0) and (1/4,1/4,1/4). It reuses the face-centered
// m-3m operation list of NewFCCSpaceGroup; the quarter-translation d-glide
// operations of Fd-3m are not included.
func NewDiamondSpaceGroup() *SpaceGroup {
	return NewSpaceGroup(SystemCubic, faceCenteredOperations(), []Orbit{
		fullSymmetrySiteOrbit(),
		fullSymmetrySiteOrbit(),
	})
}
