// Package presets builds the worked-example structures of spec.md §8
// (fcc aluminium, rock-salt NaCl, diamond silicon) for the command-line
// tools, standing in for the general structure-file format that a CIF
// or project-file parser would otherwise supply (the crystal package
// comment notes this remains an external collaborator's responsibility).
package presets

import (
	"fmt"

	"xrdengine-go/crystal"
)

// Preset names recognized by -preset on the CLI tools.
const (
	FCCAluminium = "fcc-al"
	RockSaltNaCl = "rocksalt-nacl"
	DiamondSi    = "diamond-si"
)

// Build constructs the structure and symmetry for a named preset, at cubic
// lattice parameter a (angstroms). Atomic numbers: Al=13, Na=11, Cl=17,
// Si=14.
func Build(name string, a float64) (*crystal.Lattice, crystal.Symmetry, error) {
	basis := crystal.FromLengthsAngles(
		crystal.Vector3{a, a, a},
		crystal.Vector3{1.5707963267948966, 1.5707963267948966, 1.5707963267948966},
	)

	switch name {
	case FCCAluminium:
		atoms := []crystal.Atom{{Z: 13, Position: crystal.Vector3{0, 0, 0}, Occupancy: 1}}
		return crystal.NewLattice(basis, atoms), crystal.NewFCCSpaceGroup(), nil

	case RockSaltNaCl:
		atoms := []crystal.Atom{
			{Z: 11, Position: crystal.Vector3{0, 0, 0}, Occupancy: 1},
			{Z: 17, Position: crystal.Vector3{0.5, 0.5, 0.5}, Occupancy: 1},
		}
		return crystal.NewLattice(basis, atoms), crystal.NewRockSaltSpaceGroup(), nil

	case DiamondSi:
		atoms := []crystal.Atom{
			{Z: 14, Position: crystal.Vector3{0, 0, 0}, Occupancy: 1},
			{Z: 14, Position: crystal.Vector3{0.25, 0.25, 0.25}, Occupancy: 1},
		}
		return crystal.NewLattice(basis, atoms), crystal.NewDiamondSpaceGroup(), nil

	default:
		return nil, nil, fmt.Errorf("unknown preset %q (want %s, %s, or %s)", name, FCCAluminium, RockSaltNaCl, DiamondSi)
	}
}
