package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFCCAluminiumHasOneAtomAndCubicBasis(t *testing.T) {
	lattice, symmetry, err := Build(FCCAluminium, 4.05)
	require.NoError(t, err)
	require.NotNil(t, symmetry)
	atoms := lattice.Atoms()
	require.Len(t, atoms, 1)
	assert.Equal(t, 13, atoms[0].Z)

	basis := lattice.Basis()
	assert.InDelta(t, 4.05, basis.Lengths[0], 1e-9)
	assert.InDelta(t, 4.05, basis.Lengths[1], 1e-9)
	assert.InDelta(t, 4.05, basis.Lengths[2], 1e-9)
}

func TestBuildRockSaltHasTwoDistinctAtoms(t *testing.T) {
	lattice, _, err := Build(RockSaltNaCl, 5.64)
	require.NoError(t, err)
	atoms := lattice.Atoms()
	require.Len(t, atoms, 2)
	assert.Equal(t, 11, atoms[0].Z)
	assert.Equal(t, 17, atoms[1].Z)
}

func TestBuildDiamondSiliconHasTwoAtomsOfSameElement(t *testing.T) {
	lattice, _, err := Build(DiamondSi, 5.43)
	require.NoError(t, err)
	atoms := lattice.Atoms()
	require.Len(t, atoms, 2)
	assert.Equal(t, 14, atoms[0].Z)
	assert.Equal(t, 14, atoms[1].Z)
	assert.NotEqual(t, atoms[0].Position, atoms[1].Position)
}

func TestBuildRejectsUnknownPreset(t *testing.T) {
	_, _, err := Build("nonexistent", 4.0)
	assert.Error(t, err)
}
