package engine

import (
	"math"

	"xrdengine-go/crystal"
)

// TexturingFactor computes the March-Dollase preferred-orientation factor
// for one reflection (spec.md §4.2):
//
//	T_hkl = (1/N) * sum_i (tau^2*cos(phi_i)^2 + (1-cos(phi_i)^2)/tau)^(-3/2)
//
// where phi_i is the angle between preferredOrientation and the i-th
// reciprocal lattice vector contributing to this reflection. tau == 1 (or
// preferredOrientation of zero magnitude) disables texturing: every term is
// 1 and the average is 1.
func TexturingFactor(preferredOrientation crystal.Vector3, tau float64, recipLatticeVectors []crystal.Vector3) float64 {
	if len(recipLatticeVectors) == 0 {
		return 1
	}
	preNorm := preferredOrientation.Magnitude()
	if preNorm == 0 {
		return 1
	}

	var output float64
	for _, v := range recipLatticeVectors {
		cosphi := preferredOrientation.Dot(v) / preNorm / v.Magnitude()
		cosphi *= cosphi
		output += math.Pow(tau*tau*cosphi+(1-cosphi)/tau, -1.5)
	}
	return output / float64(len(recipLatticeVectors))
}
