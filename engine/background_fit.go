package engine

import "gonum.org/v1/gonum/mat"

// FitBackgroundLeastSquares fits the chosen background basis to (angle,
// intensity) samples by ordinary least squares, solved via the normal
// equations with linalg.go's SVD-based pseudoInverse (spec.md §4.5 stage 3
// initialization).
func FitBackgroundLeastSquares(kind BackgroundKind, angles, intensity []float64, numBackground int, thetaMin, thetaMax, polyStart float64) []float64 {
	n := len(angles)
	design := mat.NewDense(n, numBackground, nil)
	for i, a := range angles {
		for k := 0; k < numBackground; k++ {
			coeffs := make([]float64, numBackground)
			coeffs[k] = 1
			design.Set(i, k, BackgroundAt(kind, coeffs, a, thetaMin, thetaMax, polyStart))
		}
	}
	y := mat.NewVecDense(n, intensity)

	var ata mat.Dense
	ata.Mul(design.T(), design)
	var aty mat.VecDense
	aty.MulVec(design.T(), y)

	ataInv := pseudoInverse(&ata)
	var coeffs mat.VecDense
	coeffs.MulVec(ataInv, &aty)

	out := make([]float64, numBackground)
	for i := range out {
		out[i] = coeffs.AtVec(i)
	}
	return out
}
