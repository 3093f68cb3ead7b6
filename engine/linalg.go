package engine

import "gonum.org/v1/gonum/mat"

// pseudoInverse computes the Moore-Penrose pseudo-inverse of a via thin SVD,
// adapted from the teacher's fusion/utils.go pinv (there used to invert an
// innovation-covariance matrix for chi-square gating; here it makes the
// background least-squares solve tolerant of a singular or near-singular
// normal-equations matrix, e.g. a single-term background against a
// constant-angle sample).
func pseudoInverse(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()

	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDThin)
	if !ok {
		return mat.NewDense(c, r, nil)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	maxS := 0.0
	if len(s) > 0 {
		maxS = s[0]
	}
	tol := 1e-15 * float64(max(r, c)) * maxS

	sigInv := mat.NewDense(len(s), len(s), nil)
	for i, val := range s {
		if val > tol {
			sigInv.Set(i, i, 1.0/val)
		}
	}

	var temp mat.Dense
	temp.Mul(&v, sigInv)
	var out mat.Dense
	out.Mul(&temp, u.T())
	return &out
}
