package engine

import (
	"math"

	"github.com/maorshutman/lm"
)

// FitPoint is one (angle, intensity) sample used to fit a peak model.
type FitPoint struct {
	Angle     float64
	Intensity float64
}

// GaussianValue evaluates the 3-parameter Gaussian {H, mu, I0} spec.md §4.3
// step 8 fits to each single peak before compositing: height I0 at center
// mu, FWHM H.
func GaussianValue(params [3]float64, x float64) float64 {
	h, mu, i0 := params[0], params[1], params[2]
	d := (x - mu) / h
	return i0 * math.Exp(-4*math.Ln2*d*d)
}

// CompositeGaussianValue sums N independent 3-parameter Gaussians packed as
// [H0,mu0,I0_0, H1,mu1,I0_1, ...].
func CompositeGaussianValue(params []float64, x float64) float64 {
	var sum float64
	for i := 0; i+2 < len(params); i += 3 {
		sum += GaussianValue([3]float64{params[i], params[i+1], params[i+2]}, x)
	}
	return sum
}

// PVValue evaluates the 8-parameter pseudo-Voigt {eta0,eta1,eta2,mu,u,v,w,I0}
// re-parameterization used in spec.md §4.3 step 8: mu and x are 2theta in
// degrees; u,v,w feed the Caglioti FWHM at theta = mu/2 (radians).
func PVValue(params [8]float64, x float64) float64 {
	eta0, eta1, eta2, mu, u, v, w, i0 := params[0], params[1], params[2], params[3], params[4], params[5], params[6], params[7]
	theta := mu * math.Pi / 360
	h, ok := CagliotiFWHM(theta, u, v, w)
	if !ok || h <= 0 {
		return 0
	}
	eta := MixingParameter(mu, eta0, eta1, eta2)
	return i0 * PseudoVoigt(x, mu, h, eta)
}

// CompositePVValue sums N independent 8-parameter pseudo-Voigts packed as
// 8 values per peak.
func CompositePVValue(params []float64, x float64) float64 {
	var sum float64
	for i := 0; i+7 < len(params); i += 8 {
		var p [8]float64
		copy(p[:], params[i:i+8])
		sum += PVValue(p, x)
	}
	return sum
}

// fitLM runs Levenberg-Marquardt (via github.com/maorshutman/lm) to
// minimize sum((model(params,x_i)-y_i)^2), starting from init, matching the
// original implementation's use of a dlib-style LM fitter at each stage of
// spec.md §4.3 step 8.
func fitLM(points []FitPoint, init []float64, model func(params []float64, x float64) float64) []float64 {
	dim := len(init)
	size := len(points)

	residual := func(dst, x []float64) {
		for i, pt := range points {
			dst[i] = model(x, pt.Angle) - pt.Intensity
		}
	}
	numJac := lm.NumJac{Func: residual}

	problem := lm.LMProblem{
		Dim:        dim,
		Size:       size,
		Func:       residual,
		Jac:        numJac.Jac,
		InitParams: append([]float64(nil), init...),
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	result, err := lm.LM(problem, &lm.Settings{Iterations: 200, ObjectiveTol: 1e-16})
	if err != nil || result == nil {
		return init
	}
	return result.X
}

// FitGaussian fits GaussianValue to points, seeding from the tallest
// sample's angle and height plus a default width guess of 0.25 degrees,
// matching the original implementation's initial-guess rule.
func FitGaussian(points []FitPoint) [3]float64 {
	mu, i0 := points[0].Angle, points[0].Intensity
	for _, pt := range points[1:] {
		if pt.Intensity > i0 {
			mu, i0 = pt.Angle, pt.Intensity
		}
	}
	init := []float64{0.25, mu, i0}
	result := fitLM(points, init, func(params []float64, x float64) float64 {
		return GaussianValue([3]float64{params[0], params[1], params[2]}, x)
	})
	return [3]float64{result[0], result[1], result[2]}
}

// FitCompositeGaussian jointly refits a group of single-Gaussian fits
// (spec.md §4.3 step 8, "refit each group jointly with a composite
// Gaussian"). init is the concatenation of the group's individual 3-tuples.
func FitCompositeGaussian(points []FitPoint, init []float64) []float64 {
	return fitLM(points, init, CompositeGaussianValue)
}

// FitCompositePV jointly refits a group's pseudo-Voigt re-parameterization
// (spec.md §4.3 step 8, final stage). init is the concatenation of the
// group's individual 8-tuples, each seeded eta0=1, eta1=eta2=0, v=w=0,
// u=gaussianH, mu and I0 from the Gaussian fit.
func FitCompositePV(points []FitPoint, init []float64) []float64 {
	return fitLM(points, init, CompositePVValue)
}

// InitialPVParams converts one Gaussian fit {H, mu, I0} into the initial
// 8-parameter pseudo-Voigt guess: eta0=1, eta1=eta2=0, v=w=0, u set to the
// Gaussian width H, and mu and I0 carried over from the Gaussian fit.
func InitialPVParams(gaussian [3]float64) [8]float64 {
	return [8]float64{1, 0, 0, gaussian[1], gaussian[0], 0, 0, gaussian[2]}
}
