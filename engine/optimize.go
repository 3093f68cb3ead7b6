package engine

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Bound describes a box constraint on one packed parameter (spec.md §4.5
// "Bounds"). Upper of +Inf means lower-bound-only; both infinite means
// unbounded.
type Bound struct {
	Lower, Upper float64
}

const gradientStep = 1e-6

// toUnconstrained maps a bounded value x into its unconstrained
// representation y, the inverse of fromUnconstrained, used to seed the
// optimizer from the caller's initial guess.
func (b Bound) toUnconstrained(x float64) float64 {
	switch {
	case math.IsInf(b.Lower, -1) && math.IsInf(b.Upper, 1):
		return x
	case math.IsInf(b.Upper, 1):
		v := x - b.Lower
		if v < 1e-12 {
			v = 1e-12
		}
		return math.Log(v)
	default:
		span := b.Upper - b.Lower
		frac := (x - b.Lower) / span
		frac = math.Min(math.Max(frac, 1e-9), 1-1e-9)
		return math.Log(frac / (1 - frac))
	}
}

// fromUnconstrained maps an unconstrained optimizer variable y back into
// the bounded value x, via a scaled logistic sigmoid for two-sided bounds
// or an exponential for a lower-bound-only constraint. This guarantees the
// box constraint holds for every y the unconstrained solver visits, per
// spec.md §7 "Bound violations are prevented by the box constraints."
func (b Bound) fromUnconstrained(y float64) float64 {
	switch {
	case math.IsInf(b.Lower, -1) && math.IsInf(b.Upper, 1):
		return y
	case math.IsInf(b.Upper, 1):
		return b.Lower + math.Exp(y)
	default:
		return b.Lower + (b.Upper-b.Lower)/(1+math.Exp(-y))
	}
}

// BoxConstrainedBFGS minimizes objective over x, each component held within
// the corresponding bound, using gonum's unconstrained BFGS on a smooth
// bound-reparametrized variable and a central-difference numerical gradient
// (spec.md §4.5 "Optimizer"). Termination is objective-delta 1e-12 for up
// to 30*len(x0) iterations.
func BoxConstrainedBFGS(objective func(x []float64) float64, x0 []float64, bounds []Bound) ([]float64, float64, error) {
	n := len(x0)
	y0 := make([]float64, n)
	for i := range x0 {
		y0[i] = bounds[i].toUnconstrained(x0[i])
	}

	x := make([]float64, n)
	wrapped := func(y []float64) float64 {
		for i, b := range bounds {
			x[i] = b.fromUnconstrained(y[i])
		}
		return objective(x)
	}

	problem := optimize.Problem{
		Func: wrapped,
		Grad: func(grad, y []float64) {
			centralDifferenceGradient(wrapped, y, grad)
		},
	}

	settings := &optimize.Settings{
		MajorIterations: 30 * n,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 5,
		},
	}

	result, err := optimize.Minimize(problem, y0, settings, &optimize.BFGS{})
	if err != nil && result == nil {
		return nil, 0, err
	}

	xOpt := make([]float64, n)
	for i, b := range bounds {
		xOpt[i] = b.fromUnconstrained(result.X[i])
	}
	return xOpt, result.F, nil
}

// centralDifferenceGradient fills grad with the central-difference
// numerical gradient of f at y, step gradientStep.
func centralDifferenceGradient(f func([]float64) float64, y, grad []float64) {
	n := len(y)
	perturbed := make([]float64, n)
	copy(perturbed, y)
	for i := 0; i < n; i++ {
		orig := y[i]

		perturbed[i] = orig + gradientStep
		fPlus := f(perturbed)

		perturbed[i] = orig - gradientStep
		fMinus := f(perturbed)

		perturbed[i] = orig
		grad[i] = (fPlus - fMinus) / (2 * gradientStep)
	}
}
