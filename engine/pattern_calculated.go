package engine

import (
	"xrdengine-go/crystal"
	"xrdengine-go/elements"
	"xrdengine-go/enginecfg"
)

// CalculatedPattern owns a structure and symmetry reference plus every
// instrumental and structural parameter the profile synthesizer needs
// (spec.md §3 "Calculated-pattern state"). The engine mutates the
// structure's basis and atomic coordinates in place during refinement; the
// caller observes the refined values through the same reference.
type CalculatedPattern struct {
	cfg enginecfg.Config

	method     Method
	wavelength float64

	structure crystal.Structure
	symmetry  crystal.Symmetry
	elements  elements.Table

	minTwoTheta, maxTwoTheta float64

	BFactors  []float64
	AtfParams []elements.Coefficients

	U, V, W             float64
	Eta0, Eta1, Eta2    float64
	ZeroShift           [6]float64
	PreferredOrientation crystal.Vector3

	UseChebyshev        bool
	NumBackground       int
	BackgroundPolyStart float64
	BackgroundCoeffs    []float64

	OriginalLengths crystal.Vector3
	OriginalAngles  crystal.Vector3
	MaxLatChange    float64

	MinBFactor, MaxBFactor float64

	OptimalScale float64

	Reflections []Reflection

	reference *ExperimentalPattern
	active    map[RefinementParameterKind]bool
}

// NewCalculatedPattern constructs an empty calculated-pattern state, per
// spec.md §3's lifecycle: empty until SetStructure is called.
func NewCalculatedPattern(cfg enginecfg.Config, table elements.Table) *CalculatedPattern {
	return &CalculatedPattern{
		cfg:                 cfg,
		elements:            table,
		method:              MethodXRay,
		NumBackground:       1,
		BackgroundPolyStart: -1,
		MinBFactor:           0,
		MaxBFactor:           5,
		MaxLatChange:         0,
		active:               map[RefinementParameterKind]bool{},
	}
}

// SetStructure populates the pattern from a structure and its symmetry:
// looks up per-orbit Cromer-Mann coefficients, seeds B factors (0.5), one
// zero background coefficient and a unit scale (U, V and W are left as
// they are), records the original lengths/angles for bounded
// lattice refinement, and enumerates reflections.
func (p *CalculatedPattern) SetStructure(structure crystal.Structure, symmetry crystal.Symmetry, method Method, wavelength, minTwoTheta, maxTwoTheta float64) error {
	p.structure = structure
	p.symmetry = symmetry
	p.method = method
	p.wavelength = wavelength
	p.minTwoTheta = minTwoTheta
	p.maxTwoTheta = maxTwoTheta

	basis := structure.Basis()
	p.OriginalLengths = basis.Lengths
	p.OriginalAngles = basis.Angles

	orbits := symmetry.Orbits()
	atoms := structure.Atoms()
	p.BFactors = make([]float64, len(orbits))
	p.AtfParams = make([]elements.Coefficients, len(orbits))
	for i := range orbits {
		if i >= len(atoms) {
			break
		}
		coef, err := p.elements.Coefficients(atoms[i].Z)
		if err != nil {
			return &Failure{Category: CategoryConfiguration, Message: err.Error()}
		}
		p.AtfParams[i] = coef
		p.BFactors[i] = 0.5
	}

	p.NumBackground = 1
	p.BackgroundCoeffs = make([]float64, p.NumBackground)
	p.OptimalScale = 1

	return p.Compute()
}

// SetReference attaches an experimental pattern the R-factor engine and
// refinement driver will compare against.
func (p *CalculatedPattern) SetReference(ref *ExperimentalPattern) {
	p.reference = ref
}

// Reference returns the attached experimental pattern, or nil.
func (p *CalculatedPattern) Reference() *ExperimentalPattern { return p.reference }

// Clear returns the pattern to its empty, pre-SetStructure state.
func (p *CalculatedPattern) Clear() {
	p.structure = nil
	p.symmetry = nil
	p.Reflections = nil
	p.BFactors = nil
	p.AtfParams = nil
	p.reference = nil
	p.active = map[RefinementParameterKind]bool{}
}

// Structure, Symmetry, Method, and Wavelength expose the pattern's bound
// collaborators and scalar parameters to the refinement driver.
func (p *CalculatedPattern) Structure() crystal.Structure { return p.structure }
func (p *CalculatedPattern) Symmetry() crystal.Symmetry   { return p.symmetry }
func (p *CalculatedPattern) Method() Method                { return p.method }
func (p *CalculatedPattern) Wavelength() float64            { return p.wavelength }
func (p *CalculatedPattern) MinTwoTheta() float64            { return p.minTwoTheta }
func (p *CalculatedPattern) MaxTwoTheta() float64            { return p.maxTwoTheta }

// Compute re-enumerates reflections from the current structure/symmetry and
// recomputes every calculated intensity (spec.md §3 "compute mutates the
// model"). Calling Compute twice with identical inputs yields byte-identical
// reflection lists, since enumeration and intensity evaluation are pure
// functions of the current structure/symmetry/parameters.
func (p *CalculatedPattern) Compute() error {
	if p.structure == nil || p.symmetry == nil {
		return &Failure{Category: CategoryConfiguration, Message: "structure not defined before compute"}
	}
	p.Reflections = EnumerateReflections(p.method, p.wavelength, p.structure, p.symmetry, p.minTwoTheta, p.maxTwoTheta)
	for i := range p.Reflections {
		p.Reflections[i].PatternIndex = i
	}
	return p.updateIntensities()
}

// updatePeakPositions recomputes every reflection's diffraction angle and
// Lorentz factor from the current basis, without re-enumerating — used
// whenever BASIS is the active refinement target (spec.md §4.5 "Unpacking
// side effects: on BASIS... update all peak positions").
func (p *CalculatedPattern) updatePeakPositions() {
	basis := p.structure.Basis()
	for i := range p.Reflections {
		p.Reflections[i].UpdatePosition(basis)
	}
}

// updateIntensities recomputes |F|^2 * LP * multiplicity * T_hkl for every
// reflection, per spec.md §4.2 "Integrated intensity per reflection".
func (p *CalculatedPattern) updateIntensities() error {
	texturingStrength := p.PreferredOrientation.Magnitude()
	for i := range p.Reflections {
		r := &p.Reflections[i]
		f2, err := StructureFactorSquared(p.method, p.wavelength, p.symmetry, p.structure, p.BFactors, p.elements, r.TwoThetaRad/2, r.HKL)
		if err != nil {
			return &Failure{Category: CategoryProcessing, Message: err.Error()}
		}
		texture := TexturingFactor(p.PreferredOrientation, texturingStrength, r.RecipVectors)
		r.Intensity = f2 * r.LPFactor * float64(r.Multiplicity) * texture
	}
	return nil
}

// IntensityAt evaluates the full synthesized profile (background plus
// shifted, broadened, texture-weighted peaks, scaled by OptimalScale) over
// angles. Deterministic, monotone in peak intensity, and zero when all
// structure factors and background coefficients are zero (spec.md §4.2
// contract).
func (p *CalculatedPattern) IntensityAt(angles []float64) []float64 {
	out := make([]float64, len(angles))
	kind := BackgroundLaurent
	if p.UseChebyshev {
		kind = BackgroundChebyshev
	}
	for idx, twoTheta := range angles {
		out[idx] = BackgroundAt(kind, p.BackgroundCoeffs, twoTheta, p.minTwoTheta, p.maxTwoTheta, p.BackgroundPolyStart)
	}
	p.addPeaksAt(angles, out)
	for idx := range out {
		out[idx] *= p.OptimalScale
	}
	return out
}

// PeaksOnlyAt evaluates just the shifted, broadened, texture-weighted
// peaks (no background, unscaled by OptimalScale) over angles.
func (p *CalculatedPattern) PeaksOnlyAt(angles []float64) []float64 {
	out := make([]float64, len(angles))
	p.addPeaksAt(angles, out)
	return out
}

func (p *CalculatedPattern) addPeaksAt(angles []float64, out []float64) {
	for _, r := range p.Reflections {
		theta := r.TwoThetaRad / 2
		delta := AngularShift(theta, p.ZeroShift)
		center := r.TwoThetaDeg + delta
		h, ok := CagliotiFWHM(theta, p.U, p.V, p.W)
		if !ok {
			continue
		}
		eta := MixingParameter(center, p.Eta0, p.Eta1, p.Eta2)
		for idx, twoTheta := range angles {
			out[idx] += PeakContribution(twoTheta, center, h, eta, r.Intensity)
		}
	}
}
