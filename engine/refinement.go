package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"xrdengine-go/crystal"
	"xrdengine-go/enginecfg"
)

// RefinementParameterKind is a closed tag identifying one group of the
// packed refinement vector (spec.md §3 "Refinement-parameter kinds"). Each
// kind carries its own pack/unpack, bound, and initialization rule (spec.md
// §9 "tagged variants over enums-of-switch").
type RefinementParameterKind int

const (
	RFScale RefinementParameterKind = iota
	RFSpecDisp
	RFBackground
	RFBasis
	RFUVFactors
	RFWFactor
	RFPositions
	RFBFactors
	RFTexture
	RFZeroShift
)

func (k RefinementParameterKind) String() string {
	switch k {
	case RFScale:
		return "SCALE"
	case RFSpecDisp:
		return "SPECDISP"
	case RFBackground:
		return "BACKGROUND"
	case RFBasis:
		return "BASIS"
	case RFUVFactors:
		return "UVFACTORS"
	case RFWFactor:
		return "WFACTOR"
	case RFPositions:
		return "POSITIONS"
	case RFBFactors:
		return "BFACTORS"
	case RFTexture:
		return "TEXTURE"
	case RFZeroShift:
		return "ZEROSHIFT"
	default:
		return "UNKNOWN"
	}
}

// canonicalOrder is the packing order mandated by spec.md §4.5: "SCALE |
// SPECDISP | BACKGROUND | BASIS(lengths, angles) | UVFACTORS(U,V,eta1,eta2)
// | WFACTOR(W,eta0) | POSITIONS | BFACTORS | TEXTURE | ZEROSHIFT".
//
// SPECDISP and ZEROSHIFT each refine one component of the six-term angular
// shift vector: SPECDISP is shift[0] (the 1/tan(theta) specimen-
// displacement term), ZEROSHIFT is shift[5] (the constant term), following
// the original implementation's two separate single-parameter refinement
// groups layered on top of the shared shift vector.
var canonicalOrder = []RefinementParameterKind{
	RFScale, RFSpecDisp, RFBackground, RFBasis, RFUVFactors, RFWFactor,
	RFPositions, RFBFactors, RFTexture, RFZeroShift,
}

// group bundles one parameter kind's get/set/bounds behavior for packing.
type group struct {
	kind   RefinementParameterKind
	get    func(p *CalculatedPattern) []float64
	set    func(p *CalculatedPattern, vals []float64)
	bounds func(p *CalculatedPattern) []Bound
	// affectsIntensity marks kinds whose unpack must recompute |F|^2-based
	// reflection intensities.
	affectsIntensity bool
	// affectsPosition marks kinds whose unpack must recompute peak angle
	// and Lorentz factor (BASIS only).
	affectsPosition bool
}

func groupFor(kind RefinementParameterKind) group {
	switch kind {
	case RFScale:
		return group{kind: kind,
			get: func(p *CalculatedPattern) []float64 { return []float64{p.OptimalScale} },
			set: func(p *CalculatedPattern, v []float64) { p.OptimalScale = v[0] },
			bounds: func(p *CalculatedPattern) []Bound {
				return []Bound{{Lower: 0, Upper: math.Inf(1)}}
			},
		}
	case RFSpecDisp:
		return group{kind: kind,
			get: func(p *CalculatedPattern) []float64 { return []float64{p.ZeroShift[0]} },
			set: func(p *CalculatedPattern, v []float64) { p.ZeroShift[0] = v[0] },
			bounds: func(p *CalculatedPattern) []Bound {
				return []Bound{{Lower: -0.1, Upper: 0.1}}
			},
		}
	case RFBackground:
		return group{kind: kind,
			get: func(p *CalculatedPattern) []float64 {
				return append([]float64(nil), p.BackgroundCoeffs...)
			},
			set: func(p *CalculatedPattern, v []float64) { copy(p.BackgroundCoeffs, v) },
			bounds: func(p *CalculatedPattern) []Bound {
				b := make([]Bound, len(p.BackgroundCoeffs))
				for i := range b {
					b[i] = Bound{Lower: math.Inf(-1), Upper: math.Inf(1)}
				}
				return b
			},
		}
	case RFBasis:
		return group{kind: kind, affectsIntensity: true, affectsPosition: true,
			get: func(p *CalculatedPattern) []float64 {
				basis := p.structure.Basis()
				return []float64{
					basis.Lengths[0], basis.Lengths[1], basis.Lengths[2],
					basis.Angles[0], basis.Angles[1], basis.Angles[2],
				}
			},
			set: func(p *CalculatedPattern, v []float64) {
				lengths := crystal.Vector3{v[0], v[1], v[2]}
				angles := crystal.Vector3{v[3], v[4], v[5]}
				newBasis := crystal.FromLengthsAngles(lengths, angles)
				refined := p.symmetry.RefineBasis(newBasis.Matrix)
				p.structure.SetBasis(refined, true)
			},
			bounds: func(p *CalculatedPattern) []Bound {
				b := make([]Bound, 6)
				for i := 0; i < 3; i++ {
					lo := p.OriginalLengths[i] * (1 - p.MaxLatChange)
					hi := p.OriginalLengths[i] * (1 + p.MaxLatChange)
					b[i] = Bound{Lower: lo, Upper: hi}
				}
				for i := 0; i < 3; i++ {
					lo := p.OriginalAngles[i] * (1 - p.MaxLatChange)
					hi := p.OriginalAngles[i] * (1 + p.MaxLatChange)
					b[3+i] = Bound{Lower: lo, Upper: hi}
				}
				return b
			},
		}
	case RFUVFactors:
		return group{kind: kind,
			get: func(p *CalculatedPattern) []float64 { return []float64{p.U, p.V, p.Eta1, p.Eta2} },
			set: func(p *CalculatedPattern, v []float64) { p.U, p.V, p.Eta1, p.Eta2 = v[0], v[1], v[2], v[3] },
			bounds: func(p *CalculatedPattern) []Bound {
				inf := Bound{Lower: math.Inf(-1), Upper: math.Inf(1)}
				return []Bound{inf, inf, inf, inf}
			},
		}
	case RFWFactor:
		return group{kind: kind,
			get: func(p *CalculatedPattern) []float64 { return []float64{p.W, p.Eta0} },
			set: func(p *CalculatedPattern, v []float64) { p.W, p.Eta0 = v[0], v[1] },
			bounds: func(p *CalculatedPattern) []Bound {
				return []Bound{{Lower: 0, Upper: 20}, {Lower: 0, Upper: 1}}
			},
		}
	case RFPositions:
		return group{kind: kind, affectsIntensity: true,
			get: func(p *CalculatedPattern) []float64 {
				atoms := p.structure.Atoms()
				v := make([]float64, 0, 3*len(atoms))
				for _, a := range atoms {
					v = append(v, a.Position[0], a.Position[1], a.Position[2])
				}
				return v
			},
			set: func(p *CalculatedPattern, v []float64) {
				orbits := p.symmetry.Orbits()
				for i := range orbits {
					if i*3+2 >= len(v) {
						break
					}
					pos := crystal.Vector3{v[i*3], v[i*3+1], v[i*3+2]}
					for _, sp := range orbits[i].SpecialPositions {
						pos = sp.Rotation.MulVec(pos.Sub(sp.Translation)).Add(sp.Translation)
					}
					pos = p.structure.MoveIntoCell(pos)
					p.structure.SetAtomPosition(i, pos)
				}
			},
			bounds: func(p *CalculatedPattern) []Bound {
				n := 3 * len(p.structure.Atoms())
				b := make([]Bound, n)
				for i := range b {
					b[i] = Bound{Lower: -1, Upper: 2}
				}
				return b
			},
		}
	case RFBFactors:
		return group{kind: kind, affectsIntensity: true,
			get: func(p *CalculatedPattern) []float64 { return append([]float64(nil), p.BFactors...) },
			set: func(p *CalculatedPattern, v []float64) { copy(p.BFactors, v) },
			bounds: func(p *CalculatedPattern) []Bound {
				b := make([]Bound, len(p.BFactors))
				for i := range b {
					b[i] = Bound{Lower: p.MinBFactor, Upper: p.MaxBFactor}
				}
				return b
			},
		}
	case RFTexture:
		return group{kind: kind, affectsIntensity: true,
			get: func(p *CalculatedPattern) []float64 {
				return []float64{p.PreferredOrientation[0], p.PreferredOrientation[1], p.PreferredOrientation[2]}
			},
			set: func(p *CalculatedPattern, v []float64) {
				p.PreferredOrientation = crystal.Vector3{v[0], v[1], v[2]}
			},
			bounds: func(p *CalculatedPattern) []Bound {
				b := Bound{Lower: -10, Upper: 10}
				return []Bound{b, b, b}
			},
		}
	case RFZeroShift:
		return group{kind: kind,
			get: func(p *CalculatedPattern) []float64 { return []float64{p.ZeroShift[5]} },
			set: func(p *CalculatedPattern, v []float64) { p.ZeroShift[5] = v[0] },
			bounds: func(p *CalculatedPattern) []Bound {
				return []Bound{{Lower: -0.1, Upper: 0.1}}
			},
		}
	default:
		return group{kind: kind}
	}
}

// packed holds the flattened vector, bounds, and the groups (in order)
// needed to unpack a result back into the pattern.
type packed struct {
	x      []float64
	bounds []Bound
	spans  []struct {
		g     group
		start int
		n     int
	}
}

func pack(p *CalculatedPattern, active []RefinementParameterKind) packed {
	set := make(map[RefinementParameterKind]bool, len(active))
	for _, k := range active {
		set[k] = true
	}

	var result packed
	for _, kind := range canonicalOrder {
		if !set[kind] {
			continue
		}
		g := groupFor(kind)
		vals := g.get(p)
		bounds := g.bounds(p)
		start := len(result.x)
		result.x = append(result.x, vals...)
		result.bounds = append(result.bounds, bounds...)
		result.spans = append(result.spans, struct {
			g     group
			start int
			n     int
		}{g, start, len(vals)})
	}
	return result
}

func (pk packed) unpack(p *CalculatedPattern, x []float64) error {
	needIntensity := false
	needPosition := false
	for _, span := range pk.spans {
		span.g.set(p, x[span.start:span.start+span.n])
		if span.g.affectsIntensity {
			needIntensity = true
		}
		if span.g.affectsPosition {
			needPosition = true
		}
	}
	if needPosition {
		p.updatePeakPositions()
	}
	if needIntensity || needPosition {
		if err := p.updateIntensities(); err != nil {
			return err
		}
	}
	return nil
}

// runRefinement runs one box-constrained BFGS refinement over exactly the
// given active kinds, with objective the DRSquared metric against matched
// reference peaks (integrated mode) or objective supplied directly
// (Rietveld mode, via runRefinementWithObjective).
func runRefinement(p *CalculatedPattern, active []RefinementParameterKind, reference []MeasuredPeak) error {
	objective := func(x []float64) float64 {
		pk := pack(p, active)
		_ = pk.unpack(p, x)
		match := MatchPeaks(p.Reflections, reference)
		return RSquared(p.Reflections, reference, match, p.OptimalScale)
	}
	return runRefinementWithObjective(p, active, objective)
}

// runRefinementWithObjective packs active, minimizes objective with
// BoxConstrainedBFGS, and writes the optimum back into p.
func runRefinementWithObjective(p *CalculatedPattern, active []RefinementParameterKind, objective func([]float64) float64) error {
	pk := pack(p, active)
	if len(pk.x) == 0 {
		return nil
	}
	xOpt, _, err := BoxConstrainedBFGS(objective, pk.x, pk.bounds)
	if err != nil {
		return &Failure{Category: CategoryProcessing, Message: err.Error()}
	}
	return pk.unpack(p, xOpt)
}

// RunIntegratedRefinement implements spec.md §4.5's "Integrated
// (non-Rietveld) schedule": match peaks once, then optionally refine
// POSITIONS, then optionally additionally enable BFACTORS.
func RunIntegratedRefinement(p *CalculatedPattern, reference []MeasuredPeak, refinePositions, refineBFactors bool) (rFactor float64, err error) {
	match := MatchPeaks(p.Reflections, reference)
	p.OptimalScale = OptimalScaleSquared(p.Reflections, reference, match)

	var active []RefinementParameterKind
	if refinePositions {
		active = append(active, RFPositions)
		if err := runRefinement(p, active, reference); err != nil {
			return 0, err
		}
	}
	if refineBFactors {
		active = append(active, RFBFactors)
		if err := runRefinement(p, active, reference); err != nil {
			return 0, err
		}
	}

	match = MatchPeaks(p.Reflections, reference)
	p.OptimalScale = OptimalScaleAbs(p.Reflections, reference, match)
	return RAbs(p.Reflections, reference, match, p.OptimalScale), nil
}

// RunRietveldRefinement implements spec.md §4.5's staged Rietveld
// schedule. Each stage toggles one new parameter kind, refines with just
// that kind active, then refines again with everything toggled so far —
// preserving the duplicated runRefinement calls verbatim per spec.md §9
// Open Question (a). refinePositions and refineBFactors gate the
// optional final stages.
func RunRietveldRefinement(p *CalculatedPattern, angles []float64, refIntensity []float64, refinePositions, refineBFactors bool, cfg enginecfg.Config) (rFactor float64, aborted bool, err error) {
	var active []RefinementParameterKind

	rietveldObjective := func(forKinds []RefinementParameterKind) func([]float64) float64 {
		return func(x []float64) float64 {
			pk := pack(p, forKinds)
			_ = pk.unpack(p, x)
			calc := p.IntensityAt(angles)
			return ProfileRietveldResidual(refIntensity, calc, 1)
		}
	}

	stage := func(kind RefinementParameterKind) error {
		alone := []RefinementParameterKind{kind}
		if err := runRefinementWithObjective(p, alone, rietveldObjective(alone)); err != nil {
			return err
		}
		active = append(active, kind)
		return runRefinementWithObjective(p, active, rietveldObjective(active))
	}

	maxIntensity := maxOf(refIntensity)
	calcMax := maxOf(p.IntensityAt(angles))
	if calcMax > 0 {
		p.OptimalScale = maxIntensity / calcMax
	} else {
		p.OptimalScale = 1
	}
	if err := stage(RFScale); err != nil {
		return 0, false, err
	}

	if err := stage(RFSpecDisp); err != nil {
		return 0, false, err
	}

	initializeBackground(p, angles, refIntensity)
	if err := stage(RFBackground); err != nil {
		return 0, false, err
	}

	if p.MaxLatChange > 0 {
		if err := stage(RFBasis); err != nil {
			return 0, false, err
		}
	}

	initializeWFactor(p, angles, refIntensity)
	if err := stage(RFWFactor); err != nil {
		return 0, false, err
	}

	r := profileRAbs(p, angles, refIntensity, cfg)
	cfg.Logf("refinement: R after WFACTOR stage = %.4f", r)
	if r > cfg.DivergenceThreshold {
		return r, true, nil
	}

	if refinePositions {
		if err := stage(RFPositions); err != nil {
			return 0, false, err
		}
	}

	if err := stage(RFTexture); err != nil {
		return 0, false, err
	}

	if refineBFactors {
		if err := stage(RFBFactors); err != nil {
			return 0, false, err
		}
	}

	if err := stage(RFUVFactors); err != nil {
		return 0, false, err
	}

	if err := stage(RFZeroShift); err != nil {
		return 0, false, err
	}

	return profileRAbs(p, angles, refIntensity, cfg), false, nil
}

func profileRAbs(p *CalculatedPattern, angles, refIntensity []float64, cfg enginecfg.Config) float64 {
	kind := BackgroundLaurent
	if p.UseChebyshev {
		kind = BackgroundChebyshev
	}
	background := make([]float64, len(angles))
	for i, a := range angles {
		background[i] = p.OptimalScale * BackgroundAt(kind, p.BackgroundCoeffs, a, p.minTwoTheta, p.maxTwoTheta, p.BackgroundPolyStart)
	}
	calc := p.PeaksOnlyAt(angles)
	r := ProfileAbsResidual(refIntensity, background, calc, p.OptimalScale)
	_ = cfg
	return r
}

func maxOf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

// initializeBackground seeds BackgroundCoeffs by least-squares fit of the
// chosen background basis to (angle, I_ref) samples at least W/100 away
// from any peak center, per spec.md §4.5 stage 3. If fewer than
// 100*NumBackground samples remain, the coefficients are left at zero.
func initializeBackground(p *CalculatedPattern, angles, refIntensity []float64) {
	w := p.maxTwoTheta - p.minTwoTheta
	minDist := w / 100

	var sampleAngles, sampleIntensity []float64
	for i, a := range angles {
		farEnough := true
		for _, r := range p.Reflections {
			if math.Abs(a-r.TwoThetaDeg) < minDist {
				farEnough = false
				break
			}
		}
		if farEnough {
			sampleAngles = append(sampleAngles, a)
			sampleIntensity = append(sampleIntensity, refIntensity[i])
		}
	}

	if len(sampleAngles) < 100*p.NumBackground {
		for i := range p.BackgroundCoeffs {
			p.BackgroundCoeffs[i] = 0
		}
		return
	}

	kind := BackgroundLaurent
	if p.UseChebyshev {
		kind = BackgroundChebyshev
	}
	p.BackgroundCoeffs = FitBackgroundLeastSquares(kind, sampleAngles, sampleIntensity, p.NumBackground, p.minTwoTheta, p.maxTwoTheta, p.BackgroundPolyStart)
}

// initializeWFactor seeds W by scanning the reference for half-max
// crossings around each reflection and averaging the implied FWHM, per
// spec.md §4.5 stage 5, clamped to <= 1.
func initializeWFactor(p *CalculatedPattern, angles, refIntensity []float64) {
	if len(p.Reflections) == 0 {
		return
	}
	var widths []float64
	for _, r := range p.Reflections {
		width := halfMaxWidth(angles, refIntensity, r.TwoThetaDeg)
		if width > 0 {
			widths = append(widths, width)
		}
	}
	if len(widths) == 0 {
		p.W = 0.01
		return
	}
	avg := stat.Mean(widths, nil)
	if avg > 1 {
		avg = 1
	}
	p.W = avg
}

// halfMaxWidth estimates the FWHM around center by walking outward from
// the nearest grid point until intensity drops below half the local peak
// value.
func halfMaxWidth(angles, intensity []float64, center float64) float64 {
	bestIdx := -1
	bestDelta := math.Inf(1)
	for i, a := range angles {
		d := math.Abs(a - center)
		if d < bestDelta {
			bestDelta = d
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0
	}
	peak := intensity[bestIdx]
	if peak <= 0 {
		return 0
	}
	half := peak / 2

	left := bestIdx
	for left > 0 && intensity[left] > half {
		left--
	}
	right := bestIdx
	for right < len(angles)-1 && intensity[right] > half {
		right++
	}
	return angles[right] - angles[left]
}
