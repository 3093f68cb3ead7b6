// Command xrdpattern computes a calculated powder diffraction pattern for
// one of the engine's worked-example structures and writes the dense
// (2theta, intensity) profile in the engine's text format, following the
// flag-driven, fmt.Printf/os.Exit(1) style of the teacher's cmd/fuse tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"xrdengine-go/elements"
	"xrdengine-go/enginecfg"
	"xrdengine-go/engine"
	"xrdengine-go/expdata"
	"xrdengine-go/presets"
)

func main() {
	preset := flag.String("preset", presets.FCCAluminium, "structure preset: fcc-al, rocksalt-nacl, diamond-si")
	a := flag.Float64("a", 4.05, "cubic lattice parameter in angstroms")
	wavelength := flag.Float64("wavelength", 1.5406, "radiation wavelength in angstroms (Cu K-alpha default)")
	minTwoTheta := flag.Float64("min2theta", 10.0, "lower 2theta bound in degrees")
	maxTwoTheta := flag.Float64("max2theta", 90.0, "upper 2theta bound in degrees")
	step := flag.Float64("step", 0.02, "2theta sampling step in degrees")
	method := flag.String("method", "xray", "scattering method: xray, neutron, or simple")
	u := flag.Float64("u", 0.0, "Caglioti U coefficient (tan^2 theta term)")
	v := flag.Float64("v", 0.0, "Caglioti V coefficient (tan theta term)")
	w := flag.Float64("w", 0.01, "Caglioti W coefficient (constant term, sets the instrumental FWHM floor)")
	listReflections := flag.Bool("reflections", false, "print the enumerated reflection list instead of the dense profile")
	outPath := flag.String("out", "", "output path for the dense profile (stdout if empty)")
	verbose := flag.Bool("verbose", false, "log stage diagnostics")
	flag.Parse()

	m, err := parseMethod(*method)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	structure, symmetry, err := presets.Build(*preset, *a)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg := enginecfg.Default()
	cfg.Verbose = *verbose

	pattern := engine.NewCalculatedPattern(cfg, elements.NewTable())
	if err := pattern.SetStructure(structure, symmetry, m, *wavelength, *minTwoTheta, *maxTwoTheta); err != nil {
		fmt.Printf("set structure failed: %v\n", err)
		os.Exit(1)
	}
	pattern.U, pattern.V, pattern.W = *u, *v, *w

	if *listReflections {
		printReflections(pattern)
		return
	}

	n := int((*maxTwoTheta-*minTwoTheta)/(*step)) + 1
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = *minTwoTheta + float64(i)**step
	}
	intensity := pattern.IntensityAt(angles)

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Printf("create output failed: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	p := expdata.FromArrays(*wavelength, angles, intensity)
	if err := expdata.Write(out, p); err != nil {
		fmt.Printf("write output failed: %v\n", err)
		os.Exit(1)
	}
}

func parseMethod(s string) (engine.Method, error) {
	switch s {
	case "xray":
		return engine.MethodXRay, nil
	case "neutron":
		return engine.MethodNeutron, nil
	case "simple":
		return engine.MethodSimple, nil
	default:
		return engine.MethodNone, fmt.Errorf("unknown method %q (want xray, neutron, or simple)", s)
	}
}

func printReflections(pattern *engine.CalculatedPattern) {
	fmt.Printf("%-12s %-8s %10s %10s %14s %6s\n", "hkl", "mult", "2theta", "LP", "intensity", "absent")
	for _, r := range pattern.Reflections {
		fmt.Printf("%2.0f %2.0f %2.0f     %4d %10.4f %10.4f %14.4f %6t\n",
			r.HKL[0], r.HKL[1], r.HKL[2], r.Multiplicity, r.TwoThetaDeg, r.LPFactor, r.Intensity, r.SystematicAbsence)
	}
}
