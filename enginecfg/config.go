// Package enginecfg holds per-engine configuration. It replaces the
// DIFFRACTION_EXCESSIVE_PRINTING global debug switch from the original
// implementation with a struct field, per spec.md §9's design note.
package enginecfg

import "log"

// Config controls verbosity and the few numeric thresholds spec.md leaves
// as implementation-defined heuristics.
type Config struct {
	// Verbose, when true, makes the engine log the R factor reached after
	// the Rietveld WFACTOR stage through Logger; stage transitions and
	// systematic-absence flags are not logged.
	Verbose bool

	// Logger receives verbose output; defaults to log.Default() when nil.
	Logger *log.Logger

	// DivergenceThreshold is the R factor above which the Rietveld staged
	// schedule aborts after the WFACTOR stage (spec.md §4.5 step 6, §9
	// Open Question (b)).
	DivergenceThreshold float64
}

// Default returns the configuration the original implementation used:
// quiet, with the 0.9 divergence guard.
func Default() Config {
	return Config{
		Verbose:             false,
		DivergenceThreshold: 0.9,
	}
}

func (c Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// Logf logs through the configured logger only when Verbose is set.
func (c Config) Logf(format string, args ...any) {
	if !c.Verbose {
		return
	}
	c.logger().Printf(format, args...)
}
