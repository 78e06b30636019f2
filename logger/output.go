package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Command results, errors with hints
//	1 (-v)      - + One line per written unit, run summary
//	2 (-vv)     - + Effective configuration, per-class binding counts
//	3 (-vvv)    - + Layout gap transitions and omitted functions
//	4 (-vvvv)   - + Full generated unit text

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 1 (-v) - Informational
	OutputUnits   OutputCategory = iota // One line per written or pruned unit
	OutputSummary // Totals for the run

	// Level 2 (-vv) - Detailed
	OutputConfig   // Config values loaded/applied
	OutputBindings // Per-class binding status counts

	// Level 3 (-vvv) - Debug
	OutputLayout // Gap transitions, omitted special members

	// Level 4 (-vvvv) - Full dump
	OutputUnitText // Generated header text
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputUnits:   VerbosityInfo,
	OutputSummary: VerbosityInfo,

	OutputConfig:   VerbosityDebug,
	OutputBindings: VerbosityDebug,

	OutputLayout: VerbosityTrace,

	OutputUnitText: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}
