package domain

// PerformanceAttributes is the raw output of the difficulty model for one
// (beatmap, mods, statistics) combination.
type PerformanceAttributes struct {
	PP       float64
	Stars    float64
	MaxCombo int

	// Skill decomposition, populated for the osu ruleset only
	AimPP        float64
	SpeedPP      float64
	AccuracyPP   float64
	FlashlightPP float64
}

// PerformanceResult is the computed performance of one play.
type PerformanceResult struct {
	PP    float64
	Stars float64

	AimPP        float64
	SpeedPP      float64
	AccuracyPP   float64
	FlashlightPP float64
}

// HypotheticalPerformance holds the "if full combo" and "SS" recomputations
// for a play. Applicable is false when the difficulty model cannot represent
// a synthetic full combo for the ruleset (e.g. catch), in which case the pp
// values must not be used.
type HypotheticalPerformance struct {
	Applicable    bool
	IfFullComboPP float64
	PerfectPP     float64
}
