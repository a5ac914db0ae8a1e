package domain

// HitStatistics holds the per-judgment hit counts of a play.
//
// Great/Ok/Meh/Miss are the 300/100/50/miss buckets shared by all rulesets.
// GoodExtra and PerfectExtra are the geki and katu counts, which only some
// rulesets feed into the difficulty model.
type HitStatistics struct {
	Great        int
	Ok           int
	Meh          int
	Miss         int
	GoodExtra    int
	PerfectExtra int
}

// Score is one play attempt as reported by the osu! API.
// Immutable once constructed.
type Score struct {
	Ruleset    Ruleset
	Accuracy   float64 // 0-1
	MaxCombo   int
	Statistics HitStatistics
	Mods       []string // mod acronyms, e.g. "HD", "DT"
	BeatmapID  int64
}
