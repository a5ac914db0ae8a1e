package domain

import "time"

// PlayerStatsSnapshot is one day's recorded statistics for a player in one
// ruleset, used for "compare with N days ago" style reporting.
type PlayerStatsSnapshot struct {
	PlayerID int64
	Ruleset  Ruleset
	Date     time.Time // date precision, UTC

	PP              float64
	GlobalRank      *int
	CountryRank     *int
	Accuracy        float64
	PlayCount       int
	PlayTimeSeconds int64
	TotalHits       int64
}
