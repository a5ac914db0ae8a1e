package app

import (
	"math"
	"sort"
	"strings"
)

// TopPlay is one entry of a player's best-plays list.
type TopPlay struct {
	PP       float64
	Mods     []string
	MapperID int64
}

// TopPlayBreakdown groups the weighted pp of a best-plays list by mod
// combination and by mapper. Weights follow the ranked-performance decay, so
// the breakdown reflects each group's contribution to the player's total pp.
type TopPlayBreakdown struct {
	WeightedTotal float64
	ByMods        map[string]float64
	ByMapper      map[int64]float64
}

func modKey(mods []string) string {
	if len(mods) == 0 {
		return "NM"
	}
	sorted := make([]string, len(mods))
	copy(sorted, mods)
	sort.Strings(sorted)
	return strings.Join(sorted, "")
}

// ComputeTopPlayBreakdown weights plays by rank before grouping. The input
// order is ignored, plays are ranked by pp descending.
func ComputeTopPlayBreakdown(plays []TopPlay) TopPlayBreakdown {
	ranked := make([]TopPlay, len(plays))
	copy(ranked, plays)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PP > ranked[j].PP
	})

	breakdown := TopPlayBreakdown{
		ByMods:   map[string]float64{},
		ByMapper: map[int64]float64{},
	}

	for rank, play := range ranked {
		weighted := play.PP * math.Pow(WeightDecayBase, float64(rank))
		breakdown.WeightedTotal += weighted
		breakdown.ByMods[modKey(play.Mods)] += weighted
		breakdown.ByMapper[play.MapperID] += weighted
	}

	return breakdown
}
