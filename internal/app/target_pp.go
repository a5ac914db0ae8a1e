package app

import (
	"math"
	"slices"
)

// Policy constants for the ranked weighted total.
const (
	// WeightDecayBase is the geometric decay applied to the i-th best play.
	WeightDecayBase = 0.95
	// SolverTolerance is the step size of the target-pp binary search.
	SolverTolerance = 0.01
	// TopPlayCount is the number of top plays contributing to the total.
	TopPlayCount = 100
)

func sortDescending(pp []float64) []float64 {
	sorted := make([]float64, len(pp))
	copy(sorted, pp)
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	return sorted
}

// WeightedTotal computes the rank-weighted sum of a descending pp list.
func WeightedTotal(descendingPP []float64) float64 {
	total := 0.0
	for i, pp := range descendingPP {
		total += pp * math.Pow(WeightDecayBase, float64(i))
	}
	return total
}

// insertionRank is the 1-indexed rank the value would take when inserted
// into the descending list.
func insertionRank(descendingPP []float64, value float64) int {
	rank := 1
	for _, pp := range descendingPP {
		if pp > value {
			rank++
		}
	}
	return rank
}

// totalWithCandidate inserts the candidate into a copy of the top list,
// evicts the new minimum and recomputes the weighted total.
func totalWithCandidate(top []float64, candidate float64) float64 {
	working := make([]float64, 0, len(top)+1)
	working = append(working, top...)
	working = append(working, candidate)
	working = sortDescending(working)
	working = working[:len(working)-1]
	return WeightedTotal(working)
}

// FindOptimalNewPP finds the smallest pp value a new play must have for the
// player's weighted ranked total to rise by at least desiredIncrease, along
// with the rank the play would enter at (1-indexed).
//
// When the player has fewer than TopPlayCount ranked plays, no play gets
// evicted and the desired increase is returned as the new play value
// directly. This mirrors the reference behavior even though it conflates
// the target delta with the play's pp value.
func FindOptimalNewPP(currentPP []float64, desiredIncrease float64) (float64, int) {
	sorted := sortDescending(currentPP)

	if len(sorted) < TopPlayCount {
		return desiredIncrease, insertionRank(sorted, desiredIncrease)
	}

	top := sorted[:TopPlayCount]
	bp100 := top[TopPlayCount-1]
	currentTotal := WeightedTotal(top)

	low := bp100
	high := bp100 + desiredIncrease + 100
	best := high
	for low <= high {
		mid := (low + high) / 2
		delta := totalWithCandidate(top, mid) - currentTotal
		if delta >= desiredIncrease {
			best = mid
			high = mid - SolverTolerance
		} else {
			low = mid + SolverTolerance
		}
	}

	return best, insertionRank(top, best)
}
