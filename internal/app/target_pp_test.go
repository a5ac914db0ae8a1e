package app_test

import (
	"sort"
	"testing"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/stretchr/testify/require"
)

func fullTopPlays(value float64) []float64 {
	plays := make([]float64, app.TopPlayCount)
	for i := range plays {
		plays[i] = value
	}
	return plays
}

func TestFindOptimalNewPPShortList(t *testing.T) {
	t.Parallel()

	// Fewer ranked plays than the weighting window: nothing gets evicted and
	// the desired increase is returned directly
	newPP, rank := app.FindOptimalNewPP([]float64{300, 200, 100}, 50)
	require.Equal(t, 50.0, newPP)
	require.Equal(t, 4, rank)

	newPP, rank = app.FindOptimalNewPP([]float64{300, 200, 100}, 250)
	require.Equal(t, 250.0, newPP)
	require.Equal(t, 2, rank)

	newPP, rank = app.FindOptimalNewPP(nil, 25)
	require.Equal(t, 25.0, newPP)
	require.Equal(t, 1, rank)
}

func TestFindOptimalNewPPUniformList(t *testing.T) {
	t.Parallel()

	// With 100 equal plays the new play enters at rank 1, evicts one copy,
	// and the total rises by exactly newPP - 200
	newPP, rank := app.FindOptimalNewPP(fullTopPlays(200), 10)
	require.Equal(t, 1, rank)
	require.GreaterOrEqual(t, newPP, 210.0-1e-9)
	require.LessOrEqual(t, newPP, 210.0+2*app.SolverTolerance)
}

func TestFindOptimalNewPPRaisesTotalByDesiredIncrease(t *testing.T) {
	t.Parallel()

	plays := make([]float64, app.TopPlayCount)
	for i := range plays {
		plays[i] = 400 - float64(i)
	}
	currentTotal := app.WeightedTotal(plays)

	for _, desiredIncrease := range []float64{5, 10, 50} {
		newPP, rank := app.FindOptimalNewPP(plays, desiredIncrease)

		require.GreaterOrEqual(t, rank, 1)
		require.LessOrEqual(t, rank, app.TopPlayCount)

		// Recompute the total with the found play inserted and the worst
		// play evicted
		withNew := make([]float64, 0, app.TopPlayCount+1)
		withNew = append(withNew, plays...)
		withNew = append(withNew, newPP)
		sort.Sort(sort.Reverse(sort.Float64Slice(withNew)))
		total := app.WeightedTotal(withNew[:app.TopPlayCount])

		require.GreaterOrEqual(t, total-currentTotal, desiredIncrease-1e-6)
	}
}

func TestFindOptimalNewPPMonotonicInDesiredIncrease(t *testing.T) {
	t.Parallel()

	plays := make([]float64, app.TopPlayCount)
	for i := range plays {
		plays[i] = 400 - float64(i)
	}

	previous := 0.0
	for _, desiredIncrease := range []float64{1, 5, 10, 25, 50, 100} {
		newPP, _ := app.FindOptimalNewPP(plays, desiredIncrease)
		require.GreaterOrEqual(t, newPP, previous)
		previous = newPP
	}
}

func TestWeightedTotal(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, app.WeightedTotal(nil))
	require.InDelta(t, 100.0, app.WeightedTotal([]float64{100}), 1e-9)
	require.InDelta(t, 100+95+0.95*0.95*100, app.WeightedTotal([]float64{100, 100, 100}), 1e-9)
}
