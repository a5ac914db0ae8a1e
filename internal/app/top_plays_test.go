package app_test

import (
	"testing"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/stretchr/testify/require"
)

func TestComputeTopPlayBreakdown(t *testing.T) {
	t.Parallel()

	plays := []app.TopPlay{
		{PP: 300, Mods: []string{"DT", "HD"}, MapperID: 1},
		{PP: 400, MapperID: 2},
		{PP: 200, Mods: []string{"HD", "DT"}, MapperID: 1},
	}

	breakdown := app.ComputeTopPlayBreakdown(plays)

	// Ranked by pp: 400, 300, 200
	expectedTotal := 400.0 + 300*0.95 + 200*0.95*0.95
	require.InDelta(t, expectedTotal, breakdown.WeightedTotal, 1e-9)

	// Mod order does not split the group
	require.Len(t, breakdown.ByMods, 2)
	require.InDelta(t, 300*0.95+200*0.95*0.95, breakdown.ByMods["DTHD"], 1e-9)
	require.InDelta(t, 400.0, breakdown.ByMods["NM"], 1e-9)

	require.Len(t, breakdown.ByMapper, 2)
	require.InDelta(t, 300*0.95+200*0.95*0.95, breakdown.ByMapper[1], 1e-9)
	require.InDelta(t, 400.0, breakdown.ByMapper[2], 1e-9)
}

func TestComputeTopPlayBreakdownGroupTotalsMatch(t *testing.T) {
	t.Parallel()

	plays := []app.TopPlay{
		{PP: 500, Mods: []string{"HR"}, MapperID: 1},
		{PP: 450, MapperID: 2},
		{PP: 425, Mods: []string{"HD"}, MapperID: 3},
		{PP: 300, Mods: []string{"HR"}, MapperID: 1},
	}

	breakdown := app.ComputeTopPlayBreakdown(plays)

	modTotal := 0.0
	for _, weighted := range breakdown.ByMods {
		modTotal += weighted
	}
	mapperTotal := 0.0
	for _, weighted := range breakdown.ByMapper {
		mapperTotal += weighted
	}

	require.InDelta(t, breakdown.WeightedTotal, modTotal, 1e-9)
	require.InDelta(t, breakdown.WeightedTotal, mapperTotal, 1e-9)
}

func TestComputeTopPlayBreakdownEmpty(t *testing.T) {
	t.Parallel()

	breakdown := app.ComputeTopPlayBreakdown(nil)
	require.Zero(t, breakdown.WeightedTotal)
	require.Empty(t, breakdown.ByMods)
	require.Empty(t, breakdown.ByMapper)
}
