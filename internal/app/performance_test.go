package app_test

import (
	"context"
	"math"
	"testing"

	"github.com/hitcircle/hitcircle-api/internal/adapters/cache"
	"github.com/hitcircle/hitcircle-api/internal/adapters/difficulty"
	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/domaintest"
	"github.com/stretchr/testify/require"
)

type mockModel struct {
	t *testing.T

	calls      []difficulty.Params
	attributes []domain.PerformanceAttributes
	err        error
}

func (m *mockModel) Calculate(ctx context.Context, beatmap []byte, params difficulty.Params) (domain.PerformanceAttributes, error) {
	m.t.Helper()

	m.calls = append(m.calls, params)
	if m.err != nil {
		return domain.PerformanceAttributes{}, m.err
	}

	require.NotEmpty(m.t, m.attributes)
	attributes := m.attributes[0]
	if len(m.attributes) > 1 {
		m.attributes = m.attributes[1:]
	}
	return attributes, nil
}

func TestScoreDifficultyParamsPerRuleset(t *testing.T) {
	t.Parallel()

	statistics := domain.HitStatistics{
		Great:        100,
		Ok:           20,
		Meh:          5,
		Miss:         2,
		GoodExtra:    30,
		PerfectExtra: 40,
	}

	cases := []struct {
		name    string
		ruleset domain.Ruleset

		wantCombo        bool
		wantMeh          bool
		wantGoodExtra    bool
		wantPerfectExtra bool
	}{
		{name: "osu", ruleset: domain.RulesetOsu, wantCombo: true, wantMeh: true},
		{name: "taiko", ruleset: domain.RulesetTaiko, wantCombo: true},
		{name: "catch", ruleset: domain.RulesetCatch, wantCombo: true, wantPerfectExtra: true},
		{name: "mania", ruleset: domain.RulesetMania, wantMeh: true, wantGoodExtra: true, wantPerfectExtra: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			model := &mockModel{t: t, attributes: []domain.PerformanceAttributes{{PP: 123}}}
			computeScorePerformance := app.BuildComputeScorePerformance(model)

			score := domaintest.NewScoreBuilder(42).
				WithRuleset(tc.ruleset).
				WithAccuracy(0.975).
				WithMaxCombo(567).
				WithStatistics(statistics).
				Build()

			result, err := computeScorePerformance(context.Background(), score, []byte("beatmap"))
			require.NoError(t, err)
			require.Equal(t, 123.0, result.PP)

			require.Len(t, model.calls, 1)
			params := model.calls[0]

			require.Equal(t, tc.ruleset, params.Ruleset)
			require.InDelta(t, 97.5, params.Accuracy, 1e-9)

			require.NotNil(t, params.Great)
			require.Equal(t, 100, *params.Great)
			require.NotNil(t, params.Ok)
			require.Equal(t, 20, *params.Ok)
			require.NotNil(t, params.Miss)
			require.Equal(t, 2, *params.Miss)

			if tc.wantCombo {
				require.NotNil(t, params.Combo)
				require.Equal(t, 567, *params.Combo)
			} else {
				require.Nil(t, params.Combo)
			}
			if tc.wantMeh {
				require.NotNil(t, params.Meh)
				require.Equal(t, 5, *params.Meh)
			} else {
				require.Nil(t, params.Meh)
			}
			if tc.wantGoodExtra {
				require.NotNil(t, params.GoodExtra)
				require.Equal(t, 30, *params.GoodExtra)
			} else {
				require.Nil(t, params.GoodExtra)
			}
			if tc.wantPerfectExtra {
				require.NotNil(t, params.PerfectExtra)
				require.Equal(t, 40, *params.PerfectExtra)
			} else {
				require.Nil(t, params.PerfectExtra)
			}
		})
	}
}

func TestComputeHypotheticalPerformanceFoldsMisses(t *testing.T) {
	t.Parallel()

	model := &mockModel{t: t, attributes: []domain.PerformanceAttributes{{PP: 400}, {PP: 500}}}
	computeHypotheticalPerformance := app.BuildComputeHypotheticalPerformance(model)

	score := domaintest.NewScoreBuilder(42).
		WithStatistics(domain.HitStatistics{Great: 100, Ok: 10, Miss: 3}).
		WithMaxCombo(250).
		Build()

	hypothetical, err := computeHypotheticalPerformance(context.Background(), score, []byte("beatmap"))
	require.NoError(t, err)

	require.True(t, hypothetical.Applicable)
	require.Equal(t, 400.0, hypothetical.IfFullComboPP)
	require.Equal(t, 500.0, hypothetical.PerfectPP)

	require.Len(t, model.calls, 2)

	fullCombo := model.calls[0]
	require.NotNil(t, fullCombo.Great)
	require.Equal(t, 103, *fullCombo.Great)
	require.Nil(t, fullCombo.Miss)
	require.Nil(t, fullCombo.Combo)

	perfect := model.calls[1]
	require.InDelta(t, 100.0, perfect.Accuracy, 1e-9)
	require.Nil(t, perfect.Great)
	require.Nil(t, perfect.Miss)
}

func TestComputeHypotheticalPerformanceNotApplicable(t *testing.T) {
	t.Parallel()

	for _, pp := range []float64{math.NaN(), math.Inf(1)} {
		model := &mockModel{t: t, attributes: []domain.PerformanceAttributes{{PP: pp}, {PP: 500}}}
		computeHypotheticalPerformance := app.BuildComputeHypotheticalPerformance(model)

		score := domaintest.NewScoreBuilder(42).
			WithStatistics(domain.HitStatistics{Great: 100, Miss: 1}).
			Build()

		hypothetical, err := computeHypotheticalPerformance(context.Background(), score, []byte("beatmap"))
		require.NoError(t, err)

		require.False(t, hypothetical.Applicable)
		require.Zero(t, hypothetical.IfFullComboPP)
		require.Zero(t, hypothetical.PerfectPP)
	}
}

func TestComputeHypotheticalPerformanceDoesNotMutateScore(t *testing.T) {
	t.Parallel()

	model := &mockModel{t: t, attributes: []domain.PerformanceAttributes{{PP: 400}, {PP: 500}}}
	computeHypotheticalPerformance := app.BuildComputeHypotheticalPerformance(model)

	score := domaintest.NewScoreBuilder(42).
		WithStatistics(domain.HitStatistics{Great: 100, Miss: 3}).
		Build()

	_, err := computeHypotheticalPerformance(context.Background(), score, []byte("beatmap"))
	require.NoError(t, err)

	require.Equal(t, 100, score.Statistics.Great)
	require.Equal(t, 3, score.Statistics.Miss)
}

func TestComputePerfectPerformanceCachesPerBeatmapAndMods(t *testing.T) {
	t.Parallel()

	model := &mockModel{t: t, attributes: []domain.PerformanceAttributes{{PP: 800}}}
	attributeCache := cache.NewBasicCache[domain.PerformanceAttributes]()
	computePerfectPerformance := app.BuildComputePerfectPerformance(attributeCache, model)

	ctx := context.Background()

	first, err := computePerfectPerformance(ctx, 42, []byte("beatmap"), domain.RulesetOsu, []string{"HD", "DT"})
	require.NoError(t, err)
	require.Equal(t, 800.0, first.PP)

	// Mod order must not miss the cache
	second, err := computePerfectPerformance(ctx, 42, []byte("beatmap"), domain.RulesetOsu, []string{"DT", "HD"})
	require.NoError(t, err)
	require.Equal(t, 800.0, second.PP)

	require.Len(t, model.calls, 1)

	// A different beatmap is a different entry
	_, err = computePerfectPerformance(ctx, 43, []byte("beatmap"), domain.RulesetOsu, []string{"HD", "DT"})
	require.NoError(t, err)
	require.Len(t, model.calls, 2)
}
