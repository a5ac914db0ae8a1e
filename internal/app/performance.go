package app

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hitcircle/hitcircle-api/internal/adapters/cache"
	"github.com/hitcircle/hitcircle-api/internal/adapters/difficulty"
	"github.com/hitcircle/hitcircle-api/internal/domain"
)

// scoreDifficultyParams maps a score's hit statistics to difficulty model
// input. Each ruleset feeds a fixed subset of the judgment counts to the
// model; this table is part of the public contract.
func scoreDifficultyParams(score domain.Score) difficulty.Params {
	stats := score.Statistics
	params := difficulty.Params{
		Ruleset:  score.Ruleset,
		Mods:     score.Mods,
		Accuracy: score.Accuracy * 100,
		Great:    intPtr(stats.Great),
		Ok:       intPtr(stats.Ok),
		Miss:     intPtr(stats.Miss),
	}

	switch score.Ruleset {
	case domain.RulesetOsu:
		params.Meh = intPtr(stats.Meh)
		params.Combo = intPtr(score.MaxCombo)
	case domain.RulesetTaiko:
		params.Combo = intPtr(score.MaxCombo)
	case domain.RulesetCatch:
		params.PerfectExtra = intPtr(stats.PerfectExtra)
		params.Combo = intPtr(score.MaxCombo)
	case domain.RulesetMania:
		params.Meh = intPtr(stats.Meh)
		params.GoodExtra = intPtr(stats.GoodExtra)
		params.PerfectExtra = intPtr(stats.PerfectExtra)
		// Mania pp does not depend on combo
	}

	return params
}

func intPtr(value int) *int {
	return &value
}

func resultFromAttributes(attributes domain.PerformanceAttributes) domain.PerformanceResult {
	return domain.PerformanceResult{
		PP:           attributes.PP,
		Stars:        attributes.Stars,
		AimPP:        attributes.AimPP,
		SpeedPP:      attributes.SpeedPP,
		AccuracyPP:   attributes.AccuracyPP,
		FlashlightPP: attributes.FlashlightPP,
	}
}

type ComputeScorePerformance func(ctx context.Context, score domain.Score, beatmap []byte) (domain.PerformanceResult, error)

func BuildComputeScorePerformance(model difficulty.Model) ComputeScorePerformance {
	return func(ctx context.Context, score domain.Score, beatmap []byte) (domain.PerformanceResult, error) {
		attributes, err := model.Calculate(ctx, beatmap, scoreDifficultyParams(score))
		if err != nil {
			return domain.PerformanceResult{}, fmt.Errorf("failed to compute performance attributes: %w", err)
		}
		return resultFromAttributes(attributes), nil
	}
}

type ComputeHypotheticalPerformance func(ctx context.Context, score domain.Score, beatmap []byte) (domain.HypotheticalPerformance, error)

// BuildComputeHypotheticalPerformance recomputes a play as if all misses had
// been the best judgment (full combo) and as if accuracy were 100% (SS).
// When the model cannot represent a synthetic full combo for the ruleset it
// returns a non-finite pp value; both outputs are then marked not
// applicable instead of surfacing the NaN.
func BuildComputeHypotheticalPerformance(model difficulty.Model) ComputeHypotheticalPerformance {
	return func(ctx context.Context, score domain.Score, beatmap []byte) (domain.HypotheticalPerformance, error) {
		params := scoreDifficultyParams(score)
		*params.Great += *params.Miss
		params.Miss = nil
		params.Combo = nil

		fcAttributes, err := model.Calculate(ctx, beatmap, params)
		if err != nil {
			return domain.HypotheticalPerformance{}, fmt.Errorf("failed to compute full-combo attributes: %w", err)
		}

		ssAttributes, err := model.Calculate(ctx, beatmap, difficulty.Params{
			Ruleset:  score.Ruleset,
			Mods:     score.Mods,
			Accuracy: 100,
		})
		if err != nil {
			return domain.HypotheticalPerformance{}, fmt.Errorf("failed to compute perfect attributes: %w", err)
		}

		if math.IsNaN(fcAttributes.PP) || math.IsInf(fcAttributes.PP, 0) {
			return domain.HypotheticalPerformance{Applicable: false}, nil
		}

		return domain.HypotheticalPerformance{
			Applicable:    true,
			IfFullComboPP: fcAttributes.PP,
			PerfectPP:     ssAttributes.PP,
		}, nil
	}
}

type ComputePerfectPerformance func(ctx context.Context, beatmapID int64, beatmap []byte, ruleset domain.Ruleset, mods []string) (domain.PerformanceResult, error)

// BuildComputePerfectPerformance computes the SS reference ceiling for a
// beatmap+mods combination. Results are cached per (beatmap, mods, ruleset)
// since they don't depend on any played score.
func BuildComputePerfectPerformance(attributeCache cache.Cache[domain.PerformanceAttributes], model difficulty.Model) ComputePerfectPerformance {
	return func(ctx context.Context, beatmapID int64, beatmap []byte, ruleset domain.Ruleset, mods []string) (domain.PerformanceResult, error) {
		key := perfectAttributesCacheKey(beatmapID, ruleset, mods)
		attributes, _, err := cache.GetOrCreate(ctx, attributeCache, key, func() (domain.PerformanceAttributes, error) {
			return model.Calculate(ctx, beatmap, difficulty.Params{
				Ruleset:  ruleset,
				Mods:     mods,
				Accuracy: 100,
			})
		})
		if err != nil {
			return domain.PerformanceResult{}, fmt.Errorf("failed to compute perfect attributes: %w", err)
		}
		return resultFromAttributes(attributes), nil
	}
}

func perfectAttributesCacheKey(beatmapID int64, ruleset domain.Ruleset, mods []string) string {
	sortedMods := make([]string, len(mods))
	copy(sortedMods, mods)
	slices.Sort(sortedMods)
	return fmt.Sprintf("%d:%s:%s", beatmapID, ruleset, strings.Join(sortedMods, ""))
}
