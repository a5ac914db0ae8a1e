package domaintest

import (
	"github.com/hitcircle/hitcircle-api/internal/domain"
)

type scoreBuilder struct {
	score *domain.Score
}

func (sb *scoreBuilder) WithRuleset(ruleset domain.Ruleset) *scoreBuilder {
	sb.score.Ruleset = ruleset
	return sb
}

func (sb *scoreBuilder) WithAccuracy(accuracy float64) *scoreBuilder {
	sb.score.Accuracy = accuracy
	return sb
}

func (sb *scoreBuilder) WithMaxCombo(maxCombo int) *scoreBuilder {
	sb.score.MaxCombo = maxCombo
	return sb
}

func (sb *scoreBuilder) WithMods(mods ...string) *scoreBuilder {
	sb.score.Mods = mods
	return sb
}

func (sb *scoreBuilder) WithStatistics(statistics domain.HitStatistics) *scoreBuilder {
	sb.score.Statistics = statistics
	return sb
}

func (sb *scoreBuilder) WithMisses(misses int) *scoreBuilder {
	sb.score.Statistics.Miss = misses
	return sb
}

func (sb *scoreBuilder) Build() domain.Score {
	return *sb.score
}

func NewScoreBuilder(beatmapID int64) *scoreBuilder {
	score := &domain.Score{
		Ruleset:   domain.RulesetOsu,
		Accuracy:  1.0,
		MaxCombo:  100,
		BeatmapID: beatmapID,
		Statistics: domain.HitStatistics{
			Great: 100,
		},
	}
	return &scoreBuilder{
		score: score,
	}
}
