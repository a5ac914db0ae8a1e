package domain

import "fmt"

// Ruleset is one of the four osu! game modes.
type Ruleset int

const (
	RulesetOsu Ruleset = iota
	RulesetTaiko
	RulesetCatch
	RulesetMania
)

func RulesetFromInt(mode int) (Ruleset, error) {
	switch mode {
	case 0:
		return RulesetOsu, nil
	case 1:
		return RulesetTaiko, nil
	case 2:
		return RulesetCatch, nil
	case 3:
		return RulesetMania, nil
	default:
		return RulesetOsu, fmt.Errorf("%w: %d", ErrUnknownRuleset, mode)
	}
}

func (r Ruleset) String() string {
	switch r {
	case RulesetOsu:
		return "osu"
	case RulesetTaiko:
		return "taiko"
	case RulesetCatch:
		return "fruits"
	case RulesetMania:
		return "mania"
	}
	return "osu"
}
