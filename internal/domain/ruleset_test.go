package domain_test

import (
	"testing"

	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRulesetFromInt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mode    int
		ruleset domain.Ruleset
		name    string
	}{
		{mode: 0, ruleset: domain.RulesetOsu, name: "osu"},
		{mode: 1, ruleset: domain.RulesetTaiko, name: "taiko"},
		{mode: 2, ruleset: domain.RulesetCatch, name: "fruits"},
		{mode: 3, ruleset: domain.RulesetMania, name: "mania"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ruleset, err := domain.RulesetFromInt(tc.mode)
			require.NoError(t, err)
			require.Equal(t, tc.ruleset, ruleset)
			require.Equal(t, tc.name, ruleset.String())
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		t.Parallel()
		_, err := domain.RulesetFromInt(4)
		require.ErrorIs(t, err, domain.ErrUnknownRuleset)
	})
}
