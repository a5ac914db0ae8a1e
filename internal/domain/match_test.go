package domain_test

import (
	"testing"

	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func TestGames(t *testing.T) {
	t.Parallel()

	history := domaintest.NewMatchHistoryBuilder(1, "test lobby").
		WithEvent(domain.EventMatchCreated).
		WithEvent(domain.EventPlayerJoined).
		WithGame(domaintest.NewMatchGameBuilder(10).
			WithScore(1, 100, domain.TeamRed).
			Build()).
		WithEvent(domain.EventPlayerLeft).
		WithGame(domaintest.NewMatchGameBuilder(20).
			WithScore(1, 200, domain.TeamRed).
			Build()).
		WithEvent(domain.EventMatchDisbanded).
		Build()

	games := history.Games()
	require.Len(t, games, 2)
	require.Equal(t, int64(10), games[0].BeatmapID)
	require.Equal(t, int64(20), games[1].BeatmapID)
}

func TestMatchTeamType(t *testing.T) {
	t.Parallel()

	teamVS := domaintest.NewMatchGameBuilder(1).Build()
	headToHead := domaintest.NewMatchGameBuilder(2).
		WithTeamType(domain.TeamTypeHeadToHead).
		Build()

	t.Run("majority team-vs", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, domain.TeamTypeTeamVS, domain.MatchTeamType([]domain.MatchGame{teamVS, teamVS, headToHead}))
	})

	t.Run("majority head-to-head", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, domain.TeamTypeHeadToHead, domain.MatchTeamType([]domain.MatchGame{headToHead, headToHead, teamVS}))
	})

	t.Run("no games defaults to head-to-head", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, domain.TeamTypeHeadToHead, domain.MatchTeamType(nil))
	})
}

func TestWinSide(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		redScore  int64
		blueScore int64
		want      domain.Team
	}{
		{name: "red wins", redScore: 1_000_000, blueScore: 500_000, want: domain.TeamRed},
		{name: "blue wins", redScore: 500_000, blueScore: 1_000_000, want: domain.TeamBlue},
		{name: "tie goes to blue", redScore: 750_000, blueScore: 750_000, want: domain.TeamBlue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			game := domaintest.NewMatchGameBuilder(1).
				WithScore(1, tc.redScore, domain.TeamRed).
				WithScore(2, tc.blueScore, domain.TeamBlue).
				Build()
			require.Equal(t, tc.want, domain.WinSide(game))
		})
	}
}

func TestFilterInvalidGames(t *testing.T) {
	t.Parallel()

	t.Run("head-to-head is returned unchanged", func(t *testing.T) {
		t.Parallel()
		games := []domain.MatchGame{
			domaintest.NewMatchGameBuilder(1).
				WithTeamType(domain.TeamTypeHeadToHead).
				WithScore(1, 0, domain.TeamNone).
				WithScore(2, 100, domain.TeamNone).
				Build(),
		}
		filtered := domain.FilterInvalidGames(games)
		require.Equal(t, games, filtered)
	})

	t.Run("zero scores remove the user everywhere", func(t *testing.T) {
		t.Parallel()
		clean := domaintest.NewMatchGameBuilder(1).
			WithScore(1, 900_000, domain.TeamRed).
			WithScore(2, 800_000, domain.TeamBlue).
			Build()
		withDisconnect := domaintest.NewMatchGameBuilder(2).
			WithScore(1, 850_000, domain.TeamRed).
			WithScore(3, 0, domain.TeamBlue).
			Build()

		filtered := domain.FilterInvalidGames([]domain.MatchGame{clean, withDisconnect})

		// User 3 is dropped entirely; the 1-entry remainder of game 2 no
		// longer matches the 1v1 team size and is dropped too
		require.Len(t, filtered, 1)
		require.Equal(t, int64(1), filtered[0].BeatmapID)
		require.Len(t, filtered[0].Scores, 2)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		games := []domain.MatchGame{
			domaintest.NewMatchGameBuilder(1).
				WithScore(1, 900_000, domain.TeamRed).
				WithScore(2, 800_000, domain.TeamBlue).
				Build(),
			domaintest.NewMatchGameBuilder(2).
				WithScore(1, 850_000, domain.TeamRed).
				WithScore(3, 0, domain.TeamBlue).
				Build(),
		}
		once := domain.FilterInvalidGames(games)
		twice := domain.FilterInvalidGames(once)
		require.Equal(t, once, twice)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		t.Parallel()
		games := []domain.MatchGame{
			domaintest.NewMatchGameBuilder(1).
				WithScore(1, 900_000, domain.TeamRed).
				WithScore(2, 0, domain.TeamBlue).
				Build(),
		}
		domain.FilterInvalidGames(games)
		require.Len(t, games[0].Scores, 2)
	})

	t.Run("no balanced games skips the size filter", func(t *testing.T) {
		t.Parallel()
		// Every game is lopsided so no team size can be derived
		games := []domain.MatchGame{
			domaintest.NewMatchGameBuilder(1).
				WithScore(1, 900_000, domain.TeamRed).
				WithScore(2, 800_000, domain.TeamRed).
				WithScore(3, 700_000, domain.TeamBlue).
				Build(),
		}
		filtered := domain.FilterInvalidGames(games)
		require.Len(t, filtered, 1)
	})
}

func TestAnalyzeTeamVS(t *testing.T) {
	t.Parallel()

	games := []domain.MatchGame{
		domaintest.NewMatchGameBuilder(1).
			WithScore(1, 900_000, domain.TeamRed).
			WithScore(2, 800_000, domain.TeamBlue).
			Build(),
		domaintest.NewMatchGameBuilder(2).
			WithScore(1, 700_000, domain.TeamRed).
			WithScore(2, 800_000, domain.TeamBlue).
			Build(),
		domaintest.NewMatchGameBuilder(3).
			WithScore(1, 800_000, domain.TeamRed).
			WithScore(2, 800_000, domain.TeamBlue).
			Build(),
	}

	summary := domain.AnalyzeTeamVS(games)
	require.Equal(t, 1, summary.RedScore)
	// Includes the tie, which goes to blue
	require.Equal(t, 2, summary.BlueScore)
	require.Equal(t, 1, summary.TeamSize)
}

func TestAnalyzeHeadToHead(t *testing.T) {
	t.Parallel()

	game := func(beatmapID int64, u1Score, u2Score int64) domain.MatchGame {
		return domaintest.NewMatchGameBuilder(beatmapID).
			WithTeamType(domain.TeamTypeHeadToHead).
			WithScore(1, u1Score, domain.TeamNone).
			WithScore(2, u2Score, domain.TeamNone).
			Build()
	}

	games := []domain.MatchGame{
		game(1, 900_000, 800_000),
		game(2, 700_000, 800_000),
		game(3, 800_000, 800_000),
	}

	summary := domain.AnalyzeHeadToHead(games, 1)
	require.Equal(t, 3, summary.GamesPlayed)
	// The tied game counts for the earlier entry in the listing
	require.Equal(t, 2, summary.Top1Count)
	require.InDelta(t, 2.0/3.0, summary.Top1Rate, 1e-9)

	absent := domain.AnalyzeHeadToHead(games, 999)
	require.Equal(t, 0, absent.GamesPlayed)
	require.Equal(t, 0, absent.Top1Count)
	require.Equal(t, 0.0, absent.Top1Rate)
}
