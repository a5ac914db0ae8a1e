package app_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func constantHistory(history *domain.MatchHistory) app.GetMatchHistory {
	return func(ctx context.Context, matchID int64) (*domain.MatchHistory, error) {
		if history == nil {
			return nil, fmt.Errorf("no match: %w", domain.ErrMatchNotFound)
		}
		return history, nil
	}
}

func TestGetMatchRatingReportTeamVS(t *testing.T) {
	t.Parallel()

	history := domaintest.NewMatchHistoryBuilder(1234, "red vs blue").
		WithUser(1, "alice").
		WithUser(2, "bob").
		WithEvent(domain.EventMatchCreated).
		WithGame(domaintest.NewMatchGameBuilder(10).
			WithScore(1, 900_000, domain.TeamRed).
			WithScore(2, 800_000, domain.TeamBlue).
			Build()).
		WithGame(domaintest.NewMatchGameBuilder(20).
			WithScore(1, 850_000, domain.TeamRed).
			WithScore(2, 700_000, domain.TeamBlue).
			Build()).
		WithEvent(domain.EventMatchDisbanded).
		Build()

	getMatchRatingReport := app.BuildGetMatchRatingReport(constantHistory(history))

	report, err := getMatchRatingReport(context.Background(), 1234, domain.AlgorithmOsuplus)
	require.NoError(t, err)

	require.Equal(t, int64(1234), report.MatchID)
	require.Equal(t, "red vs blue", report.Name)
	require.Equal(t, domain.TeamTypeTeamVS, report.TeamType)
	require.Equal(t, domain.AlgorithmOsuplus, report.Algorithm)

	require.NotNil(t, report.TeamVS)
	require.Equal(t, 2, report.TeamVS.RedScore)
	require.Equal(t, 0, report.TeamVS.BlueScore)
	require.Equal(t, 1, report.TeamVS.TeamSize)

	require.Len(t, report.Players, 2)
	// Sorted by rating, best first
	require.Equal(t, "alice", report.Players[0].Username)
	require.Equal(t, "bob", report.Players[1].Username)
	require.NotNil(t, report.Players[0].Rating)
	require.NotNil(t, report.Players[1].Rating)
	require.Greater(t, *report.Players[0].Rating, *report.Players[1].Rating)

	require.Equal(t, 2, report.Players[0].Stats.Wins)
	require.Equal(t, 0, report.Players[0].Stats.Losses)
	require.Nil(t, report.Players[0].HeadToHead)
}

func TestGetMatchRatingReportHeadToHead(t *testing.T) {
	t.Parallel()

	history := domaintest.NewMatchHistoryBuilder(1234, "1v1").
		WithUser(1, "alice").
		WithUser(2, "bob").
		WithEvent(domain.EventMatchCreated).
		WithGame(domaintest.NewMatchGameBuilder(10).
			WithTeamType(domain.TeamTypeHeadToHead).
			WithScore(1, 900_000, domain.TeamNone).
			WithScore(2, 800_000, domain.TeamNone).
			Build()).
		Build()

	getMatchRatingReport := app.BuildGetMatchRatingReport(constantHistory(history))

	report, err := getMatchRatingReport(context.Background(), 1234, domain.AlgorithmFlashlight)
	require.NoError(t, err)

	require.Equal(t, domain.TeamTypeHeadToHead, report.TeamType)
	require.Nil(t, report.TeamVS)

	require.Len(t, report.Players, 2)
	require.NotNil(t, report.Players[0].HeadToHead)
	require.Equal(t, 1, report.Players[0].HeadToHead.GamesPlayed)
	require.Equal(t, 1, report.Players[0].HeadToHead.Top1Count)
}

func TestGetMatchRatingReportNoGames(t *testing.T) {
	t.Parallel()

	history := domaintest.NewMatchHistoryBuilder(1234, "empty lobby").
		WithUser(1, "alice").
		WithEvent(domain.EventMatchCreated).
		WithEvent(domain.EventMatchDisbanded).
		Build()

	getMatchRatingReport := app.BuildGetMatchRatingReport(constantHistory(history))

	_, err := getMatchRatingReport(context.Background(), 1234, domain.AlgorithmOsuplus)
	require.ErrorIs(t, err, domain.ErrNoGamesInMatch)
}

func TestGetMatchRatingReportPropagatesNotFound(t *testing.T) {
	t.Parallel()

	getMatchRatingReport := app.BuildGetMatchRatingReport(constantHistory(nil))

	_, err := getMatchRatingReport(context.Background(), 1234, domain.AlgorithmOsuplus)
	require.ErrorIs(t, err, domain.ErrMatchNotFound)
}

func TestGetMatchRatingReportRosterUserWithoutGames(t *testing.T) {
	t.Parallel()

	// charlie joined the lobby but never played
	history := domaintest.NewMatchHistoryBuilder(1234, "red vs blue").
		WithUser(1, "alice").
		WithUser(2, "bob").
		WithUser(3, "charlie").
		WithEvent(domain.EventMatchCreated).
		WithGame(domaintest.NewMatchGameBuilder(10).
			WithScore(1, 900_000, domain.TeamRed).
			WithScore(2, 800_000, domain.TeamBlue).
			Build()).
		Build()

	getMatchRatingReport := app.BuildGetMatchRatingReport(constantHistory(history))

	report, err := getMatchRatingReport(context.Background(), 1234, domain.AlgorithmBathbot)
	require.NoError(t, err)

	require.Len(t, report.Players, 3)
	// Unrated players sort last
	charlie := report.Players[2]
	require.Equal(t, "charlie", charlie.Username)
	require.Nil(t, charlie.Rating)
	require.Equal(t, 0, charlie.Stats.GamesPlayed)
	require.Equal(t, 0.0, charlie.Stats.WinRate)
	require.Equal(t, 0.0, charlie.Stats.AverageScore)
}
