package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/hitcircle/hitcircle-api/internal/domain"
)

// PlayerReport is one roster entry in a match rating report.
type PlayerReport struct {
	UserID   int64
	Username string
	Rating   *float64
	Stats    domain.PlayerMatchStats
	// HeadToHead is set only for head-to-head matches
	HeadToHead *domain.HeadToHeadSummary
}

// MatchReport is the full rating breakdown of one multiplayer match.
type MatchReport struct {
	MatchID   int64
	Name      string
	TeamType  domain.TeamType
	Algorithm domain.RatingAlgorithm
	Players   []PlayerReport
	// TeamVS is set only for team-vs matches
	TeamVS *domain.TeamVSSummary
}

type GetMatchRatingReport func(ctx context.Context, matchID int64, algorithm domain.RatingAlgorithm) (*MatchReport, error)

func BuildGetMatchRatingReport(getMatchHistory GetMatchHistory) GetMatchRatingReport {
	return func(ctx context.Context, matchID int64, algorithm domain.RatingAlgorithm) (*MatchReport, error) {
		history, err := getMatchHistory(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("could not get match history: %w", err)
		}

		games := history.Games()
		if len(games) == 0 {
			return nil, fmt.Errorf("%w: match %d", domain.ErrNoGamesInMatch, matchID)
		}

		teamType := domain.MatchTeamType(games)
		filtered := domain.FilterInvalidGames(games)

		report := &MatchReport{
			MatchID:   history.ID,
			Name:      history.Name,
			TeamType:  teamType,
			Algorithm: algorithm,
		}

		for _, user := range history.Users {
			player := PlayerReport{
				UserID:   user.ID,
				Username: user.Username,
				Rating:   domain.MatchRating(filtered, user.ID, algorithm),
				Stats:    domain.ComputePlayerMatchStats(filtered, user.ID),
			}
			if teamType == domain.TeamTypeHeadToHead {
				summary := domain.AnalyzeHeadToHead(filtered, user.ID)
				player.HeadToHead = &summary
			}
			report.Players = append(report.Players, player)
		}

		// Highest rated players first, unrated players last
		sort.SliceStable(report.Players, func(i, j int) bool {
			a, b := report.Players[i].Rating, report.Players[j].Rating
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a > *b
		})

		if teamType == domain.TeamTypeTeamVS {
			summary := domain.AnalyzeTeamVS(filtered)
			report.TeamVS = &summary
		}

		return report, nil
	}
}
