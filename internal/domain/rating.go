package domain

import (
	"fmt"
	"math"
)

// RatingAlgorithm selects one of the supported match-rating formulas.
type RatingAlgorithm int

const (
	AlgorithmOsuplus RatingAlgorithm = iota
	AlgorithmBathbot
	AlgorithmFlashlight
)

func RatingAlgorithmFromString(name string) (RatingAlgorithm, error) {
	switch name {
	case "osuplus":
		return AlgorithmOsuplus, nil
	case "bathbot":
		return AlgorithmBathbot, nil
	case "flashlight":
		return AlgorithmFlashlight, nil
	default:
		return AlgorithmOsuplus, fmt.Errorf("unknown rating algorithm: %q", name)
	}
}

func (a RatingAlgorithm) String() string {
	switch a {
	case AlgorithmBathbot:
		return "bathbot"
	case AlgorithmFlashlight:
		return "flashlight"
	}
	return "osuplus"
}

// MatchRating computes the user's skill rating over a filtered game history.
// Returns nil when the user has no qualifying games.
func MatchRating(games []MatchGame, userID int64, algorithm RatingAlgorithm) *float64 {
	switch algorithm {
	case AlgorithmBathbot:
		return bathbotRating(games, userID)
	case AlgorithmFlashlight:
		return flashlightRating(games, userID)
	default:
		return osuplusRating(games, userID)
	}
}

func gameScores(game MatchGame) []float64 {
	scores := make([]float64, len(game.Scores))
	for i, entry := range game.Scores {
		scores[i] = float64(entry.Score)
	}
	return scores
}

// osuplus: (2 / (n+2)) * sum(s_i / m_i), where m_i is the game's mean score.
// Games with a zero mean are excluded from the sum but still count towards n.
func osuplusRating(games []MatchGame, userID int64) *float64 {
	userGames := 0
	sumOfRatios := 0.0

	for _, game := range games {
		if len(game.Scores) == 0 {
			continue
		}
		meanScore := statMean(gameScores(game))
		for _, entry := range game.Scores {
			if entry.UserID != userID {
				continue
			}
			if meanScore != 0 {
				sumOfRatios += float64(entry.Score) / meanScore
			}
			userGames++
		}
	}

	if userGames == 0 {
		return nil
	}

	rating := (2 / float64(userGames+2)) * sumOfRatios
	return &rating
}

// bathbot: mean score ratio plus participation and tiebreaker bonuses,
// scaled by a participation factor and a mod variety factor.
//
// The tiebreaker is the final game of the match when the second-to-last game
// ends with the team scores level.
func bathbotRating(games []MatchGame, userID int64) *float64 {
	totalGames := 0
	userGames := 0
	scoreSum := 0.0
	redScore := 0
	blueScore := 0
	tiebreaker := false
	userTiebreakerScore := 0.0
	meanTiebreakerScore := 0.0
	playedMods := map[string]bool{}

	for i, game := range games {
		if len(game.Scores) == 0 {
			continue
		}
		totalGames++

		switch WinSide(game) {
		case TeamRed:
			redScore++
		case TeamBlue:
			blueScore++
		}

		meanScore := statMean(gameScores(game))
		for _, entry := range game.Scores {
			if entry.UserID != userID {
				continue
			}
			for _, mod := range entry.Mods {
				playedMods[mod] = true
			}
			if meanScore != 0 {
				scoreSum += float64(entry.Score) / meanScore
			}
			userGames++
		}

		if i == len(games)-2 && redScore == blueScore {
			tiebreaker = true
			meanTiebreakerScore = meanScore
			for _, entry := range game.Scores {
				if entry.UserID == userID {
					userTiebreakerScore = float64(entry.Score)
					break
				}
			}
		}
	}

	if userGames == 0 {
		return nil
	}

	participationBonus := 0.5 * float64(userGames)
	tiebreakerBonus := 0.0
	if tiebreaker && meanTiebreakerScore != 0 {
		tiebreakerBonus = userTiebreakerScore / meanTiebreakerScore
	}

	participationRatio := 0.0
	if totalGames > 1 {
		participationRatio = float64(userGames-1) / float64(totalGames-1)
	}
	participationFactor := math.Pow(1.4, math.Pow(participationRatio, 0.6))
	modVarietyFactor := 1 + 0.02*math.Max(0, float64(len(playedMods)-2))

	rating := (scoreSum + participationBonus + tiebreakerBonus) *
		(1 / float64(userGames)) * participationFactor * modVarietyFactor
	return &rating
}

// flashlight: mean of per-game score-to-median ratios, adjusted by the cube
// root of the user's game count relative to the median game count across all
// participants.
func flashlightRating(games []MatchGame, userID int64) *float64 {
	gameCounts := map[int64]int{}
	userGames := 0
	sumOfRatios := 0.0

	for _, game := range games {
		if len(game.Scores) == 0 {
			continue
		}
		medianScore := statMedian(gameScores(game))
		for _, entry := range game.Scores {
			gameCounts[entry.UserID]++
			if entry.UserID != userID {
				continue
			}
			if medianScore != 0 {
				sumOfRatios += float64(entry.Score) / medianScore
			}
			userGames++
		}
	}

	if userGames == 0 {
		return nil
	}

	occurrences := make([]float64, 0, len(gameCounts))
	for _, count := range gameCounts {
		occurrences = append(occurrences, float64(count))
	}
	medianGamesPerUser := statMedian(occurrences)

	averageRatio := sumOfRatios / float64(userGames)
	rating := averageRatio * math.Cbrt(float64(userGames)/medianGamesPerUser)
	return &rating
}
