package domain

// PlayerMatchStats summarizes a single user's results over a filtered game
// history.
type PlayerMatchStats struct {
	Team         Team
	Wins         int
	Losses       int
	GamesPlayed  int
	WinRate      float64
	TotalScore   int64
	AverageScore float64
}

// ComputePlayerMatchStats aggregates the user's entries across the history.
// The user's team is taken from their first entry and assumed stable for the
// whole match. Wins are credited when the user's side matches the game's
// resolved win side.
func ComputePlayerMatchStats(games []MatchGame, userID int64) PlayerMatchStats {
	stats := PlayerMatchStats{Team: TeamNone}

	for _, game := range games {
		if len(game.Scores) == 0 {
			continue
		}
		winSide := WinSide(game)
		for _, entry := range game.Scores {
			if entry.UserID != userID {
				continue
			}
			if stats.Team == TeamNone {
				stats.Team = entry.Team
			}
			stats.GamesPlayed++
			stats.TotalScore += entry.Score
			if entry.Team == winSide {
				stats.Wins++
			}
		}
	}

	stats.Losses = stats.GamesPlayed - stats.Wins
	if stats.GamesPlayed > 0 {
		stats.WinRate = float64(stats.Wins) / float64(stats.GamesPlayed)
		stats.AverageScore = float64(stats.TotalScore) / float64(stats.GamesPlayed)
	}
	return stats
}
