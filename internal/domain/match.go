package domain

// Team is the side a player is on within a team-vs game.
type Team int

const (
	TeamNone Team = iota
	TeamRed
	TeamBlue
)

func (t Team) String() string {
	switch t {
	case TeamRed:
		return "red"
	case TeamBlue:
		return "blue"
	}
	return "none"
}

// TeamType is the format of one game within a multiplayer match.
type TeamType int

const (
	TeamTypeHeadToHead TeamType = iota
	TeamTypeTeamVS
)

// MatchEventType is the type tag of one event in a match's event stream.
type MatchEventType int

const (
	EventMatchCreated MatchEventType = iota
	EventMatchDisbanded
	EventHostChanged
	EventPlayerJoined
	EventPlayerLeft
	EventPlayerKicked
	EventOther
)

// MatchScore is one player's entry in one game.
type MatchScore struct {
	UserID   int64
	Score    int64
	Accuracy float64
	Team     Team
	Mods     []string
}

// MatchGame is one map played within a match.
type MatchGame struct {
	BeatmapID int64
	TeamType  TeamType
	Scores    []MatchScore
}

type MatchEvent struct {
	ID   int64
	Type MatchEventType
	// Game is non-nil only for EventOther events carrying a game payload
	Game *MatchGame
}

type MatchUser struct {
	ID       int64
	Username string
}

// MatchHistory is the full, chronologically ordered event stream of a match
// plus the roster of participating users.
type MatchHistory struct {
	ID     int64
	Name   string
	Events []MatchEvent
	Users  []MatchUser
}

// Games extracts the played games from the event stream, preserving order.
func (m *MatchHistory) Games() []MatchGame {
	games := []MatchGame{}
	for _, event := range m.Events {
		if event.Type == EventOther && event.Game != nil {
			games = append(games, *event.Game)
		}
	}
	return games
}

// MatchTeamType classifies the match's team mode as the statistical mode of
// the per-game team types.
func MatchTeamType(games []MatchGame) TeamType {
	teamTypes := make([]TeamType, 0, len(games))
	for _, game := range games {
		teamTypes = append(teamTypes, game.TeamType)
	}

	teamType, ok := statMode(teamTypes)
	if !ok {
		return TeamTypeHeadToHead
	}
	return teamType
}

// WinSide resolves the winning side of a team-vs game as the side with the
// higher score sum. Ties resolve to blue.
func WinSide(game MatchGame) Team {
	var redTotal, blueTotal int64
	for _, entry := range game.Scores {
		switch entry.Team {
		case TeamRed:
			redTotal += entry.Score
		case TeamBlue:
			blueTotal += entry.Score
		}
	}

	if redTotal > blueTotal {
		return TeamRed
	}
	return TeamBlue
}

// teamVSTeamSize computes the per-team player count as the statistical mode
// of the side sizes among games where both sides fielded the same non-zero
// number of scoring players. Zero-score entries don't count towards a side.
func teamVSTeamSize(games []MatchGame) (int, bool) {
	sizes := []int{}
	for _, game := range games {
		redSize := 0
		blueSize := 0
		for _, entry := range game.Scores {
			if entry.Score == 0 {
				continue
			}
			switch entry.Team {
			case TeamRed:
				redSize++
			case TeamBlue:
				blueSize++
			}
		}
		if redSize == blueSize && redSize != 0 {
			sizes = append(sizes, redSize)
		}
	}

	return statMode(sizes)
}

// FilterInvalidGames removes invalid entries from a team-vs game history.
//
// A zero raw score marks the entry invalid, and every entry of that user is
// removed across the whole history. Games whose remaining entry count does
// not equal 2x the team size are dropped entirely. Head-to-head histories
// are returned unchanged. The input is never mutated.
func FilterInvalidGames(games []MatchGame) []MatchGame {
	if MatchTeamType(games) != TeamTypeTeamVS {
		filtered := make([]MatchGame, len(games))
		copy(filtered, games)
		return filtered
	}

	invalidUsers := map[int64]bool{}
	for _, game := range games {
		for _, entry := range game.Scores {
			if entry.Score == 0 {
				invalidUsers[entry.UserID] = true
			}
		}
	}

	teamSize, haveTeamSize := teamVSTeamSize(games)

	filtered := []MatchGame{}
	for _, game := range games {
		kept := game
		kept.Scores = []MatchScore{}
		for _, entry := range game.Scores {
			if invalidUsers[entry.UserID] {
				continue
			}
			kept.Scores = append(kept.Scores, entry)
		}

		if haveTeamSize && len(kept.Scores) != 2*teamSize {
			continue
		}
		filtered = append(filtered, kept)
	}

	return filtered
}

// TeamVSSummary counts games won by each side of a team-vs match.
type TeamVSSummary struct {
	RedScore  int
	BlueScore int
	TeamSize  int
}

func AnalyzeTeamVS(games []MatchGame) TeamVSSummary {
	summary := TeamVSSummary{}
	for _, game := range games {
		switch WinSide(game) {
		case TeamRed:
			summary.RedScore++
		case TeamBlue:
			summary.BlueScore++
		}
	}

	teamSize, _ := teamVSTeamSize(games)
	summary.TeamSize = teamSize
	return summary
}

// HeadToHeadSummary counts a single user's games and outright wins in a
// head-to-head match.
type HeadToHeadSummary struct {
	GamesPlayed int
	Top1Count   int
	Top1Rate    float64
}

func AnalyzeHeadToHead(games []MatchGame, userID int64) HeadToHeadSummary {
	summary := HeadToHeadSummary{}
	for _, game := range games {
		if len(game.Scores) == 0 {
			continue
		}

		top := game.Scores[0]
		for _, entry := range game.Scores {
			if entry.Score > top.Score {
				top = entry
			}
		}

		for _, entry := range game.Scores {
			if entry.UserID == userID {
				summary.GamesPlayed++
			}
		}
		if top.UserID == userID {
			summary.Top1Count++
		}
	}

	if summary.GamesPlayed > 0 {
		summary.Top1Rate = float64(summary.Top1Count) / float64(summary.GamesPlayed)
	}
	return summary
}
