package matchprovider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
)

type osuMatchResponse struct {
	Match  osuMatchJSON  `json:"match"`
	Events []osuEventJSON `json:"events"`
	Users  []osuUserJSON  `json:"users"`
}

type osuMatchJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type osuEventJSON struct {
	ID     int64 `json:"id"`
	Detail struct {
		Type string `json:"type"`
	} `json:"detail"`
	Game *osuGameJSON `json:"game"`
}

type osuGameJSON struct {
	BeatmapID int64  `json:"beatmap_id"`
	TeamType  string `json:"team_type"`
	Scores    []osuScoreJSON `json:"scores"`
}

type osuScoreJSON struct {
	UserID   int64    `json:"user_id"`
	Score    int64    `json:"score"`
	Accuracy float64  `json:"accuracy"`
	Mods     []string `json:"mods"`
	Match    struct {
		Team string `json:"team"`
	} `json:"match"`
}

type osuUserJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func eventTypeFromString(eventType string) domain.MatchEventType {
	switch eventType {
	case "match-created":
		return domain.EventMatchCreated
	case "match-disbanded":
		return domain.EventMatchDisbanded
	case "host-changed":
		return domain.EventHostChanged
	case "player-joined":
		return domain.EventPlayerJoined
	case "player-left":
		return domain.EventPlayerLeft
	case "player-kicked":
		return domain.EventPlayerKicked
	default:
		return domain.EventOther
	}
}

func teamTypeFromString(teamType string) domain.TeamType {
	switch teamType {
	case "team-vs", "tag-team-vs":
		return domain.TeamTypeTeamVS
	default:
		return domain.TeamTypeHeadToHead
	}
}

func teamFromString(team string) domain.Team {
	switch team {
	case "red":
		return domain.TeamRed
	case "blue":
		return domain.TeamBlue
	default:
		return domain.TeamNone
	}
}

func osuMatchResponseToMatchHistory(ctx context.Context, data []byte) (*domain.MatchHistory, error) {
	var response osuMatchResponse
	err := json.Unmarshal(data, &response)
	if err != nil {
		err := fmt.Errorf("failed to parse match response: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	events := make([]domain.MatchEvent, 0, len(response.Events))
	for _, event := range response.Events {
		converted := domain.MatchEvent{
			ID:   event.ID,
			Type: eventTypeFromString(event.Detail.Type),
		}
		if event.Game != nil {
			game := domain.MatchGame{
				BeatmapID: event.Game.BeatmapID,
				TeamType:  teamTypeFromString(event.Game.TeamType),
				Scores:    make([]domain.MatchScore, 0, len(event.Game.Scores)),
			}
			for _, score := range event.Game.Scores {
				game.Scores = append(game.Scores, domain.MatchScore{
					UserID:   score.UserID,
					Score:    score.Score,
					Accuracy: score.Accuracy,
					Team:     teamFromString(score.Match.Team),
					Mods:     score.Mods,
				})
			}
			converted.Game = &game
		}
		events = append(events, converted)
	}

	users := make([]domain.MatchUser, 0, len(response.Users))
	for _, user := range response.Users {
		users = append(users, domain.MatchUser{
			ID:       user.ID,
			Username: user.Username,
		})
	}

	return &domain.MatchHistory{
		ID:     response.Match.ID,
		Name:   response.Match.Name,
		Events: events,
		Users:  users,
	}, nil
}
