package domaintest

import (
	"github.com/hitcircle/hitcircle-api/internal/domain"
)

type matchGameBuilder struct {
	game *domain.MatchGame
}

func (gb *matchGameBuilder) WithTeamType(teamType domain.TeamType) *matchGameBuilder {
	gb.game.TeamType = teamType
	return gb
}

func (gb *matchGameBuilder) WithScore(userID int64, score int64, team domain.Team, mods ...string) *matchGameBuilder {
	gb.game.Scores = append(gb.game.Scores, domain.MatchScore{
		UserID: userID,
		Score:  score,
		Team:   team,
		Mods:   mods,
	})
	return gb
}

func (gb *matchGameBuilder) Build() domain.MatchGame {
	return *gb.game
}

func NewMatchGameBuilder(beatmapID int64) *matchGameBuilder {
	game := &domain.MatchGame{
		BeatmapID: beatmapID,
		TeamType:  domain.TeamTypeTeamVS,
	}
	return &matchGameBuilder{
		game: game,
	}
}

type matchHistoryBuilder struct {
	history     *domain.MatchHistory
	nextEventID int64
}

func (hb *matchHistoryBuilder) WithEvent(eventType domain.MatchEventType) *matchHistoryBuilder {
	hb.history.Events = append(hb.history.Events, domain.MatchEvent{
		ID:   hb.nextEventID,
		Type: eventType,
	})
	hb.nextEventID++
	return hb
}

func (hb *matchHistoryBuilder) WithGame(game domain.MatchGame) *matchHistoryBuilder {
	hb.history.Events = append(hb.history.Events, domain.MatchEvent{
		ID:   hb.nextEventID,
		Type: domain.EventOther,
		Game: &game,
	})
	hb.nextEventID++
	return hb
}

func (hb *matchHistoryBuilder) WithUser(userID int64, username string) *matchHistoryBuilder {
	hb.history.Users = append(hb.history.Users, domain.MatchUser{
		ID:       userID,
		Username: username,
	})
	return hb
}

func (hb *matchHistoryBuilder) Build() *domain.MatchHistory {
	// Make a copy, so further mutations to the builder don't affect the returned history
	history := *hb.history
	history.Events = append([]domain.MatchEvent{}, hb.history.Events...)
	history.Users = append([]domain.MatchUser{}, hb.history.Users...)
	return &history
}

func NewMatchHistoryBuilder(matchID int64, name string) *matchHistoryBuilder {
	history := &domain.MatchHistory{
		ID:   matchID,
		Name: name,
	}
	return &matchHistoryBuilder{
		history:     history,
		nextEventID: 1,
	}
}
