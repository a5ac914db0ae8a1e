package ports

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
)

type matchRatingResponse struct {
	Success   bool                  `json:"success"`
	MatchID   int64                 `json:"matchId,omitempty"`
	Name      string                `json:"name,omitempty"`
	TeamType  string                `json:"teamType,omitempty"`
	Algorithm string                `json:"algorithm,omitempty"`
	Players   []playerRatingData    `json:"players,omitempty"`
	TeamVS    *teamVSSummaryData    `json:"teamVs,omitempty"`
	Cause     string                `json:"cause,omitempty"`
}

type playerRatingData struct {
	UserID       int64               `json:"userId"`
	Username     string              `json:"username"`
	Rating       *float64            `json:"rating"`
	Team         string              `json:"team"`
	Wins         int                 `json:"wins"`
	Losses       int                 `json:"losses"`
	GamesPlayed  int                 `json:"gamesPlayed"`
	WinRate      float64             `json:"winRate"`
	TotalScore   int64               `json:"totalScore"`
	AverageScore float64             `json:"averageScore"`
	HeadToHead   *headToHeadData     `json:"headToHead,omitempty"`
}

type headToHeadData struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Top1Count   int     `json:"top1Count"`
	Top1Rate    float64 `json:"top1Rate"`
}

type teamVSSummaryData struct {
	RedScore  int `json:"redScore"`
	BlueScore int `json:"blueScore"`
	TeamSize  int `json:"teamSize"`
}

func teamTypeToString(teamType domain.TeamType) string {
	if teamType == domain.TeamTypeTeamVS {
		return "team-vs"
	}
	return "head-to-head"
}

func matchReportToResponse(report *app.MatchReport) matchRatingResponse {
	response := matchRatingResponse{
		Success:   true,
		MatchID:   report.MatchID,
		Name:      report.Name,
		TeamType:  teamTypeToString(report.TeamType),
		Algorithm: report.Algorithm.String(),
	}

	for _, player := range report.Players {
		data := playerRatingData{
			UserID:       player.UserID,
			Username:     player.Username,
			Rating:       player.Rating,
			Team:         player.Stats.Team.String(),
			Wins:         player.Stats.Wins,
			Losses:       player.Stats.Losses,
			GamesPlayed:  player.Stats.GamesPlayed,
			WinRate:      player.Stats.WinRate,
			TotalScore:   player.Stats.TotalScore,
			AverageScore: player.Stats.AverageScore,
		}
		if player.HeadToHead != nil {
			data.HeadToHead = &headToHeadData{
				GamesPlayed: player.HeadToHead.GamesPlayed,
				Top1Count:   player.HeadToHead.Top1Count,
				Top1Rate:    player.HeadToHead.Top1Rate,
			}
		}
		response.Players = append(response.Players, data)
	}

	if report.TeamVS != nil {
		response.TeamVS = &teamVSSummaryData{
			RedScore:  report.TeamVS.RedScore,
			BlueScore: report.TeamVS.BlueScore,
			TeamSize:  report.TeamVS.TeamSize,
		}
	}

	return response
}

func MakeGetMatchRatingHandler(
	getMatchRatingReport app.GetMatchRatingReport,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("match_rating"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawMatchID := r.PathValue("matchID")
		rawAlgorithm := r.URL.Query().Get("algorithm")
		if rawAlgorithm == "" {
			rawAlgorithm = "osuplus"
		}

		ctx = logging.AddMetaToContext(ctx,
			slog.String("matchID", rawMatchID),
			slog.String("algorithm", rawAlgorithm),
		)
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"rawMatchID": rawMatchID,
			"algorithm":  rawAlgorithm,
		})

		matchID, err := strconv.ParseInt(rawMatchID, 10, 64)
		if err != nil || matchID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Invalid match id"}`))
			return
		}

		algorithm, err := domain.RatingAlgorithmFromString(rawAlgorithm)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Unknown rating algorithm"}`))
			return
		}

		report, err := getMatchRatingReport(ctx, matchID, algorithm)
		if err != nil {
			// NOTE: GetMatchRatingReport implementations handle their own error reporting
			statusCode := http.StatusInternalServerError
			cause := "Failed to compute match rating"
			switch {
			case errors.Is(err, domain.ErrMatchNotFound):
				statusCode = http.StatusNotFound
				cause = "Match not found"
			case errors.Is(err, domain.ErrNoGamesInMatch):
				statusCode = http.StatusUnprocessableEntity
				cause = "Match has no games"
			case errors.Is(err, domain.ErrTemporarilyUnavailable):
				statusCode = http.StatusServiceUnavailable
				cause = "Match data temporarily unavailable"
			}

			marshalled, marshalErr := json.Marshal(matchRatingResponse{
				Success: false,
				Cause:   cause,
			})
			if marshalErr != nil {
				http.Error(w, cause, statusCode)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusCode)
			w.Write(marshalled)
			return
		}

		marshalled, err := json.Marshal(matchReportToResponse(report))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"cause":"Failed to marshal response"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
