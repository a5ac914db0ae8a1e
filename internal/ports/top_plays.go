package ports

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/logging"
)

type topPlayBreakdownResponse struct {
	Success       bool               `json:"success"`
	WeightedTotal float64            `json:"weightedTotal"`
	ByMods        map[string]float64 `json:"byMods,omitempty"`
	ByMapper      map[string]float64 `json:"byMapper,omitempty"`
	Cause         string             `json:"cause,omitempty"`
}

func MakeTopPlayBreakdownHandler(
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("top_play_breakdown"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Failed to read request body"}`))
			return
		}

		request := struct {
			Plays []struct {
				PP       float64  `json:"pp"`
				Mods     []string `json:"mods"`
				MapperID int64    `json:"mapperId"`
			} `json:"plays"`
		}{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Failed to parse request body"}`))
			return
		}

		plays := make([]app.TopPlay, 0, len(request.Plays))
		for _, play := range request.Plays {
			plays = append(plays, app.TopPlay{
				PP:       play.PP,
				Mods:     play.Mods,
				MapperID: play.MapperID,
			})
		}

		breakdown := app.ComputeTopPlayBreakdown(plays)

		byMapper := make(map[string]float64, len(breakdown.ByMapper))
		for mapperID, weighted := range breakdown.ByMapper {
			byMapper[strconv.FormatInt(mapperID, 10)] = weighted
		}

		marshalled, err := json.Marshal(topPlayBreakdownResponse{
			Success:       true,
			WeightedTotal: breakdown.WeightedTotal,
			ByMods:        breakdown.ByMods,
			ByMapper:      byMapper,
		})
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
