package ports

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/logging"
)

type targetPPResponse struct {
	Success bool    `json:"success"`
	NewPP   float64 `json:"newPP,omitempty"`
	Rank    int     `json:"rank,omitempty"`
	Cause   string  `json:"cause,omitempty"`
}

func MakeFindTargetPPHandler(
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("target_pp"),
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
			CurrentTopPlays []float64 `json:"currentTopPlays"`
			DesiredIncrease float64   `json:"desiredIncrease"`
		}{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Failed to parse request body"}`))
			return
		}

		if request.DesiredIncrease <= 0 || math.IsNaN(request.DesiredIncrease) || math.IsInf(request.DesiredIncrease, 0) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"desiredIncrease must be a positive number"}`))
			return
		}

		newPP, rank := app.FindOptimalNewPP(request.CurrentTopPlays, request.DesiredIncrease)

		marshalled, err := json.Marshal(targetPPResponse{
			Success: true,
			NewPP:   newPP,
			Rank:    rank,
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
