package ports

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
)

type snapshotData struct {
	PlayerID        int64   `json:"playerId"`
	Ruleset         string  `json:"ruleset"`
	Date            string  `json:"date"`
	PP              float64 `json:"pp"`
	GlobalRank      *int    `json:"globalRank"`
	CountryRank     *int    `json:"countryRank"`
	Accuracy        float64 `json:"accuracy"`
	PlayCount       int     `json:"playCount"`
	PlayTimeSeconds int64   `json:"playTimeSeconds"`
	TotalHits       int64   `json:"totalHits"`
}

type comparisonSnapshotResponse struct {
	Success  bool          `json:"success"`
	Snapshot *snapshotData `json:"snapshot,omitempty"`
	Cause    string        `json:"cause,omitempty"`
}

func snapshotToData(snapshot *domain.PlayerStatsSnapshot) *snapshotData {
	return &snapshotData{
		PlayerID:        snapshot.PlayerID,
		Ruleset:         snapshot.Ruleset.String(),
		Date:            snapshot.Date.Format(time.DateOnly),
		PP:              snapshot.PP,
		GlobalRank:      snapshot.GlobalRank,
		CountryRank:     snapshot.CountryRank,
		Accuracy:        snapshot.Accuracy,
		PlayCount:       snapshot.PlayCount,
		PlayTimeSeconds: snapshot.PlayTimeSeconds,
		TotalHits:       snapshot.TotalHits,
	}
}

func MakeRecordSnapshotHandler(
	recordStatsSnapshot app.RecordStatsSnapshot,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("record_snapshot"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawPlayerID := r.PathValue("playerID")
		playerID, err := strconv.ParseInt(rawPlayerID, 10, 64)
		if err != nil || playerID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Invalid player id"}`))
			return
		}
		ctx = logging.AddMetaToContext(ctx, slog.String("playerID", rawPlayerID))

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Failed to read request body"}`))
			return
		}

		request := struct {
			Ruleset         int     `json:"ruleset"`
			PP              float64 `json:"pp"`
			GlobalRank      *int    `json:"globalRank"`
			CountryRank     *int    `json:"countryRank"`
			Accuracy        float64 `json:"accuracy"`
			PlayCount       int     `json:"playCount"`
			PlayTimeSeconds int64   `json:"playTimeSeconds"`
			TotalHits       int64   `json:"totalHits"`
		}{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Failed to parse request body"}`))
			return
		}

		ruleset, err := domain.RulesetFromInt(request.Ruleset)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Unknown ruleset"}`))
			return
		}

		err = recordStatsSnapshot(ctx, &domain.PlayerStatsSnapshot{
			PlayerID:        playerID,
			Ruleset:         ruleset,
			Date:            time.Now(),
			PP:              request.PP,
			GlobalRank:      request.GlobalRank,
			CountryRank:     request.CountryRank,
			Accuracy:        request.Accuracy,
			PlayCount:       request.PlayCount,
			PlayTimeSeconds: request.PlayTimeSeconds,
			TotalHits:       request.TotalHits,
		})
		if err != nil {
			// NOTE: RecordStatsSnapshot implementations handle their own error reporting
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"cause":"Failed to store snapshot"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true}`))
	}

	return middleware(handler)
}

func MakeGetComparisonSnapshotHandler(
	getComparisonSnapshot app.GetComparisonSnapshot,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("comparison_snapshot"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		rawPlayerID := r.PathValue("playerID")
		rawRuleset := r.URL.Query().Get("ruleset")
		rawDate := r.URL.Query().Get("date")

		ctx = logging.AddMetaToContext(ctx,
			slog.String("playerID", rawPlayerID),
			slog.String("ruleset", rawRuleset),
			slog.String("date", rawDate),
		)
		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"rawPlayerID": rawPlayerID,
			"rawRuleset":  rawRuleset,
			"rawDate":     rawDate,
		})

		playerID, err := strconv.ParseInt(rawPlayerID, 10, 64)
		if err != nil || playerID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Invalid player id"}`))
			return
		}

		rulesetInt, err := strconv.Atoi(rawRuleset)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Invalid ruleset"}`))
			return
		}
		ruleset, err := domain.RulesetFromInt(rulesetInt)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Unknown ruleset"}`))
			return
		}

		date, err := time.Parse(time.DateOnly, rawDate)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Invalid date"}`))
			return
		}

		snapshot, err := getComparisonSnapshot(ctx, playerID, ruleset, date)
		if err != nil {
			// NOTE: GetComparisonSnapshot implementations handle their own error reporting
			statusCode := http.StatusInternalServerError
			cause := "Failed to get snapshot"
			if errors.Is(err, domain.ErrSnapshotNotFound) {
				statusCode = http.StatusNotFound
				cause = "No snapshots recorded for player"
			}
			marshalled, marshalErr := json.Marshal(comparisonSnapshotResponse{
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

		marshalled, err := json.Marshal(comparisonSnapshotResponse{
			Success:  true,
			Snapshot: snapshotToData(snapshot),
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
