package ports

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
)

type hitStatisticsData struct {
	Great        int `json:"great"`
	Ok           int `json:"ok"`
	Meh          int `json:"meh"`
	Miss         int `json:"miss"`
	GoodExtra    int `json:"goodExtra"`
	PerfectExtra int `json:"perfectExtra"`
}

type scorePerformanceRequest struct {
	// Beatmap is the base64 encoded .osu file. Beatmap retrieval is the
	// caller's responsibility.
	Beatmap    string            `json:"beatmap"`
	BeatmapID  int64             `json:"beatmapId"`
	Ruleset    int               `json:"ruleset"`
	Accuracy   float64           `json:"accuracy"`
	MaxCombo   int               `json:"maxCombo"`
	Mods       []string          `json:"mods"`
	Statistics hitStatisticsData `json:"statistics"`
}

type performanceResultData struct {
	PP           float64 `json:"pp"`
	Stars        float64 `json:"stars"`
	AimPP        float64 `json:"aimPP"`
	SpeedPP      float64 `json:"speedPP"`
	AccuracyPP   float64 `json:"accuracyPP"`
	FlashlightPP float64 `json:"flashlightPP"`
}

type scorePerformanceResponse struct {
	Success       bool                   `json:"success"`
	Actual        *performanceResultData `json:"actual,omitempty"`
	Applicable    bool                   `json:"applicable"`
	IfFullComboPP *float64               `json:"ifFullComboPP,omitempty"`
	PerfectPP     *float64               `json:"perfectPP,omitempty"`
	Cause         string                 `json:"cause,omitempty"`
}

func resultToData(result domain.PerformanceResult) *performanceResultData {
	return &performanceResultData{
		PP:           result.PP,
		Stars:        result.Stars,
		AimPP:        result.AimPP,
		SpeedPP:      result.SpeedPP,
		AccuracyPP:   result.AccuracyPP,
		FlashlightPP: result.FlashlightPP,
	}
}

func (request *scorePerformanceRequest) toScore() (domain.Score, []byte, error) {
	ruleset, err := domain.RulesetFromInt(request.Ruleset)
	if err != nil {
		return domain.Score{}, nil, err
	}

	beatmap, err := base64.StdEncoding.DecodeString(request.Beatmap)
	if err != nil {
		return domain.Score{}, nil, err
	}

	return domain.Score{
		Ruleset:   ruleset,
		Accuracy:  request.Accuracy,
		MaxCombo:  request.MaxCombo,
		BeatmapID: request.BeatmapID,
		Mods:      request.Mods,
		Statistics: domain.HitStatistics{
			Great:        request.Statistics.Great,
			Ok:           request.Statistics.Ok,
			Meh:          request.Statistics.Meh,
			Miss:         request.Statistics.Miss,
			GoodExtra:    request.Statistics.GoodExtra,
			PerfectExtra: request.Statistics.PerfectExtra,
		},
	}, beatmap, nil
}

type perfectPerformanceResponse struct {
	Success bool                   `json:"success"`
	Perfect *performanceResultData `json:"perfect,omitempty"`
	Cause   string                 `json:"cause,omitempty"`
}

func MakeComputePerfectPerformanceHandler(
	computePerfectPerformance app.ComputePerfectPerformance,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("perfect_performance"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Failed to read request body"}`))
			return
		}

		request := struct {
			Beatmap   string   `json:"beatmap"`
			BeatmapID int64    `json:"beatmapId"`
			Ruleset   int      `json:"ruleset"`
			Mods      []string `json:"mods"`
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

		beatmap, err := base64.StdEncoding.DecodeString(request.Beatmap)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"cause":"Invalid beatmap encoding"}`))
			return
		}

		perfect, err := computePerfectPerformance(ctx, request.BeatmapID, beatmap, ruleset, request.Mods)
		if err != nil {
			// NOTE: ComputePerfectPerformance implementations handle their own error reporting
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"cause":"Failed to compute perfect performance"}`))
			return
		}

		marshalled, err := json.Marshal(perfectPerformanceResponse{
			Success: true,
			Perfect: resultToData(perfect),
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

func MakeComputeScorePerformanceHandler(
	computeScorePerformance app.ComputeScorePerformance,
	computeHypotheticalPerformance app.ComputeHypotheticalPerformance,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		buildMetricsMiddleware("score_performance"),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"applicable":false,"cause":"Failed to read request body"}`))
			return
		}

		request := scorePerformanceRequest{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"applicable":false,"cause":"Failed to parse request body"}`))
			return
		}

		score, beatmap, err := request.toScore()
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"applicable":false,"cause":"Invalid score"}`))
			return
		}

		actual, err := computeScorePerformance(ctx, score, beatmap)
		if err != nil {
			// NOTE: ComputeScorePerformance implementations handle their own error reporting
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"applicable":false,"cause":"Failed to compute performance"}`))
			return
		}

		hypothetical, err := computeHypotheticalPerformance(ctx, score, beatmap)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"applicable":false,"cause":"Failed to compute hypothetical performance"}`))
			return
		}

		response := scorePerformanceResponse{
			Success:    true,
			Actual:     resultToData(actual),
			Applicable: hypothetical.Applicable,
		}
		if hypothetical.Applicable {
			ifFullComboPP := hypothetical.IfFullComboPP
			perfectPP := hypothetical.PerfectPP
			response.IfFullComboPP = &ifFullComboPP
			response.PerfectPP = &perfectPP
		}

		marshalled, err := json.Marshal(response)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"applicable":false,"cause":"Failed to marshal response"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
