package difficulty

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hitcircle/hitcircle-api/internal/config"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// httpModel calls out to a difficulty calculator service. The service wraps
// the reference performance calculator and is versioned independently of
// this API.
type httpModel struct {
	httpClient HttpClient
	baseURL    string
}

func NewHTTPModel(httpClient HttpClient, baseURL string) Model {
	return &httpModel{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

type calculateRequest struct {
	Beatmap  string   `json:"beatmap"`
	Ruleset  string   `json:"ruleset"`
	Mods     []string `json:"mods"`
	Accuracy float64  `json:"accuracy"`

	Combo        *int `json:"combo,omitempty"`
	Great        *int `json:"great,omitempty"`
	Ok           *int `json:"ok,omitempty"`
	Meh          *int `json:"meh,omitempty"`
	Miss         *int `json:"miss,omitempty"`
	GoodExtra    *int `json:"goodExtra,omitempty"`
	PerfectExtra *int `json:"perfectExtra,omitempty"`
}

type calculateResponse struct {
	PP           float64 `json:"pp"`
	Stars        float64 `json:"stars"`
	MaxCombo     int     `json:"maxCombo"`
	AimPP        float64 `json:"aimPP"`
	SpeedPP      float64 `json:"speedPP"`
	AccuracyPP   float64 `json:"accuracyPP"`
	FlashlightPP float64 `json:"flashlightPP"`
}

func (m *httpModel) Calculate(ctx context.Context, beatmap []byte, params Params) (domain.PerformanceAttributes, error) {
	payload, err := json.Marshal(calculateRequest{
		Beatmap:      base64.StdEncoding.EncodeToString(beatmap),
		Ruleset:      params.Ruleset.String(),
		Mods:         params.Mods,
		Accuracy:     params.Accuracy,
		Combo:        params.Combo,
		Great:        params.Great,
		Ok:           params.Ok,
		Meh:          params.Meh,
		Miss:         params.Miss,
		GoodExtra:    params.GoodExtra,
		PerfectExtra: params.PerfectExtra,
	})
	if err != nil {
		err := fmt.Errorf("failed to marshal calculate request: %w", err)
		reporting.Report(ctx, err)
		return domain.PerformanceAttributes{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/calculate", bytes.NewReader(payload))
	if err != nil {
		err := fmt.Errorf("failed to create calculate request: %w", err)
		reporting.Report(ctx, err)
		return domain.PerformanceAttributes{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to call difficulty model: %w", err)
		reporting.Report(ctx, err)
		return domain.PerformanceAttributes{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read difficulty model response: %w", err)
		reporting.Report(ctx, err)
		return domain.PerformanceAttributes{}, err
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("difficulty model returned status %d", resp.StatusCode)
		reporting.Report(ctx, err, map[string]string{
			"status": resp.Status,
		})
		return domain.PerformanceAttributes{}, err
	}

	var parsed calculateResponse
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		err := fmt.Errorf("failed to parse difficulty model response: %w", err)
		reporting.Report(ctx, err)
		return domain.PerformanceAttributes{}, err
	}

	return domain.PerformanceAttributes{
		PP:           parsed.PP,
		Stars:        parsed.Stars,
		MaxCombo:     parsed.MaxCombo,
		AimPP:        parsed.AimPP,
		SpeedPP:      parsed.SpeedPP,
		AccuracyPP:   parsed.AccuracyPP,
		FlashlightPP: parsed.FlashlightPP,
	}, nil
}

type mockedModel struct{}

func (m *mockedModel) Calculate(ctx context.Context, beatmap []byte, params Params) (domain.PerformanceAttributes, error) {
	// Deterministic placeholder attributes for local development
	misses := 0
	if params.Miss != nil {
		misses = *params.Miss
	}
	pp := params.Accuracy * 3
	if misses > 0 {
		pp = pp / float64(1+misses)
	}
	return domain.PerformanceAttributes{
		PP:       pp,
		Stars:    5,
		MaxCombo: 1000,
	}, nil
}

func NewHTTPModelOrMock(conf config.Config, httpClient HttpClient) (Model, error) {
	if conf.DifficultyModelURL() != "" {
		return NewHTTPModel(httpClient, conf.DifficultyModelURL()), nil
	}
	if conf.IsDevelopment() {
		return &mockedModel{}, nil
	}
	return nil, fmt.Errorf("missing difficulty model url in non-development environment")
}
