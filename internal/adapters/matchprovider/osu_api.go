package matchprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/config"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

const userAgent = "hitcircle-api"

const osuTokenURL = "https://osu.ppy.sh/oauth/token"
const osuMatchURLFormat = "https://osu.ppy.sh/api/v2/matches/%d"

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type osuAPIMatchProvider struct {
	httpClient   HttpClient
	clientID     string
	clientSecret string

	// Client-side pacing so we stay polite to the osu! API during
	// multi-page history reconstruction
	limiter *rate.Limiter

	tokenLock   sync.Mutex
	token       string
	tokenExpiry time.Time

	metrics osuAPIMetricsCollection
}

func NewOsuAPIMatchProvider(httpClient HttpClient, clientID, clientSecret string) (MatchProvider, error) {
	meter := otel.Meter("matchprovider/osu_api")
	metrics, err := setupOsuAPIMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &osuAPIMatchProvider{
		httpClient:   httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		limiter:      rate.NewLimiter(rate.Limit(2), 5),
		metrics:      metrics,
	}, nil
}

func (o *osuAPIMatchProvider) GetMatch(ctx context.Context, matchID int64) (*domain.MatchHistory, error) {
	return o.getMatchPage(ctx, matchID, nil)
}

func (o *osuAPIMatchProvider) GetMatchBefore(ctx context.Context, matchID int64, beforeEventID int64) (*domain.MatchHistory, error) {
	return o.getMatchPage(ctx, matchID, &beforeEventID)
}

func (o *osuAPIMatchProvider) getMatchPage(ctx context.Context, matchID int64, beforeEventID *int64) (*domain.MatchHistory, error) {
	logger := logging.FromContext(ctx)

	err := o.limiter.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	token, err := o.getToken(ctx)
	if err != nil {
		// NOTE: getToken handles its own error reporting
		return nil, fmt.Errorf("failed to get api token: %w", err)
	}

	requestURL := fmt.Sprintf(osuMatchURLFormat, matchID)
	if beforeEventID != nil {
		requestURL = fmt.Sprintf("%s?before=%d", requestURL, *beforeEventID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to send request: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read response body: %w", err)
		logger.Error(err.Error())
		reporting.Report(ctx, err)
		return nil, err
	}
	logger.Info("osu api request completed", "url", requestURL, "status", resp.StatusCode, "duration", time.Since(start).String())

	o.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(attribute.Int("status_code", resp.StatusCode)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: match %d", domain.ErrMatchNotFound, matchID)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: osu api returned status %d", domain.ErrTemporarilyUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		err := fmt.Errorf("osu api returned unexpected status %d", resp.StatusCode)
		reporting.Report(ctx, err, map[string]string{
			"data": string(data),
		})
		return nil, err
	}

	return osuMatchResponseToMatchHistory(ctx, data)
}

type osuTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (o *osuAPIMatchProvider) getToken(ctx context.Context) (string, error) {
	o.tokenLock.Lock()
	defer o.tokenLock.Unlock()

	if o.token != "" && time.Now().Before(o.tokenExpiry) {
		return o.token, nil
	}

	form := url.Values{}
	form.Set("client_id", o.clientID)
	form.Set("client_secret", o.clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "public")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, osuTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		err := fmt.Errorf("failed to create token request: %w", err)
		reporting.Report(ctx, err)
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to send token request: %w", err)
		reporting.Report(ctx, err)
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read token response: %w", err)
		reporting.Report(ctx, err)
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
		reporting.Report(ctx, err)
		return "", err
	}

	var token osuTokenResponse
	err = json.Unmarshal(data, &token)
	if err != nil {
		err := fmt.Errorf("failed to parse token response: %w", err)
		reporting.Report(ctx, err)
		return "", err
	}

	o.token = token.AccessToken
	// Refresh slightly early to avoid using a token that expires in flight
	o.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - 30*time.Second)

	return o.token, nil
}

type osuAPIMetricsCollection struct {
	requestCount metric.Int64Counter
}

func setupOsuAPIMetrics(meter metric.Meter) (osuAPIMetricsCollection, error) {
	requestCount, err := meter.Int64Counter("matchprovider/osu_api/request_count")
	if err != nil {
		return osuAPIMetricsCollection{}, fmt.Errorf("failed to create metric: %w", err)
	}

	return osuAPIMetricsCollection{
		requestCount: requestCount,
	}, nil
}

type mockedMatchProvider struct{}

func (m *mockedMatchProvider) GetMatch(ctx context.Context, matchID int64) (*domain.MatchHistory, error) {
	return &domain.MatchHistory{
		ID: matchID,
		Events: []domain.MatchEvent{
			{ID: 1, Type: domain.EventMatchCreated},
		},
	}, nil
}

func (m *mockedMatchProvider) GetMatchBefore(ctx context.Context, matchID int64, beforeEventID int64) (*domain.MatchHistory, error) {
	return &domain.MatchHistory{ID: matchID, Events: []domain.MatchEvent{}}, nil
}

func NewOsuAPIMatchProviderOrMock(conf config.Config, httpClient HttpClient) (MatchProvider, error) {
	if conf.OsuClientID() != "" && conf.OsuClientSecret() != "" {
		return NewOsuAPIMatchProvider(httpClient, conf.OsuClientID(), conf.OsuClientSecret())
	}
	if conf.IsDevelopment() {
		return &mockedMatchProvider{}, nil
	}
	return nil, fmt.Errorf("Missing osu api credentials in non-development environment")
}
