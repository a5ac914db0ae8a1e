package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/adapters/cache"
	"github.com/hitcircle/hitcircle-api/internal/adapters/database"
	"github.com/hitcircle/hitcircle-api/internal/adapters/difficulty"
	"github.com/hitcircle/hitcircle-api/internal/adapters/matchprovider"
	"github.com/hitcircle/hitcircle-api/internal/adapters/statsrepository"
	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/config"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/ports"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
	"github.com/hitcircle/hitcircle-api/internal/telemetry"
	"github.com/google/uuid"
)

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	if !config.IsDevelopment() {
		shutdownTelemetry, err := telemetry.SetupOTelSDK(context.Background(), "hitcircle-api")
		if err != nil {
			fail("Failed to initialize telemetry", "error", err.Error())
		}
		defer shutdownTelemetry(context.Background())
	}

	attributeCache := cache.NewTTLCache[domain.PerformanceAttributes](24 * time.Hour)
	matchCache := cache.NewTTLCache[*domain.MatchHistory](10 * time.Minute)

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	matchProvider, err := matchprovider.NewOsuAPIMatchProviderOrMock(config, httpClient)
	if err != nil {
		fail("Failed to initialize osu! API match provider", "error", err.Error())
	}
	logger.Info("Initialized osu! API match provider")

	difficultyModel, err := difficulty.NewHTTPModelOrMock(config, httpClient)
	if err != nil {
		fail("Failed to initialize difficulty model", "error", err.Error())
	}
	logger.Info("Initialized difficulty model")

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewConfiguredPostgresDatabase(config)
	if err != nil {
		fail("Failed to initialize database connection", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	repositorySchemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(context.Background(), repositorySchemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	statsRepo := statsrepository.NewPostgresStatsRepository(db, repositorySchemaName)
	logger.Info("Initialized StatsRepository")

	computeScorePerformance := app.BuildComputeScorePerformance(difficultyModel)
	computeHypotheticalPerformance := app.BuildComputeHypotheticalPerformance(difficultyModel)

	getMatchHistory := app.BuildGetMatchHistory(matchCache, matchProvider)
	getMatchRatingReport := app.BuildGetMatchRatingReport(getMatchHistory)

	recordStatsSnapshot := app.BuildRecordStatsSnapshot(statsRepo)
	getComparisonSnapshot := app.BuildGetComparisonSnapshot(statsRepo)

	computePerfectPerformance := app.BuildComputePerfectPerformance(attributeCache, difficultyModel)

	http.HandleFunc(
		"POST /v1/pp/target",
		ports.MakeFindTargetPPHandler(
			logger.With("port", "target_pp"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"POST /v1/pp/breakdown",
		ports.MakeTopPlayBreakdownHandler(
			logger.With("port", "top_play_breakdown"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"POST /v1/performance/score",
		ports.MakeComputeScorePerformanceHandler(
			computeScorePerformance,
			computeHypotheticalPerformance,
			logger.With("port", "score_performance"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"POST /v1/performance/perfect",
		ports.MakeComputePerfectPerformanceHandler(
			computePerfectPerformance,
			logger.With("port", "perfect_performance"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"GET /v1/matches/{matchID}/rating",
		ports.MakeGetMatchRatingHandler(
			getMatchRatingReport,
			logger.With("port", "match_rating"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"POST /v1/players/{playerID}/snapshots",
		ports.MakeRecordSnapshotHandler(
			recordStatsSnapshot,
			logger.With("port", "record_snapshot"),
			sentryMiddleware,
		),
	)

	http.HandleFunc(
		"GET /v1/players/{playerID}/snapshots/comparison",
		ports.MakeGetComparisonSnapshotHandler(
			getComparisonSnapshot,
			logger.With("port", "comparison_snapshot"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
