package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/adapters/statsrepository"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
)

type RecordStatsSnapshot func(ctx context.Context, snapshot *domain.PlayerStatsSnapshot) error

type GetComparisonSnapshot func(ctx context.Context, playerID int64, ruleset domain.Ruleset, date time.Time) (*domain.PlayerStatsSnapshot, error)

// toUTCDate truncates a timestamp to its UTC calendar date.
func toUTCDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func BuildRecordStatsSnapshot(repo statsrepository.StatsRepository) RecordStatsSnapshot {
	return func(ctx context.Context, snapshot *domain.PlayerStatsSnapshot) error {
		if snapshot == nil {
			return fmt.Errorf("snapshot is nil")
		}

		normalized := *snapshot
		normalized.Date = toUTCDate(snapshot.Date)

		err := repo.StoreSnapshot(ctx, &normalized)
		if err != nil {
			// NOTE: StatsRepository implementations handle their own error reporting
			return fmt.Errorf("could not store snapshot: %w", err)
		}

		return nil
	}
}

// BuildGetComparisonSnapshot resolves the baseline for "compared to <date>"
// reporting. When no snapshot exists on the requested date the oldest known
// snapshot is used instead, so long-absent players still get a comparison.
func BuildGetComparisonSnapshot(repo statsrepository.StatsRepository) GetComparisonSnapshot {
	return func(ctx context.Context, playerID int64, ruleset domain.Ruleset, date time.Time) (*domain.PlayerStatsSnapshot, error) {
		requested := toUTCDate(date)

		snapshot, err := repo.GetSnapshot(ctx, playerID, ruleset, requested)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			// NOTE: StatsRepository implementations handle their own error reporting
			return nil, fmt.Errorf("could not get snapshot: %w", err)
		}

		logging.FromContext(ctx).Info("No snapshot on requested date, falling back to earliest", "playerID", playerID, "date", requested.Format(time.DateOnly))

		earliest, err := repo.GetEarliestSnapshot(ctx, playerID, ruleset)
		if err != nil {
			return nil, fmt.Errorf("could not get earliest snapshot: %w", err)
		}

		return earliest, nil
	}
}
