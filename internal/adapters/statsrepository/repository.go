package statsrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
	"github.com/hitcircle/hitcircle-api/internal/reporting"
)

type PostgresStatsRepository struct {
	db     *sqlx.DB
	schema string
}

func NewPostgresStatsRepository(db *sqlx.DB, schema string) *PostgresStatsRepository {
	return &PostgresStatsRepository{db, schema}
}

type dbSnapshot struct {
	ID              string    `db:"id"`
	PlayerID        int64     `db:"player_id"`
	Ruleset         int       `db:"ruleset"`
	SnapshotDate    time.Time `db:"snapshot_date"`
	PP              float64   `db:"pp"`
	GlobalRank      *int      `db:"global_rank"`
	CountryRank     *int      `db:"country_rank"`
	Accuracy        float64   `db:"accuracy"`
	PlayCount       int       `db:"play_count"`
	PlayTimeSeconds int64     `db:"play_time_seconds"`
	TotalHits       int64     `db:"total_hits"`
}

func dbSnapshotToDomain(row dbSnapshot) (*domain.PlayerStatsSnapshot, error) {
	ruleset, err := domain.RulesetFromInt(row.Ruleset)
	if err != nil {
		return nil, fmt.Errorf("failed to convert stored ruleset: %w", err)
	}

	return &domain.PlayerStatsSnapshot{
		PlayerID:        row.PlayerID,
		Ruleset:         ruleset,
		Date:            row.SnapshotDate.UTC(),
		PP:              row.PP,
		GlobalRank:      row.GlobalRank,
		CountryRank:     row.CountryRank,
		Accuracy:        row.Accuracy,
		PlayCount:       row.PlayCount,
		PlayTimeSeconds: row.PlayTimeSeconds,
		TotalHits:       row.TotalHits,
	}, nil
}

func (r *PostgresStatsRepository) StoreSnapshot(ctx context.Context, snapshot *domain.PlayerStatsSnapshot) error {
	if snapshot == nil {
		err := fmt.Errorf("snapshot is nil")
		reporting.Report(ctx, err)
		return err
	}

	dbID, err := uuid.NewV7()
	if err != nil {
		err := fmt.Errorf("failed to generate db id: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(snapshot.PlayerID, 10),
		})
		return err
	}

	txx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("failed to start transaction: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(snapshot.PlayerID, 10),
		})
		return err
	}
	defer txx.Rollback()

	_, err = txx.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(r.schema)))
	if err != nil {
		err := fmt.Errorf("failed to set search path: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(snapshot.PlayerID, 10),
		})
		return err
	}

	// A second snapshot on the same day replaces the first
	_, err = txx.ExecContext(
		ctx,
		`INSERT INTO player_stats_snapshots
		(id, player_id, ruleset, snapshot_date, pp, global_rank, country_rank, accuracy, play_count, play_time_seconds, total_hits)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (player_id, ruleset, snapshot_date) DO UPDATE SET
			pp = EXCLUDED.pp,
			global_rank = EXCLUDED.global_rank,
			country_rank = EXCLUDED.country_rank,
			accuracy = EXCLUDED.accuracy,
			play_count = EXCLUDED.play_count,
			play_time_seconds = EXCLUDED.play_time_seconds,
			total_hits = EXCLUDED.total_hits`,
		dbID.String(),
		snapshot.PlayerID,
		int(snapshot.Ruleset),
		snapshot.Date,
		snapshot.PP,
		snapshot.GlobalRank,
		snapshot.CountryRank,
		snapshot.Accuracy,
		snapshot.PlayCount,
		snapshot.PlayTimeSeconds,
		snapshot.TotalHits,
	)
	if err != nil {
		err := fmt.Errorf("failed to upsert snapshot: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(snapshot.PlayerID, 10),
		})
		return err
	}

	err = txx.Commit()
	if err != nil {
		err := fmt.Errorf("failed to commit transaction: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(snapshot.PlayerID, 10),
		})
		return err
	}

	logging.FromContext(ctx).Info("Stored stats snapshot", "playerID", snapshot.PlayerID, "ruleset", snapshot.Ruleset.String())

	return nil
}

func (r *PostgresStatsRepository) GetSnapshot(ctx context.Context, playerID int64, ruleset domain.Ruleset, date time.Time) (*domain.PlayerStatsSnapshot, error) {
	var row dbSnapshot
	err := r.db.GetContext(
		ctx,
		&row,
		fmt.Sprintf(
			`SELECT id, player_id, ruleset, snapshot_date, pp, global_rank, country_rank, accuracy, play_count, play_time_seconds, total_hits
			FROM %s.player_stats_snapshots
			WHERE player_id = $1 AND ruleset = $2 AND snapshot_date = $3`,
			pq.QuoteIdentifier(r.schema),
		),
		playerID,
		int(ruleset),
		date,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: player %d on %s", domain.ErrSnapshotNotFound, playerID, date.Format(time.DateOnly))
	}
	if err != nil {
		err := fmt.Errorf("failed to query snapshot: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(playerID, 10),
			"date":     date.Format(time.DateOnly),
		})
		return nil, err
	}

	return dbSnapshotToDomain(row)
}

func (r *PostgresStatsRepository) GetEarliestSnapshot(ctx context.Context, playerID int64, ruleset domain.Ruleset) (*domain.PlayerStatsSnapshot, error) {
	var row dbSnapshot
	err := r.db.GetContext(
		ctx,
		&row,
		fmt.Sprintf(
			`SELECT id, player_id, ruleset, snapshot_date, pp, global_rank, country_rank, accuracy, play_count, play_time_seconds, total_hits
			FROM %s.player_stats_snapshots
			WHERE player_id = $1 AND ruleset = $2
			ORDER BY snapshot_date ASC
			LIMIT 1`,
			pq.QuoteIdentifier(r.schema),
		),
		playerID,
		int(ruleset),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: player %d", domain.ErrSnapshotNotFound, playerID)
	}
	if err != nil {
		err := fmt.Errorf("failed to query earliest snapshot: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"playerID": strconv.FormatInt(playerID, 10),
		})
		return nil, err
	}

	return dbSnapshotToDomain(row)
}
