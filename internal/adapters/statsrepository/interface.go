package statsrepository

import (
	"context"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/domain"
)

type StatsRepository interface {
	// StoreSnapshot upserts the snapshot for its (player, ruleset, date) key.
	StoreSnapshot(ctx context.Context, snapshot *domain.PlayerStatsSnapshot) error
	// GetSnapshot returns the snapshot recorded exactly on the given date, or
	// domain.ErrSnapshotNotFound.
	GetSnapshot(ctx context.Context, playerID int64, ruleset domain.Ruleset, date time.Time) (*domain.PlayerStatsSnapshot, error)
	// GetEarliestSnapshot returns the oldest snapshot for the player and
	// ruleset, or domain.ErrSnapshotNotFound.
	GetEarliestSnapshot(ctx context.Context, playerID int64, ruleset domain.Ruleset) (*domain.PlayerStatsSnapshot, error)
}
