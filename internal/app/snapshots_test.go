package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/stretchr/testify/require"
)

type mockStatsRepository struct {
	t *testing.T

	storedSnapshots []domain.PlayerStatsSnapshot
	storeErr        error

	snapshotsByDate  map[string]*domain.PlayerStatsSnapshot
	earliestSnapshot *domain.PlayerStatsSnapshot
	queryErr         error
}

func (m *mockStatsRepository) StoreSnapshot(ctx context.Context, snapshot *domain.PlayerStatsSnapshot) error {
	m.t.Helper()
	if m.storeErr != nil {
		return m.storeErr
	}
	m.storedSnapshots = append(m.storedSnapshots, *snapshot)
	return nil
}

func (m *mockStatsRepository) GetSnapshot(ctx context.Context, playerID int64, ruleset domain.Ruleset, date time.Time) (*domain.PlayerStatsSnapshot, error) {
	m.t.Helper()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	snapshot, ok := m.snapshotsByDate[date.Format(time.DateOnly)]
	if !ok {
		return nil, fmt.Errorf("no snapshot: %w", domain.ErrSnapshotNotFound)
	}
	return snapshot, nil
}

func (m *mockStatsRepository) GetEarliestSnapshot(ctx context.Context, playerID int64, ruleset domain.Ruleset) (*domain.PlayerStatsSnapshot, error) {
	m.t.Helper()
	if m.earliestSnapshot == nil {
		return nil, fmt.Errorf("no snapshots: %w", domain.ErrSnapshotNotFound)
	}
	return m.earliestSnapshot, nil
}

func TestRecordStatsSnapshotNormalizesDate(t *testing.T) {
	t.Parallel()

	repo := &mockStatsRepository{t: t}
	recordStatsSnapshot := app.BuildRecordStatsSnapshot(repo)

	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)

	err = recordStatsSnapshot(context.Background(), &domain.PlayerStatsSnapshot{
		PlayerID: 1,
		Ruleset:  domain.RulesetOsu,
		Date:     time.Date(2024, 5, 2, 1, 30, 0, 0, oslo),
		PP:       5432.1,
	})
	require.NoError(t, err)

	require.Len(t, repo.storedSnapshots, 1)
	stored := repo.storedSnapshots[0]
	// 01:30 in Oslo is still the previous day in UTC
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), stored.Date)
	require.Equal(t, 5432.1, stored.PP)
}

func TestRecordStatsSnapshotNilSnapshot(t *testing.T) {
	t.Parallel()

	repo := &mockStatsRepository{t: t}
	recordStatsSnapshot := app.BuildRecordStatsSnapshot(repo)

	err := recordStatsSnapshot(context.Background(), nil)
	require.Error(t, err)
	require.Empty(t, repo.storedSnapshots)
}

func TestGetComparisonSnapshotExactDate(t *testing.T) {
	t.Parallel()

	exact := &domain.PlayerStatsSnapshot{
		PlayerID: 1,
		Ruleset:  domain.RulesetOsu,
		Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		PP:       5000,
	}
	repo := &mockStatsRepository{
		t: t,
		snapshotsByDate: map[string]*domain.PlayerStatsSnapshot{
			"2024-05-01": exact,
		},
		earliestSnapshot: &domain.PlayerStatsSnapshot{PP: 1000},
	}
	getComparisonSnapshot := app.BuildGetComparisonSnapshot(repo)

	snapshot, err := getComparisonSnapshot(context.Background(), 1, domain.RulesetOsu, time.Date(2024, 5, 1, 15, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, exact, snapshot)
}

func TestGetComparisonSnapshotFallsBackToEarliest(t *testing.T) {
	t.Parallel()

	earliest := &domain.PlayerStatsSnapshot{
		PlayerID: 1,
		Ruleset:  domain.RulesetOsu,
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		PP:       1000,
	}
	repo := &mockStatsRepository{
		t:                t,
		earliestSnapshot: earliest,
	}
	getComparisonSnapshot := app.BuildGetComparisonSnapshot(repo)

	snapshot, err := getComparisonSnapshot(context.Background(), 1, domain.RulesetOsu, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, earliest, snapshot)
}

func TestGetComparisonSnapshotNoSnapshots(t *testing.T) {
	t.Parallel()

	repo := &mockStatsRepository{t: t}
	getComparisonSnapshot := app.BuildGetComparisonSnapshot(repo)

	_, err := getComparisonSnapshot(context.Background(), 1, domain.RulesetOsu, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}
