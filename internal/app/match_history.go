package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hitcircle/hitcircle-api/internal/adapters/cache"
	"github.com/hitcircle/hitcircle-api/internal/adapters/matchprovider"
	"github.com/hitcircle/hitcircle-api/internal/domain"
	"github.com/hitcircle/hitcircle-api/internal/logging"
)

type GetMatchHistory func(ctx context.Context, matchID int64) (*domain.MatchHistory, error)

// reconstructMatchHistory fetches the match and, if the first event is not
// the match-created marker, keeps prepending earlier event pages until the
// marker is found. An empty earlier page means the history is exhausted and
// the match is treated as not found.
func reconstructMatchHistory(ctx context.Context, provider matchprovider.MatchProvider, matchID int64) (*domain.MatchHistory, error) {
	logger := logging.FromContext(ctx)

	history, err := provider.GetMatch(ctx, matchID)
	if err != nil {
		// NOTE: MatchProvider implementations handle their own error reporting
		return nil, fmt.Errorf("could not get match: %w", err)
	}

	if len(history.Events) == 0 {
		return nil, fmt.Errorf("%w: match %d has no events", domain.ErrMatchNotFound, matchID)
	}

	for history.Events[0].Type != domain.EventMatchCreated {
		logger.Info("match-created marker not found, fetching earlier events", "matchID", matchID, "beforeEventID", history.Events[0].ID)

		earlier, err := provider.GetMatchBefore(ctx, matchID, history.Events[0].ID)
		if err != nil {
			return nil, fmt.Errorf("could not get earlier match events: %w", err)
		}
		if len(earlier.Events) == 0 {
			return nil, fmt.Errorf("%w: no earlier events for match %d", domain.ErrMatchNotFound, matchID)
		}

		history.Events = append(earlier.Events, history.Events...)
	}

	return history, nil
}

func BuildGetMatchHistory(matchCache cache.Cache[*domain.MatchHistory], provider matchprovider.MatchProvider) GetMatchHistory {
	return func(ctx context.Context, matchID int64) (*domain.MatchHistory, error) {
		history, _, err := cache.GetOrCreate(ctx, matchCache, strconv.FormatInt(matchID, 10), func() (*domain.MatchHistory, error) {
			return reconstructMatchHistory(ctx, provider, matchID)
		})
		if err != nil {
			// NOTE: reconstructMatchHistory handles its own error reporting
			return nil, fmt.Errorf("failed to cache.GetOrCreate match history: %w", err)
		}

		return history, nil
	}
}
