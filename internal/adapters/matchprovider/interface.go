package matchprovider

import (
	"context"

	"github.com/hitcircle/hitcircle-api/internal/domain"
)

type MatchProvider interface {
	// Raises domain.ErrMatchNotFound if the match does not exist
	//
	// Raises domain.ErrTemporarilyUnavailable if the provider implementation receives an error believed to be intermittent. The call may be retried later.
	GetMatch(ctx context.Context, matchID int64) (*domain.MatchHistory, error)

	// GetMatchBefore returns the page of match events strictly before the
	// given event id. An empty Events slice means no further history exists.
	GetMatchBefore(ctx context.Context, matchID int64, beforeEventID int64) (*domain.MatchHistory, error)
}
