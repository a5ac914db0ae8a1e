package domain

import "errors"

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrNoGamesInMatch         = errors.New("no games in match")
	ErrSnapshotNotFound       = errors.New("snapshot not found")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
	ErrUnknownRuleset         = errors.New("unknown ruleset")
)
