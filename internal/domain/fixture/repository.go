package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture read operations.
type Repository interface {
	// ListBetween returns unfinished fixtures with kickoff in [start, end).
	ListBetween(ctx context.Context, start, end time.Time) ([]Fixture, error)
	// NextForTeam returns the earliest unfinished fixture of a team kicking off at or after the given time.
	NextForTeam(ctx context.Context, teamID string, from time.Time) (Fixture, bool, error)
	ListByKickoff(ctx context.Context, kickoff time.Time) ([]Fixture, error)
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
}
