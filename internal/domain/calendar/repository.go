package calendar

import (
	"context"
	"time"
)

// Repository exposes calendar event reads. Writes go through the advancement batch.
type Repository interface {
	// ListByTeamsBetween returns unconsumed events overlapping [start, end).
	ListByTeamsBetween(ctx context.Context, teamIDs []string, start, end time.Time) ([]Event, error)
}
