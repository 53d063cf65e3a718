package lineup

import "context"

// Repository exposes lineup persistence operations.
type Repository interface {
	GetByTeam(ctx context.Context, teamID string) (Lineup, bool, error)
	Upsert(ctx context.Context, lineup Lineup) error
}
