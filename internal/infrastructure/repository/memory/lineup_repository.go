package memory

import (
	"context"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
)

type LineupRepository struct {
	store *Store
}

func NewLineupRepository(store *Store) *LineupRepository {
	return &LineupRepository{store: store}
}

func (r *LineupRepository) GetByTeam(_ context.Context, teamID string) (lineup.Lineup, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.lineups[teamID]
	if !ok {
		return lineup.Lineup{}, false, nil
	}

	return lineup.Clone(item), true, nil
}

func (r *LineupRepository) Upsert(_ context.Context, item lineup.Lineup) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.lineups[item.TeamID] = lineup.Clone(item)
	return nil
}
