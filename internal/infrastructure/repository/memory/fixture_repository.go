package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/fixture"
)

type FixtureRepository struct {
	store *Store
}

func NewFixtureRepository(store *Store) *FixtureRepository {
	return &FixtureRepository{store: store}
}

func (r *FixtureRepository) ListBetween(_ context.Context, start, end time.Time) ([]fixture.Fixture, error) {
	return r.filter(func(item fixture.Fixture) bool {
		return !item.KickoffAt.Before(start) && item.KickoffAt.Before(end)
	}), nil
}

func (r *FixtureRepository) NextForTeam(_ context.Context, teamID string, from time.Time) (fixture.Fixture, bool, error) {
	items := r.filter(func(item fixture.Fixture) bool {
		return item.Involves(teamID) && !item.KickoffAt.Before(from)
	})
	if len(items) == 0 {
		return fixture.Fixture{}, false, nil
	}
	return items[0], true, nil
}

func (r *FixtureRepository) ListByKickoff(_ context.Context, kickoff time.Time) ([]fixture.Fixture, error) {
	return r.filter(func(item fixture.Fixture) bool {
		return item.KickoffAt.Equal(kickoff)
	}), nil
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.fixtures[fixtureID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return cloneFixture(item), true, nil
}

// filter returns matching unfinished fixtures ordered by kickoff then id.
func (r *FixtureRepository) filter(keep func(fixture.Fixture) bool) []fixture.Fixture {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.store.fixtures {
		if item.Finished() || !keep(item) {
			continue
		}
		out = append(out, cloneFixture(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
