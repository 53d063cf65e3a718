package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/team"
	basecache "github.com/riskibarqy/season-sim/internal/platform/cache"
)

type found[T any] struct {
	value  T
	exists bool
}

// TeamRepository caches the team list and lookups. Teams do not change during
// a season, so the cache is never invalidated.
type TeamRepository struct {
	next team.Repository
	list *basecache.Store[[]team.Team]
	byID *basecache.Store[found[team.Team]]
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{
		next: next,
		list: basecache.NewStore[[]team.Team](ttl),
		byID: basecache.NewStore[found[team.Team]](ttl),
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := r.list.GetOrLoad(ctx, "team:list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, "team:id:"+teamID, func(ctx context.Context) (found[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return found[team.Team]{}, err
		}
		return found[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

// LineupRepository is a read-through cache; Upsert writes through and drops the entry.
type LineupRepository struct {
	next  lineup.Repository
	store *basecache.Store[found[lineup.Lineup]]
}

func NewLineupRepository(next lineup.Repository, ttl time.Duration) *LineupRepository {
	return &LineupRepository{next: next, store: basecache.NewStore[found[lineup.Lineup]](ttl)}
}

func (r *LineupRepository) GetByTeam(ctx context.Context, teamID string) (lineup.Lineup, bool, error) {
	cached, err := r.store.GetOrLoad(ctx, lineupKey(teamID), func(ctx context.Context) (found[lineup.Lineup], error) {
		item, exists, err := r.next.GetByTeam(ctx, teamID)
		if err != nil {
			return found[lineup.Lineup]{}, err
		}
		return found[lineup.Lineup]{value: cloneLineup(item), exists: exists}, nil
	})
	if err != nil {
		return lineup.Lineup{}, false, err
	}
	return cloneLineup(cached.value), cached.exists, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, item lineup.Lineup) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.store.Delete(ctx, lineupKey(item.TeamID))
	return nil
}

func cloneLineup(item lineup.Lineup) lineup.Lineup {
	out := item
	if item.Slots != nil {
		out.Slots = make(map[lineup.Slot]string, len(item.Slots))
		for slot, playerID := range item.Slots {
			out.Slots[slot] = playerID
		}
	}
	out.Substitutes = append([]string(nil), item.Substitutes...)
	return out
}

func lineupKey(teamID string) string {
	return "lineup:team:" + teamID
}
