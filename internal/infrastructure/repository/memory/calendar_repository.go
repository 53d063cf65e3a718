package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
)

type CalendarRepository struct {
	store *Store
}

func NewCalendarRepository(store *Store) *CalendarRepository {
	return &CalendarRepository{store: store}
}

func (r *CalendarRepository) ListByTeamsBetween(_ context.Context, teamIDs []string, start, end time.Time) ([]calendar.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]struct{}, len(teamIDs))
	for _, teamID := range teamIDs {
		wanted[teamID] = struct{}{}
	}

	out := make([]calendar.Event, 0)
	for _, item := range r.store.events {
		if item.Consumed || !item.Overlaps(start, end) {
			continue
		}
		if _, ok := wanted[item.TeamID]; !ok {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
