package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/season"
)

type SeasonRepository struct {
	store *Store
}

func NewSeasonRepository(store *Store) *SeasonRepository {
	return &SeasonRepository{store: store}
}

func (r *SeasonRepository) CurrentDate(_ context.Context) (time.Time, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.current, nil
}

func (r *SeasonRepository) SetCurrentDate(_ context.Context, date time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.current = date.UTC()
	return nil
}

// ApplyAdvancement validates the whole batch before touching any row.
func (r *SeasonRepository) ApplyAdvancement(_ context.Context, batch season.Batch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	added := make(map[string]struct{}, len(batch.NewEvents))
	for _, item := range batch.NewEvents {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate calendar event: %w", err)
		}
		if _, exists := r.store.events[item.ID]; exists {
			return fmt.Errorf("calendar event %s already exists", item.ID)
		}
		if _, dup := added[item.ID]; dup {
			return fmt.Errorf("calendar event %s appears twice in batch", item.ID)
		}
		added[item.ID] = struct{}{}
	}
	for _, eventID := range batch.ConsumedEventIDs {
		_, stored := r.store.events[eventID]
		_, fresh := added[eventID]
		if !stored && !fresh {
			return fmt.Errorf("consume unknown calendar event %s", eventID)
		}
	}
	for _, update := range batch.Updates {
		if _, ok := r.store.players[update.PlayerID]; !ok {
			return fmt.Errorf("update unknown player %s", update.PlayerID)
		}
	}

	for _, item := range batch.NewEvents {
		r.store.events[item.ID] = item
	}
	for _, eventID := range batch.ConsumedEventIDs {
		item := r.store.events[eventID]
		item.Consumed = true
		r.store.events[eventID] = item
	}
	for _, update := range batch.Updates {
		p := r.store.players[update.PlayerID]
		p.Fitness = update.Fitness
		p.Sharpness = update.Sharpness
		p.Morale = update.Morale
		p.InjuryRemaining = update.InjuryRemaining
		r.store.players[update.PlayerID] = p
	}

	return nil
}

// NextDelivery returns the first pending inbox delivery strictly after the given time.
func (r *SeasonRepository) NextDelivery(_ context.Context, after time.Time) (time.Time, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx := sort.Search(len(r.store.deliveries), func(i int) bool {
		return r.store.deliveries[i].After(after)
	})
	if idx == len(r.store.deliveries) {
		return time.Time{}, false, nil
	}
	return r.store.deliveries[idx], true, nil
}
