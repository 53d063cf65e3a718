package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/match"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

// SaveResult stores the match, finishes its fixture and writes the players'
// post-match condition in one step.
func (r *MatchRepository) SaveResult(_ context.Context, result match.Result) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	fx, ok := r.store.fixtures[result.FixtureID]
	if !ok {
		return fmt.Errorf("fixture %s not found", result.FixtureID)
	}
	if fx.Finished() {
		return fmt.Errorf("fixture %s already finished", result.FixtureID)
	}
	for _, outcome := range result.Players {
		if _, ok := r.store.players[outcome.PlayerID]; !ok {
			return fmt.Errorf("result references unknown player %s", outcome.PlayerID)
		}
	}

	home, away := result.Home.Goals, result.Away.Goals
	finishedAt := r.store.current
	fx.HomeScore = &home
	fx.AwayScore = &away
	fx.Status = fixture.StatusFinished
	fx.FinishedAt = &finishedAt
	r.store.fixtures[fx.ID] = fx

	for _, outcome := range result.Players {
		p := r.store.players[outcome.PlayerID]
		p.Fitness = outcome.Fitness
		p.Sharpness = outcome.Sharpness
		p.Morale = outcome.Morale
		p.InjuryRemaining = outcome.InjuryRemaining
		p.BanMatches = outcome.BanMatches
		p.YellowCards = outcome.YellowCards
		r.store.players[outcome.PlayerID] = p
	}
	r.store.results[result.MatchID] = result

	return nil
}

func (r *MatchRepository) GetResult(_ context.Context, matchID string) (match.Result, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.results[matchID]
	return item, ok, nil
}
