package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/domain/team"
)

// Store keeps the whole save game behind one lock so multi-entity writes
// (advancement batches, match results) are all-or-nothing.
type Store struct {
	mu         sync.RWMutex
	teams      map[string]team.Team
	teamOrder  []string
	players    map[string]player.Player
	fixtures   map[string]fixture.Fixture
	lineups    map[string]lineup.Lineup
	events     map[string]calendar.Event
	results    map[string]match.Result
	deliveries []time.Time
	current    time.Time
}

// Snapshot is the initial content of a Store.
type Snapshot struct {
	CurrentDate time.Time
	Teams       []team.Team
	Players     []player.Player
	Fixtures    []fixture.Fixture
	Lineups     []lineup.Lineup
	Events      []calendar.Event
	Deliveries  []time.Time
}

func NewStore(snapshot Snapshot) *Store {
	s := &Store{
		teams:    make(map[string]team.Team, len(snapshot.Teams)),
		players:  make(map[string]player.Player, len(snapshot.Players)),
		fixtures: make(map[string]fixture.Fixture, len(snapshot.Fixtures)),
		lineups:  make(map[string]lineup.Lineup, len(snapshot.Lineups)),
		events:   make(map[string]calendar.Event, len(snapshot.Events)),
		results:  make(map[string]match.Result),
		current:  snapshot.CurrentDate.UTC(),
	}
	for _, item := range snapshot.Teams {
		if _, exists := s.teams[item.ID]; !exists {
			s.teamOrder = append(s.teamOrder, item.ID)
		}
		s.teams[item.ID] = item
	}
	for _, item := range snapshot.Players {
		s.players[item.ID] = player.Clone(item)
	}
	for _, item := range snapshot.Fixtures {
		s.fixtures[item.ID] = cloneFixture(item)
	}
	for _, item := range snapshot.Lineups {
		s.lineups[item.TeamID] = lineup.Clone(item)
	}
	for _, item := range snapshot.Events {
		s.events[item.ID] = item
	}
	s.deliveries = append(s.deliveries, snapshot.Deliveries...)
	sort.Slice(s.deliveries, func(i, j int) bool { return s.deliveries[i].Before(s.deliveries[j]) })

	return s
}

func cloneFixture(item fixture.Fixture) fixture.Fixture {
	copied := item
	if item.HomeScore != nil {
		v := *item.HomeScore
		copied.HomeScore = &v
	}
	if item.AwayScore != nil {
		v := *item.AwayScore
		copied.AwayScore = &v
	}
	if item.FinishedAt != nil {
		v := *item.FinishedAt
		copied.FinishedAt = &v
	}
	return copied
}
