package match

import "github.com/riskibarqy/season-sim/internal/domain/lineup"

type SideSnapshot struct {
	TeamID         string
	Goals          int
	Lineup         lineup.Lineup
	Stats          Stats
	Ratings        map[string]float64
	Fitness        map[string]float64
	Completed      int
	Forced         int
	RemainingQuota int
	Events         []Event
}

// Snapshot is a read-only view of a match in progress.
type Snapshot struct {
	MatchID         string
	FixtureID       string
	Phase           Phase
	Clock           string
	Second          int
	FirstHalfExtra  int
	SecondHalfExtra int
	Home            SideSnapshot
	Away            SideSnapshot
}

func (m *Match) Snapshot() Snapshot {
	return Snapshot{
		MatchID:         m.ID,
		FixtureID:       m.FixtureID,
		Phase:           m.Clock.Phase,
		Clock:           m.Clock.Display(),
		Second:          m.Clock.Second,
		FirstHalfExtra:  m.Clock.FirstHalfExtra,
		SecondHalfExtra: m.Clock.SecondHalfExtra,
		Home:            m.sides[Home].snapshot(),
		Away:            m.sides[Away].snapshot(),
	}
}

func (s *SideState) snapshot() SideSnapshot {
	out := SideSnapshot{
		TeamID:         s.TeamID,
		Goals:          s.Goals,
		Lineup:         s.Squad.Lineup(),
		Stats:          s.Stats,
		Ratings:        make(map[string]float64, len(s.Ratings)),
		Fitness:        make(map[string]float64, len(s.players)),
		Completed:      s.Squad.Completed,
		Forced:         s.Squad.Forced,
		RemainingQuota: s.Squad.RemainingQuota(),
		Events:         s.Events.Events(),
	}
	for playerID, rating := range s.Ratings {
		out.Ratings[playerID] = rating
	}
	for _, playerID := range out.Lineup.PlayerIDs() {
		if fitness, ok := s.Fitness(playerID); ok {
			out.Fitness[playerID] = fitness
		}
	}
	return out
}
