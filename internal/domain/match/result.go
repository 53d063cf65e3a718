package match

import (
	"context"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
)

type SideResult struct {
	TeamID string
	Goals  int
	Events []Event
	Stats  Stats
	Lineup lineup.Lineup
}

// PlayerOutcome is the condition of a squad member after the final whistle.
type PlayerOutcome struct {
	PlayerID        string
	TeamID          string
	Appeared        bool
	Rating          float64
	Fitness         float64
	Sharpness       float64
	Morale          float64
	InjuryRemaining time.Duration
	BanMatches      int
	YellowCards     int
}

type Result struct {
	MatchID         string
	FixtureID       string
	Home            SideResult
	Away            SideResult
	Players         []PlayerOutcome
	FirstHalfExtra  int
	SecondHalfExtra int
}

// Repository persists finished matches together with the fixture score and
// the players' post-match condition.
type Repository interface {
	SaveResult(ctx context.Context, result Result) error
}
