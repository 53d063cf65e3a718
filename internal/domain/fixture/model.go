package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
)

const (
	MinRefereeSeverity     = 0.5
	MaxRefereeSeverity     = 1.5
	DefaultRefereeSeverity = 1.0
)

// Fixture represents one scheduled match.
type Fixture struct {
	ID              string
	LeagueID        string
	Matchday        int
	HomeTeamID      string
	AwayTeamID      string
	KickoffAt       time.Time
	Venue           string
	RefereeSeverity float64
	HomeScore       *int
	AwayScore       *int
	Status          string
	FinishedAt      *time.Time
}

func (f Fixture) Involves(teamID string) bool {
	return f.HomeTeamID == teamID || f.AwayTeamID == teamID
}

func (f Fixture) Finished() bool {
	return IsFinishedStatus(f.Status)
}

// Severity returns the referee severity clamped to the supported range.
func (f Fixture) Severity() float64 {
	switch {
	case f.RefereeSeverity <= 0:
		return DefaultRefereeSeverity
	case f.RefereeSeverity < MinRefereeSeverity:
		return MinRefereeSeverity
	case f.RefereeSeverity > MaxRefereeSeverity:
		return MaxRefereeSeverity
	default:
		return f.RefereeSeverity
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT":
		return true
	default:
		return false
	}
}
