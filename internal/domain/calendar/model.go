package calendar

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventTraining         EventType = "Training"
	EventLightTraining    EventType = "Light Training"
	EventMatchPreparation EventType = "Match Preparation"
	EventRecoverySession  EventType = "Recovery Session"
	EventRestDay          EventType = "Rest Day"
	EventTeamBuilding     EventType = "Team Building"
)

// Effect is the fixed attribute change a calendar event applies to every fit squad member.
type Effect struct {
	Fitness   float64 `yaml:"fitness"`
	Sharpness float64 `yaml:"sharpness"`
	Morale    float64 `yaml:"morale"`
}

// Effects maps each event type to its effect.
type Effects map[EventType]Effect

func DefaultEffects() Effects {
	return Effects{
		EventTraining:         {Fitness: -8, Sharpness: 6},
		EventLightTraining:    {Fitness: -3, Sharpness: 3},
		EventMatchPreparation: {Fitness: -2, Sharpness: 4},
		EventRecoverySession:  {Fitness: 12, Sharpness: -1},
		EventRestDay:          {Fitness: 8, Sharpness: -2},
		EventTeamBuilding:     {Morale: 5},
	}
}

// Event is a scheduled team activity.
type Event struct {
	ID       string
	TeamID   string
	Type     EventType
	Start    time.Time
	End      time.Time
	Consumed bool
}

func (e Event) Validate() error {
	if e.TeamID == "" {
		return fmt.Errorf("calendar event team id is required")
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("calendar event %s ends before it starts", e.ID)
	}
	if _, ok := DefaultEffects()[e.Type]; !ok {
		return fmt.Errorf("unknown calendar event type %q", e.Type)
	}
	return nil
}

// Overlaps reports whether the event is active at any point of [start, end).
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.End.After(start)
}
