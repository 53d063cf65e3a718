package condition

import (
	"sort"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/interval"
	"github.com/riskibarqy/season-sim/internal/domain/player"
)

// Tuning holds the passive rates and per-event effects.
type Tuning struct {
	FitnessRecoveryPerHour float64          `yaml:"fitness_recovery_per_hour"`
	SharpnessDecayPerHour  float64          `yaml:"sharpness_decay_per_hour"`
	Effects                calendar.Effects `yaml:"effects"`
}

func DefaultTuning() Tuning {
	return Tuning{
		FitnessRecoveryPerHour: 0.5,
		SharpnessDecayPerHour:  0.1,
		Effects:                calendar.DefaultEffects(),
	}
}

// Update is the new condition of one player after a window.
type Update struct {
	PlayerID        string
	TeamID          string
	Fitness         float64
	Sharpness       float64
	Morale          float64
	InjuryRemaining time.Duration
}

// TeamResult is the outcome of running the engine for one team.
type TeamResult struct {
	TeamID           string
	Updates          []Update
	ConsumedEventIDs []string
}

func (r TeamResult) Empty() bool {
	return len(r.Updates) == 0 && len(r.ConsumedEventIDs) == 0
}

// InjurySplits returns the moments inside [start, end) at which injured players become fit.
func InjurySplits(start, end time.Time, players []player.Player) []time.Time {
	out := make([]time.Time, 0)
	for _, p := range players {
		if !p.Injured() {
			continue
		}
		healed := start.Add(p.InjuryRemaining)
		if healed.After(start) && healed.Before(end) {
			out = append(out, healed)
		}
	}
	return out
}

// Run walks the intervals of [start, end) in order for one team. Each unconsumed
// event is applied once, on the first interval it is active in; intervals with
// no active event get passive recovery scaled by their length.
func Run(teamID string, start, end time.Time, players []player.Player, events []calendar.Event, intervals []interval.Interval, tuning Tuning) TeamResult {
	if tuning.Effects == nil {
		tuning.Effects = calendar.DefaultEffects()
	}

	teamEvents := make([]calendar.Event, 0, len(events))
	for _, e := range events {
		if e.TeamID == teamID && !e.Consumed {
			teamEvents = append(teamEvents, e)
		}
	}
	sort.SliceStable(teamEvents, func(i, j int) bool { return teamEvents[i].Start.Before(teamEvents[j].Start) })

	state := make([]player.Player, 0, len(players))
	healedAt := make([]time.Time, 0, len(players))
	for _, p := range players {
		if p.TeamID != teamID {
			continue
		}
		state = append(state, player.Clone(p))
		healedAt = append(healedAt, start.Add(p.InjuryRemaining))
	}

	applied := make(map[string]bool, len(teamEvents))
	consumed := make([]string, 0, len(teamEvents))
	for _, iv := range intervals {
		hours := iv.Duration().Hours()

		var active []calendar.Event
		for _, e := range teamEvents {
			if e.Overlaps(iv.Start, iv.End) {
				active = append(active, e)
			}
		}

		for i := range state {
			injured := iv.Start.Before(healedAt[i])
			if len(active) == 0 || injured {
				sharpness := -tuning.SharpnessDecayPerHour * hours
				if injured {
					sharpness = 0
				}
				state[i].Adjust(tuning.FitnessRecoveryPerHour*hours, sharpness, 0)
				continue
			}
			for _, e := range active {
				if applied[e.ID] {
					continue
				}
				effect := tuning.Effects[e.Type]
				state[i].Adjust(effect.Fitness, effect.Sharpness, effect.Morale)
			}
		}

		for _, e := range active {
			if !applied[e.ID] {
				applied[e.ID] = true
				consumed = append(consumed, e.ID)
			}
		}
	}

	elapsed := end.Sub(start)
	out := TeamResult{TeamID: teamID, ConsumedEventIDs: consumed, Updates: make([]Update, 0, len(state))}
	for _, p := range state {
		remaining := p.InjuryRemaining - elapsed
		if remaining < 0 || p.InjuryRemaining <= 0 {
			remaining = 0
		}
		out.Updates = append(out.Updates, Update{
			PlayerID:        p.ID,
			TeamID:          teamID,
			Fitness:         p.Fitness,
			Sharpness:       p.Sharpness,
			Morale:          p.Morale,
			InjuryRemaining: remaining,
		})
	}
	return out
}
