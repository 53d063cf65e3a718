package match

import (
	"math"
	"slices"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/player"
)

// tick is the clock window [from, to) being simulated.
// tick is a slice of play. Events land in [from, to) and never outside the
// phase window [floor, limit).
type tick struct {
	from  int
	to    int
	half  int
	added bool
	floor int
	limit int
}

type strength struct {
	attack    float64
	defence   float64
	sharpness float64
	morale    float64
	fitness   float64
	players   int
	keeper    string
}

func (s *SideState) strength() strength {
	var out strength
	for _, slot := range lineup.OrderedSlots(s.Squad.Slots) {
		p := s.players[s.Squad.Slots[slot]]
		weight := float64(p.Ability) * (0.5 + 0.5*p.Fitness/player.MaxAttribute)
		switch slot.Role() {
		case lineup.RoleGoalkeeper:
			out.keeper = p.ID
		case lineup.RoleDefender:
			out.defence += weight
		case lineup.RoleMidfielder:
			out.attack += weight / 2
			out.defence += weight / 2
		case lineup.RoleForward:
			out.attack += weight
		}
		out.sharpness += p.Sharpness
		out.morale += p.Morale
		out.fitness += p.Fitness
		out.players++
	}
	if out.players > 0 {
		n := float64(out.players)
		out.sharpness /= n
		out.morale /= n
		out.fitness /= n
	}
	return out
}

func (m *Match) playSide(t tick, side Side) []Event {
	s := m.sides[side]
	m.drain(s, t)

	var events []Event
	events = append(events, m.attack(t, side)...)
	events = append(events, m.discipline(t, side.Opponent())...)
	events = append(events, m.injure(t, side)...)
	if s.AutoSubstitute {
		events = append(events, m.autoSubstitute(t, side)...)
	}
	return events
}

func (m *Match) drain(s *SideState, t tick) {
	share := float64(t.to-t.from) / TickSeconds
	for _, playerID := range s.Squad.OnPitchIDs() {
		s.players[playerID].Adjust(-m.tuning.FitnessDrainPerTick*share, m.tuning.SharpnessGainPerTick*share, 0)
	}
}

func (m *Match) goalChance(att, def strength) float64 {
	ratio := 1.0
	if def.defence > 0 {
		ratio = att.attack / def.defence
	}
	ratio = math.Max(0.25, math.Min(4, ratio))
	p := m.tuning.GoalChance * ratio
	p *= 0.8 + 0.4*att.sharpness/player.MaxAttribute
	p *= 0.9 + 0.2*att.morale/player.MaxAttribute
	if def.keeper == "" {
		p *= 1.5
	}
	return math.Min(p, 0.5)
}

func (m *Match) attack(t tick, side Side) []Event {
	att, def := m.sides[side], m.sides[side.Opponent()]
	as, ds := att.strength(), def.strength()
	p := m.goalChance(as, ds)

	if m.rng.Float64() < p {
		return m.goal(t, side, ds)
	}

	if m.rng.Float64() >= m.tuning.ShotChance*(p/m.tuning.GoalChance) {
		return nil
	}
	onTarget := m.rng.Float64() < m.tuning.OnTargetShare
	shooter := m.pickOnPitch(att, attackWeight)
	att.Stats.Add(StatShots, 1)
	att.Stats.XG += 0.04
	if onTarget {
		att.Stats.Add(StatShotsOnTarget, 1)
		att.Ratings.Adjust(shooter, m.tuning.Ratings.ShotOnTarget)
		if ds.keeper != "" {
			def.Stats.Add(StatSaves, 1)
			def.Ratings.Adjust(ds.keeper, m.tuning.Ratings.Save)
		}
		return nil
	}
	if m.rng.Float64() < m.tuning.CornerShare {
		att.Stats.Add(StatCorners, 1)
	}
	return nil
}

func (m *Match) goal(t tick, side Side, ds strength) []Event {
	att, def := m.sides[side], m.sides[side.Opponent()]
	kind := m.rng.Float64()

	switch {
	case kind < m.tuning.OwnGoalShare:
		conceder := m.pickOnPitch(def, defenceWeight)
		def.Ratings.Adjust(conceder, m.tuning.Ratings.OwnGoal)
		m.scored(att, def, ds)
		return []Event{m.record(side, t, Event{Type: EventOwnGoal, PlayerID: conceder})}

	case kind < m.tuning.OwnGoalShare+m.tuning.PenaltyShare:
		taker := m.penaltyTaker(att)
		att.Stats.Add(StatPenalties, 1)
		att.Stats.Add(StatShots, 1)
		att.Stats.Add(StatShotsOnTarget, 1)
		att.Stats.XG += 0.76
		if ds.keeper == "" || m.rng.Float64() < m.tuning.PenaltyConversion {
			att.Ratings.Adjust(taker, m.tuning.Ratings.Goal)
			m.scored(att, def, ds)
			return []Event{m.record(side, t, Event{Type: EventPenaltyGoal, PlayerID: taker})}
		}
		att.Ratings.Adjust(taker, m.tuning.Ratings.PenaltyMiss)
		def.Stats.Add(StatSaves, 1)
		def.Ratings.Adjust(ds.keeper, m.tuning.Ratings.PenaltySave)
		return []Event{m.record(side, t, Event{Type: EventPenaltyMiss, PlayerID: taker})}

	default:
		scorer := m.pickOnPitch(att, attackWeight)
		var assist string
		if m.rng.Float64() < m.tuning.AssistChance {
			assist = m.pickOnPitch(att, func(slot lineup.Slot, p *player.Player) float64 {
				if p.ID == scorer {
					return 0
				}
				return attackWeight(slot, p)
			})
		}
		att.Stats.Add(StatShots, 1)
		att.Stats.Add(StatShotsOnTarget, 1)
		att.Stats.Add(StatBigChances, 1)
		att.Stats.XG += 0.35
		att.Ratings.Adjust(scorer, m.tuning.Ratings.Goal)
		att.Ratings.Adjust(assist, m.tuning.Ratings.Assist)
		m.scored(att, def, ds)
		return []Event{m.record(side, t, Event{Type: EventGoal, PlayerID: scorer, AssistID: assist})}
	}
}

func (m *Match) scored(att, def *SideState, ds strength) {
	att.Goals++
	att.Stats.Add(StatGoals, 1)
	def.Ratings.Adjust(ds.keeper, m.tuning.Ratings.Conceded)
}

// penaltyTaker is the strongest outfield player on the pitch.
func (m *Match) penaltyTaker(s *SideState) string {
	best, bestAbility := "", -1
	for _, slot := range lineup.OrderedSlots(s.Squad.Slots) {
		if slot.Role() == lineup.RoleGoalkeeper {
			continue
		}
		p := s.players[s.Squad.Slots[slot]]
		if p.Ability > bestAbility {
			best, bestAbility = p.ID, p.Ability
		}
	}
	if best == "" {
		return s.Squad.Slots[lineup.SlotGoalkeeper]
	}
	return best
}

// discipline plays the defending side's fouls and cards.
func (m *Match) discipline(t tick, offender Side) []Event {
	s := m.sides[offender]
	red := m.tuning.RedChance * m.Severity
	yellow := m.tuning.YellowChance * m.Severity
	foul := m.tuning.FoulChance * m.Severity

	r := m.rng.Float64()
	if r >= red+yellow+foul {
		if m.rng.Float64() < m.tuning.DefensiveActionChance {
			actor := m.pickOnPitch(s, defenceWeight)
			if m.rng.IntN(2) == 0 {
				s.Stats.Add(StatTackles, 1)
			} else {
				s.Stats.Add(StatInterceptions, 1)
			}
			s.Ratings.Adjust(actor, m.tuning.Ratings.DefensiveAction)
		}
		return nil
	}

	culprit := m.pickOnPitch(s, foulWeight)
	if culprit == "" {
		return nil
	}
	s.Stats.Add(StatFouls, 1)
	s.Ratings.Adjust(culprit, m.tuning.Ratings.Foul)

	switch {
	case r < red:
		return m.sendOff(t, offender, culprit)
	case r < red+yellow:
		s.yellows[culprit]++
		s.Stats.Add(StatYellowCards, 1)
		s.Ratings.Adjust(culprit, m.tuning.Ratings.YellowCard)
		events := []Event{m.record(offender, t, Event{Type: EventYellowCard, PlayerID: culprit})}
		if s.yellows[culprit] >= 2 {
			events = append(events, m.sendOff(t, offender, culprit)...)
		}
		return events
	default:
		return nil
	}
}

func (m *Match) sendOff(t tick, side Side, playerID string) []Event {
	s := m.sides[side]
	s.sentOff[playerID] = true
	s.Stats.Add(StatRedCards, 1)
	s.Ratings.Adjust(playerID, m.tuning.Ratings.RedCard)
	events := []Event{m.record(side, t, Event{Type: EventRedCard, PlayerID: playerID})}
	return append(events, m.forceOff(t, side, playerID, lineup.RemovalRedCard)...)
}

func (m *Match) injure(t tick, side Side) []Event {
	s := m.sides[side]
	st := s.strength()
	p := m.tuning.InjuryChance * (1 + (player.MaxAttribute-st.fitness)/50)
	if m.rng.Float64() >= p {
		return nil
	}

	victim := m.pickOnPitch(s, func(_ lineup.Slot, p *player.Player) float64 {
		return player.MaxAttribute + 5 - p.Fitness
	})
	if victim == "" {
		return nil
	}
	days := 1 + m.rng.IntN(m.tuning.MaxInjuryDays)
	s.injuries[victim] = time.Duration(days) * 24 * time.Hour

	events := []Event{m.record(side, t, Event{Type: EventInjury, PlayerID: victim})}
	return append(events, m.forceOff(t, side, victim, lineup.RemovalInjury)...)
}

func (m *Match) forceOff(t tick, side Side, playerID string, reason lineup.RemovalReason) []Event {
	s := m.sides[side]
	outcome, err := s.Squad.ForceOff(playerID, reason)
	if err != nil || outcome.Substitution == nil {
		return nil
	}
	return []Event{m.recordSubstitution(side, t, *outcome.Substitution)}
}

// autoSubstitute replaces tired outfield players of engine-managed sides.
func (m *Match) autoSubstitute(t tick, side Side) []Event {
	if t.from/60 < m.tuning.AutoSubFromMinute {
		return nil
	}
	s := m.sides[side]

	type tired struct {
		id      string
		slot    lineup.Slot
		fitness float64
	}
	var candidates []tired
	for _, slot := range lineup.OrderedSlots(s.Squad.Slots) {
		if slot.Role() == lineup.RoleGoalkeeper {
			continue
		}
		p := s.players[s.Squad.Slots[slot]]
		if p.Fitness < m.tuning.AutoSubFitness {
			candidates = append(candidates, tired{id: p.ID, slot: slot, fitness: p.Fitness})
		}
	}
	slices.SortStableFunc(candidates, func(a, b tired) int {
		switch {
		case a.fitness < b.fitness:
			return -1
		case a.fitness > b.fitness:
			return 1
		default:
			return 0
		}
	})

	var events []Event
	for _, c := range candidates {
		if s.Squad.RemainingQuota() == 0 {
			break
		}
		in := s.Squad.SuggestReplacement(c.slot)
		if in == "" {
			continue
		}
		res := s.Squad.Apply([]lineup.Change{{Kind: lineup.ChangeSubstitute, PlayerOutID: c.id, PlayerInID: in}})
		for _, sub := range res.Substitutions {
			events = append(events, m.recordSubstitution(side, t, sub))
		}
	}
	return events
}

func (m *Match) recordSubstitution(side Side, t tick, sub lineup.Substitution) Event {
	s := m.sides[side]
	s.appeared[sub.PlayerOnID] = true
	s.Ratings.Ensure(sub.PlayerOnID)
	return m.record(side, t, Event{
		Type:       EventSubstitution,
		PlayerID:   sub.PlayerOffID,
		PlayerInID: sub.PlayerOnID,
		Slot:       string(sub.Slot),
		Forced:     sub.Forced,
	})
}

// record timestamps ev inside the tick window and stores it on the side's
// timeline. Substitutions of a side are kept strictly after one another.
func (m *Match) record(side Side, t tick, ev Event) Event {
	s := m.sides[side]
	second := t.from
	if t.to > t.from {
		second += m.rng.IntN(t.to - t.from)
	}
	if ev.Type == EventSubstitution && t.half == s.lastSubHalf && second <= s.lastSubSecond {
		second = s.lastSubSecond + 1
	}
	if t.limit > t.floor && second >= t.limit {
		second = t.limit - 1
	}

	ev.Second = second
	ev.Half = t.half
	ev.Side = side
	ev.TeamID = s.TeamID
	ev = s.Events.InsertWithin(ev, t.floor, t.limit)
	ev.Extra = t.added || pastRegulation(ev.Half, ev.Second)
	s.Events.items[ev.Time] = ev

	if ev.Type == EventSubstitution {
		s.lastSubHalf = ev.Half
		s.lastSubSecond = ev.Second
	}
	return ev
}

func pastRegulation(half, second int) bool {
	if half == 2 {
		return second >= FullSeconds
	}
	return second >= HalfSeconds
}

type weightFunc func(slot lineup.Slot, p *player.Player) float64

func attackWeight(slot lineup.Slot, p *player.Player) float64 {
	switch slot.Role() {
	case lineup.RoleForward:
		return 6 * float64(p.Ability)
	case lineup.RoleMidfielder:
		return 3 * float64(p.Ability)
	case lineup.RoleDefender:
		return float64(p.Ability)
	default:
		return 0
	}
}

func defenceWeight(slot lineup.Slot, p *player.Player) float64 {
	switch slot.Role() {
	case lineup.RoleDefender:
		return 3
	case lineup.RoleMidfielder:
		return 2
	case lineup.RoleForward:
		return 0.5
	default:
		return 0.2
	}
}

func foulWeight(slot lineup.Slot, _ *player.Player) float64 {
	switch slot.Role() {
	case lineup.RoleDefender:
		return 3
	case lineup.RoleMidfielder:
		return 2
	case lineup.RoleForward:
		return 1
	default:
		return 0.2
	}
}

// pickOnPitch draws a player on the pitch proportionally to weight.
func (m *Match) pickOnPitch(s *SideState, weight weightFunc) string {
	ordered := lineup.OrderedSlots(s.Squad.Slots)
	weights := make([]float64, len(ordered))
	total := 0.0
	for i, slot := range ordered {
		w := math.Max(0, weight(slot, s.players[s.Squad.Slots[slot]]))
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return ""
	}
	r := m.rng.Float64() * total
	for i, slot := range ordered {
		r -= weights[i]
		if r < 0 {
			return s.Squad.Slots[slot]
		}
	}
	return s.Squad.Slots[ordered[len(ordered)-1]]
}
