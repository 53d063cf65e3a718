package lineup

import (
	"errors"
	"fmt"
	"slices"

	"github.com/riskibarqy/season-sim/internal/domain/player"
)

var ErrPlayerNotOnPitch = errors.New("player is not on the pitch")

type ChangeKind string

const (
	// ChangeSubstitute brings a bench player on for a player on the pitch.
	ChangeSubstitute ChangeKind = "substitute"
	// ChangeSwap exchanges the slots of two players on the pitch.
	ChangeSwap ChangeKind = "swap"
	// ChangeMove moves a player on the pitch into an empty slot.
	ChangeMove ChangeKind = "move"
)

// Change is one pending operation of a substitution batch.
type Change struct {
	Kind        ChangeKind
	PlayerOutID string
	PlayerInID  string
	Slot        Slot
}

type RemovalReason string

const (
	RemovalSubstituted RemovalReason = "substituted"
	RemovalInjury      RemovalReason = "injury"
	RemovalRedCard     RemovalReason = "red_card"
)

// Substitution is one player leaving and one entering the pitch.
type Substitution struct {
	PlayerOffID string
	PlayerOnID  string
	Slot        Slot
	Forced      bool
}

type SubstitutionResult struct {
	Applied       bool
	Reason        string
	Substitutions []Substitution
}

// ForcedOutcome describes what happened after a player had to leave the pitch.
type ForcedOutcome struct {
	PlayerID     string
	Slot         Slot
	Reason       RemovalReason
	Substitution *Substitution
	// MovedToGoal is set when an outfield player had to take over the goalkeeper slot.
	MovedToGoal string
	ShortHanded bool
}

// MatchSquad is the match-scoped lineup of one side.
type MatchSquad struct {
	TeamID      string
	Slots       map[Slot]string
	Substitutes []string

	Quota     int
	Completed int
	Forced    int

	positions   map[string][]player.Position
	started     map[string]Slot
	unavailable map[string]RemovalReason
}

func NewMatchSquad(l Lineup, roster []player.Player, quota int) *MatchSquad {
	if quota <= 0 {
		quota = DefaultSubstitutionQuota
	}
	c := Clone(l)
	s := &MatchSquad{
		TeamID:      l.TeamID,
		Slots:       c.Slots,
		Substitutes: c.Substitutes,
		Quota:       quota,
		positions:   make(map[string][]player.Position, len(roster)),
		started:     make(map[string]Slot, len(c.Slots)),
		unavailable: make(map[string]RemovalReason),
	}
	for _, p := range roster {
		s.positions[p.ID] = append([]player.Position(nil), p.Positions...)
	}
	for slot, playerID := range c.Slots {
		s.started[playerID] = slot
	}
	return s
}

func (s *MatchSquad) Lineup() Lineup {
	return Clone(Lineup{TeamID: s.TeamID, Slots: s.Slots, Substitutes: s.Substitutes})
}

func (s *MatchSquad) SlotOf(playerID string) (Slot, bool) {
	return slotOf(s.Slots, playerID)
}

func (s *MatchSquad) OnPitch(playerID string) bool {
	_, ok := s.SlotOf(playerID)
	return ok
}

// OnPitchIDs lists players on the pitch goalkeeper first.
func (s *MatchSquad) OnPitchIDs() []string {
	out := make([]string, 0, len(s.Slots))
	for _, slot := range OrderedSlots(s.Slots) {
		out = append(out, s.Slots[slot])
	}
	return out
}

func (s *MatchSquad) Removed(playerID string) (RemovalReason, bool) {
	reason, ok := s.unavailable[playerID]
	return reason, ok
}

func (s *MatchSquad) RemainingQuota() int {
	if s.Completed >= s.Quota {
		return 0
	}
	return s.Quota - s.Completed
}

func (s *MatchSquad) eligible(playerID string, slot Slot) bool {
	if s.started[playerID] == slot {
		return true
	}
	return slices.Contains(s.positions[playerID], slot.Position())
}

func (s *MatchSquad) benchAvailable(bench []string, playerID string) bool {
	if _, out := s.unavailable[playerID]; out {
		return false
	}
	return slices.Contains(bench, playerID)
}

// canFill applies the position rule with the free position exception.
func (s *MatchSquad) canFill(bench []string, playerID string, slot Slot) bool {
	if s.eligible(playerID, slot) {
		return true
	}
	for _, candidate := range bench {
		if candidate == playerID || !s.benchAvailable(bench, candidate) {
			continue
		}
		if s.eligible(candidate, slot) {
			return false
		}
	}
	return true
}

// Apply reconciles a batch of changes against the current lineup. The batch is
// applied in full or not at all.
func (s *MatchSquad) Apply(changes []Change) SubstitutionResult {
	if len(changes) == 0 {
		return rejected("no changes requested")
	}

	slots := make(map[Slot]string, len(s.Slots))
	for slot, playerID := range s.Slots {
		slots[slot] = playerID
	}
	bench := append([]string(nil), s.Substitutes...)

	var wentOff, cameOn []string
	for i, change := range changes {
		switch change.Kind {
		case ChangeSubstitute:
			slot, ok := slotOf(slots, change.PlayerOutID)
			if !ok {
				return rejected(fmt.Sprintf("change %d: player %s is not on the pitch", i, change.PlayerOutID))
			}
			if !s.benchAvailable(bench, change.PlayerInID) {
				return rejected(fmt.Sprintf("change %d: player %s is not an available substitute", i, change.PlayerInID))
			}
			if !s.canFill(bench, change.PlayerInID, slot) {
				return rejected(fmt.Sprintf("change %d: player %s cannot play %s", i, change.PlayerInID, slot))
			}
			slots[slot] = change.PlayerInID
			idx := slices.Index(bench, change.PlayerInID)
			bench[idx] = change.PlayerOutID
			wentOff = append(wentOff, change.PlayerOutID)
			cameOn = append(cameOn, change.PlayerInID)
		case ChangeSwap:
			a, aok := slotOf(slots, change.PlayerOutID)
			b, bok := slotOf(slots, change.PlayerInID)
			if !aok || !bok {
				return rejected(fmt.Sprintf("change %d: swap needs two players on the pitch", i))
			}
			slots[a], slots[b] = slots[b], slots[a]
		case ChangeMove:
			from, ok := slotOf(slots, change.PlayerOutID)
			if !ok {
				return rejected(fmt.Sprintf("change %d: player %s is not on the pitch", i, change.PlayerOutID))
			}
			if !change.Slot.Valid() {
				return rejected(fmt.Sprintf("change %d: unknown slot %q", i, change.Slot))
			}
			if _, occupied := slots[change.Slot]; occupied {
				return rejected(fmt.Sprintf("change %d: slot %s is occupied", i, change.Slot))
			}
			if from == SlotGoalkeeper {
				return rejected(fmt.Sprintf("change %d: the goalkeeper slot cannot be left empty", i))
			}
			delete(slots, from)
			slots[change.Slot] = change.PlayerOutID
		default:
			return rejected(fmt.Sprintf("change %d: unknown change kind %q", i, change.Kind))
		}
	}

	if _, ok := s.Slots[SlotGoalkeeper]; ok && slots[SlotGoalkeeper] == "" {
		return rejected("the goalkeeper slot cannot be left empty")
	}

	before := make(map[string]struct{}, len(s.Slots))
	for _, playerID := range s.Slots {
		before[playerID] = struct{}{}
	}
	after := make(map[string]struct{}, len(slots))
	for _, playerID := range slots {
		after[playerID] = struct{}{}
	}

	// net effect against the snapshot: a player brought on and taken off in the
	// same batch never played
	netOff := make([]string, 0, len(wentOff))
	for _, playerID := range wentOff {
		_, was := before[playerID]
		_, is := after[playerID]
		if was && !is && !slices.Contains(netOff, playerID) {
			netOff = append(netOff, playerID)
		}
	}
	netOn := make([]string, 0, len(cameOn))
	for _, playerID := range cameOn {
		_, was := before[playerID]
		_, is := after[playerID]
		if !was && is && !slices.Contains(netOn, playerID) {
			netOn = append(netOn, playerID)
		}
	}

	if s.Completed+len(netOn) > s.Quota {
		return rejected(fmt.Sprintf("substitution quota exceeded: %d used, %d requested, quota %d", s.Completed, len(netOn), s.Quota))
	}

	subs := make([]Substitution, 0, len(netOn))
	for i, onID := range netOn {
		slot, _ := slotOf(slots, onID)
		subs = append(subs, Substitution{PlayerOffID: netOff[i], PlayerOnID: onID, Slot: slot})
	}

	s.Slots = slots
	s.Substitutes = bench
	s.Completed += len(netOn)
	for _, playerID := range netOff {
		s.unavailable[playerID] = RemovalSubstituted
	}

	return SubstitutionResult{Applied: true, Substitutions: subs}
}

// ForceOff removes a player from the pitch after an injury or a dismissal and
// refills the slot when the rules allow it. It does not consume the quota, but
// a side that has spent its quota plays on short-handed.
func (s *MatchSquad) ForceOff(playerID string, reason RemovalReason) (ForcedOutcome, error) {
	slot, ok := s.SlotOf(playerID)
	if !ok {
		return ForcedOutcome{}, fmt.Errorf("%w: %s", ErrPlayerNotOnPitch, playerID)
	}

	delete(s.Slots, slot)
	s.unavailable[playerID] = reason
	if reason == RemovalInjury {
		s.Substitutes = append(s.Substitutes, playerID)
	}
	out := ForcedOutcome{PlayerID: playerID, Slot: slot, Reason: reason}

	needsReplacement := reason == RemovalInjury || slot == SlotGoalkeeper
	if needsReplacement && s.Completed < s.Quota {
		if in := s.pickReplacement(slot); in != "" {
			sub := Substitution{PlayerOnID: in, Slot: slot, Forced: true}
			if reason == RemovalRedCard {
				// the keeper comes on at the expense of an outfield player
				withdrawn := s.lastOutfield()
				if withdrawn != "" {
					withdrawnSlot, _ := s.SlotOf(withdrawn)
					delete(s.Slots, withdrawnSlot)
					s.unavailable[withdrawn] = RemovalSubstituted
					s.Substitutes = append(s.Substitutes, withdrawn)
					sub.PlayerOffID = withdrawn
				}
			} else {
				sub.PlayerOffID = playerID
			}
			if sub.PlayerOffID != "" {
				s.Slots[slot] = in
				s.Substitutes = slices.DeleteFunc(s.Substitutes, func(id string) bool { return id == in })
				s.Forced++
				out.Substitution = &sub
				return out, nil
			}
		}
	}

	out.ShortHanded = true
	if slot == SlotGoalkeeper {
		if stand := s.standInKeeper(); stand != "" {
			from, _ := s.SlotOf(stand)
			delete(s.Slots, from)
			s.Slots[SlotGoalkeeper] = stand
			out.MovedToGoal = stand
		}
	}
	return out, nil
}

func (s *MatchSquad) pickReplacement(slot Slot) string {
	for _, candidate := range s.Substitutes {
		if s.benchAvailable(s.Substitutes, candidate) && s.eligible(candidate, slot) {
			return candidate
		}
	}
	for _, candidate := range s.Substitutes {
		if !s.benchAvailable(s.Substitutes, candidate) {
			continue
		}
		// free position: an outfield slot is never handed to a bench keeper
		if slot != SlotGoalkeeper && slices.Contains(s.positions[candidate], player.PositionGoalkeeper) {
			continue
		}
		return candidate
	}
	return ""
}

func (s *MatchSquad) lastOutfield() string {
	ordered := OrderedSlots(s.Slots)
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i] != SlotGoalkeeper {
			return s.Slots[ordered[i]]
		}
	}
	return ""
}

func (s *MatchSquad) standInKeeper() string {
	for _, slot := range OrderedSlots(s.Slots) {
		if slices.Contains(s.positions[s.Slots[slot]], player.PositionGoalkeeper) {
			return s.Slots[slot]
		}
	}
	return s.lastOutfield()
}

func slotOf(slots map[Slot]string, playerID string) (Slot, bool) {
	if playerID == "" {
		return "", false
	}
	for slot, id := range slots {
		if id == playerID {
			return slot, true
		}
	}
	return "", false
}

func rejected(reason string) SubstitutionResult {
	return SubstitutionResult{Applied: false, Reason: reason}
}

// SuggestReplacement returns the bench player that would fill slot, or "".
func (s *MatchSquad) SuggestReplacement(slot Slot) string {
	return s.pickReplacement(slot)
}
