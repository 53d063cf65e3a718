package lineup

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	StartingSize             = 11
	DefaultMaxSubstitutes    = 9
	DefaultSubstitutionQuota = 5
)

var (
	ErrInvalidSize        = errors.New("lineup must have exactly 11 starters")
	ErrMissingGoalkeeper  = errors.New("lineup has no goalkeeper")
	ErrDuplicatePlayer    = errors.New("player appears more than once in lineup")
	ErrUnknownSlot        = errors.New("unknown lineup slot")
	ErrTooManySubstitutes = errors.New("too many substitutes")
)

// Lineup stores the selected starters and bench of one team.
type Lineup struct {
	TeamID      string
	Slots       map[Slot]string
	Substitutes []string
	UpdatedAt   time.Time
}

// Validate checks the matchday shape: eleven distinct starters including a goalkeeper.
func (l Lineup) Validate(maxSubstitutes int) error {
	if maxSubstitutes <= 0 {
		maxSubstitutes = DefaultMaxSubstitutes
	}
	if len(l.Slots) != StartingSize {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, len(l.Slots))
	}
	if len(l.Substitutes) > maxSubstitutes {
		return fmt.Errorf("%w: got %d, max %d", ErrTooManySubstitutes, len(l.Substitutes), maxSubstitutes)
	}

	seen := make(map[string]struct{}, len(l.Slots)+len(l.Substitutes))
	for slot, playerID := range l.Slots {
		if !slot.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
		}
		if playerID == "" {
			return fmt.Errorf("slot %q has no player", slot)
		}
		if _, ok := seen[playerID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, playerID)
		}
		seen[playerID] = struct{}{}
	}
	if l.Slots[SlotGoalkeeper] == "" {
		return ErrMissingGoalkeeper
	}
	for _, playerID := range l.Substitutes {
		if _, ok := seen[playerID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, playerID)
		}
		seen[playerID] = struct{}{}
	}

	return nil
}

func (l Lineup) PlayerIDs() []string {
	out := make([]string, 0, len(l.Slots)+len(l.Substitutes))
	for _, slot := range OrderedSlots(l.Slots) {
		out = append(out, l.Slots[slot])
	}
	return append(out, l.Substitutes...)
}

// OrderedSlots returns the occupied slots goalkeeper first.
func OrderedSlots(slots map[Slot]string) []Slot {
	out := make([]Slot, 0, len(slots))
	for slot := range slots {
		out = append(out, slot)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := slotRank[out[i]]
		rj, jok := slotRank[out[j]]
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

func Clone(l Lineup) Lineup {
	out := l
	out.Slots = make(map[Slot]string, len(l.Slots))
	for slot, playerID := range l.Slots {
		out.Slots[slot] = playerID
	}
	out.Substitutes = append([]string(nil), l.Substitutes...)
	return out
}
