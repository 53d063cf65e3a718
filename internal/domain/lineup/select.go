package lineup

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/riskibarqy/season-sim/internal/domain/player"
)

// AutoSelect picks the strongest available eleven for a formation plus a bench.
func AutoSelect(teamID string, players []player.Player, formation Formation, maxSubstitutes int) (Lineup, error) {
	if len(formation) != StartingSize {
		return Lineup{}, fmt.Errorf("%w: formation has %d slots", ErrInvalidSize, len(formation))
	}
	if maxSubstitutes <= 0 {
		maxSubstitutes = DefaultMaxSubstitutes
	}

	pool := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.Available() {
			pool = append(pool, p)
		}
	}
	sortBySelection(pool)

	used := make(map[string]struct{}, len(pool))
	out := Lineup{TeamID: teamID, Slots: make(map[Slot]string, StartingSize)}
	fillSlots(out.Slots, formation, pool, used)
	if out.Slots[SlotGoalkeeper] == "" {
		return Lineup{}, fmt.Errorf("team %s: %w", teamID, ErrMissingGoalkeeper)
	}
	if len(out.Slots) != StartingSize {
		return Lineup{}, fmt.Errorf("team %s: %w: only %d available", teamID, ErrInvalidSize, len(out.Slots))
	}

	// keep one spare goalkeeper on the bench when there is one
	for _, p := range pool {
		if len(out.Substitutes) >= maxSubstitutes {
			break
		}
		if _, taken := used[p.ID]; taken || !p.IsGoalkeeper() {
			continue
		}
		out.Substitutes = append(out.Substitutes, p.ID)
		used[p.ID] = struct{}{}
		break
	}
	for _, p := range pool {
		if len(out.Substitutes) >= maxSubstitutes {
			break
		}
		if _, taken := used[p.ID]; taken {
			continue
		}
		out.Substitutes = append(out.Substitutes, p.ID)
		used[p.ID] = struct{}{}
	}

	return out, nil
}

// Repair turns a stored lineup back into a playable one for the given squad.
// Starters and substitutes that can still play keep their places; injured,
// banned or unknown players are dropped and the empty slots are refilled with
// the AutoSelect rules, saved substitutes first. The bench is trimmed to
// maxSubstitutes and topped up to its previous size when players dropped out.
// The boolean reports whether the result differs from saved.
func Repair(saved Lineup, players []player.Player, formation Formation, maxSubstitutes int) (Lineup, bool, error) {
	if maxSubstitutes <= 0 {
		maxSubstitutes = DefaultMaxSubstitutes
	}

	available := make(map[string]player.Player, len(players))
	for _, p := range players {
		if p.Available() {
			available[p.ID] = p
		}
	}

	targets := repairSlots(saved, formation)
	used := make(map[string]struct{}, StartingSize+maxSubstitutes)
	out := Lineup{TeamID: saved.TeamID, Slots: make(map[Slot]string, StartingSize), UpdatedAt: saved.UpdatedAt}
	for _, slot := range targets {
		playerID := saved.Slots[slot]
		if _, ok := available[playerID]; !ok {
			continue
		}
		if _, taken := used[playerID]; taken {
			continue
		}
		out.Slots[slot] = playerID
		used[playerID] = struct{}{}
	}

	pool := repairPool(saved.Substitutes, players, available)
	fillSlots(out.Slots, targets, pool, used)
	if out.Slots[SlotGoalkeeper] == "" {
		// no keeper left in the squad: an outfield player stands in
		for _, p := range pool {
			if _, taken := used[p.ID]; taken {
				continue
			}
			out.Slots[SlotGoalkeeper] = p.ID
			used[p.ID] = struct{}{}
			break
		}
	}
	if out.Slots[SlotGoalkeeper] == "" {
		return Lineup{}, false, fmt.Errorf("team %s: %w", saved.TeamID, ErrMissingGoalkeeper)
	}
	if len(out.Slots) != StartingSize {
		return Lineup{}, false, fmt.Errorf("team %s: %w: only %d available", saved.TeamID, ErrInvalidSize, len(out.Slots))
	}

	for _, playerID := range saved.Substitutes {
		if len(out.Substitutes) >= maxSubstitutes {
			break
		}
		if _, ok := available[playerID]; !ok {
			continue
		}
		if _, taken := used[playerID]; taken {
			continue
		}
		out.Substitutes = append(out.Substitutes, playerID)
		used[playerID] = struct{}{}
	}
	want := min(len(saved.Substitutes), maxSubstitutes)
	for _, p := range pool {
		if len(out.Substitutes) >= want {
			break
		}
		if _, taken := used[p.ID]; taken {
			continue
		}
		out.Substitutes = append(out.Substitutes, p.ID)
		used[p.ID] = struct{}{}
	}

	changed := !maps.Equal(out.Slots, saved.Slots) || !slices.Equal(out.Substitutes, saved.Substitutes)
	return out, changed, nil
}

// repairSlots is the goalkeeper, the saved slot labels, then formation slots
// for missing places, eleven in total.
func repairSlots(saved Lineup, formation Formation) []Slot {
	targets := make([]Slot, 0, StartingSize)
	seen := make(map[Slot]struct{}, StartingSize)
	add := func(slot Slot) {
		if len(targets) >= StartingSize || !slot.Valid() {
			return
		}
		if _, dup := seen[slot]; dup {
			return
		}
		seen[slot] = struct{}{}
		targets = append(targets, slot)
	}

	add(SlotGoalkeeper)
	for _, slot := range OrderedSlots(saved.Slots) {
		add(slot)
	}
	for _, slot := range formation {
		add(slot)
	}
	return targets
}

// repairPool orders replacements: saved substitutes in bench order, then the
// rest of the available squad by selection score.
func repairPool(bench []string, players []player.Player, available map[string]player.Player) []player.Player {
	pool := make([]player.Player, 0, len(available))
	onBench := make(map[string]struct{}, len(bench))
	for _, playerID := range bench {
		p, ok := available[playerID]
		if !ok {
			continue
		}
		if _, dup := onBench[playerID]; dup {
			continue
		}
		onBench[playerID] = struct{}{}
		pool = append(pool, p)
	}

	rest := make([]player.Player, 0, len(available))
	for _, p := range players {
		if _, ok := available[p.ID]; !ok {
			continue
		}
		if _, benched := onBench[p.ID]; benched {
			continue
		}
		rest = append(rest, p)
	}
	sortBySelection(rest)
	return append(pool, rest...)
}

// fillSlots puts pool players into empty target slots, natural positions first.
func fillSlots(slots map[Slot]string, targets []Slot, pool []player.Player, used map[string]struct{}) {
	for _, slot := range targets {
		if _, filled := slots[slot]; filled {
			continue
		}
		for _, p := range pool {
			if _, taken := used[p.ID]; taken || !p.CanPlay(slot.Position()) {
				continue
			}
			slots[slot] = p.ID
			used[p.ID] = struct{}{}
			break
		}
	}
	// outfield gaps take anyone left
	for _, slot := range targets {
		if _, filled := slots[slot]; filled || slot == SlotGoalkeeper {
			continue
		}
		for _, p := range pool {
			if _, taken := used[p.ID]; taken || p.IsGoalkeeper() {
				continue
			}
			slots[slot] = p.ID
			used[p.ID] = struct{}{}
			break
		}
	}
}

func sortBySelection(pool []player.Player) {
	sort.SliceStable(pool, func(i, j int) bool {
		if selectionScore(pool[i]) != selectionScore(pool[j]) {
			return selectionScore(pool[i]) > selectionScore(pool[j])
		}
		return pool[i].ID < pool[j].ID
	})
}

func selectionScore(p player.Player) float64 {
	return float64(p.Ability) * (0.6 + 0.4*p.Fitness/player.MaxAttribute)
}
