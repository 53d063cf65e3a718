package player

import (
	"fmt"
	"time"
)

// Position is a playable position code.
type Position string

const (
	PositionGoalkeeper          Position = "GK"
	PositionLeftBack            Position = "LB"
	PositionCentreBack          Position = "CB"
	PositionRightBack           Position = "RB"
	PositionLeftWingBack        Position = "LWB"
	PositionRightWingBack       Position = "RWB"
	PositionDefensiveMidfielder Position = "CDM"
	PositionCentralMidfielder   Position = "CM"
	PositionAttackingMidfielder Position = "CAM"
	PositionLeftMidfielder      Position = "LM"
	PositionRightMidfielder     Position = "RM"
	PositionLeftWinger          Position = "LW"
	PositionRightWinger         Position = "RW"
	PositionStriker             Position = "ST"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper:          {},
	PositionLeftBack:            {},
	PositionCentreBack:          {},
	PositionRightBack:           {},
	PositionLeftWingBack:        {},
	PositionRightWingBack:       {},
	PositionDefensiveMidfielder: {},
	PositionCentralMidfielder:   {},
	PositionAttackingMidfielder: {},
	PositionLeftMidfielder:      {},
	PositionRightMidfielder:     {},
	PositionLeftWinger:          {},
	PositionRightWinger:         {},
	PositionStriker:             {},
}

const (
	MinAttribute = 0.0
	MaxAttribute = 100.0
)

// Player is a squad member with the condition attributes the simulator evolves.
type Player struct {
	ID        string
	TeamID    string
	Name      string
	Positions []Position
	Ability   int
	Fitness   float64
	Sharpness float64
	Morale    float64
	// InjuryRemaining is the time left until the player is fit again.
	InjuryRemaining time.Duration
	// BanMatches counts matches the player still has to sit out.
	BanMatches  int
	YellowCards int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if len(p.Positions) == 0 {
		return fmt.Errorf("player %s has no positions", p.ID)
	}
	for _, pos := range p.Positions {
		if _, ok := AllPositions[pos]; !ok {
			return fmt.Errorf("invalid player position: %s", pos)
		}
	}
	if p.Ability < 1 || p.Ability > 100 {
		return fmt.Errorf("player ability must be within 1..100")
	}

	return nil
}

func (p Player) Injured() bool {
	return p.InjuryRemaining > 0
}

func (p Player) Banned() bool {
	return p.BanMatches > 0
}

// Available reports whether the player can be named in a matchday squad.
func (p Player) Available() bool {
	return !p.Injured() && !p.Banned()
}

func (p Player) CanPlay(pos Position) bool {
	for _, candidate := range p.Positions {
		if candidate == pos {
			return true
		}
	}
	return false
}

func (p Player) IsGoalkeeper() bool {
	return p.CanPlay(PositionGoalkeeper)
}

// Clamp bounds an attribute to [MinAttribute, MaxAttribute].
func Clamp(v float64) float64 {
	if v < MinAttribute {
		return MinAttribute
	}
	if v > MaxAttribute {
		return MaxAttribute
	}
	return v
}

// Adjust applies deltas and clamps every attribute.
func (p *Player) Adjust(fitness, sharpness, morale float64) {
	p.Fitness = Clamp(p.Fitness + fitness)
	p.Sharpness = Clamp(p.Sharpness + sharpness)
	p.Morale = Clamp(p.Morale + morale)
}

func Clone(p Player) Player {
	out := p
	out.Positions = append([]Position(nil), p.Positions...)
	return out
}
