package lineup

import "github.com/riskibarqy/season-sim/internal/domain/player"

// Slot is a position label on the pitch.
type Slot string

type Role int

const (
	RoleGoalkeeper Role = iota
	RoleDefender
	RoleMidfielder
	RoleForward
)

func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleMidfielder:
		return "midfielder"
	default:
		return "forward"
	}
}

const (
	SlotGoalkeeper          Slot = "Goalkeeper"
	SlotLeftBack            Slot = "Left Back"
	SlotLeftCentreBack      Slot = "Left Centre Back"
	SlotCentreBack          Slot = "Centre Back"
	SlotRightCentreBack     Slot = "Right Centre Back"
	SlotRightBack           Slot = "Right Back"
	SlotLeftWingBack        Slot = "Left Wing Back"
	SlotRightWingBack       Slot = "Right Wing Back"
	SlotDefensiveMidfield   Slot = "Defensive Midfield"
	SlotLeftCentreMidfield  Slot = "Left Centre Midfield"
	SlotCentreMidfield      Slot = "Centre Midfield"
	SlotRightCentreMidfield Slot = "Right Centre Midfield"
	SlotLeftMidfield        Slot = "Left Midfield"
	SlotRightMidfield       Slot = "Right Midfield"
	SlotAttackingMidfield   Slot = "Attacking Midfield"
	SlotLeftWinger          Slot = "Left Winger"
	SlotRightWinger         Slot = "Right Winger"
	SlotLeftStriker         Slot = "Left Striker"
	SlotStriker             Slot = "Striker"
	SlotRightStriker        Slot = "Right Striker"
)

type slotInfo struct {
	position player.Position
	role     Role
}

var slotTable = map[Slot]slotInfo{
	SlotGoalkeeper:          {player.PositionGoalkeeper, RoleGoalkeeper},
	SlotLeftBack:            {player.PositionLeftBack, RoleDefender},
	SlotLeftCentreBack:      {player.PositionCentreBack, RoleDefender},
	SlotCentreBack:          {player.PositionCentreBack, RoleDefender},
	SlotRightCentreBack:     {player.PositionCentreBack, RoleDefender},
	SlotRightBack:           {player.PositionRightBack, RoleDefender},
	SlotLeftWingBack:        {player.PositionLeftWingBack, RoleDefender},
	SlotRightWingBack:       {player.PositionRightWingBack, RoleDefender},
	SlotDefensiveMidfield:   {player.PositionDefensiveMidfielder, RoleMidfielder},
	SlotLeftCentreMidfield:  {player.PositionCentralMidfielder, RoleMidfielder},
	SlotCentreMidfield:      {player.PositionCentralMidfielder, RoleMidfielder},
	SlotRightCentreMidfield: {player.PositionCentralMidfielder, RoleMidfielder},
	SlotLeftMidfield:        {player.PositionLeftMidfielder, RoleMidfielder},
	SlotRightMidfield:       {player.PositionRightMidfielder, RoleMidfielder},
	SlotAttackingMidfield:   {player.PositionAttackingMidfielder, RoleMidfielder},
	SlotLeftWinger:          {player.PositionLeftWinger, RoleForward},
	SlotRightWinger:         {player.PositionRightWinger, RoleForward},
	SlotLeftStriker:         {player.PositionStriker, RoleForward},
	SlotStriker:             {player.PositionStriker, RoleForward},
	SlotRightStriker:        {player.PositionStriker, RoleForward},
}

// slotOrder fixes iteration order, goalkeeper first and forwards last.
var slotOrder = []Slot{
	SlotGoalkeeper,
	SlotLeftBack,
	SlotLeftWingBack,
	SlotLeftCentreBack,
	SlotCentreBack,
	SlotRightCentreBack,
	SlotRightWingBack,
	SlotRightBack,
	SlotDefensiveMidfield,
	SlotLeftMidfield,
	SlotLeftCentreMidfield,
	SlotCentreMidfield,
	SlotRightCentreMidfield,
	SlotRightMidfield,
	SlotAttackingMidfield,
	SlotLeftWinger,
	SlotLeftStriker,
	SlotStriker,
	SlotRightStriker,
	SlotRightWinger,
}

var slotRank = func() map[Slot]int {
	out := make(map[Slot]int, len(slotOrder))
	for i, s := range slotOrder {
		out[s] = i
	}
	return out
}()

func (s Slot) Valid() bool {
	_, ok := slotTable[s]
	return ok
}

func (s Slot) Position() player.Position {
	return slotTable[s].position
}

func (s Slot) Role() Role {
	if !s.Valid() {
		return RoleForward
	}
	return slotTable[s].role
}

// Formation is an ordered set of eleven slots.
type Formation []Slot

var (
	Formation442 = Formation{
		SlotGoalkeeper,
		SlotLeftBack, SlotLeftCentreBack, SlotRightCentreBack, SlotRightBack,
		SlotLeftMidfield, SlotLeftCentreMidfield, SlotRightCentreMidfield, SlotRightMidfield,
		SlotLeftStriker, SlotRightStriker,
	}
	Formation433 = Formation{
		SlotGoalkeeper,
		SlotLeftBack, SlotLeftCentreBack, SlotRightCentreBack, SlotRightBack,
		SlotDefensiveMidfield, SlotLeftCentreMidfield, SlotRightCentreMidfield,
		SlotLeftWinger, SlotStriker, SlotRightWinger,
	}
)
