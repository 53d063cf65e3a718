package match

// StatKind enumerates the team statistics a match records.
type StatKind int

const (
	StatGoals StatKind = iota
	StatShots
	StatShotsOnTarget
	StatBigChances
	StatSaves
	StatFouls
	StatYellowCards
	StatRedCards
	StatTackles
	StatInterceptions
	StatPenalties
	StatCorners
	statKindCount
)

var statNames = [statKindCount]string{
	StatGoals:         "goals",
	StatShots:         "shots",
	StatShotsOnTarget: "shots_on_target",
	StatBigChances:    "big_chances",
	StatSaves:         "saves",
	StatFouls:         "fouls",
	StatYellowCards:   "yellow_cards",
	StatRedCards:      "red_cards",
	StatTackles:       "tackles",
	StatInterceptions: "interceptions",
	StatPenalties:     "penalties",
	StatCorners:       "corners",
}

func (k StatKind) String() string {
	if k < 0 || k >= statKindCount {
		return "unknown"
	}
	return statNames[k]
}

func AllStatKinds() []StatKind {
	out := make([]StatKind, 0, statKindCount)
	for k := StatKind(0); k < statKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Stats is the fixed-schema statistics record of one side.
type Stats struct {
	counts [statKindCount]int
	XG     float64
}

func (s *Stats) Add(kind StatKind, n int) {
	s.counts[kind] += n
}

func (s Stats) Get(kind StatKind) int {
	return s.counts[kind]
}

func (s Stats) Map() map[string]int {
	out := make(map[string]int, statKindCount)
	for k := StatKind(0); k < statKindCount; k++ {
		out[statNames[k]] = s.counts[k]
	}
	return out
}
