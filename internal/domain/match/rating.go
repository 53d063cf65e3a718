package match

import "math"

const (
	BaseRating = 6.0
	MinRating  = 0.0
	MaxRating  = 10.0
)

// RatingDeltas are the per-event rating adjustments.
type RatingDeltas struct {
	Goal            float64 `yaml:"goal"`
	Assist          float64 `yaml:"assist"`
	OwnGoal         float64 `yaml:"own_goal"`
	PenaltyMiss     float64 `yaml:"penalty_miss"`
	PenaltySave     float64 `yaml:"penalty_save"`
	Save            float64 `yaml:"save"`
	ShotOnTarget    float64 `yaml:"shot_on_target"`
	Conceded        float64 `yaml:"conceded"`
	YellowCard      float64 `yaml:"yellow_card"`
	RedCard         float64 `yaml:"red_card"`
	DefensiveAction float64 `yaml:"defensive_action"`
	Foul            float64 `yaml:"foul"`
}

// Ratings holds per-player match ratings.
type Ratings map[string]float64

func (r Ratings) Ensure(playerID string) {
	if _, ok := r[playerID]; !ok {
		r[playerID] = BaseRating
	}
}

// Adjust moves a rating by delta, clamped to [0, 10] and rounded to two decimals.
func (r Ratings) Adjust(playerID string, delta float64) {
	if playerID == "" {
		return
	}
	r.Ensure(playerID)
	r[playerID] = ClampRating(r[playerID] + delta)
}

func ClampRating(v float64) float64 {
	v = math.Max(MinRating, math.Min(MaxRating, v))
	return math.Round(v*100) / 100
}
