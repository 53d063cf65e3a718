package match

import "github.com/riskibarqy/season-sim/internal/domain/lineup"

// Tuning holds the probabilities and constants of the event generator.
type Tuning struct {
	GoalChance            float64      `yaml:"goal_chance"`
	ShotChance            float64      `yaml:"shot_chance"`
	OnTargetShare         float64      `yaml:"on_target_share"`
	CornerShare           float64      `yaml:"corner_share"`
	OwnGoalShare          float64      `yaml:"own_goal_share"`
	PenaltyShare          float64      `yaml:"penalty_share"`
	PenaltyConversion     float64      `yaml:"penalty_conversion"`
	AssistChance          float64      `yaml:"assist_chance"`
	FoulChance            float64      `yaml:"foul_chance"`
	YellowChance          float64      `yaml:"yellow_chance"`
	RedChance             float64      `yaml:"red_chance"`
	DefensiveActionChance float64      `yaml:"defensive_action_chance"`
	InjuryChance          float64      `yaml:"injury_chance"`
	MaxInjuryDays         int          `yaml:"max_injury_days"`
	FitnessDrainPerTick   float64      `yaml:"fitness_drain_per_tick"`
	SharpnessGainPerTick  float64      `yaml:"sharpness_gain_per_tick"`
	AutoSubFitness        float64      `yaml:"auto_sub_fitness"`
	AutoSubFromMinute     int          `yaml:"auto_sub_from_minute"`
	SubstitutionQuota     int          `yaml:"substitution_quota"`
	MaxSubstitutes        int          `yaml:"max_substitutes"`
	Ratings               RatingDeltas `yaml:"ratings"`
}

func DefaultTuning() Tuning {
	return Tuning{
		GoalChance:            0.011,
		ShotChance:            0.06,
		OnTargetShare:         0.35,
		CornerShare:           0.3,
		OwnGoalShare:          0.04,
		PenaltyShare:          0.08,
		PenaltyConversion:     0.78,
		AssistChance:          0.7,
		FoulChance:            0.06,
		YellowChance:          0.012,
		RedChance:             0.0008,
		DefensiveActionChance: 0.2,
		InjuryChance:          0.0012,
		MaxInjuryDays:         28,
		FitnessDrainPerTick:   0.07,
		SharpnessGainPerTick:  0.02,
		AutoSubFitness:        55,
		AutoSubFromMinute:     60,
		SubstitutionQuota:     lineup.DefaultSubstitutionQuota,
		MaxSubstitutes:        lineup.DefaultMaxSubstitutes,
		Ratings: RatingDeltas{
			Goal:            1.0,
			Assist:          0.6,
			OwnGoal:         -1.0,
			PenaltyMiss:     -0.7,
			PenaltySave:     0.8,
			Save:            0.2,
			ShotOnTarget:    0.1,
			Conceded:        -0.3,
			YellowCard:      -0.5,
			RedCard:         -2.0,
			DefensiveAction: 0.1,
			Foul:            -0.1,
		},
	}
}

// Normalize fills zero values with defaults.
func (t Tuning) Normalize() Tuning {
	d := DefaultTuning()
	if t.GoalChance <= 0 {
		t.GoalChance = d.GoalChance
	}
	if t.ShotChance <= 0 {
		t.ShotChance = d.ShotChance
	}
	if t.OnTargetShare <= 0 {
		t.OnTargetShare = d.OnTargetShare
	}
	if t.PenaltyConversion <= 0 {
		t.PenaltyConversion = d.PenaltyConversion
	}
	if t.MaxInjuryDays <= 0 {
		t.MaxInjuryDays = d.MaxInjuryDays
	}
	if t.SubstitutionQuota <= 0 {
		t.SubstitutionQuota = d.SubstitutionQuota
	}
	if t.MaxSubstitutes <= 0 {
		t.MaxSubstitutes = d.MaxSubstitutes
	}
	if t.AutoSubFromMinute <= 0 {
		t.AutoSubFromMinute = d.AutoSubFromMinute
	}
	if t.Ratings == (RatingDeltas{}) {
		t.Ratings = d.Ratings
	}
	return t
}
