package postgres

import (
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/match"
)

type matchResultInsertModel struct {
	PublicID        string `db:"public_id"`
	FixtureID       string `db:"fixture_public_id"`
	HomeGoals       int    `db:"home_goals"`
	AwayGoals       int    `db:"away_goals"`
	FirstHalfExtra  int    `db:"first_half_extra"`
	SecondHalfExtra int    `db:"second_half_extra"`
	HomeEvents      []byte `db:"home_events"`
	AwayEvents      []byte `db:"away_events"`
	HomeStats       []byte `db:"home_stats"`
	AwayStats       []byte `db:"away_stats"`
	PlayerOutcomes  []byte `db:"player_outcomes"`
}

type statsRecord struct {
	Counts map[string]int `json:"counts"`
	XG     float64        `json:"xg"`
}

type playerOutcomeRecord struct {
	PlayerID               string  `json:"playerId"`
	TeamID                 string  `json:"teamId"`
	Appeared               bool    `json:"appeared"`
	Rating                 float64 `json:"rating"`
	Fitness                float64 `json:"fitness"`
	Sharpness              float64 `json:"sharpness"`
	Morale                 float64 `json:"morale"`
	InjuryRemainingSeconds int64   `json:"injuryRemainingSeconds"`
	BanMatches             int     `json:"banMatches"`
	YellowCards            int     `json:"yellowCards"`
}

func statsRecordFromDomain(s match.Stats) statsRecord {
	return statsRecord{Counts: s.Map(), XG: s.XG}
}

func matchResultInsertFromDomain(result match.Result) (matchResultInsertModel, error) {
	homeEvents, err := encodeJSON(nonNilEvents(result.Home.Events))
	if err != nil {
		return matchResultInsertModel{}, err
	}
	awayEvents, err := encodeJSON(nonNilEvents(result.Away.Events))
	if err != nil {
		return matchResultInsertModel{}, err
	}
	homeStats, err := encodeJSON(statsRecordFromDomain(result.Home.Stats))
	if err != nil {
		return matchResultInsertModel{}, err
	}
	awayStats, err := encodeJSON(statsRecordFromDomain(result.Away.Stats))
	if err != nil {
		return matchResultInsertModel{}, err
	}

	outcomes := make([]playerOutcomeRecord, 0, len(result.Players))
	for _, p := range result.Players {
		outcomes = append(outcomes, playerOutcomeRecord{
			PlayerID:               p.PlayerID,
			TeamID:                 p.TeamID,
			Appeared:               p.Appeared,
			Rating:                 p.Rating,
			Fitness:                p.Fitness,
			Sharpness:              p.Sharpness,
			Morale:                 p.Morale,
			InjuryRemainingSeconds: int64(p.InjuryRemaining / time.Second),
			BanMatches:             p.BanMatches,
			YellowCards:            p.YellowCards,
		})
	}
	playerOutcomes, err := encodeJSON(outcomes)
	if err != nil {
		return matchResultInsertModel{}, err
	}

	return matchResultInsertModel{
		PublicID:        result.MatchID,
		FixtureID:       result.FixtureID,
		HomeGoals:       result.Home.Goals,
		AwayGoals:       result.Away.Goals,
		FirstHalfExtra:  result.FirstHalfExtra,
		SecondHalfExtra: result.SecondHalfExtra,
		HomeEvents:      homeEvents,
		AwayEvents:      awayEvents,
		HomeStats:       homeStats,
		AwayStats:       awayStats,
		PlayerOutcomes:  playerOutcomes,
	}, nil
}

func nonNilEvents(events []match.Event) []match.Event {
	if events == nil {
		return []match.Event{}
	}
	return events
}
