package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID              int64         `db:"id"`
	PublicID        string        `db:"public_id"`
	LeagueID        string        `db:"league_public_id"`
	Matchday        int           `db:"matchday"`
	HomeTeamID      string        `db:"home_team_public_id"`
	AwayTeamID      string        `db:"away_team_public_id"`
	KickoffAt       time.Time     `db:"kickoff_at"`
	Venue           string        `db:"venue"`
	RefereeSeverity float64       `db:"referee_severity"`
	HomeScore       sql.NullInt64 `db:"home_score"`
	AwayScore       sql.NullInt64 `db:"away_score"`
	Status          string        `db:"status"`
	FinishedAt      *time.Time    `db:"finished_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
	DeletedAt       *time.Time    `db:"deleted_at"`
}

type fixtureInsertModel struct {
	PublicID        string    `db:"public_id"`
	LeagueID        string    `db:"league_public_id"`
	Matchday        int       `db:"matchday"`
	HomeTeamID      string    `db:"home_team_public_id"`
	AwayTeamID      string    `db:"away_team_public_id"`
	KickoffAt       time.Time `db:"kickoff_at"`
	Venue           string    `db:"venue"`
	RefereeSeverity float64   `db:"referee_severity"`
	Status          string    `db:"status"`
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	out := fixture.Fixture{
		ID:              row.PublicID,
		LeagueID:        row.LeagueID,
		Matchday:        row.Matchday,
		HomeTeamID:      row.HomeTeamID,
		AwayTeamID:      row.AwayTeamID,
		KickoffAt:       row.KickoffAt.UTC(),
		Venue:           row.Venue,
		RefereeSeverity: row.RefereeSeverity,
		Status:          fixture.NormalizeStatus(row.Status),
		FinishedAt:      row.FinishedAt,
	}
	if row.HomeScore.Valid {
		v := int(row.HomeScore.Int64)
		out.HomeScore = &v
	}
	if row.AwayScore.Valid {
		v := int(row.AwayScore.Int64)
		out.AwayScore = &v
	}
	return out
}
