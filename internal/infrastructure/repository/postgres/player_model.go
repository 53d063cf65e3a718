package postgres

import (
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/season-sim/internal/domain/player"
)

type playerTableModel struct {
	ID                     int64          `db:"id"`
	PublicID               string         `db:"public_id"`
	TeamID                 string         `db:"team_public_id"`
	Name                   string         `db:"name"`
	Positions              pq.StringArray `db:"positions"`
	Ability                int            `db:"ability"`
	Fitness                float64        `db:"fitness"`
	Sharpness              float64        `db:"sharpness"`
	Morale                 float64        `db:"morale"`
	InjuryRemainingSeconds int64          `db:"injury_remaining_seconds"`
	BanMatches             int            `db:"ban_matches"`
	YellowCards            int            `db:"yellow_cards"`
	CreatedAt              time.Time      `db:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at"`
	DeletedAt              *time.Time     `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID               string         `db:"public_id"`
	TeamID                 string         `db:"team_public_id"`
	Name                   string         `db:"name"`
	Positions              pq.StringArray `db:"positions"`
	Ability                int            `db:"ability"`
	Fitness                float64        `db:"fitness"`
	Sharpness              float64        `db:"sharpness"`
	Morale                 float64        `db:"morale"`
	InjuryRemainingSeconds int64          `db:"injury_remaining_seconds"`
	BanMatches             int            `db:"ban_matches"`
	YellowCards            int            `db:"yellow_cards"`
}

func playerFromRow(row playerTableModel) player.Player {
	positions := make([]player.Position, 0, len(row.Positions))
	for _, pos := range row.Positions {
		positions = append(positions, player.Position(pos))
	}
	return player.Player{
		ID:              row.PublicID,
		TeamID:          row.TeamID,
		Name:            row.Name,
		Positions:       positions,
		Ability:         row.Ability,
		Fitness:         row.Fitness,
		Sharpness:       row.Sharpness,
		Morale:          row.Morale,
		InjuryRemaining: time.Duration(row.InjuryRemainingSeconds) * time.Second,
		BanMatches:      row.BanMatches,
		YellowCards:     row.YellowCards,
	}
}

func playerInsertFromDomain(p player.Player) playerInsertModel {
	positions := make(pq.StringArray, 0, len(p.Positions))
	for _, pos := range p.Positions {
		positions = append(positions, string(pos))
	}
	return playerInsertModel{
		PublicID:               p.ID,
		TeamID:                 p.TeamID,
		Name:                   p.Name,
		Positions:              positions,
		Ability:                p.Ability,
		Fitness:                p.Fitness,
		Sharpness:              p.Sharpness,
		Morale:                 p.Morale,
		InjuryRemainingSeconds: int64(p.InjuryRemaining / time.Second),
		BanMatches:             p.BanMatches,
		YellowCards:            p.YellowCards,
	}
}
