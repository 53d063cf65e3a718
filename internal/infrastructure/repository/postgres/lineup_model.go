package postgres

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
)

type lineupTableModel struct {
	ID            int64          `db:"id"`
	TeamID        string         `db:"team_public_id"`
	Slots         []byte         `db:"slots"`
	SubstituteIDs pq.StringArray `db:"substitute_player_ids"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type lineupInsertModel struct {
	TeamID        string         `db:"team_public_id"`
	Slots         []byte         `db:"slots"`
	SubstituteIDs pq.StringArray `db:"substitute_player_ids"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func lineupFromRow(row lineupTableModel) (lineup.Lineup, error) {
	var slots map[lineup.Slot]string
	if err := decodeJSON(row.Slots, &slots); err != nil {
		return lineup.Lineup{}, fmt.Errorf("lineup %s slots: %w", row.TeamID, err)
	}
	return lineup.Lineup{
		TeamID:      row.TeamID,
		Slots:       slots,
		Substitutes: append([]string(nil), row.SubstituteIDs...),
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func lineupInsertFromDomain(item lineup.Lineup) (lineupInsertModel, error) {
	slots, err := encodeJSON(item.Slots)
	if err != nil {
		return lineupInsertModel{}, err
	}
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	return lineupInsertModel{
		TeamID:        item.TeamID,
		Slots:         slots,
		SubstituteIDs: pq.StringArray(append([]string{}, item.Substitutes...)),
		UpdatedAt:     updatedAt,
	}, nil
}
