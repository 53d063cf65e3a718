package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	qb "github.com/riskibarqy/season-sim/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) GetByTeam(ctx context.Context, teamID string) (lineup.Lineup, bool, error) {
	query, args, err := qb.Select("id", "team_public_id", "slots", "substitute_player_ids", "created_at", "updated_at").
		From("lineups").
		Where(qb.Eq("team_public_id", teamID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("build get lineup query: %w", err)
	}

	var row lineupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineup.Lineup{}, false, nil
		}
		return lineup.Lineup{}, false, fmt.Errorf("get lineup: %w", err)
	}

	item, err := lineupFromRow(row)
	if err != nil {
		return lineup.Lineup{}, false, err
	}
	return item, true, nil
}

func (r *LineupRepository) Upsert(ctx context.Context, item lineup.Lineup) error {
	insertModel, err := lineupInsertFromDomain(item)
	if err != nil {
		return fmt.Errorf("encode lineup: %w", err)
	}

	query, args, err := qb.InsertModel("lineups", insertModel, `ON CONFLICT (team_public_id)
DO UPDATE SET
    slots = EXCLUDED.slots,
    substitute_player_ids = EXCLUDED.substitute_player_ids,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build lineup upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert lineup: %w", err)
	}
	return nil
}
