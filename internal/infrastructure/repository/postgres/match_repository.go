package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	qb "github.com/riskibarqy/season-sim/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// SaveResult finishes the fixture, writes the players' post-match condition
// and stores the result in one transaction. A fixture that is already
// finished rejects the whole write.
func (r *MatchRepository) SaveResult(ctx context.Context, result match.Result) error {
	insertModel, err := matchResultInsertFromDomain(result)
	if err != nil {
		return fmt.Errorf("encode match result: %w", err)
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query, args, err := qb.Update("fixtures").
			Set("home_score", result.Home.Goals).
			Set("away_score", result.Away.Goals).
			Set("status", fixture.StatusFinished).
			SetExpr("finished_at", "(SELECT in_game_time FROM season_state WHERE id = ?)", seasonStateID).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", result.FixtureID),
				qb.Expr("status <> ?", fixture.StatusFinished),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build finish fixture query: %w", err)
		}
		if err := execAffecting(ctx, tx, 1, query, args...); err != nil {
			return fmt.Errorf("finish fixture %s: %w", result.FixtureID, err)
		}

		for _, outcome := range result.Players {
			query, args, err := qb.Update("players").
				Set("fitness", outcome.Fitness).
				Set("sharpness", outcome.Sharpness).
				Set("morale", outcome.Morale).
				Set("injury_remaining_seconds", int64(outcome.InjuryRemaining/time.Second)).
				Set("ban_matches", outcome.BanMatches).
				Set("yellow_cards", outcome.YellowCards).
				SetExpr("updated_at", "NOW()").
				Where(
					qb.Eq("public_id", outcome.PlayerID),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build update player query: %w", err)
			}
			if err := execAffecting(ctx, tx, 1, query, args...); err != nil {
				return fmt.Errorf("update player %s: %w", outcome.PlayerID, err)
			}
		}

		query, args, err = qb.InsertModel("match_results", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert match result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("match result for fixture %s already stored: %w", result.FixtureID, err)
			}
			return fmt.Errorf("insert match result: %w", err)
		}
		return nil
	})
}
