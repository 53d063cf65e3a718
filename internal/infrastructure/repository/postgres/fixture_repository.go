package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	qb "github.com/riskibarqy/season-sim/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

var fixtureSelectColumns = []string{
	"id",
	"public_id",
	"league_public_id",
	"matchday",
	"home_team_public_id",
	"away_team_public_id",
	"kickoff_at",
	"venue",
	"referee_severity",
	"home_score",
	"away_score",
	"status",
	"finished_at",
	"created_at",
	"updated_at",
	"deleted_at",
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListBetween(ctx context.Context, start, end time.Time) ([]fixture.Fixture, error) {
	return r.list(ctx, "select fixtures between", 0,
		qb.Gte("kickoff_at", start),
		qb.Lt("kickoff_at", end),
	)
}

func (r *FixtureRepository) NextForTeam(ctx context.Context, teamID string, from time.Time) (fixture.Fixture, bool, error) {
	items, err := r.list(ctx, "select next fixture for team", 1,
		qb.Expr("(home_team_public_id = ? OR away_team_public_id = ?)", teamID, teamID),
		qb.Gte("kickoff_at", from),
	)
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	if len(items) == 0 {
		return fixture.Fixture{}, false, nil
	}
	return items[0], true, nil
}

func (r *FixtureRepository) ListByKickoff(ctx context.Context, kickoff time.Time) ([]fixture.Fixture, error) {
	return r.list(ctx, "select fixtures by kickoff", 0, qb.Eq("kickoff_at", kickoff))
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(
			qb.Eq("public_id", fixtureID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}
	return fixtureFromRow(row), true, nil
}

// list returns unfinished fixtures ordered by kickoff then id.
func (r *FixtureRepository) list(ctx context.Context, op string, limit int, filters ...qb.Condition) ([]fixture.Fixture, error) {
	builder := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(filters...).
		Where(
			qb.Expr("status <> ?", fixture.StatusFinished),
			qb.IsNull("deleted_at"),
		).
		OrderBy("kickoff_at", "public_id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}
	return out, nil
}
