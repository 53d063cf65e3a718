package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/season-sim/internal/domain/season"
	qb "github.com/riskibarqy/season-sim/internal/platform/querybuilder"
)

// SeasonRepository stores the in-game clock, applies advancement batches and
// reads the inbox schedule.
type SeasonRepository struct {
	db *sqlx.DB
}

const seasonStateID = 1

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

type seasonStateInsertModel struct {
	ID         int       `db:"id"`
	InGameTime time.Time `db:"in_game_time"`
}

func (r *SeasonRepository) CurrentDate(ctx context.Context) (time.Time, error) {
	query, args, err := qb.Select("in_game_time").From("season_state").
		Where(qb.Eq("id", seasonStateID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return time.Time{}, fmt.Errorf("build select season state query: %w", err)
	}

	var current time.Time
	if err := r.db.GetContext(ctx, &current, query, args...); err != nil {
		if isNotFound(err) {
			return time.Time{}, fmt.Errorf("season state is not initialized")
		}
		return time.Time{}, fmt.Errorf("select season state: %w", err)
	}
	return current.UTC(), nil
}

func (r *SeasonRepository) SetCurrentDate(ctx context.Context, date time.Time) error {
	query, args, err := qb.InsertModel("season_state", seasonStateInsertModel{
		ID:         seasonStateID,
		InGameTime: date.UTC(),
	}, `ON CONFLICT (id)
DO UPDATE SET
    in_game_time = EXCLUDED.in_game_time,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert season state query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season state: %w", err)
	}
	return nil
}

// ApplyAdvancement writes new events, marks consumed events and stores the
// player updates in one transaction.
func (r *SeasonRepository) ApplyAdvancement(ctx context.Context, batch season.Batch) error {
	if batch.Empty() {
		return nil
	}

	events := make([]calendarEventInsertModel, 0, len(batch.NewEvents))
	for _, item := range batch.NewEvents {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("validate calendar event: %w", err)
		}
		events = append(events, calendarEventInsertFromDomain(item))
	}
	consumed := uniqueStrings(batch.ConsumedEventIDs)
	batchID := batch.ID()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if len(events) > 0 {
			query, args, err := qb.InsertModels("calendar_events", modelsToAny(events), "")
			if err != nil {
				return fmt.Errorf("build insert calendar events query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, tagStatement(batchID, query), args...); err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("calendar event already exists: %w", err)
				}
				return fmt.Errorf("insert calendar events: %w", err)
			}
		}

		if len(consumed) > 0 {
			query, args, err := qb.Update("calendar_events").
				Set("consumed", true).
				Where(qb.InStrings("public_id", consumed)).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build consume calendar events query: %w", err)
			}
			if err := execAffecting(ctx, tx, int64(len(consumed)), tagStatement(batchID, query), args...); err != nil {
				return fmt.Errorf("consume calendar events: %w", err)
			}
		}

		for _, update := range batch.Updates {
			query, args, err := qb.Update("players").
				Set("fitness", update.Fitness).
				Set("sharpness", update.Sharpness).
				Set("morale", update.Morale).
				Set("injury_remaining_seconds", int64(update.InjuryRemaining/time.Second)).
				SetExpr("updated_at", "NOW()").
				Where(
					qb.Eq("public_id", update.PlayerID),
					qb.IsNull("deleted_at"),
				).
				ToSQL()
			if err != nil {
				return fmt.Errorf("build update player query: %w", err)
			}
			if err := execAffecting(ctx, tx, 1, tagStatement(batchID, query), args...); err != nil {
				return fmt.Errorf("update player %s: %w", update.PlayerID, err)
			}
		}
		return nil
	})
}

// NextDelivery returns the first inbox delivery strictly after the given time.
func (r *SeasonRepository) NextDelivery(ctx context.Context, after time.Time) (time.Time, bool, error) {
	query, args, err := qb.Select("deliver_at").From("inbox_messages").
		Where(qb.Gt("deliver_at", after)).
		OrderBy("deliver_at").
		Limit(1).
		ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build select next delivery query: %w", err)
	}

	var next time.Time
	if err := r.db.GetContext(ctx, &next, query, args...); err != nil {
		if isNotFound(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("select next delivery: %w", err)
	}
	return next.UTC(), true, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
