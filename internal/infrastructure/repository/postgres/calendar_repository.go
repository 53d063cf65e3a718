package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	qb "github.com/riskibarqy/season-sim/internal/platform/querybuilder"
)

type CalendarRepository struct {
	db *sqlx.DB
}

func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) ListByTeamsBetween(ctx context.Context, teamIDs []string, start, end time.Time) ([]calendar.Event, error) {
	if len(teamIDs) == 0 {
		return []calendar.Event{}, nil
	}

	query, args, err := qb.Select("id", "public_id", "team_public_id", "event_type", "starts_at", "ends_at", "consumed", "created_at").
		From("calendar_events").
		Where(
			qb.InStrings("team_public_id", teamIDs),
			qb.Lt("starts_at", end),
			qb.Gt("ends_at", start),
			qb.Eq("consumed", false),
		).
		OrderBy("starts_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select calendar events query: %w", err)
	}

	var rows []calendarEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select calendar events: %w", err)
	}

	out := make([]calendar.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, calendarEventFromRow(row))
	}
	return out, nil
}
