package postgres

import (
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
)

type calendarEventTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	TeamID    string    `db:"team_public_id"`
	EventType string    `db:"event_type"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	Consumed  bool      `db:"consumed"`
	CreatedAt time.Time `db:"created_at"`
}

type calendarEventInsertModel struct {
	PublicID  string    `db:"public_id"`
	TeamID    string    `db:"team_public_id"`
	EventType string    `db:"event_type"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	Consumed  bool      `db:"consumed"`
}

func calendarEventFromRow(row calendarEventTableModel) calendar.Event {
	return calendar.Event{
		ID:       row.PublicID,
		TeamID:   row.TeamID,
		Type:     calendar.EventType(row.EventType),
		Start:    row.StartsAt.UTC(),
		End:      row.EndsAt.UTC(),
		Consumed: row.Consumed,
	}
}

func calendarEventInsertFromDomain(e calendar.Event) calendarEventInsertModel {
	return calendarEventInsertModel{
		PublicID:  e.ID,
		TeamID:    e.TeamID,
		EventType: string(e.Type),
		StartsAt:  e.Start,
		EndsAt:    e.End,
		Consumed:  e.Consumed,
	}
}
