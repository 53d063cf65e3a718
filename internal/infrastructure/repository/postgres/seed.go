package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/season-sim/internal/platform/querybuilder"
)

type inboxMessageInsertModel struct {
	PublicID  string    `db:"public_id"`
	DeliverAt time.Time `db:"deliver_at"`
	Subject   string    `db:"subject"`
}

// BootstrapSeed writes the given save game into an empty database. It is a
// no-op when the season clock has already been initialized.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, snapshot memory.Snapshot) (bool, error) {
	var initialized bool
	if err := db.GetContext(ctx, &initialized, "SELECT EXISTS (SELECT 1 FROM season_state)"); err != nil {
		return false, fmt.Errorf("check season state: %w", err)
	}
	if initialized {
		return false, nil
	}

	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		teams := make([]teamInsertModel, 0, len(snapshot.Teams))
		for _, item := range snapshot.Teams {
			teams = append(teams, teamInsertModel{
				PublicID: item.ID,
				LeagueID: item.LeagueID,
				Name:     item.Name,
				Short:    item.Short,
				Managed:  item.Managed,
			})
		}
		if err := insertRows(ctx, tx, "teams", teams); err != nil {
			return err
		}

		players := make([]playerInsertModel, 0, len(snapshot.Players))
		for _, item := range snapshot.Players {
			players = append(players, playerInsertFromDomain(item))
		}
		if err := insertRows(ctx, tx, "players", players); err != nil {
			return err
		}

		fixtures := make([]fixtureInsertModel, 0, len(snapshot.Fixtures))
		for _, item := range snapshot.Fixtures {
			fixtures = append(fixtures, fixtureInsertModel{
				PublicID:        item.ID,
				LeagueID:        item.LeagueID,
				Matchday:        item.Matchday,
				HomeTeamID:      item.HomeTeamID,
				AwayTeamID:      item.AwayTeamID,
				KickoffAt:       item.KickoffAt,
				Venue:           item.Venue,
				RefereeSeverity: item.Severity(),
				Status:          fixture.NormalizeStatus(item.Status),
			})
		}
		if err := insertRows(ctx, tx, "fixtures", fixtures); err != nil {
			return err
		}

		lineups := make([]lineupInsertModel, 0, len(snapshot.Lineups))
		for _, item := range snapshot.Lineups {
			row, err := lineupInsertFromDomain(item)
			if err != nil {
				return fmt.Errorf("encode lineup %s: %w", item.TeamID, err)
			}
			lineups = append(lineups, row)
		}
		if err := insertRows(ctx, tx, "lineups", lineups); err != nil {
			return err
		}

		events := make([]calendarEventInsertModel, 0, len(snapshot.Events))
		for _, item := range snapshot.Events {
			events = append(events, calendarEventInsertFromDomain(item))
		}
		if err := insertRows(ctx, tx, "calendar_events", events); err != nil {
			return err
		}

		messages := make([]inboxMessageInsertModel, 0, len(snapshot.Deliveries))
		for i, at := range snapshot.Deliveries {
			messages = append(messages, inboxMessageInsertModel{
				PublicID:  fmt.Sprintf("inbox-%03d", i+1),
				DeliverAt: at,
				Subject:   "Board message",
			})
		}
		if err := insertRows(ctx, tx, "inbox_messages", messages); err != nil {
			return err
		}

		return insertRows(ctx, tx, "season_state", []seasonStateInsertModel{{
			ID:         seasonStateID,
			InGameTime: snapshot.CurrentDate.UTC(),
		}})
	})
	if err != nil {
		return false, fmt.Errorf("bootstrap seed: %w", err)
	}
	return true, nil
}

func insertRows[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := qb.InsertModels(table, modelsToAny(rows), "")
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}
