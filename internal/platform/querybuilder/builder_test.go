package querybuilder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	start := time.Date(2026, 8, 10, 8, 59, 0, 0, time.UTC)
	query, args, err := Select("*").
		From("calendar_events").
		Where(InStrings("team_id", []string{"t1", "t2"}), Lt("starts_at", start), Eq("consumed", false), IsNull("deleted_at")).
		OrderBy("starts_at ASC", "id ASC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM calendar_events WHERE team_id IN ($1, $2) AND starts_at < $3 AND consumed = $4 AND deleted_at IS NULL ORDER BY starts_at ASC, id ASC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	require.Equal(t, []any{"t1", "t2", start, false}, args)
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("players").Where(InStrings("team_id", nil)).ForUpdate().ToSQL()
	require.NoError(t, err)
	require.Equal(t, "SELECT id FROM players WHERE 1=0 FOR UPDATE", query)
	require.Empty(t, args)
}

func TestInsertModels(t *testing.T) {
	type row struct {
		ID      string `db:"id"`
		TeamID  string `db:"team_id"`
		Skipped string `db:"-"`
		hidden  string
	}
	query, args, err := InsertModels("calendar_events", []any{
		row{ID: "e1", TeamID: "t1", hidden: "x"},
		&row{ID: "e2", TeamID: "t2"},
	}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO calendar_events (id, team_id) VALUES ($1, $2), ($3, $4) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	require.Equal(t, []any{"e1", "t1", "e2", "t2"}, args)
}

func TestInsertModels_RejectsMixedTypes(t *testing.T) {
	type a struct {
		ID string `db:"id"`
	}
	type b struct {
		ID string `db:"id"`
	}
	_, _, err := InsertModels("x", []any{a{ID: "1"}, b{ID: "2"}}, "")
	require.Error(t, err)
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("players").
		Set("fitness", 81.5).
		SetExpr("ban_matches", "GREATEST(ban_matches - ?, 0)", 1).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "p1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE players SET fitness = $1, ban_matches = GREATEST(ban_matches - $2, 0), updated_at = NOW() WHERE id = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	require.Equal(t, []any{81.5, 1, "p1"}, args)
}
