package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/condition"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/domain/season"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()

	snapshot, err := Seed()
	require.NoError(t, err)
	return NewStore(snapshot)
}

func TestSeedFixtures_DoubleRoundRobin(t *testing.T) {
	t.Parallel()

	teams := SeedTeams()
	fixtures := SeedFixtures(teams, SeasonStart)

	wantCount := len(teams) * (len(teams) - 1)
	if len(fixtures) != wantCount {
		t.Fatalf("unexpected fixture count: got=%d want=%d", len(fixtures), wantCount)
	}

	pairs := make(map[string]int)
	perMatchday := make(map[int]map[string]struct{})
	for _, fx := range fixtures {
		if fx.HomeTeamID == fx.AwayTeamID {
			t.Fatalf("fixture %s has a team playing itself", fx.ID)
		}
		if fx.KickoffAt.Weekday() != time.Saturday || !fx.KickoffAt.After(SeasonStart) {
			t.Fatalf("fixture %s kicks off on %s", fx.ID, fx.KickoffAt)
		}
		pairs[fx.HomeTeamID+">"+fx.AwayTeamID]++

		seen := perMatchday[fx.Matchday]
		if seen == nil {
			seen = make(map[string]struct{})
			perMatchday[fx.Matchday] = seen
		}
		for _, teamID := range []string{fx.HomeTeamID, fx.AwayTeamID} {
			if _, dup := seen[teamID]; dup {
				t.Fatalf("team %s plays twice on matchday %d", teamID, fx.Matchday)
			}
			seen[teamID] = struct{}{}
		}
	}
	for pair, count := range pairs {
		if count != 1 {
			t.Fatalf("pairing %s scheduled %d times", pair, count)
		}
	}
}

func TestSeed_PlayersAreValid(t *testing.T) {
	t.Parallel()

	snapshot, err := Seed()
	require.NoError(t, err)
	for _, p := range snapshot.Players {
		require.NoError(t, p.Validate(), p.ID)
	}
	require.Len(t, snapshot.Lineups, 1)
	require.NoError(t, snapshot.Lineups[0].Validate(0))
}

func TestSeasonRepository_ApplyAdvancementIsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	repo := NewSeasonRepository(store)
	players := NewPlayerRepository(store)
	events := NewCalendarRepository(store)

	start := SeasonStart.Add(time.Hour)
	newEvent := calendar.Event{
		ID:     "ev-1",
		TeamID: ManagedTeamID,
		Type:   calendar.EventTraining,
		Start:  start,
		End:    start.Add(2 * time.Hour),
	}
	bad := season.Batch{
		NewEvents:        []calendar.Event{newEvent},
		ConsumedEventIDs: []string{"ev-1"},
		Updates: []condition.Update{
			{PlayerID: "idn-persija-01", TeamID: ManagedTeamID, Fitness: 10},
			{PlayerID: "missing-player", TeamID: ManagedTeamID, Fitness: 10},
		},
	}
	if err := repo.ApplyAdvancement(ctx, bad); err == nil {
		t.Fatalf("expected error for unknown player")
	}

	got, err := players.GetByIDs(ctx, []string{"idn-persija-01"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	if got[0].Fitness == 10 {
		t.Fatalf("player updated by a rejected batch")
	}
	listed, err := events.ListByTeamsBetween(ctx, []string{ManagedTeamID}, SeasonStart, SeasonStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	if len(listed) != 0 {
		t.Fatalf("rejected batch left %d events behind", len(listed))
	}

	good := bad
	good.Updates = bad.Updates[:1]
	require.NoError(t, repo.ApplyAdvancement(ctx, good))

	got, err = players.GetByIDs(ctx, []string{"idn-persija-01"})
	require.NoError(t, err)
	require.Equal(t, 10.0, got[0].Fitness)

	// consumed events no longer show up
	listed, err = events.ListByTeamsBetween(ctx, []string{ManagedTeamID}, SeasonStart, SeasonStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestSeasonRepository_NextDelivery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSeasonRepository(newSeededStore(t))

	next, ok, err := repo.NextDelivery(ctx, SeasonStart)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, SeasonStart.Add(50*time.Hour), next)

	// strictly after
	next, ok, err = repo.NextDelivery(ctx, SeasonStart.Add(50*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, SeasonStart.AddDate(0, 0, 9), next)

	_, ok, err = repo.NextDelivery(ctx, SeasonStart.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMatchRepository_SaveResultFinishesFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newSeededStore(t)
	fixtures := NewFixtureRepository(store)
	results := NewMatchRepository(store)
	players := NewPlayerRepository(store)

	upcoming, ok, err := fixtures.NextForTeam(ctx, ManagedTeamID, SeasonStart)
	require.NoError(t, err)
	require.True(t, ok)

	result := match.Result{
		MatchID:   "match-1",
		FixtureID: upcoming.ID,
		Home:      match.SideResult{TeamID: upcoming.HomeTeamID, Goals: 2},
		Away:      match.SideResult{TeamID: upcoming.AwayTeamID, Goals: 1},
		Players: []match.PlayerOutcome{
			{PlayerID: "idn-persija-01", TeamID: ManagedTeamID, Fitness: 71, BanMatches: 1},
		},
	}
	require.NoError(t, results.SaveResult(ctx, result))

	saved, ok, err := fixtures.GetByID(ctx, upcoming.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fixture.StatusFinished, saved.Status)
	require.Equal(t, 2, *saved.HomeScore)
	require.Equal(t, 1, *saved.AwayScore)

	got, err := players.GetByIDs(ctx, []string{"idn-persija-01"})
	require.NoError(t, err)
	require.Equal(t, 71.0, got[0].Fitness)
	require.Equal(t, 1, got[0].BanMatches)

	// finished fixtures drop out of the schedule
	next, ok, err := fixtures.NextForTeam(ctx, ManagedTeamID, SeasonStart)
	require.NoError(t, err)
	require.True(t, ok)
	if next.ID == upcoming.ID {
		t.Fatalf("finished fixture still listed as next")
	}

	if err := results.SaveResult(ctx, result); err == nil {
		t.Fatalf("expected error when saving a finished fixture twice")
	}
}
