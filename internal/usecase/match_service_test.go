package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/season-sim/internal/mocks/domain/match"
	"github.com/riskibarqy/season-sim/internal/platform/id"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingLeague struct {
	mu       sync.Mutex
	finished []string
}

func (l *recordingLeague) MatchFinished(_ context.Context, fx fixture.Fixture, _ match.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.finished = append(l.finished, fx.ID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events int
}

func (p *recordingPublisher) PublishEvents(_ context.Context, _ string, events []match.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events += len(events)
	return nil
}

type matchFixture struct {
	store     *memory.Store
	results   *memory.MatchRepository
	fixtures  *memory.FixtureRepository
	lineups   *memory.LineupRepository
	league    *recordingLeague
	publisher *recordingPublisher
	service   *MatchService
	kickoff   fixture.Fixture
}

func newMatchFixture(t *testing.T, cfg MatchConfig) matchFixture {
	t.Helper()

	snapshot, err := memory.Seed()
	require.NoError(t, err)
	return newMatchFixtureFrom(t, snapshot, cfg)
}

func newMatchFixtureFrom(t *testing.T, snapshot memory.Snapshot, cfg MatchConfig) matchFixture {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore(snapshot)
	seasonRepo := memory.NewSeasonRepository(store)
	fixtures := memory.NewFixtureRepository(store)
	next, ok, err := fixtures.NextForTeam(ctx, memory.ManagedTeamID, memory.SeasonStart)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, seasonRepo.SetCurrentDate(ctx, next.KickoffAt))

	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	out := matchFixture{
		store:     store,
		results:   memory.NewMatchRepository(store),
		fixtures:  fixtures,
		lineups:   memory.NewLineupRepository(store),
		league:    &recordingLeague{},
		publisher: &recordingPublisher{},
		kickoff:   next,
	}
	out.service = NewMatchService(
		memory.NewPlayerRepository(store),
		out.lineups,
		fixtures,
		out.results,
		seasonRepo,
		out.league,
		out.publisher,
		id.NewSequence("match"),
		match.DefaultTuning(),
		cfg,
		logging.NewNop(),
	)
	return out
}

func playInteractive(t *testing.T, service *MatchService, matchID string) {
	t.Helper()

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		view, err := service.Snapshot(ctx, matchID)
		require.NoError(t, err)
		if view.Phase == match.PhaseFullTime {
			return
		}
		_, err = service.SimulateTick(ctx, matchID)
		require.NoError(t, err)
	}
	t.Fatalf("match %s did not finish", matchID)
}

func TestMatchService_StartMatchday_SimulatesOtherFixtures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMatchFixture(t, MatchConfig{})

	day, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	if err != nil {
		t.Fatalf("start matchday: %v", err)
	}
	if day.InteractiveMatchID == "" {
		t.Fatalf("expected an interactive match")
	}
	wantOthers := len(memory.SeedTeams())/2 - 1
	if len(day.Results) != wantOthers || len(day.Failed) != 0 {
		t.Fatalf("unexpected matchday results: played=%d failed=%v", len(day.Results), day.Failed)
	}
	for _, summary := range day.Results {
		saved, ok, err := fx.fixtures.GetByID(ctx, summary.FixtureID)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, saved.Finished(), summary.FixtureID)
		require.Equal(t, summary.HomeScore, *saved.HomeScore)
	}
	require.Len(t, fx.league.finished, wantOthers)

	view, err := fx.service.Snapshot(ctx, day.InteractiveMatchID)
	require.NoError(t, err)
	require.Equal(t, match.PhasePreKickoff, view.Phase)
	require.Equal(t, fx.kickoff.ID, view.FixtureID)

	_, err = fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a second start, got %v", err)
	}
}

func TestMatchService_StartMatchday_NoFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMatchFixture(t, MatchConfig{})
	require.NoError(t, memory.NewSeasonRepository(fx.store).SetCurrentDate(ctx, memory.SeasonStart))

	_, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchService_InteractiveMatchLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMatchFixture(t, MatchConfig{})
	day, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	require.NoError(t, err)
	matchID := day.InteractiveMatchID

	view, err := fx.service.Snapshot(ctx, matchID)
	require.NoError(t, err)
	managed := match.Home
	squad := view.Home
	if view.Away.TeamID == memory.ManagedTeamID {
		managed = match.Away
		squad = view.Away
	}
	keeper := squad.Lineup.Slots[lineup.SlotGoalkeeper]
	var reserveKeeper string
	for _, playerID := range squad.Lineup.Substitutes {
		if playerID == "idn-persija-01" || playerID == "idn-persija-02" {
			reserveKeeper = playerID
		}
	}
	require.NotEmpty(t, reserveKeeper)
	change := []lineup.Change{{Kind: lineup.ChangeSubstitute, PlayerOutID: keeper, PlayerInID: reserveKeeper}}

	_, err = fx.service.RequestSubstitution(ctx, matchID, managed, change)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict before kickoff, got %v", err)
	}
	_, err = fx.service.EndMatch(ctx, matchID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict while in play, got %v", err)
	}

	_, err = fx.service.SimulateTick(ctx, matchID)
	require.NoError(t, err)

	result, err := fx.service.RequestSubstitution(ctx, matchID, managed, change)
	require.NoError(t, err)
	require.True(t, result.Applied, result.Reason)

	stored, ok, err := fx.lineups.GetByTeam(ctx, memory.ManagedTeamID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, reserveKeeper, stored.Slots[lineup.SlotGoalkeeper])

	playInteractive(t, fx.service, matchID)

	_, err = fx.service.SimulateTick(ctx, matchID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after full time, got %v", err)
	}

	final, err := fx.service.EndMatch(ctx, matchID)
	require.NoError(t, err)
	require.Equal(t, fx.kickoff.ID, final.FixtureID)

	saved, ok, err := fx.results.GetResult(ctx, matchID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, final.Home.Goals, saved.Home.Goals)

	played, ok, err := fx.fixtures.GetByID(ctx, fx.kickoff.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, played.Finished())
	require.Contains(t, fx.league.finished, fx.kickoff.ID)
	require.Positive(t, fx.publisher.events)

	_, err = fx.service.Snapshot(ctx, matchID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after the match ended, got %v", err)
	}
}

func TestMatchService_SharedClockUsesMatchdayMaximum(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMatchFixture(t, MatchConfig{SharedClock: true, Seed: 7})
	day, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	require.NoError(t, err)

	firstMax, secondMax := 0, 0
	for _, summary := range day.Results {
		other, ok, err := fx.results.GetResult(ctx, summary.MatchID)
		require.NoError(t, err)
		require.True(t, ok)
		firstMax = max(firstMax, other.FirstHalfExtra)
		secondMax = max(secondMax, other.SecondHalfExtra)
	}

	playInteractive(t, fx.service, day.InteractiveMatchID)
	final, err := fx.service.EndMatch(ctx, day.InteractiveMatchID)
	require.NoError(t, err)
	if final.FirstHalfExtra < firstMax || final.SecondHalfExtra < secondMax {
		t.Fatalf("interactive extra time %d/%d below matchday maximum %d/%d",
			final.FirstHalfExtra, final.SecondHalfExtra, firstMax, secondMax)
	}
}

func TestMatchService_SimulateFixture_SaveFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	snapshot, err := memory.Seed()
	require.NoError(t, err)
	store := memory.NewStore(snapshot)
	matchRepo := matchmock.NewRepository(t)
	league := &recordingLeague{}

	service := NewMatchService(
		memory.NewPlayerRepository(store),
		memory.NewLineupRepository(store),
		memory.NewFixtureRepository(store),
		matchRepo,
		memory.NewSeasonRepository(store),
		league,
		nil,
		id.NewSequence("match"),
		match.DefaultTuning(),
		MatchConfig{Seed: 3},
		logging.NewNop(),
	)
	upcoming := snapshot.Fixtures[1]

	matchRepo.
		On("SaveResult", mock.Anything, mock.MatchedBy(func(r match.Result) bool { return r.FixtureID == upcoming.ID })).
		Return(errors.New("disk full")).
		Once()

	_, err = service.SimulateFixture(ctx, upcoming)
	if err == nil {
		t.Fatalf("expected save error")
	}
	if len(league.finished) != 0 {
		t.Fatalf("league must not be updated when the result was not stored")
	}
}

func TestMatchService_LiveMatchRunsToFullTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newMatchFixture(t, MatchConfig{})
	day, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	require.NoError(t, err)
	matchID := day.InteractiveMatchID

	require.NoError(t, fx.service.StartLive(ctx, matchID, time.Millisecond))
	err = fx.service.StartLive(ctx, matchID, 0)
	if !errors.Is(err, ErrLiveRunning) {
		t.Fatalf("expected ErrLiveRunning, got %v", err)
	}

	require.NoError(t, fx.service.PauseLive(ctx, matchID))
	paused, err := fx.service.Snapshot(ctx, matchID)
	require.NoError(t, err)
	require.False(t, paused.Live)

	require.NoError(t, fx.service.SetLiveSpeed(ctx, matchID, minLiveSpeed))
	require.NoError(t, fx.service.ResumeLive(ctx, matchID))

	done, err := fx.service.LiveDone(matchID)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatalf("live match did not reach full time")
	}

	view, err := fx.service.Snapshot(ctx, matchID)
	require.NoError(t, err)
	require.Equal(t, match.PhaseFullTime, view.Phase)

	_, err = fx.service.EndMatch(ctx, matchID)
	require.NoError(t, err)
}

func managedSide(view MatchView) match.SideSnapshot {
	if view.Away.TeamID == memory.ManagedTeamID {
		return view.Away
	}
	return view.Home
}

// requirePlayableLineup checks the stored lineup of the managed team names
// eleven starters and a bench of players who can all take part.
func requirePlayableLineup(t *testing.T, fx matchFixture) lineup.Lineup {
	t.Helper()

	ctx := context.Background()
	stored, ok, err := fx.lineups.GetByTeam(ctx, memory.ManagedTeamID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, stored.Validate(match.DefaultTuning().MaxSubstitutes))

	named, err := memory.NewPlayerRepository(fx.store).GetByIDs(ctx, stored.PlayerIDs())
	require.NoError(t, err)
	require.Len(t, named, len(stored.PlayerIDs()))
	for _, p := range named {
		if !p.Available() {
			t.Fatalf("stored lineup names unavailable player %s (injury=%s ban=%d)", p.ID, p.InjuryRemaining, p.BanMatches)
		}
	}
	return stored
}

func TestMatchService_StartMatchday_RepairsManagedLineup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	snapshot, err := memory.Seed()
	require.NoError(t, err)
	require.Len(t, snapshot.Lineups, 1)
	saved := snapshot.Lineups[0]
	keeper := saved.Slots[lineup.SlotGoalkeeper]
	benched := saved.Substitutes[len(saved.Substitutes)-1]
	for i := range snapshot.Players {
		switch snapshot.Players[i].ID {
		case keeper:
			snapshot.Players[i].InjuryRemaining = 14 * 24 * time.Hour
		case benched:
			snapshot.Players[i].BanMatches = 2
		}
	}

	fx := newMatchFixtureFrom(t, snapshot, MatchConfig{})
	day, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
	if err != nil {
		t.Fatalf("start matchday with an injured keeper: %v", err)
	}

	view, err := fx.service.Snapshot(ctx, day.InteractiveMatchID)
	require.NoError(t, err)
	squad := managedSide(view)
	require.Len(t, squad.Lineup.Slots, lineup.StartingSize)
	require.NotEqual(t, keeper, squad.Lineup.Slots[lineup.SlotGoalkeeper])
	require.NotContains(t, squad.Lineup.PlayerIDs(), keeper)
	require.NotContains(t, squad.Lineup.PlayerIDs(), benched)

	stored := requirePlayableLineup(t, fx)
	require.Equal(t, squad.Lineup.Slots, stored.Slots)
}

func TestMatchService_ConsecutiveManagedMatchdays(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 24; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			fx := newMatchFixture(t, MatchConfig{Seed: seed})
			seasonRepo := memory.NewSeasonRepository(fx.store)

			kickoff := fx.kickoff.KickoffAt
			for round := 0; round < 3; round++ {
				day, err := fx.service.StartMatchday(ctx, memory.ManagedTeamID)
				if err != nil {
					t.Fatalf("round %d start matchday: %v", round, err)
				}
				playInteractive(t, fx.service, day.InteractiveMatchID)
				result, err := fx.service.EndMatch(ctx, day.InteractiveMatchID)
				require.NoError(t, err)

				stored := requirePlayableLineup(t, fx)
				for _, outcome := range result.Players {
					if outcome.TeamID == memory.ManagedTeamID && (outcome.InjuryRemaining > 0 || outcome.BanMatches > 0) {
						require.NotContains(t, stored.PlayerIDs(), outcome.PlayerID)
					}
				}

				next, ok, err := fx.fixtures.NextForTeam(ctx, memory.ManagedTeamID, kickoff)
				require.NoError(t, err)
				if !ok {
					return
				}
				require.True(t, next.KickoffAt.After(kickoff))
				kickoff = next.KickoffAt
				require.NoError(t, seasonRepo.SetCurrentDate(ctx, kickoff))
			}
		})
	}
}

func TestInterimLineup(t *testing.T) {
	t.Parallel()

	snapshot, err := memory.Seed()
	require.NoError(t, err)
	saved := snapshot.Lineups[0]
	roster := snapshot.Players
	striker := saved.Slots[lineup.OrderedSlots(saved.Slots)[len(saved.Slots)-1]]

	replaced := lineup.NewMatchSquad(saved, roster, 5)
	outcome, err := replaced.ForceOff(striker, lineup.RemovalInjury)
	require.NoError(t, err)
	require.NotNil(t, outcome.Substitution)

	got, ok := interimLineup(replaced, 9)
	if !ok {
		t.Fatalf("eleven-man lineup should be storable")
	}
	require.NotContains(t, got.PlayerIDs(), striker)
	require.NoError(t, got.Validate(9))

	shortHanded := lineup.NewMatchSquad(saved, roster, 1)
	shortHanded.Completed = shortHanded.Quota
	outcome, err = shortHanded.ForceOff(striker, lineup.RemovalInjury)
	require.NoError(t, err)
	require.True(t, outcome.ShortHanded)

	if _, ok := interimLineup(shortHanded, 9); ok {
		t.Fatalf("a ten-man lineup must not be stored")
	}
}
