package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/condition"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/domain/season"
	"github.com/riskibarqy/season-sim/internal/domain/team"
	"github.com/riskibarqy/season-sim/internal/infrastructure/repository/memory"
	calendarmock "github.com/riskibarqy/season-sim/internal/mocks/domain/calendar"
	fixturemock "github.com/riskibarqy/season-sim/internal/mocks/domain/fixture"
	playermock "github.com/riskibarqy/season-sim/internal/mocks/domain/player"
	seasonmock "github.com/riskibarqy/season-sim/internal/mocks/domain/season"
	"github.com/riskibarqy/season-sim/internal/platform/id"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingSimulator struct {
	mu     sync.Mutex
	played []string
	fail   map[string]bool
}

func (s *recordingSimulator) SimulateFixture(_ context.Context, fx fixture.Fixture) (match.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.played = append(s.played, fx.ID)
	if s.fail[fx.ID] {
		return match.Result{}, errors.New("engine exploded")
	}
	return match.Result{
		MatchID:   "match-" + fx.ID,
		FixtureID: fx.ID,
		Home:      match.SideResult{TeamID: fx.HomeTeamID, Goals: 1},
		Away:      match.SideResult{TeamID: fx.AwayTeamID},
	}, nil
}

type failingIDGenerator struct{}

func (failingIDGenerator) NewID() (string, error) {
	return "", errors.New("id source unavailable")
}

type seasonFixture struct {
	store     *memory.Store
	season    *memory.SeasonRepository
	simulator *recordingSimulator
	service   *SeasonService
}

func newSeasonFixture(t *testing.T, snapshot memory.Snapshot, idGen id.Generator) seasonFixture {
	t.Helper()

	store := memory.NewStore(snapshot)
	seasonRepo := memory.NewSeasonRepository(store)
	simulator := &recordingSimulator{fail: map[string]bool{}}
	service := NewSeasonService(
		memory.NewTeamRepository(store),
		memory.NewPlayerRepository(store),
		memory.NewFixtureRepository(store),
		memory.NewCalendarRepository(store),
		seasonRepo,
		seasonRepo,
		seasonRepo,
		simulator,
		idGen,
		condition.DefaultTuning(),
		SeasonConfig{},
		logging.NewNop(),
	)
	return seasonFixture{store: store, season: seasonRepo, simulator: simulator, service: service}
}

func seededSnapshot(t *testing.T) memory.Snapshot {
	t.Helper()

	snapshot, err := memory.Seed()
	require.NoError(t, err)
	return snapshot
}

func TestSeasonService_Advance_StopsAtNextDelivery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newSeasonFixture(t, seededSnapshot(t), id.NewSequence("ev"))

	var (
		mu      sync.Mutex
		updates []Progress
	)
	report, err := fx.service.Advance(ctx, AdvanceInput{
		ManagerTeamID: memory.ManagedTeamID,
		Progress: func(p Progress) {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, p)
		},
	})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}

	wantEnd := memory.SeasonStart.Add(50 * time.Hour)
	if !report.WindowEnd.Equal(wantEnd) {
		t.Fatalf("unexpected window end: got=%s want=%s", report.WindowEnd, wantEnd)
	}
	if !report.WeekBuilt {
		t.Fatalf("expected the weekly calendar to be built")
	}
	if report.EventsCreated == 0 || report.EventsConsumed == 0 || report.EventsConsumed > report.EventsCreated {
		t.Fatalf("unexpected event counts: created=%d consumed=%d", report.EventsCreated, report.EventsConsumed)
	}
	teams := len(memory.SeedTeams())
	if report.TeamsUpdated != teams || len(report.TeamsFailed) != 0 {
		t.Fatalf("unexpected team counts: updated=%d failed=%v", report.TeamsUpdated, report.TeamsFailed)
	}

	// one week task and one decay task per team, no fixtures in the window
	require.Equal(t, 2*teams, report.StepsTotal)
	require.Equal(t, report.StepsTotal, report.StepsDone)
	require.Len(t, updates, 2*teams)
	last := updates[len(updates)-1]
	require.Equal(t, last.Total, last.Done)
	for i, p := range updates {
		require.Equal(t, i+1, p.Done)
	}

	now, err := fx.season.CurrentDate(ctx)
	require.NoError(t, err)
	require.Equal(t, wantEnd, now)

	// the next advancement starts where the previous one stopped and skips the built week
	report, err = fx.service.Advance(ctx, AdvanceInput{ManagerTeamID: memory.ManagedTeamID})
	require.NoError(t, err)
	require.Equal(t, wantEnd, report.WindowStart)
	require.False(t, report.WeekBuilt)
	require.Zero(t, report.EventsCreated)
}

func TestSeasonService_Advance_MatchPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newSeasonFixture(t, seededSnapshot(t), id.NewSequence("ev"))

	next, ok, err := memory.NewFixtureRepository(fx.store).NextForTeam(ctx, memory.ManagedTeamID, memory.SeasonStart)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, fx.season.SetCurrentDate(ctx, next.KickoffAt))

	report, err := fx.service.Advance(ctx, AdvanceInput{ManagerTeamID: memory.ManagedTeamID})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if !report.MatchPending || report.NextFixtureID != next.ID {
		t.Fatalf("expected pending fixture %s, got %+v", next.ID, report)
	}

	now, err := fx.season.CurrentDate(ctx)
	require.NoError(t, err)
	require.Equal(t, next.KickoffAt, now)
}

func TestSeasonService_Advance_SimulatesOtherFixturesInKickoffOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := []team.Team{
		{ID: "team-a", LeagueID: "l", Name: "A", Managed: true},
		{ID: "team-b", LeagueID: "l", Name: "B"},
		{ID: "team-c", LeagueID: "l", Name: "C"},
		{ID: "team-d", LeagueID: "l", Name: "D"},
	}
	start := memory.SeasonStart.Add(2 * time.Hour)
	snapshot := memory.Snapshot{
		CurrentDate: start,
		Teams:       teams,
		Players:     memory.SeedPlayers(teams),
		Fixtures: []fixture.Fixture{
			{ID: "fx-bc", HomeTeamID: "team-b", AwayTeamID: "team-c", KickoffAt: start.Add(20 * time.Hour)},
			{ID: "fx-da", HomeTeamID: "team-d", AwayTeamID: "team-a", KickoffAt: start.Add(26 * time.Hour)},
			{ID: "fx-cd", HomeTeamID: "team-c", AwayTeamID: "team-d", KickoffAt: start.Add(3 * time.Hour)},
			{ID: "fx-ab", HomeTeamID: "team-a", AwayTeamID: "team-b", KickoffAt: start.Add(80 * time.Hour)},
		},
	}
	fx := newSeasonFixture(t, snapshot, id.NewSequence("ev"))
	fx.simulator.fail["fx-bc"] = true

	// fx-da involves the manager, so the window closes at its kickoff
	report, err := fx.service.Advance(ctx, AdvanceInput{ManagerTeamID: "team-a"})
	require.NoError(t, err)
	require.Equal(t, start.Add(26*time.Hour), report.WindowEnd)
	require.Equal(t, []string{"fx-cd", "fx-bc"}, fx.simulator.played)
	require.Len(t, report.MatchesPlayed, 1)
	require.Equal(t, "fx-cd", report.MatchesPlayed[0].FixtureID)
	require.Equal(t, []string{"fx-bc"}, report.MatchesFailed)
	require.Equal(t, 4+2, report.StepsTotal)

	report, err = fx.service.Advance(ctx, AdvanceInput{ManagerTeamID: "team-a"})
	require.NoError(t, err)
	require.True(t, report.MatchPending)
	require.Equal(t, "fx-da", report.NextFixtureID)
}

func TestSeasonService_Advance_FailedWeekTasksDoNotStopDecay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newSeasonFixture(t, seededSnapshot(t), failingIDGenerator{})

	report, err := fx.service.Advance(ctx, AdvanceInput{ManagerTeamID: memory.ManagedTeamID})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	teams := len(memory.SeedTeams())
	if len(report.TeamsFailed) != teams {
		t.Fatalf("expected every week task to fail, got %v", report.TeamsFailed)
	}
	if report.TeamsUpdated != teams {
		t.Fatalf("decay should still run for every team, got %d", report.TeamsUpdated)
	}
	if report.EventsCreated != 0 {
		t.Fatalf("unexpected events created: %d", report.EventsCreated)
	}
	require.Equal(t, report.StepsTotal, report.StepsDone)

	now, err := fx.season.CurrentDate(ctx)
	require.NoError(t, err)
	require.Equal(t, report.WindowEnd, now)
}

func TestSeasonService_Advance_BatchFailureKeepsDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore(seededSnapshot(t))
	seasonRepo := memory.NewSeasonRepository(store)
	stateRepo := seasonmock.NewStateRepository(t)
	batchWriter := seasonmock.NewBatchWriter(t)

	stateRepo.
		On("CurrentDate", mock.MatchedBy(func(v context.Context) bool { return v != nil })).
		Return(memory.SeasonStart, nil).
		Once()
	batchWriter.
		On("ApplyAdvancement", mock.Anything, mock.MatchedBy(func(b season.Batch) bool {
			return len(b.NewEvents) > 0 && len(b.Updates) > 0
		})).
		Return(errors.New("connection reset")).
		Once()

	service := NewSeasonService(
		memory.NewTeamRepository(store),
		memory.NewPlayerRepository(store),
		memory.NewFixtureRepository(store),
		memory.NewCalendarRepository(store),
		stateRepo,
		batchWriter,
		seasonRepo,
		&recordingSimulator{},
		id.NewSequence("ev"),
		condition.DefaultTuning(),
		SeasonConfig{WorkerPoolSize: 2},
		logging.NewNop(),
	)

	_, err := service.Advance(ctx, AdvanceInput{ManagerTeamID: memory.ManagedTeamID})
	if !errors.Is(err, ErrAdvanceFailed) {
		t.Fatalf("expected ErrAdvanceFailed, got %v", err)
	}
	// SetCurrentDate has no expectation: a call would fail the mock
}

func TestSeasonService_Advance_InvalidInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fx := newSeasonFixture(t, seededSnapshot(t), id.NewSequence("ev"))

	tests := []struct {
		name    string
		teamID  string
		wantErr error
	}{
		{name: "empty", teamID: "  ", wantErr: ErrInvalidInput},
		{name: "unknown team", teamID: "missing", wantErr: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.Advance(ctx, AdvanceInput{ManagerTeamID: tc.teamID})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSeasonService_Advance_RepositoryFailures(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	tests := []struct {
		name  string
		setup func(t *testing.T, store *memory.Store) (player.Repository, fixture.Repository, calendar.Repository)
	}{
		{
			name: "next fixture",
			setup: func(t *testing.T, store *memory.Store) (player.Repository, fixture.Repository, calendar.Repository) {
				fixtures := fixturemock.NewRepository(t)
				fixtures.
					On("NextForTeam", mock.Anything, memory.ManagedTeamID, mock.Anything).
					Return(fixture.Fixture{}, false, dbErr).
					Once()
				return memory.NewPlayerRepository(store), fixtures, memory.NewCalendarRepository(store)
			},
		},
		{
			name: "calendar for week",
			setup: func(t *testing.T, store *memory.Store) (player.Repository, fixture.Repository, calendar.Repository) {
				events := calendarmock.NewRepository(t)
				events.
					On("ListByTeamsBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(nil, dbErr).
					Once()
				return memory.NewPlayerRepository(store), memory.NewFixtureRepository(store), events
			},
		},
		{
			name: "players for decay",
			setup: func(t *testing.T, store *memory.Store) (player.Repository, fixture.Repository, calendar.Repository) {
				players := playermock.NewRepository(t)
				players.
					On("ListByTeams", mock.Anything, mock.MatchedBy(func(ids []string) bool { return len(ids) == len(memory.SeedTeams()) })).
					Return(nil, dbErr).
					Once()
				return players, memory.NewFixtureRepository(store), memory.NewCalendarRepository(store)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore(seededSnapshot(t))
			seasonRepo := memory.NewSeasonRepository(store)
			players, fixtures, events := tc.setup(t, store)

			service := NewSeasonService(
				memory.NewTeamRepository(store),
				players,
				fixtures,
				events,
				seasonRepo,
				seasonRepo,
				seasonRepo,
				&recordingSimulator{},
				id.NewSequence("ev"),
				condition.DefaultTuning(),
				SeasonConfig{},
				logging.NewNop(),
			)

			_, err := service.Advance(ctx, AdvanceInput{ManagerTeamID: memory.ManagedTeamID})
			if !errors.Is(err, ErrAdvanceFailed) {
				t.Fatalf("expected ErrAdvanceFailed, got %v", err)
			}
			now, err := seasonRepo.CurrentDate(ctx)
			require.NoError(t, err)
			require.Equal(t, memory.SeasonStart, now)
		})
	}
}
