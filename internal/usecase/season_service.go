package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/condition"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/interval"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/domain/season"
	"github.com/riskibarqy/season-sim/internal/domain/team"
	"github.com/riskibarqy/season-sim/internal/platform/id"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/riskibarqy/season-sim/internal/platform/workerpool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultMaxWindow = 7 * 24 * time.Hour

type SeasonConfig struct {
	// MaxWindow bounds an advancement when neither a fixture nor a message is due.
	MaxWindow time.Duration
	// WorkerPoolSize caps parallel team tasks; zero sizes the pool to the team count.
	WorkerPoolSize int
}

// FixtureSimulator plays a fixture without user interaction and persists it.
type FixtureSimulator interface {
	SimulateFixture(ctx context.Context, fx fixture.Fixture) (match.Result, error)
}

type ProgressKind string

const (
	ProgressWeekTask  ProgressKind = "week_task"
	ProgressDecayTask ProgressKind = "decay_task"
	ProgressMatch     ProgressKind = "match"
)

// Progress is reported once per finished worker task and once per simulated match.
type Progress struct {
	Kind      ProgressKind
	Done      int
	Total     int
	TeamID    string
	FixtureID string
	Failed    bool
}

type AdvanceInput struct {
	ManagerTeamID string
	Progress      func(Progress)
}

type MatchSummary struct {
	FixtureID  string
	MatchID    string
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
}

type AdvancementReport struct {
	WindowStart    time.Time
	WindowEnd      time.Time
	StepsTotal     int
	StepsDone      int
	WeekBuilt      bool
	TeamsUpdated   int
	TeamsFailed    []string
	EventsCreated  int
	EventsConsumed int
	MatchesPlayed  []MatchSummary
	MatchesFailed  []string
	// MatchPending is set when the manager's own fixture kicks off now and has
	// to be started as a matchday before time can move on.
	MatchPending  bool
	NextFixtureID string
}

type SeasonService struct {
	teamRepo     team.Repository
	playerRepo   player.Repository
	fixtureRepo  fixture.Repository
	calendarRepo calendar.Repository
	stateRepo    season.StateRepository
	batchWriter  season.BatchWriter
	inbox        season.Inbox
	simulator    FixtureSimulator
	idGen        id.Generator
	tuning       condition.Tuning
	cfg          SeasonConfig
	logger       *logging.Logger
}

func NewSeasonService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	fixtureRepo fixture.Repository,
	calendarRepo calendar.Repository,
	stateRepo season.StateRepository,
	batchWriter season.BatchWriter,
	inbox season.Inbox,
	simulator FixtureSimulator,
	idGen id.Generator,
	tuning condition.Tuning,
	cfg SeasonConfig,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWindow <= 0 {
		cfg.MaxWindow = defaultMaxWindow
	}

	return &SeasonService{
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		fixtureRepo:  fixtureRepo,
		calendarRepo: calendarRepo,
		stateRepo:    stateRepo,
		batchWriter:  batchWriter,
		inbox:        inbox,
		simulator:    simulator,
		idGen:        idGen,
		tuning:       tuning,
		cfg:          cfg,
		logger:       logger,
	}
}

// Advance moves the in-game date to the next stop: the manager's next kickoff,
// the next message delivery or the maximum window, whichever comes first.
func (s *SeasonService) Advance(ctx context.Context, input AdvanceInput) (AdvancementReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Advance", attribute.String("manager_team_id", input.ManagerTeamID))
	defer span.End()

	managerTeamID := strings.TrimSpace(input.ManagerTeamID)
	if managerTeamID == "" {
		return AdvancementReport{}, fmt.Errorf("%w: manager team id is required", ErrInvalidInput)
	}
	if _, exists, err := s.teamRepo.GetByID(ctx, managerTeamID); err != nil {
		return AdvancementReport{}, fmt.Errorf("get manager team: %w", err)
	} else if !exists {
		return AdvancementReport{}, fmt.Errorf("%w: team=%s", ErrNotFound, managerTeamID)
	}

	now, err := s.stateRepo.CurrentDate(ctx)
	if err != nil {
		return AdvancementReport{}, fmt.Errorf("%w: read current date: %v", ErrAdvanceFailed, err)
	}

	window, pending, err := s.window(ctx, managerTeamID, now)
	if err != nil {
		return AdvancementReport{}, err
	}
	ctx = logging.WithAdvancement(ctx, window.ID())
	report := AdvancementReport{WindowStart: window.Start, WindowEnd: window.End}
	if pending.ID != "" {
		report.MatchPending = true
		report.NextFixtureID = pending.ID
		return report, nil
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return AdvancementReport{}, fmt.Errorf("%w: list teams: %v", ErrAdvanceFailed, err)
	}
	teamIDs := make([]string, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}

	fixtures, err := s.fixtureRepo.ListBetween(ctx, window.Start, window.End)
	if err != nil {
		return AdvancementReport{}, fmt.Errorf("%w: list fixtures in window: %v", ErrAdvanceFailed, err)
	}

	progress := newProgressTracker(input.Progress)
	weekStart, weekDue := calendar.BoundaryWithin(window.Start, window.End)
	if weekDue {
		progress.add(len(teamIDs))
	}
	progress.add(len(teamIDs) + len(fixtures))

	var newEvents []calendar.Event
	if weekDue {
		report.WeekBuilt = true
		newEvents, err = s.buildWeek(ctx, teamIDs, weekStart, progress, &report)
		if err != nil {
			return AdvancementReport{}, err
		}
	}

	batch, err := s.decay(ctx, teamIDs, window, newEvents, progress, &report)
	if err != nil {
		return AdvancementReport{}, err
	}

	if err := s.batchWriter.ApplyAdvancement(ctx, batch); err != nil {
		s.logger.ErrorContext(ctx, "apply advancement batch failed",
			"window_start", window.Start,
			"window_end", window.End,
			"error", err,
		)
		return AdvancementReport{}, fmt.Errorf("%w: apply advancement batch: %v", ErrAdvanceFailed, err)
	}
	report.EventsCreated = len(batch.NewEvents)
	report.EventsConsumed = len(batch.ConsumedEventIDs)

	s.playFixtures(ctx, fixtures, progress, &report)

	if err := s.stateRepo.SetCurrentDate(ctx, window.End); err != nil {
		return AdvancementReport{}, fmt.Errorf("%w: store current date: %v", ErrAdvanceFailed, err)
	}

	report.StepsTotal = progress.total
	report.StepsDone = progress.done
	s.logger.InfoContext(ctx, "season advanced",
		"window_start", window.Start,
		"window_end", window.End,
		"teams_updated", report.TeamsUpdated,
		"teams_failed", len(report.TeamsFailed),
		"matches_played", len(report.MatchesPlayed),
	)
	return report, nil
}

// window computes [now, min(next own kickoff, next delivery)). A kickoff at
// now is returned as pending.
func (s *SeasonService) window(ctx context.Context, managerTeamID string, now time.Time) (season.Window, fixture.Fixture, error) {
	end := now.Add(s.cfg.MaxWindow)

	next, found, err := s.fixtureRepo.NextForTeam(ctx, managerTeamID, now)
	if err != nil {
		return season.Window{}, fixture.Fixture{}, fmt.Errorf("%w: next fixture: %v", ErrAdvanceFailed, err)
	}
	if found {
		if !next.KickoffAt.After(now) {
			return season.Window{Start: now, End: now}, next, nil
		}
		if next.KickoffAt.Before(end) {
			end = next.KickoffAt
		}
	}

	if s.inbox != nil {
		delivery, ok, err := s.inbox.NextDelivery(ctx, now)
		if err != nil {
			return season.Window{}, fixture.Fixture{}, fmt.Errorf("%w: next delivery: %v", ErrAdvanceFailed, err)
		}
		if ok && delivery.After(now) && delivery.Before(end) {
			end = delivery
		}
	}

	return season.Window{Start: now, End: end}, fixture.Fixture{}, nil
}

type weekTask struct {
	teamID   string
	kickoffs []time.Time
}

func (s *SeasonService) buildWeek(
	ctx context.Context,
	teamIDs []string,
	weekStart time.Time,
	progress *progressTracker,
	report *AdvancementReport,
) ([]calendar.Event, error) {
	weekEnd := weekStart.AddDate(0, 0, 7)

	existing, err := s.calendarRepo.ListByTeamsBetween(ctx, teamIDs, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: list calendar events for week: %v", ErrAdvanceFailed, err)
	}
	planned := make(map[string]bool, len(existing))
	for _, e := range existing {
		planned[e.TeamID] = true
	}

	fixtures, err := s.fixtureRepo.ListBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: list fixtures for week: %v", ErrAdvanceFailed, err)
	}

	tasks := make([]weekTask, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		if planned[teamID] {
			progress.step(Progress{Kind: ProgressWeekTask, TeamID: teamID})
			continue
		}
		task := weekTask{teamID: teamID}
		for _, fx := range fixtures {
			if fx.Involves(teamID) {
				task.kickoffs = append(task.kickoffs, fx.KickoffAt)
			}
		}
		tasks = append(tasks, task)
	}

	rows, _, err := workerpool.Run(ctx, s.poolSize(len(tasks)), tasks,
		func(_ context.Context, task weekTask) ([]calendar.Event, error) {
			return calendar.BuildWeek(task.teamID, weekStart, task.kickoffs, s.idGen.NewID)
		},
		func(row workerpool.Result[[]calendar.Event]) {
			progress.step(Progress{Kind: ProgressWeekTask, TeamID: tasks[row.Index].teamID, Failed: row.Err != nil})
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdvanceFailed, err)
	}

	var out []calendar.Event
	for _, row := range rows {
		if row.Err != nil {
			s.logger.WarnContext(logging.WithTeam(ctx, tasks[row.Index].teamID), "build week calendar failed", "error", row.Err)
			report.TeamsFailed = appendUnique(report.TeamsFailed, tasks[row.Index].teamID)
			continue
		}
		out = append(out, row.Value...)
	}
	return out, nil
}

type decayTask struct {
	teamID  string
	players []player.Player
	events  []calendar.Event
}

func (s *SeasonService) decay(
	ctx context.Context,
	teamIDs []string,
	window season.Window,
	newEvents []calendar.Event,
	progress *progressTracker,
	report *AdvancementReport,
) (season.Batch, error) {
	batch := season.Batch{WindowStart: window.Start, WindowEnd: window.End, NewEvents: newEvents}

	players, err := s.playerRepo.ListByTeams(ctx, teamIDs)
	if err != nil {
		return season.Batch{}, fmt.Errorf("%w: list players: %v", ErrAdvanceFailed, err)
	}
	events, err := s.calendarRepo.ListByTeamsBetween(ctx, teamIDs, window.Start, window.End)
	if err != nil {
		return season.Batch{}, fmt.Errorf("%w: list calendar events: %v", ErrAdvanceFailed, err)
	}
	for _, e := range newEvents {
		if e.Overlaps(window.Start, window.End) {
			events = append(events, e)
		}
	}

	tasks := make([]decayTask, 0, len(teamIDs))
	byTeam := make(map[string]int, len(teamIDs))
	for _, teamID := range teamIDs {
		byTeam[teamID] = len(tasks)
		tasks = append(tasks, decayTask{teamID: teamID})
	}
	for _, p := range players {
		if i, ok := byTeam[p.TeamID]; ok {
			tasks[i].players = append(tasks[i].players, p)
		}
	}
	for _, e := range events {
		if i, ok := byTeam[e.TeamID]; ok {
			tasks[i].events = append(tasks[i].events, e)
		}
	}

	rows, _, err := workerpool.Run(ctx, s.poolSize(len(tasks)), tasks,
		func(_ context.Context, task decayTask) (condition.TeamResult, error) {
			return s.decayTeam(task, window)
		},
		func(row workerpool.Result[condition.TeamResult]) {
			progress.step(Progress{Kind: ProgressDecayTask, TeamID: tasks[row.Index].teamID, Failed: row.Err != nil})
		},
	)
	if err != nil {
		return season.Batch{}, fmt.Errorf("%w: %v", ErrAdvanceFailed, err)
	}

	for _, row := range rows {
		if row.Err != nil {
			s.logger.WarnContext(logging.WithTeam(ctx, tasks[row.Index].teamID), "attribute decay task failed", "error", row.Err)
			report.TeamsFailed = appendUnique(report.TeamsFailed, tasks[row.Index].teamID)
			continue
		}
		if row.Value.Empty() {
			continue
		}
		report.TeamsUpdated++
		batch.Updates = append(batch.Updates, row.Value.Updates...)
		batch.ConsumedEventIDs = append(batch.ConsumedEventIDs, row.Value.ConsumedEventIDs...)
	}
	sort.Strings(report.TeamsFailed)
	return batch, nil
}

func (s *SeasonService) decayTeam(task decayTask, window season.Window) (condition.TeamResult, error) {
	splits := condition.InjurySplits(window.Start, window.End, task.players)
	intervals := interval.Build(window.Start, window.End, task.events, splits)
	if err := interval.Validate(window.Start, window.End, intervals); err != nil {
		return condition.TeamResult{}, fmt.Errorf("team %s: %w", task.teamID, err)
	}
	return condition.Run(task.teamID, window.Start, window.End, task.players, task.events, intervals, s.tuning), nil
}

func (s *SeasonService) playFixtures(ctx context.Context, fixtures []fixture.Fixture, progress *progressTracker, report *AdvancementReport) {
	sort.SliceStable(fixtures, func(i, j int) bool {
		if !fixtures[i].KickoffAt.Equal(fixtures[j].KickoffAt) {
			return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
		}
		return fixtures[i].ID < fixtures[j].ID
	})

	for _, fx := range fixtures {
		if s.simulator == nil {
			progress.step(Progress{Kind: ProgressMatch, FixtureID: fx.ID, Failed: true})
			continue
		}
		result, err := s.simulator.SimulateFixture(ctx, fx)
		progress.step(Progress{Kind: ProgressMatch, FixtureID: fx.ID, Failed: err != nil})
		if err != nil {
			s.logger.WarnContext(ctx, "simulate fixture failed", "fixture_id", fx.ID, "error", err)
			report.MatchesFailed = append(report.MatchesFailed, fx.ID)
			continue
		}
		report.MatchesPlayed = append(report.MatchesPlayed, summarize(fx, result))
	}
}

func (s *SeasonService) poolSize(tasks int) int {
	if s.cfg.WorkerPoolSize > 0 && s.cfg.WorkerPoolSize < tasks {
		return s.cfg.WorkerPoolSize
	}
	return tasks
}

func summarize(fx fixture.Fixture, result match.Result) MatchSummary {
	return MatchSummary{
		FixtureID:  fx.ID,
		MatchID:    result.MatchID,
		HomeTeamID: result.Home.TeamID,
		AwayTeamID: result.Away.TeamID,
		HomeScore:  result.Home.Goals,
		AwayScore:  result.Away.Goals,
	}
}

func appendUnique(values []string, v string) []string {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// progressTracker serializes callback invocations coming from pool workers.
type progressTracker struct {
	mu    sync.Mutex
	fn    func(Progress)
	total int
	done  int
}

func newProgressTracker(fn func(Progress)) *progressTracker {
	return &progressTracker{fn: fn}
}

func (p *progressTracker) add(n int) {
	p.mu.Lock()
	p.total += n
	p.mu.Unlock()
}

func (p *progressTracker) step(event Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.fn == nil {
		return
	}
	event.Done = p.done
	event.Total = p.total
	p.fn(event)
}
