package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/domain/season"
	"github.com/riskibarqy/season-sim/internal/platform/id"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/riskibarqy/season-sim/internal/platform/random"
	"go.opentelemetry.io/otel/attribute"
)

type MatchConfig struct {
	// SharedClock makes the interactive match use the largest added time of its matchday.
	SharedClock bool
	// Seed makes simulations reproducible when non-zero.
	Seed      uint64
	LiveSpeed time.Duration
	Formation lineup.Formation
}

// MatchEventPublisher pushes freshly produced events to live subscribers.
type MatchEventPublisher interface {
	PublishEvents(ctx context.Context, matchID string, events []match.Event) error
}

// LeagueUpdater recomputes league state after a match was persisted.
type LeagueUpdater interface {
	MatchFinished(ctx context.Context, fx fixture.Fixture, result match.Result) error
}

type nopPublisher struct{}

func (nopPublisher) PublishEvents(context.Context, string, []match.Event) error { return nil }

type nopLeagueUpdater struct{}

func (nopLeagueUpdater) MatchFinished(context.Context, fixture.Fixture, match.Result) error {
	return nil
}

type Matchday struct {
	KickoffAt          time.Time
	InteractiveMatchID string
	Results            []MatchSummary
	Failed             []string
}

// MatchView is the read model of a registered match.
type MatchView struct {
	match.Snapshot
	Live      bool
	LiveSpeed time.Duration
}

type matchSession struct {
	mu            sync.Mutex
	match         *match.Match
	fixture       fixture.Fixture
	managedTeamID string
	live          *LiveMatch
}

type MatchService struct {
	playerRepo  player.Repository
	lineupRepo  lineup.Repository
	fixtureRepo fixture.Repository
	matchRepo   match.Repository
	stateRepo   season.StateRepository
	league      LeagueUpdater
	publisher   MatchEventPublisher
	idGen       id.Generator
	tuning      match.Tuning
	cfg         MatchConfig
	logger      *logging.Logger
	now         func() time.Time
	newSource   func(seed uint64) random.Source

	seq      atomic.Uint64
	mu       sync.RWMutex
	sessions map[string]*matchSession
}

func NewMatchService(
	playerRepo player.Repository,
	lineupRepo lineup.Repository,
	fixtureRepo fixture.Repository,
	matchRepo match.Repository,
	stateRepo season.StateRepository,
	league LeagueUpdater,
	publisher MatchEventPublisher,
	idGen id.Generator,
	tuning match.Tuning,
	cfg MatchConfig,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	if league == nil {
		league = nopLeagueUpdater{}
	}
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if len(cfg.Formation) == 0 {
		cfg.Formation = lineup.Formation442
	}
	if cfg.LiveSpeed <= 0 {
		cfg.LiveSpeed = defaultLiveSpeed
	}

	return &MatchService{
		playerRepo:  playerRepo,
		lineupRepo:  lineupRepo,
		fixtureRepo: fixtureRepo,
		matchRepo:   matchRepo,
		stateRepo:   stateRepo,
		league:      league,
		publisher:   publisher,
		idGen:       idGen,
		tuning:      tuning.Normalize(),
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		newSource:   random.New,
		sessions:    make(map[string]*matchSession),
	}
}

// StartMatchday loads every fixture kicking off at the current date. Fixtures
// of other teams are simulated to completion and persisted; the manager's
// fixture is registered for interactive play.
func (s *MatchService) StartMatchday(ctx context.Context, managerTeamID string) (Matchday, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.StartMatchday", attribute.String("manager_team_id", managerTeamID))
	defer span.End()

	managerTeamID = strings.TrimSpace(managerTeamID)
	if managerTeamID == "" {
		return Matchday{}, fmt.Errorf("%w: manager team id is required", ErrInvalidInput)
	}
	ctx = logging.WithTeam(ctx, managerTeamID)

	now, err := s.stateRepo.CurrentDate(ctx)
	if err != nil {
		return Matchday{}, fmt.Errorf("read current date: %w", err)
	}
	fixtures, err := s.fixtureRepo.ListByKickoff(ctx, now)
	if err != nil {
		return Matchday{}, fmt.Errorf("list fixtures by kickoff: %w", err)
	}

	var own fixture.Fixture
	others := make([]fixture.Fixture, 0, len(fixtures))
	for _, fx := range fixtures {
		if fx.Finished() {
			continue
		}
		if fx.Involves(managerTeamID) {
			own = fx
			continue
		}
		others = append(others, fx)
	}
	if own.ID == "" {
		return Matchday{}, fmt.Errorf("%w: no fixture for team=%s kicks off at %s", ErrNotFound, managerTeamID, now.Format(time.RFC3339))
	}
	if s.sessionForFixture(own.ID) != "" {
		return Matchday{}, fmt.Errorf("%w: fixture=%s already started", ErrConflict, own.ID)
	}

	interactive, err := s.buildMatch(ctx, own, managerTeamID)
	if err != nil {
		if errors.Is(err, match.ErrDataIntegrity) {
			return Matchday{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Matchday{}, err
	}

	day := Matchday{KickoffAt: now, InteractiveMatchID: interactive.ID}
	firstExtra, secondExtra := 0, 0
	for _, fx := range others {
		fxCtx := logging.WithFixture(ctx, fx.ID)
		result, err := s.SimulateFixture(fxCtx, fx)
		if err != nil {
			s.logger.WarnContext(fxCtx, "simulate matchday fixture failed", "error", err)
			day.Failed = append(day.Failed, fx.ID)
			continue
		}
		firstExtra = max(firstExtra, result.FirstHalfExtra)
		secondExtra = max(secondExtra, result.SecondHalfExtra)
		day.Results = append(day.Results, summarize(fx, result))
	}
	if s.cfg.SharedClock {
		interactive.SetExtraFloor(1, firstExtra)
		interactive.SetExtraFloor(2, secondExtra)
	}

	s.mu.Lock()
	s.sessions[interactive.ID] = &matchSession{match: interactive, fixture: own, managedTeamID: managerTeamID}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "matchday started",
		"kickoff_at", now,
		"interactive_match_id", interactive.ID,
		"fixture_id", own.ID,
		"simulated", len(day.Results),
		"failed", len(day.Failed),
	)
	return day, nil
}

// SimulateFixture plays a fixture with engine-managed lineups and persists it.
func (s *MatchService) SimulateFixture(ctx context.Context, fx fixture.Fixture) (match.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SimulateFixture", attribute.String("fixture_id", fx.ID))
	defer span.End()
	ctx = logging.WithFixture(ctx, fx.ID)

	m, err := s.buildMatch(ctx, fx, "")
	if err != nil {
		recordSpanError(span, err)
		return match.Result{}, err
	}
	if err := m.SimulateToEnd(); err != nil {
		return match.Result{}, fmt.Errorf("simulate fixture=%s: %w", fx.ID, err)
	}
	return s.finish(ctx, m, fx)
}

func (s *MatchService) SimulateTick(ctx context.Context, matchID string) ([]match.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.SimulateTick", attribute.String("match_id", matchID))
	defer span.End()
	ctx = logging.WithMatch(ctx, matchID)

	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	events, _, err := s.tick(ctx, matchID, sess)
	return events, err
}

func (s *MatchService) tick(ctx context.Context, matchID string, sess *matchSession) ([]match.Event, bool, error) {
	sess.mu.Lock()
	events, err := sess.match.Tick()
	finished := sess.match.Finished()
	sess.mu.Unlock()

	if errors.Is(err, match.ErrMatchFinished) {
		return nil, true, ErrMatchOver
	}
	if err != nil {
		return nil, finished, fmt.Errorf("tick match=%s: %w", matchID, err)
	}
	s.publish(ctx, matchID, events)
	return events, finished, nil
}

func (s *MatchService) RequestSubstitution(ctx context.Context, matchID string, side match.Side, changes []lineup.Change) (lineup.SubstitutionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RequestSubstitution", attribute.String("match_id", matchID))
	defer span.End()
	ctx = logging.WithMatch(ctx, matchID)

	if len(changes) == 0 {
		return lineup.SubstitutionResult{}, fmt.Errorf("%w: at least one change is required", ErrInvalidInput)
	}
	sess, err := s.session(matchID)
	if err != nil {
		return lineup.SubstitutionResult{}, err
	}

	sess.mu.Lock()
	result, events, err := sess.match.Substitute(side, changes)
	teamID := sess.match.Side(side).TeamID
	interim, storable := interimLineup(sess.match.Side(side).Squad, s.tuning.MaxSubstitutes)
	sess.mu.Unlock()

	switch {
	case errors.Is(err, match.ErrMatchNotStarted):
		return lineup.SubstitutionResult{}, fmt.Errorf("%w: match=%s has not kicked off", ErrConflict, matchID)
	case errors.Is(err, match.ErrMatchFinished):
		return lineup.SubstitutionResult{}, ErrMatchOver
	case err != nil:
		return lineup.SubstitutionResult{}, fmt.Errorf("substitute in match=%s: %w", matchID, err)
	}
	if !result.Applied {
		return result, nil
	}

	if teamID == sess.managedTeamID && storable {
		interim.UpdatedAt = s.now().UTC()
		if err := s.lineupRepo.Upsert(ctx, interim); err != nil {
			s.logger.WarnContext(logging.WithTeam(ctx, teamID), "store interim lineup failed", "error", err)
		}
	}
	s.publish(ctx, matchID, events)
	return result, nil
}

// EndMatch persists a finished interactive match and releases it.
func (s *MatchService) EndMatch(ctx context.Context, matchID string) (match.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.EndMatch", attribute.String("match_id", matchID))
	defer span.End()
	ctx = logging.WithMatch(ctx, matchID)

	sess, err := s.session(matchID)
	if err != nil {
		return match.Result{}, err
	}
	if live := s.liveOf(sess); live != nil {
		live.Pause()
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.match.Finished() {
		return match.Result{}, fmt.Errorf("%w: match=%s is still in play", ErrConflict, matchID)
	}
	result, err := s.finish(ctx, sess.match, sess.fixture)
	if err != nil {
		recordSpanError(span, err)
		return match.Result{}, err
	}
	s.storeNextLineup(logging.WithTeam(ctx, sess.managedTeamID), sess.managedTeamID, sideLineup(result, sess.managedTeamID))

	s.mu.Lock()
	delete(s.sessions, matchID)
	s.mu.Unlock()
	return result, nil
}

func (s *MatchService) Snapshot(ctx context.Context, matchID string) (MatchView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.MatchService.Snapshot", attribute.String("match_id", matchID))
	defer span.End()

	sess, err := s.session(matchID)
	if err != nil {
		return MatchView{}, err
	}
	sess.mu.Lock()
	view := MatchView{Snapshot: sess.match.Snapshot()}
	live := sess.live
	sess.mu.Unlock()

	if live != nil {
		view.Live = live.Running()
		view.LiveSpeed = live.Speed()
	}
	return view, nil
}

func (s *MatchService) StartLive(ctx context.Context, matchID string, speed time.Duration) error {
	sess, err := s.session(matchID)
	if err != nil {
		return err
	}
	live := s.ensureLive(ctx, matchID, sess)
	if speed > 0 {
		live.SetSpeed(speed)
	}
	return live.Start(ctx)
}

func (s *MatchService) PauseLive(_ context.Context, matchID string) error {
	sess, err := s.session(matchID)
	if err != nil {
		return err
	}
	live := s.liveOf(sess)
	if live == nil {
		return fmt.Errorf("%w: match=%s is not running live", ErrConflict, matchID)
	}
	live.Pause()
	return nil
}

func (s *MatchService) ResumeLive(ctx context.Context, matchID string) error {
	sess, err := s.session(matchID)
	if err != nil {
		return err
	}
	live := s.liveOf(sess)
	if live == nil {
		return fmt.Errorf("%w: match=%s was never started live", ErrConflict, matchID)
	}
	return live.Resume(ctx)
}

func (s *MatchService) SetLiveSpeed(ctx context.Context, matchID string, speed time.Duration) error {
	if speed <= 0 {
		return fmt.Errorf("%w: speed must be > 0", ErrInvalidInput)
	}
	sess, err := s.session(matchID)
	if err != nil {
		return err
	}
	s.ensureLive(ctx, matchID, sess).SetSpeed(speed)
	return nil
}

// LiveDone is closed when the live loop of a match reached full time.
func (s *MatchService) LiveDone(matchID string) (<-chan struct{}, error) {
	sess, err := s.session(matchID)
	if err != nil {
		return nil, err
	}
	live := s.liveOf(sess)
	if live == nil {
		return nil, fmt.Errorf("%w: match=%s is not running live", ErrConflict, matchID)
	}
	return live.Done(), nil
}

func (s *MatchService) ensureLive(ctx context.Context, matchID string, sess *matchSession) *LiveMatch {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.live == nil {
		logger := s.logger.With("match_id", matchID)
		sess.live = NewLiveMatch(func(stepCtx context.Context) (bool, error) {
			_, finished, err := s.tick(logging.WithMatch(stepCtx, matchID), matchID, sess)
			if errors.Is(err, ErrMatchOver) {
				return true, nil
			}
			return finished, err
		}, s.cfg.LiveSpeed, logger)
	}
	return sess.live
}

func (s *MatchService) liveOf(sess *matchSession) *LiveMatch {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.live
}

func (s *MatchService) session(matchID string) (*matchSession, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return sess, nil
}

func (s *MatchService) sessionForFixture(fixtureID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for matchID, sess := range s.sessions {
		if sess.fixture.ID == fixtureID {
			return matchID
		}
	}
	return ""
}

func (s *MatchService) buildMatch(ctx context.Context, fx fixture.Fixture, managedTeamID string) (*match.Match, error) {
	home, err := s.sideSetup(ctx, fx.HomeTeamID, managedTeamID)
	if err != nil {
		return nil, err
	}
	away, err := s.sideSetup(ctx, fx.AwayTeamID, managedTeamID)
	if err != nil {
		return nil, err
	}

	matchID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate match id: %w", err)
	}
	return match.New(matchID, fx, home, away, s.tuning, s.nextSource())
}

func (s *MatchService) sideSetup(ctx context.Context, teamID, managedTeamID string) (match.SideSetup, error) {
	roster, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return match.SideSetup{}, fmt.Errorf("list players for team=%s: %w", teamID, err)
	}

	if teamID == managedTeamID {
		selected, err := s.managedLineup(ctx, teamID, roster)
		if err != nil {
			return match.SideSetup{}, err
		}
		return match.SideSetup{TeamID: teamID, Lineup: selected, Roster: roster}, nil
	}

	selected, err := lineup.AutoSelect(teamID, roster, s.cfg.Formation, s.tuning.MaxSubstitutes)
	if err != nil {
		return match.SideSetup{}, crerr.Wrapf(match.ErrDataIntegrity, "auto select lineup for team=%s: %v", teamID, err)
	}
	return match.SideSetup{TeamID: teamID, Lineup: selected, Roster: roster, AutoSubstitute: true}, nil
}

// managedLineup loads the manager's saved lineup and repairs it against the
// current squad. A repaired lineup is stored before kickoff.
func (s *MatchService) managedLineup(ctx context.Context, teamID string, roster []player.Player) (lineup.Lineup, error) {
	saved, exists, err := s.lineupRepo.GetByTeam(ctx, teamID)
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("get lineup for team=%s: %w", teamID, err)
	}

	var (
		selected lineup.Lineup
		changed  = true
	)
	if exists {
		selected, changed, err = lineup.Repair(saved, roster, s.cfg.Formation, s.tuning.MaxSubstitutes)
	} else {
		selected, err = lineup.AutoSelect(teamID, roster, s.cfg.Formation, s.tuning.MaxSubstitutes)
	}
	if err != nil {
		return lineup.Lineup{}, crerr.Wrapf(match.ErrDataIntegrity, "prepare lineup for team=%s: %v", teamID, err)
	}
	if !changed {
		return selected, nil
	}

	selected.TeamID = teamID
	selected.UpdatedAt = s.now().UTC()
	if err := s.lineupRepo.Upsert(ctx, selected); err != nil {
		return lineup.Lineup{}, fmt.Errorf("store repaired lineup for team=%s: %w", teamID, err)
	}
	s.logger.InfoContext(ctx, "managed lineup repaired", "team_id", teamID, "had_saved", exists)
	return selected, nil
}

// storeNextLineup saves the final lineup of a match, repaired for the
// injuries and bans it produced, as the team's lineup for its next match.
func (s *MatchService) storeNextLineup(ctx context.Context, teamID string, final lineup.Lineup) {
	if teamID == "" || len(final.Slots) == 0 {
		return
	}
	roster, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "load squad for next lineup failed", "error", err)
		return
	}
	next, _, err := lineup.Repair(final, roster, s.cfg.Formation, s.tuning.MaxSubstitutes)
	if err != nil {
		s.logger.WarnContext(ctx, "prepare next lineup failed", "error", err)
		return
	}
	next.TeamID = teamID
	next.UpdatedAt = s.now().UTC()
	if err := s.lineupRepo.Upsert(ctx, next); err != nil {
		s.logger.WarnContext(ctx, "store next lineup failed", "error", err)
	}
}

func sideLineup(result match.Result, teamID string) lineup.Lineup {
	switch teamID {
	case result.Home.TeamID:
		return result.Home.Lineup
	case result.Away.TeamID:
		return result.Away.Lineup
	default:
		return lineup.Lineup{}
	}
}

// interimLineup is the in-match lineup without players that were injured or
// sent off. It is only storable while the side still fields eleven.
func interimLineup(squad *lineup.MatchSquad, maxSubstitutes int) (lineup.Lineup, bool) {
	current := squad.Lineup()
	bench := make([]string, 0, len(current.Substitutes))
	for _, playerID := range current.Substitutes {
		if reason, removed := squad.Removed(playerID); removed && reason != lineup.RemovalSubstituted {
			continue
		}
		bench = append(bench, playerID)
	}
	if maxSubstitutes > 0 && len(bench) > maxSubstitutes {
		bench = bench[:maxSubstitutes]
	}
	current.Substitutes = bench
	return current, current.Validate(maxSubstitutes) == nil
}

func (s *MatchService) finish(ctx context.Context, m *match.Match, fx fixture.Fixture) (match.Result, error) {
	result, err := m.Result()
	if err != nil {
		return match.Result{}, fmt.Errorf("%w: %v", ErrConflict, err)
	}
	if err := s.matchRepo.SaveResult(ctx, result); err != nil {
		return match.Result{}, fmt.Errorf("save result for fixture=%s: %w", fx.ID, err)
	}
	if err := s.league.MatchFinished(ctx, fx, result); err != nil {
		s.logger.WarnContext(logging.WithMatch(ctx, m.ID), "league update after match failed", "error", err)
	}
	return result, nil
}

func (s *MatchService) publish(ctx context.Context, matchID string, events []match.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.PublishEvents(ctx, matchID, events); err != nil {
		s.logger.WarnContext(logging.WithMatch(ctx, matchID), "publish match events failed", "count", len(events), "error", err)
	}
}

func (s *MatchService) nextSource() random.Source {
	n := s.seq.Add(1)
	if s.cfg.Seed != 0 {
		return s.newSource(s.cfg.Seed + n)
	}
	return s.newSource(uint64(s.now().UnixNano()) + n)
}
