package match

import (
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/platform/random"
)

// SideSetup is what one team brings to a match.
type SideSetup struct {
	TeamID string
	Lineup lineup.Lineup
	// Roster is the full squad of the team; lineup players must be part of it.
	Roster []player.Player
	// AutoSubstitute lets the engine make fitness substitutions for the side.
	AutoSubstitute bool
}

// SideState is the match-scoped state of one team.
type SideState struct {
	TeamID         string
	Squad          *lineup.MatchSquad
	Events         *EventMap
	Stats          Stats
	Ratings        Ratings
	Goals          int
	AutoSubstitute bool

	players       map[string]*player.Player
	rosterOrder   []string
	appeared      map[string]bool
	yellows       map[string]int
	sentOff       map[string]bool
	injuries      map[string]time.Duration
	lastSubHalf   int
	lastSubSecond int
}

// Fitness returns the live fitness of a player still involved in the match.
// Players that were taken off are not shown.
func (s *SideState) Fitness(playerID string) (float64, bool) {
	if _, removed := s.Squad.Removed(playerID); removed {
		return 0, false
	}
	p, ok := s.players[playerID]
	if !ok {
		return 0, false
	}
	return p.Fitness, true
}

func (s *SideState) Player(playerID string) (player.Player, bool) {
	p, ok := s.players[playerID]
	if !ok {
		return player.Player{}, false
	}
	return player.Clone(*p), true
}

// Match is a single simulated game driven in 30 second ticks.
type Match struct {
	ID        string
	FixtureID string
	Kickoff   time.Time
	Severity  float64
	Clock     Clock

	sides      [2]*SideState
	tuning     Tuning
	rng        random.Source
	extraFloor [3]int
}

func New(id string, fx fixture.Fixture, home, away SideSetup, tuning Tuning, rng random.Source) (*Match, error) {
	if rng == nil {
		return nil, crerr.New("match random source is required")
	}
	tuning = tuning.Normalize()

	hs, err := newSideState(home, tuning)
	if err != nil {
		return nil, err
	}
	as, err := newSideState(away, tuning)
	if err != nil {
		return nil, err
	}
	if hs.TeamID == as.TeamID {
		return nil, crerr.Wrapf(ErrDataIntegrity, "team %s cannot play itself", hs.TeamID)
	}

	return &Match{
		ID:        id,
		FixtureID: fx.ID,
		Kickoff:   fx.KickoffAt,
		Severity:  fx.Severity(),
		Clock:     Clock{Phase: PhasePreKickoff},
		sides:     [2]*SideState{hs, as},
		tuning:    tuning,
		rng:       rng,
	}, nil
}

func newSideState(setup SideSetup, tuning Tuning) (*SideState, error) {
	if setup.TeamID == "" {
		return nil, crerr.Wrap(ErrDataIntegrity, "team id is required")
	}
	if err := setup.Lineup.Validate(tuning.MaxSubstitutes); err != nil {
		return nil, crerr.Wrapf(ErrDataIntegrity, "team %s lineup: %v", setup.TeamID, err)
	}

	players := make(map[string]*player.Player, len(setup.Roster))
	order := make([]string, 0, len(setup.Roster))
	for _, p := range setup.Roster {
		if p.TeamID != setup.TeamID {
			return nil, crerr.Wrapf(ErrDataIntegrity, "player %s does not belong to team %s", p.ID, setup.TeamID)
		}
		cp := player.Clone(p)
		players[p.ID] = &cp
		order = append(order, p.ID)
	}

	l := lineup.Clone(setup.Lineup)
	l.TeamID = setup.TeamID
	for _, playerID := range l.PlayerIDs() {
		p, ok := players[playerID]
		if !ok {
			return nil, crerr.Wrapf(ErrDataIntegrity, "team %s lineup references unknown player %s", setup.TeamID, playerID)
		}
		if !p.Available() {
			return nil, crerr.Wrapf(ErrDataIntegrity, "team %s lineup names unavailable player %s", setup.TeamID, playerID)
		}
	}

	s := &SideState{
		TeamID:         setup.TeamID,
		Squad:          lineup.NewMatchSquad(l, setup.Roster, tuning.SubstitutionQuota),
		Events:         NewEventMap(),
		Ratings:        make(Ratings),
		AutoSubstitute: setup.AutoSubstitute,
		players:        players,
		rosterOrder:    order,
		appeared:       make(map[string]bool),
		yellows:        make(map[string]int),
		sentOff:        make(map[string]bool),
		injuries:       make(map[string]time.Duration),
		lastSubSecond:  -1,
	}
	for _, playerID := range s.Squad.OnPitchIDs() {
		s.appeared[playerID] = true
		s.Ratings.Ensure(playerID)
	}
	return s, nil
}

func (m *Match) Side(side Side) *SideState {
	return m.sides[side]
}

func (m *Match) Tuning() Tuning {
	return m.tuning
}

func (m *Match) Score() (int, int) {
	return m.sides[Home].Goals, m.sides[Away].Goals
}

func (m *Match) Finished() bool {
	return m.Clock.Phase == PhaseFullTime
}

// SetExtraFloor raises the added time of a half to at least minutes. It is how
// matches of one matchday share a clock.
func (m *Match) SetExtraFloor(half, minutes int) {
	if half != 1 && half != 2 {
		return
	}
	if minutes > m.extraFloor[half] {
		m.extraFloor[half] = minutes
	}
}

// AllEvents merges both timelines.
func (m *Match) AllEvents() []Event {
	out := append(m.sides[Home].Events.Events(), m.sides[Away].Events.Events()...)
	SortEvents(out)
	return out
}

// Tick advances the match by one 30 second step and returns the events it
// produced.
func (m *Match) Tick() ([]Event, error) {
	switch m.Clock.Phase {
	case PhaseFullTime:
		return nil, ErrMatchFinished
	case PhasePreKickoff:
		m.Clock.Phase = PhaseFirstHalf
		m.Clock.Second = 0
	case PhaseHalfTime:
		m.Clock.Phase = PhaseSecondHalf
		m.Clock.Second = HalfSeconds
		return nil, nil
	}

	from := m.Clock.Second
	to := min(from+TickSeconds, m.Clock.Boundary())
	var events []Event
	if to > from {
		t := m.newTick(from, to)
		events = append(events, m.playSide(t, Home)...)
		events = append(events, m.playSide(t, Away)...)
	}
	m.Clock.Second = to
	if m.Clock.Second >= m.Clock.Boundary() {
		m.endPhase()
	}

	SortEvents(events)
	return events, nil
}

func (m *Match) endPhase() {
	switch m.Clock.Phase {
	case PhaseFirstHalf:
		m.Clock.FirstHalfExtra = max(ExtraTime(m.AllEvents(), 1), m.extraFloor[1])
		m.Clock.Phase = PhaseHalfTimeExtra
		if m.Clock.FirstHalfExtra == 0 {
			m.Clock.Phase = PhaseHalfTime
		}
	case PhaseHalfTimeExtra:
		m.Clock.Phase = PhaseHalfTime
	case PhaseSecondHalf:
		m.Clock.SecondHalfExtra = max(ExtraTime(m.AllEvents(), 2), m.extraFloor[2])
		m.Clock.Phase = PhaseFullTimeExtra
		if m.Clock.SecondHalfExtra == 0 {
			m.Clock.Phase = PhaseFullTime
		}
	case PhaseFullTimeExtra:
		m.Clock.Phase = PhaseFullTime
	}
}

// SimulateToEnd ticks until full time.
func (m *Match) SimulateToEnd() error {
	for !m.Finished() {
		if _, err := m.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Substitute applies a user requested batch of changes at the current clock.
func (m *Match) Substitute(side Side, changes []lineup.Change) (lineup.SubstitutionResult, []Event, error) {
	switch m.Clock.Phase {
	case PhasePreKickoff:
		return lineup.SubstitutionResult{}, nil, ErrMatchNotStarted
	case PhaseFullTime:
		return lineup.SubstitutionResult{}, nil, ErrMatchFinished
	}

	s := m.sides[side]
	result := s.Squad.Apply(changes)
	if !result.Applied {
		return result, nil, nil
	}

	t := m.newTick(m.Clock.Second, m.Clock.Second)
	if m.Clock.Phase == PhaseHalfTime {
		// half-time changes count as the first action of the second half
		t = tick{from: HalfSeconds, to: HalfSeconds, half: 2, floor: HalfSeconds, limit: FullSeconds}
	}
	events := make([]Event, 0, len(result.Substitutions))
	for _, sub := range result.Substitutions {
		events = append(events, m.recordSubstitution(side, t, sub))
	}
	return result, events, nil
}

func (m *Match) newTick(from, to int) tick {
	return tick{
		from:  from,
		to:    to,
		half:  m.Clock.Half(),
		added: m.Clock.InAddedTime(),
		floor: m.Clock.PhaseStart(),
		limit: m.Clock.Boundary(),
	}
}

// Result summarizes a finished match.
func (m *Match) Result() (Result, error) {
	if !m.Finished() {
		return Result{}, ErrMatchNotFinished
	}

	res := Result{
		MatchID:         m.ID,
		FixtureID:       m.FixtureID,
		Home:            m.sideResult(Home),
		Away:            m.sideResult(Away),
		FirstHalfExtra:  m.Clock.FirstHalfExtra,
		SecondHalfExtra: m.Clock.SecondHalfExtra,
	}

	hg, ag := m.Score()
	for _, side := range []Side{Home, Away} {
		s := m.sides[side]
		own, other := hg, ag
		if side == Away {
			own, other = ag, hg
		}
		morale := 0.0
		switch {
		case own > other:
			morale = resultMoraleSwing
		case own < other:
			morale = -resultMoraleSwing
		}
		for _, playerID := range s.rosterOrder {
			res.Players = append(res.Players, s.outcome(playerID, morale))
		}
	}
	return res, nil
}

const resultMoraleSwing = 3.0

func (m *Match) sideResult(side Side) SideResult {
	s := m.sides[side]
	return SideResult{
		TeamID: s.TeamID,
		Goals:  s.Goals,
		Events: s.Events.Events(),
		Stats:  s.Stats,
		Lineup: s.Squad.Lineup(),
	}
}

func (s *SideState) outcome(playerID string, morale float64) PlayerOutcome {
	p := s.players[playerID]
	out := PlayerOutcome{
		PlayerID:        p.ID,
		TeamID:          s.TeamID,
		Appeared:        s.appeared[playerID],
		Fitness:         p.Fitness,
		Sharpness:       p.Sharpness,
		Morale:          player.Clamp(p.Morale + morale),
		InjuryRemaining: p.InjuryRemaining,
		BanMatches:      p.BanMatches,
		YellowCards:     p.YellowCards + s.yellows[playerID],
	}
	if out.Appeared {
		out.Rating = s.Ratings[playerID]
	}
	if d, ok := s.injuries[playerID]; ok {
		out.InjuryRemaining = d
	}
	switch {
	case s.sentOff[playerID]:
		out.BanMatches = p.BanMatches + 1
	case p.BanMatches > 0:
		out.BanMatches = p.BanMatches - 1
	}
	return out
}
