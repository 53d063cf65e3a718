package match

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type EventType string

const (
	EventGoal         EventType = "goal"
	EventPenaltyGoal  EventType = "penalty_goal"
	EventPenaltyMiss  EventType = "penalty_miss"
	EventOwnGoal      EventType = "own_goal"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventInjury       EventType = "injury"
	EventSubstitution EventType = "substitution"
)

func (t EventType) IsGoal() bool {
	switch t {
	case EventGoal, EventPenaltyGoal, EventOwnGoal:
		return true
	default:
		return false
	}
}

// AddsStoppage reports whether the event counts towards added time.
func (t EventType) AddsStoppage() bool {
	switch t {
	case EventGoal, EventPenaltyGoal, EventOwnGoal, EventYellowCard, EventRedCard, EventInjury, EventSubstitution:
		return true
	default:
		return false
	}
}

type Side int

const (
	Home Side = iota
	Away
)

func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "home":
		return Home, nil
	case "away":
		return Away, nil
	default:
		return Home, fmt.Errorf("invalid side %q", v)
	}
}

// Event is one timeline entry. Which participant fields are set depends on Type:
// goals carry the scorer and optional assist, own goals the conceding player,
// substitutions both the outgoing (PlayerID) and incoming (PlayerInID) player.
type Event struct {
	Type       EventType `json:"type"`
	Time       string    `json:"time"`
	Second     int       `json:"second"`
	Half       int       `json:"half"`
	Extra      bool      `json:"extra"`
	Side       Side      `json:"side"`
	TeamID     string    `json:"teamId"`
	PlayerID   string    `json:"playerId,omitempty"`
	AssistID   string    `json:"assistId,omitempty"`
	PlayerInID string    `json:"playerInId,omitempty"`
	Slot       string    `json:"slot,omitempty"`
	Forced     bool      `json:"forced,omitempty"`
}

func (e Event) Minute() int {
	return e.Second / 60
}

// FormatClock renders elapsed seconds as "mm:ss". Minutes are not wrapped, so
// 59:59 plus one second is 60:00.
func FormatClock(second int) string {
	if second < 0 {
		second = 0
	}
	return fmt.Sprintf("%02d:%02d", second/60, second%60)
}

func ParseClock(v string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q", v)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock minutes %q: %w", v, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock seconds %q: %w", v, err)
	}
	if minutes < 0 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid clock %q", v)
	}
	return minutes*60 + seconds, nil
}

// EventMap holds one side's events keyed by "mm:ss".
type EventMap struct {
	items map[string]Event
}

func NewEventMap() *EventMap {
	return &EventMap{items: make(map[string]Event)}
}

// Insert stores ev at its requested second, probing forward one second at a
// time while the key is taken. The stored event is returned.
func (m *EventMap) Insert(ev Event) Event {
	second := ev.Second
	if second < 0 {
		second = 0
	}
	for {
		if stored, ok := m.tryStore(ev, second); ok {
			return stored
		}
		second++
	}
}

// InsertWithin stores ev inside [lo, hi): it probes forward from the requested
// second up to hi, then backward down to lo. Only a window without a free
// second falls back to Insert.
func (m *EventMap) InsertWithin(ev Event, lo, hi int) Event {
	if hi <= lo {
		return m.Insert(ev)
	}
	start := min(max(ev.Second, lo), hi-1)
	for second := start; second < hi; second++ {
		if stored, ok := m.tryStore(ev, second); ok {
			return stored
		}
	}
	for second := start - 1; second >= lo; second-- {
		if stored, ok := m.tryStore(ev, second); ok {
			return stored
		}
	}
	return m.Insert(ev)
}

func (m *EventMap) tryStore(ev Event, second int) (Event, bool) {
	key := FormatClock(second)
	if _, taken := m.items[key]; taken {
		return Event{}, false
	}
	ev.Second = second
	ev.Time = key
	m.items[key] = ev
	return ev, true
}

func (m *EventMap) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

func (m *EventMap) Get(key string) (Event, bool) {
	ev, ok := m.items[key]
	return ev, ok
}

func (m *EventMap) Len() int {
	return len(m.items)
}

// Events returns the timeline ordered by half then clock.
func (m *EventMap) Events() []Event {
	out := make([]Event, 0, len(m.items))
	for _, ev := range m.items {
		out = append(out, ev)
	}
	SortEvents(out)
	return out
}

func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Half != events[j].Half {
			return events[i].Half < events[j].Half
		}
		if events[i].Second != events[j].Second {
			return events[i].Second < events[j].Second
		}
		return events[i].Side < events[j].Side
	})
}
