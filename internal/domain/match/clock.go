package match

const (
	TickSeconds     = 30
	HalfSeconds     = 45 * 60
	FullSeconds     = 90 * 60
	MaxExtraMinutes = 5
)

type Phase int

const (
	PhasePreKickoff Phase = iota
	PhaseFirstHalf
	PhaseHalfTimeExtra
	PhaseHalfTime
	PhaseSecondHalf
	PhaseFullTimeExtra
	PhaseFullTime
)

func (p Phase) String() string {
	switch p {
	case PhasePreKickoff:
		return "pre_kickoff"
	case PhaseFirstHalf:
		return "first_half"
	case PhaseHalfTimeExtra:
		return "half_time_extra"
	case PhaseHalfTime:
		return "half_time"
	case PhaseSecondHalf:
		return "second_half"
	case PhaseFullTimeExtra:
		return "full_time_extra"
	default:
		return "full_time"
	}
}

// Playing reports whether the ball is in play during the phase.
func (p Phase) Playing() bool {
	switch p {
	case PhaseFirstHalf, PhaseHalfTimeExtra, PhaseSecondHalf, PhaseFullTimeExtra:
		return true
	default:
		return false
	}
}

// ExtraTime computes the added minutes of a half from its timeline: one minute
// per qualifying event capped at five, but never short of the latest qualifying
// minute past the regulation mark.
func ExtraTime(events []Event, half int) int {
	baseline := 45
	if half == 2 {
		baseline = 90
	}

	count, latest := 0, -1
	for _, ev := range events {
		if ev.Half != half || !ev.Type.AddsStoppage() {
			continue
		}
		count++
		if m := ev.Minute(); m > latest {
			latest = m
		}
	}

	extra := min(count, MaxExtraMinutes)
	if latest >= 0 && latest-baseline > extra {
		extra = latest - baseline
	}
	return extra
}

// Clock tracks the phase and the elapsed game clock in seconds.
type Clock struct {
	Phase           Phase
	Second          int
	FirstHalfExtra  int
	SecondHalfExtra int
}

func (c Clock) Half() int {
	switch c.Phase {
	case PhaseSecondHalf, PhaseFullTimeExtra, PhaseFullTime:
		return 2
	default:
		return 1
	}
}

// Boundary is the clock second at which the current phase ends.
func (c Clock) Boundary() int {
	switch c.Phase {
	case PhaseFirstHalf:
		return HalfSeconds
	case PhaseHalfTimeExtra:
		return HalfSeconds + c.FirstHalfExtra*60
	case PhaseSecondHalf:
		return FullSeconds
	case PhaseFullTimeExtra:
		return FullSeconds + c.SecondHalfExtra*60
	default:
		return c.Second
	}
}

// PhaseStart is the clock second at which the current phase began.
func (c Clock) PhaseStart() int {
	switch c.Phase {
	case PhaseHalfTimeExtra, PhaseHalfTime, PhaseSecondHalf:
		return HalfSeconds
	case PhaseFullTimeExtra, PhaseFullTime:
		return FullSeconds
	default:
		return 0
	}
}

func (c Clock) InAddedTime() bool {
	return c.Phase == PhaseHalfTimeExtra || c.Phase == PhaseFullTimeExtra
}

func (c Clock) Display() string {
	return FormatClock(c.Second)
}
