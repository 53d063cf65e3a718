package interval

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
)

var ErrCoverage = errors.New("intervals do not tile the window")

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Build tiles [start, end) with intervals cut at every calendar event boundary
// and every split point strictly inside the window. The result is ordered,
// contiguous and non-overlapping.
func Build(start, end time.Time, events []calendar.Event, splits []time.Time) []Interval {
	if !end.After(start) {
		return nil
	}

	cuts := make([]time.Time, 0, 2+2*len(events)+len(splits))
	cuts = append(cuts, start, end)
	inside := func(t time.Time) bool { return t.After(start) && t.Before(end) }
	for _, e := range events {
		if inside(e.Start) {
			cuts = append(cuts, e.Start)
		}
		if inside(e.End) {
			cuts = append(cuts, e.End)
		}
	}
	for _, t := range splits {
		if inside(t) {
			cuts = append(cuts, t)
		}
	}

	sort.Slice(cuts, func(i, j int) bool { return cuts[i].Before(cuts[j]) })

	out := make([]Interval, 0, len(cuts)-1)
	for i := 1; i < len(cuts); i++ {
		if !cuts[i].After(cuts[i-1]) {
			continue
		}
		out = append(out, Interval{Start: cuts[i-1], End: cuts[i]})
	}
	return out
}

// Validate checks that intervals tile [start, end) exactly.
func Validate(start, end time.Time, intervals []Interval) error {
	if !end.After(start) {
		if len(intervals) == 0 {
			return nil
		}
		return fmt.Errorf("%w: empty window has %d intervals", ErrCoverage, len(intervals))
	}
	if len(intervals) == 0 {
		return fmt.Errorf("%w: no intervals", ErrCoverage)
	}
	if !intervals[0].Start.Equal(start) {
		return fmt.Errorf("%w: first interval starts at %s, window at %s", ErrCoverage, intervals[0].Start, start)
	}
	for i, iv := range intervals {
		if !iv.End.After(iv.Start) {
			return fmt.Errorf("%w: interval %d is empty", ErrCoverage, i)
		}
		if i > 0 && !iv.Start.Equal(intervals[i-1].End) {
			return fmt.Errorf("%w: gap or overlap before interval %d", ErrCoverage, i)
		}
	}
	if last := intervals[len(intervals)-1]; !last.End.Equal(end) {
		return fmt.Errorf("%w: last interval ends at %s, window at %s", ErrCoverage, last.End, end)
	}
	return nil
}
