package interval

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
)

var base = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time {
	return base.Add(time.Duration(h) * time.Hour)
}

func TestBuild_GapsPrependedAndAppended(t *testing.T) {
	events := []calendar.Event{
		{ID: "e1", TeamID: "t1", Type: calendar.EventTraining, Start: at(9), End: at(11)},
	}

	got := Build(at(0), at(24), events, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 intervals, got %d: %+v", len(got), got)
	}
	if !got[0].Start.Equal(at(0)) || !got[0].End.Equal(at(9)) {
		t.Fatalf("unexpected leading gap: %+v", got[0])
	}
	if !got[2].Start.Equal(at(11)) || !got[2].End.Equal(at(24)) {
		t.Fatalf("unexpected trailing gap: %+v", got[2])
	}
	if err := Validate(at(0), at(24), got); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBuild_EventsOutsideWindowAreClipped(t *testing.T) {
	events := []calendar.Event{
		{ID: "e1", Start: at(-2), End: at(2)},
		{ID: "e2", Start: at(20), End: at(30)},
	}

	got := Build(at(0), at(24), events, nil)
	if err := Validate(at(0), at(24), got); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(got))
	}
}

func TestBuild_InjurySplit(t *testing.T) {
	events := []calendar.Event{{ID: "e1", Start: at(9), End: at(11)}}

	got := Build(at(0), at(24), events, []time.Time{at(10), at(0), at(24), at(30)})
	if len(got) != 4 {
		t.Fatalf("expected injury to split the event interval, got %d", len(got))
	}
	if !got[1].End.Equal(at(10)) || !got[2].Start.Equal(at(10)) {
		t.Fatalf("unexpected split: %+v", got)
	}
}

func TestBuild_EmptyWindow(t *testing.T) {
	if got := Build(at(5), at(5), nil, nil); len(got) != 0 {
		t.Fatalf("expected no intervals, got %d", len(got))
	}
}

func TestBuild_RandomCoverage(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for round := 0; round < 200; round++ {
		start := at(rng.IntN(48))
		end := start.Add(time.Duration(1+rng.IntN(200)) * time.Hour)

		var events []calendar.Event
		for i := 0; i < rng.IntN(10); i++ {
			s := start.Add(time.Duration(rng.IntN(400)-100) * time.Hour)
			events = append(events, calendar.Event{Start: s, End: s.Add(time.Duration(1+rng.IntN(5)) * time.Hour)})
		}
		var splits []time.Time
		for i := 0; i < rng.IntN(4); i++ {
			splits = append(splits, start.Add(time.Duration(rng.IntN(300)) * time.Hour))
		}

		got := Build(start, end, events, splits)
		if err := Validate(start, end, got); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
	}
}

func TestValidate_DetectsGap(t *testing.T) {
	ivs := []Interval{{Start: at(0), End: at(5)}, {Start: at(6), End: at(10)}}
	if err := Validate(at(0), at(10), ivs); err == nil {
		t.Fatalf("expected gap detected")
	}
}
