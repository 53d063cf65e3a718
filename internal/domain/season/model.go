package season

import (
	"time"

	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/condition"
)

// Batch is everything one advancement writes. It is persisted in a single
// all-or-nothing operation.
type Batch struct {
	WindowStart      time.Time
	WindowEnd        time.Time
	NewEvents        []calendar.Event
	ConsumedEventIDs []string
	Updates          []condition.Update
}

// ID names the advancement that produced the batch.
func (b Batch) ID() string {
	return Window{Start: b.WindowStart, End: b.WindowEnd}.ID()
}

func (b Batch) Empty() bool {
	return len(b.NewEvents) == 0 && len(b.ConsumedEventIDs) == 0 && len(b.Updates) == 0
}

// Window is the span of in-game time one advancement covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// ID is derived from the window start. The in-game clock only moves forward,
// so no two advancements share one.
func (w Window) ID() string {
	return "adv-" + w.Start.UTC().Format("20060102T150405Z")
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
