package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/season-sim/internal/platform/logging"
)

type countingStep struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	finishAt int32
}

func (c *countingStep) step(context.Context) (bool, error) {
	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		seen := c.maxSeen.Load()
		if current <= seen || c.maxSeen.CompareAndSwap(seen, current) {
			break
		}
	}

	n := c.calls.Add(1)
	return c.finishAt > 0 && n >= c.finishAt, nil
}

func TestLiveMatch_PauseStopsTheLoop(t *testing.T) {
	t.Parallel()

	step := &countingStep{}
	live := NewLiveMatch(step.step, minLiveSpeed, logging.NewNop())
	if err := live.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for step.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("loop never ticked")
		}
		time.Sleep(minLiveSpeed)
	}

	live.Pause()
	if live.Running() {
		t.Fatalf("loop still running after pause")
	}
	paused := step.calls.Load()
	time.Sleep(5 * minLiveSpeed)
	if got := step.calls.Load(); got != paused {
		t.Fatalf("loop ticked after pause: before=%d after=%d", paused, got)
	}
}

func TestLiveMatch_SingleLoopAcrossRestarts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	step := &countingStep{}
	live := NewLiveMatch(step.step, minLiveSpeed, logging.NewNop())

	for i := 0; i < 20; i++ {
		if err := live.Resume(ctx); err != nil {
			t.Fatalf("resume %d: %v", i, err)
		}
		if err := live.Start(ctx); !errors.Is(err, ErrLiveRunning) {
			t.Fatalf("expected ErrLiveRunning, got %v", err)
		}
		time.Sleep(time.Millisecond)
		live.Pause()
	}
	if got := step.maxSeen.Load(); got > 1 {
		t.Fatalf("steps overlapped: max in flight=%d", got)
	}
}

func TestLiveMatch_DoneAfterFullTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	step := &countingStep{finishAt: 5}
	live := NewLiveMatch(step.step, minLiveSpeed, logging.NewNop())
	if err := live.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-live.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("live match never finished")
	}
	if got := step.calls.Load(); got != 5 {
		t.Fatalf("unexpected step count: got=%d want=5", got)
	}
	if err := live.Start(ctx); !errors.Is(err, ErrMatchOver) {
		t.Fatalf("expected ErrMatchOver, got %v", err)
	}
	// pausing a finished loop is a no-op
	live.Pause()
}

func TestLiveMatch_SetSpeed(t *testing.T) {
	t.Parallel()

	live := NewLiveMatch(func(context.Context) (bool, error) { return false, nil }, 0, nil)
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{in: 0, want: defaultLiveSpeed},
		{in: -time.Second, want: defaultLiveSpeed},
		{in: time.Millisecond, want: minLiveSpeed},
		{in: 250 * time.Millisecond, want: 250 * time.Millisecond},
	}
	for _, tc := range tests {
		live.SetSpeed(tc.in)
		if got := live.Speed(); got != tc.want {
			t.Fatalf("SetSpeed(%s): got=%s want=%s", tc.in, got, tc.want)
		}
	}
}
