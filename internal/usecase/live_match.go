package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/season-sim/internal/platform/logging"
)

var (
	ErrLiveRunning = fmt.Errorf("%w: live match already running", ErrConflict)
	ErrMatchOver   = fmt.Errorf("%w: match already finished", ErrConflict)
)

const (
	minLiveSpeed     = 10 * time.Millisecond
	defaultLiveSpeed = time.Second
)

// LiveStep runs one tick and reports whether the match reached full time.
type LiveStep func(ctx context.Context) (finished bool, err error)

// LiveMatch paces an interactive match with a sleep-per-tick loop. At most one
// loop runs at a time; Pause returns only after the loop has exited.
type LiveMatch struct {
	mu     sync.Mutex
	step   LiveStep
	speed  atomic.Int64
	cancel context.CancelFunc
	loop   chan struct{}

	finished     chan struct{}
	finishedOnce sync.Once
	logger       *logging.Logger
}

func NewLiveMatch(step LiveStep, speed time.Duration, logger *logging.Logger) *LiveMatch {
	if logger == nil {
		logger = logging.Default()
	}
	l := &LiveMatch{step: step, finished: make(chan struct{}), logger: logger}
	l.SetSpeed(speed)
	return l
}

// Start launches the tick loop. The loop keeps the values of ctx but not its
// cancellation, so it outlives the request that started it; Pause stops it.
func (l *LiveMatch) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	select {
	case <-l.finished:
		return ErrMatchOver
	default:
	}
	if l.runningLocked() {
		return ErrLiveRunning
	}

	if l.cancel != nil {
		l.cancel()
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	l.cancel = cancel
	l.loop = done
	go l.run(loopCtx, done)
	return nil
}

// Resume starts a new loop after Pause.
func (l *LiveMatch) Resume(ctx context.Context) error {
	return l.Start(ctx)
}

// Pause stops the loop and waits for it to exit. A tick in progress completes.
func (l *LiveMatch) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.loop
	l.cancel = nil
	l.loop = nil
}

// SetSpeed changes the wall-clock time between ticks from the next tick on.
func (l *LiveMatch) SetSpeed(d time.Duration) {
	if d <= 0 {
		d = defaultLiveSpeed
	}
	if d < minLiveSpeed {
		d = minLiveSpeed
	}
	l.speed.Store(int64(d))
}

func (l *LiveMatch) Speed() time.Duration {
	return time.Duration(l.speed.Load())
}

func (l *LiveMatch) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runningLocked()
}

// Done is closed once the match reached full time.
func (l *LiveMatch) Done() <-chan struct{} {
	return l.finished
}

func (l *LiveMatch) runningLocked() bool {
	if l.loop == nil {
		return false
	}
	select {
	case <-l.loop:
		return false
	default:
		return true
	}
}

func (l *LiveMatch) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(l.Speed())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		finished, err := l.step(context.WithoutCancel(ctx))
		if err != nil {
			l.logger.WarnContext(ctx, "live match step failed", "error", err)
			return
		}
		if finished {
			l.finishedOnce.Do(func() { close(l.finished) })
			return
		}
		timer.Reset(l.Speed())
	}
}
