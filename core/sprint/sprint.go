// Package sprint runs focus-sprint countdowns and feeds their outcomes into the learner.
package sprint

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"go.uber.org/zap"
)

// ErrInvalidDuration is returned when a sprint is started with a non-positive length.
var ErrInvalidDuration = errors.New("sprint duration must be positive")

// DefaultTick is how often a running countdown reports the remaining time.
const DefaultTick = time.Second

// Timer holds at most one active countdown. Starting a sprint cancels the previous one.
type Timer struct {
	opMu   sync.Mutex // serializes Start and Stop
	mu     sync.Mutex // guards active
	active *countdown

	learner contract.Learner
	logger  *zap.Logger
	tick    time.Duration
	unit    time.Duration
	now     func() time.Time
}

type countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTimer creates a timer recording outcomes through learner.
func NewTimer(learner contract.Learner, logger *zap.Logger) *Timer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timer{
		learner: learner,
		logger:  logger,
		tick:    DefaultTick,
		unit:    time.Minute,
		now:     time.Now,
	}
}

// Start begins a countdown of the given minutes, cancelling any running one first.
// onTick, when not nil, receives the remaining time on every tick. It runs on its own
// goroutine, may call Stop or Start, and misses ticks while it is still busy.
// The returned channel yields the recorded outcome once the countdown completes
// or is cancelled through Stop, a later Start or ctx.
func (t *Timer) Start(ctx context.Context, minutes int, onTick func(remaining time.Duration)) (<-chan schema.SprintOutcome, error) {
	if minutes <= 0 {
		return nil, ErrInvalidDuration
	}

	t.opMu.Lock()
	defer t.opMu.Unlock()
	t.stopActive()

	runCtx, cancel := context.WithCancel(ctx)
	c := &countdown{cancel: cancel, done: make(chan struct{})}
	out := make(chan schema.SprintOutcome, 1)

	t.mu.Lock()
	t.active = c
	t.mu.Unlock()

	go t.run(runCtx, c, minutes, onTick, out)
	return out, nil
}

// Stop cancels the running countdown, recording it as a failed sprint.
// It reports whether a countdown was running.
func (t *Timer) Stop() bool {
	t.opMu.Lock()
	defer t.opMu.Unlock()
	return t.stopActive()
}

// Active reports whether a countdown is running.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// stopActive cancels the active countdown and waits until its outcome is recorded.
// It must be called with opMu held.
func (t *Timer) stopActive() bool {
	t.mu.Lock()
	c := t.active
	t.mu.Unlock()
	if c == nil {
		return false
	}
	c.cancel()
	<-c.done
	return true
}

func (t *Timer) run(ctx context.Context, c *countdown, minutes int, onTick func(time.Duration), out chan<- schema.SprintOutcome) {
	defer c.cancel()
	ticks, dispatched := dispatchTicks(onTick)

	total := time.Duration(minutes) * t.unit
	deadline := time.Now().Add(total)
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	finish := time.NewTimer(total)
	defer finish.Stop()

	success := false
loop:
	for {
		select {
		case <-ticker.C:
			select {
			case ticks <- max(time.Until(deadline), 0):
			default: // callback still busy with the previous tick
			}
		case <-finish.C:
			success = true
			break loop
		case <-ctx.Done():
			break loop
		}
	}
	c.cancel()

	ended := t.now()
	outcome := schema.SprintOutcome{
		DurationMinutes: minutes,
		Success:         success,
		TimeOfDay:       ended.Hour(),
		DayType:         schema.DayTypeOf(ended),
		Timestamp:       ended,
	}
	if t.learner != nil {
		if err := t.learner.RecordPattern(context.WithoutCancel(ctx), outcome); err != nil {
			t.logger.Warn("sprint outcome not recorded", zap.Int("minutes", minutes), zap.Error(err))
		}
	}
	t.logger.Debug("sprint finished", zap.Int("minutes", minutes), zap.Bool("success", success))

	t.mu.Lock()
	if t.active == c {
		t.active = nil
	}
	t.mu.Unlock()

	// Stop and Start wait on done, so it closes before the tick callback is awaited.
	close(c.done)
	close(ticks)
	<-dispatched

	out <- outcome
	close(out)
}

// dispatchTicks calls onTick from its own goroutine so a callback may Stop or Start the timer.
// dispatched is closed once the last tick was handled.
func dispatchTicks(onTick func(time.Duration)) (ticks chan time.Duration, dispatched chan struct{}) {
	ticks = make(chan time.Duration, 1)
	dispatched = make(chan struct{})
	go func() {
		defer close(dispatched)
		for remaining := range ticks {
			if onTick != nil {
				onTick(remaining)
			}
		}
	}()
	return ticks, dispatched
}
