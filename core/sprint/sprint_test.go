package sprint

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/gitpet/core/learn"
	"github.com/huangsam/gitpet/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedEnd = time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC) // Saturday

func newTestTimer(learner *learn.MockLearner, unit time.Duration) *Timer {
	t := NewTimer(learner, nil)
	t.unit = unit
	t.tick = time.Millisecond
	t.now = func() time.Time { return fixedEnd }
	return t
}

func sprintOutcome(minutes int, success bool) schema.SprintOutcome {
	return schema.SprintOutcome{
		DurationMinutes: minutes,
		Success:         success,
		TimeOfDay:       14,
		DayType:         schema.Weekend,
		Timestamp:       fixedEnd,
	}
}

func waitOutcome(t *testing.T, ch <-chan schema.SprintOutcome) schema.SprintOutcome {
	t.Helper()
	select {
	case o := <-ch:
		return o
	case <-time.After(5 * time.Second):
		require.FailNow(t, "sprint did not finish")
		return schema.SprintOutcome{}
	}
}

func TestTimerCompletesSuccessfully(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, sprintOutcome(5, true)).Return(nil).Once()
	timer := newTestTimer(learner, 5*time.Millisecond)

	var ticks atomic.Int32
	ch, err := timer.Start(context.Background(), 5, func(remaining time.Duration) {
		ticks.Add(1)
		assert.GreaterOrEqual(t, remaining, time.Duration(0))
	})
	require.NoError(t, err)

	assert.Equal(t, sprintOutcome(5, true), waitOutcome(t, ch))
	assert.False(t, timer.Active())
	assert.Positive(t, ticks.Load())
	learner.AssertExpectations(t)
}

func TestTimerStopRecordsFailure(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, sprintOutcome(25, false)).Return(nil).Once()
	timer := newTestTimer(learner, time.Hour)

	ch, err := timer.Start(context.Background(), 25, nil)
	require.NoError(t, err)
	assert.True(t, timer.Active())

	assert.True(t, timer.Stop())
	assert.Equal(t, sprintOutcome(25, false), waitOutcome(t, ch))
	assert.False(t, timer.Active())
	assert.False(t, timer.Stop(), "nothing left to stop")
	learner.AssertExpectations(t)
}

func TestTimerStopFromTickCallback(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, sprintOutcome(25, false)).Return(nil).Once()
	timer := newTestTimer(learner, time.Hour)

	var once sync.Once
	stopped := make(chan bool, 1)
	ch, err := timer.Start(context.Background(), 25, func(time.Duration) {
		once.Do(func() { stopped <- timer.Stop() })
	})
	require.NoError(t, err)

	assert.Equal(t, sprintOutcome(25, false), waitOutcome(t, ch))
	assert.True(t, <-stopped)
	assert.False(t, timer.Active())
	learner.AssertExpectations(t)
}

func TestTimerRestartFromTickCallback(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, sprintOutcome(25, false)).Return(nil).Once()
	learner.On("RecordPattern", mock.Anything, sprintOutcome(50, false)).Return(nil).Once()
	timer := newTestTimer(learner, time.Hour)

	var once sync.Once
	restarted := make(chan (<-chan schema.SprintOutcome), 1)
	first, err := timer.Start(context.Background(), 25, func(time.Duration) {
		once.Do(func() {
			next, err := timer.Start(context.Background(), 50, nil)
			assert.NoError(t, err)
			restarted <- next
		})
	})
	require.NoError(t, err)

	assert.False(t, waitOutcome(t, first).Success)
	second := <-restarted
	assert.True(t, timer.Active())
	assert.True(t, timer.Stop())
	assert.Equal(t, sprintOutcome(50, false), waitOutcome(t, second))
	learner.AssertExpectations(t)
}

func TestTimerStartCancelsPrevious(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, sprintOutcome(25, false)).Return(nil).Once()
	learner.On("RecordPattern", mock.Anything, sprintOutcome(50, false)).Return(nil).Once()
	timer := newTestTimer(learner, time.Hour)

	first, err := timer.Start(context.Background(), 25, nil)
	require.NoError(t, err)
	second, err := timer.Start(context.Background(), 50, nil)
	require.NoError(t, err)

	// The first countdown is already recorded once Start returns.
	select {
	case o := <-first:
		assert.False(t, o.Success)
	default:
		t.Fatal("previous countdown should be finished")
	}
	assert.True(t, timer.Active())

	timer.Stop()
	assert.Equal(t, 50, waitOutcome(t, second).DurationMinutes)
	learner.AssertExpectations(t)
}

func TestTimerContextCancellation(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, sprintOutcome(10, false)).Return(nil).Once()
	timer := newTestTimer(learner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := timer.Start(ctx, 10, nil)
	require.NoError(t, err)
	cancel()

	assert.False(t, waitOutcome(t, ch).Success)
	learner.AssertExpectations(t)
}

func TestTimerRecordingFailureStillDelivers(t *testing.T) {
	learner := new(learn.MockLearner)
	learner.On("RecordPattern", mock.Anything, mock.Anything).Return(errors.New("store down"))
	timer := newTestTimer(learner, time.Millisecond)

	ch, err := timer.Start(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.True(t, waitOutcome(t, ch).Success)
}

func TestTimerRejectsInvalidDuration(t *testing.T) {
	timer := newTestTimer(new(learn.MockLearner), time.Minute)
	for _, minutes := range []int{0, -5} {
		_, err := timer.Start(context.Background(), minutes, nil)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
	assert.False(t, timer.Active())
}
