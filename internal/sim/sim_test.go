package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestTaskStateMachine(t *testing.T) {
	task := Task{ID: "x"}
	assert.Equal(t, Idle, task.Advance(50).Status, "idle tasks ignore ticks")

	task = task.Start()
	require.Equal(t, Running, task.Status)
	assert.Equal(t, Running, task.Start().Status)

	task = task.Advance(60).Advance(-5).Advance(60)
	assert.Equal(t, Complete, task.Status)
	assert.Equal(t, 100.0, task.Progress)
	assert.Equal(t, task, task.Advance(10))
	assert.Equal(t, Complete, task.Start().Status)
	assert.True(t, task.Status.Terminal())
	assert.False(t, Running.Terminal())
}

func TestStepperBounds(t *testing.T) {
	s := NewStepper(rand.New(rand.NewSource(3)), 5, 15)
	for i := 0; i < 200; i++ {
		v := s.Next()
		require.GreaterOrEqual(t, v, 5.0)
		require.LessOrEqual(t, v, 15.0)
	}
	assert.Equal(t, 20, s.MaxTicks())

	fixed := NewStepper(nil, 0, -1)
	assert.Equal(t, 1.0, fixed.Min)
	assert.Equal(t, 1.0, fixed.Next())
}

func drain(t *testing.T, clock *ManualClock, r *Runner) (ticks int, done []DoneMsg) {
	t.Helper()
	for {
		msg, ok := clock.Fire()
		if !ok {
			return ticks, done
		}
		ticks++
		cmd := r.Update(msg)
		if cmd == nil {
			continue
		}
		if d, ok := cmd().(DoneMsg); ok {
			done = append(done, d)
		}
	}
}

func TestRunnerCompletesWithinBound(t *testing.T) {
	clock := NewManualClock(t0)
	stepper := NewStepper(rand.New(rand.NewSource(9)), 4, 12)
	r := NewRunner(clock, 100*time.Millisecond, stepper)

	require.NotNil(t, r.Start("upload"))
	require.Equal(t, 1, clock.Pending())
	assert.Nil(t, r.Start("upload"), "already running")

	last := 0.0
	ticks := 0
	var done []DoneMsg
	for {
		msg, ok := clock.Fire()
		if !ok {
			break
		}
		ticks++
		cmd := r.Update(msg)
		p := r.Progress("upload")
		require.GreaterOrEqual(t, p, last)
		last = p
		if cmd != nil {
			if d, ok := cmd().(DoneMsg); ok {
				done = append(done, d)
			}
		}
	}
	task, ok := r.Task("upload")
	require.True(t, ok)
	assert.Equal(t, Complete, task.Status)
	assert.Equal(t, 100.0, task.Progress)
	assert.LessOrEqual(t, ticks, stepper.MaxTicks())
	assert.Equal(t, []DoneMsg{{ID: "upload"}}, done)
	assert.True(t, clock.Now().After(t0))
}

func TestRunnerCancelDropsInFlightTick(t *testing.T) {
	clock := NewManualClock(t0)
	r := NewRunner(clock, time.Second, NewStepper(nil, 10, 10))
	r.Start("pipeline")
	r.Cancel("pipeline")

	ticks, done := drain(t, clock, r)
	assert.Equal(t, 1, ticks)
	assert.Empty(t, done)
	_, ok := r.Task("pipeline")
	assert.False(t, ok)
	assert.Empty(t, r.Active())
}

func TestRunnerRestartIgnoresStaleGeneration(t *testing.T) {
	clock := NewManualClock(t0)
	r := NewRunner(clock, time.Second, NewStepper(nil, 50, 50))
	r.Start("a")
	r.Cancel("a")
	r.Start("a")
	require.Equal(t, 2, clock.Pending())

	_, done := drain(t, clock, r)
	assert.Equal(t, []DoneMsg{{ID: "a"}}, done)
	assert.Equal(t, 100.0, r.Progress("a"))
}

func TestRunnerTasksAreIndependent(t *testing.T) {
	clock := NewManualClock(t0)
	r := NewRunner(clock, time.Second, NewStepper(nil, 25, 25))
	r.Start("a")
	r.Start("b")
	assert.Equal(t, []string{"a", "b"}, r.Active())

	_, done := drain(t, clock, r)
	assert.Len(t, done, 2)
	assert.Empty(t, r.Active())
	assert.Nil(t, r.Update("not a tick"))
}

func TestReplyArrivesAfterDelay(t *testing.T) {
	clock := NewManualClock(t0)
	cmd := Reply(clock, 1500*time.Millisecond, "chat-1", "hello")
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	msg, ok := clock.Fire()
	require.True(t, ok)
	assert.Equal(t, ReplyMsg{ID: "chat-1", Text: "hello"}, msg)
	assert.Equal(t, t0.Add(1500*time.Millisecond), clock.Now())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Failed", Failed.String())
	assert.Equal(t, "Unknown", Status(42).String())
}
