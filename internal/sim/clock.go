package sim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Clock schedules a message after a delay. The returned command is handed
// to bubbletea, which runs it off the event loop and feeds the message back.
type Clock interface {
	After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
}

// TeaClock schedules with tea.Tick.
type TeaClock struct{}

func (TeaClock) After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return tea.Tick(d, fn)
}

// ManualClock queues scheduled callbacks until Fire is called. Commands it
// returns produce nil; the message is delivered by Fire instead.
type ManualClock struct {
	now     time.Time
	pending []pendingTick
}

type pendingTick struct {
	at time.Time
	fn func(time.Time) tea.Msg
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) After(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	c.pending = append(c.pending, pendingTick{at: c.now.Add(d), fn: fn})
	return func() tea.Msg { return nil }
}

// Pending is the number of queued callbacks.
func (c *ManualClock) Pending() int { return len(c.pending) }

// Fire advances the clock to the earliest queued callback and returns its
// message. ok is false when nothing is queued.
func (c *ManualClock) Fire() (msg tea.Msg, ok bool) {
	if len(c.pending) == 0 {
		return nil, false
	}
	idx := 0
	for i, p := range c.pending {
		if p.at.Before(c.pending[idx].at) {
			idx = i
		}
	}
	next := c.pending[idx]
	c.pending = append(c.pending[:idx], c.pending[idx+1:]...)
	if next.at.After(c.now) {
		c.now = next.at
	}
	return next.fn(c.now), true
}

func (c *ManualClock) Now() time.Time { return c.now }
