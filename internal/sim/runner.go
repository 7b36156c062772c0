package sim

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg advances the task with ID. Gen guards against ticks that were
// already in flight when the task was cancelled or restarted.
type TickMsg struct {
	ID  string
	Gen int
}

// DoneMsg is emitted once when a task reaches Complete.
type DoneMsg struct {
	ID string
}

// ReplyMsg carries a delayed fake response.
type ReplyMsg struct {
	ID   string
	Text string
}

// Runner owns independent simulated tasks. It is not safe for concurrent
// use; bubbletea calls it from the single update loop.
type Runner struct {
	clock    Clock
	interval time.Duration
	stepper  Stepper
	tasks    map[string]Task
	gens     map[string]int
}

func NewRunner(clock Clock, interval time.Duration, stepper Stepper) *Runner {
	if clock == nil {
		clock = TeaClock{}
	}
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &Runner{
		clock:    clock,
		interval: interval,
		stepper:  stepper,
		tasks:    map[string]Task{},
		gens:     map[string]int{},
	}
}

// Start begins a fresh task under id and returns its first tick. Starting
// an id that is already running is a no-op.
func (r *Runner) Start(id string) tea.Cmd {
	if t, ok := r.tasks[id]; ok && t.Status == Running {
		return nil
	}
	r.gens[id]++
	r.tasks[id] = Task{ID: id}.Start()
	return r.schedule(id)
}

func (r *Runner) schedule(id string) tea.Cmd {
	gen := r.gens[id]
	return r.clock.After(r.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen}
	})
}

// Cancel discards the task. A tick already scheduled for it is dropped.
func (r *Runner) Cancel(id string) {
	if _, ok := r.tasks[id]; !ok {
		return
	}
	delete(r.tasks, id)
	r.gens[id]++
}

// Task returns the current state of id.
func (r *Runner) Task(id string) (Task, bool) {
	t, ok := r.tasks[id]
	return t, ok
}

// Progress is the task's progress, or zero for unknown ids.
func (r *Runner) Progress(id string) float64 {
	return r.tasks[id].Progress
}

// Active lists running task ids in sorted order.
func (r *Runner) Active() []string {
	var out []string
	for id, t := range r.tasks {
		if t.Status == Running {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Update consumes TickMsg values and ignores everything else.
func (r *Runner) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(TickMsg)
	if !ok {
		return nil
	}
	t, ok := r.tasks[tick.ID]
	if !ok || tick.Gen != r.gens[tick.ID] || t.Status != Running {
		return nil
	}
	t = t.Advance(r.stepper.Next())
	r.tasks[tick.ID] = t
	if t.Status == Complete {
		id := t.ID
		return func() tea.Msg { return DoneMsg{ID: id} }
	}
	return r.schedule(tick.ID)
}

// Reply delivers text as a ReplyMsg after delay.
func Reply(clock Clock, delay time.Duration, id, text string) tea.Cmd {
	if clock == nil {
		clock = TeaClock{}
	}
	return clock.After(delay, func(time.Time) tea.Msg {
		return ReplyMsg{ID: id, Text: text}
	})
}
