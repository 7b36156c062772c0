// Package sim fakes long-running backend work for the console: upload and
// pipeline progress bars, rollouts and delayed chat replies.
package sim

import (
	"math"
	"math/rand"
)

type Status int

const (
	Idle Status = iota
	Running
	Complete
	// Failed is only ever assigned to fixture records. Nothing in this
	// package moves a task from Running to Failed.
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Complete:
		return "Complete"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further progress can happen.
func (s Status) Terminal() bool { return s == Complete || s == Failed }

// Task is one simulated unit of work with progress in [0, 100].
type Task struct {
	ID       string
	Status   Status
	Progress float64
}

// Start moves an idle task to Running. Any other state is left alone.
func (t Task) Start() Task {
	if t.Status == Idle {
		t.Status = Running
	}
	return t
}

// Advance adds delta while Running. Reaching 100 completes the task.
func (t Task) Advance(delta float64) Task {
	if t.Status != Running || delta <= 0 || math.IsNaN(delta) {
		return t
	}
	t.Progress += delta
	if t.Progress >= 100 {
		t.Progress = 100
		t.Status = Complete
	}
	return t
}

// Stepper draws tick increments uniformly from [Min, Max].
type Stepper struct {
	Min, Max float64
	rng      *rand.Rand
}

// NewStepper builds a stepper. A non-positive min is raised to 1 so that
// every task completes in at most ceil(100/min) ticks.
func NewStepper(rng *rand.Rand, min, max float64) Stepper {
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return Stepper{Min: min, Max: max, rng: rng}
}

func (s Stepper) Next() float64 {
	if s.Max == s.Min {
		return s.Min
	}
	return s.Min + s.rng.Float64()*(s.Max-s.Min)
}

// MaxTicks bounds the ticks needed to finish a task from zero.
func (s Stepper) MaxTicks() int {
	return int(math.Ceil(100 / s.Min))
}
