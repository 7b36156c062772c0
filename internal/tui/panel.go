package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/fixtures"
	"github.com/utrainer/utrainer/internal/form"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
	"github.com/utrainer/utrainer/internal/sim"
)

// Panel is the content mounted for one top-level view. Sub-view changes
// within the same top-level view call Enter again on the same panel.
type Panel interface {
	Enter(sub string, params nav.Params) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Capturing reports that a text input owns the keyboard, so global
	// shortcuts must not fire.
	Capturing() bool
	Help() []key.Binding
}

// store is the session's in-memory platform. Records created by wizards
// live here until the program exits.
type store struct {
	catalog     fixtures.Catalog
	datasets    []platform.Dataset
	jobs        []platform.TrainingJob
	processing  []platform.ProcessingJob
	deployments []platform.Deployment
	logs        []platform.RequestLog
	latency     []platform.SeriesPoint
	mixes       []string
	replies     int

	builder   *fixtures.Builder
	runner    *sim.Runner
	clock     sim.Clock
	chatDelay time.Duration
	rng       *rand.Rand
	fields    form.Registry
}

func newStore(d Deps) *store {
	snap := d.Snapshot
	return &store{
		catalog:     snap.Catalog,
		datasets:    append([]platform.Dataset(nil), snap.Catalog.Datasets...),
		jobs:        append([]platform.TrainingJob(nil), snap.Jobs...),
		processing:  append([]platform.ProcessingJob(nil), snap.Processing...),
		deployments: append([]platform.Deployment(nil), snap.Catalog.Deployments...),
		logs:        snap.Logs,
		latency:     snap.Latency,
		builder:     d.Builder,
		runner:      d.Runner,
		clock:       d.Clock,
		chatDelay:   d.ChatDelay,
		rng:         rand.New(rand.NewSource(d.Seed)),
		fields:      form.DefaultRegistry(),
	}
}

func (s *store) datasetNames() []string {
	out := make([]string, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, d.Name)
	}
	return out
}

func (s *store) nextID(prefix string) string {
	if s.builder == nil {
		return fmt.Sprintf("%s-%06d", prefix, s.rng.Intn(1_000_000))
	}
	return s.builder.ID(prefix)
}

// nextReplyID numbers chat replies across the whole session so a remounted
// playground never reuses an id still in flight.
func (s *store) nextReplyID() string {
	s.replies++
	return fmt.Sprintf("chat-%d", s.replies)
}

// jobProgress prefers the live simulation over the stored value.
func (s *store) jobProgress(j platform.TrainingJob) float64 {
	if t, ok := s.runner.Task("train:" + j.ID); ok {
		return t.Progress
	}
	return j.Progress
}

// complete applies a finished simulation to the record it drives.
func (s *store) complete(taskID string) string {
	kind, id, _ := strings.Cut(taskID, ":")
	switch kind {
	case "train":
		for i := range s.jobs {
			if s.jobs[i].ID == id {
				s.jobs[i].Status = platform.JobCompleted
				s.jobs[i].Progress = 100
				if s.builder != nil {
					s.jobs[i].Metrics = s.builder.MetricHistory(s.jobs[i].Created, 50)
					s.jobs[i].Artifacts = s.builder.Artifacts()
				}
				return "training job " + s.jobs[i].Name + " completed"
			}
		}
	case "proc":
		for i := range s.processing {
			if s.processing[i].ID == id {
				s.processing[i].Status = platform.JobCompleted
				s.processing[i].Progress = 100
				return "processing " + s.processing[i].Dataset + " finished"
			}
		}
	case "deploy":
		for i := range s.deployments {
			if s.deployments[i].ID == id {
				s.deployments[i].Status = platform.DeployRunning
				return "service " + s.deployments[i].Name + " is live"
			}
		}
	}
	return ""
}

// searchBox is a toggleable text filter.
type searchBox struct {
	input  textinput.Model
	active bool
}

func newSearchBox(placeholder string) searchBox {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = placeholder
	in.CharLimit = 64
	return searchBox{input: in}
}

func (s *searchBox) Activate() tea.Cmd {
	s.active = true
	return s.input.Focus()
}

// Update edits the query. enter keeps it, esc clears it.
func (s *searchBox) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		s.active = false
		s.input.Blur()
		return nil
	case "esc":
		s.active = false
		s.input.Blur()
		s.input.SetValue("")
		return nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s searchBox) Value() string { return s.input.Value() }

func (s searchBox) View() string {
	if !s.active && s.input.Value() == "" {
		return mutedStyle.Render("/ search")
	}
	return s.input.View()
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func moveCursor(msg tea.KeyMsg, cursor, n int) (int, bool) {
	switch {
	case key.Matches(msg, lkeys.Up):
		return clampCursor(cursor-1, n), true
	case key.Matches(msg, lkeys.Down):
		return clampCursor(cursor+1, n), true
	}
	return cursor, false
}

func facetLine(name, value string) string {
	return crumbStyle.Render(name+": ") + selectedStyle.Render(value)
}

func emptyState(text string) string {
	return emptyStyle.Render(text)
}

func subTabs(active string) string {
	subs := nav.Siblings(active)
	if len(subs) <= 1 {
		return ""
	}
	parts := make([]string, 0, len(subs))
	for _, s := range subs {
		if s.Key == active {
			parts = append(parts, tabActiveStyle.Render(s.Title))
			continue
		}
		parts = append(parts, mutedStyle.Render(s.Title))
	}
	return strings.Join(parts, "  ")
}
