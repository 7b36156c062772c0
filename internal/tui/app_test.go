package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrainer/utrainer/internal/config"
	"github.com/utrainer/utrainer/internal/fixtures"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
	"github.com/utrainer/utrainer/internal/sim"
	"github.com/utrainer/utrainer/internal/wizard"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (*App, *sim.ManualClock) {
	t.Helper()
	cat, err := fixtures.Default()
	require.NoError(t, err)
	b := fixtures.NewBuilder(1, testNow, cat)
	clock := sim.NewManualClock(testNow)
	cfg := config.Config{
		UI: config.UIConfig{StartView: "overview"},
		Sim: config.SimConfig{
			TickInterval: 100 * time.Millisecond,
			MinStep:      20,
			MaxStep:      40,
			Seed:         1,
			ChatDelay:    time.Second,
		},
	}
	a := New(Deps{Config: cfg, Snapshot: b.Build(), Builder: b, Clock: clock, Seed: 1})
	a.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return a, clock
}

func loggedIn(t *testing.T) (*App, *sim.ManualClock) {
	t.Helper()
	a, clock := newTestApp(t)
	typeText(a, "alice")
	press(a, "enter")
	require.True(t, a.state.LoggedIn())
	return a, clock
}

func keyMsg(k string) tea.KeyMsg {
	special := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"pgup":      tea.KeyPgUp,
		"ctrl+a":    tea.KeyCtrlA,
		"ctrl+b":    tea.KeyCtrlB,
		"ctrl+d":    tea.KeyCtrlD,
		"ctrl+k":    tea.KeyCtrlK,
		"backspace": tea.KeyBackspace,
		"ctrl+o":    tea.KeyCtrlO,
		"ctrl+r":    tea.KeyCtrlR,
		"ctrl+u":    tea.KeyCtrlU,
	}
	if t, ok := special[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	if len(k) > 4 && k[:4] == "alt+" {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k[4:]), Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// drain runs cmd and feeds resulting messages back into the app. Commands
// that block on real timers (cursor blink, spinner frames) are abandoned.
func drain(a *App, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 500; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := runCmd(c)
		switch m := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(queue, m...)
			continue
		case tea.QuitMsg:
			continue
		}
		_, next := a.Update(msg)
		queue = append(queue, next)
	}
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case m := <-ch:
		return m
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func press(a *App, keys ...string) {
	for _, k := range keys {
		_, cmd := a.Update(keyMsg(k))
		drain(a, cmd)
	}
}

func typeText(a *App, s string) {
	for _, r := range s {
		press(a, string(r))
	}
}

// settle fires scheduled ticks until the clock is idle.
func settle(a *App, clock *sim.ManualClock) {
	for i := 0; i < 100; i++ {
		msg, ok := clock.Fire()
		if !ok {
			return
		}
		_, cmd := a.Update(msg)
		drain(a, cmd)
	}
}

func topWizard(t *testing.T, a *App) *wizardScreen {
	t.Helper()
	w, ok := a.screens.Top().(*wizardScreen)
	require.True(t, ok, "expected a wizard on top")
	return w
}

func TestLoginRequiresUsername(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "enter")
	assert.False(t, a.state.LoggedIn())
	assert.Contains(t, a.View(), "username is required")

	typeText(a, "alice")
	press(a, "enter")
	assert.True(t, a.state.LoggedIn())
	assert.Equal(t, "overview.home", a.Active())
	assert.Contains(t, a.View(), "alice")
}

func TestLogoutReturnsToLogin(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "ctrl+o")
	assert.False(t, a.state.LoggedIn())
	assert.Nil(t, a.panel)
	assert.Contains(t, a.View(), "uTrainer")
}

func TestSidebarSurvivesSubViewSwitch(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "ctrl+b")
	require.True(t, a.SidebarCollapsed())

	press(a, "2")
	assert.Equal(t, "data.center", a.Active())
	mounted := a.panel

	press(a, "tab")
	assert.Equal(t, "data.processing", a.Active())
	assert.Same(t, mounted, a.panel, "sub-view change must not remount")
	assert.True(t, a.SidebarCollapsed())

	press(a, "shift+tab", "shift+tab")
	assert.Equal(t, "data.construction", a.Active())

	press(a, "3")
	assert.NotSame(t, mounted, a.panel)
	assert.True(t, a.SidebarCollapsed())
}

func TestUnknownViewRefused(t *testing.T) {
	a, _ := loggedIn(t)
	drain(a, navigateCmd("nowhere", nil))
	assert.Equal(t, "overview.home", a.Active())
	assert.True(t, a.statusErr)
}

func TestJumpPicker(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "ctrl+k")
	_, ok := a.screens.Top().(*jumpScreen)
	require.True(t, ok)

	typeText(a, "logz")
	assert.Contains(t, a.View(), "No views match")
	press(a, "backspace", "s")
	press(a, "enter")
	assert.Zero(t, a.screens.Len())
	assert.Equal(t, "observe.logs", a.Active())
}

func TestCreateTrainingFromDatasetConsumesParamsOnce(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "2", "c")

	assert.Equal(t, "training.create", a.Active())
	w := topWizard(t, a)
	assert.Equal(t, "alpaca-gpt4-zh", w.state.Values.String(wizard.KeyDataset))
	assert.Nil(t, a.state.Nav.Pending)

	press(a, "esc")
	assert.Zero(t, a.screens.Len())

	press(a, "tab", "shift+tab")
	assert.Equal(t, "training.create", a.Active())
	assert.Zero(t, a.screens.Len(), "params must not be delivered twice")
}

func TestTrainingWizardSubmitsAndCompletes(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "3", "n")
	w := topWizard(t, a)

	press(a, "enter")
	assert.Equal(t, 0, w.state.Current, "name is required")
	assert.Contains(t, w.note, "name")

	typeText(a, "demo-run")
	press(a, "enter", "enter", "enter", "enter")
	assert.True(t, w.state.IsLast())
	press(a, "alt+2")
	assert.Equal(t, 1, w.state.Current)
	press(a, "enter", "enter", "enter", "enter")

	assert.Zero(t, a.screens.Len())
	assert.Equal(t, "training.jobs", a.Active())
	job := a.store.jobs[0]
	assert.Equal(t, "demo-run", job.Name)
	assert.Equal(t, platform.JobRunning, job.Status)
	assert.Equal(t, 8, job.GPUs)

	settle(a, clock)
	job = a.store.jobs[0]
	assert.Equal(t, platform.JobCompleted, job.Status)
	assert.NotEmpty(t, job.Metrics)
	assert.NotEmpty(t, job.Artifacts)
	assert.Contains(t, a.status, "completed")
}

func TestUploadWizardWaitsForUpload(t *testing.T) {
	a, clock := loggedIn(t)
	before := len(a.store.datasets)
	press(a, "2", "u")
	w := topWizard(t, a)

	typeText(a, "my-corpus")
	press(a, "enter")
	require.Equal(t, 1, w.state.Current)

	press(a, "enter")
	assert.Equal(t, 1, w.state.Current)
	press(a, "ctrl+u")
	assert.Equal(t, "choose a file first", w.note)

	typeText(a, "train.jsonl")
	press(a, "ctrl+u")
	press(a, "enter")
	assert.Equal(t, 1, w.state.Current, "upload still running")

	settle(a, clock)
	assert.True(t, w.state.Values.Bool(wizard.KeyUploaded))
	press(a, "enter", "enter")

	assert.Zero(t, a.screens.Len())
	require.Len(t, a.store.datasets, before+1)
	assert.Equal(t, "my-corpus", a.store.datasets[before].Name)
}

func TestClosingUploadCancelsTask(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "2", "u")
	typeText(a, "x")
	press(a, "enter")
	typeText(a, "f")
	press(a, "ctrl+u")
	require.Len(t, a.store.runner.Active(), 1)

	press(a, "esc")
	assert.Empty(t, a.store.runner.Active())
}

func TestConstructionWizardEnforcesRatios(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "2", "shift+tab")
	require.Equal(t, "data.construction", a.Active())
	assert.Contains(t, a.View(), "No constructed datasets yet")

	press(a, "n")
	w := topWizard(t, a)

	press(a, "ctrl+d")
	assert.Contains(t, w.note, "at least one source")
	press(a, "ctrl+a")
	assert.Len(t, wizard.Ratios(w.state.Values), 2)

	press(a, "enter", "enter")
	require.Equal(t, 2, w.state.Current)
	press(a, "+")
	press(a, "enter")
	assert.Equal(t, 2, w.state.Current, "105% must not advance")
	press(a, "up", "-")
	assert.Equal(t, 100, platform.RatioTotal(wizard.Ratios(w.state.Values)))
	press(a, "enter")
	require.Equal(t, 3, w.state.Current)

	press(a, "enter")
	assert.Equal(t, 3, w.state.Current, "pipeline has not run")
	press(a, "ctrl+r")
	settle(a, clock)
	press(a, "enter")

	assert.Zero(t, a.screens.Len())
	assert.Equal(t, []string{"mix-01"}, a.store.mixes)
	assert.Contains(t, a.View(), "mix-01")
}

func TestDeployWizardRollsOut(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "4", "n")
	typeText(a, "svc-a")
	press(a, "enter", "enter", "enter")

	last := a.store.deployments[len(a.store.deployments)-1]
	assert.Equal(t, "svc-a", last.Name)
	assert.Equal(t, platform.DeployPending, last.Status)

	settle(a, clock)
	last = a.store.deployments[len(a.store.deployments)-1]
	assert.Equal(t, platform.DeployRunning, last.Status)
}

func TestOverviewQuickLinkNavigates(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "down", "down", "down", "down", "enter")
	assert.Equal(t, "eval.leaderboard", a.Active())
}

func TestPlaygroundDelayedReply(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "7", "i")
	p := a.panel.(*playgroundPanel)
	require.True(t, p.Capturing())

	press(a, "q")
	assert.True(t, a.state.LoggedIn(), "q is typed, not quit")
	press(a, "enter")
	require.Len(t, p.history, 1)
	assert.NotEmpty(t, p.pending)

	settle(a, clock)
	require.Len(t, p.history, 2)
	assert.Equal(t, "assistant", p.history[1].Role)
	assert.Empty(t, p.pending)
}

func TestDatasetFacetFilters(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "2", "m")
	p := a.panel.(*dataPanel)
	for _, d := range p.visible() {
		assert.Equal(t, "Text", d.Modality)
	}
	press(a, "esc")
	assert.Len(t, p.visible(), len(a.store.datasets))
}

func TestEmptyStates(t *testing.T) {
	clock := sim.NewManualClock(testNow)
	st := newStore(Deps{
		Runner: sim.NewRunner(clock, time.Second, sim.NewStepper(nil, 10, 20)),
		Clock:  clock,
	})

	cases := []struct {
		name  string
		panel Panel
		sub   string
		want  string
	}{
		{"datasets", newDataPanel(st), "data.center", "No datasets yet"},
		{"processing", newDataPanel(st), "data.processing", "No processing jobs"},
		{"jobs", newTrainingPanel(st), "training.jobs", "No training jobs yet"},
		{"deployments", newDeployPanel(st), "deploy.services", "No services deployed"},
		{"leaderboard", newEvalPanel(st), "eval.leaderboard", "No evaluation results"},
		{"metrics", newObservePanel(st), "observe.metrics", "No latency samples"},
		{"logs", newObservePanel(st), "observe.logs", "No log lines"},
		{"chat", newPlaygroundPanel(st), "playground.chat", "No messages yet"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.panel.Enter(tc.sub, nav.Params{})
			assert.Contains(t, tc.panel.View(100, 30), tc.want)
		})
	}

	st.jobs = []platform.TrainingJob{{ID: "job-1", Name: "fresh", Status: platform.JobQueued}}
	p := newTrainingPanel(st)
	p.Enter("training.jobs", nav.Params{nav.ParamJobID: "job-1"})
	view := p.View(100, 30)
	assert.Contains(t, view, "No metrics logged yet")
	assert.Contains(t, view, "No artifacts yet")
}

func TestPlaygroundIgnoresReplyFromEarlierMount(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "7", "i")
	typeText(a, "first question")
	press(a, "enter", "esc", "1", "7", "i")
	typeText(a, "second")
	press(a, "enter")

	p := a.panel.(*playgroundPanel)
	msg, ok := clock.Fire()
	require.True(t, ok)
	_, cmd := a.Update(msg)
	drain(a, cmd)
	require.Len(t, p.history, 1, "the first mount's reply must not answer the new prompt")
	assert.NotEmpty(t, p.pending)

	settle(a, clock)
	require.Len(t, p.history, 2)
	assert.Contains(t, p.history[1].Text, "second")
	assert.NotContains(t, p.history[1].Text, "first question")
}

func TestUploadKeepsOneTaskAcrossRename(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "2", "u")
	typeText(a, "x")
	press(a, "enter")
	typeText(a, "f")
	press(a, "ctrl+u")

	press(a, "pgup")
	typeText(a, "y")
	press(a, "enter", "ctrl+u")
	assert.Len(t, a.store.runner.Active(), 1)

	press(a, "esc")
	assert.Empty(t, a.store.runner.Active())
}

func TestUploadResetsWhenFileChanges(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "2", "u")
	w := topWizard(t, a)
	typeText(a, "corpus")
	press(a, "enter")
	typeText(a, "a.jsonl")
	press(a, "ctrl+u")
	settle(a, clock)
	require.True(t, w.state.Values.Bool(wizard.KeyUploaded))

	typeText(a, "l")
	assert.False(t, w.state.Values.Bool(wizard.KeyUploaded))
	press(a, "enter")
	assert.Equal(t, 1, w.state.Current, "changed file has not been uploaded")

	press(a, "ctrl+u")
	typeText(a, "x")
	assert.Empty(t, a.store.runner.Active(), "editing the file cancels a running upload")

	press(a, "ctrl+u")
	settle(a, clock)
	press(a, "enter")
	assert.Equal(t, 2, w.state.Current)
}

func TestConstructionRebuildAfterInputsChange(t *testing.T) {
	a, clock := loggedIn(t)
	press(a, "2", "shift+tab", "n")
	w := topWizard(t, a)
	build := func() {
		t.Helper()
		require.Equal(t, 3, w.state.Current)
		press(a, "enter")
		require.Equal(t, 3, w.state.Current, "mix must be built first")
		press(a, "ctrl+r")
		settle(a, clock)
		require.True(t, w.state.Values.Bool(wizard.KeyBuilt))
	}
	press(a, "enter", "enter", "enter")
	build()

	press(a, "pgup", "pgup")
	require.Equal(t, 1, w.state.Current)
	press(a, " ")
	assert.False(t, w.state.Values.Bool(wizard.KeyBuilt), "toggling dedupe invalidates the build")
	press(a, "enter", "enter")
	build()

	press(a, "pgup", "up", "down")
	require.Equal(t, 2, w.state.Current)
	assert.True(t, w.state.Values.Bool(wizard.KeyBuilt), "moving the cursor changes nothing")
	press(a, "-")
	assert.False(t, w.state.Values.Bool(wizard.KeyBuilt))
	press(a, "+", "enter")
	build()

	press(a, "enter")
	assert.Zero(t, a.screens.Len())
	assert.Equal(t, []string{"mix-01"}, a.store.mixes)
}

func TestTrainingViewHasNoSideEffects(t *testing.T) {
	a, _ := loggedIn(t)
	press(a, "3")
	p := a.panel.(*trainingPanel)
	p.detail = "job-gone"

	view := p.View(120, 30)
	assert.Equal(t, "job-gone", p.detail)
	assert.Contains(t, view, a.store.jobs[0].Name)
	assert.Equal(t, view, p.View(120, 30))

	press(a, "down")
	assert.Empty(t, p.detail)
}
