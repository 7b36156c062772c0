package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/form"
	"github.com/utrainer/utrainer/internal/wizard"
)

// stepUI is how one wizard step is edited and drawn. Any part may be nil.
type stepUI struct {
	editor *form.Editor
	body   func(w *wizardScreen) string
	keys   func(w *wizardScreen, msg tea.KeyMsg) (bool, tea.Cmd)
}

// wizardScreen is the modal host for every multi-step flow. State lives in
// a wizard.State; closing the modal discards it.
type wizardScreen struct {
	title    string
	state    wizard.State
	steps    map[int]stepUI
	onMsg    func(w *wizardScreen, msg tea.Msg) tea.Cmd
	onFinish func(values wizard.Values) tea.Cmd
	onClose  func(w *wizardScreen)
	// onChange runs after a field is set, before the next key is handled.
	onChange func(w *wizardScreen, key string)
	note     string
	help     help.Model
}

func newWizardScreen(title string, state wizard.State, steps map[int]stepUI) *wizardScreen {
	return &wizardScreen{title: title, state: state, steps: steps, help: help.New()}
}

func (w *wizardScreen) Title() string { return w.title }

func (w *wizardScreen) set(key string, value any) {
	w.state = w.state.Set(key, value)
	if w.onChange != nil {
		w.onChange(w, key)
	}
}

// Init focuses the first step's editor.
func (w *wizardScreen) Init() tea.Cmd {
	return w.enterStep()
}

func (w *wizardScreen) enterStep() tea.Cmd {
	ui := w.steps[w.state.CurrentStep().ID]
	if ui.editor == nil {
		return nil
	}
	return ui.editor.Focus(w.state.Values)
}

func (w *wizardScreen) close() {
	if w.onClose != nil {
		w.onClose(w)
	}
}

func (w *wizardScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if w.onMsg != nil {
			return w, w.onMsg(w, msg), false
		}
		return w, nil, false
	}

	if key.Matches(km, wkeys.Cancel) {
		slog.Info("wizard closed", "wizard", w.title, "step", w.state.CurrentStep().Name)
		w.close()
		return w, nil, true
	}

	ui := w.steps[w.state.CurrentStep().ID]
	if ui.keys != nil {
		if handled, cmd := ui.keys(w, km); handled {
			return w, cmd, false
		}
	}

	switch {
	case key.Matches(km, wkeys.Next):
		if !w.state.CanNext() {
			w.note = w.blockedReason(ui)
			return w, nil, false
		}
		w.note = ""
		if w.state.IsLast() {
			slog.Info("wizard finished", "wizard", w.title)
			var cmd tea.Cmd
			if w.onFinish != nil {
				cmd = w.onFinish(w.state.Values)
			}
			return w, cmd, true
		}
		w.state = w.state.Next()
		return w, w.enterStep(), false
	case key.Matches(km, wkeys.Back):
		w.note = ""
		w.state = w.state.Back()
		return w, w.enterStep(), false
	case key.Matches(km, wkeys.JumpTo):
		n, err := strconv.Atoi(strings.TrimPrefix(km.String(), "alt+"))
		if err != nil || n < 1 || n > len(w.state.Steps) {
			return w, nil, false
		}
		before := w.state.Current
		w.state = w.state.GoTo(w.state.Steps[n-1].ID)
		if w.state.Current == before {
			return w, nil, false
		}
		w.note = ""
		return w, w.enterStep(), false
	}

	if ui.editor != nil {
		edit, cmd := ui.editor.Update(km, w.state.Values)
		if edit != nil {
			w.set(edit.Key, edit.Value)
		}
		return w, cmd, false
	}
	return w, nil, false
}

func (w *wizardScreen) blockedReason(ui stepUI) string {
	if ui.editor != nil {
		if missing := ui.editor.Missing(w.state.Values); len(missing) > 0 {
			return "required: " + strings.Join(missing, ", ")
		}
	}
	return "complete this step to continue"
}

func (w *wizardScreen) indicator() string {
	parts := make([]string, 0, len(w.state.Steps))
	for i, st := range w.state.Steps {
		label := fmt.Sprintf("%d %s", i+1, st.Name)
		switch {
		case i == w.state.Current:
			parts = append(parts, selectedStyle.Render("● "+label))
		case i < w.state.Current:
			parts = append(parts, stepDoneStyle.Render("✓ "+label))
		default:
			parts = append(parts, stepTodoStyle.Render("○ "+label))
		}
	}
	return strings.Join(parts, mutedStyle.Render(" ─ "))
}

func (w *wizardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(w.title))
	b.WriteString("\n")
	b.WriteString(w.indicator())
	b.WriteString("\n\n")

	ui := w.steps[w.state.CurrentStep().ID]
	if ui.editor != nil {
		b.WriteString(ui.editor.View(w.state.Values))
		b.WriteString("\n")
	}
	if ui.body != nil {
		if ui.editor != nil {
			b.WriteString("\n")
		}
		b.WriteString(ui.body(w))
		b.WriteString("\n")
	}
	if w.note != "" {
		b.WriteString("\n" + warnStyle.Render(w.note) + "\n")
	}

	next := wkeys.Next
	if w.state.IsLast() {
		next = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	}
	next.SetEnabled(w.state.CanNext())
	back := wkeys.Back
	back.SetEnabled(!w.state.IsFirst())
	b.WriteString("\n" + w.help.ShortHelpView([]key.Binding{next, back, wkeys.JumpTo, wkeys.Cancel}))
	if !w.state.CanNext() {
		b.WriteString("  " + mutedStyle.Render("(next disabled)"))
	}
	return b.String()
}

func summary(values wizard.Values, keys ...string) string {
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v := values.String(k)
		if v == "" {
			v = mutedStyle.Render("—")
		}
		lines = append(lines, fmt.Sprintf("  %-16s %s", k, v))
	}
	return strings.Join(lines, "\n")
}
