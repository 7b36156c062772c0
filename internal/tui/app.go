package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/utrainer/utrainer/internal/config"
	"github.com/utrainer/utrainer/internal/fixtures"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/sim"
)

// Deps is everything the shell needs from main.
type Deps struct {
	Config    config.Config
	Snapshot  fixtures.Snapshot
	Builder   *fixtures.Builder
	Runner    *sim.Runner
	Clock     sim.Clock
	ChatDelay time.Duration
	Seed      int64
}

// App is the root bubbletea model.
type App struct {
	cfg     config.Config
	state   nav.AppState
	store   *store
	panel   Panel
	screens ScreenStack

	login    textinput.Model
	loginErr string

	status    string
	statusErr bool
	width     int
	height    int
	help      help.Model
}

// initer is implemented by screens that need a command when pushed.
type initer interface {
	Init() tea.Cmd
}

func New(d Deps) *App {
	if d.Clock == nil {
		d.Clock = sim.TeaClock{}
	}
	if d.Runner == nil {
		d.Runner = sim.NewRunner(d.Clock, d.Config.Sim.TickInterval, sim.NewStepper(nil, d.Config.Sim.MinStep, d.Config.Sim.MaxStep))
	}
	if d.ChatDelay == 0 {
		d.ChatDelay = d.Config.Sim.ChatDelay
	}

	in := textinput.New()
	in.Placeholder = "username"
	in.Prompt = "user › "
	in.CharLimit = 32
	in.SetValue(d.Config.UI.Username)
	in.Focus()

	return &App{
		cfg:   d.Config,
		state: nav.NewAppState(d.Config.UI.StartView, d.Config.UI.SidebarCollapsed),
		store: newStore(d),
		login: in,
		help:  help.New(),
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// SidebarCollapsed reports the sidebar state, persisted on exit.
func (a *App) SidebarCollapsed() bool { return a.state.SidebarCollapsed }

// Active is the mounted sub-view key.
func (a *App) Active() string { return a.state.Active() }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case sim.TickMsg:
		return a, a.store.runner.Update(m)
	case sim.DoneMsg:
		if text := a.store.complete(m.ID); text != "" {
			slog.Info("simulation complete", "task", m.ID)
			a.setStatus(text, false)
		}
		return a, a.forward(m)
	case statusMsg:
		a.setStatus(m.Text, m.IsErr)
		return a, nil
	case errMsg:
		slog.Error("ui error", "err", m.error)
		a.setStatus("error: "+m.Error(), true)
		return a, nil
	case navigateMsg:
		return a, a.navigate(m.Key, m.Params)
	case pushScreenMsg:
		a.screens.Push(m.Screen)
		if in, ok := m.Screen.(initer); ok {
			return a, in.Init()
		}
		return a, nil
	case popScreenMsg:
		a.screens.Pop()
		return a, nil
	case tea.KeyMsg:
		if !a.state.LoggedIn() {
			return a, a.handleLoginKey(m)
		}
		return a, a.handleKey(m)
	}
	return a, a.forward(msg)
}

// forward hands msg to the top screen and the mounted panel.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if top := a.screens.Top(); top != nil {
		next, cmd, closed := top.Update(msg)
		a.applyScreen(next, closed)
		cmds = append(cmds, cmd)
	}
	if a.panel != nil {
		cmds = append(cmds, a.panel.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (a *App) applyScreen(next Screen, closed bool) {
	if closed {
		a.screens.Pop()
		return
	}
	a.screens.ReplaceTop(next)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a *App) handleLoginKey(m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "enter":
		next, ok := a.state.Login(a.login.Value())
		if !ok {
			a.loginErr = "username is required"
			return nil
		}
		a.state = next
		a.loginErr = ""
		slog.Info("login", "user", a.state.User)
		return a.mount()
	}
	var cmd tea.Cmd
	a.login, cmd = a.login.Update(m)
	return cmd
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	if top := a.screens.Top(); top != nil {
		next, cmd, closed := top.Update(m)
		a.applyScreen(next, closed)
		return cmd
	}
	if a.panel != nil && a.panel.Capturing() {
		return a.panel.Update(m)
	}

	switch {
	case key.Matches(m, keys.Quit):
		slog.Info("quit", "view", a.state.Active())
		return tea.Quit
	case key.Matches(m, keys.Sidebar):
		a.state = a.state.ToggleSidebar()
		return nil
	case key.Matches(m, keys.NextSub):
		return a.navigate(nav.Step(a.state.Active(), 1), nil)
	case key.Matches(m, keys.PrevSub):
		return a.navigate(nav.Step(a.state.Active(), -1), nil)
	case key.Matches(m, keys.Jump):
		n, _ := strconv.Atoi(m.String())
		if n >= 1 && n <= len(nav.Tree) {
			return a.navigate(nav.Tree[n-1].Key, nil)
		}
		return nil
	case key.Matches(m, keys.Goto):
		a.screens.Push(newJumpScreen())
		return nil
	case key.Matches(m, keys.Logout):
		slog.Info("logout", "user", a.state.User)
		a.state = a.state.Logout()
		a.panel = nil
		a.screens.Clear()
		a.login.SetValue("")
		a.status = ""
		return a.login.Focus()
	}
	if a.panel != nil {
		return a.panel.Update(m)
	}
	return nil
}

// mount builds a fresh panel for the current top-level view.
func (a *App) mount() tea.Cmd {
	a.screens.Clear()
	a.panel = newPanel(a.state.Nav.Top, a.store)
	return a.enter()
}

func (a *App) enter() tea.Cmd {
	var params nav.Params
	a.state, params = a.state.TakeParams()
	return a.panel.Enter(a.state.Nav.Sub, params)
}

func (a *App) navigate(target string, params nav.Params) tea.Cmd {
	next, tr := a.state.Navigate(target, params)
	if !tr.Accepted {
		slog.Warn("navigate refused", "target", target)
		a.setStatus("unknown view: "+target, true)
		return nil
	}
	a.state = next
	slog.Debug("navigate", "from", tr.From, "to", tr.To, "remount", tr.Remount)
	if tr.Remount || a.panel == nil {
		return a.mount()
	}
	return a.enter()
}

func newPanel(top string, st *store) Panel {
	switch top {
	case "data":
		return newDataPanel(st)
	case "training":
		return newTrainingPanel(st)
	case "deploy":
		return newDeployPanel(st)
	case "eval":
		return newEvalPanel(st)
	case "observe":
		return newObservePanel(st)
	case "playground":
		return newPlaygroundPanel(st)
	default:
		return newOverviewPanel(st)
	}
}

func (a *App) View() string {
	if !a.state.LoggedIn() {
		return a.loginView()
	}

	sidebar := a.sidebarView()
	bodyWidth := max(a.width-lipgloss.Width(sidebar)-1, 20)
	bodyHeight := max(a.height-4, 5)

	header := crumbStyle.Render(nav.Breadcrumb(a.state.Active())) +
		"  " + mutedStyle.Render("signed in as ") + userStyle.Render(a.state.User)
	parts := []string{header}
	if tabs := subTabs(a.state.Active()); tabs != "" {
		parts = append(parts, tabs)
		bodyHeight--
	}
	if a.panel != nil {
		parts = append(parts, "", a.panel.View(bodyWidth, bodyHeight))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", strings.Join(parts, "\n"))

	statusLine := a.statusView()
	footer := a.footerView()
	if top := a.screens.Top(); top != nil {
		return composeOverlay(a.width, a.height, body, statusLine, footer, top.View(bodyWidth, bodyHeight))
	}
	return placeWithFooter(a.width, a.height, body, statusLine, footer)
}

func (a *App) loginView() string {
	box := titleStyle.Render("uTrainer") + "\n" +
		mutedStyle.Render("model training console") + "\n\n" +
		a.login.View()
	if a.loginErr != "" {
		box += "\n" + errorStyle.Render(a.loginErr)
	}
	box += "\n\n" + mutedStyle.Render("enter sign in · esc quit")
	if a.width == 0 || a.height == 0 {
		return modalStyle.Render(box)
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(box))
}

func (a *App) sidebarView() string {
	lines := make([]string, 0, len(nav.Tree))
	for i, v := range nav.Tree {
		label := fmt.Sprintf("%d %s", i+1, v.Title)
		if a.state.SidebarCollapsed {
			label = strconv.Itoa(i + 1)
		}
		if v.Key == a.state.Nav.Top {
			lines = append(lines, navActiveStyle.Render(" "+label+" "))
			continue
		}
		lines = append(lines, navItemStyle.Render(" "+label+" "))
	}
	return sidebarStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) statusView() string {
	text := a.status
	if n := len(a.store.runner.Active()); n > 0 {
		text = strings.TrimSpace(fmt.Sprintf("%s  [%d running]", text, n))
	}
	style := statusBarStyle
	if a.statusErr {
		style = style.Foreground(colorError)
	}
	if a.width == 0 {
		return style.Render(text)
	}
	return style.Width(a.width).Render(truncate(text, a.width-2))
}

func (a *App) footerView() string {
	var bindings []key.Binding
	if a.screens.Len() == 0 && a.panel != nil {
		bindings = append(bindings, a.panel.Help()...)
	}
	bindings = append(bindings, keys.short()...)
	return a.help.ShortHelpView(bindings)
}
