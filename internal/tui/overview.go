package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
)

type quickLink struct {
	label  string
	target string
	params nav.Params
}

var quickLinks = []quickLink{
	{label: "Upload a dataset", target: "data.center", params: nav.Params{nav.ParamAction: nav.ActionCreate}},
	{label: "Create a training job", target: "training.create", params: nav.Params{nav.ParamAction: nav.ActionCreate}},
	{label: "Build a dataset mix", target: "data.construction", params: nav.Params{nav.ParamAction: nav.ActionCreate}},
	{label: "Deploy a model", target: "deploy.services", params: nav.Params{nav.ParamAction: nav.ActionCreate}},
	{label: "Open the leaderboard", target: "eval.leaderboard"},
	{label: "Try the playground", target: "playground.chat"},
}

type overviewPanel struct {
	st     *store
	cursor int
}

func newOverviewPanel(st *store) *overviewPanel {
	return &overviewPanel{st: st}
}

func (p *overviewPanel) Enter(string, nav.Params) tea.Cmd { return nil }
func (p *overviewPanel) Capturing() bool                  { return false }

func (p *overviewPanel) Help() []key.Binding {
	return []key.Binding{lkeys.Up, lkeys.Down, bind("enter", "open")}
}

func (p *overviewPanel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if c, moved := moveCursor(km, p.cursor, len(quickLinks)); moved {
		p.cursor = c
		return nil
	}
	if km.String() == "enter" {
		link := quickLinks[p.cursor]
		return navigateCmd(link.target, link.params)
	}
	return nil
}

func (p *overviewPanel) View(width, height int) string {
	running := 0
	for _, j := range p.st.jobs {
		if j.Status == platform.JobRunning {
			running++
		}
	}
	live := 0
	for _, d := range p.st.deployments {
		if d.Status == platform.DeployRunning {
			live++
		}
	}
	card := func(label string, n int) string {
		return modalStyle.Width(18).Render(mutedStyle.Render(label) + "\n" + titleStyle.Render(fmt.Sprint(n)))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Datasets", len(p.st.datasets)), " ",
		card("Running jobs", running), " ",
		card("Live services", live), " ",
		card("Benchmarks", len(platform.Benchmarks(p.st.catalog.Leaderboard))),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n" + titleStyle.Render("Running jobs") + "\n")
	if running == 0 {
		b.WriteString(emptyState("No training jobs are running.") + "\n")
	}
	for _, j := range p.st.jobs {
		if j.Status != platform.JobRunning {
			continue
		}
		fmt.Fprintf(&b, "  %-24s %s\n", truncate(j.Name, 24), progressBar(30, p.st.jobProgress(j)))
	}

	b.WriteString("\n" + titleStyle.Render("Quick links") + "\n")
	for i, l := range quickLinks {
		if i == p.cursor {
			b.WriteString(selectedStyle.Render("› ") + linkStyle.Render(l.label) + "\n")
			continue
		}
		b.WriteString("  " + l.label + "\n")
	}
	return b.String()
}
