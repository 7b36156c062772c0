package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/filter"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
)

var deploySpec = filter.Spec[platform.Deployment]{
	Text: func(d platform.Deployment) string { return d.Name + " " + d.Model },
	Facets: map[string]func(platform.Deployment) string{
		"status": func(d platform.Deployment) string { return d.Status.String() },
	},
}

var (
	deployKey = bind("n", "deploy")
	stopKey   = bind("x", "stop")
)

type deployPanel struct {
	st     *store
	filter filter.State
	search searchBox
	cursor int
}

func newDeployPanel(st *store) *deployPanel {
	return &deployPanel{st: st, search: newSearchBox("service or model")}
}

func (p *deployPanel) Enter(_ string, params nav.Params) tea.Cmd {
	if params.String(nav.ParamAction) == nav.ActionCreate {
		return pushScreenCmd(newDeployWizard(p.st))
	}
	return nil
}

func (p *deployPanel) Capturing() bool { return p.search.active }

func (p *deployPanel) Help() []key.Binding {
	return []key.Binding{lkeys.Up, lkeys.Down, lkeys.Search, statusKey, deployKey, stopKey}
}

func (p *deployPanel) visible() []platform.Deployment {
	st := p.filter
	st.Search = p.search.Value()
	return filter.Apply(p.st.deployments, deploySpec, st)
}

func (p *deployPanel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if p.search.active {
		cmd := p.search.Update(km)
		p.cursor = 0
		return cmd
	}
	rows := p.visible()
	if c, moved := moveCursor(km, p.cursor, len(rows)); moved {
		p.cursor = c
		return nil
	}
	switch {
	case key.Matches(km, lkeys.Search):
		return p.search.Activate()
	case key.Matches(km, lkeys.Clear):
		p.filter = filter.State{}
		p.search.input.SetValue("")
		p.cursor = 0
	case key.Matches(km, statusKey):
		values := filter.FacetValues(p.st.deployments, deploySpec, "status")
		p.filter = p.filter.With("status", filter.Cycle(values, p.filter.Facets["status"], 1))
		p.cursor = 0
	case key.Matches(km, deployKey):
		return pushScreenCmd(newDeployWizard(p.st))
	case key.Matches(km, stopKey):
		if len(rows) == 0 {
			return nil
		}
		id := rows[clampCursor(p.cursor, len(rows))].ID
		for i := range p.st.deployments {
			if p.st.deployments[i].ID == id {
				p.st.runner.Cancel("deploy:" + id)
				p.st.deployments[i].Status = platform.DeployStopped
				p.st.deployments[i].QPS = 0
				slog.Info("deployment stopped", "deployment", id)
				return statusCmd("stopped " + p.st.deployments[i].Name)
			}
		}
	}
	return nil
}

func (p *deployPanel) View(width, height int) string {
	var b strings.Builder
	b.WriteString(facetLine("status", filterLabel(p.filter.Facets["status"])) + "   " + p.search.View() + "\n\n")
	if len(p.st.deployments) == 0 {
		b.WriteString(emptyState("No services deployed. Press n to deploy a model."))
		return b.String()
	}
	rows := p.visible()
	if len(rows) == 0 {
		b.WriteString(emptyState("No services match the current filters."))
		return b.String()
	}
	cols := []table.Column{
		{Title: "Service", Width: 22},
		{Title: "Model", Width: 14},
		{Title: "Status", Width: 10},
		{Title: "Replicas", Width: 8},
		{Title: "QPS", Width: 7},
		{Title: "p95 ms", Width: 7},
		{Title: "Errors", Width: 7},
	}
	trows := make([]table.Row, 0, len(rows))
	for _, d := range rows {
		status := d.Status.String()
		if d.Status == platform.DeployPending {
			status = fmt.Sprintf("%s %.0f%%", status, p.st.runner.Progress("deploy:"+d.ID))
		}
		trows = append(trows, table.Row{
			truncate(d.Name, 22), truncate(d.Model, 14), status, fmt.Sprint(d.Replicas),
			fmt.Sprintf("%.1f", d.QPS), fmt.Sprintf("%.0f", d.LatencyMS), d.ErrorRate,
		})
	}
	b.WriteString(renderTable(cols, trows, clampCursor(p.cursor, len(rows)), width, height-3))
	return b.String()
}
