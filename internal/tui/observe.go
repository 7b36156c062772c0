package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/filter"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
)

var logSpec = filter.Spec[platform.RequestLog]{
	Text: func(l platform.RequestLog) string { return l.Route + " " + l.Message },
	Facets: map[string]func(platform.RequestLog) string{
		"level": func(l platform.RequestLog) string { return l.Level },
	},
}

var levelKey = bind("l", "level")

type observePanel struct {
	st     *store
	sub    string
	filter filter.State
	search searchBox
	offset int
}

func newObservePanel(st *store) *observePanel {
	return &observePanel{st: st, search: newSearchBox("route or message")}
}

func (p *observePanel) Enter(sub string, _ nav.Params) tea.Cmd {
	p.sub = sub
	return nil
}

func (p *observePanel) Capturing() bool { return p.search.active }

func (p *observePanel) Help() []key.Binding {
	if p.sub == "observe.logs" {
		return []key.Binding{lkeys.Up, lkeys.Down, lkeys.Search, levelKey, lkeys.Clear}
	}
	return nil
}

func (p *observePanel) visible() []platform.RequestLog {
	st := p.filter
	st.Search = p.search.Value()
	return filter.Apply(p.st.logs, logSpec, st)
}

func (p *observePanel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || p.sub != "observe.logs" {
		return nil
	}
	if p.search.active {
		cmd := p.search.Update(km)
		p.offset = 0
		return cmd
	}
	if c, moved := moveCursor(km, p.offset, len(p.visible())); moved {
		p.offset = c
		return nil
	}
	switch {
	case key.Matches(km, lkeys.Search):
		return p.search.Activate()
	case key.Matches(km, lkeys.Clear):
		p.filter = filter.State{}
		p.search.input.SetValue("")
		p.offset = 0
	case key.Matches(km, levelKey):
		values := filter.FacetValues(p.st.logs, logSpec, "level")
		p.filter = p.filter.With("level", filter.Cycle(values, p.filter.Facets["level"], 1))
		p.offset = 0
	}
	return nil
}

func (p *observePanel) View(width, height int) string {
	if p.sub == "observe.logs" {
		return p.logsView(width, height)
	}
	return p.metricsView(width)
}

func (p *observePanel) metricsView(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("p95 latency (ms)") + "\n")
	chart := timeChart(p.st.latency, min(width-2, 100), chartHeight+4, "")
	if chart == "" {
		b.WriteString(emptyState("No latency samples recorded."))
		return b.String()
	}
	b.WriteString(chart + "\n\n")

	var errs, warns int
	for _, l := range p.st.logs {
		switch l.Level {
		case "ERROR":
			errs++
		case "WARN":
			warns++
		}
	}
	last := p.st.latency[len(p.st.latency)-1].Value
	fmt.Fprintf(&b, "%s %.0f ms   %s %d   %s %d   %s %d",
		mutedStyle.Render("current"), last,
		mutedStyle.Render("requests"), len(p.st.logs),
		mutedStyle.Render("errors"), errs,
		mutedStyle.Render("warnings"), warns)
	return b.String()
}

func (p *observePanel) logsView(width, height int) string {
	var b strings.Builder
	b.WriteString(facetLine("level", filterLabel(p.filter.Facets["level"])) + "   " + p.search.View() + "\n\n")
	rows := p.visible()
	if len(rows) == 0 {
		b.WriteString(emptyState("No log lines match the current filters."))
		return b.String()
	}
	visible := max(height-3, 3)
	start := clampCursor(p.offset, len(rows))
	end := min(start+visible, len(rows))
	for _, l := range rows[start:end] {
		line := fmt.Sprintf("%s %s %-22s %d %5dms %s",
			l.Time.Format("15:04:05"),
			statusColor(l.Level).Render(fmt.Sprintf("%-5s", l.Level)),
			l.Route, l.Status, l.Latency.Milliseconds(), l.Message)
		b.WriteString(truncate(line, width) + "\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(rows))))
	return b.String()
}
