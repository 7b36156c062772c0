package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/filter"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
)

var benchmarkKey = bind("b", "benchmark")

type evalPanel struct {
	st        *store
	benchmark string
	cursor    int
}

func newEvalPanel(st *store) *evalPanel {
	return &evalPanel{st: st, benchmark: filter.All}
}

func (p *evalPanel) Enter(string, nav.Params) tea.Cmd { return nil }
func (p *evalPanel) Capturing() bool                  { return false }

func (p *evalPanel) Help() []key.Binding {
	return []key.Binding{lkeys.Up, lkeys.Down, benchmarkKey}
}

func (p *evalPanel) ranked() []platform.LeaderboardEntry {
	b := p.benchmark
	if filter.IsAll(b) {
		b = ""
	}
	return platform.Rank(p.st.catalog.Leaderboard, b)
}

func (p *evalPanel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if c, moved := moveCursor(km, p.cursor, len(p.ranked())); moved {
		p.cursor = c
		return nil
	}
	if key.Matches(km, benchmarkKey) {
		values := append([]string{filter.All}, platform.Benchmarks(p.st.catalog.Leaderboard)...)
		p.benchmark = filter.Cycle(values, p.benchmark, 1)
		p.cursor = 0
	}
	return nil
}

func (p *evalPanel) View(width, height int) string {
	var b strings.Builder
	b.WriteString(facetLine("benchmark", p.benchmark) + "\n\n")
	rows := p.ranked()
	if len(rows) == 0 {
		b.WriteString(emptyState("No evaluation results yet."))
		return b.String()
	}
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Model", Width: 24},
		{Title: "Benchmark", Width: 12},
		{Title: "Score", Width: 7},
	}
	trows := make([]table.Row, 0, len(rows))
	for i, e := range rows {
		trows = append(trows, table.Row{fmt.Sprint(i + 1), truncate(e.Model, 24), e.Benchmark, fmt.Sprintf("%.1f", e.Score)})
	}
	b.WriteString(renderTable(cols, trows, clampCursor(p.cursor, len(rows)), width, height-3))
	return b.String()
}
