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

var datasetSpec = filter.Spec[platform.Dataset]{
	Text: func(d platform.Dataset) string { return d.Name },
	Facets: map[string]func(platform.Dataset) string{
		"domain":   func(d platform.Dataset) string { return d.Domain },
		"modality": func(d platform.Dataset) string { return d.Modality },
	},
}

type dataKeys struct {
	Domain   key.Binding
	Modality key.Binding
	Upload   key.Binding
	Train    key.Binding
	Run      key.Binding
	New      key.Binding
}

var dkeys = dataKeys{
	Domain:   bind("d", "domain"),
	Modality: bind("m", "modality"),
	Upload:   bind("u", "upload"),
	Train:    bind("c", "train on"),
	Run:      bind("r", "run"),
	New:      bind("n", "new"),
}

type dataPanel struct {
	st         *store
	sub        string
	filter     filter.State
	search     searchBox
	cursor     int
	procCursor int
}

func newDataPanel(st *store) *dataPanel {
	return &dataPanel{st: st, search: newSearchBox("dataset name")}
}

func (p *dataPanel) Enter(sub string, params nav.Params) tea.Cmd {
	p.sub = sub
	if name := params.String(nav.ParamDatasetName); name != "" && sub == "data.center" {
		p.search.input.SetValue(name)
		p.cursor = 0
	}
	if params.String(nav.ParamAction) != nav.ActionCreate {
		return nil
	}
	switch sub {
	case "data.center":
		return pushScreenCmd(newUploadWizard(p.st))
	case "data.construction":
		return pushScreenCmd(newConstructionWizard(p.st))
	}
	return nil
}

func (p *dataPanel) Capturing() bool { return p.search.active }

func (p *dataPanel) Help() []key.Binding {
	switch p.sub {
	case "data.processing":
		return []key.Binding{lkeys.Up, lkeys.Down, dkeys.Run, dkeys.New}
	case "data.construction":
		return []key.Binding{dkeys.New}
	}
	return []key.Binding{lkeys.Search, dkeys.Domain, dkeys.Modality, dkeys.Upload, dkeys.Train, lkeys.Clear}
}

func (p *dataPanel) state() filter.State {
	st := p.filter
	st.Search = p.search.Value()
	return st
}

func (p *dataPanel) visible() []platform.Dataset {
	return filter.Apply(p.st.datasets, datasetSpec, p.state())
}

func (p *dataPanel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if p.search.active {
		cmd := p.search.Update(km)
		p.cursor = 0
		return cmd
	}
	switch p.sub {
	case "data.processing":
		return p.updateProcessing(km)
	case "data.construction":
		if key.Matches(km, dkeys.New) {
			return pushScreenCmd(newConstructionWizard(p.st))
		}
		return nil
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
	case key.Matches(km, dkeys.Domain):
		p.cycleFacet("domain")
	case key.Matches(km, dkeys.Modality):
		p.cycleFacet("modality")
	case key.Matches(km, dkeys.Upload):
		return pushScreenCmd(newUploadWizard(p.st))
	case key.Matches(km, dkeys.Train):
		if len(rows) == 0 {
			return statusCmd("no dataset selected")
		}
		name := rows[clampCursor(p.cursor, len(rows))].Name
		return navigateCmd("training.create", nav.Params{
			nav.ParamAction:      nav.ActionCreate,
			nav.ParamDatasetName: name,
		})
	}
	return nil
}

func (p *dataPanel) cycleFacet(facet string) {
	values := filter.FacetValues(p.st.datasets, datasetSpec, facet)
	p.filter = p.filter.With(facet, filter.Cycle(values, p.filter.Facets[facet], 1))
	p.cursor = 0
}

func (p *dataPanel) updateProcessing(km tea.KeyMsg) tea.Cmd {
	jobs := p.st.processing
	if c, moved := moveCursor(km, p.procCursor, len(jobs)); moved {
		p.procCursor = c
		return nil
	}
	if len(jobs) == 0 {
		return nil
	}
	sel := clampCursor(p.procCursor, len(jobs))
	switch {
	case key.Matches(km, dkeys.Run):
		job := &p.st.processing[sel]
		if job.Status != platform.JobQueued {
			return statusCmd("only queued jobs can be started")
		}
		job.Status = platform.JobRunning
		slog.Info("processing started", "job", job.ID, "operator", job.Operator)
		return p.st.runner.Start("proc:" + job.ID)
	case key.Matches(km, dkeys.New):
		src := jobs[sel]
		op := filter.Cycle(p.st.catalog.Operators, src.Operator, 1)
		job := platform.ProcessingJob{
			ID:       p.st.nextID("proc"),
			Dataset:  src.Dataset,
			Operator: op,
			Status:   platform.JobRunning,
		}
		p.st.processing = append([]platform.ProcessingJob{job}, p.st.processing...)
		p.procCursor = 0
		slog.Info("processing started", "job", job.ID, "operator", job.Operator)
		return p.st.runner.Start("proc:" + job.ID)
	}
	return nil
}

func (p *dataPanel) View(width, height int) string {
	switch p.sub {
	case "data.processing":
		return p.processingView(width)
	case "data.construction":
		return p.constructionView()
	}
	return p.centerView(width, height)
}

func (p *dataPanel) centerView(width, height int) string {
	st := p.state()
	var b strings.Builder
	b.WriteString(facetLine("domain", filterLabel(st.Facets["domain"])) + "   ")
	b.WriteString(facetLine("modality", filterLabel(st.Facets["modality"])) + "   ")
	b.WriteString(p.search.View())
	b.WriteString("\n\n")

	rows := p.visible()
	if len(p.st.datasets) == 0 {
		b.WriteString(emptyState("No datasets yet. Press u to upload one."))
		return b.String()
	}
	if len(rows) == 0 {
		b.WriteString(emptyState("No datasets match the current filters."))
		if hints := filter.Suggest(p.st.datasets, datasetSpec, st.Search, 3); len(hints) > 0 {
			b.WriteString("\n" + mutedStyle.Render("did you mean: ") + strings.Join(hints, ", "))
		}
		return b.String()
	}

	cols := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Modality", Width: 10},
		{Title: "Domain", Width: 10},
		{Title: "Size", Width: 9},
		{Title: "Samples", Width: 10},
		{Title: "Updated", Width: 11},
		{Title: "Status", Width: 11},
	}
	trows := make([]table.Row, 0, len(rows))
	for _, d := range rows {
		trows = append(trows, table.Row{
			truncate(d.Name, 24), d.Modality, d.Domain, d.Size,
			fmt.Sprint(d.Samples), d.Updated, d.Status,
		})
	}
	b.WriteString(renderTable(cols, trows, clampCursor(p.cursor, len(rows)), width, height-3))
	return b.String()
}

func (p *dataPanel) processingView(width int) string {
	if len(p.st.processing) == 0 {
		return emptyState("No processing jobs.")
	}
	var b strings.Builder
	sel := clampCursor(p.procCursor, len(p.st.processing))
	for i, j := range p.st.processing {
		pct := j.Progress
		if t, ok := p.st.runner.Task("proc:" + j.ID); ok {
			pct = t.Progress
		}
		line := fmt.Sprintf("%-24s %-14s %s %s",
			truncate(j.Dataset, 24), j.Operator,
			statusColor(j.Status.String()).Render(fmt.Sprintf("%-10s", j.Status)),
			progressBar(min(30, max(width-56, 10)), pct))
		if i == sel {
			b.WriteString(selectedStyle.Render("› ") + line + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (p *dataPanel) constructionView() string {
	if len(p.st.mixes) == 0 {
		return emptyState("No constructed datasets yet. Press n to start a pipeline.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Built this session") + "\n")
	for _, m := range p.st.mixes {
		b.WriteString("  " + successStyle.Render("✓ ") + m + "\n")
	}
	return b.String()
}

func filterLabel(v string) string {
	if filter.IsAll(v) {
		return filter.All
	}
	return v
}

// renderTable draws a bubbles table with the cursor row highlighted.
func renderTable(cols []table.Column, rows []table.Row, cursor, width, height int) string {
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(min(height, len(rows)+1), 2)),
		table.WithWidth(width),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(colorAccent).Bold(true)
	styles.Selected = selectedStyle
	t.SetStyles(styles)
	t.SetCursor(cursor)
	return t.View()
}
