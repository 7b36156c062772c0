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

var jobSpec = filter.Spec[platform.TrainingJob]{
	Text: func(j platform.TrainingJob) string { return j.Name + " " + j.BaseModel + " " + j.Dataset },
	Facets: map[string]func(platform.TrainingJob) string{
		"status": func(j platform.TrainingJob) string { return j.Status.String() },
	},
}

var (
	statusKey = bind("s", "status")
	detailKey = bind("enter", "details")
	newJobKey = bind("n", "new job")
)

type trainingPanel struct {
	st     *store
	sub    string
	filter filter.State
	search searchBox
	cursor int
	detail string
}

func newTrainingPanel(st *store) *trainingPanel {
	return &trainingPanel{st: st, search: newSearchBox("job, model or dataset")}
}

func (p *trainingPanel) Enter(sub string, params nav.Params) tea.Cmd {
	p.sub = sub
	if id := params.String(nav.ParamJobID); id != "" {
		p.filter = filter.State{}
		p.search.input.SetValue("")
		for i, j := range p.st.jobs {
			if j.ID == id {
				p.cursor = i
				p.detail = id
			}
		}
	}
	if sub != "training.create" {
		return nil
	}
	ds := params.String(nav.ParamDatasetName)
	if params.String(nav.ParamAction) == nav.ActionCreate || ds != "" {
		return pushScreenCmd(newTrainingWizard(p.st, ds))
	}
	return nil
}

func (p *trainingPanel) Capturing() bool { return p.search.active }

func (p *trainingPanel) Help() []key.Binding {
	if p.sub == "training.create" {
		return []key.Binding{newJobKey}
	}
	if _, ok := p.job(p.detail); ok && p.detail != "" {
		return []key.Binding{bind("esc", "back")}
	}
	return []key.Binding{lkeys.Up, lkeys.Down, lkeys.Search, statusKey, detailKey, newJobKey}
}

func (p *trainingPanel) visible() []platform.TrainingJob {
	st := p.filter
	st.Search = p.search.Value()
	return filter.Apply(p.st.jobs, jobSpec, st)
}

func (p *trainingPanel) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if p.search.active {
		cmd := p.search.Update(km)
		p.cursor = 0
		return cmd
	}
	if key.Matches(km, newJobKey) {
		return pushScreenCmd(newTrainingWizard(p.st, ""))
	}
	if p.sub == "training.create" {
		return nil
	}
	if _, ok := p.job(p.detail); !ok {
		p.detail = ""
	}
	if p.detail != "" {
		if km.String() == "esc" {
			p.detail = ""
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
	case key.Matches(km, statusKey):
		values := filter.FacetValues(p.st.jobs, jobSpec, "status")
		p.filter = p.filter.With("status", filter.Cycle(values, p.filter.Facets["status"], 1))
		p.cursor = 0
	case key.Matches(km, detailKey):
		if len(rows) > 0 {
			p.detail = rows[clampCursor(p.cursor, len(rows))].ID
		}
	}
	return nil
}

func (p *trainingPanel) job(id string) (platform.TrainingJob, bool) {
	for _, j := range p.st.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return platform.TrainingJob{}, false
}

func (p *trainingPanel) View(width, height int) string {
	if p.sub == "training.create" {
		return titleStyle.Render("Create a training job") + "\n\n" +
			mutedStyle.Render("Press n to open the job wizard, or pick a dataset in Dataset Center and press c.")
	}
	if j, ok := p.job(p.detail); ok && p.detail != "" {
		return p.detailView(j, width)
	}

	var b strings.Builder
	b.WriteString(facetLine("status", filterLabel(p.filter.Facets["status"])) + "   " + p.search.View() + "\n\n")
	rows := p.visible()
	if len(p.st.jobs) == 0 {
		b.WriteString(emptyState("No training jobs yet. Press n to create one."))
		return b.String()
	}
	if len(rows) == 0 {
		b.WriteString(emptyState("No jobs match the current filters."))
		return b.String()
	}
	cols := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Base model", Width: 14},
		{Title: "Dataset", Width: 22},
		{Title: "GPUs", Width: 5},
		{Title: "Status", Width: 10},
		{Title: "Progress", Width: 9},
	}
	trows := make([]table.Row, 0, len(rows))
	for _, j := range rows {
		trows = append(trows, table.Row{
			truncate(j.Name, 22), truncate(j.BaseModel, 14), truncate(j.Dataset, 22),
			fmt.Sprint(j.GPUs), j.Status.String(), fmt.Sprintf("%.0f%%", p.st.jobProgress(j)),
		})
	}
	b.WriteString(renderTable(cols, trows, clampCursor(p.cursor, len(rows)), width, height-3))
	return b.String()
}

func (p *trainingPanel) detailView(j platform.TrainingJob, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(j.Name) + "  " + statusColor(j.Status.String()).Render(j.Status.String()) + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s   %s %d   %s %s\n",
		mutedStyle.Render("model"), j.BaseModel,
		mutedStyle.Render("dataset"), j.Dataset,
		mutedStyle.Render("gpus"), j.GPUs,
		mutedStyle.Render("created"), j.Created.Format("2006-01-02 15:04"))
	b.WriteString(progressBar(min(width-4, 50), p.st.jobProgress(j)) + "\n\n")

	b.WriteString(titleStyle.Render("Loss") + "\n")
	if chart := timeChart(lossSeries(j.Metrics), min(width-2, 90), chartHeight, ""); chart != "" {
		b.WriteString(chart)
		if m, ok := j.LatestMetric(); ok {
			b.WriteString(fmt.Sprintf("\n%s step %d  loss %.3f  acc %.1f%%",
				mutedStyle.Render("latest"), m.Step, m.Loss, m.Accuracy*100))
		}
	} else {
		b.WriteString(emptyState("No metrics logged yet."))
	}

	b.WriteString("\n\n" + titleStyle.Render("Artifacts") + "\n")
	if len(j.Artifacts) == 0 {
		b.WriteString(emptyState("No artifacts yet. They appear when the job completes."))
		return b.String()
	}
	for _, a := range j.Artifacts {
		fmt.Fprintf(&b, "  %-28s %-8s %s\n", a.Name, a.Kind, mutedStyle.Render(a.Size))
	}
	return b.String()
}
