package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/utrainer/utrainer/internal/filter"
	"github.com/utrainer/utrainer/internal/form"
	"github.com/utrainer/utrainer/internal/nav"
	"github.com/utrainer/utrainer/internal/platform"
	"github.com/utrainer/utrainer/internal/sim"
	"github.com/utrainer/utrainer/internal/wizard"
)

var (
	uploadKey   = bind("ctrl+u", "upload")
	addRowKey   = bind("ctrl+a", "add source")
	delRowKey   = bind("ctrl+d", "remove source")
	buildKey    = bind("ctrl+r", "run pipeline")
	modalities  = []string{"Text", "Image", "Audio", "Video", "Multimodal"}
	defaultDoms = []string{"General", "Math", "Code", "Vision", "Speech", "Medical"}
)

// options merges observed facet values with defaults, keeping first-seen
// order and dropping the All entry.
func options(observed []string, defaults ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range append(append([]string(nil), observed...), defaults...) {
		if filter.IsAll(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func newUploadWizard(st *store) *wizardScreen {
	mods := options(filter.FacetValues(st.datasets, datasetSpec, "modality"), modalities...)
	doms := options(filter.FacetValues(st.datasets, datasetSpec, "domain"), defaultDoms...)

	state := wizard.UploadFlow().
		Set(wizard.KeyModality, first(mods)).
		Set(wizard.KeyDomain, first(doms))

	datasetID := st.nextID("ds")
	taskID := "upload:" + datasetID
	steps := map[int]stepUI{
		0: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyName, Label: "Dataset name", Kind: form.Input, Placeholder: "my-corpus-v1", Required: true},
			form.Field{Key: wizard.KeyModality, Label: "Modality", Kind: form.Select, Options: mods, Required: true},
			form.Field{Key: wizard.KeyDomain, Label: "Domain", Kind: form.Select, Options: doms, Required: true},
			form.Field{Key: wizard.KeyDescription, Label: "Description", Kind: form.Input},
		)},
		1: {
			editor: form.NewEditor(st.fields,
				form.Field{Key: wizard.KeyFile, Label: "File", Kind: form.Input, Placeholder: "./data/train.jsonl", Required: true},
			),
			keys: func(w *wizardScreen, msg tea.KeyMsg) (bool, tea.Cmd) {
				if msg.String() != uploadKey.Help().Key {
					return false, nil
				}
				if strings.TrimSpace(w.state.Values.String(wizard.KeyFile)) == "" {
					w.note = "choose a file first"
					return true, nil
				}
				if w.state.Values.Bool(wizard.KeyUploaded) {
					return true, nil
				}
				w.note = ""
				slog.Info("upload started", "task", taskID)
				return true, st.runner.Start(taskID)
			},
			body: func(w *wizardScreen) string {
				switch {
				case w.state.Values.Bool(wizard.KeyUploaded):
					return successStyle.Render("✓ upload complete")
				}
				if _, ok := st.runner.Task(taskID); ok {
					return progressBar(40, st.runner.Progress(taskID))
				}
				return mutedStyle.Render("press " + uploadKey.Help().Key + " to upload")
			},
		},
		2: {body: func(w *wizardScreen) string {
			return summary(w.state.Values, wizard.KeyName, wizard.KeyModality, wizard.KeyDomain, wizard.KeyDescription, wizard.KeyFile)
		}},
	}

	w := newWizardScreen("Upload dataset", state, steps)
	w.onMsg = func(w *wizardScreen, msg tea.Msg) tea.Cmd {
		if done, ok := msg.(sim.DoneMsg); ok && done.ID == taskID {
			w.set(wizard.KeyUploaded, true)
		}
		return nil
	}
	// a different file means the finished or running upload no longer applies
	w.onChange = func(w *wizardScreen, key string) {
		if key != wizard.KeyFile {
			return
		}
		st.runner.Cancel(taskID)
		if w.state.Values.Bool(wizard.KeyUploaded) {
			w.set(wizard.KeyUploaded, false)
		}
	}
	w.onClose = func(*wizardScreen) { st.runner.Cancel(taskID) }
	w.onFinish = func(v wizard.Values) tea.Cmd {
		ds := platform.Dataset{
			ID:       datasetID,
			Name:     strings.TrimSpace(v.String(wizard.KeyName)),
			Modality: v.String(wizard.KeyModality),
			Domain:   v.String(wizard.KeyDomain),
			Size:     "—",
			Updated:  time.Now().Format("2006-01-02"),
			Status:   "Ready",
		}
		st.datasets = append(st.datasets, ds)
		return statusCmd("dataset " + ds.Name + " uploaded")
	}
	return w
}

func newTrainingWizard(st *store, dataset string) *wizardScreen {
	state := wizard.TrainingFlow().
		Set(wizard.KeyBaseModel, first(st.catalog.BaseModels)).
		Set(wizard.KeyEpochs, "3").
		Set(wizard.KeyLearningRate, "2e-5").
		Set(wizard.KeyBatchSize, "16").
		Set(wizard.KeyGPUs, "8")
	if dataset != "" {
		state = state.Set(wizard.KeyDataset, dataset)
	} else {
		state = state.Set(wizard.KeyDataset, first(st.datasetNames()))
	}

	steps := map[int]stepUI{
		0: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyName, Label: "Job name", Kind: form.Input, Placeholder: "qwen2-sft-demo", Required: true},
		)},
		1: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyBaseModel, Label: "Base model", Kind: form.Select, Options: st.catalog.BaseModels, Required: true},
			form.Field{Key: wizard.KeyDataset, Label: "Dataset", Kind: form.Select, Options: st.datasetNames(), Required: true},
		)},
		2: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyEpochs, Label: "Epochs", Kind: form.Number, Required: true},
			form.Field{Key: wizard.KeyLearningRate, Label: "Learning rate", Kind: form.Number, Required: true},
			form.Field{Key: wizard.KeyBatchSize, Label: "Batch size", Kind: form.Number, Required: true},
		)},
		3: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyGPUs, Label: "GPUs", Kind: form.Number, Required: true},
		)},
		4: {body: func(w *wizardScreen) string {
			return summary(w.state.Values, wizard.KeyName, wizard.KeyBaseModel, wizard.KeyDataset,
				wizard.KeyEpochs, wizard.KeyLearningRate, wizard.KeyBatchSize, wizard.KeyGPUs)
		}},
	}

	w := newWizardScreen("New training job", state, steps)
	w.onFinish = func(v wizard.Values) tea.Cmd {
		job := platform.TrainingJob{
			ID:        st.nextID("job"),
			Name:      strings.TrimSpace(v.String(wizard.KeyName)),
			BaseModel: v.String(wizard.KeyBaseModel),
			Dataset:   v.String(wizard.KeyDataset),
			Status:    platform.JobRunning,
			GPUs:      v.Int(wizard.KeyGPUs),
			Created:   time.Now(),
		}
		st.jobs = append([]platform.TrainingJob{job}, st.jobs...)
		slog.Info("training job submitted", "job", job.ID, "model", job.BaseModel, "dataset", job.Dataset)
		return tea.Batch(
			st.runner.Start("train:"+job.ID),
			statusCmd("training job "+job.Name+" submitted"),
			navigateCmd("training.jobs", nav.Params{nav.ParamJobID: job.ID}),
		)
	}
	return w
}

func newConstructionWizard(st *store) *wizardScreen {
	names := st.datasetNames()
	rows := form.NewRows(1, func() platform.Ratio { return platform.Ratio{Dataset: first(names)} },
		platform.Ratio{Dataset: first(names), Percent: 100})
	cursor := 0
	mixName := fmt.Sprintf("mix-%02d", len(st.mixes)+1)
	taskID := "pipeline:" + mixName

	state := wizard.ConstructionFlow().
		Set(wizard.KeyRatios, rows.Items()).
		Set(wizard.KeyDedupe, true)

	sync := func(w *wizardScreen) {
		w.set(wizard.KeyRatios, rows.Items())
	}
	rowKeys := func(w *wizardScreen, msg tea.KeyMsg, percent bool) (bool, tea.Cmd) {
		switch msg.String() {
		case "up", "k":
			cursor = clampCursor(cursor-1, rows.Len())
			return true, nil
		case "down", "j":
			cursor = clampCursor(cursor+1, rows.Len())
			return true, nil
		case "left", "h", "right", "l":
			if percent {
				return false, nil
			}
			delta := 1
			if s := msg.String(); s == "left" || s == "h" {
				delta = -1
			}
			r := rows.At(cursor)
			r.Dataset = filter.Cycle(names, r.Dataset, delta)
			rows.Update(cursor, r)
		case "+", "=", "-":
			if !percent {
				return false, nil
			}
			r := rows.At(cursor)
			if msg.String() == "-" {
				r.Percent = max(r.Percent-5, 0)
			} else {
				r.Percent = min(r.Percent+5, 100)
			}
			rows.Update(cursor, r)
		case addRowKey.Help().Key:
			if percent {
				return false, nil
			}
			rows.Add()
			cursor = rows.Len() - 1
		case delRowKey.Help().Key:
			if percent {
				return false, nil
			}
			if !rows.Remove(cursor) {
				w.note = "a mix needs at least one source"
				return true, nil
			}
			cursor = clampCursor(cursor, rows.Len())
		default:
			return false, nil
		}
		w.note = ""
		sync(w)
		return true, nil
	}
	rowView := func(percent bool) string {
		var b strings.Builder
		for i := 0; i < rows.Len(); i++ {
			r := rows.At(i)
			line := fmt.Sprintf("%-26s", r.Dataset)
			if percent {
				line += fmt.Sprintf(" %3d%%", r.Percent)
			}
			if i == cursor {
				b.WriteString(selectedStyle.Render("› " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	steps := map[int]stepUI{
		0: {
			keys: func(w *wizardScreen, msg tea.KeyMsg) (bool, tea.Cmd) { return rowKeys(w, msg, false) },
			body: func(*wizardScreen) string {
				return rowView(false) + "\n" + mutedStyle.Render("←/→ dataset · "+addRowKey.Help().Key+" add · "+delRowKey.Help().Key+" remove")
			},
		},
		1: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyDedupe, Label: "Deduplicate", Kind: form.Toggle},
			form.Field{Key: wizard.KeyQualityFilter, Label: "Quality filter", Kind: form.Toggle},
		)},
		2: {
			keys: func(w *wizardScreen, msg tea.KeyMsg) (bool, tea.Cmd) { return rowKeys(w, msg, true) },
			body: func(w *wizardScreen) string {
				total := platform.RatioTotal(wizard.Ratios(w.state.Values))
				style := warnStyle
				if total == 100 {
					style = successStyle
				}
				return rowView(true) + "\n" + style.Render(fmt.Sprintf("total %d%% (must be 100%%)", total)) +
					"\n" + mutedStyle.Render("+/- adjust by 5%")
			},
		},
		3: {
			keys: func(w *wizardScreen, msg tea.KeyMsg) (bool, tea.Cmd) {
				if msg.String() != buildKey.Help().Key || w.state.Values.Bool(wizard.KeyBuilt) {
					return false, nil
				}
				slog.Info("pipeline started", "task", taskID, "sources", rows.Len())
				return true, st.runner.Start(taskID)
			},
			body: func(w *wizardScreen) string {
				if w.state.Values.Bool(wizard.KeyBuilt) {
					return successStyle.Render("✓ " + mixName + " built")
				}
				if _, ok := st.runner.Task(taskID); ok {
					return progressBar(40, st.runner.Progress(taskID))
				}
				return mutedStyle.Render("press " + buildKey.Help().Key + " to run the pipeline")
			},
		},
	}

	w := newWizardScreen("Construct dataset "+mixName, state, steps)
	w.onMsg = func(w *wizardScreen, msg tea.Msg) tea.Cmd {
		if done, ok := msg.(sim.DoneMsg); ok && done.ID == taskID {
			w.set(wizard.KeyBuilt, true)
		}
		return nil
	}
	w.onChange = func(w *wizardScreen, key string) {
		switch key {
		case wizard.KeyRatios, wizard.KeyDedupe, wizard.KeyQualityFilter:
		default:
			return
		}
		st.runner.Cancel(taskID)
		if w.state.Values.Bool(wizard.KeyBuilt) {
			w.set(wizard.KeyBuilt, false)
		}
	}
	w.onClose = func(*wizardScreen) { st.runner.Cancel(taskID) }
	w.onFinish = func(v wizard.Values) tea.Cmd {
		st.mixes = append(st.mixes, mixName)
		st.datasets = append(st.datasets, platform.Dataset{
			ID:       st.nextID("ds"),
			Name:     mixName,
			Modality: "Text",
			Domain:   "Mixed",
			Size:     "—",
			Updated:  time.Now().Format("2006-01-02"),
			Status:   "Ready",
		})
		return statusCmd(fmt.Sprintf("%s built from %d sources", mixName, len(wizard.Ratios(v))))
	}
	return w
}

func newDeployWizard(st *store) *wizardScreen {
	state := wizard.DeploymentFlow().
		Set(wizard.KeyModel, first(st.catalog.BaseModels)).
		Set(wizard.KeyReplicas, "1")

	steps := map[int]stepUI{
		0: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyName, Label: "Service name", Kind: form.Input, Placeholder: "qwen2-chat-dev", Required: true},
			form.Field{Key: wizard.KeyModel, Label: "Model", Kind: form.Select, Options: st.catalog.BaseModels, Required: true},
		)},
		1: {editor: form.NewEditor(st.fields,
			form.Field{Key: wizard.KeyReplicas, Label: "Replicas", Kind: form.Number, Required: true},
		)},
		2: {body: func(w *wizardScreen) string {
			return summary(w.state.Values, wizard.KeyName, wizard.KeyModel, wizard.KeyReplicas)
		}},
	}

	w := newWizardScreen("Deploy model", state, steps)
	w.onFinish = func(v wizard.Values) tea.Cmd {
		d := platform.Deployment{
			ID:        st.nextID("svc"),
			Name:      strings.TrimSpace(v.String(wizard.KeyName)),
			Model:     v.String(wizard.KeyModel),
			Status:    platform.DeployPending,
			Replicas:  v.Int(wizard.KeyReplicas),
			ErrorRate: "0%",
		}
		st.deployments = append(st.deployments, d)
		slog.Info("deployment submitted", "deployment", d.ID, "model", d.Model)
		return tea.Batch(st.runner.Start("deploy:"+d.ID), statusCmd("rolling out "+d.Name))
	}
	return w
}
