package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/utrainer/utrainer/internal/config"
	"github.com/utrainer/utrainer/internal/fixtures"
	"github.com/utrainer/utrainer/internal/logging"
	"github.com/utrainer/utrainer/internal/report"
	"github.com/utrainer/utrainer/internal/sim"
	"github.com/utrainer/utrainer/internal/tui"
)

type cli struct {
	Run      runCmd      `cmd:"" default:"1" help:"Start the training console (default)."`
	Report   reportCmd   `cmd:"" help:"Export a training job's curves as an HTML chart."`
	Fixtures fixturesCmd `cmd:"" help:"Validate and summarise the fixture catalogue."`
}

type runCmd struct {
	View string `help:"View to open after login (e.g. training.jobs)."`
	User string `help:"Prefill the login name."`
}

type reportCmd struct {
	Job string `required:"" help:"Training job id or name."`
	Out string `default:"report.html" type:"path" help:"Output HTML file."`
	All bool   `help:"Append the leaderboard chart."`
}

type fixturesCmd struct {
	Path string `type:"path" help:"Catalogue file to validate instead of the configured one."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Name("utrainer"),
		kong.Description("Terminal console for a model training platform."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

// env is the state shared by every command.
type env struct {
	cfg     config.Config
	catalog fixtures.Catalog
	builder *fixtures.Builder
	logs    io.Closer
}

func setup(catalogPath string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	closer, err := logging.Setup(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if catalogPath == "" {
		catalogPath = cfg.Fixtures.Path
	}
	cat, err := fixtures.Load(catalogPath)
	if err != nil {
		slog.Error("load fixtures", "path", catalogPath, "err", err)
		closer.Close()
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return &env{
		cfg:     cfg,
		catalog: cat,
		builder: fixtures.NewBuilder(cfg.Sim.Seed, time.Now(), cat),
		logs:    closer,
	}, nil
}

func (c *runCmd) Run(_ context.Context) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.logs.Close()

	if c.View != "" {
		e.cfg.UI.StartView = c.View
	}
	if c.User != "" {
		e.cfg.UI.Username = c.User
	}
	collapsed := e.cfg.UI.SidebarCollapsed

	clock := sim.TeaClock{}
	stepper := sim.NewStepper(rand.New(rand.NewSource(e.cfg.Sim.Seed)), e.cfg.Sim.MinStep, e.cfg.Sim.MaxStep)
	app := tui.New(tui.Deps{
		Config:    e.cfg,
		Snapshot:  e.builder.Build(),
		Builder:   e.builder,
		Runner:    sim.NewRunner(clock, e.cfg.Sim.TickInterval, stepper),
		Clock:     clock,
		ChatDelay: e.cfg.Sim.ChatDelay,
		Seed:      e.cfg.Sim.Seed,
	})
	slog.Info("starting", "view", e.cfg.UI.StartView, "seed", e.cfg.Sim.Seed)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	if app.SidebarCollapsed() != collapsed {
		if err := config.SaveSidebar(app.SidebarCollapsed()); err != nil {
			slog.Warn("save sidebar preference", "err", err)
		}
	}
	return nil
}

func (c *reportCmd) Run(_ context.Context) error {
	e, err := setup("")
	if err != nil {
		return err
	}
	defer e.logs.Close()

	snap := e.builder.Build()
	job, err := report.FindJob(snap.Jobs, c.Job)
	if err != nil {
		return err
	}
	var board = snap.Catalog.Leaderboard
	if !c.All {
		board = nil
	}

	if err := os.MkdirAll(filepath.Dir(c.Out), 0o755); err != nil {
		return fmt.Errorf("report: mkdir: %w", err)
	}
	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", c.Out, err)
	}
	if err := report.Render(f, job, board); err != nil {
		f.Close()
		if errors.Is(err, report.ErrNoMetrics) {
			return fmt.Errorf("report: job %s is %s and has no metrics yet", job.Name, job.Status)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close: %w", err)
	}
	slog.Info("report written", "job", job.ID, "out", c.Out)
	fmt.Printf("wrote %s\n", c.Out)
	return nil
}

type catalogSummary struct {
	BaseModels  []string `yaml:"base_models"`
	Datasets    []string `yaml:"datasets"`
	Deployments int      `yaml:"deployments"`
	Leaderboard int      `yaml:"leaderboard_rows"`
	Operators   []string `yaml:"operators"`
}

func (c *fixturesCmd) Run(_ context.Context) error {
	e, err := setup(c.Path)
	if err != nil {
		return err
	}
	defer e.logs.Close()

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(catalogSummary{
		BaseModels:  e.catalog.BaseModels,
		Datasets:    e.catalog.DatasetNames(),
		Deployments: len(e.catalog.Deployments),
		Leaderboard: len(e.catalog.Leaderboard),
		Operators:   e.catalog.Operators,
	})
}
