// Package report exports training curves and leaderboards as standalone
// HTML charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/utrainer/utrainer/internal/platform"
)

const chartHeight = "420px"

var (
	ErrJobNotFound = errors.New("training job not found")
	ErrNoMetrics   = errors.New("training job has no metrics")
)

// FindJob looks a job up by id, then by case-insensitive name.
func FindJob(jobs []platform.TrainingJob, ref string) (platform.TrainingJob, error) {
	ref = strings.TrimSpace(ref)
	for _, j := range jobs {
		if j.ID == ref {
			return j, nil
		}
	}
	for _, j := range jobs {
		if strings.EqualFold(j.Name, ref) {
			return j, nil
		}
	}
	return platform.TrainingJob{}, fmt.Errorf("%w: %q", ErrJobNotFound, ref)
}

// Render writes a page with the job's loss and accuracy curves. The
// leaderboard chart is appended when board is non-empty.
func Render(w io.Writer, job platform.TrainingJob, board []platform.LeaderboardEntry) error {
	line, err := trainingChart(job)
	if err != nil {
		return err
	}
	page := components.NewPage()
	page.PageTitle = "uTrainer · " + job.Name
	page.AddCharts(line)
	if len(board) > 0 {
		page.AddCharts(leaderboardChart(board))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// RenderLeaderboard writes only the leaderboard chart.
func RenderLeaderboard(w io.Writer, board []platform.LeaderboardEntry) error {
	if err := leaderboardChart(board).Render(w); err != nil {
		return fmt.Errorf("render leaderboard: %w", err)
	}
	return nil
}

func globalOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "100%",
			Height: chartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func trainingChart(job platform.TrainingJob) (*charts.Line, error) {
	if len(job.Metrics) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMetrics, job.Name)
	}
	steps := make([]string, 0, len(job.Metrics))
	loss := make([]opts.LineData, 0, len(job.Metrics))
	acc := make([]opts.LineData, 0, len(job.Metrics))
	for _, m := range job.Metrics {
		steps = append(steps, fmt.Sprint(m.Step))
		loss = append(loss, opts.LineData{Value: round(m.Loss)})
		acc = append(acc, opts.LineData{Value: round(m.Accuracy)})
	}

	line := charts.NewLine()
	subtitle := fmt.Sprintf("%s on %s · %s", job.BaseModel, job.Dataset, job.Status)
	line.SetGlobalOptions(globalOptions(job.Name, subtitle)...)
	line.SetXAxis(steps).
		AddSeries("loss", loss).
		AddSeries("accuracy", acc)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line, nil
}

// leaderboardChart groups scores by model with one series per benchmark.
// Missing scores are left as gaps.
func leaderboardChart(board []platform.LeaderboardEntry) *charts.Bar {
	var models []string
	seen := map[string]bool{}
	scores := map[string]map[string]float64{}
	for _, e := range platform.Rank(board, "") {
		if !seen[e.Model] {
			seen[e.Model] = true
			models = append(models, e.Model)
		}
		if scores[e.Benchmark] == nil {
			scores[e.Benchmark] = map[string]float64{}
		}
		scores[e.Benchmark][e.Model] = e.Score
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions("Leaderboard", fmt.Sprintf("%d models", len(models)))...)
	bar.SetXAxis(models)
	for _, bench := range platform.Benchmarks(board) {
		data := make([]opts.BarData, 0, len(models))
		for _, m := range models {
			if v, ok := scores[bench][m]; ok {
				data = append(data, opts.BarData{Name: m, Value: v})
				continue
			}
			data = append(data, opts.BarData{Name: m, Value: "-"})
		}
		bar.AddSeries(bench, data)
	}
	return bar
}

func round(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
