package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/progress"

	"github.com/utrainer/utrainer/internal/platform"
)

const chartHeight = 10

// timeChart draws points as a braille time series. It returns "" when
// there is nothing to plot.
func timeChart(points []platform.SeriesPoint, width, height int, unit string) string {
	if len(points) < 2 || width < 20 {
		return ""
	}
	start, end := points[0].Time, points[len(points)-1].Time
	if !end.After(start) {
		end = start.Add(time.Minute)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	lo, hi = math.Max(lo-pad, 0), hi+pad

	chart := tslc.New(width, max(height, 5))
	chart.SetStyle(chartStyle)
	chart.AxisStyle = axisStyle
	chart.LabelStyle = labelStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(lo, hi)
	chart.SetViewYRange(lo, hi)
	chart.Model.XLabelFormatter = clockLabel
	chart.Model.YLabelFormatter = valueLabel(unit)
	for _, p := range points {
		chart.Push(tslc.TimePoint{Time: p.Time, Value: p.Value})
	}
	chart.DrawBraille()
	return chart.View()
}

var clockLabel linechart.LabelFormatter = func(_ int, v float64) string {
	return time.Unix(int64(v), 0).Format("15:04")
}

func valueLabel(unit string) linechart.LabelFormatter {
	return func(_ int, v float64) string {
		if v >= 100 {
			return fmt.Sprintf("%.0f%s", v, unit)
		}
		return fmt.Sprintf("%.2f%s", v, unit)
	}
}

// lossSeries projects a job's metric history onto its loss values.
func lossSeries(metrics []platform.MetricPoint) []platform.SeriesPoint {
	out := make([]platform.SeriesPoint, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, platform.SeriesPoint{Time: m.Time, Value: m.Loss})
	}
	return out
}

// progressBar renders pct (0-100) as a gradient bar.
func progressBar(width int, pct float64) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(max(width, 10)))
	return bar.ViewAs(math.Min(math.Max(pct, 0), 100) / 100)
}
