// Package platform holds the records shown by the console. Every value is
// fixture data; nothing here talks to a real training service.
package platform

import (
	"sort"
	"time"
)

// JobStatus is the lifecycle state of a training or processing job.
type JobStatus string

const (
	JobQueued    JobStatus = "Queued"
	JobRunning   JobStatus = "Running"
	JobCompleted JobStatus = "Completed"
	JobFailed    JobStatus = "Failed"
)

func (s JobStatus) String() string { return string(s) }

// DeployStatus is the rollout state of a model service.
type DeployStatus string

const (
	DeployPending  DeployStatus = "Pending"
	DeployRunning  DeployStatus = "Running"
	DeployStopped  DeployStatus = "Stopped"
	DeployDegraded DeployStatus = "Degraded"
)

func (s DeployStatus) String() string { return string(s) }

type Dataset struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Modality string `yaml:"modality"`
	Domain   string `yaml:"domain"`
	Size     string `yaml:"size"`
	Samples  int    `yaml:"samples"`
	Updated  string `yaml:"updated"`
	Status   string `yaml:"status"`
}

// MetricPoint is one logged training step.
type MetricPoint struct {
	Step     int
	Time     time.Time
	Loss     float64
	Accuracy float64
}

type Artifact struct {
	Name string
	Size string
	Kind string
}

type TrainingJob struct {
	ID        string
	Name      string
	BaseModel string
	Dataset   string
	Status    JobStatus
	Progress  float64
	GPUs      int
	Created   time.Time
	Metrics   []MetricPoint
	Artifacts []Artifact
}

// ProcessingJob is a data cleaning job run against a dataset.
type ProcessingJob struct {
	ID       string
	Dataset  string
	Operator string
	Status   JobStatus
	Progress float64
}

type Deployment struct {
	ID        string       `yaml:"id"`
	Name      string       `yaml:"name"`
	Model     string       `yaml:"model"`
	Status    DeployStatus `yaml:"status"`
	Replicas  int          `yaml:"replicas"`
	QPS       float64      `yaml:"qps"`
	LatencyMS float64      `yaml:"latency_ms"`
	ErrorRate string       `yaml:"error_rate"`
}

type LeaderboardEntry struct {
	Model     string  `yaml:"model"`
	Benchmark string  `yaml:"benchmark"`
	Score     float64 `yaml:"score"`
}

type RequestLog struct {
	Time    time.Time
	Level   string
	Route   string
	Status  int
	Latency time.Duration
	Message string
}

type ChatMessage struct {
	Role string
	Text string
}

// Ratio is one row of a dataset mix.
type Ratio struct {
	Dataset string
	Percent int
}

func RatioTotal(rows []Ratio) int {
	total := 0
	for _, r := range rows {
		total += r.Percent
	}
	return total
}

// Benchmarks lists benchmark names in first-seen order.
func Benchmarks(entries []LeaderboardEntry) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range entries {
		if _, ok := seen[e.Benchmark]; ok {
			continue
		}
		seen[e.Benchmark] = struct{}{}
		out = append(out, e.Benchmark)
	}
	return out
}

// Rank returns the entries for benchmark ordered by score, best first.
// An empty benchmark ranks every entry.
func Rank(entries []LeaderboardEntry, benchmark string) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if benchmark == "" || e.Benchmark == benchmark {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// LatestMetric returns the last logged point, if any.
func (j TrainingJob) LatestMetric() (MetricPoint, bool) {
	if len(j.Metrics) == 0 {
		return MetricPoint{}, false
	}
	return j.Metrics[len(j.Metrics)-1], true
}

// SeriesPoint is one sample of a service metric.
type SeriesPoint struct {
	Time  time.Time
	Value float64
}
