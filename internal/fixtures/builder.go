package fixtures

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utrainer/utrainer/internal/platform"
)

// Builder generates the dynamic mock data. Output depends only on the seed,
// the reference time and the catalogue.
type Builder struct {
	rng     *rand.Rand
	now     time.Time
	catalog Catalog
}

func NewBuilder(seed int64, now time.Time, catalog Catalog) *Builder {
	return &Builder{rng: rand.New(rand.NewSource(seed)), now: now.UTC(), catalog: catalog}
}

// Snapshot is everything the console shows at start-up.
type Snapshot struct {
	Catalog    Catalog
	Jobs       []platform.TrainingJob
	Processing []platform.ProcessingJob
	Logs       []platform.RequestLog
	Latency    []platform.SeriesPoint
}

// Build produces a full snapshot.
func (b *Builder) Build() Snapshot {
	return Snapshot{
		Catalog:    b.catalog,
		Jobs:       b.TrainingJobs(6),
		Processing: b.ProcessingJobs(),
		Logs:       b.RequestLogs(40),
		Latency:    b.LatencySeries(60),
	}
}

// ID returns a short stable identifier drawn from the builder's stream.
func (b *Builder) ID(prefix string) string {
	u, err := uuid.NewRandomFromReader(b.rng)
	if err != nil {
		return fmt.Sprintf("%s-%06d", prefix, b.rng.Intn(1_000_000))
	}
	return prefix + "-" + u.String()[:8]
}

var jobStatusCycle = []platform.JobStatus{
	platform.JobRunning,
	platform.JobCompleted,
	platform.JobFailed,
	platform.JobQueued,
}

// TrainingJobs generates n jobs cycling through every status. Failed jobs
// exist only here; the task simulator never produces them.
func (b *Builder) TrainingJobs(n int) []platform.TrainingJob {
	models := b.catalog.BaseModels
	datasets := b.catalog.DatasetNames()
	if len(models) == 0 || len(datasets) == 0 {
		return nil
	}
	out := make([]platform.TrainingJob, 0, n)
	for i := 0; i < n; i++ {
		model := models[i%len(models)]
		status := jobStatusCycle[i%len(jobStatusCycle)]
		job := platform.TrainingJob{
			ID:        b.ID("job"),
			Name:      fmt.Sprintf("%s-sft-%02d", shortModel(model), i+1),
			BaseModel: model,
			Dataset:   datasets[i%len(datasets)],
			Status:    status,
			GPUs:      1 << b.rng.Intn(4),
			Created:   b.now.Add(-time.Duration(i*7+b.rng.Intn(5)) * time.Hour),
		}
		switch status {
		case platform.JobCompleted:
			job.Progress = 100
			job.Metrics = b.MetricHistory(job.Created, 50)
			job.Artifacts = b.Artifacts()
		case platform.JobRunning:
			job.Progress = float64(20 + b.rng.Intn(60))
			job.Metrics = b.MetricHistory(job.Created, int(job.Progress/2))
		case platform.JobFailed:
			job.Progress = float64(5 + b.rng.Intn(30))
			job.Metrics = b.MetricHistory(job.Created, int(job.Progress/2))
		}
		out = append(out, job)
	}
	return out
}

// Artifacts is the output set of a finished fine-tuning run.
func (b *Builder) Artifacts() []platform.Artifact {
	return []platform.Artifact{
		{Name: "adapter_model.safetensors", Size: fmt.Sprintf("%d MB", 80+b.rng.Intn(400)), Kind: "weights"},
		{Name: "trainer_state.json", Size: "14 KB", Kind: "state"},
		{Name: "eval_results.json", Size: "3 KB", Kind: "report"},
	}
}

func shortModel(model string) string {
	s := strings.ToLower(model)
	if i := strings.IndexAny(s, "-/"); i > 0 {
		s = s[:i]
	}
	return s
}

// MetricHistory produces a noisy decaying loss curve and rising accuracy.
func (b *Builder) MetricHistory(start time.Time, steps int) []platform.MetricPoint {
	out := make([]platform.MetricPoint, 0, steps)
	base := 2.2 + b.rng.Float64()*0.6
	for i := 0; i < steps; i++ {
		decay := math.Exp(-float64(i) / 18)
		noise := (b.rng.Float64() - 0.5) * 0.08
		loss := 0.35 + (base-0.35)*decay + noise
		acc := 0.35 + 0.55*(1-decay) + noise/2
		out = append(out, platform.MetricPoint{
			Step:     (i + 1) * 100,
			Time:     start.Add(time.Duration(i) * 10 * time.Minute),
			Loss:     math.Max(loss, 0),
			Accuracy: math.Min(math.Max(acc, 0), 1),
		})
	}
	return out
}

// ProcessingJobs generates one cleaning job per dataset and operator pair.
func (b *Builder) ProcessingJobs() []platform.ProcessingJob {
	var out []platform.ProcessingJob
	for i, ds := range b.catalog.Datasets {
		if len(b.catalog.Operators) == 0 {
			break
		}
		op := b.catalog.Operators[i%len(b.catalog.Operators)]
		status := platform.JobCompleted
		progress := 100.0
		if i%2 == 1 {
			status = platform.JobQueued
			progress = 0
		}
		out = append(out, platform.ProcessingJob{
			ID:       b.ID("proc"),
			Dataset:  ds.Name,
			Operator: op,
			Status:   status,
			Progress: progress,
		})
	}
	return out
}

var (
	logRoutes = []string{"/v1/chat/completions", "/v1/embeddings", "/v1/models", "/v1/completions"}
	logErrors = []string{"upstream timeout", "CUDA out of memory", "rate limit exceeded", "invalid request body"}
)

// RequestLogs produces n inference request log lines, newest first. Roughly
// one in eight is a pre-baked failure.
func (b *Builder) RequestLogs(n int) []platform.RequestLog {
	out := make([]platform.RequestLog, 0, n)
	t := b.now
	for i := 0; i < n; i++ {
		t = t.Add(-time.Duration(1+b.rng.Intn(30)) * time.Second)
		entry := platform.RequestLog{
			Time:    t,
			Level:   "INFO",
			Route:   logRoutes[b.rng.Intn(len(logRoutes))],
			Status:  200,
			Latency: time.Duration(80+b.rng.Intn(900)) * time.Millisecond,
			Message: "ok",
		}
		switch r := b.rng.Intn(8); {
		case r == 0:
			entry.Level = "ERROR"
			entry.Status = 500 + b.rng.Intn(4)
			entry.Message = logErrors[b.rng.Intn(len(logErrors))]
		case r == 1:
			entry.Level = "WARN"
			entry.Status = 429
			entry.Message = "slow response"
		}
		out = append(out, entry)
	}
	return out
}

// LatencySeries produces n one-minute p95 latency samples ending at now.
func (b *Builder) LatencySeries(n int) []platform.SeriesPoint {
	out := make([]platform.SeriesPoint, 0, n)
	start := b.now.Add(-time.Duration(n) * time.Minute)
	level := 350.0
	for i := 0; i < n; i++ {
		level += (b.rng.Float64() - 0.5) * 60
		level = math.Min(math.Max(level, 120), 1200)
		out = append(out, platform.SeriesPoint{Time: start.Add(time.Duration(i) * time.Minute), Value: level})
	}
	return out
}
