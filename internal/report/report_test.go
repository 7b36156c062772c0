package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrainer/utrainer/internal/fixtures"
	"github.com/utrainer/utrainer/internal/platform"
)

func snapshot(t *testing.T) fixtures.Snapshot {
	t.Helper()
	cat, err := fixtures.Default()
	require.NoError(t, err)
	return fixtures.NewBuilder(3, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), cat).Build()
}

func completedJob(t *testing.T, snap fixtures.Snapshot) platform.TrainingJob {
	t.Helper()
	for _, j := range snap.Jobs {
		if j.Status == platform.JobCompleted {
			return j
		}
	}
	t.Fatal("fixtures have no completed job")
	return platform.TrainingJob{}
}

func TestFindJob(t *testing.T) {
	snap := snapshot(t)
	want := snap.Jobs[1]

	got, err := FindJob(snap.Jobs, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)

	got, err = FindJob(snap.Jobs, "  "+want.Name+"  ")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)

	_, err = FindJob(snap.Jobs, "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestRenderJob(t *testing.T) {
	snap := snapshot(t)
	job := completedJob(t, snap)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, job, nil))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, job.Name)
	assert.Contains(t, html, "accuracy")
	assert.NotContains(t, html, "Leaderboard")
}

func TestRenderWithLeaderboard(t *testing.T) {
	snap := snapshot(t)
	job := completedJob(t, snap)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, job, snap.Catalog.Leaderboard))
	html := buf.String()
	assert.Contains(t, html, "Leaderboard")
	for _, b := range platform.Benchmarks(snap.Catalog.Leaderboard) {
		assert.Contains(t, html, b)
	}
}

func TestRenderWithoutMetrics(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, platform.TrainingJob{Name: "queued"}, nil)
	assert.ErrorIs(t, err, ErrNoMetrics)
	assert.Zero(t, buf.Len())
}

func TestRenderLeaderboard(t *testing.T) {
	snap := snapshot(t)
	var buf bytes.Buffer
	require.NoError(t, RenderLeaderboard(&buf, snap.Catalog.Leaderboard))
	assert.Contains(t, buf.String(), snap.Catalog.Leaderboard[0].Model)
}
