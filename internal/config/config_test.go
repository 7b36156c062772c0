package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("UTRAINER_CONFIG", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "overview", c.UI.StartView)
	assert.False(t, c.UI.SidebarCollapsed)
	assert.Equal(t, 250*time.Millisecond, c.Sim.TickInterval)
	assert.Equal(t, 1500*time.Millisecond, c.Sim.ChatDelay)
	assert.Equal(t, 2.0, c.Sim.MinStep)
	assert.Equal(t, int64(20240601), c.Sim.Seed)
	assert.Equal(t, filepath.Join(home, ".local", "state", "utrainer", "utrainer.log"), c.Log.Path)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	doc := `[ui]
start_view = "data.center"
sidebar_collapsed = true

[sim]
tick_interval = "50ms"
min_step = 5
max_step = 10
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("UTRAINER_CONFIG", path)
	t.Setenv("UTRAINER_SIM_SEED", "7")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data.center", c.UI.StartView)
	assert.True(t, c.UI.SidebarCollapsed)
	assert.Equal(t, 50*time.Millisecond, c.Sim.TickInterval)
	assert.Equal(t, 5.0, c.Sim.MinStep)
	assert.Equal(t, 10.0, c.Sim.MaxStep)
	assert.Equal(t, int64(7), c.Sim.Seed)
}

func TestLoadRejectsInvalidSimulation(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sim]\nmin_step = 10\nmax_step = 2\n"), 0o644))
	t.Setenv("UTRAINER_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_step")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\nstart_view = "), 0o644))
	t.Setenv("UTRAINER_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	ok := Config{Sim: SimConfig{TickInterval: time.Second, MinStep: 1, MaxStep: 1}}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Sim.TickInterval = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Sim.MinStep = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Sim.ChatDelay = -time.Second
	assert.Error(t, bad.Validate())
}

func TestSaveSidebarKeepsFileValues(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	doc := `[ui]
start_view = "data.center"

[sim]
seed = 99
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("UTRAINER_CONFIG", path)
	t.Setenv("UTRAINER_UI_START_VIEW", "training.jobs")

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "training.jobs", c.UI.StartView)

	require.NoError(t, SaveSidebar(true))

	t.Setenv("UTRAINER_UI_START_VIEW", "")
	got, err := Load()
	require.NoError(t, err)
	assert.True(t, got.UI.SidebarCollapsed)
	assert.Equal(t, "data.center", got.UI.StartView, "env override must not be persisted")
	assert.Equal(t, int64(99), got.Sim.Seed)
	assert.Equal(t, 250*time.Millisecond, got.Sim.TickInterval)
}

func TestSaveSidebarCreatesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg", "config.toml")
	t.Setenv("UTRAINER_CONFIG", path)

	require.NoError(t, SaveSidebar(true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "start_view")

	got, err := Load()
	require.NoError(t, err)
	assert.True(t, got.UI.SidebarCollapsed)
	assert.Equal(t, "overview", got.UI.StartView)
}
