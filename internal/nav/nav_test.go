package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	top, sub, ok := Resolve("data")
	require.True(t, ok)
	assert.Equal(t, "data", top.Key)
	assert.Equal(t, "data.center", sub.Key)

	top, sub, ok = Resolve("data.processing")
	require.True(t, ok)
	assert.Equal(t, "data", top.Key)
	assert.Equal(t, "data.processing", sub.Key)

	_, _, ok = Resolve("nope")
	assert.False(t, ok)
	assert.Equal(t, "", TopOf("nope"))
}

func TestNavigateWithinTopKeepsMount(t *testing.T) {
	s := NewAppState("data.center", false)
	s = s.ToggleSidebar()

	next, tr := s.Navigate("data.processing", nil)
	require.True(t, tr.Accepted)
	assert.False(t, tr.Remount)
	assert.Equal(t, "data.processing", next.Active())
	assert.True(t, next.SidebarCollapsed, "layout state survives sub-view switches")

	next, tr = next.Navigate("training", nil)
	assert.True(t, tr.Remount)
	assert.Equal(t, "training.jobs", next.Active())
	assert.True(t, next.SidebarCollapsed)
}

func TestNavigateRefusesUnknownKey(t *testing.T) {
	s := NewAppState("eval", false)
	next, tr := s.Navigate("does.not.exist", Params{"x": 1})
	assert.False(t, tr.Accepted)
	assert.Equal(t, s, next)
}

func TestNewAppStateFallsBack(t *testing.T) {
	s := NewAppState("bogus", true)
	assert.Equal(t, "overview.home", s.Active())
	assert.True(t, s.SidebarCollapsed)
}

func TestParamsConsumedOnce(t *testing.T) {
	s := NewAppState("data.center", false)
	src := Params{ParamAction: ActionCreate, ParamDatasetName: "alpaca-gpt4-zh"}
	s, _ = s.Navigate("training.create", src)
	src[ParamAction] = "mutated"

	s, p := s.TakeParams()
	assert.Equal(t, ActionCreate, p.String(ParamAction))
	assert.Equal(t, "alpaca-gpt4-zh", p.String(ParamDatasetName))

	_, again := s.TakeParams()
	assert.Empty(t, again)
	assert.Equal(t, "", again.String(ParamAction))
}

func TestLoginLogout(t *testing.T) {
	s := NewAppState("overview", false)
	_, ok := s.Login("   ")
	assert.False(t, ok)

	s, ok = s.Login(" ada ")
	require.True(t, ok)
	assert.Equal(t, "ada", s.User)
	assert.True(t, s.LoggedIn())
	assert.False(t, s.Logout().LoggedIn())
}

func TestBreadcrumbAndStep(t *testing.T) {
	assert.Equal(t, "Data Platform / Data Processing", Breadcrumb("data.processing"))
	assert.Equal(t, "Evaluation", Breadcrumb("eval"))
	assert.Equal(t, "", Breadcrumb("zzz"))

	assert.Equal(t, "data.processing", Step("data.center", 1))
	assert.Equal(t, "data.construction", Step("data.center", -1))
	assert.Equal(t, "eval.leaderboard", Step("eval.leaderboard", 1))
	assert.Equal(t, "zzz", Step("zzz", 1))
}
