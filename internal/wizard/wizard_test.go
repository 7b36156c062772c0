package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utrainer/utrainer/internal/platform"
)

func threeSteps() State {
	return New(
		Step{ID: 0, Name: "a", Valid: filled("name")},
		Step{ID: 1, Name: "b"},
		Step{ID: 2, Name: "c"},
	)
}

func TestNewPanicsWithoutSteps(t *testing.T) {
	require.Panics(t, func() { New() })
}

func TestNextBlockedUntilStepValidates(t *testing.T) {
	s := threeSteps()
	require.False(t, s.CanNext())
	require.Equal(t, 0, s.Next().Current)

	s = s.Set("name", "llama-sft")
	require.True(t, s.CanNext())
	require.Equal(t, 1, s.Next().Current)
}

func TestNextNeverLeavesRange(t *testing.T) {
	s := threeSteps().Set("name", "x")
	for i := 0; i < 10; i++ {
		s = s.Next()
		require.Less(t, s.Current, len(s.Steps))
	}
	require.True(t, s.IsLast())
}

func TestBackNeverBelowZero(t *testing.T) {
	s := threeSteps()
	for i := 0; i < 5; i++ {
		s = s.Back()
		require.GreaterOrEqual(t, s.Current, 0)
	}
	require.True(t, s.IsFirst())
}

func TestGoToOnlyBackwards(t *testing.T) {
	s := threeSteps().Set("name", "x").Next()
	require.Equal(t, 1, s.Current)

	ahead := s.GoTo(2)
	assert.Equal(t, s.Current, ahead.Current)
	assert.Equal(t, s.Values, ahead.Values)

	assert.Equal(t, s.Current, s.GoTo(42).Current)
	assert.Equal(t, 0, s.GoTo(0).Current)
	assert.Equal(t, 1, s.GoTo(1).Current)
}

func TestSetIsCopyOnWrite(t *testing.T) {
	a := threeSteps().Set("name", "first")
	b := a.Set("name", "second")
	assert.Equal(t, "first", a.Values.String("name"))
	assert.Equal(t, "second", b.Values.String("name"))

	same := b.Set("", "ignored")
	assert.Len(t, same.Values, 1)
}

func TestReset(t *testing.T) {
	s := threeSteps().Set("name", "x").Next().Next().Reset()
	assert.Equal(t, 0, s.Current)
	assert.Empty(t, s.Values)
}

func TestReduceLeavesInputUntouched(t *testing.T) {
	s := threeSteps().Set("name", "x")
	_ = Reduce(s, Next{})
	_ = Reduce(s, SetField{Key: "other", Value: 1})
	assert.Equal(t, 0, s.Current)
	assert.Len(t, s.Values, 1)
}

func TestProgress(t *testing.T) {
	s := threeSteps().Set("name", "x")
	assert.InDelta(t, 0, s.Progress(), 1e-9)
	assert.InDelta(t, 0.5, s.Next().Progress(), 1e-9)
	assert.InDelta(t, 0, New(Step{ID: 0}).Progress(), 1e-9)
}

func TestValuesAccessors(t *testing.T) {
	v := Values{"i": 3, "f": 2.5, "s": "7", "fs": "1e-4", "b": true}
	assert.Equal(t, 3, v.Int("i"))
	assert.Equal(t, 7, v.Int("s"))
	assert.Equal(t, 2, v.Int("f"))
	assert.InDelta(t, 1e-4, v.Float("fs"), 1e-12)
	assert.InDelta(t, 3.0, v.Float("i"), 1e-12)
	assert.True(t, v.Bool("b"))
	assert.False(t, v.Bool("missing"))
	assert.Equal(t, "3", v.String("i"))
	assert.Equal(t, "", v.String("missing"))
}

func TestTrainingFlowGates(t *testing.T) {
	s := TrainingFlow()
	s = s.Set(KeyName, "qwen-sft").Next()
	require.Equal(t, 1, s.Current)

	s = s.Set(KeyBaseModel, "Qwen2-7B").Next()
	require.Equal(t, 1, s.Current, "dataset still missing")
	s = s.Set(KeyDataset, "alpaca-gpt4-zh").Next()
	require.Equal(t, 2, s.Current)

	s = s.Set(KeyEpochs, 3).Set(KeyLearningRate, "2e-5").Set(KeyBatchSize, 0).Next()
	require.Equal(t, 2, s.Current)
	s = s.Set(KeyBatchSize, 16).Next()
	require.Equal(t, 3, s.Current)

	s = s.Set(KeyGPUs, 8).Next()
	require.True(t, s.IsLast())
}

func TestConstructionFlowRatios(t *testing.T) {
	s := ConstructionFlow()
	require.False(t, s.CanNext())

	s = s.Set(KeyRatios, []platform.Ratio{{Dataset: "alpaca-gpt4-zh", Percent: 60}, {Dataset: "", Percent: 40}})
	require.False(t, s.CanNext())

	s = s.Set(KeyRatios, []platform.Ratio{{Dataset: "alpaca-gpt4-zh", Percent: 60}, {Dataset: "belle-math-0.5m", Percent: 30}})
	s = s.Next().Next()
	require.Equal(t, 2, s.Current)
	require.False(t, s.CanNext(), "ratios sum to 90")

	s = s.Set(KeyRatios, []platform.Ratio{{Dataset: "alpaca-gpt4-zh", Percent: 70}, {Dataset: "belle-math-0.5m", Percent: 30}}).Next()
	require.Equal(t, 3, s.Current)
	require.False(t, s.CanNext())
	require.True(t, s.Set(KeyBuilt, true).CanNext())
}

func TestUploadFlowNeedsCompletedUpload(t *testing.T) {
	s := UploadFlow().Set(KeyName, "d").Set(KeyModality, "Text").Set(KeyDomain, "General").Next()
	require.Equal(t, 1, s.Current)
	s = s.Set(KeyFile, "train.jsonl").Next()
	require.Equal(t, 1, s.Current)
	s = s.Set(KeyUploaded, true).Next()
	require.True(t, s.IsLast())
}
