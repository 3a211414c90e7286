package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/imitation-rl/core"
	"github.com/zeu5/imitation-rl/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func round(i, size int, mean float64) *core.RoundResult {
	return &core.RoundResult{
		Experiment:  "DAgger",
		Round:       i,
		DatasetSize: size,
		Fit:         &core.FitReport{Samples: size, Losses: []float64{0.5, 0.25}},
		Rollout:     &core.Rollout{Steps: 10, Disagreements: 4},
		Evaluation:  &core.Evaluation{Rewards: []float64{mean}, Mean: mean, Std: 1, Median: mean},
	}
}

func TestRewardAnalyzer(t *testing.T) {
	a := NewRewardAnalyzerConstructor().NewAnalyzer("DAgger", 0)
	a.Analyze(round(0, 10, 20))
	a.Analyze(&core.RoundResult{Round: 1})
	a.Analyze(round(2, 30, 180))

	d := a.DataSet().(*rewardDataset)
	assert.Equal(t, []int{0, 2}, d.Rounds)
	assert.Equal(t, []int{10, 30}, d.DatasetSizes)
	assert.Equal(t, []float64{20, 180}, d.Mean)

	d.Mean[0] = -1
	assert.Equal(t, 20.0, a.DataSet().(*rewardDataset).Mean[0])

	a.Reset()
	assert.Equal(t, 0, a.DataSet().(*rewardDataset).Len())
}

func TestDatasetAnalyzer(t *testing.T) {
	a := NewDatasetAnalyzerConstructor().NewAnalyzer("DAgger", 0)
	a.Analyze(round(0, 10, 20))
	a.Analyze(&core.RoundResult{Round: 1, DatasetSize: 12})

	d := a.DataSet().(*datasetDataset)
	assert.Equal(t, []int{10, 12}, d.Samples)
	assert.Equal(t, []float64{0.25, 0}, d.Loss)
	assert.Equal(t, []float64{0.4, 0}, d.DisagreementRate())
}

func TestJSONComparator(t *testing.T) {
	dir := t.TempDir()
	a := NewRewardAnalyzer()
	a.Analyze(round(0, 10, 20))

	cmp := NewJSONComparatorConstructor(dir, "rewards.json").NewComparator(1)
	require.NoError(t, cmp.Compare([]string{"Broken", "DAgger"}, []core.DataSet{nil, a.DataSet()}))

	out := make(map[string]*rewardDataset)
	require.NoError(t, util.ReadJson(filepath.Join(dir, "1", "rewards.json"), &out))
	require.Contains(t, out, "DAgger")
	assert.Nil(t, out["Broken"])
	assert.Equal(t, []float64{20}, out["DAgger"].Mean)

	assert.Error(t, cmp.Compare([]string{"DAgger"}, nil))
}

func TestChartComparator(t *testing.T) {
	dir := t.TempDir()
	rewards := NewRewardAnalyzer()
	rewards.Analyze(round(0, 10, 20))
	rewards.Analyze(round(1, 20, 60))
	data := NewDatasetAnalyzer()
	data.Analyze(round(0, 10, 20))

	cmp := NewChartComparatorConstructor(dir, "rewards.html", "Mean reward").NewComparator(0)
	require.NoError(t, cmp.Compare(
		[]string{"Cloning", "DAgger", "Broken", "Rates"},
		[]core.DataSet{rewards.DataSet(), rewards.DataSet(), nil, data.DataSet()},
	))

	bs, err := os.ReadFile(filepath.Join(dir, "0", "rewards.html"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "DAgger")
	assert.Contains(t, string(bs), "Rates")
	assert.NotContains(t, string(bs), "Broken")
}

func TestConsoleComparator(t *testing.T) {
	low := NewRewardAnalyzer()
	low.Analyze(round(0, 10, 20))
	high := NewRewardAnalyzer()
	high.Analyze(round(0, 10, 190))

	out := new(bytes.Buffer)
	cmp := NewConsoleComparator(2, out, false)
	require.NoError(t, cmp.Compare(
		[]string{"Broken", "Cloning", "DAgger", "Empty"},
		[]core.DataSet{nil, low.DataSet(), high.DataSet(), NewRewardAnalyzer().DataSet()},
	))

	s := out.String()
	assert.Contains(t, s, "Run 2")
	assert.Contains(t, s, "Broken       failed")
	assert.Contains(t, s, "mean  190.00")
	assert.Contains(t, s, "Empty        no rounds")
}

type failingComparator struct {
	calls *int
}

func (f failingComparator) Compare(_ []string, _ []core.DataSet) error {
	*f.calls++
	return errors.New("disk full")
}

type failingComparatorConstructor struct {
	calls *int
}

func (f failingComparatorConstructor) NewComparator(_ int) core.Comparator {
	return failingComparator(f)
}

func TestComposedComparatorStopsAtFirstError(t *testing.T) {
	calls := 0
	cmp := NewComposedComparatorConstructor(
		NewNoOpComparatorConstructor(),
		failingComparatorConstructor{calls: &calls},
		failingComparatorConstructor{calls: &calls},
	).NewComparator(0)

	err := cmp.Compare(nil, nil)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, calls)
}

func TestPrintDebugAnalyzer(t *testing.T) {
	dir := t.TempDir()
	a := NewPrintDebugAnalyzerConstructor(dir, 1).NewAnalyzer("DAgger", 0)
	a.Analyze(round(0, 10, 20))
	r := round(1, 20, 60)
	r.Rollout.Dataset = core.NewDataset()
	r.Rollout.Dataset.Add(core.Observation{1, 2, 3, 4}, core.OneHot(1, 2))
	a.Analyze(r)

	_, err := os.Stat(filepath.Join(dir, "rounds", "0_DAgger_round_0.txt"))
	assert.True(t, os.IsNotExist(err))

	bs, err := os.ReadFile(filepath.Join(dir, "rounds", "0_DAgger_round_1.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "Disagreements: 4")
	assert.Contains(t, string(bs), "Last sample: [1 2 3 4] -> [0 1]")
	assert.Nil(t, a.DataSet())
}

func TestPrintDebugAnalyzerReportsMissingDirectory(t *testing.T) {
	observed, logs := observer.New(zap.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(observed))()

	// a file where the save directory should be
	savePath := filepath.Join(t.TempDir(), "results")
	require.NoError(t, os.WriteFile(savePath, []byte("x"), 0644))

	a := NewPrintDebugAnalyzerConstructor(savePath, 0).NewAnalyzer("DAgger", 0)
	a.Analyze(round(0, 10, 20))

	assert.Equal(t, 1, logs.FilterMessage("could not create round report directory").Len())
	assert.Equal(t, 1, logs.FilterMessage("could not write round report").Len())
}
