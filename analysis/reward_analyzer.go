package analysis

import (
	"path"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"github.com/zeu5/imitation-rl/util"
)

type rewardDataset struct {
	Rounds       []int
	DatasetSizes []int
	Mean         []float64
	Std          []float64
	Median       []float64
}

func newRewardDataset() *rewardDataset {
	return &rewardDataset{
		Rounds:       make([]int, 0),
		DatasetSizes: make([]int, 0),
		Mean:         make([]float64, 0),
		Std:          make([]float64, 0),
		Median:       make([]float64, 0),
	}
}

func (r *rewardDataset) Copy() *rewardDataset {
	return &rewardDataset{
		Rounds:       util.CopyIntSlice(r.Rounds),
		DatasetSizes: util.CopyIntSlice(r.DatasetSizes),
		Mean:         util.CopyFloatSlice(r.Mean),
		Std:          util.CopyFloatSlice(r.Std),
		Median:       util.CopyFloatSlice(r.Median),
	}
}

func (r *rewardDataset) Len() int {
	return len(r.Rounds)
}

// RewardAnalyzer records the evaluation reward of every round
type RewardAnalyzer struct {
	dataset *rewardDataset
}

var _ core.Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	return &RewardAnalyzer{
		dataset: newRewardDataset(),
	}
}

func (r *RewardAnalyzer) Analyze(res *core.RoundResult) {
	if res.Evaluation == nil {
		return
	}
	r.dataset.Rounds = append(r.dataset.Rounds, res.Round)
	r.dataset.DatasetSizes = append(r.dataset.DatasetSizes, res.DatasetSize)
	r.dataset.Mean = append(r.dataset.Mean, res.Evaluation.Mean)
	r.dataset.Std = append(r.dataset.Std, res.Evaluation.Std)
	r.dataset.Median = append(r.dataset.Median, res.Evaluation.Median)
}

func (r *RewardAnalyzer) DataSet() core.DataSet {
	return r.dataset.Copy()
}

func (r *RewardAnalyzer) Reset() {
	r.dataset = newRewardDataset()
}

type RewardAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &RewardAnalyzerConstructor{}

func NewRewardAnalyzerConstructor() *RewardAnalyzerConstructor {
	return &RewardAnalyzerConstructor{}
}

func (c *RewardAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewRewardAnalyzer()
}

// JSONComparator saves the datasets of every experiment to a single json file
// keyed by experiment name. Failed experiments are saved as null.
type JSONComparator struct {
	savePath string
}

var _ core.Comparator = &JSONComparator{}

func NewJSONComparator(savePath string) *JSONComparator {
	return &JSONComparator{
		savePath: savePath,
	}
}

func (c *JSONComparator) Compare(experimentNames []string, datasets []core.DataSet) error {
	if len(experimentNames) != len(datasets) {
		return errors.Errorf("%d experiments but %d datasets", len(experimentNames), len(datasets))
	}
	out := make(map[string]core.DataSet)
	for i, name := range experimentNames {
		out[name] = datasets[i]
	}
	return util.SaveJson(c.savePath, out)
}

type JSONComparatorConstructor struct {
	savePath string
	fileName string
}

var _ core.ComparatorConstructor = &JSONComparatorConstructor{}

// NewJSONComparatorConstructor saves the comparison of run i to savePath/i/fileName
func NewJSONComparatorConstructor(savePath, fileName string) *JSONComparatorConstructor {
	return &JSONComparatorConstructor{
		savePath: savePath,
		fileName: fileName,
	}
}

func (c *JSONComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewJSONComparator(path.Join(c.savePath, strconv.Itoa(run), c.fileName))
}
