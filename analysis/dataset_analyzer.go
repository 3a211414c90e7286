package analysis

import (
	"github.com/zeu5/imitation-rl/core"
	"github.com/zeu5/imitation-rl/util"
)

type datasetDataset struct {
	Rounds        []int
	Samples       []int
	RolloutSteps  []int
	Disagreements []int
	Loss          []float64
}

func newDatasetDataset() *datasetDataset {
	return &datasetDataset{
		Rounds:        make([]int, 0),
		Samples:       make([]int, 0),
		RolloutSteps:  make([]int, 0),
		Disagreements: make([]int, 0),
		Loss:          make([]float64, 0),
	}
}

func (d *datasetDataset) Copy() *datasetDataset {
	return &datasetDataset{
		Rounds:        util.CopyIntSlice(d.Rounds),
		Samples:       util.CopyIntSlice(d.Samples),
		RolloutSteps:  util.CopyIntSlice(d.RolloutSteps),
		Disagreements: util.CopyIntSlice(d.Disagreements),
		Loss:          util.CopyFloatSlice(d.Loss),
	}
}

// DisagreementRate is the fraction of student rollout steps on which the expert
// would have acted differently, per round
func (d *datasetDataset) DisagreementRate() []float64 {
	out := make([]float64, len(d.Rounds))
	for i := range out {
		if d.RolloutSteps[i] > 0 {
			out[i] = float64(d.Disagreements[i]) / float64(d.RolloutSteps[i])
		}
	}
	return out
}

// DatasetAnalyzer follows the aggregated dataset, the training loss and how
// often the student disagrees with the expert on its own rollouts
type DatasetAnalyzer struct {
	dataset *datasetDataset
}

var _ core.Analyzer = &DatasetAnalyzer{}

func NewDatasetAnalyzer() *DatasetAnalyzer {
	return &DatasetAnalyzer{
		dataset: newDatasetDataset(),
	}
}

func (d *DatasetAnalyzer) Analyze(res *core.RoundResult) {
	loss := 0.0
	if res.Fit != nil {
		loss = res.Fit.FinalLoss()
	}
	steps, disagreements := 0, 0
	if res.Rollout != nil {
		steps = res.Rollout.Steps
		disagreements = res.Rollout.Disagreements
	}
	d.dataset.Rounds = append(d.dataset.Rounds, res.Round)
	d.dataset.Samples = append(d.dataset.Samples, res.DatasetSize)
	d.dataset.RolloutSteps = append(d.dataset.RolloutSteps, steps)
	d.dataset.Disagreements = append(d.dataset.Disagreements, disagreements)
	d.dataset.Loss = append(d.dataset.Loss, loss)
}

func (d *DatasetAnalyzer) DataSet() core.DataSet {
	return d.dataset.Copy()
}

func (d *DatasetAnalyzer) Reset() {
	d.dataset = newDatasetDataset()
}

type DatasetAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &DatasetAnalyzerConstructor{}

func NewDatasetAnalyzerConstructor() *DatasetAnalyzerConstructor {
	return &DatasetAnalyzerConstructor{}
}

func (c *DatasetAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewDatasetAnalyzer()
}
