package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/imitation-rl/core"
	"go.uber.org/zap"
)

// PrintDebugAnalyzer writes a plain text report of every round to savePath/rounds
type PrintDebugAnalyzer struct {
	// savePath is the directory of the round reports
	savePath string
	exp      string
	// rounds before this one are not written
	thresholdRound int
}

var _ core.Analyzer = &PrintDebugAnalyzer{}

func (a *PrintDebugAnalyzer) Analyze(res *core.RoundResult) {
	if res.Round < a.thresholdRound {
		return
	}
	buf := new(bytes.Buffer)
	buf.WriteString(fmt.Sprintf("Experiment: %s\nRun: %d\nRound: %d\nSamples: %d\n\n", res.Experiment, res.Run, res.Round, res.DatasetSize))
	if res.Fit != nil {
		buf.WriteString(fmt.Sprintf("Fit on %d samples\nLosses: %v\n\n", res.Fit.Samples, res.Fit.Losses))
	}
	if res.Rollout != nil {
		buf.WriteString(rolloutToString(res.Rollout))
	}
	if res.Evaluation != nil {
		buf.WriteString(fmt.Sprintf("Evaluation\nMean: %.2f\nStd: %.2f\nMedian: %.2f\nRewards: %v\n",
			res.Evaluation.Mean, res.Evaluation.Std, res.Evaluation.Median, res.Evaluation.Rewards))
	}

	fileName := fmt.Sprintf("%d_round_%d.txt", res.Run, res.Round)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_round_%d.txt", res.Run, a.exp, res.Round)
	}
	file := path.Join(a.savePath, fileName)
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		zap.L().Warn("could not write round report", zap.String("file", file), zap.Error(err))
	}
}

func rolloutToString(r *core.Rollout) string {
	out := fmt.Sprintf("Rollout\nEpisodes: %d\nSteps: %d\nDisagreements: %d\nEpisode rewards: %v\n",
		r.Episodes, r.Steps, r.Disagreements, r.EpisodeRewards)
	if r.Dataset != nil && r.Dataset.Len() > 0 {
		last := r.Dataset.Len() - 1
		out += fmt.Sprintf("Last sample: %v -> %v\n", r.Dataset.Observations[last], r.Dataset.Actions[last])
	}
	return out + "\n"
}

func (a *PrintDebugAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *PrintDebugAnalyzer) Reset() {
	// do nothing
}

type PrintDebugAnalyzerConstructor struct {
	SavePath       string
	ThresholdRound int
}

var _ core.AnalyzerConstructor = &PrintDebugAnalyzerConstructor{}

func NewPrintDebugAnalyzerConstructor(savePath string, thresholdRound int) *PrintDebugAnalyzerConstructor {
	return &PrintDebugAnalyzerConstructor{
		SavePath:       savePath,
		ThresholdRound: thresholdRound,
	}
}

func (c *PrintDebugAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	dir := path.Join(c.SavePath, "rounds")
	if err := os.MkdirAll(dir, 0755); err != nil {
		zap.L().Warn("could not create round report directory", zap.String("dir", dir), zap.Error(err))
	}
	return &PrintDebugAnalyzer{
		savePath:       dir,
		exp:            exp,
		thresholdRound: c.ThresholdRound,
	}
}
