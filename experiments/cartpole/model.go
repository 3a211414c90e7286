package cartpole

import (
	"context"
	"io"
	"path"

	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"github.com/zeu5/imitation-rl/experiments/common"
	"github.com/zeu5/imitation-rl/network"
	"github.com/zeu5/imitation-rl/policies"
	"github.com/zeu5/imitation-rl/util"
	"go.uber.org/zap"
)

// EvaluateModel evaluates the network stored in weightsPath, or the expert
// when weightsPath is empty, and saves the result to evaluation.json
func EvaluateModel(ctx context.Context, flags *common.Flags, weightsPath string, w io.Writer) (*core.Evaluation, error) {
	var policy core.Policy
	if weightsPath == "" {
		expert, err := Expert(flags)
		if err != nil {
			return nil, err
		}
		policy = expert
	} else {
		model, err := network.LoadModel(flags.ModelConfig, weightsPath)
		if err != nil {
			return nil, err
		}
		policy = model
	}

	_, _, evalEnv := Environments(flags)
	eval, err := core.Evaluate(ctx, evalEnv.NewEnvironment(0), policy, core.EvalConfig{Episodes: flags.EvalEpisodes, Writer: w})
	if err != nil {
		return nil, err
	}
	if err := util.SaveJson(path.Join(flags.SavePath, "evaluation.json"), eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// TrainExpert fits a network to demonstrations of the analytic controller and
// writes its weights to out. The returned evaluation is the one of the network.
func TrainExpert(ctx context.Context, flags *common.Flags, out string, w io.Writer) (*core.Evaluation, error) {
	model, err := network.LoadModelWithOptions(flags.ModelConfig, "", NetworkOptions(flags))
	if err != nil {
		return nil, err
	}
	controller := policies.NewController(policies.DefaultGains())
	demoEnv, _, evalEnv := Environments(flags)

	demos, err := core.GenerateExpertData(ctx, demoEnv.NewEnvironment(0), controller, core.RolloutConfig{Episodes: flags.ExpertEpisodes, Writer: w})
	if err != nil {
		return nil, errors.Wrap(err, "generating controller demonstrations")
	}
	report, err := model.Fit(demos.Dataset, core.FitConfig{Epochs: flags.ExpertEpochs, BatchSize: flags.BatchSize, Shuffle: true})
	if err != nil {
		return nil, errors.Wrap(err, "fitting expert")
	}
	zap.L().Info("expert fitted", zap.Int("samples", report.Samples), zap.Float64("loss", report.FinalLoss()))

	eval, err := core.Evaluate(ctx, evalEnv.NewEnvironment(1), model, core.EvalConfig{Episodes: flags.EvalEpisodes, Writer: w})
	if err != nil {
		return nil, errors.Wrap(err, "evaluating expert")
	}
	if err := model.SaveWeights(out); err != nil {
		return nil, err
	}
	return eval, nil
}
