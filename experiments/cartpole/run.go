// Package cartpole wires the cart-pole environment, the expert, the student
// networks and the analyses into comparisons that the commands run.
package cartpole

import (
	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/analysis"
	"github.com/zeu5/imitation-rl/core"
	cpenv "github.com/zeu5/imitation-rl/envs/cartpole"
	"github.com/zeu5/imitation-rl/experiments/common"
	"github.com/zeu5/imitation-rl/network"
	"github.com/zeu5/imitation-rl/policies"
	"go.uber.org/zap"
)

// Expert loads the expert network when weights are given and falls back to
// the analytic controller otherwise
func Expert(flags *common.Flags) (core.Policy, error) {
	if flags.ExpertWeights == "" {
		zap.L().Info("no expert weights given, using the analytic controller")
		return policies.NewController(policies.DefaultGains()), nil
	}
	expert, err := network.LoadModel(flags.ModelConfig, flags.ExpertWeights)
	if err != nil {
		return nil, errors.Wrap(err, "loading expert")
	}
	return expert, nil
}

func NetworkOptions(flags *common.Flags) network.Options {
	opts := network.DefaultOptions()
	opts.Seed = flags.Seed
	opts.Adam.LearningRate = flags.LearningRate
	return opts
}

// Environments returns the constructors for demonstrations, for student
// rollouts and for evaluation. Only the latter two start from the harder states.
// Each one gets its own seed so evaluation does not replay rollout episodes.
func Environments(flags *common.Flags) (demo, dagger, eval core.EnvironmentConstructor) {
	config := cpenv.Config{Seed: flags.Seed}
	daggerConfig, evalConfig := config, config
	if config.Seed != 0 {
		daggerConfig.Seed += 1000
		evalConfig.Seed += 2000
	}
	if flags.Harder {
		return cpenv.NewEnvConstructor(config), cpenv.NewHarderEnvConstructor(daggerConfig), cpenv.NewHarderEnvConstructor(evalConfig)
	}
	return cpenv.NewEnvConstructor(config), cpenv.NewEnvConstructor(daggerConfig), cpenv.NewEnvConstructor(evalConfig)
}

func RunConfig(flags *common.Flags) *core.RunConfig {
	c := core.DefaultRunConfig()
	c.ExpertEpisodes = flags.ExpertEpisodes
	c.DAggerEpisodes = flags.DAggerEpisodes
	c.EvalEpisodes = flags.EvalEpisodes
	c.Rounds = flags.Rounds
	c.CloneFit.Epochs = flags.CloneEpochs
	c.CloneFit.BatchSize = flags.BatchSize
	c.DAggerFit.Epochs = flags.DAggerEpochs
	c.DAggerFit.BatchSize = flags.BatchSize
	return c
}

func addAnalyses(cmp *core.Comparison, flags *common.Flags) {
	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewPrintDebugAnalyzerConstructor(flags.SavePath, 0), analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Rewards", analysis.NewRewardAnalyzerConstructor(), analysis.NewComposedComparatorConstructor(
		analysis.NewJSONComparatorConstructor(flags.SavePath, "rewards.json"),
		analysis.NewChartComparatorConstructor(flags.SavePath, "rewards.html", "Mean evaluation reward"),
		analysis.NewConsoleComparatorConstructor(),
	))
	cmp.AddAnalysis("Dataset", analysis.NewDatasetAnalyzerConstructor(), analysis.NewComposedComparatorConstructor(
		analysis.NewJSONComparatorConstructor(flags.SavePath, "dataset.json"),
		analysis.NewChartComparatorConstructor(flags.SavePath, "disagreement.html", "Student expert disagreement rate"),
	))
}

func newComparison(flags *common.Flags, modes ...core.Mode) (*core.Comparison, error) {
	expert, err := Expert(flags)
	if err != nil {
		return nil, err
	}
	demoEnv, daggerEnv, evalEnv := Environments(flags)
	student := network.NewStudentConstructor(flags.ModelConfig, NetworkOptions(flags))

	var exploration func(core.Policy) core.Policy
	if flags.Temperature > 0 {
		exploration = policies.SoftmaxExploration(flags.Temperature, flags.Seed)
	}

	cmp := core.NewComparison()
	addAnalyses(cmp, flags)
	cmp.AddExperiment(&core.Experiment{
		Name:            "Expert",
		Mode:            core.ModeExpert,
		Environment:     demoEnv,
		EvalEnvironment: evalEnv,
		Expert:          expert,
	})
	for _, mode := range modes {
		e := &core.Experiment{
			Mode:              mode,
			Environment:       demoEnv,
			DAggerEnvironment: daggerEnv,
			EvalEnvironment:   evalEnv,
			Expert:            expert,
			Student:           student,
		}
		switch mode {
		case core.ModeCloning:
			e.Name = "Cloning"
		case core.ModeDAgger:
			e.Name = "DAgger"
			e.Exploration = exploration
		default:
			return nil, errors.Errorf("no experiment for mode %s", mode)
		}
		cmp.AddExperiment(e)
	}
	return cmp, nil
}

// PrepareCloningComparison compares behavioral cloning against the expert
func PrepareCloningComparison(flags *common.Flags) (*core.Comparison, error) {
	return newComparison(flags, core.ModeCloning)
}

// PrepareDAggerComparison compares DAgger against the expert
func PrepareDAggerComparison(flags *common.Flags) (*core.Comparison, error) {
	return newComparison(flags, core.ModeDAgger)
}

func PrepareFullComparison(flags *common.Flags) (*core.Comparison, error) {
	return newComparison(flags, core.ModeCloning, core.ModeDAgger)
}
