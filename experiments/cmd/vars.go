package cmd

import (
	"github.com/spf13/pflag"
	"github.com/zeu5/imitation-rl/experiments/common"
)

var (
	flags         *common.Flags = common.DefaultFlags()
	savePath      string
	modelConfig   string
	expertWeights string
	learningRate  float64
	batchSize     int
	cloneEpochs   int
	daggerEpochs  int
	expertEpochs  int

	numRuns        int
	expertEpisodes int
	daggerEpisodes int
	evalEpisodes   int
	rounds         int
	harder         bool
	temperature    float64
	seed           uint64
	debug          bool
)

func AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	fs.StringVar(&modelConfig, "model-config", flags.ModelConfig, "Model architecture (keras yaml)")
	fs.StringVar(&expertWeights, "expert-weights", flags.ExpertWeights, "Expert weights, the analytic controller is used when empty")
	fs.Float64Var(&learningRate, "learning-rate", flags.LearningRate, "Adam learning rate")
	fs.IntVar(&batchSize, "batch-size", flags.BatchSize, "Training batch size")
	fs.IntVar(&cloneEpochs, "clone-epochs", flags.CloneEpochs, "Epochs of the behavioral cloning fit")
	fs.IntVar(&daggerEpochs, "epochs", flags.DAggerEpochs, "Epochs of every DAgger round")
	fs.IntVar(&expertEpochs, "expert-epochs", flags.ExpertEpochs, "Epochs used to fit an expert network to the controller")

	fs.IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	fs.IntVar(&expertEpisodes, "expert-episodes", flags.ExpertEpisodes, "Episodes of expert demonstrations")
	fs.IntVar(&daggerEpisodes, "dagger-episodes", flags.DAggerEpisodes, "Student episodes labelled by the expert per round")
	fs.IntVar(&evalEpisodes, "eval-episodes", flags.EvalEpisodes, "Evaluation episodes")
	fs.IntVar(&rounds, "rounds", flags.Rounds, "Number of DAgger rounds")
	fs.BoolVar(&harder, "harder", flags.Harder, "Start student rollouts and evaluations from the harder states")
	fs.Float64Var(&temperature, "temperature", flags.Temperature, "Softmax exploration of the student during DAgger rollouts, 0 is greedy")
	fs.Uint64Var(&seed, "seed", flags.Seed, "Random seed, 0 seeds from the clock")
	fs.BoolVar(&debug, "debug", flags.Debug, "Debug logging and per round reports")
}

func UpdateFlags() {
	flags.SavePath = savePath
	flags.ModelConfig = modelConfig
	flags.ExpertWeights = expertWeights
	flags.LearningRate = learningRate
	flags.BatchSize = batchSize
	flags.CloneEpochs = cloneEpochs
	flags.DAggerEpochs = daggerEpochs
	flags.ExpertEpochs = expertEpochs

	flags.NumRuns = numRuns
	flags.ExpertEpisodes = expertEpisodes
	flags.DAggerEpisodes = daggerEpisodes
	flags.EvalEpisodes = evalEpisodes
	flags.Rounds = rounds
	flags.Harder = harder
	flags.Temperature = temperature
	flags.Seed = seed
	flags.Debug = debug
}
