package common

import (
	"path"

	"github.com/zeu5/imitation-rl/util"
	"go.uber.org/zap"
)

type Flags struct {
	ModelFlags
	SavePath string
	RunFlags
	Harder      bool
	Temperature float64
	Seed        uint64
	Debug       bool
}

type ModelFlags struct {
	ModelConfig   string
	ExpertWeights string
	LearningRate  float64
	BatchSize     int
	CloneEpochs   int
	DAggerEpochs  int
	ExpertEpochs  int
}

type RunFlags struct {
	NumRuns        int
	ExpertEpisodes int
	DAggerEpisodes int
	EvalEpisodes   int
	Rounds         int
}

func DefaultFlags() *Flags {
	return &Flags{
		ModelFlags: ModelFlags{
			ModelConfig:   "configs/CartPole-v0_config.yaml",
			ExpertWeights: "",
			LearningRate:  0.001,
			BatchSize:     1,
			CloneEpochs:   1,
			DAggerEpochs:  5,
			ExpertEpochs:  20,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:        1,
			ExpertEpisodes: 100,
			DAggerEpisodes: 20,
			EvalEpisodes:   50,
			Rounds:         10,
		},
		Harder:      false,
		Temperature: 0,
		Seed:        0,
		Debug:       false,
	}
}

func (f *Flags) Record() {
	if err := util.SaveJson(path.Join(f.SavePath, "config.json"), f); err != nil {
		zap.L().Warn("could not record flags", zap.Error(err))
		return
	}
	zap.L().Debug("flags recorded", zap.String("save_path", f.SavePath), zap.String("hash", util.JsonHash(f)))
}
