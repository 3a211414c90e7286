package network

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"go.uber.org/zap"
)

// LoadModel builds the network described by the config file and, when
// weightsPath is not empty, loads its trained weights.
func LoadModel(configPath, weightsPath string) (*Network, error) {
	return LoadModelWithOptions(configPath, weightsPath, DefaultOptions())
}

func LoadModelWithOptions(configPath, weightsPath string, opts Options) (*Network, error) {
	config, err := ReadConfig(configPath)
	if err != nil {
		return nil, err
	}
	n, err := New(config, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "building model from %s", configPath)
	}
	if weightsPath != "" {
		if err := n.LoadWeights(weightsPath); err != nil {
			return nil, errors.Wrapf(err, "loading weights from %s", weightsPath)
		}
	}

	logger := zap.L().With(zap.String("config", configPath), zap.String("weights", weightsPath))
	for _, line := range strings.Split(strings.TrimSpace(n.Summary()), "\n") {
		logger.Info(line)
	}
	logger.Info("model loaded", zap.Int("layers", len(n.layers)), zap.Int("inputs", n.InputSize()), zap.Int("outputs", n.OutputSize()))
	return n, nil
}

// StudentConstructor loads a fresh network for every student it creates
type StudentConstructor struct {
	ConfigPath  string
	WeightsPath string
	Options     Options

	created uint64
}

var _ core.StudentConstructor = &StudentConstructor{}

func NewStudentConstructor(configPath string, opts Options) *StudentConstructor {
	return &StudentConstructor{
		ConfigPath: configPath,
		Options:    opts,
	}
}

func (s *StudentConstructor) NewStudent() (core.Student, error) {
	opts := s.Options
	if opts.Seed != 0 {
		opts.Seed += s.created
	}
	s.created++
	return LoadModelWithOptions(s.ConfigPath, s.WeightsPath, opts)
}
