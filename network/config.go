package network

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ModelConfig is the Keras style architecture description of a sequential model
type ModelConfig struct {
	ClassName    string    `yaml:"class_name"`
	Layers       LayerList `yaml:"config"`
	KerasVersion string    `yaml:"keras_version"`
	Backend      string    `yaml:"backend"`
}

type LayerSpec struct {
	ClassName string      `yaml:"class_name"`
	Config    LayerConfig `yaml:"config"`
}

type LayerConfig struct {
	Name       string `yaml:"name"`
	Units      int    `yaml:"units"`
	OutputDim  int    `yaml:"output_dim"`
	Activation string `yaml:"activation"`
	UseBias    *bool  `yaml:"use_bias"`
	Bias       *bool  `yaml:"bias"`
	InputDim   int    `yaml:"input_dim"`
	// first entry is the batch dimension and is null
	BatchInputShape []*int `yaml:"batch_input_shape"`
}

// LayerList accepts both the old list form of a sequential config and the
// newer mapping form with a "layers" key.
type LayerList []LayerSpec

func (l *LayerList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var list []LayerSpec
	if err := unmarshal(&list); err == nil {
		*l = list
		return nil
	}
	var wrapped struct {
		Name   string      `yaml:"name"`
		Layers []LayerSpec `yaml:"layers"`
	}
	if err := unmarshal(&wrapped); err != nil {
		return err
	}
	*l = wrapped.Layers
	return nil
}

func (c LayerConfig) units() int {
	if c.Units > 0 {
		return c.Units
	}
	return c.OutputDim
}

func (c LayerConfig) useBias() bool {
	if c.UseBias != nil {
		return *c.UseBias
	}
	if c.Bias != nil {
		return *c.Bias
	}
	return true
}

// inputSize is the flattened size of a declared input shape, 0 when none is declared
func (c LayerConfig) inputSize() (int, error) {
	if c.InputDim > 0 {
		return c.InputDim, nil
	}
	if len(c.BatchInputShape) < 2 {
		return 0, nil
	}
	size := 1
	for _, d := range c.BatchInputShape[1:] {
		if d == nil {
			return 0, errors.Errorf("layer %s has an unknown input dimension", c.Name)
		}
		size *= *d
	}
	return size, nil
}

func ParseConfig(bs []byte) (*ModelConfig, error) {
	config := &ModelConfig{}
	if err := yaml.Unmarshal(bs, config); err != nil {
		return nil, errors.Wrap(err, "parsing model config")
	}
	if config.ClassName != "Sequential" {
		return nil, errors.Errorf("unsupported model class %q", config.ClassName)
	}
	if len(config.Layers) == 0 {
		return nil, errors.New("model config has no layers")
	}
	return config, nil
}

func ReadConfig(path string) (*ModelConfig, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model config")
	}
	return ParseConfig(bs)
}
