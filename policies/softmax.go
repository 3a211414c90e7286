package policies

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftmaxPolicy samples an action from the softmax of the wrapped policy's
// scores divided by Temperature. The sampled action is returned as one-hot
// scores so that a greedy caller executes it.
type SoftmaxPolicy struct {
	Policy      core.Policy
	Temperature float64

	rand erand.Source
}

var _ core.Policy = &SoftmaxPolicy{}

func NewSoftmaxPolicy(policy core.Policy, temperature float64, seed uint64) *SoftmaxPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixMilli())
	}
	return &SoftmaxPolicy{
		Policy:      policy,
		Temperature: temperature,
		rand:        erand.NewSource(seed),
	}
}

// SoftmaxExploration returns a wrapper that explores around any policy with the
// same temperature. All wrappers it creates draw from one shared source.
func SoftmaxExploration(temperature float64, seed uint64) func(core.Policy) core.Policy {
	p := NewSoftmaxPolicy(nil, temperature, seed)
	return func(policy core.Policy) core.Policy {
		return &SoftmaxPolicy{
			Policy:      policy,
			Temperature: temperature,
			rand:        p.rand,
		}
	}
}

func (s *SoftmaxPolicy) Scores(obs core.Observation) ([]float64, error) {
	scores, err := s.Policy.Scores(obs)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, errors.New("no scores to sample from")
	}
	if s.Temperature <= 0 {
		return scores, nil
	}

	weights := Softmax(scores, s.Temperature)
	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return nil, errors.New("could not sample an action")
	}
	return core.OneHot(core.Action(i), len(scores)), nil
}

// Softmax of vals/temperature, shifted by the largest value for stability
func Softmax(vals []float64, temperature float64) []float64 {
	largest := vals[0]
	for _, v := range vals {
		if v > largest {
			largest = v
		}
	}
	sum := 0.0
	weights := make([]float64, len(vals))
	for i, v := range vals {
		weights[i] = math.Exp((v - largest) / temperature)
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
