package policies

import (
	"time"

	"github.com/zeu5/imitation-rl/core"
	"golang.org/x/exp/rand"
)

// RandomPolicy scores every action uniformly at random, a lower bound for the trained policies
type RandomPolicy struct {
	actions int
	rand    *rand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(actions int, seed uint64) *RandomPolicy {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomPolicy{
		actions: actions,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Scores(_ core.Observation) ([]float64, error) {
	scores := make([]float64, r.actions)
	for i := range scores {
		scores[i] = r.rand.Float64()
	}
	return scores, nil
}
