package core

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Policy scores every action of the environment given an observation.
// Experts and students are both policies.
type Policy interface {
	Scores(Observation) ([]float64, error)
}

type FitConfig struct {
	Epochs    int
	BatchSize int
	Shuffle   bool
}

type FitReport struct {
	Samples int
	// Mean loss of every epoch
	Losses []float64
}

func (f *FitReport) FinalLoss() float64 {
	if f == nil || len(f.Losses) == 0 {
		return 0
	}
	return f.Losses[len(f.Losses)-1]
}

// Student is a policy that can be trained on a labelled dataset
type Student interface {
	Policy
	Fit(*Dataset, FitConfig) (*FitReport, error)
}

type StudentConstructor interface {
	NewStudent() (Student, error)
}

// Greedy picks the highest scoring action. Ties go to the lowest index.
func Greedy(p Policy, obs Observation) (Action, error) {
	scores, err := p.Scores(obs)
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, errors.New("policy returned no action scores")
	}
	return Action(floats.MaxIdx(scores)), nil
}

// OneHot encodes the action as a vector of length n
func OneHot(a Action, n int) []float64 {
	out := make([]float64, n)
	out[a] = 1
	return out
}

// IsOneHot checks that exactly one entry is 1 and the rest are 0
func IsOneHot(v []float64) bool {
	ones := 0
	for _, x := range v {
		switch x {
		case 1:
			ones++
		case 0:
		default:
			return false
		}
	}
	return ones == 1
}
