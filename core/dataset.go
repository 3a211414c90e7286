package core

import (
	"github.com/pkg/errors"
)

var ErrDatasetMismatch = errors.New("observations and actions differ in length")

// Dataset holds observations and the one-hot expert labels for them.
// Samples are never deduplicated.
type Dataset struct {
	Observations [][]float64
	Actions      [][]float64
}

func NewDataset() *Dataset {
	return &Dataset{
		Observations: make([][]float64, 0),
		Actions:      make([][]float64, 0),
	}
}

func (d *Dataset) Add(obs Observation, label []float64) {
	d.Observations = append(d.Observations, obs.Copy())
	l := make([]float64, len(label))
	copy(l, label)
	d.Actions = append(d.Actions, l)
}

// Append adds all samples of other to the end of d
func (d *Dataset) Append(other *Dataset) {
	if other == nil {
		return
	}
	d.Observations = append(d.Observations, other.Observations...)
	d.Actions = append(d.Actions, other.Actions...)
}

func (d *Dataset) Len() int {
	return len(d.Observations)
}

func (d *Dataset) Copy() *Dataset {
	out := NewDataset()
	for i := range d.Observations {
		out.Add(d.Observations[i], d.Actions[i])
	}
	return out
}

func (d *Dataset) Validate() error {
	if len(d.Observations) != len(d.Actions) {
		return errors.Wrapf(ErrDatasetMismatch, "%d observations, %d actions", len(d.Observations), len(d.Actions))
	}
	for i, a := range d.Actions {
		if !IsOneHot(a) {
			return errors.Errorf("label %d is not one-hot: %v", i, a)
		}
	}
	return nil
}
