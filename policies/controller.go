// Package policies contains the hand written policies used next to the
// trained networks: an analytic cart-pole expert, a random baseline and a
// softmax exploration wrapper.
package policies

import (
	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"gonum.org/v1/gonum/floats"
)

// Gains of a linear state feedback controller. A positive control pushes right.
type Gains struct {
	Position        float64
	Velocity        float64
	Angle           float64
	AngularVelocity float64
}

func DefaultGains() Gains {
	return Gains{
		Position:        1.0,
		Velocity:        1.5,
		Angle:           18,
		AngularVelocity: 3,
	}
}

// Controller is a bang-bang linear feedback expert for cart-pole. It scores
// left with -u and right with u where u is the gain weighted state.
type Controller struct {
	gains []float64
}

var _ core.Policy = &Controller{}

func NewController(g Gains) *Controller {
	return &Controller{
		gains: []float64{g.Position, g.Velocity, g.Angle, g.AngularVelocity},
	}
}

func (c *Controller) Scores(obs core.Observation) ([]float64, error) {
	if len(obs) != len(c.gains) {
		return nil, errors.Errorf("controller expects %d observations, got %d", len(c.gains), len(obs))
	}
	u := floats.Dot(c.gains, obs)
	return []float64{-u, u}, nil
}
