package cartpole

import (
	"github.com/zeu5/imitation-rl/core"
)

// Start values of the harder variant. Each one is used with a random sign.
const (
	HarderX     = 1.5
	HarderXDot  = 2.0
	HarderTheta = 0.17
)

// HarderReset starts every episode far from the balanced state: after the
// regular reset the position, the velocity and the angle are replaced with
// values of fixed magnitude and random sign. The angular velocity is kept.
type HarderReset struct {
	*Env
}

var _ core.Environment = &HarderReset{}

func NewHarderReset(env *Env) *HarderReset {
	return &HarderReset{Env: env}
}

func (h *HarderReset) Reset() (core.Observation, error) {
	if _, err := h.Env.Reset(); err != nil {
		return nil, err
	}
	s := h.Env.State()
	s.X = h.sign() * HarderX
	s.XDot = h.sign() * HarderXDot
	s.Theta = h.sign() * HarderTheta
	h.Env.SetState(s)
	return s.Observation(), nil
}

func (h *HarderReset) sign() float64 {
	if h.Env.rng().Intn(2) == 0 {
		return -1
	}
	return 1
}
