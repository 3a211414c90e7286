package network

import "math"

type AdamConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
	Decay        float64
}

func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		Decay:        0,
	}
}

// Adam keeps the moment estimates of every parameter across Fit calls
type Adam struct {
	AdamConfig
	iterations int

	m [][]float64
	v [][]float64
}

func NewAdam(c AdamConfig) *Adam {
	if c.LearningRate == 0 {
		c = DefaultAdamConfig()
	}
	return &Adam{AdamConfig: c}
}

// Step updates params in place given their gradients. params and grads are
// parallel lists of flat parameter slices and must keep their shapes between calls.
func (a *Adam) Step(params, grads [][]float64) {
	if a.m == nil {
		a.m = make([][]float64, len(params))
		a.v = make([][]float64, len(params))
		for i, p := range params {
			a.m[i] = make([]float64, len(p))
			a.v[i] = make([]float64, len(p))
		}
	}

	lr := a.LearningRate
	if a.Decay > 0 {
		lr *= 1 / (1 + a.Decay*float64(a.iterations))
	}
	a.iterations++
	t := float64(a.iterations)
	lrT := lr * math.Sqrt(1-math.Pow(a.Beta2, t)) / (1 - math.Pow(a.Beta1, t))

	for i, p := range params {
		g, m, v := grads[i], a.m[i], a.v[i]
		for j := range p {
			m[j] = a.Beta1*m[j] + (1-a.Beta1)*g[j]
			v[j] = a.Beta2*v[j] + (1-a.Beta2)*g[j]*g[j]
			p[j] -= lrT * m[j] / (math.Sqrt(v[j]) + a.Epsilon)
		}
	}
}

func (a *Adam) Iterations() int {
	return a.iterations
}
