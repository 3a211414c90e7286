package network

import (
	"math"

	"github.com/pkg/errors"
)

// activation is applied element wise (softmax over the whole layer) after a dense layer
type activation interface {
	Name() string
	// Apply writes the activations of z into a
	Apply(z, a []float64)
	// Backprop turns grad, the derivative of the loss w.r.t. the activations a,
	// into the derivative w.r.t. the pre-activations, in place
	Backprop(a, grad []float64)
}

func newActivation(name string) (activation, error) {
	switch name {
	case "", "linear":
		return linear{}, nil
	case "relu":
		return relu{}, nil
	case "tanh":
		return tanh{}, nil
	case "sigmoid":
		return sigmoid{}, nil
	case "softmax":
		return softmax{}, nil
	}
	return nil, errors.Errorf("unsupported activation %q", name)
}

type linear struct{}

func (linear) Name() string            { return "linear" }
func (linear) Apply(z, a []float64)    { copy(a, z) }
func (linear) Backprop(_, _ []float64) {}

type relu struct{}

func (relu) Name() string { return "relu" }

func (relu) Apply(z, a []float64) {
	for i, v := range z {
		a[i] = math.Max(0, v)
	}
}

func (relu) Backprop(a, grad []float64) {
	for i := range grad {
		if a[i] <= 0 {
			grad[i] = 0
		}
	}
}

type tanh struct{}

func (tanh) Name() string { return "tanh" }

func (tanh) Apply(z, a []float64) {
	for i, v := range z {
		a[i] = math.Tanh(v)
	}
}

func (tanh) Backprop(a, grad []float64) {
	for i := range grad {
		grad[i] *= 1 - a[i]*a[i]
	}
}

type sigmoid struct{}

func (sigmoid) Name() string { return "sigmoid" }

func (sigmoid) Apply(z, a []float64) {
	for i, v := range z {
		a[i] = 1 / (1 + math.Exp(-v))
	}
}

func (sigmoid) Backprop(a, grad []float64) {
	for i := range grad {
		grad[i] *= a[i] * (1 - a[i])
	}
}

type softmax struct{}

func (softmax) Name() string { return "softmax" }

func (softmax) Apply(z, a []float64) {
	max := math.Inf(-1)
	for _, v := range z {
		max = math.Max(max, v)
	}
	sum := 0.0
	for i, v := range z {
		a[i] = math.Exp(v - max)
		sum += a[i]
	}
	for i := range a {
		a[i] /= sum
	}
}

func (softmax) Backprop(a, grad []float64) {
	dot := 0.0
	for i := range grad {
		dot += grad[i] * a[i]
	}
	for i := range grad {
		grad[i] = a[i] * (grad[i] - dot)
	}
}
