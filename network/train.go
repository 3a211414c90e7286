package network

import (
	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

type gradients struct {
	kernels []*mat.Dense
	biases  []*mat.VecDense
}

func (n *Network) newGradients() *gradients {
	g := &gradients{
		kernels: make([]*mat.Dense, len(n.layers)),
		biases:  make([]*mat.VecDense, len(n.layers)),
	}
	for i, l := range n.layers {
		g.kernels[i] = mat.NewDense(l.In(), l.Out(), nil)
		if l.Bias != nil {
			g.biases[i] = mat.NewVecDense(l.Out(), nil)
		}
	}
	return g
}

func (g *gradients) zero() {
	for i := range g.kernels {
		g.kernels[i].Zero()
		if g.biases[i] != nil {
			g.biases[i].Zero()
		}
	}
}

// flat returns the parameters and matching gradients as flat slices for the optimizer
func (n *Network) flat(g *gradients) ([][]float64, [][]float64) {
	params := make([][]float64, 0, 2*len(n.layers))
	grads := make([][]float64, 0, 2*len(n.layers))
	for i, l := range n.layers {
		params = append(params, l.Kernel.RawMatrix().Data)
		grads = append(grads, g.kernels[i].RawMatrix().Data)
		if l.Bias != nil {
			params = append(params, l.Bias.RawVector().Data)
			grads = append(grads, g.biases[i].RawVector().Data)
		}
	}
	return params, grads
}

// backprop adds the gradient of the mean squared error of one sample, scaled by
// 1/batch, to g and returns the sample loss
func (n *Network) backprop(x, y []float64, g *gradients, batch int) float64 {
	acts := n.forward(x)
	out := acts[len(acts)-1]

	m := float64(len(out))
	grad := make([]float64, len(out))
	loss := 0.0
	for i := range out {
		diff := out[i] - y[i]
		loss += diff * diff
		grad[i] = 2 * diff / m / float64(batch)
	}
	loss /= m

	for l := len(n.layers) - 1; l >= 0; l-- {
		layer := n.layers[l]
		layer.act.Backprop(acts[l+1], grad)
		delta := mat.NewVecDense(layer.Out(), grad)
		input := mat.NewVecDense(layer.In(), acts[l])

		g.kernels[l].RankOne(g.kernels[l], 1, input, delta)
		if layer.Bias != nil {
			g.biases[l].AddVec(g.biases[l], delta)
		}
		if l > 0 {
			prev := mat.NewVecDense(layer.In(), nil)
			prev.MulVec(layer.Kernel, delta)
			grad = prev.RawVector().Data
		}
	}
	return loss
}

// Fit trains the network on the dataset with mean squared error and Adam.
// Every epoch visits each sample once, in a new random order when c.Shuffle is set.
func (n *Network) Fit(d *core.Dataset, c core.FitConfig) (*core.FitReport, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.Len() == 0 {
		return nil, errors.New("cannot fit on an empty dataset")
	}
	for i := range d.Observations {
		if len(d.Observations[i]) != n.InputSize() {
			return nil, errors.Wrapf(ErrShapeMismatch, "observation %d has %d values, want %d", i, len(d.Observations[i]), n.InputSize())
		}
		if len(d.Actions[i]) != n.OutputSize() {
			return nil, errors.Wrapf(ErrShapeMismatch, "label %d has %d values, want %d", i, len(d.Actions[i]), n.OutputSize())
		}
	}

	epochs := c.Epochs
	if epochs < 1 {
		epochs = 1
	}
	batchSize := c.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	report := &core.FitReport{
		Samples: d.Len(),
		Losses:  make([]float64, 0, epochs),
	}
	g := n.newGradients()
	params, grads := n.flat(g)

	order := make([]int, d.Len())
	for i := range order {
		order[i] = i
	}
	for epoch := 0; epoch < epochs; epoch++ {
		if c.Shuffle {
			order = n.rand.Perm(d.Len())
		}
		total := 0.0
		for start := 0; start < len(order); start += batchSize {
			end := start + batchSize
			if end > len(order) {
				end = len(order)
			}
			g.zero()
			for _, idx := range order[start:end] {
				total += n.backprop(d.Observations[idx], d.Actions[idx], g, end-start)
			}
			n.opt.Step(params, grads)
		}
		loss := total / float64(d.Len())
		report.Losses = append(report.Losses, loss)
		zap.L().Debug("epoch finished",
			zap.Int("epoch", epoch+1),
			zap.Int("epochs", epochs),
			zap.Int("samples", d.Len()),
			zap.Float64("loss", loss),
		)
	}
	return report, nil
}
