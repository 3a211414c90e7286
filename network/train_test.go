package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/imitation-rl/core"
)

const smoothConfig = `
class_name: Sequential
config:
- class_name: Dense
  config: {name: hidden, units: 5, input_dim: 3, activation: tanh}
- class_name: Dense
  config: {name: output, units: 2, activation: sigmoid}
`

func sampleLoss(n *Network, x, y []float64) float64 {
	acts := n.forward(x)
	out := acts[len(acts)-1]
	loss := 0.0
	for i := range out {
		d := out[i] - y[i]
		loss += d * d
	}
	return loss / float64(len(out))
}

func TestBackpropMatchesNumericGradient(t *testing.T) {
	n := testNetwork(t, smoothConfig, 7)
	x := []float64{0.3, -0.7, 1.1}
	y := []float64{1, 0}

	g := n.newGradients()
	loss := n.backprop(x, y, g, 1)
	assert.InDelta(t, sampleLoss(n, x, y), loss, 1e-12)

	params, grads := n.flat(g)
	const eps = 1e-6
	for i := range params {
		for j := range params[i] {
			orig := params[i][j]
			params[i][j] = orig + eps
			plus := sampleLoss(n, x, y)
			params[i][j] = orig - eps
			minus := sampleLoss(n, x, y)
			params[i][j] = orig

			assert.InDelta(t, (plus-minus)/(2*eps), grads[i][j], 1e-6, "param %d/%d", i, j)
		}
	}
}

func separable() *core.Dataset {
	d := core.NewDataset()
	for i := 0; i < 20; i++ {
		v := float64(i)/10 - 1
		label := 0
		if v > 0 {
			label = 1
		}
		d.Add([]float64{v, -v, v * v, 0.5}, core.OneHot(core.Action(label), 2))
	}
	return d
}

func TestFitReducesLoss(t *testing.T) {
	n := testNetwork(t, mappingConfig, 13)
	report, err := n.Fit(separable(), core.FitConfig{Epochs: 30, BatchSize: 1, Shuffle: true})
	require.NoError(t, err)

	assert.Equal(t, 20, report.Samples)
	require.Len(t, report.Losses, 30)
	assert.Less(t, report.FinalLoss(), report.Losses[0])
	assert.Equal(t, 30*20, n.opt.Iterations())
}

func TestFitBatches(t *testing.T) {
	n := testNetwork(t, mappingConfig, 13)
	_, err := n.Fit(separable(), core.FitConfig{Epochs: 2, BatchSize: 8})
	require.NoError(t, err)
	// 20 samples in batches of 8 take 3 updates per epoch
	assert.Equal(t, 6, n.opt.Iterations())
}

func TestFitDefaultsToOneEpoch(t *testing.T) {
	n := testNetwork(t, mappingConfig, 13)
	report, err := n.Fit(separable(), core.FitConfig{})
	require.NoError(t, err)
	assert.Len(t, report.Losses, 1)
	assert.Equal(t, 20, n.opt.Iterations())
}

func TestFitRejectsBadData(t *testing.T) {
	n := testNetwork(t, mappingConfig, 13)

	_, err := n.Fit(core.NewDataset(), core.FitConfig{Epochs: 1})
	assert.Error(t, err)

	wrongInput := core.NewDataset()
	wrongInput.Add([]float64{1, 2}, core.OneHot(0, 2))
	_, err = n.Fit(wrongInput, core.FitConfig{Epochs: 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	wrongLabel := core.NewDataset()
	wrongLabel.Add([]float64{1, 2, 3, 4}, core.OneHot(0, 3))
	_, err = n.Fit(wrongLabel, core.FitConfig{Epochs: 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestAdamFirstStep(t *testing.T) {
	a := NewAdam(AdamConfig{})
	params := [][]float64{{1, -1}}
	a.Step(params, [][]float64{{0.5, -2}})

	// the first bias corrected step moves every parameter by about the learning rate
	assert.InDelta(t, 1-0.001, params[0][0], 1e-6)
	assert.InDelta(t, -1+0.001, params[0][1], 1e-6)
	assert.Equal(t, 1, a.Iterations())
}
