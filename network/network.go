// Package network implements the small feed-forward networks used as expert and
// student policies. Architectures are read from Keras style YAML descriptions,
// weights from gonum binary encoded matrices.
package network

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrShapeMismatch = errors.New("shape mismatch")

// Dense is a fully connected layer followed by an activation
type Dense struct {
	Name string
	// Kernel has one row per input and one column per unit
	Kernel *mat.Dense
	// Bias is nil for layers without bias
	Bias *mat.VecDense

	act activation
}

func (d *Dense) In() int {
	r, _ := d.Kernel.Dims()
	return r
}

func (d *Dense) Out() int {
	_, c := d.Kernel.Dims()
	return c
}

func (d *Dense) Params() int {
	p := d.In() * d.Out()
	if d.Bias != nil {
		p += d.Out()
	}
	return p
}

func (d *Dense) forward(x []float64) []float64 {
	z := mat.NewVecDense(d.Out(), nil)
	z.MulVec(d.Kernel.T(), mat.NewVecDense(d.In(), x))
	if d.Bias != nil {
		z.AddVec(z, d.Bias)
	}
	a := make([]float64, d.Out())
	d.act.Apply(z.RawVector().Data, a)
	return a
}

type Options struct {
	// Seed for weight initialisation and shuffling, 0 picks one from the clock
	Seed uint64
	Adam AdamConfig
}

func DefaultOptions() Options {
	return Options{Adam: DefaultAdamConfig()}
}

// Network is a sequential stack of dense layers. It implements core.Student.
type Network struct {
	layers    []*Dense
	inputSize int

	opt  *Adam
	rand *rand.Rand
}

var _ core.Student = &Network{}

// New builds a network with freshly initialised weights: Glorot uniform kernels and zero biases
func New(config *ModelConfig, opts Options) (*Network, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	n := &Network{
		layers: make([]*Dense, 0),
		opt:    NewAdam(opts.Adam),
		rand:   rand.New(rand.NewSource(seed)),
	}

	size := 0
	for i, spec := range config.Layers {
		declared, err := spec.Config.inputSize()
		if err != nil {
			return nil, err
		}
		if i == 0 {
			size = declared
		} else if declared > 0 && declared != size {
			return nil, errors.Wrapf(ErrShapeMismatch, "layer %s declares input %d but receives %d", spec.Config.Name, declared, size)
		}

		switch spec.ClassName {
		case "InputLayer", "Flatten":
		case "Dense":
			if size == 0 {
				return nil, errors.Errorf("dense layer %s has no known input size", spec.Config.Name)
			}
			units := spec.Config.units()
			if units <= 0 {
				return nil, errors.Errorf("dense layer %s has no units", spec.Config.Name)
			}
			act, err := newActivation(spec.Config.Activation)
			if err != nil {
				return nil, errors.Wrapf(err, "layer %s", spec.Config.Name)
			}
			layer := &Dense{
				Name:   spec.Config.Name,
				Kernel: mat.NewDense(size, units, nil),
				act:    act,
			}
			if spec.Config.useBias() {
				layer.Bias = mat.NewVecDense(units, nil)
			}
			n.initKernel(layer.Kernel)
			n.layers = append(n.layers, layer)
			size = units
		case "Activation":
			if len(n.layers) == 0 {
				return nil, errors.Errorf("activation %s before any dense layer", spec.Config.Name)
			}
			last := n.layers[len(n.layers)-1]
			act, err := newActivation(spec.Config.Activation)
			if err != nil {
				return nil, errors.Wrapf(err, "layer %s", spec.Config.Name)
			}
			if act.Name() == "linear" {
				continue
			}
			if last.act.Name() != "linear" {
				return nil, errors.Errorf("activation %s stacked on non linear layer %s", spec.Config.Name, last.Name)
			}
			last.act = act
		default:
			return nil, errors.Errorf("unsupported layer %s (%s)", spec.Config.Name, spec.ClassName)
		}
	}
	if len(n.layers) == 0 {
		return nil, errors.New("model has no dense layers")
	}
	n.inputSize = n.layers[0].In()
	return n, nil
}

func (n *Network) initKernel(k *mat.Dense) {
	rows, cols := k.Dims()
	limit := math.Sqrt(6 / float64(rows+cols))
	dist := distuv.Uniform{Min: -limit, Max: limit, Src: n.rand}
	data := k.RawMatrix().Data
	for i := range data {
		data[i] = dist.Rand()
	}
}

func (n *Network) InputSize() int {
	return n.inputSize
}

func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].Out()
}

func (n *Network) Layers() []*Dense {
	out := make([]*Dense, len(n.layers))
	copy(out, n.layers)
	return out
}

// forward returns the input followed by the activations of every layer
func (n *Network) forward(x []float64) [][]float64 {
	acts := make([][]float64, len(n.layers)+1)
	acts[0] = x
	for i, l := range n.layers {
		acts[i+1] = l.forward(acts[i])
	}
	return acts
}

// Predict returns the output of the network for every row of the batch
func (n *Network) Predict(batch [][]float64) ([][]float64, error) {
	out := make([][]float64, len(batch))
	for i, x := range batch {
		if len(x) != n.inputSize {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d inputs, want %d", i, len(x), n.inputSize)
		}
		acts := n.forward(x)
		out[i] = acts[len(acts)-1]
	}
	return out, nil
}

func (n *Network) Scores(obs core.Observation) ([]float64, error) {
	out, err := n.Predict([][]float64{obs})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Summary lists every layer with its output shape and parameter count
func (n *Network) Summary() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "%-20s %-14s %-12s %s\n", "Layer", "Output shape", "Activation", "Params")
	total := 0
	for _, l := range n.layers {
		fmt.Fprintf(b, "%-20s %-14s %-12s %d\n", l.Name, fmt.Sprintf("(None, %d)", l.Out()), l.act.Name(), l.Params())
		total += l.Params()
	}
	fmt.Fprintf(b, "Total params: %d\n", total)
	return b.String()
}
