package network

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// WriteWeights writes the kernel and then the bias of every layer in gonum's binary format
func (n *Network) WriteWeights(w io.Writer) error {
	for _, l := range n.layers {
		if _, err := l.Kernel.MarshalBinaryTo(w); err != nil {
			return errors.Wrapf(err, "writing kernel of layer %s", l.Name)
		}
		if l.Bias == nil {
			continue
		}
		if _, err := l.Bias.MarshalBinaryTo(w); err != nil {
			return errors.Wrapf(err, "writing bias of layer %s", l.Name)
		}
	}
	return nil
}

func (n *Network) SaveWeights(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating weights file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := n.WriteWeights(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "writing weights file")
	}
	return f.Close()
}

// ReadWeights replaces the weights of the network with the ones read from r.
// The network is left untouched if any shape does not match the architecture.
func (n *Network) ReadWeights(r io.Reader) error {
	kernels := make([]*mat.Dense, len(n.layers))
	biases := make([]*mat.VecDense, len(n.layers))

	for i, l := range n.layers {
		kernel := new(mat.Dense)
		if _, err := kernel.UnmarshalBinaryFrom(r); err != nil {
			return errors.Wrapf(err, "reading kernel of layer %s", l.Name)
		}
		rows, cols := kernel.Dims()
		if rows != l.In() || cols != l.Out() {
			return errors.Wrapf(ErrShapeMismatch, "kernel of layer %s is %dx%d, want %dx%d", l.Name, rows, cols, l.In(), l.Out())
		}
		kernels[i] = kernel

		if l.Bias == nil {
			continue
		}
		bias := new(mat.VecDense)
		if _, err := bias.UnmarshalBinaryFrom(r); err != nil {
			return errors.Wrapf(err, "reading bias of layer %s", l.Name)
		}
		if bias.Len() != l.Out() {
			return errors.Wrapf(ErrShapeMismatch, "bias of layer %s has %d values, want %d", l.Name, bias.Len(), l.Out())
		}
		biases[i] = bias
	}

	var extra [1]byte
	switch _, err := io.ReadFull(r, extra[:]); err {
	case io.EOF:
	case nil:
		return errors.Wrap(ErrShapeMismatch, "weights file holds more parameters than the model")
	default:
		return errors.Wrap(err, "reading weights")
	}

	for i, l := range n.layers {
		l.Kernel.Copy(kernels[i])
		if l.Bias != nil {
			l.Bias.CopyVec(biases[i])
		}
	}
	return nil
}

func (n *Network) LoadWeights(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening weights file")
	}
	defer f.Close()
	return n.ReadWeights(bufio.NewReader(f))
}
