package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network. Weights are stored as tensors outside of any computational
// graph so that a single set of weights can be bound into graphs of
// different batch sizes.
type fcLayer struct {
	weights *tensor.Dense // (inputs, outputs)
	bias    *tensor.Dense // (1, outputs)
	act     *Activation
}

// newFCLayer creates a new fully connected layer with weights drawn
// from init and zero biases
func newFCLayer(inputs, outputs int, init G.InitWFn,
	act *Activation) *fcLayer {
	weights := tensor.New(
		tensor.WithShape(inputs, outputs),
		tensor.WithBacking(init(tensor.Float32, inputs, outputs)),
	)
	bias := tensor.New(
		tensor.WithShape(1, outputs),
		tensor.WithBacking(make([]float32, outputs)),
	)

	return &fcLayer{weights: weights, bias: bias, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph
// of x. The layer's weights enter the graph as constant-valued nodes.
func (f *fcLayer) fwd(x *G.Node, name string) (*G.Node, error) {
	g := x.Graph()

	w := G.NewMatrix(g, tensor.Float32, G.WithShape(f.weights.Shape()...),
		G.WithName(name+"W"), G.WithValue(f.weights))
	b := G.NewMatrix(g, tensor.Float32, G.WithShape(f.bias.Shape()...),
		G.WithName(name+"B"), G.WithValue(f.bias))

	x, err := G.Mul(x, w)
	if err != nil {
		return nil, fmt.Errorf("fwd: %v", err)
	}

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x, err = G.BroadcastAdd(x, b, nil, []byte{0})
	if err != nil {
		return nil, fmt.Errorf("fwd: %v", err)
	}

	if f.act == nil || f.act.IsIdentity() {
		return x, nil
	}
	return f.act.fwd(x)
}

// Inputs returns the number of inputs to the layer
func (f *fcLayer) Inputs() int {
	return f.weights.Shape()[0]
}

// Outputs returns the number of outputs of the layer
func (f *fcLayer) Outputs() int {
	return f.weights.Shape()[1]
}
