// Package network implements feed forward neural networks used to
// parameterize value functions and policies
package network

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP implements a multi-layered perceptron over float32 inputs. Each
// hidden layer has a bias unit and its own activation. A final linear
// layer with no activation maps to the outputs.
//
// The MLP is inference-only. Since Gorgonia graphs have a fixed batch
// size, one graph and tape machine is compiled lazily for each distinct
// batch size that is predicted on, and the weights are bound into each
// graph as values.
type MLP struct {
	features    int
	outputs     int
	hiddenSizes []int
	activations []*Activation
	layers      []*fcLayer

	mu       sync.Mutex
	machines map[int]*machine
}

// machine holds the computational graph of an MLP for a single batch
// size along with the tape machine that runs it
type machine struct {
	vm      G.VM
	input   *G.Node
	pred    *G.Node
	predVal G.Value
}

// NewMLP creates and returns a new MLP with features inputs and
// outputs outputs. For index i, hiddenSizes[i] is the number of nodes
// in hidden layer i and activations[i] is the activation of hidden
// layer i. Weights are initialized using init and biases are
// initialized to zero.
func NewMLP(features, outputs int, hiddenSizes []int,
	activations []*Activation, init G.InitWFn) (*MLP, error) {
	if features < 1 || outputs < 1 {
		return nil, fmt.Errorf("newMLP: features and outputs must be " +
			"positive")
	}
	if len(hiddenSizes) != len(activations) {
		return nil, fmt.Errorf("newMLP: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(hiddenSizes), len(activations))
	}

	layers := make([]*fcLayer, 0, len(hiddenSizes)+1)
	in := features
	for i, size := range hiddenSizes {
		if size < 1 {
			return nil, fmt.Errorf("newMLP: hidden layer %v has illegal "+
				"size %v", i, size)
		}
		layers = append(layers, newFCLayer(in, size, init, activations[i]))
		in = size
	}
	layers = append(layers, newFCLayer(in, outputs, init, Identity()))

	return &MLP{
		features:    features,
		outputs:     outputs,
		hiddenSizes: hiddenSizes,
		activations: activations,
		layers:      layers,
		machines:    make(map[int]*machine),
	}, nil
}

// Features returns the number of input features of the MLP
func (m *MLP) Features() int {
	return m.features
}

// Outputs returns the number of outputs the MLP predicts per input
func (m *MLP) Outputs() int {
	return m.outputs
}

// Layers returns the number of layers in the MLP, including the final
// linear layer
func (m *MLP) Layers() int {
	return len(m.layers)
}

// Predict returns the outputs of the MLP for a batch of n inputs
// given in row-major order. The returned slice is row-major with
// Outputs() columns and is owned by the caller.
func (m *MLP) Predict(input []float32, n int) ([]float32, error) {
	if n < 1 {
		return nil, fmt.Errorf("predict: batch size must be positive")
	}
	if len(input) != n*m.features {
		return nil, fmt.Errorf("predict: illegal input size \n\twant(%v)"+
			"\n\thave(%v)", n*m.features, len(input))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	mach, err := m.machine(n)
	if err != nil {
		return nil, fmt.Errorf("predict: %v", err)
	}
	defer mach.vm.Reset()

	// Copy the input so that the caller may reuse its slice
	backing := make([]float32, len(input))
	copy(backing, input)
	in := tensor.New(tensor.WithShape(n, m.features),
		tensor.WithBacking(backing))
	if err := G.Let(mach.input, in); err != nil {
		return nil, fmt.Errorf("predict: could not set input: %v", err)
	}

	if err := mach.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: could not run forward pass: %v",
			err)
	}

	data, ok := mach.predVal.Data().([]float32)
	if !ok {
		return nil, fmt.Errorf("predict: illegal prediction type %T",
			mach.predVal.Data())
	}
	out := make([]float32, len(data))
	copy(out, data)

	return out, nil
}

// Values returns the predictions of a single-output MLP for a batch of
// n inputs, so that the MLP can be used as a state value function
func (m *MLP) Values(obs []float32, n int) ([]float32, error) {
	if m.outputs != 1 {
		return nil, fmt.Errorf("values: value function must have a "+
			"single output \n\twant(1)\n\thave(%v)", m.outputs)
	}
	return m.Predict(obs, n)
}

// machine returns the tape machine for batch size n, compiling it if
// it does not yet exist. The caller must hold m.mu.
func (m *MLP) machine(n int) (*machine, error) {
	if mach, ok := m.machines[n]; ok {
		return mach, nil
	}

	g := G.NewGraph()
	input := G.NewMatrix(g, tensor.Float32, G.WithShape(n, m.features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	var err error
	pred := input
	for i, layer := range m.layers {
		pred, err = layer.fwd(pred, fmt.Sprintf("L%d", i))
		if err != nil {
			return nil, fmt.Errorf("machine: layer %v: %v", i, err)
		}
	}

	mach := &machine{input: input, pred: pred}
	G.Read(pred, &mach.predVal)
	mach.vm = G.NewTapeMachine(g)

	m.machines[n] = mach
	return mach, nil
}

// SetLayer sets the weights and biases of layer i. The weights are
// given in row-major order with shape (inputs, outputs). Previously
// compiled machines are discarded so that the new weights are used on
// the next prediction.
func (m *MLP) SetLayer(i int, weights, bias []float32) error {
	if i < 0 || i >= len(m.layers) {
		return fmt.Errorf("setLayer: no layer %v", i)
	}
	layer := m.layers[i]
	if len(weights) != layer.Inputs()*layer.Outputs() {
		return fmt.Errorf("setLayer: illegal weight size \n\twant(%v)"+
			"\n\thave(%v)", layer.Inputs()*layer.Outputs(), len(weights))
	}
	if len(bias) != layer.Outputs() {
		return fmt.Errorf("setLayer: illegal bias size \n\twant(%v)"+
			"\n\thave(%v)", layer.Outputs(), len(bias))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(layer.weights.Data().([]float32), weights)
	copy(layer.bias.Data().([]float32), bias)
	m.reset()

	return nil
}

// Layer returns copies of the weights and biases of layer i
func (m *MLP) Layer(i int) (weights, bias []float32, err error) {
	if i < 0 || i >= len(m.layers) {
		return nil, nil, fmt.Errorf("layer: no layer %v", i)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	layer := m.layers[i]
	weights = append([]float32(nil), layer.weights.Data().([]float32)...)
	bias = append([]float32(nil), layer.bias.Data().([]float32)...)
	return weights, bias, nil
}

// reset closes and discards all compiled machines. The caller must hold
// m.mu.
func (m *MLP) reset() {
	for n, mach := range m.machines {
		mach.vm.Close()
		delete(m.machines, n)
	}
}

// Close releases the resources held by the compiled machines
func (m *MLP) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

// GobEncode implements the gob.GobEncoder interface
func (m *MLP) GobEncode() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(m.features); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode features")
	}
	if err := enc.Encode(m.outputs); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode outputs")
	}
	if err := enc.Encode(m.hiddenSizes); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode hidden sizes")
	}

	names := make([]string, len(m.activations))
	for i := range m.activations {
		names[i] = m.activations[i].String()
	}
	if err := enc.Encode(names); err != nil {
		return nil, fmt.Errorf("gobencode: could not encode activations")
	}

	for i, layer := range m.layers {
		if err := enc.Encode(layer.weights.Data().([]float32)); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode layer %v "+
				"weights: %v", i, err)
		}
		if err := enc.Encode(layer.bias.Data().([]float32)); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode layer %v "+
				"bias: %v", i, err)
		}
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (m *MLP) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var features, outputs int
	var hiddenSizes []int
	var names []string
	if err := dec.Decode(&features); err != nil {
		return fmt.Errorf("gobdecode: could not decode features")
	}
	if err := dec.Decode(&outputs); err != nil {
		return fmt.Errorf("gobdecode: could not decode outputs")
	}
	if err := dec.Decode(&hiddenSizes); err != nil {
		return fmt.Errorf("gobdecode: could not decode hidden sizes")
	}
	if err := dec.Decode(&names); err != nil {
		return fmt.Errorf("gobdecode: could not decode activations")
	}

	activations := make([]*Activation, len(names))
	for i, name := range names {
		act, err := ActivationFromString(name)
		if err != nil {
			return fmt.Errorf("gobdecode: %v", err)
		}
		activations[i] = act
	}

	net, err := NewMLP(features, outputs, hiddenSizes, activations,
		G.Zeroes())
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}

	for i, layer := range net.layers {
		var weights, bias []float32
		if err := dec.Decode(&weights); err != nil {
			return fmt.Errorf("gobdecode: could not decode layer %v "+
				"weights: %v", i, err)
		}
		if err := dec.Decode(&bias); err != nil {
			return fmt.Errorf("gobdecode: could not decode layer %v "+
				"bias: %v", i, err)
		}
		copy(layer.weights.Data().([]float32), weights)
		copy(layer.bias.Data().([]float32), bias)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	m.features = net.features
	m.outputs = net.outputs
	m.hiddenSizes = net.hiddenSizes
	m.activations = net.activations
	m.layers = net.layers
	if m.machines == nil {
		m.machines = make(map[int]*machine)
	}

	return nil
}
