package network

import (
	"bytes"
	"encoding/gob"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
)

// newTestMLP returns a 2-2-1 ReLU MLP with hand-set weights such that
// f(x, y) = relu(x) + relu(y - 1) + 0.5
func newTestMLP(t *testing.T) *MLP {
	t.Helper()
	net, err := NewMLP(2, 1, []int{2}, []*Activation{ReLU()}, G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}
	if err := net.SetLayer(0, []float32{1, 0, 0, 1}, []float32{0, -1}); err != nil {
		t.Fatal(err)
	}
	if err := net.SetLayer(1, []float32{1, 1}, []float32{0.5}); err != nil {
		t.Fatal(err)
	}
	return net
}

func checkClose(t *testing.T, op string, want, have []float32) {
	t.Helper()
	if len(want) != len(have) {
		t.Fatalf("%v: illegal length \n\twant(%v)\n\thave(%v)", op, len(want),
			len(have))
	}
	for i := range want {
		if math.Abs(float64(want[i]-have[i])) > 1e-6 {
			t.Errorf("%v: index %v \n\twant(%v)\n\thave(%v)", op, i, want[i],
				have[i])
		}
	}
}

func TestPredict(t *testing.T) {
	net := newTestMLP(t)

	// Batch of two
	pred, err := net.Predict([]float32{3, 4, -1, 2}, 2)
	if err != nil {
		t.Fatal(err)
	}
	checkClose(t, "predict", []float32{6.5, 1.5}, pred)

	// A second batch size compiles a second machine
	pred, err = net.Values([]float32{0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	checkClose(t, "values", []float32{0.5}, pred)

	// Repeated predictions use the cached machine
	pred, err = net.Predict([]float32{1, 1, 2, 3}, 2)
	if err != nil {
		t.Fatal(err)
	}
	checkClose(t, "predict", []float32{1.5, 4.5}, pred)
}

func TestPredictErrors(t *testing.T) {
	net := newTestMLP(t)
	if _, err := net.Predict([]float32{1, 2, 3}, 2); err == nil {
		t.Error("predict: expected error for illegal input size")
	}
	if _, err := net.Predict(nil, 0); err == nil {
		t.Error("predict: expected error for empty batch")
	}

	multi, err := NewMLP(2, 2, nil, nil, G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := multi.Values([]float32{1, 2}, 1); err == nil {
		t.Error("values: expected error for multi-output network")
	}

	if _, err := NewMLP(2, 1, []int{3}, nil, G.Zeroes()); err == nil {
		t.Error("newMLP: expected error for missing activations")
	}
}

func TestSetLayerUpdatesPredictions(t *testing.T) {
	net := newTestMLP(t)
	if _, err := net.Predict([]float32{3, 4}, 1); err != nil {
		t.Fatal(err)
	}

	if err := net.SetLayer(1, []float32{2, 0}, []float32{0}); err != nil {
		t.Fatal(err)
	}
	pred, err := net.Predict([]float32{3, 4}, 1)
	if err != nil {
		t.Fatal(err)
	}
	checkClose(t, "setLayer", []float32{6}, pred)

	if err := net.SetLayer(1, []float32{2}, []float32{0}); err == nil {
		t.Error("setLayer: expected error for illegal weight size")
	}
}

func TestGob(t *testing.T) {
	net := newTestMLP(t)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(net); err != nil {
		t.Fatal(err)
	}
	var decoded MLP
	if err := gob.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatal(err)
	}

	pred, err := decoded.Predict([]float32{3, 4, -1, 2}, 2)
	if err != nil {
		t.Fatal(err)
	}
	checkClose(t, "gob", []float32{6.5, 1.5}, pred)
}

func TestActivationText(t *testing.T) {
	var acts []*Activation
	if err := yaml.Unmarshal([]byte("[relu, tanh, identity]"), &acts); err != nil {
		t.Fatal(err)
	}
	want := []string{"relu", "tanh", "identity"}
	for i := range want {
		if acts[i].String() != want[i] {
			t.Errorf("unmarshalText: activation %v \n\twant(%v)\n\thave(%v)",
				i, want[i], acts[i])
		}
	}

	if _, err := ActivationFromString("swish"); err == nil {
		t.Error("activationFromString: expected error for unknown activation")
	}
}

func BenchmarkPredict(b *testing.B) {
	net, err := NewMLP(4, 1, []int{64, 64}, []*Activation{TanH(), TanH()},
		G.GlorotU(1.0))
	if err != nil {
		b.Fatal(err)
	}
	input := make([]float32, 4*32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := net.Predict(input, 32); err != nil {
			b.Fatal(err)
		}
	}
}
