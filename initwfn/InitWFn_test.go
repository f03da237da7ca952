package initwfn

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
	"gorgonia.org/tensor"
)

func TestUnmarshalYAML(t *testing.T) {
	data := []byte(`
type: GlorotU
config:
  gain: 2.5
`)
	var init InitWFn
	if err := yaml.Unmarshal(data, &init); err != nil {
		t.Fatal(err)
	}

	if init.Type != GlorotU {
		t.Errorf("unmarshalYAML: type \n\twant(%v)\n\thave(%v)", GlorotU,
			init.Type)
	}
	config, ok := init.Config.(GlorotUConfig)
	if !ok || config.Gain != 2.5 {
		t.Errorf("unmarshalYAML: config \n\twant(%v)\n\thave(%v)",
			GlorotUConfig{2.5}, init.Config)
	}
	if init.InitWFn() == nil {
		t.Error("unmarshalYAML: InitWFn not created")
	}
}

func TestUnmarshalYAMLNoConfig(t *testing.T) {
	var init InitWFn
	if err := yaml.Unmarshal([]byte("type: Zeroes"), &init); err != nil {
		t.Fatal(err)
	}
	w := init.InitWFn()(tensor.Float32, 2, 3).([]float32)
	for i := range w {
		if w[i] != 0 {
			t.Errorf("zeroes: weight %v \n\twant(0)\n\thave(%v)", i, w[i])
		}
	}
}

func TestUnmarshalJSON(t *testing.T) {
	data := []byte(`{"Type": "Constant", "Config": {"Value": 0.5}}`)
	var init InitWFn
	if err := json.Unmarshal(data, &init); err != nil {
		t.Fatal(err)
	}

	w := init.InitWFn()(tensor.Float32, 3, 1).([]float32)
	if len(w) != 3 {
		t.Fatalf("constant: illegal number of weights \n\twant(3)\n\thave(%v)",
			len(w))
	}
	for i := range w {
		if w[i] != 0.5 {
			t.Errorf("constant: weight %v \n\twant(0.5)\n\thave(%v)", i, w[i])
		}
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	var init InitWFn
	if err := yaml.Unmarshal([]byte("type: Xavier"), &init); err == nil {
		t.Error("unmarshalYAML: expected error for unknown type")
	}
	if err := json.Unmarshal([]byte(`{"Type": "Xavier"}`), &init); err == nil {
		t.Error("unmarshalJSON: expected error for unknown type")
	}
}

func TestValidate(t *testing.T) {
	if _, err := NewGaussian(0, 0); err == nil {
		t.Error("newGaussian: expected error for zero standard deviation")
	}
	if _, err := NewUniform(1, -1); err == nil {
		t.Error("newUniform: expected error for empty interval")
	}
	if _, err := NewHeN(-1); err == nil {
		t.Error("newHeN: expected error for negative gain")
	}

	// Omitting the config of a variance scaling initializer leaves a
	// zero gain
	var init InitWFn
	if err := yaml.Unmarshal([]byte("type: GlorotN"), &init); err == nil {
		t.Error("unmarshalYAML: expected error for zero gain")
	}
	data := []byte(`{"Type": "Gaussian", "Config": {"Mean": 1}}`)
	if err := json.Unmarshal(data, &init); err == nil {
		t.Error("unmarshalJSON: expected error for zero standard deviation")
	}
}

func TestCreate(t *testing.T) {
	init, err := NewUniform(-0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	w := init.InitWFn()(tensor.Float32, 4, 5).([]float32)
	if len(w) != 20 {
		t.Fatalf("uniform: illegal number of weights \n\twant(20)\n\thave(%v)",
			len(w))
	}
	for i := range w {
		if w[i] < -0.5 || w[i] > 0.5 {
			t.Errorf("uniform: weight %v out of range: %v", i, w[i])
		}
	}

	ones, err := NewOnes()
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range ones.InitWFn()(tensor.Float64, 3).([]float64) {
		if v != 1 {
			t.Errorf("ones: weight %v \n\twant(1)\n\thave(%v)", i, v)
		}
	}
}

func TestCreateFloat32(t *testing.T) {
	configs := map[Type]Config{
		GlorotU:  GlorotUConfig{Gain: 1},
		GlorotN:  GlorotNConfig{Gain: 1},
		HeU:      HeUConfig{Gain: 1},
		HeN:      HeNConfig{Gain: 1},
		Zeroes:   ZeroesConfig{},
		Ones:     OnesConfig{},
		Constant: ConstantConfig{Value: 0.25},
		Uniform:  UniformConfig{Low: -1, High: 1},
		Gaussian: GaussianConfig{Mean: 0, StdDev: 0.1},
	}
	if len(configs) != len(configTypes) {
		t.Fatalf("create: untested InitWFn types \n\twant(%v)\n\thave(%v)",
			len(configTypes), len(configs))
	}

	const rows, cols = 3, 4
	for ty := range configTypes {
		config, ok := configs[ty]
		if !ok {
			t.Errorf("create: no config for type %v", ty)
			continue
		}
		init, err := newInitWFn(config)
		if err != nil {
			t.Errorf("create: %v: %v", ty, err)
			continue
		}

		w, ok := init.InitWFn()(tensor.Float32, rows, cols).([]float32)
		if !ok {
			t.Errorf("create: %v: weights are not []float32", ty)
			continue
		}
		if len(w) != rows*cols {
			t.Errorf("create: %v: number of weights \n\twant(%v)\n\thave(%v)",
				ty, rows*cols, len(w))
		}
	}
}

func TestHeFloat64(t *testing.T) {
	for _, newHe := range []func(float64) (*InitWFn, error){NewHeU, NewHeN} {
		init, err := newHe(2)
		if err != nil {
			t.Fatal(err)
		}
		w, ok := init.InitWFn()(tensor.Float64, 5, 2).([]float64)
		if !ok || len(w) != 10 {
			t.Errorf("%v: illegal float64 weights %v", init.Type, w)
		}
	}
}
