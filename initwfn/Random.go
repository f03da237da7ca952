package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GlorotUConfig configures Glorot uniform initialization
type GlorotUConfig struct {
	Gain float64 `yaml:"gain"`
}

// GlorotNConfig configures Glorot normal initialization
type GlorotNConfig struct {
	Gain float64 `yaml:"gain"`
}

// HeUConfig configures He uniform initialization
type HeUConfig struct {
	Gain float64 `yaml:"gain"`
}

// HeNConfig configures He normal initialization
type HeNConfig struct {
	Gain float64 `yaml:"gain"`
}

// UniformConfig configures initialization with weights drawn uniformly
// from [Low, High)
type UniformConfig struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// GaussianConfig configures initialization with weights drawn from a
// normal distribution
type GaussianConfig struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

// NewGlorotU returns a new Glorot uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{gain})
}

// NewGlorotN returns a new Glorot normal weight initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{gain})
}

// NewHeU returns a new He uniform weight initializer
func NewHeU(gain float64) (*InitWFn, error) {
	return newInitWFn(HeUConfig{gain})
}

// NewHeN returns a new He normal weight initializer
func NewHeN(gain float64) (*InitWFn, error) {
	return newInitWFn(HeNConfig{gain})
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

func (g GlorotUConfig) Type() Type { return GlorotU }
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }
func (g GlorotUConfig) Validate() error { return validateGain(g.Gain) }

func (g GlorotNConfig) Type() Type { return GlorotN }
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }
func (g GlorotNConfig) Validate() error { return validateGain(g.Gain) }

func (h HeUConfig) Type() Type { return HeU }
func (h HeUConfig) Create() G.InitWFn { return he(h.Gain, G.HeEtAlU64) }
func (h HeUConfig) Validate() error { return validateGain(h.Gain) }

func (h HeNConfig) Type() Type { return HeN }
func (h HeNConfig) Create() G.InitWFn { return he(h.Gain, G.HeEtAlN64) }
func (h HeNConfig) Validate() error { return validateGain(h.Gain) }

func (u UniformConfig) Type() Type { return Uniform }
func (u UniformConfig) Create() G.InitWFn { return G.Uniform(u.Low, u.High) }

// Validate checks that the sampling interval is not empty
func (u UniformConfig) Validate() error {
	if u.Low >= u.High {
		return fmt.Errorf("uniform: low must be smaller than high "+
			"\n\twant(<%v)\n\thave(%v)", u.High, u.Low)
	}
	return nil
}

func (g GaussianConfig) Type() Type { return Gaussian }
func (g GaussianConfig) Create() G.InitWFn {
	return G.Gaussian(g.Mean, g.StdDev)
}

// Validate checks that the standard deviation is positive
func (g GaussianConfig) Validate() error {
	if g.StdDev <= 0 {
		return fmt.Errorf("gaussian: standard deviation must be positive "+
			"\n\twant(>0)\n\thave(%v)", g.StdDev)
	}
	return nil
}

// validateGain checks the gain of a variance scaling initializer
func validateGain(gain float64) error {
	if gain <= 0 {
		return fmt.Errorf("gain must be positive \n\twant(>0)\n\thave(%v)",
			gain)
	}
	return nil
}

// he returns an InitWFn drawing weights with sample. Gorgonia only
// samples He weights as float64, so float32 weights are converted.
func he(gain float64, sample func(float64, ...int) []float64) G.InitWFn {
	return func(dt tensor.Dtype, s ...int) interface{} {
		w := sample(gain, s...)
		switch dt {
		case tensor.Float64:
			return w
		case tensor.Float32:
			w32 := make([]float32, len(w))
			for i := range w {
				w32[i] = float32(w[i])
			}
			return w32
		default:
			panic(fmt.Sprintf("he: unsupported dtype %v", dt))
		}
	}
}
