package initwfn

import (
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// ZeroesConfig configures initialization of all weights to zero
type ZeroesConfig struct{}

// OnesConfig configures initialization of all weights to one
type OnesConfig struct{}

// ConstantConfig configures initialization of all weights to Value
type ConstantConfig struct {
	Value float64 `yaml:"value"`
}

// NewZeroes returns a new zeroes weight initializer
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// NewOnes returns a new ones weight initializer
func NewOnes() (*InitWFn, error) {
	return newInitWFn(OnesConfig{})
}

// NewConstant returns a new constant weight initializer
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{value})
}

func (z ZeroesConfig) Type() Type { return Zeroes }
func (z ZeroesConfig) Create() G.InitWFn { return constant(0) }
func (z ZeroesConfig) Validate() error { return nil }

func (o OnesConfig) Type() Type { return Ones }
func (o OnesConfig) Create() G.InitWFn { return constant(1) }
func (o OnesConfig) Validate() error { return nil }

func (c ConstantConfig) Type() Type { return Constant }
func (c ConstantConfig) Create() G.InitWFn { return constant(c.Value) }
func (c ConstantConfig) Validate() error { return nil }

// constant returns an InitWFn filling weights with v. G.ValuesOf
// requires v to have the Go type of the requested dtype.
func constant(v float64) G.InitWFn {
	return func(dt tensor.Dtype, s ...int) interface{} {
		if dt == tensor.Float32 {
			return G.ValuesOf(float32(v))(dt, s...)
		}
		return G.ValuesOf(v)(dt, s...)
	}
}
