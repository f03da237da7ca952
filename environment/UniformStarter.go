package environment

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting states uniformly from a box with one
// interval per state feature. An interval with Min == Max fixes its
// feature.
type UniformStarter struct {
	bounds []r1.Interval
	dist   *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter which samples state
// feature i from bounds[i] using a source seeded with seed
func NewUniformStarter(bounds []r1.Interval, seed uint64) (*UniformStarter,
	error) {
	if len(bounds) == 0 {
		return nil, fmt.Errorf("newUniformStarter: no bounds given")
	}
	for i, b := range bounds {
		if b.Min > b.Max {
			return nil, fmt.Errorf("newUniformStarter: feature %v has "+
				"empty interval [%v, %v]", i, b.Min, b.Max)
		}
	}

	b := make([]r1.Interval, len(bounds))
	copy(b, bounds)
	dist := distmv.NewUniform(b, rand.NewSource(seed))

	return &UniformStarter{bounds: b, dist: dist}, nil
}

// Start samples and returns a starting state
func (u *UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(len(u.bounds), u.dist.Rand(nil))
}
