package environment

import (
	"github.com/samuelfneumann/focops/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// SpecType determines what a Spec describes
type SpecType int

const (
	Action SpecType = iota
	Observation
	Reward
	Cost
)

// Cardinality determines whether the values a Spec describes are
// discrete or continuous
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec describes the layout of the actions, observations, rewards, or
// costs of an environment as one closed interval per dimension
type Spec struct {
	Type   SpecType
	Bounds []r1.Interval
	Cardinality
}

// NewSpec returns a new Spec with dimension i bounded by bounds[i]
func NewSpec(t SpecType, bounds []r1.Interval,
	cardinality Cardinality) Spec {
	return Spec{Type: t, Bounds: bounds, Cardinality: cardinality}
}

// Dims returns the number of dimensions described by the Spec
func (s Spec) Dims() int {
	return len(s.Bounds)
}

// Contains returns whether x has the dimensions of the Spec and lies
// within its bounds
func (s Spec) Contains(x mat.Vector) bool {
	if x.Len() != s.Dims() {
		return false
	}
	for i, b := range s.Bounds {
		if v := x.AtVec(i); v < b.Min || v > b.Max {
			return false
		}
	}
	return true
}

// Clip returns a copy of x with each dimension clipped to its bounds.
// Clip panics if x does not have the dimensions of the Spec.
func (s Spec) Clip(x mat.Vector) *mat.VecDense {
	if x.Len() != s.Dims() {
		panic("clip: illegal vector dimensions")
	}
	clipped := mat.NewVecDense(x.Len(), nil)
	for i, b := range s.Bounds {
		clipped.SetVec(i, floatutils.ClipInterval(x.AtVec(i), b))
	}
	return clipped
}
