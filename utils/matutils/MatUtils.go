// Package matutils implements utility function for working with mat.Matrix
// structs and the float32 slices consumed by function approximators
package matutils

import (
	"gonum.org/v1/gonum/mat"
)

// VecClip performs an element-wise clipping of a vector's values such
// that each value is at least min and at most max
func VecClip(a *mat.VecDense, min, max float64) {
	for i := 0; i < a.Len(); i++ {
		value := a.AtVec(i)

		if value < min {
			a.SetVec(i, min)
		} else if value > max {
			a.SetVec(i, max)
		}
	}
}

// VecOnes returns a vector of 1.0's
func VecOnes(length int) *mat.VecDense {
	oneSlice := make([]float64, length)
	for i := 0; i < length; i++ {
		oneSlice[i] = 1.0
	}
	return mat.NewVecDense(length, oneSlice)
}

// ToFloat32 converts a vector to a newly allocated float32 slice
func ToFloat32(v mat.Vector) []float32 {
	out := make([]float32, v.Len())
	for i := range out {
		out[i] = float32(v.AtVec(i))
	}
	return out
}

// ToVecDense converts a float32 slice to a newly allocated vector
func ToVecDense(x []float32) *mat.VecDense {
	data := make([]float64, len(x))
	for i, v := range x {
		data[i] = float64(v)
	}
	return mat.NewVecDense(len(data), data)
}
