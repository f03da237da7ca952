// Package normalize implements online normalization of observations
package normalize

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/focops/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultClip is the default bound on the magnitude of normalized
	// observations
	DefaultClip = 10.0

	epsilon = 1e-8
)

// RunningStat normalizes observations using a running estimate of the
// per-dimension mean and standard deviation. The estimates are updated
// with Welford's algorithm on each observation normalized, unless the
// RunningStat has been frozen.
type RunningStat struct {
	n    int
	mean *mat.VecDense
	m2   *mat.VecDense // sum of squared deviations from the mean
	clip float64

	frozen bool
}

// NewRunningStat returns a new RunningStat over observations of dims
// dimensions. Normalized observations are clipped to [-clip, clip].
func NewRunningStat(dims int, clip float64) (*RunningStat, error) {
	if dims < 1 {
		return nil, fmt.Errorf("newRunningStat: dimensions must be positive")
	}
	if clip <= 0 {
		return nil, fmt.Errorf("newRunningStat: clip must be positive "+
			"\n\twant(>0)\n\thave(%v)", clip)
	}

	return &RunningStat{
		mean: mat.NewVecDense(dims, nil),
		m2:   mat.NewVecDense(dims, nil),
		clip: clip,
	}, nil
}

// Push updates the running estimates with x
func (r *RunningStat) Push(x mat.Vector) {
	r.n++
	if r.n == 1 {
		r.mean.CopyVec(x)
		return
	}

	for i := 0; i < r.mean.Len(); i++ {
		xi := x.AtVec(i)
		oldMean := r.mean.AtVec(i)
		newMean := oldMean + (xi-oldMean)/float64(r.n)
		r.mean.SetVec(i, newMean)
		r.m2.SetVec(i, r.m2.AtVec(i)+(xi-oldMean)*(xi-newMean))
	}
}

// Normalize returns (x - mean) / (std + ε), clipped elementwise. Unless
// the RunningStat is frozen, x is first pushed into the running
// estimates.
func (r *RunningStat) Normalize(x mat.Vector) (*mat.VecDense, error) {
	if x.Len() != r.mean.Len() {
		return nil, fmt.Errorf("normalize: illegal observation dimensions "+
			"\n\twant(%v)\n\thave(%v)", r.mean.Len(), x.Len())
	}
	if !r.frozen {
		r.Push(x)
	}

	std := r.Std()
	for i := 0; i < std.Len(); i++ {
		std.SetVec(i, std.AtVec(i)+epsilon)
	}

	out := mat.NewVecDense(x.Len(), nil)
	out.SubVec(x, r.mean)
	out.DivElemVec(out, std)
	matutils.VecClip(out, -r.clip, r.clip)

	return out, nil
}

// N returns the number of observations pushed
func (r *RunningStat) N() int {
	return r.n
}

// Mean returns a copy of the running mean
func (r *RunningStat) Mean() *mat.VecDense {
	return mat.VecDenseCopyOf(r.mean)
}

// Var returns the running sample variance. With fewer than two
// observations, the variance is the square of the mean, so that a
// single observation normalizes to near zero.
func (r *RunningStat) Var() *mat.VecDense {
	v := mat.NewVecDense(r.mean.Len(), nil)
	if r.n > 1 {
		v.ScaleVec(1/float64(r.n-1), r.m2)
	} else {
		v.MulElemVec(r.mean, r.mean)
	}
	return v
}

// Std returns the running sample standard deviation
func (r *RunningStat) Std() *mat.VecDense {
	v := r.Var()
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, math.Sqrt(v.AtVec(i)))
	}
	return v
}

// Freeze stops the running estimates from being updated
func (r *RunningStat) Freeze() {
	r.frozen = true
}

// Unfreeze resumes updating the running estimates
func (r *RunningStat) Unfreeze() {
	r.frozen = false
}

// Frozen returns whether the running estimates are frozen
func (r *RunningStat) Frozen() bool {
	return r.frozen
}
