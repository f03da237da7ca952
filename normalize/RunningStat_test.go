package normalize

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestRunningStatMoments(t *testing.T) {
	r, err := NewRunningStat(2, DefaultClip)
	if err != nil {
		t.Fatal(err)
	}

	xs := [][]float64{{1, -2}, {4, 0}, {2, 3}, {9, 1}}
	for _, x := range xs {
		r.Push(mat.NewVecDense(2, x))
	}

	for dim := 0; dim < 2; dim++ {
		col := make([]float64, len(xs))
		for i := range xs {
			col[i] = xs[i][dim]
		}
		mean, std := stat.MeanStdDev(col, nil)

		if math.Abs(r.Mean().AtVec(dim)-mean) > 1e-12 {
			t.Errorf("mean: dim %v \n\twant(%v)\n\thave(%v)", dim, mean,
				r.Mean().AtVec(dim))
		}
		if math.Abs(r.Std().AtVec(dim)-std) > 1e-12 {
			t.Errorf("std: dim %v \n\twant(%v)\n\thave(%v)", dim, std,
				r.Std().AtVec(dim))
		}
	}
}

func TestRunningStatNormalize(t *testing.T) {
	r, err := NewRunningStat(1, 1.5)
	if err != nil {
		t.Fatal(err)
	}

	// The first observation is normalized by itself
	out, err := r.Normalize(mat.NewVecDense(1, []float64{3}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out.AtVec(0)) > 1e-6 {
		t.Errorf("normalize: first observation \n\twant(%v)\n\thave(%v)", 0,
			out.AtVec(0))
	}

	for _, x := range []float64{5, 4, 6} {
		if _, err := r.Normalize(mat.NewVecDense(1, []float64{x})); err != nil {
			t.Fatal(err)
		}
	}

	// Frozen statistics do not change, and outliers are clipped
	r.Freeze()
	n := r.N()
	out, err = r.Normalize(mat.NewVecDense(1, []float64{100}))
	if err != nil {
		t.Fatal(err)
	}
	if r.N() != n {
		t.Errorf("normalize: frozen statistics updated \n\twant(%v)\n\thave(%v)",
			n, r.N())
	}
	if out.AtVec(0) != 1.5 {
		t.Errorf("normalize: clipping \n\twant(%v)\n\thave(%v)", 1.5,
			out.AtVec(0))
	}

	if _, err := r.Normalize(mat.NewVecDense(2, nil)); err == nil {
		t.Error("normalize: expected error for illegal dimensions")
	}
}
