package batch

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// Epsilon is added to the standard deviation when standardizing so
// that constant columns do not cause division by zero
const Epsilon float32 = 1e-6

// Normalize standardizes the advantage and cost advantage columns of a
// Batch independently and in place, so that each has mean 0 and
// standard deviation 1. The Batch is returned for convenience.
func Normalize(b *Batch) *Batch {
	Standardize(b.Advantages)
	Standardize(b.CostAdvantages)
	return b
}

// Standardize replaces x in place with (x - mean(x)) / (std(x) + ε)
// where std is the population standard deviation
func Standardize(x []float32) {
	if len(x) == 0 {
		return
	}
	n := float32(len(x))

	mean := vecf32.Sum(x) / n
	vecf32.Trans(x, -mean)

	sq := make([]float32, len(x))
	copy(sq, x)
	vecf32.Mul(sq, x)
	std := math32.Sqrt(vecf32.Sum(sq) / n)

	vecf32.Scale(x, 1/(std+Epsilon))
}
