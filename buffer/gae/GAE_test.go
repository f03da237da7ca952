package gae

import (
	"math"
	"testing"

	"github.com/samuelfneumann/focops/agent"
	"github.com/samuelfneumann/focops/buffer/episode"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-5

// constant returns a value function predicting c for every state
func constant(c float32) agent.ValueFunction {
	return agent.ValueFunc(func(obs []float32, n int) ([]float32, error) {
		values := make([]float32, n)
		for i := range values {
			values[i] = c
		}
		return values, nil
	})
}

// firstFeature returns a value function predicting the first feature
// of each observation
func firstFeature(features int) agent.ValueFunction {
	return agent.ValueFunc(func(obs []float32, n int) ([]float32, error) {
		values := make([]float32, n)
		for i := range values {
			values[i] = obs[i*features]
		}
		return values, nil
	})
}

// newEpisode records an episode with one feature per observation, where
// observation t is x[t] and the next observation is x[t+1]
func newEpisode(t *testing.T, x, rewards, costs []float32,
	terminal bool) *episode.Episode {
	t.Helper()
	b, err := episode.New(1, 1, len(rewards))
	if err != nil {
		t.Fatal(err)
	}
	for i := range rewards {
		err := b.Record(i, x[i:i+1], []float32{0}, x[i+1:i+2], rewards[i],
			costs[i])
		if err != nil {
			t.Fatal(err)
		}
	}
	ep, err := b.Finalize(terminal)
	if err != nil {
		t.Fatal(err)
	}
	return ep
}

func ones(n int) []float32 {
	x := make([]float32, n)
	for i := range x {
		x[i] = 1
	}
	return x
}

func TestBootstrapTerminalVsTruncated(t *testing.T) {
	const length = 5
	var gamma, lambda float32 = 0.99, 0.95
	x := make([]float32, length+1)
	rewards := ones(length)
	costs := make([]float32, length)

	truncated := newEpisode(t, x, rewards, costs, false)
	truncAdv, _, err := Estimate(truncated, constant(1), gamma, lambda, Reward)
	if err != nil {
		t.Fatal(err)
	}

	terminal := newEpisode(t, x, rewards, costs, true)
	termAdv, _, err := Estimate(terminal, constant(1), gamma, lambda, Reward)
	if err != nil {
		t.Fatal(err)
	}

	// Last step: δ = 1 + ℽ·1·m - 1
	if math.Abs(float64(truncAdv[length-1]-gamma)) > tolerance {
		t.Errorf("truncated final advantage \n\twant(%v)\n\thave(%v)", gamma,
			truncAdv[length-1])
	}
	if math.Abs(float64(termAdv[length-1])) > tolerance {
		t.Errorf("terminal final advantage \n\twant(%v)\n\thave(%v)", 0,
			termAdv[length-1])
	}

	// Every earlier step sees the difference discounted by (ℽλ)^k
	for i := 0; i < length; i++ {
		k := float64(length - 1 - i)
		want := float64(gamma) * math.Pow(float64(gamma*lambda), k)
		have := float64(truncAdv[i] - termAdv[i])
		if math.Abs(want-have) > tolerance {
			t.Errorf("advantage difference at step %v \n\twant(%v)\n\thave(%v)",
				i, want, have)
		}
	}
}

func TestLengthOneEpisode(t *testing.T) {
	x := []float32{0.5, 2}
	ep := newEpisode(t, x, []float32{3}, []float32{0}, false)

	var gamma, lambda float32 = 0.9, 0.8
	adv, _, err := Estimate(ep, firstFeature(1), gamma, lambda, Reward)
	if err != nil {
		t.Fatal(err)
	}

	delta := float32(3) + gamma*2 - 0.5
	if math.Abs(float64(adv[0]-delta)) > 1e-6 {
		t.Errorf("advantage \n\twant(%v)\n\thave(%v)", delta, adv[0])
	}
}

func TestTargetsAreValuesPlusAdvantages(t *testing.T) {
	x := []float32{0.1, -0.4, 0.3, 0.9, -1.2, 0.7}
	rewards := []float32{1, -1, 0.5, 2, 0}
	costs := []float32{0, 1, 1, 0, 3}
	ep := newEpisode(t, x, rewards, costs, false)

	for _, s := range []Signal{Reward, Cost} {
		for _, params := range [][2]float32{{0.99, 0.95}, {0.5, 0}, {1, 1}} {
			adv, targets, err := Estimate(ep, firstFeature(1), params[0],
				params[1], s)
			if err != nil {
				t.Fatal(err)
			}
			for i := range targets {
				if want := x[i] + adv[i]; targets[i] != want {
					t.Errorf("%v target at step %v \n\twant(%v)\n\thave(%v)",
						s, i, want, targets[i])
				}
			}
		}
	}
}

func TestMatchesDiscountedDeltaSum(t *testing.T) {
	x := []float32{0.2, 0.4, -0.1, 0.8, 0.3}
	costs := []float32{0.5, 0, 1.5, 0.25}
	rewards := make([]float32, len(costs))
	ep := newEpisode(t, x, rewards, costs, true)

	gamma, lambda := 0.97, 0.9
	adv, _, err := Estimate(ep, firstFeature(1), float32(gamma),
		float32(lambda), Cost)
	if err != nil {
		t.Fatal(err)
	}

	// Forward view: A[t] = Σ_k (ℽλ)^k δ[t+k]
	deltas := make([]float64, len(costs))
	for i := range deltas {
		next := float64(x[i+1])
		if i == len(deltas)-1 {
			next = 0
		}
		deltas[i] = float64(costs[i]) + gamma*next - float64(x[i])
	}
	want := discountCumSum(mat.NewVecDense(len(deltas), deltas), gamma*lambda)

	have := make([]float64, len(adv))
	for i := range adv {
		have[i] = float64(adv[i])
	}
	if !floats.EqualApprox(want, have, tolerance) {
		t.Errorf("advantages \n\twant(%v)\n\thave(%v)", want, have)
	}
}

func TestEstimateErrors(t *testing.T) {
	ep := newEpisode(t, []float32{0, 0, 0}, []float32{1, 1}, []float32{0, 0},
		false)

	short := agent.ValueFunc(func(obs []float32, n int) ([]float32, error) {
		return make([]float32, n-1), nil
	})
	if _, _, err := Estimate(ep, short, 0.99, 0.95, Reward); err == nil {
		t.Error("estimate: expected error for too few predicted values")
	}

	empty := &episode.Episode{Features: 1, ActionDims: 1}
	if _, _, err := Estimate(empty, constant(0), 0.99, 0.95,
		Reward); err == nil {
		t.Error("estimate: expected error for empty episode")
	}

	if _, _, err := Estimate(ep, constant(0), 0.99, 0.95,
		Signal(7)); err == nil {
		t.Error("estimate: expected error for illegal signal")
	}
}

// discountCumSum computes and returns the discounted cumulative sum
// of all elements of a vector. Given a vector v = [x0 x1 x2 ... xN]
// and discount ℽ, this function computes and returns:
//
// [
//
//	x0 + ℽ x1 + ℽ^2 x2 + ... + ℽ^N xN
//	x1 + ℽ^1 x2 + ... + ℽ^(N-1) xN
//	...
//	xN
//
// ]
func discountCumSum(x *mat.VecDense, discount float64) []float64 {
	discounts := mat.NewVecDense(x.Len(), nil)
	cumSums := make([]float64, x.Len())
	nextScaledRews := mat.NewVecDense(x.Len(), nil)
	backing := nextScaledRews.RawVector().Data

	for i := 0; i < x.Len(); i++ {
		discounts.ScaleVec(discount, discounts)
		discounts.SetVec(x.Len()-i-1, 1)

		nextScaledRews.MulElemVec(discounts, x)
		cumSums[x.Len()-i-1] = floats.Sum(backing[x.Len()-i-1:])
	}

	return cumSums
}

func BenchmarkEstimate(b *testing.B) {
	const length = 1000
	buf, err := episode.New(4, 2, length)
	if err != nil {
		b.Fatal(err)
	}
	obs := []float32{0.1, 0.2, 0.3, 0.4}
	for i := 0; i < length; i++ {
		err := buf.Record(i, obs, []float32{0, 1}, obs, 1, 0.5)
		if err != nil {
			b.Fatal(err)
		}
	}
	ep, err := buf.Finalize(false)
	if err != nil {
		b.Fatal(err)
	}
	valueFn := firstFeature(4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Estimate(ep, valueFn, 0.99, 0.95, Reward); err != nil {
			b.Fatal(err)
		}
	}
}
