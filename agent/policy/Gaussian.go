// Package policy implements stochastic policies which select actions
// from float32 observations
package policy

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/focops/agent"
	"github.com/samuelfneumann/focops/network"
	"github.com/samuelfneumann/focops/utils/matutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// For stability, the standard deviation of the Gaussian distribution
// should be offset from 0.
const stdOffset float64 = 1e-3

// Gaussian implements a diagonal Gaussian policy whose mean is
// predicted by an MLP and whose log standard deviation is a
// state-independent vector with one entry per action dimension.
//
// Given the mean μ and standard deviation σ, actions are selected by
// sampling ɛ ~ N(0, I) and computing action := μ + σ * ɛ. When in
// evaluation mode, the mean action is selected.
type Gaussian struct {
	net        *network.MLP
	logStd     []float64
	actionDims int
	eval       bool

	normal distmv.Rander
}

var _ agent.EvalPolicy = &Gaussian{}

// NewGaussian returns a new Gaussian policy. The number of outputs of
// net determines the action dimension. Each action dimension starts
// with standard deviation std. The seed parameter determines the seed
// of the policy's action sampler.
func NewGaussian(net *network.MLP, std float64, seed uint64) (*Gaussian,
	error) {
	if std <= 0 {
		return nil, fmt.Errorf("newGaussian: standard deviation must be " +
			"positive")
	}
	actionDims := net.Outputs()

	logStd := make([]float64, actionDims)
	for i := range logStd {
		logStd[i] = math.Log(std)
	}

	means := make([]float64, actionDims)
	stds := mat.NewDiagDense(actionDims,
		matutils.VecOnes(actionDims).RawVector().Data)
	normal, ok := distmv.NewNormal(means, stds, rand.NewSource(seed))
	if !ok {
		return nil, fmt.Errorf("newGaussian: could not create standard " +
			"normal for action selection")
	}

	return &Gaussian{
		net:        net,
		logStd:     logStd,
		actionDims: actionDims,
		normal:     normal,
	}, nil
}

// SelectAction selects an action for a single observation
func (g *Gaussian) SelectAction(obs []float32) ([]float32, error) {
	mean, err := g.net.Predict(obs, 1)
	if err != nil {
		return nil, fmt.Errorf("selectAction: %v", err)
	}
	if g.eval {
		return mean, nil
	}

	eps := g.normal.Rand(nil)
	for i := range mean {
		mean[i] += float32(g.std(i) * eps[i])
	}
	return mean, nil
}

// LogProb returns the log probability of selecting each of the n
// row-major actions in the corresponding row-major observations
func (g *Gaussian) LogProb(obs, actions []float32, n int) ([]float64,
	error) {
	if len(actions) != n*g.actionDims {
		return nil, fmt.Errorf("logProb: illegal actions size \n\twant(%v)"+
			"\n\thave(%v)", n*g.actionDims, len(actions))
	}
	means, err := g.net.Predict(obs, n)
	if err != nil {
		return nil, fmt.Errorf("logProb: %v", err)
	}

	logProbs := make([]float64, n)
	for row := 0; row < n; row++ {
		for i := 0; i < g.actionDims; i++ {
			dist := distuv.Normal{
				Mu:    float64(means[row*g.actionDims+i]),
				Sigma: g.std(i),
			}
			logProbs[row] += dist.LogProb(float64(actions[row*g.actionDims+i]))
		}
	}
	return logProbs, nil
}

// std returns the standard deviation of action dimension i
func (g *Gaussian) std(i int) float64 {
	return math.Exp(g.logStd[i]) + stdOffset
}

// LogStd returns a copy of the log standard deviation vector
func (g *Gaussian) LogStd() []float64 {
	return append([]float64(nil), g.logStd...)
}

// SetLogStd sets the log standard deviation vector
func (g *Gaussian) SetLogStd(logStd []float64) error {
	if len(logStd) != g.actionDims {
		return fmt.Errorf("setLogStd: illegal length \n\twant(%v)\n\thave(%v)",
			g.actionDims, len(logStd))
	}
	copy(g.logStd, logStd)
	return nil
}

// Network returns the MLP which predicts the policy mean
func (g *Gaussian) Network() *network.MLP {
	return g.net
}

// Eval sets the policy to evaluation mode
func (g *Gaussian) Eval() {
	g.eval = true
}

// Train sets the policy to training mode
func (g *Gaussian) Train() {
	g.eval = false
}

// IsEval returns whether the policy is in evaluation mode
func (g *Gaussian) IsEval() bool {
	return g.eval
}
