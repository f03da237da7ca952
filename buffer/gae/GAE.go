// Package gae implements generalized advantage estimation over finished
// episodes
package gae

import (
	"fmt"

	"github.com/samuelfneumann/focops/agent"
	"github.com/samuelfneumann/focops/buffer/episode"
)

// Signal selects which per-step scalar drives the advantage estimate
type Signal int

const (
	Reward Signal = iota
	Cost
)

func (s Signal) String() string {
	switch s {
	case Reward:
		return "Reward"
	case Cost:
		return "Cost"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// signal returns the per-step values of the selected signal
func (s Signal) signal(ep *episode.Episode) ([]float32, error) {
	switch s {
	case Reward:
		return ep.Rewards, nil
	case Cost:
		return ep.Costs, nil
	default:
		return nil, fmt.Errorf("illegal signal %v", s)
	}
}

// Estimate computes GAE(λ) advantages and value targets for a finished
// episode following https://arxiv.org/abs/1506.02438, using the
// backward recursion
//
//	δ[t] = s[t] + ℽ V(s'[t]) m[t] - V(s[t])
//	A[t] = δ[t] + ℽλ A[t+1],    A[L] = 0
//
// where s is the selected signal and m is the bootstrap multiplier. The
// multiplier is 1 everywhere except at the last step of a terminal
// episode, where the next state has no value. Value targets are
// V(s[t]) + A[t].
//
// The value function is evaluated once over all observations and once
// over all next observations of the episode. All arithmetic is done in
// float32.
func Estimate(ep *episode.Episode, valueFn agent.ValueFunction, gamma,
	lambda float32, s Signal) (advantages, targets []float32, err error) {
	length := ep.Len()
	if length == 0 {
		return nil, nil, fmt.Errorf("estimate: cannot estimate advantages " +
			"of an empty episode")
	}

	signal, err := s.signal(ep)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate: %v", err)
	}

	values, err := predict(valueFn, ep.Observations, length)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate: could not predict state "+
			"values: %w", err)
	}
	nextValues, err := predict(valueFn, ep.NextObs, length)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate: could not predict next "+
			"state values: %w", err)
	}

	// The next state of a terminal step has no value
	var bootstrap float32 = 1
	if ep.Terminal {
		bootstrap = 0
	}

	advantages = make([]float32, length)
	var prevAdv float32
	for t := length - 1; t >= 0; t-- {
		var mult float32 = 1
		if t == length-1 {
			mult = bootstrap
		}

		delta := signal[t] + gamma*nextValues[t]*mult - values[t]
		advantages[t] = delta + gamma*lambda*prevAdv
		prevAdv = advantages[t]
	}

	targets = make([]float32, length)
	for t := range targets {
		targets[t] = values[t] + advantages[t]
	}

	return advantages, targets, nil
}

// predict evaluates the value function on n observations and ensures
// exactly one value is returned per observation
func predict(valueFn agent.ValueFunction, obs []float32, n int) ([]float32,
	error) {
	values, err := valueFn.Values(obs, n)
	if err != nil {
		return nil, err
	}
	if len(values) != n {
		return nil, fmt.Errorf("illegal number of values \n\twant(%v)"+
			"\n\thave(%v)", n, len(values))
	}
	return values, nil
}
