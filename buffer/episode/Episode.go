// Package episode implements a fixed-capacity buffer which accumulates
// the transitions of a single episode
package episode

import (
	"fmt"
)

// Buffer stores the transitions of one episode. All storage is
// allocated once, up front, for the maximum episode length and reused
// between episodes; the logical length of the current episode is
// tracked separately from the capacity of the storage.
//
// Each transition consists of an (augmented) observation, the action
// taken, the (augmented) next observation, and the reward and cost
// which followed the action.
type Buffer struct {
	features   int // Size of (augmented) observations
	actionDims int // Number of action dimensions
	maxLength  int // Maximum episode length

	length int

	obsBuffer     []float32
	nextObsBuffer []float32
	actBuffer     []float32
	rewBuffer     []float32
	costBuffer    []float32
}

// New creates and returns a new episode Buffer
func New(features, actionDims, maxLength int) (*Buffer, error) {
	if features < 1 || actionDims < 1 {
		return nil, &Error{"new", fmt.Errorf("%w: observations and actions "+
			"must have at least one dimension", errDims)}
	}
	if maxLength < 1 {
		return nil, fmt.Errorf("new: maximum episode length must be positive")
	}

	return &Buffer{
		features:      features,
		actionDims:    actionDims,
		maxLength:     maxLength,
		obsBuffer:     make([]float32, maxLength*features),
		nextObsBuffer: make([]float32, maxLength*features),
		actBuffer:     make([]float32, maxLength*actionDims),
		rewBuffer:     make([]float32, maxLength),
		costBuffer:    make([]float32, maxLength),
	}, nil
}

// Len returns the number of transitions recorded in the current episode
func (b *Buffer) Len() int {
	return b.length
}

// Cap returns the maximum episode length the Buffer can store
func (b *Buffer) Cap() int {
	return b.maxLength
}

// Record stores a single transition at logical index t of the current
// episode. Transitions must be recorded in order, so t must equal the
// number of transitions already recorded.
func (b *Buffer) Record(t int, obs, act, nextObs []float32, reward,
	cost float32) error {
	if b.length >= b.maxLength {
		return &Error{"record", errFull}
	}
	if t != b.length {
		return fmt.Errorf("record: transitions must be recorded in order "+
			"\n\twant(%v)\n\thave(%v)", b.length, t)
	}
	if len(obs) != b.features {
		return &Error{"record", fmt.Errorf("%w: obs length \n\twant(%v)"+
			"\n\thave(%v)", errDims, b.features, len(obs))}
	}
	if len(nextObs) != b.features {
		return &Error{"record", fmt.Errorf("%w: next obs length "+
			"\n\twant(%v)\n\thave(%v)", errDims, b.features, len(nextObs))}
	}
	if len(act) != b.actionDims {
		return &Error{"record", fmt.Errorf("%w: act length \n\twant(%v)"+
			"\n\thave(%v)", errDims, b.actionDims, len(act))}
	}

	start := t * b.features
	copy(b.obsBuffer[start:start+b.features], obs)
	copy(b.nextObsBuffer[start:start+b.features], nextObs)

	start = t * b.actionDims
	copy(b.actBuffer[start:start+b.actionDims], act)

	b.rewBuffer[t] = reward
	b.costBuffer[t] = cost
	b.length++
	return nil
}

// Finalize ends the current episode and returns it trimmed to its
// length. The terminal argument should be true only if the episode
// ended because the environment reached a terminal state.
//
// The returned Episode shares storage with the Buffer and is only valid
// until the next call to Reset.
func (b *Buffer) Finalize(terminal bool) (*Episode, error) {
	if b.length == 0 {
		return nil, &Error{"finalize", errEmpty}
	}

	return &Episode{
		Features:     b.features,
		ActionDims:   b.actionDims,
		Terminal:     terminal,
		Observations: b.obsBuffer[:b.length*b.features],
		NextObs:      b.nextObsBuffer[:b.length*b.features],
		Actions:      b.actBuffer[:b.length*b.actionDims],
		Rewards:      b.rewBuffer[:b.length],
		Costs:        b.costBuffer[:b.length],
	}, nil
}

// Reset clears the Buffer so that it can be reused for the next
// episode. All stored transitions are zeroed.
func (b *Buffer) Reset() {
	for _, buf := range [][]float32{b.obsBuffer, b.nextObsBuffer,
		b.actBuffer, b.rewBuffer, b.costBuffer} {
		for i := range buf {
			buf[i] = 0
		}
	}
	b.length = 0
}

// Episode is a finished episode. Observations, NextObs, and Actions
// are row-major with one row per step.
type Episode struct {
	Features   int
	ActionDims int

	// Terminal is true if the episode ended in a terminal state, in
	// which case the value of the final next observation is zero
	Terminal bool

	Observations []float32
	NextObs      []float32
	Actions      []float32
	Rewards      []float32
	Costs        []float32
}

// Len returns the number of steps in the episode
func (e *Episode) Len() int {
	return len(e.Rewards)
}

// Observation returns the observation at step t
func (e *Episode) Observation(t int) []float32 {
	return e.Observations[t*e.Features : (t+1)*e.Features]
}

// Action returns the action at step t
func (e *Episode) Action(t int) []float32 {
	return e.Actions[t*e.ActionDims : (t+1)*e.ActionDims]
}
