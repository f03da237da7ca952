// Package batch implements the fixed-size training batch assembled from
// finished episodes
package batch

import (
	"fmt"

	"github.com/samuelfneumann/focops/buffer/episode"
	"gorgonia.org/tensor"
)

// Batch stores the states, actions, value targets, and advantages of
// a fixed number of transitions for both the reward and cost signals.
// All arrays are allocated once, and are filled episode by episode at
// a write cursor which never exceeds the batch size.
type Batch struct {
	size       int
	features   int
	actionDims int
	cursor     int

	// States and Actions are row-major with one row per transition
	States           []float32
	Actions          []float32
	ValueTargets     []float32
	Advantages       []float32
	CostValueTargets []float32
	CostAdvantages   []float32
}

// New returns a new, empty Batch of size transitions
func New(size, features, actionDims int) (*Batch, error) {
	if size < 1 {
		return nil, fmt.Errorf("new: batch size must be positive")
	}
	if features < 1 || actionDims < 1 {
		return nil, fmt.Errorf("new: states and actions must have at " +
			"least one dimension")
	}

	return &Batch{
		size:             size,
		features:         features,
		actionDims:       actionDims,
		States:           make([]float32, size*features),
		Actions:          make([]float32, size*actionDims),
		ValueTargets:     make([]float32, size),
		Advantages:       make([]float32, size),
		CostValueTargets: make([]float32, size),
		CostAdvantages:   make([]float32, size),
	}, nil
}

// Size returns the number of transitions the Batch holds when full
func (b *Batch) Size() int {
	return b.size
}

// Cursor returns the index at which the next episode will be written
func (b *Batch) Cursor() int {
	return b.cursor
}

// Full returns whether the Batch has been completely filled
func (b *Batch) Full() bool {
	return b.cursor == b.size
}

// Write copies an episode along with its reward and cost advantages and
// value targets into the Batch at the write cursor, then advances the
// cursor by the episode length.
func (b *Batch) Write(ep *episode.Episode, adv, vTargets, cAdv,
	cvTargets []float32) error {
	length := ep.Len()
	if b.cursor+length > b.size {
		return fmt.Errorf("write: episode of length %v overflows batch "+
			"\n\twant(<= %v)\n\thave(%v)", length, b.size, b.cursor+length)
	}
	if ep.Features != b.features || ep.ActionDims != b.actionDims {
		return fmt.Errorf("write: illegal episode dimensions \n\twant(%v, %v)"+
			"\n\thave(%v, %v)", b.features, b.actionDims, ep.Features,
			ep.ActionDims)
	}
	for _, col := range [][]float32{adv, vTargets, cAdv, cvTargets} {
		if len(col) != length {
			return fmt.Errorf("write: illegal column length \n\twant(%v)"+
				"\n\thave(%v)", length, len(col))
		}
	}

	start, stop := b.cursor*b.features, (b.cursor+length)*b.features
	copy(b.States[start:stop], ep.Observations)

	start, stop = b.cursor*b.actionDims, (b.cursor+length)*b.actionDims
	copy(b.Actions[start:stop], ep.Actions)

	start, stop = b.cursor, b.cursor+length
	copy(b.Advantages[start:stop], adv)
	copy(b.ValueTargets[start:stop], vTargets)
	copy(b.CostAdvantages[start:stop], cAdv)
	copy(b.CostValueTargets[start:stop], cvTargets)

	b.cursor = stop
	return nil
}

// Tensors returns the batch arrays as tensors sharing storage with the
// Batch. States have shape [N, F], actions [N, A], and each target or
// advantage column [N, 1].
func (b *Batch) Tensors() map[string]*tensor.Dense {
	column := func(backing []float32) *tensor.Dense {
		return tensor.New(tensor.WithShape(b.size, 1),
			tensor.WithBacking(backing))
	}

	return map[string]*tensor.Dense{
		StatesKey: tensor.New(tensor.WithShape(b.size, b.features),
			tensor.WithBacking(b.States)),
		ActionsKey: tensor.New(tensor.WithShape(b.size, b.actionDims),
			tensor.WithBacking(b.Actions)),
		ValueTargetsKey:     column(b.ValueTargets),
		AdvantagesKey:       column(b.Advantages),
		CostValueTargetsKey: column(b.CostValueTargets),
		CostAdvantagesKey:   column(b.CostAdvantages),
	}
}

// Keys of the map returned by Tensors
const (
	StatesKey           = "states"
	ActionsKey          = "actions"
	ValueTargetsKey     = "v_targets"
	AdvantagesKey       = "advantages"
	CostValueTargetsKey = "cv_targets"
	CostAdvantagesKey   = "c_advantages"
)
