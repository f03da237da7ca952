// Package environment outlines the interfaces and sturcts needed to implement
// concrete environments
package environment

import (
	"github.com/samuelfneumann/focops/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. If an episode should end, End
// modifies the TimeStep so that its StepType is timestep.Last and its
// EndType reflects how the episode ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward and cost scheme for taking actions in some
// environment. Rewards and costs are computed on the transition from
// state to nextState under action.
type Task interface {
	Starter
	Ender
	GetReward(state, action, nextState mat.Vector) float64
	GetCost(state, action, nextState mat.Vector) float64
}

// Environment implements a simualted environment, which includes a Task to
// complete. Observation and action dimensions must remain fixed for the
// lifetime of an Environment.
type Environment interface {
	// Reset resets the environment between episodes and returns the
	// first TimeStep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given an action and returns the
	// next TimeStep and whether or not the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	ObservationSpec() Spec
	ActionSpec() Spec
}
