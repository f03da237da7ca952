// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes how an episode ended. An episode that ends because
// the environment dynamics reached a terminal state has no future
// value; an episode cut off by some external limit does.
type EndType int

const (
	// TerminalStateReached means the environment's own dynamics ended
	// the episode
	TerminalStateReached EndType = iota

	// Timeout means an external limit, such as a step cap, truncated
	// the episode
	Timeout

	// Unknown is the EndType of any TimeStep which is not Last
	Unknown
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// TimeStep packages together a single timestep in an environment. Each
// TimeStep holds the reward and cost signals produced by the action
// which led to Observation.
type TimeStep struct {
	StepType
	EndType
	Reward      float64
	Cost        float64
	Observation *mat.VecDense
	Number      int
}

// New returns a new TimeStep. The EndType of the step is Unknown until
// an environment sets it when the episode ends.
func New(t StepType, r, c float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		EndType:     Unknown,
		Reward:      r,
		Cost:        c,
		Observation: o,
		Number:      n,
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// TerminalEnd returns whether the episode ended because a terminal
// state was reached
func (t *TimeStep) TerminalEnd() bool {
	return t.Last() && t.EndType == TerminalStateReached
}

// Truncated returns whether the episode was cut off before reaching a
// terminal state
func (t *TimeStep) Truncated() bool {
	return t.Last() && t.EndType == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  End: %v  |  Reward:  %.2f  |  " +
		"Cost:  %.2f  |  Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.EndType, t.Reward, t.Cost, t.Number)
}
