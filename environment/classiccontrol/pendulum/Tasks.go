package pendulum

import (
	"math"

	"github.com/samuelfneumann/focops/environment"
	"github.com/samuelfneumann/focops/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// SwingUp implements a task where the agent must swing the pendulum up
// and hold it in a vertical position. Rewards are the cosine of the
// pendulum angle measured from the positive y-axis. The goal state
// is the pendulum sticking straight up, at which point the agent gets
// a reward of 1.0 on each timestep.
//
// Costs implement a velocity constraint: the cost of each transition
// is the absolute angular velocity of the pendulum after the
// transition. Episodes are truncated after a fixed number of steps.
type SwingUp struct {
	environment.Starter
	environment.Ender
}

// NewSwingUp creates and returns a new SwingUp task
func NewSwingUp(s environment.Starter, maxSteps int) *SwingUp {
	ender := environment.NewStepLimit(maxSteps)
	return &SwingUp{s, ender}
}

// GetReward gets the reward for a transition
func (s *SwingUp) GetReward(_, _, nextState mat.Vector) float64 {
	th := nextState.AtVec(0)
	return math.Cos(th)
}

// GetCost gets the velocity cost for a transition
func (s *SwingUp) GetCost(_, _, nextState mat.Vector) float64 {
	return math.Abs(nextState.AtVec(1))
}

// Balance implements a task where the agent starts near the upright
// position and must keep the pendulum balanced. Rewards are +1 for
// each step the pendulum stays within angleLimit of vertical, costs are
// the absolute angular velocity as in SwingUp. The episode terminates
// when the pendulum falls outside of angleLimit and is truncated after
// a fixed number of steps.
type Balance struct {
	environment.Starter
	environment.Ender
}

// NewBalance creates and returns a new Balance task
func NewBalance(s environment.Starter, maxSteps int,
	angleLimit float64) *Balance {
	fall := environment.NewIntervalLimit(
		[]r1.Interval{{Min: -angleLimit, Max: angleLimit}},
		[]int{0},
		timestep.TerminalStateReached,
	)

	ender := environment.Enders{fall, environment.NewStepLimit(maxSteps)}
	return &Balance{s, ender}
}

// GetReward gets the reward for a transition
func (b *Balance) GetReward(_, _, _ mat.Vector) float64 {
	return 1.0
}

// GetCost gets the velocity cost for a transition
func (b *Balance) GetCost(_, _, nextState mat.Vector) float64 {
	return math.Abs(nextState.AtVec(1))
}
