// Package pendulum implements the pendulum classic control environment
// with a cost signal on each transition
package pendulum

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/focops/environment"
	"github.com/samuelfneumann/focops/timestep"
	"github.com/samuelfneumann/focops/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	MaxContinuousAction float64 = TorqueBound
	MinContinuousAction float64 = -MaxContinuousAction

	dt              float64 = 0.05
	Gravity         float64 = 9.8
	Mass            float64 = 1.0
	Length          float64 = 1.0
	ActionDims      int     = 1
	ObservationDims int     = 2
)

// Pendulum implements the classic control environment Pendulum. In
// this environment, a pendulum is attached to a fixed base. An agent can
// swing the pendulum back and forth, but the swinging force/torque is
// underpowered. In order to be able to swing the pendulum straight up,
// it must first be rocked back and forth, using the momentum to
// gradually climb higher until the pendulum can point straight up or
// rotate fully around its fixed base.
//
// State features consist of the angle of the pendulum from the positive
// y-axis and the angular velocity of the pendulum. The angular velocity
// is clipped between [-SpeedBound, SpeedBound] and angles are
// normalized to stay within [-AngleBound, AngleBound] = [-π, π].
//
// Actions are continuous and 1-dimensional torques applied at the fixed
// base, clipped to [MinContinuousAction, MaxContinuousAction].
//
// Rewards and costs are determined by the Task; episode ends are
// determined by the Task's Ender.
type Pendulum struct {
	environment.Task
	gravity      float64
	mass         float64
	length       float64
	angleBounds  r1.Interval
	speedBounds  r1.Interval
	torqueBounds r1.Interval
	lastStep     timestep.TimeStep
}

// New creates and returns a new Pendulum environment
func New(t environment.Task) (*Pendulum, timestep.TimeStep, error) {
	p := &Pendulum{
		Task:         t,
		gravity:      Gravity,
		mass:         Mass,
		length:       Length,
		angleBounds:  r1.Interval{Min: -AngleBound, Max: AngleBound},
		speedBounds:  r1.Interval{Min: -SpeedBound, Max: SpeedBound},
		torqueBounds: r1.Interval{Min: -TorqueBound, Max: TorqueBound},
	}

	step, err := p.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %v", err)
	}
	return p, step, nil
}

// Reset resets the environment and returns a starting state drawn from the
// Starter
func (p *Pendulum) Reset() (timestep.TimeStep, error) {
	state := p.Start()
	if spec := p.ObservationSpec(); !spec.Contains(state) {
		return timestep.TimeStep{}, fmt.Errorf("reset: starting state %v "+
			"outside of bounds %v", mat.Formatted(state.T()), spec.Bounds)
	}

	startStep := timestep.New(timestep.First, 0, 0, state, 0)
	p.lastStep = startStep

	return startStep, nil
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended.
func (p *Pendulum) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if action.Len() != ActionDims {
		return timestep.TimeStep{}, false, fmt.Errorf("step: illegal "+
			"action dimensions \n\twant(%v) \n\thave(%v)", ActionDims,
			action.Len())
	}

	torque := p.ActionSpec().Clip(action).AtVec(0)
	state := p.lastStep.Observation
	nextState := p.nextState(state, torque)

	reward := p.GetReward(state, action, nextState)
	cost := p.GetCost(state, action, nextState)
	nextStep := timestep.New(timestep.Mid, reward, cost, nextState,
		p.lastStep.Number+1)

	// Check if the step is the last in the episode and adjust step type
	// if necessary
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// nextState computes the next state of the environment given a state
// and an amount of torque to apply to the fixed base of the pendulum.
func (p *Pendulum) nextState(obs mat.Vector, torque float64) *mat.VecDense {
	th, thdot := obs.AtVec(0), obs.AtVec(1)

	newthdot := thdot + (-3*p.gravity/(2*p.length)*math.Sin(th+math.Pi)+
		3.0/(p.mass*math.Pow(p.length, 2))*torque)*dt

	newth := th + (newthdot * dt)

	newthdot = floatutils.ClipInterval(newthdot, p.speedBounds)
	newth = floatutils.Wrap(newth, p.angleBounds)

	return mat.NewVecDense(ObservationDims, []float64{newth, newthdot})
}

// ActionSpec returns the action specification of the environment
func (p *Pendulum) ActionSpec() environment.Spec {
	return environment.NewSpec(environment.Action,
		[]r1.Interval{p.torqueBounds}, environment.Continuous)
}

// ObservationSpec returns the observation specification of the environment
func (p *Pendulum) ObservationSpec() environment.Spec {
	return environment.NewSpec(environment.Observation,
		[]r1.Interval{p.angleBounds, p.speedBounds}, environment.Continuous)
}

// String converts the environment to a string representation
func (p *Pendulum) String() string {
	str := "Pendulum  |  theta: %v  |  theta dot: %v"
	theta := p.lastStep.Observation.AtVec(0)
	thetadot := p.lastStep.Observation.AtVec(1)

	return fmt.Sprintf(str, theta, thetadot)
}
