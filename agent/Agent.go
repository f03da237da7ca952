// Package agent defines the function approximators consumed during
// on-policy data collection
package agent

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A Policy receives
// observations augmented with any action history and returns the
// action to take. Sampling from a stochastic policy is the Policy's own
// concern.
type Policy interface {
	SelectAction(obs []float32) ([]float32, error)
}

// EvalPolicy is a Policy which can be switched between training mode,
// where actions are sampled, and evaluation mode, where actions are
// selected greedily
type EvalPolicy interface {
	Policy
	Eval()  // Set policy to evaluation mode
	Train() // Set policy to training mode
	IsEval() bool
}

// ValueFunction predicts the value of states.
//
// Values returns one prediction for each of n observations stored
// row-major in obs. Implementations must not track gradients or
// otherwise change state when predicting, so that predictions depend
// only on the current weights.
type ValueFunction interface {
	Values(obs []float32, n int) ([]float32, error)
}

// ValueFunc adapts an ordinary function to a ValueFunction
type ValueFunc func(obs []float32, n int) ([]float32, error)

// Values calls f(obs, n)
func (f ValueFunc) Values(obs []float32, n int) ([]float32, error) {
	return f(obs, n)
}
