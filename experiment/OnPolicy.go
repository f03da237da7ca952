// Package experiment implements functionality for running an on-policy
// experiment
package experiment

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/focops/agent"
	"github.com/samuelfneumann/focops/buffer/batch"
	"github.com/samuelfneumann/focops/collector"
	"github.com/samuelfneumann/focops/experiment/checkpointer"
	"github.com/samuelfneumann/focops/experiment/trackers"
)

// Updater consumes each collected batch, for example by taking
// gradient steps on the policy and value functions
type Updater interface {
	Update(b *batch.Batch, stats collector.Stats) error
}

// Stat names a per-iteration statistic which can be tracked
type Stat string

// Available statistics
const (
	AvgCost          Stat = "avg_cost"
	StdCost          Stat = "std_cost"
	AvgEpisodeLength Stat = "avg_episode_length"
	AvgReturn        Stat = "avg_return"
	Episodes         Stat = "episodes"
)

// value returns the value of stat in s
func (stat Stat) value(s collector.Stats) (float64, error) {
	switch stat {
	case AvgCost:
		return s.AvgCost, nil
	case StdCost:
		return s.StdCost, nil
	case AvgEpisodeLength:
		return s.AvgEpisodeLength, nil
	case AvgReturn:
		return s.AvgReturn, nil
	case Episodes:
		return float64(s.Episodes), nil
	default:
		return 0, fmt.Errorf("value: unknown statistic %q", stat)
	}
}

// OnPolicy runs a fixed number of collection iterations. On each
// iteration, a batch is collected with the current policy and value
// functions, then handed to the Updater if one is set.
//
// Per-iteration statistics are sent to registered Trackers, and
// registered Checkpointers are given the chance to save after each
// iteration.
type OnPolicy struct {
	collector  *collector.Collector
	policy     agent.Policy
	value      agent.ValueFunction
	costValue  agent.ValueFunction
	iterations int
	current    int

	updater       Updater
	trackers      map[Stat][]trackers.Tracker
	checkpointers []checkpointer.Checkpointer

	logger zerolog.Logger
}

// NewOnPolicy returns a new OnPolicy experiment which runs iterations
// collection iterations
func NewOnPolicy(c *collector.Collector, policy agent.Policy, value,
	costValue agent.ValueFunction, iterations int) (*OnPolicy, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("newOnPolicy: iterations must be positive "+
			"\n\twant(>0)\n\thave(%v)", iterations)
	}

	return &OnPolicy{
		collector:  c,
		policy:     policy,
		value:      value,
		costValue:  costValue,
		iterations: iterations,
		trackers:   make(map[Stat][]trackers.Tracker),
		logger:     zerolog.Nop(),
	}, nil
}

// SetUpdater sets the Updater which consumes each collected batch
func (o *OnPolicy) SetUpdater(u Updater) {
	o.updater = u
}

// Register registers a Tracker which receives the value of stat after
// each iteration
func (o *OnPolicy) Register(stat Stat, t trackers.Tracker) error {
	if _, err := stat.value(collector.Stats{}); err != nil {
		return fmt.Errorf("register: %v", err)
	}
	o.trackers[stat] = append(o.trackers[stat], t)
	return nil
}

// AddCheckpointer adds a Checkpointer which is called after each
// iteration
func (o *OnPolicy) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// SetLogger sets the logger of the experiment
func (o *OnPolicy) SetLogger(logger zerolog.Logger) {
	o.logger = logger.With().Str("component", "experiment").Logger()
}

// Iteration returns the number of iterations completed
func (o *OnPolicy) Iteration() int {
	return o.current
}

// RunIteration runs a single collection iteration and returns the
// collected batch and its statistics
func (o *OnPolicy) RunIteration() (*batch.Batch, collector.Stats, error) {
	b, stats, err := o.collector.Collect(o.policy, o.value, o.costValue)
	if err != nil {
		return nil, collector.Stats{}, fmt.Errorf("runIteration: %w", err)
	}
	o.current++

	if o.updater != nil {
		if err := o.updater.Update(b, stats); err != nil {
			return nil, collector.Stats{}, fmt.Errorf("runIteration: could "+
				"not update: %w", err)
		}
	}

	for stat, ts := range o.trackers {
		v, _ := stat.value(stats)
		for _, t := range ts {
			t.Append(v)
		}
	}

	for _, c := range o.checkpointers {
		if err := c.Checkpoint(o.current); err != nil {
			return nil, collector.Stats{}, fmt.Errorf("runIteration: could "+
				"not checkpoint: %w", err)
		}
	}

	o.logger.Info().
		Int("iteration", o.current).
		Int("episodes", stats.Episodes).
		Float64("avg_return", stats.AvgReturn).
		Float64("avg_cost", stats.AvgCost).
		Float64("std_cost", stats.StdCost).
		Float64("avg_episode_length", stats.AvgEpisodeLength).
		Msg("Iteration finished")

	return b, stats, nil
}

// Run runs all remaining iterations of the experiment
func (o *OnPolicy) Run() error {
	for o.current < o.iterations {
		if _, _, err := o.RunIteration(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	return nil
}

// Save saves the data of all registered Trackers to disk
func (o *OnPolicy) Save() error {
	for stat, ts := range o.trackers {
		for _, t := range ts {
			if err := t.Save(); err != nil {
				return fmt.Errorf("save: %v: %v", stat, err)
			}
		}
	}
	return nil
}
