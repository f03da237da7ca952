package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/focops/agent/policy"
	"github.com/samuelfneumann/focops/collector"
	"github.com/samuelfneumann/focops/environment"
	"github.com/samuelfneumann/focops/environment/classiccontrol/pendulum"
	"github.com/samuelfneumann/focops/experiment"
	"github.com/samuelfneumann/focops/experiment/checkpointer"
	"github.com/samuelfneumann/focops/experiment/trackers"
	"github.com/samuelfneumann/focops/network"
	"github.com/samuelfneumann/focops/normalize"
	"github.com/samuelfneumann/focops/utils/progressbar"
	"gonum.org/v1/gonum/spatial/r1"
)

// Available pendulum tasks
const (
	swingUp = "swingup"
	balance = "balance"
)

// newEnvironment returns the pendulum environment described by c
func newEnvironment(c EnvConfig, seed uint64) (environment.Environment,
	error) {
	bounds := r1.Interval{Min: -c.StartBound, Max: c.StartBound}
	starter, err := environment.NewUniformStarter([]r1.Interval{bounds,
		bounds}, seed)
	if err != nil {
		return nil, fmt.Errorf("newEnvironment: %v", err)
	}

	var task environment.Task
	switch c.Task {
	case swingUp:
		task = pendulum.NewSwingUp(starter, c.EpisodeSteps)
	case balance:
		task = pendulum.NewBalance(starter, c.EpisodeSteps, c.AngleLimit)
	default:
		return nil, fmt.Errorf("newEnvironment: unknown task %q", c.Task)
	}

	env, _, err := pendulum.New(task)
	if err != nil {
		return nil, fmt.Errorf("newEnvironment: %v", err)
	}
	return env, nil
}

// newMLP returns the MLP described by c
func newMLP(c NetConfig, features, outputs int) (*network.MLP, error) {
	return network.NewMLP(features, outputs, c.HiddenSizes, c.Activations,
		c.Init.InitWFn())
}

// output returns the path of name in the output directory, or the
// empty string if nothing should be saved
func (c Config) output(name string) string {
	if c.OutputDir == "" {
		return ""
	}
	return filepath.Join(c.OutputDir, name)
}

// run runs the experiment described by config. If progress is not nil,
// a progress bar over the collection iterations is printed to it.
func run(config Config, logger zerolog.Logger, progress io.Writer) error {
	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0o755); err != nil {
			return fmt.Errorf("run: could not create output directory: %v",
				err)
		}
	}

	env, err := newEnvironment(config.Environment, config.Seed)
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}

	c, err := collector.New(env, config.Collector)
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	c.SetLogger(logger)

	if config.Normalize {
		stat, err := normalize.NewRunningStat(env.ObservationSpec().Dims(),
			normalize.DefaultClip)
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
		c.SetNormalizer(stat)
	}

	score, err := trackers.NewScore(config.Window, config.output("score.bin"))
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	costScore, err := trackers.NewScore(config.Window,
		config.output("cost_score.bin"))
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	c.Register(score, costScore)

	meanNet, err := newMLP(config.Policy.NetConfig, c.Features(),
		c.ActionDims())
	if err != nil {
		return fmt.Errorf("run: could not create policy: %v", err)
	}
	pol, err := policy.NewGaussian(meanNet, config.Policy.Std, config.Seed)
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	value, err := newMLP(config.Value, c.Features(), 1)
	if err != nil {
		return fmt.Errorf("run: could not create value function: %v", err)
	}
	costValue, err := newMLP(config.CostValue, c.Features(), 1)
	if err != nil {
		return fmt.Errorf("run: could not create cost value function: %v",
			err)
	}

	exp, err := experiment.NewOnPolicy(c, pol, value, costValue,
		config.Iterations)
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	exp.SetLogger(logger)

	for _, stat := range []experiment.Stat{
		experiment.AvgCost,
		experiment.StdCost,
		experiment.AvgEpisodeLength,
		experiment.AvgReturn,
	} {
		t, err := trackers.NewScore(config.Window,
			config.output(string(stat)+".bin"))
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
		if err := exp.Register(stat, t); err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}

	if config.OutputDir != "" && config.CheckpointInterval > 0 {
		nets := map[string]*network.MLP{
			"policy":     meanNet,
			"value":      value,
			"cost_value": costValue,
		}
		for name, net := range nets {
			ckpt, err := checkpointer.NewNStep(config.CheckpointInterval, net,
				checkpointer.ByIteration(config.output(name), ".bin"))
			if err != nil {
				return fmt.Errorf("run: %v", err)
			}
			exp.AddCheckpointer(ckpt)
		}
	}

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.New(progress, 40, config.Iterations)
		bar.Display()
	}
	for i := 0; i < config.Iterations; i++ {
		if _, _, err := exp.RunIteration(); err != nil {
			return fmt.Errorf("run: %v", err)
		}
		if bar != nil {
			bar.Increment()
			bar.Display()
		}
	}
	if bar != nil {
		bar.Close()
	}

	logger.Info().
		Float64("min_return", score.Min()).
		Float64("max_return", score.Max()).
		Float64("avg_return", score.Mean()).
		Float64("min_cost", costScore.Min()).
		Float64("max_cost", costScore.Max()).
		Float64("avg_cost", costScore.Mean()).
		Int("episodes", score.Total()).
		Msg("Experiment finished")

	for _, s := range []*trackers.Score{score, costScore} {
		if err := s.Save(); err != nil {
			return fmt.Errorf("run: %v", err)
		}
	}
	if err := exp.Save(); err != nil {
		return fmt.Errorf("run: %v", err)
	}

	return nil
}
