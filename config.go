package main

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/focops/collector"
	"github.com/samuelfneumann/focops/initwfn"
	"github.com/samuelfneumann/focops/network"
	"gopkg.in/yaml.v3"
)

// Config describes a collection experiment
type Config struct {
	Seed       uint64 `yaml:"seed"`
	Iterations int    `yaml:"iterations"`

	// OutputDir is where score histories and checkpoints are saved. If
	// empty, nothing is saved.
	OutputDir          string `yaml:"output_dir"`
	CheckpointInterval int    `yaml:"checkpoint_interval"`

	// Window is the number of recent episodes summarized by the score
	// queues
	Window int `yaml:"window"`

	// Normalize determines whether observations are normalized with
	// running statistics
	Normalize bool `yaml:"normalize"`

	Collector   collector.Config `yaml:"collector"`
	Environment EnvConfig        `yaml:"environment"`
	Policy      PolicyConfig     `yaml:"policy"`
	Value       NetConfig        `yaml:"value"`
	CostValue   NetConfig        `yaml:"cost_value"`
}

// EnvConfig describes the pendulum task to collect experience from
type EnvConfig struct {
	// Task is either swingup or balance
	Task         string  `yaml:"task"`
	EpisodeSteps int     `yaml:"episode_steps"`
	StartBound   float64 `yaml:"start_bound"`

	// AngleLimit is the absolute angle past which a balance episode
	// terminates
	AngleLimit float64 `yaml:"angle_limit"`
}

// NetConfig describes an MLP
type NetConfig struct {
	HiddenSizes []int                 `yaml:"hidden_sizes"`
	Activations []*network.Activation `yaml:"activations"`
	Init        *initwfn.InitWFn      `yaml:"init"`
}

// PolicyConfig describes a Gaussian policy
type PolicyConfig struct {
	NetConfig `yaml:",inline"`
	Std       float64 `yaml:"std"`
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("validate: iterations must be positive")
	}
	if c.Window < 1 {
		return fmt.Errorf("validate: window must be positive")
	}
	if c.CheckpointInterval < 0 {
		return fmt.Errorf("validate: checkpoint interval must be " +
			"non-negative")
	}
	if err := c.Collector.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}

	switch c.Environment.Task {
	case swingUp:
	case balance:
		if c.Environment.AngleLimit <= 0 {
			return fmt.Errorf("validate: balance angle limit must be " +
				"positive")
		}
	default:
		return fmt.Errorf("validate: unknown task %q", c.Environment.Task)
	}
	if c.Environment.EpisodeSteps < 1 {
		return fmt.Errorf("validate: episode steps must be positive")
	}
	if c.Environment.StartBound < 0 {
		return fmt.Errorf("validate: start bound must be non-negative")
	}

	nets := map[string]NetConfig{
		"policy":     c.Policy.NetConfig,
		"value":      c.Value,
		"cost_value": c.CostValue,
	}
	for name, net := range nets {
		if len(net.HiddenSizes) != len(net.Activations) {
			return fmt.Errorf("validate: %v: invalid number of activations"+
				"\n\twant(%d)\n\thave(%d)", name, len(net.HiddenSizes),
				len(net.Activations))
		}
		if net.Init == nil {
			return fmt.Errorf("validate: %v: missing weight initializer",
				name)
		}
	}
	if c.Policy.Std <= 0 {
		return fmt.Errorf("validate: policy standard deviation must be " +
			"positive")
	}

	return nil
}

// defaultConfig returns the Config which values missing from a
// configuration file take
func defaultConfig() Config {
	return Config{
		Seed:       1,
		Iterations: 1,
		Window:     100,
		Normalize:  true,
		Collector: collector.Config{
			BatchSize:        2048,
			MaxEpisodeLength: 1000,
			Gamma:            0.99,
			Lambda:           0.95,
			CostGamma:        0.99,
			CostLambda:       0.95,
		},
		Environment: EnvConfig{
			Task:         swingUp,
			EpisodeSteps: 200,
			StartBound:   0.1,
		},
		Policy: PolicyConfig{Std: 0.5},
	}
}

// loadConfig reads a YAML Config from filename
func loadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not read %v: %v",
			filename, err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not parse %v: %v",
			filename, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("loadConfig: %v", err)
	}

	return config, nil
}
