package collector

import "fmt"

// Config describes a Collector
type Config struct {
	// BatchSize is the number of transitions in each collected batch
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// MaxEpisodeLength bounds the number of steps recorded per episode
	MaxEpisodeLength int `json:"max_episode_length" yaml:"max_episode_length"`

	// DelaySteps is the number of previous actions appended to each
	// observation
	DelaySteps int `json:"delay_steps" yaml:"delay_steps"`

	Gamma      float64 `json:"gamma" yaml:"gamma"`
	Lambda     float64 `json:"lambda" yaml:"lambda"`
	CostGamma  float64 `json:"cost_gamma" yaml:"cost_gamma"`
	CostLambda float64 `json:"cost_lambda" yaml:"cost_lambda"`

	// CountPartialEpisodes determines whether episodes cut short
	// because the batch filled up are counted in the episode statistics
	// and score queues
	CountPartialEpisodes bool `json:"count_partial_episodes" yaml:"count_partial_episodes"`
}

// Validate checks a Config for errors
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be positive "+
			"\n\twant(>0)\n\thave(%v)", c.BatchSize)
	}
	if c.MaxEpisodeLength < 1 {
		return fmt.Errorf("validate: max episode length must be positive "+
			"\n\twant(>0)\n\thave(%v)", c.MaxEpisodeLength)
	}
	if c.DelaySteps < 0 {
		return fmt.Errorf("validate: delay steps must be non-negative "+
			"\n\twant(>=0)\n\thave(%v)", c.DelaySteps)
	}

	params := []struct {
		name  string
		value float64
	}{
		{"gamma", c.Gamma},
		{"lambda", c.Lambda},
		{"cost gamma", c.CostGamma},
		{"cost lambda", c.CostLambda},
	}
	for _, p := range params {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("validate: %v must be in [0, 1] \n\twant"+
				"([0, 1])\n\thave(%v)", p.name, p.value)
		}
	}

	return nil
}
